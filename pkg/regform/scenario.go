package regform

import (
	"context"
	"time"
)

// ScenarioTimeout is the budget of one scenario.
const ScenarioTimeout = 100 * time.Second

// Scenario is a linear sequence of steps against the registration form.
// It passes when Steps returns nil.
type Scenario struct {
	Name    string
	Timeout time.Duration
	Steps   func(ctx context.Context, f *Form) error
}

// Scenarios returns the checks in the order they must run. Later scenarios
// start from the page the earlier ones leave behind.
func Scenarios() []Scenario {
	return []Scenario{
		EmptySubmission(),
		InvalidEmail(),
		AccountCreated(),
	}
}

// EmptySubmission submits the untouched form and expects every field error
// plus the privacy policy warning.
func EmptySubmission() Scenario {
	return Scenario{
		Name:    "submit without all fields being filled",
		Timeout: ScenarioTimeout,
		Steps: func(ctx context.Context, f *Form) error {
			if err := f.Submit(ctx); err != nil {
				return err
			}

			expected := []struct {
				xpath, text string
			}{
				{DivContaining(MsgFirstName), MsgFirstName},
				{DivContaining(MsgLastName), MsgLastName},
				{DivContaining(MsgEmail), MsgEmail},
				{DivNormalized(MsgTelephone), MsgTelephone},
				{DivContaining(MsgPassword), MsgPassword},
				{XPathAlert, MsgPrivacyPolicy},
			}
			for _, e := range expected {
				if err := f.ExpectText(ctx, e.xpath, e.text); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// InvalidEmail submits an address without a top-level domain and expects the
// email error to be the only field error.
func InvalidEmail() Scenario {
	return Scenario{
		Name:    "invalid email address submission",
		Timeout: ScenarioTimeout,
		Steps: func(ctx context.Context, f *Form) error {
			r := ValidRegistration()
			r.Email = "john@gmail"

			if err := f.Fill(ctx, r); err != nil {
				return err
			}
			if err := f.EnsureAgreed(ctx); err != nil {
				return err
			}
			if err := f.Submit(ctx); err != nil {
				return err
			}
			if err := f.ExpectText(ctx, XPathFieldError, MsgEmail); err != nil {
				return err
			}

			got, err := f.FieldErrors(ctx)
			if err != nil {
				return err
			}
			if len(got) != 1 {
				return ErrAssertion.New("field errors: got %q, want only %q", got, MsgEmail)
			}
			return nil
		},
	}
}

// AccountCreated submits valid values and expects the success heading.
func AccountCreated() Scenario {
	return Scenario{
		Name:    "account created success message",
		Timeout: ScenarioTimeout,
		Steps: func(ctx context.Context, f *Form) error {
			if err := f.Fill(ctx, ValidRegistration()); err != nil {
				return err
			}
			if err := f.EnsureAgreed(ctx); err != nil {
				return err
			}
			if err := f.Submit(ctx); err != nil {
				return err
			}
			return f.ExpectText(ctx, XPathSuccess, MsgAccountCreated)
		},
	}
}
