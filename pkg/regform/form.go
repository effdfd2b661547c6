package regform

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/thesyncim/regform/pkg/browser"
)

// Field ids on the registration page.
const (
	FieldFirstName = "input-firstname"
	FieldLastName  = "input-lastname"
	FieldEmail     = "input-email"
	FieldTelephone = "input-telephone"
	FieldPassword  = "input-password"
	FieldConfirm   = "input-confirm"
	FieldAgree     = "input-agree"
)

// XPath expressions for the page's controls and messages.
const (
	XPathSubmit     = `//input[@value="Continue"]`
	XPathAgreeLabel = `//label[@for="input-agree"]`
	XPathFieldError = `//div[@class="text-danger"]`
	XPathAlert      = `//div[@class="alert alert-danger alert-dismissible"]`
	XPathSuccess    = `//h1[@class="page-title my-3"]`
)

// Messages rendered by the storefront.
const (
	MsgFirstName      = "First Name must be between 1 and 32 characters!"
	MsgLastName       = "Last Name must be between 1 and 32 characters!"
	MsgEmail          = "E-Mail Address does not appear to be valid!"
	MsgTelephone      = "Telephone must be between 3 and 32 characters!"
	MsgPassword       = "Password must be between 4 and 20 characters!"
	MsgConfirm        = "Password confirmation does not match password!"
	MsgPrivacyPolicy  = "Warning: You must agree to the Privacy Policy!"
	MsgEmailExists    = "Warning: E-Mail Address is already registered!"
	MsgAccountCreated = "Your Account Has Been Created!"
)

// Registration holds the values typed into the form.
type Registration struct {
	FirstName string
	LastName  string
	Email     string
	Telephone string
	Password  string
	Confirm   string
}

// ValidRegistration returns values the storefront accepts.
func ValidRegistration() Registration {
	return Registration{
		FirstName: "James",
		LastName:  "Doe",
		Email:     "jdoe@example.com",
		Telephone: "0712345678",
		Password:  "12345",
		Confirm:   "12345",
	}
}

// DivContaining matches a div whose own text contains msg.
func DivContaining(msg string) string {
	return `//div[contains(text(),"` + msg + `")]`
}

// DivNormalized matches a div whose whitespace-normalized text equals msg.
func DivNormalized(msg string) string {
	return `//div[normalize-space()="` + msg + `"]`
}

// Form drives the registration page of one session.
type Form struct {
	session    browser.Session
	timeout    time.Duration
	submitWait time.Duration
	log        *zap.Logger
}

// NewForm wraps s. A zero timeout uses the element helpers' defaults;
// submitWait bounds how long Submit waits for the page to be replaced.
func NewForm(s browser.Session, timeout, submitWait time.Duration, log *zap.Logger) *Form {
	return &Form{
		session:    s,
		timeout:    timeout,
		submitWait: submitWait,
		log:        log,
	}
}

// Fill clears each input and types the value from r.
func (f *Form) Fill(ctx context.Context, r Registration) error {
	fields := []struct {
		id, value string
	}{
		{FieldFirstName, r.FirstName},
		{FieldLastName, r.LastName},
		{FieldEmail, r.Email},
		{FieldTelephone, r.Telephone},
		{FieldPassword, r.Password},
		{FieldConfirm, r.Confirm},
	}
	for _, field := range fields {
		el, err := browser.ElementByID(ctx, f.session, field.id, f.timeout)
		if err != nil {
			return err
		}
		if err := el.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear %s: %w", field.id, err)
		}
		if err := el.SendKeys(ctx, field.value); err != nil {
			return fmt.Errorf("failed to type into %s: %w", field.id, err)
		}
	}
	return nil
}

// EnsureAgreed checks the privacy policy box by clicking its label, unless
// the box is already checked. The box itself may be styled invisible.
func (f *Form) EnsureAgreed(ctx context.Context) error {
	box, err := f.session.Find(ctx, browser.ID(FieldAgree))
	switch {
	case browser.ErrNotFound.Has(err):
	case err != nil:
		return err
	default:
		checked, err := box.Selected(ctx)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", FieldAgree, err)
		}
		if checked {
			return nil
		}
	}

	label, err := browser.ElementByXPath(ctx, f.session, XPathAgreeLabel, f.timeout)
	if err != nil {
		return err
	}
	if err := label.Click(ctx); err != nil {
		return fmt.Errorf("failed to click privacy policy: %w", err)
	}
	return nil
}

// Submit clicks Continue and waits for the page to be replaced.
func (f *Form) Submit(ctx context.Context) error {
	btn, err := browser.ElementByXPath(ctx, f.session, XPathSubmit, f.timeout)
	if err != nil {
		return err
	}
	if err := btn.Click(ctx); err != nil {
		return fmt.Errorf("failed to click Continue: %w", err)
	}
	if !browser.WaitStale(ctx, btn, f.submitWait) {
		f.log.Debug("page not replaced after submit", zap.Duration("waited", f.submitWait))
	}
	return nil
}

// ExpectText waits for the element at xpath and compares its trimmed text
// with want.
func (f *Form) ExpectText(ctx context.Context, xpath, want string) error {
	el, err := browser.ElementByXPath(ctx, f.session, xpath, f.timeout)
	if err != nil {
		return err
	}
	got, err := el.Text(ctx)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", xpath, err)
	}
	if got = strings.TrimSpace(got); got != want {
		return ErrAssertion.New("%s: got %q, want %q", xpath, got, want)
	}
	return nil
}

// FieldErrors returns the text of every field-level error on the page.
func (f *Form) FieldErrors(ctx context.Context) ([]string, error) {
	els, err := f.session.FindAll(ctx, browser.XPath(XPathFieldError))
	if err != nil {
		return nil, err
	}
	texts := make([]string, 0, len(els))
	for _, el := range els {
		text, err := el.Text(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read field error: %w", err)
		}
		if text = strings.TrimSpace(text); text != "" {
			texts = append(texts, text)
		}
	}
	return texts, nil
}
