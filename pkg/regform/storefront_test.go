package regform

import (
	"strings"

	"github.com/thesyncim/regform/pkg/browser"
	"github.com/thesyncim/regform/pkg/browser/testutil"
)

// storefront renders a scripted registration page into a fake session and
// validates submissions the way the real page does.
type storefront struct {
	sess   *testutil.FakeSession
	fields map[string]*testutil.FakeElement
	agree  *testutil.FakeElement

	// Overrides for tests that need the page to misbehave.
	messages    map[string]string
	extraErrors []string
}

func newStorefront(sess *testutil.FakeSession) *storefront {
	sf := &storefront{sess: sess, messages: map[string]string{}}
	sess.OnNavigate = func(string) {
		sf.render(Registration{}, false, nil, "")
	}
	return sf
}

func (sf *storefront) message(msg string) string {
	if m, ok := sf.messages[msg]; ok {
		return m
	}
	return msg
}

func (sf *storefront) render(r Registration, agreed bool, fieldErrs []string, alert string) {
	sf.sess.Reload()

	values := map[string]string{
		FieldFirstName: r.FirstName,
		FieldLastName:  r.LastName,
		FieldEmail:     r.Email,
		FieldTelephone: r.Telephone,
		FieldPassword:  r.Password,
		FieldConfirm:   r.Confirm,
	}
	sf.fields = make(map[string]*testutil.FakeElement, len(values))
	for id, v := range values {
		el := &testutil.FakeElement{Value: v}
		sf.fields[id] = el
		sf.sess.Put(browser.ID(id), el)
	}

	sf.agree = &testutil.FakeElement{Checked: agreed}
	sf.sess.Put(browser.ID(FieldAgree), sf.agree)
	label := &testutil.FakeElement{Label: "I have read and agree to the Privacy Policy"}
	label.OnClick = func() { sf.agree.Checked = !sf.agree.Checked }
	sf.sess.Put(browser.XPath(XPathAgreeLabel), label)

	submit := &testutil.FakeElement{}
	submit.OnClick = sf.submit
	sf.sess.Put(browser.XPath(XPathSubmit), submit)

	for _, msg := range append(fieldErrs, sf.extraErrors...) {
		el := &testutil.FakeElement{Label: sf.message(msg)}
		sf.sess.Put(browser.XPath(XPathFieldError), el)
		sf.sess.Put(browser.XPath(DivContaining(msg)), el)
		sf.sess.Put(browser.XPath(DivNormalized(msg)), el)
	}
	if alert != "" {
		sf.sess.Put(browser.XPath(XPathAlert), &testutil.FakeElement{Label: " " + sf.message(alert) + " "})
	}
}

func (sf *storefront) submit() {
	r := Registration{
		FirstName: sf.fields[FieldFirstName].Value,
		LastName:  sf.fields[FieldLastName].Value,
		Email:     sf.fields[FieldEmail].Value,
		Telephone: sf.fields[FieldTelephone].Value,
		Password:  sf.fields[FieldPassword].Value,
		Confirm:   sf.fields[FieldConfirm].Value,
	}
	agreed := sf.agree.Checked

	var fieldErrs []string
	if n := len(r.FirstName); n < 1 || n > 32 {
		fieldErrs = append(fieldErrs, MsgFirstName)
	}
	if n := len(r.LastName); n < 1 || n > 32 {
		fieldErrs = append(fieldErrs, MsgLastName)
	}
	if at := strings.LastIndex(r.Email, "@"); at < 1 || !strings.Contains(r.Email[at:], ".") {
		fieldErrs = append(fieldErrs, MsgEmail)
	}
	if n := len(r.Telephone); n < 3 || n > 32 {
		fieldErrs = append(fieldErrs, MsgTelephone)
	}
	if n := len(r.Password); n < 4 || n > 20 {
		fieldErrs = append(fieldErrs, MsgPassword)
	} else if r.Confirm != r.Password {
		fieldErrs = append(fieldErrs, MsgConfirm)
	}

	alert := ""
	if !agreed {
		alert = MsgPrivacyPolicy
	}
	if len(fieldErrs) > 0 || alert != "" {
		sf.render(r, agreed, fieldErrs, alert)
		return
	}

	sf.sess.Reload()
	sf.sess.Put(browser.XPath(XPathSuccess), &testutil.FakeElement{Label: sf.message(MsgAccountCreated)})
}
