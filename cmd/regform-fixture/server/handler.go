package server

import (
	"net/http"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/thesyncim/regform/pkg/regform"
)

// Routes served under /index.php, selected by the route query parameter.
const (
	RouteRegister = "account/register"
	RouteSuccess  = "account/success"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s.]+$`)

type field struct {
	ID, Name, Label, Type string
	Value, Error          string
}

type registerView struct {
	Fields []field
	Agreed bool
	Alert  string
}

// RegistrationHandler serves the registration and success pages and keeps
// the set of registered email addresses.
type RegistrationHandler struct {
	log *zap.Logger

	mu         sync.Mutex
	registered map[string]bool
}

// NewRegistrationHandler creates a handler with no registered accounts.
func NewRegistrationHandler(log *zap.Logger) *RegistrationHandler {
	return &RegistrationHandler{
		log:        log,
		registered: make(map[string]bool),
	}
}

// Registered reports whether email has an account.
func (h *RegistrationHandler) Registered(email string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.registered[strings.ToLower(email)]
}

func (h *RegistrationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch route := r.URL.Query().Get("route"); route {
	case RouteRegister, "":
		switch r.Method {
		case http.MethodGet:
			h.render(w, http.StatusOK, regform.Registration{}, false, nil, "")
		case http.MethodPost:
			h.handleRegister(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	case RouteSuccess:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := successPage.Execute(w, regform.MsgAccountCreated); err != nil {
			h.log.Error("failed to render success page", zap.Error(err))
		}
	default:
		http.NotFound(w, r)
	}
}

func (h *RegistrationHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	reg := regform.Registration{
		FirstName: strings.TrimSpace(r.PostFormValue("firstname")),
		LastName:  strings.TrimSpace(r.PostFormValue("lastname")),
		Email:     strings.TrimSpace(r.PostFormValue("email")),
		Telephone: strings.TrimSpace(r.PostFormValue("telephone")),
		Password:  r.PostFormValue("password"),
		Confirm:   r.PostFormValue("confirm"),
	}
	agreed := r.PostFormValue("agree") != ""

	errs, alert := h.validate(reg, agreed)
	if len(errs) > 0 || alert != "" {
		h.log.Info("registration rejected",
			zap.Int("field_errors", len(errs)),
			zap.String("alert", alert))
		h.render(w, http.StatusOK, reg, agreed, errs, alert)
		return
	}

	h.mu.Lock()
	h.registered[strings.ToLower(reg.Email)] = true
	h.mu.Unlock()

	h.log.Info("account created", zap.String("email", reg.Email))
	http.Redirect(w, r, "/index.php?route="+RouteSuccess, http.StatusSeeOther)
}

// validate applies the storefront's rules. Field errors are keyed by input
// name; the alert covers the privacy policy and duplicate accounts.
func (h *RegistrationHandler) validate(reg regform.Registration, agreed bool) (map[string]string, string) {
	errs := make(map[string]string)

	if !between(reg.FirstName, 1, 32) {
		errs["firstname"] = regform.MsgFirstName
	}
	if !between(reg.LastName, 1, 32) {
		errs["lastname"] = regform.MsgLastName
	}
	if len(reg.Email) > 96 || !emailPattern.MatchString(reg.Email) {
		errs["email"] = regform.MsgEmail
	}
	if !between(reg.Telephone, 3, 32) {
		errs["telephone"] = regform.MsgTelephone
	}
	if !between(reg.Password, 4, 20) {
		errs["password"] = regform.MsgPassword
	} else if reg.Confirm != reg.Password {
		errs["confirm"] = regform.MsgConfirm
	}

	alert := ""
	switch {
	case !agreed:
		alert = regform.MsgPrivacyPolicy
	case errs["email"] == "" && h.Registered(reg.Email):
		alert = regform.MsgEmailExists
	}
	return errs, alert
}

func (h *RegistrationHandler) render(w http.ResponseWriter, status int, reg regform.Registration, agreed bool, errs map[string]string, alert string) {
	view := registerView{
		Agreed: agreed,
		Alert:  alert,
		Fields: []field{
			{ID: regform.FieldFirstName, Name: "firstname", Label: "First Name", Type: "text", Value: reg.FirstName},
			{ID: regform.FieldLastName, Name: "lastname", Label: "Last Name", Type: "text", Value: reg.LastName},
			{ID: regform.FieldEmail, Name: "email", Label: "E-Mail", Type: "email", Value: reg.Email},
			{ID: regform.FieldTelephone, Name: "telephone", Label: "Telephone", Type: "tel", Value: reg.Telephone},
			{ID: regform.FieldPassword, Name: "password", Label: "Password", Type: "password", Value: reg.Password},
			{ID: regform.FieldConfirm, Name: "confirm", Label: "Password Confirm", Type: "password", Value: reg.Confirm},
		},
	}
	for i := range view.Fields {
		view.Fields[i].Error = errs[view.Fields[i].Name]
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := registerPage.Execute(w, view); err != nil {
		h.log.Error("failed to render registration page", zap.Error(err))
	}
}

func between(s string, lo, hi int) bool {
	n := utf8.RuneCountInString(s)
	return n >= lo && n <= hi
}
