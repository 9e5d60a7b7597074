package handlers

import (
	"net/mail"
	"strings"
)

// fieldValidator checks one rule for one named field and returns the failure
// message, or "" when the rule passes.
type fieldValidator struct {
	field string
	check func() string
}

// runValidators evaluates rules in declaration order and keeps the first
// failure per field, mirroring how the mobile clients expect the errors map
// to be shaped.
func runValidators(rules []fieldValidator) map[string]FieldError {
	errs := make(map[string]FieldError)
	for _, rule := range rules {
		if _, seen := errs[rule.field]; seen {
			continue
		}
		if msg := rule.check(); msg != "" {
			errs[rule.field] = FieldError{Msg: msg}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func isEmailAddress(value string) bool {
	addr, err := mail.ParseAddress(value)
	return err == nil && addr.Address == value
}

// validateRegistration applies the registration field rules. The
// email-uniqueness rule lives in the handler because it needs the registry;
// everything syntactic is here.
func validateRegistration(req RegisterRequest) map[string]FieldError {
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	email := strings.TrimSpace(req.Email)

	return runValidators([]fieldValidator{
		{"first_name", func() string {
			if firstName == "" {
				return "Please enter your first name"
			}
			return ""
		}},
		{"last_name", func() string {
			if lastName == "" {
				return "Please enter your last name"
			}
			return ""
		}},
		{"email", func() string {
			if email == "" {
				return "Please enter your email"
			}
			return ""
		}},
		{"email", func() string {
			if !isEmailAddress(email) {
				return "Please enter a valid email"
			}
			return ""
		}},
		{"password", func() string {
			if req.Password == "" {
				return "Please enter your password"
			}
			return ""
		}},
		{"password", func() string {
			if len(req.Password) < 8 {
				return "Password must be at least 8 characters"
			}
			return ""
		}},
		{"confirm_password", func() string {
			if req.ConfirmPassword == "" {
				return "Please confirm your password"
			}
			return ""
		}},
		{"confirm_password", func() string {
			// Only meaningful once the password itself is acceptable;
			// otherwise the password field already carries the error.
			if len(req.Password) >= 8 && req.ConfirmPassword != req.Password {
				return "Passwords do not match"
			}
			return ""
		}},
	})
}

// validateLogin applies the login field rules. Outcomes are never surfaced
// per-field: the handler collapses any failure into the uniform login error.
func validateLogin(req LoginRequest) map[string]FieldError {
	email := strings.TrimSpace(req.Email)

	return runValidators([]fieldValidator{
		{"email", func() string {
			if email == "" {
				return "Please enter your email"
			}
			return ""
		}},
		{"email", func() string {
			if !isEmailAddress(email) {
				return "Please enter a valid email"
			}
			return ""
		}},
	})
}

func validationFailure(errs map[string]FieldError) ValidationErrorResponse {
	return ValidationErrorResponse{Errors: errs}
}

func loginFailure() ValidationErrorResponse {
	return ValidationErrorResponse{Errors: map[string]FieldError{
		"login": {Msg: "Invalid email or password"},
	}}
}
