package handlers

import "testing"

func TestValidateRegistrationPasses(t *testing.T) {
	errs := validateRegistration(RegisterRequest{
		FirstName:       "John",
		LastName:        "Doe",
		Email:           "john@x.com",
		Password:        "password123",
		ConfirmPassword: "password123",
	})
	if errs != nil {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestValidateRegistrationFirstRulePerFieldWins(t *testing.T) {
	// An empty email fails both the presence and the syntax rule; only the
	// presence message may surface.
	errs := validateRegistration(RegisterRequest{
		LastName:        "Doe",
		Password:        "password123",
		ConfirmPassword: "password123",
	})
	if errs["email"].Msg != "Please enter your email" {
		t.Fatalf("unexpected email error: %q", errs["email"].Msg)
	}
	if errs["first_name"].Msg != "Please enter your first name" {
		t.Fatalf("unexpected first_name error: %q", errs["first_name"].Msg)
	}
}

func TestValidateRegistrationMessages(t *testing.T) {
	cases := []struct {
		name  string
		req   RegisterRequest
		field string
		msg   string
	}{
		{
			"invalid email syntax",
			RegisterRequest{FirstName: "J", LastName: "D", Email: "nope", Password: "password123", ConfirmPassword: "password123"},
			"email", "Please enter a valid email",
		},
		{
			"short password",
			RegisterRequest{FirstName: "J", LastName: "D", Email: "j@x.com", Password: "short", ConfirmPassword: "short"},
			"password", "Password must be at least 8 characters",
		},
		{
			"missing confirm",
			RegisterRequest{FirstName: "J", LastName: "D", Email: "j@x.com", Password: "password123"},
			"confirm_password", "Please confirm your password",
		},
		{
			"mismatched confirm",
			RegisterRequest{FirstName: "J", LastName: "D", Email: "j@x.com", Password: "password123", ConfirmPassword: "password124"},
			"confirm_password", "Passwords do not match",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := validateRegistration(tc.req)
			if errs == nil {
				t.Fatal("expected validation errors")
			}
			if got := errs[tc.field].Msg; got != tc.msg {
				t.Fatalf("field %s: expected %q, got %q", tc.field, tc.msg, got)
			}
		})
	}
}

func TestValidateRegistrationMismatchSuppressedForShortPassword(t *testing.T) {
	// When the password itself is too short the confirm mismatch is noise;
	// the password field already carries the error.
	errs := validateRegistration(RegisterRequest{
		FirstName:       "J",
		LastName:        "D",
		Email:           "j@x.com",
		Password:        "short",
		ConfirmPassword: "different",
	})
	if _, ok := errs["confirm_password"]; ok {
		t.Fatalf("confirm_password should carry no error, got %v", errs["confirm_password"])
	}
	if errs["password"].Msg != "Password must be at least 8 characters" {
		t.Fatalf("unexpected password error: %q", errs["password"].Msg)
	}
}

func TestValidateLogin(t *testing.T) {
	if errs := validateLogin(LoginRequest{Email: "john@x.com", Password: "whatever"}); errs != nil {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if errs := validateLogin(LoginRequest{Email: "", Password: "x"}); errs == nil {
		t.Fatal("expected error for missing email")
	}
	if errs := validateLogin(LoginRequest{Email: "bad", Password: "x"}); errs["email"].Msg != "Please enter a valid email" {
		t.Fatalf("unexpected error: %v", errs)
	}
}
