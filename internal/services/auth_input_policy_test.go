package services

import (
	"errors"
	"testing"
)

func TestNormalizeAuthEmail(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "normalizes case and spaces", raw: " USER1@GMAIL.COM ", want: "user1@gmail.com"},
		{name: "invalid email returns empty", raw: "not-email", want: ""},
		{name: "empty returns empty", raw: "   ", want: ""},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			if got := NormalizeAuthEmail(testCase.raw); got != testCase.want {
				t.Fatalf("NormalizeAuthEmail(%q) = %q, want %q", testCase.raw, got, testCase.want)
			}
		})
	}
}

func TestNormalizeCredentialsInput(t *testing.T) {
	email, password, err := NormalizeCredentialsInput(" USER1@GMAIL.COM ", "  Password123!  ")
	if err != nil {
		t.Fatalf("expected valid credentials input, got %v", err)
	}
	if email != "user1@gmail.com" {
		t.Fatalf("expected normalized email, got %q", email)
	}
	if password != "Password123!" {
		t.Fatalf("expected trimmed password, got %q", password)
	}

	if _, _, err = NormalizeCredentialsInput("not-email", "Password123!"); !errors.Is(err, ErrAuthCredentialsInvalid) {
		t.Fatalf("expected ErrAuthCredentialsInvalid for invalid email, got %v", err)
	}
	if _, _, err = NormalizeCredentialsInput("user1@gmail.com", " "); !errors.Is(err, ErrAuthCredentialsInvalid) {
		t.Fatalf("expected ErrAuthCredentialsInvalid for empty password, got %v", err)
	}
}

func TestInputValidatorRegistration(t *testing.T) {
	validator := NewInputValidator()

	valid := &RegistrationInput{
		Name:            "  Ava  ",
		Email:           " Ava@Example.com ",
		Password:        "Password123!",
		ConfirmPassword: "Password123!",
	}
	if err := validator.Validate(valid); err != nil {
		t.Fatalf("expected valid registration, got %v", err)
	}
	if valid.Name != "Ava" || valid.Email != "ava@example.com" {
		t.Fatalf("expected trimmed input, got %+v", valid)
	}

	invalid := &RegistrationInput{
		Name:            "Al",
		Email:           "nope",
		Password:        "password",
		ConfirmPassword: "different",
	}
	err := validator.Validate(invalid)
	var fieldErrors FieldErrors
	if !errors.As(err, &fieldErrors) {
		t.Fatalf("expected FieldErrors, got %v", err)
	}

	expected := map[string]string{
		"name":             FieldErrorNameShort,
		"email":            FieldErrorEmailInvalid,
		"password":         FieldErrorPasswordWeak,
		"confirm_password": FieldErrorPasswordMatch,
	}
	for field, key := range expected {
		if fieldErrors[field] != key {
			t.Fatalf("expected %s error %q, got %q", field, key, fieldErrors[field])
		}
	}
}

func TestInputValidatorContact(t *testing.T) {
	validator := NewInputValidator()

	err := validator.Validate(&ContactInput{Title: "Hi", Description: "too short", Email: "a@b.co"})
	var fieldErrors FieldErrors
	if !errors.As(err, &fieldErrors) {
		t.Fatalf("expected FieldErrors, got %v", err)
	}
	if fieldErrors["title"] != FieldErrorTitleShort {
		t.Fatalf("expected title error, got %q", fieldErrors["title"])
	}
	if fieldErrors["description"] != FieldErrorDescriptionShort {
		t.Fatalf("expected description error, got %q", fieldErrors["description"])
	}
	if _, ok := fieldErrors["email"]; ok {
		t.Fatalf("did not expect an email error")
	}

	if err := validator.Validate(&ContactInput{Title: "Booking", Description: "Two karts for Saturday", Email: "a@b.co"}); err != nil {
		t.Fatalf("expected valid contact input, got %v", err)
	}
}

func TestInputValidatorReportsRequiredFields(t *testing.T) {
	err := NewInputValidator().Validate(&ResetPasswordInput{})
	var fieldErrors FieldErrors
	if !errors.As(err, &fieldErrors) {
		t.Fatalf("expected FieldErrors, got %v", err)
	}
	for _, field := range []string{"token", "password", "confirm_password"} {
		if fieldErrors[field] != FieldErrorRequired {
			t.Fatalf("expected required error for %s, got %q", field, fieldErrors[field])
		}
	}
}
