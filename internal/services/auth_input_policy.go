package services

import (
	"errors"
	"net/mail"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrAuthCredentialsInvalid = errors.New("auth credentials invalid")

// Field error keys are translation keys rendered next to the offending input.
const (
	FieldErrorRequired         = "validation.required"
	FieldErrorNameShort        = "validation.name.min"
	FieldErrorEmailInvalid     = "validation.email"
	FieldErrorPasswordWeak     = "validation.password.weak"
	FieldErrorPasswordMatch    = "validation.password.match"
	FieldErrorTitleShort       = "validation.title.min"
	FieldErrorDescriptionShort = "validation.description.min"
	FieldErrorInvalid          = "validation.invalid"
)

type RegistrationInput struct {
	Name            string `json:"name" form:"name" validate:"required,min=3"`
	Email           string `json:"email" form:"email" validate:"required,email"`
	Password        string `json:"password" form:"password" validate:"required,strong_password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" validate:"required,eqfield=Password"`
}

type LoginInput struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type ForgotPasswordInput struct {
	Email string `json:"email" form:"email" validate:"required,email"`
}

type ResetPasswordInput struct {
	Token           string `json:"token" form:"token" validate:"required"`
	Password        string `json:"password" form:"password" validate:"required,strong_password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" validate:"required,eqfield=Password"`
}

type ContactInput struct {
	Title       string `json:"title" form:"title" validate:"required,min=3"`
	Description string `json:"description" form:"description" validate:"required,min=10"`
	Email       string `json:"email" form:"email" validate:"required,email"`
}

// FieldErrors maps a form field name to a translation key.
type FieldErrors map[string]string

func (errs FieldErrors) Error() string {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	return "invalid fields: " + strings.Join(fields, ", ")
}

// InputValidator checks form structs and reports per-field translation keys.
type InputValidator struct {
	validate *validator.Validate
}

func NewInputValidator() *InputValidator {
	validate := validator.New()
	validate.RegisterValidation("strong_password", func(fl validator.FieldLevel) bool {
		return ValidatePasswordStrength(fl.Field().String()) == nil
	})
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		return field.Tag.Get("form")
	})
	return &InputValidator{validate: validate}
}

// Validate trims string inputs in place and returns FieldErrors when any
// rule fails.
func (v *InputValidator) Validate(input any) error {
	switch typed := input.(type) {
	case *RegistrationInput:
		typed.Name = strings.TrimSpace(typed.Name)
		typed.Email = NormalizeEmailInput(typed.Email)
	case *LoginInput:
		typed.Email = NormalizeEmailInput(typed.Email)
	case *ForgotPasswordInput:
		typed.Email = NormalizeEmailInput(typed.Email)
	case *ResetPasswordInput:
		typed.Token = strings.TrimSpace(typed.Token)
	case *ContactInput:
		typed.Title = strings.TrimSpace(typed.Title)
		typed.Description = strings.TrimSpace(typed.Description)
		typed.Email = NormalizeEmailInput(typed.Email)
	}

	err := v.validate.Struct(input)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fieldErrors := make(FieldErrors, len(validationErrs))
	for _, fieldErr := range validationErrs {
		if _, exists := fieldErrors[fieldErr.Field()]; exists {
			continue
		}
		fieldErrors[fieldErr.Field()] = fieldErrorKey(fieldErr)
	}
	return fieldErrors
}

func fieldErrorKey(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return FieldErrorRequired
	case "email":
		return FieldErrorEmailInvalid
	case "strong_password":
		return FieldErrorPasswordWeak
	case "eqfield":
		return FieldErrorPasswordMatch
	case "min":
		switch fieldErr.Field() {
		case "name":
			return FieldErrorNameShort
		case "title":
			return FieldErrorTitleShort
		case "description":
			return FieldErrorDescriptionShort
		}
	}
	return FieldErrorInvalid
}

func NormalizeEmailInput(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func NormalizeAuthEmail(raw string) string {
	email := NormalizeEmailInput(raw)
	if email == "" {
		return ""
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ""
	}
	return email
}

func NormalizeCredentialsInput(emailRaw string, passwordRaw string) (string, string, error) {
	email := NormalizeAuthEmail(emailRaw)
	password := strings.TrimSpace(passwordRaw)
	if email == "" || password == "" {
		return "", "", ErrAuthCredentialsInvalid
	}
	return email, password, nil
}
