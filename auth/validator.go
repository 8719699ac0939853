package auth

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/sureshpilli97/ChatCresr-Server/errors"
)

var validate = validator.New()

type SendOTPRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,max=64"`
}

type RegisterRequest struct {
	ID                string `json:"id" validate:"required,max=128"`
	Username          string `json:"username" validate:"required,max=64"`
	Email             string `json:"email" validate:"required,email"`
	OTP               string `json:"otp" validate:"required"`
	PreferredLanguage string `json:"preferredLanguage" validate:"omitempty,bcp47_language_tag"`
}

type LoginRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type UpdateRequest struct {
	Username          string `json:"username" validate:"omitempty,max=64"`
	Email             string `json:"email" validate:"omitempty,email"`
	PreferredLanguage string `json:"preferredLanguage" validate:"omitempty,bcp47_language_tag"`
}

// Validate runs the struct tags of any request above.
// Failures are wrapped in errors.ErrValidation.
func Validate(req any) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrValidation, err)
	}
	return nil
}
