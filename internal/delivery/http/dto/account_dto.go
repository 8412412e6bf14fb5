package dto

import (
	"fmt"

	"stocksim/internal/domain"
)

// LoginForm represents the login form submission
type LoginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// Validate checks the form fields
func (f *LoginForm) Validate() error {
	if f.Username == "" {
		return fmt.Errorf("%w: you must provide a username", domain.ErrInvalidInput)
	}
	if f.Password == "" {
		return fmt.Errorf("%w: you must provide a password", domain.ErrInvalidInput)
	}
	return nil
}

// RegisterForm represents the registration form submission
type RegisterForm struct {
	Username     string `form:"username"`
	Password     string `form:"password"`
	Confirmation string `form:"confirmation"`
}

// Validate checks the form fields. The password rules are enforced again in
// the account service; validating here keeps malformed submissions out of
// the usecase layer entirely.
func (f *RegisterForm) Validate() error {
	if f.Username == "" {
		return fmt.Errorf("%w: you must provide a username", domain.ErrInvalidInput)
	}
	if f.Password == "" {
		return fmt.Errorf("%w: you must provide a password", domain.ErrInvalidInput)
	}
	if len(f.Password) < domain.MinPasswordLength {
		return fmt.Errorf("%w: password must be %d or more characters long", domain.ErrInvalidInput, domain.MinPasswordLength)
	}
	if f.Password != f.Confirmation {
		return fmt.Errorf("%w: password and confirmation must match", domain.ErrInvalidInput)
	}
	return nil
}
