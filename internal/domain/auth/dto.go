package auth

import (
	"github.com/cmlabs-hris/hris-client-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/validator"
)

const MinPasswordLength = 6

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	validateEmail(&errs, r.Email)
	validatePassword(&errs, "password", r.Password)

	return errs.Err()
}

// LoginResponse is the data of a successful login.
type LoginResponse struct {
	Token      TokenPair    `json:"token"`
	UserObject user.Profile `json:"userObject"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
	Token       string `json:"token"`
}

func (r *ResetPasswordRequest) Validate() error {
	var errs validator.ValidationErrors

	validatePassword(&errs, "newPassword", r.NewPassword)
	if validator.IsEmpty(r.Token) {
		errs.Add("token", "token is required")
	}

	return errs.Err()
}

type ChangePasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

func (r *ChangePasswordRequest) Validate() error {
	var errs validator.ValidationErrors
	validatePassword(&errs, "newPassword", r.NewPassword)
	return errs.Err()
}

type ForgetRequest struct {
	Email string `json:"email"`
}

func (r *ForgetRequest) Validate() error {
	var errs validator.ValidationErrors
	validateEmail(&errs, r.Email)
	return errs.Err()
}

type VerifyOtpRequest struct {
	Token string `json:"token"`
}

func (r *VerifyOtpRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.Token) {
		errs.Add("token", "token is required")
	}
	return errs.Err()
}

// VerifyEmailParams is sent as the query of GET /verify-email.
type VerifyEmailParams struct {
	Token string `url:"token"`
}

func validateEmail(errs *validator.ValidationErrors, email string) {
	if validator.IsEmpty(email) {
		errs.Add("email", "Email is required")
	} else if !validator.IsValidEmail(email) {
		errs.Add("email", "Please enter a valid email address")
	}
}

func validatePassword(errs *validator.ValidationErrors, field, password string) {
	if validator.IsEmpty(password) {
		errs.Add(field, "Password is required")
	} else if !validator.MinLength(password, MinPasswordLength) {
		errs.Add(field, "Password must be at least 6 characters long")
	}
}
