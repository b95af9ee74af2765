package auth

import "context"

// Client is the auth domain of the backend API. Operations without a
// payload of interest return the server message.
type Client interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	ResetPassword(ctx context.Context, req ResetPasswordRequest) (string, error)
	ChangePassword(ctx context.Context, req ChangePasswordRequest) (string, error)
	Forget(ctx context.Context, req ForgetRequest) (string, error)
	VerifyEmail(ctx context.Context, token string) (string, error)
	VerifyOtp(ctx context.Context, req VerifyOtpRequest) (string, error)
}
