package client

import (
	"context"
	"encoding/json"

	"github.com/cmlabs-hris/hris-client-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/apierror"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/httpclient"
)

type AuthClient struct {
	http *httpclient.Client
}

var _ auth.Client = (*AuthClient)(nil)

func NewAuthClient(hc *httpclient.Client) *AuthClient {
	return &AuthClient{http: hc}
}

func (c *AuthClient) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if err := validate(&req); err != nil {
		return auth.LoginResponse{}, err
	}
	env, err := httpclient.PostJSON[auth.LoginResponse](ctx, c.http, "/login", req)
	if err != nil {
		return auth.LoginResponse{}, err
	}
	if env.Data.Token.AccessToken == "" {
		return auth.LoginResponse{}, apierror.Classify(auth.ErrMissingToken)
	}
	return env.Data, nil
}

func (c *AuthClient) ResetPassword(ctx context.Context, req auth.ResetPasswordRequest) (string, error) {
	if err := validate(&req); err != nil {
		return "", err
	}
	return message(httpclient.PostJSON[json.RawMessage](ctx, c.http, "/restPassword", req))
}

func (c *AuthClient) ChangePassword(ctx context.Context, req auth.ChangePasswordRequest) (string, error) {
	if err := validate(&req); err != nil {
		return "", err
	}
	return message(httpclient.PostJSON[json.RawMessage](ctx, c.http, "/changePassword", req))
}

func (c *AuthClient) Forget(ctx context.Context, req auth.ForgetRequest) (string, error) {
	if err := validate(&req); err != nil {
		return "", err
	}
	return message(httpclient.PostJSON[json.RawMessage](ctx, c.http, "/forget", req))
}

func (c *AuthClient) VerifyEmail(ctx context.Context, token string) (string, error) {
	if err := required(token, errTokenRequired); err != nil {
		return "", err
	}
	return message(httpclient.GetJSON[json.RawMessage](ctx, c.http, "/verify-email", auth.VerifyEmailParams{Token: token}))
}

func (c *AuthClient) VerifyOtp(ctx context.Context, req auth.VerifyOtpRequest) (string, error) {
	if err := validate(&req); err != nil {
		return "", err
	}
	return message(httpclient.PostJSON[json.RawMessage](ctx, c.http, "/verifyOtp", req))
}

func message[T any](env httpclient.Envelope[T], err error) (string, error) {
	if err != nil {
		return "", err
	}
	return env.Message, nil
}
