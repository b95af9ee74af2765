package auth

import (
	"testing"

	"github.com/cmlabs-hris/hris-client-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginRequest_Validate(t *testing.T) {
	cases := []struct {
		name    string
		req     LoginRequest
		wantErr map[string]string
	}{
		{"valid", LoginRequest{Email: "ayu@corp.id", Password: "secret"}, nil},
		{"missing both", LoginRequest{}, map[string]string{
			"email":    "Email is required",
			"password": "Password is required",
		}},
		{"bad email", LoginRequest{Email: "ayu@", Password: "secret"}, map[string]string{
			"email": "Please enter a valid email address",
		}},
		{"short password", LoginRequest{Email: "ayu@corp.id", Password: "12345"}, map[string]string{
			"password": "Password must be at least 6 characters long",
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Equal(t, tc.wantErr, verrs.ToMap())
		})
	}
}

func TestOtherRequests_Validate(t *testing.T) {
	assert.NoError(t, (&ResetPasswordRequest{NewPassword: "secret1", Token: "t"}).Validate())
	assert.Error(t, (&ResetPasswordRequest{NewPassword: "secret1"}).Validate())
	assert.Error(t, (&ChangePasswordRequest{NewPassword: "abc"}).Validate())
	assert.Error(t, (&ForgetRequest{Email: "nope"}).Validate())
	assert.Error(t, (&VerifyOtpRequest{}).Validate())
}
