package fakeapi

import (
	"net/http"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	accessTokenTTL  = time.Hour
	refreshTokenTTL = 24 * time.Hour
)

func newTokenAuth(secret string) *jwtauth.JWTAuth {
	return jwtauth.New("HS256", []byte(secret), nil, jwt.WithAcceptableSkew(30*time.Second))
}

func (s *Server) issueTokens(userID, email, employeeID string) (access, refresh string, err error) {
	now := time.Now()
	_, access, err = s.tokenAuth.Encode(map[string]any{
		"user_id":     userID,
		"email":       email,
		"employee_id": employeeID,
		"type":        "access",
		"exp":         now.Add(accessTokenTTL).Unix(),
	})
	if err != nil {
		return "", "", err
	}
	_, refresh, err = s.tokenAuth.Encode(map[string]any{
		"user_id": userID,
		"type":    "refresh",
		"exp":     now.Add(refreshTokenTTL).Unix(),
	})
	return access, refresh, err
}

// authRequired rejects requests without a valid access token.
func authRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			fail(w, http.StatusUnauthorized, err.Error())
			return
		}
		if token == nil {
			handleError(w, errInvalidToken)
			return
		}
		if tokenType, ok := claims["type"].(string); !ok || tokenType != "access" {
			handleError(w, errInvalidToken)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func userIDFromRequest(r *http.Request) string {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return ""
	}
	id, _ := claims["user_id"].(string)
	return id
}
