package httpclient

import (
	"log/slog"
	"net/http"

	"golang.org/x/oauth2"
)

// authTransport attaches the stored access token before the request is
// dispatched. A missing token or a failed read leaves the request
// unauthenticated instead of failing it.
type authTransport struct {
	base   http.RoundTripper
	tokens TokenSource
	logger *slog.Logger
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.tokens != nil {
		token, err := t.tokens.AccessToken(req.Context())
		switch {
		case err != nil:
			t.logger.Warn("failed to read access token", "error", err)
		case token != "":
			req = req.Clone(req.Context())
			(&oauth2.Token{AccessToken: token}).SetAuthHeader(req)
		}
	}
	return t.base.RoundTrip(req)
}
