package songle

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// NewHTTPClient builds the http.Client handed to NewClient.
// A non-empty apiKey is attached to every request as a bearer token.
func NewHTTPClient(ctx context.Context, apiKey string, timeout time.Duration) *http.Client {
	base := &http.Client{Timeout: timeout}
	if apiKey == "" {
		return base
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	hc := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: apiKey,
		TokenType:   "Bearer",
	}))
	hc.Timeout = timeout
	return hc
}
