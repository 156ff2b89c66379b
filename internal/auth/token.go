// Package auth supplies the bearer token for portal requests.
package auth

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alexanderramin/grantdesk/internal/app"
	"github.com/golang-jwt/jwt/v5"
)

// EnvKeys are consulted in order when no token is configured.
var EnvKeys = []string{"GRANTDESK_TOKEN", "ACCESS_TOKEN", "JWT_TOKEN"}

// TokenSource returns the first token found in the configured value or
// the environment. JWTs are checked for expiry locally so an expired
// login fails before any request is sent; the signature is left to the
// server.
type TokenSource struct {
	configured string
	lookup     func(string) (string, bool)
	now        func() time.Time
}

var _ app.CredentialSource = (*TokenSource)(nil)

func NewTokenSource(configured string) *TokenSource {
	return &TokenSource{
		configured: configured,
		lookup:     os.LookupEnv,
		now:        time.Now,
	}
}

// Token returns "" when no credential is available; the server then
// decides whether the request needs one.
func (s *TokenSource) Token(_ context.Context) (string, error) {
	token := s.find()
	if token == "" {
		return "", nil
	}
	if err := s.checkExpiry(token); err != nil {
		return "", err
	}
	return token, nil
}

func (s *TokenSource) find() string {
	if t := strings.TrimSpace(s.configured); t != "" {
		return t
	}
	for _, key := range EnvKeys {
		if v, ok := s.lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func (s *TokenSource) checkExpiry(token string) error {
	raw := strings.TrimSpace(token)
	if len(raw) > 7 && strings.EqualFold(raw[:7], "bearer ") {
		raw = strings.TrimSpace(raw[7:])
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		// Opaque tokens are passed through unchanged.
		return nil
	}
	if claims.ExpiresAt != nil && !claims.ExpiresAt.After(s.now()) {
		return fmt.Errorf("token expired at %s: %w",
			claims.ExpiresAt.UTC().Format(time.RFC3339), app.ErrUnauthenticated)
	}
	return nil
}
