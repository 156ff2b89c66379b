package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/grantdesk/internal/app"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "applicant-1",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func sourceWithEnv(configured string, env map[string]string) *TokenSource {
	s := NewTokenSource(configured)
	s.lookup = func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
	return s
}

func TestToken_LookupOrder(t *testing.T) {
	ctx := context.Background()
	env := map[string]string{"ACCESS_TOKEN": "from-access", "JWT_TOKEN": "from-jwt"}

	got, err := sourceWithEnv("from-config", env).Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "from-config", got)

	got, err = sourceWithEnv("", env).Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "from-access", got)

	env["GRANTDESK_TOKEN"] = "  from-grantdesk "
	got, err = sourceWithEnv("", env).Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "from-grantdesk", got)

	got, err = sourceWithEnv("", map[string]string{"ACCESS_TOKEN": " "}).Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestToken_ExpiredJWT(t *testing.T) {
	expired := signed(t, time.Now().Add(-time.Hour))

	_, err := sourceWithEnv(expired, nil).Token(context.Background())
	assert.ErrorIs(t, err, app.ErrUnauthenticated)

	_, err = sourceWithEnv("Bearer "+expired, nil).Token(context.Background())
	assert.ErrorIs(t, err, app.ErrUnauthenticated, "the bearer prefix is ignored")
}

func TestToken_ValidAndOpaque(t *testing.T) {
	valid := signed(t, time.Now().Add(time.Hour))
	got, err := sourceWithEnv(valid, nil).Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, valid, got)

	got, err = sourceWithEnv("opaque-session-key", nil).Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "opaque-session-key", got)
}
