// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"encoding/base64"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/autosalon/internal/config"
	"github.com/carterperez-dev/autosalon/internal/core"
)

func newTestSessions(t *testing.T, ttl time.Duration) *SessionManager {
	t.Helper()

	dir := t.TempDir()
	priv := filepath.Join(dir, "private.pem")
	pub := filepath.Join(dir, "public.pem")
	require.NoError(t, GenerateKeyPair(priv, pub))

	m, err := NewSessionManager(config.SessionConfig{
		PrivateKeyPath: priv,
		PublicKeyPath:  pub,
		TTL:            ttl,
		CookieName:     "autosalon_session",
		Issuer:         "autosalon",
		Audience:       "autosalon-web",
	})
	require.NoError(t, err)
	return m
}

func TestIssueAndVerify(t *testing.T) {
	m := newTestSessions(t, time.Hour)

	token, claims, err := m.Issue(42)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.SessionID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 5*time.Second)

	got, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.UserID)
	assert.Equal(t, claims.SessionID, got.SessionID)
	assert.NotEmpty(t, m.GetKeyID())
}

func TestVerifyRejectsTampering(t *testing.T) {
	m := newTestSessions(t, time.Hour)
	token, _, err := m.Issue(1)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	forged := strings.Replace(string(payload), `"sub":"1"`, `"sub":"2"`, 1)
	require.NotEqual(t, string(payload), forged)
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(forged))

	_, err = m.Verify(strings.Join(parts, "."))
	assert.ErrorIs(t, err, core.ErrTokenInvalid)

	_, err = m.Verify("garbage")
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestVerifyRejectsForeignKey(t *testing.T) {
	issuer := newTestSessions(t, time.Hour)
	verifier := newTestSessions(t, time.Hour)

	token, _, err := issuer.Issue(1)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestVerifyExpired(t *testing.T) {
	m := newTestSessions(t, -time.Minute)
	token, _, err := m.Issue(1)
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, core.ErrTokenExpired)
}
