// AngelaMos | 2026
// security_test.go

package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v="))

	ok, err := VerifyPassword("correct horse", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong horse", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordSaltsEachHash(t *testing.T) {
	a, err := HashPassword("same")
	require.NoError(t, err)
	b, err := HashPassword("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	_, err := VerifyPassword("x", "not-a-hash")
	assert.Error(t, err)

	_, err = VerifyPassword("x", "$bcrypt$v=19$m=1,t=1,p=1$AAAA$AAAA")
	assert.Error(t, err)
}

func TestVerifyPasswordTimingSafeUnknownUser(t *testing.T) {
	ok, newHash, err := VerifyPasswordTimingSafe("anything", "")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, newHash)
}

func TestVerifyPasswordWithRehashUpgradesWeakParams(t *testing.T) {
	current, err := HashPassword("secret-pass")
	require.NoError(t, err)

	ok, newHash, err := VerifyPasswordWithRehash("secret-pass", current)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, newHash, "current parameters need no rehash")

	weak := strings.Replace(current, "t=1,", "t=2,", 1)
	assert.True(t, needsRehash(weak))
}
