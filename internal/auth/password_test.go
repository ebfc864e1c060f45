package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Cost 4 is bcrypt's minimum; it keeps each hash in the microsecond
// range instead of the ~250ms the production cost takes.
func newTestPasswordService() *PasswordService {
	return NewPasswordServiceForTest(4)
}

func TestHash_OutputShape(t *testing.T) {
	ps := newTestPasswordService()

	hash, err := ps.Hash("password123")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.True(t, strings.HasPrefix(hash, "$2"), "expected a bcrypt hash, got %q", hash)
}

func TestHash_SaltIsRandom(t *testing.T) {
	ps := newTestPasswordService()

	hash1, err := ps.Hash("same-password")
	require.NoError(t, err)
	hash2, err := ps.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, hash1, hash2, "two hashes of one password must differ")
}

func TestHash_LengthLimit(t *testing.T) {
	ps := newTestPasswordService()

	_, err := ps.Hash(strings.Repeat("a", 73))
	assert.Error(t, err, "bcrypt truncates past 72 bytes, reject instead")

	_, err = ps.Hash(strings.Repeat("a", 72))
	assert.NoError(t, err)
}

func TestVerify(t *testing.T) {
	ps := newTestPasswordService()

	hash, err := ps.Hash("correct-horse-battery-staple")
	require.NoError(t, err)

	assert.NoError(t, ps.Verify(hash, "correct-horse-battery-staple"))
	assert.Error(t, ps.Verify(hash, "the-wrong-password"))
	assert.Error(t, ps.Verify(hash, ""))
	assert.Error(t, ps.Verify("not-a-valid-bcrypt-hash", "anything"))
}

func TestHashVerify_RoundTrip(t *testing.T) {
	ps := newTestPasswordService()

	passwords := []string{
		"hello123",
		"p@$$w0rd!#%",
		"пароль-密码",
		"  leading and trailing  ",
		" ",
	}

	for _, password := range passwords {
		hash, err := ps.Hash(password)
		require.NoError(t, err)
		assert.NoError(t, ps.Verify(hash, password), "password %q", password)
	}
}
