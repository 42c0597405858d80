package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerifyPassword(t *testing.T) {
	a := NewArgonHash()

	digest, err := a.GenerateFromPassword("hunter22")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(digest, "$argon2id$"))

	ok, err := a.VerifyPassword("hunter22", digest)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = a.VerifyPassword("hunter23", digest)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGenerateProducesUniqueSalts(t *testing.T) {
	a := NewArgonHash()

	d1, err := a.GenerateFromPassword("same password")
	require.NoError(t, err)
	d2, err := a.GenerateFromPassword("same password")
	require.NoError(t, err)

	assert.NotEqual(t, d1, d2)
}

func TestVerifyPasswordRejectsGarbageDigest(t *testing.T) {
	a := NewArgonHash()

	_, err := a.VerifyPassword("whatever", "not-a-phc-string")
	assert.ErrorIs(t, err, ErrInvalidHash)

	_, err = a.VerifyPassword("whatever", "$bcrypt$v=19$m=1,t=1,p=1$aaaa$bbbb")
	assert.ErrorIs(t, err, ErrInvalidHash)
}

func TestVerifyPasswordHonorsEncodedParams(t *testing.T) {
	// A digest produced with weaker params must still verify after the
	// defaults change, since the params travel in the PHC string
	weak := &ArgonHash{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

	digest, err := weak.GenerateFromPassword("p4ssword")
	require.NoError(t, err)

	ok, err := NewArgonHash().VerifyPassword("p4ssword", digest)
	require.NoError(t, err)
	assert.True(t, ok)
}
