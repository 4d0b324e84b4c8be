package hash

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A refresh JWT is well past bcrypt's 72 byte limit.
var longToken = "eyJhbGciOiJIUzUxMiJ9." + strings.Repeat("payload", 40) + ".signature"

func hashers() map[string]Hash {
	return map[string]Hash{
		DriverArgon2id: NewArgon2id("pepper", WithArgon2Memory(1024), WithArgon2Iterations(1)),
		DriverBcrypt:   NewBcrypt(4, "pepper"),
	}
}

func TestHash_RoundTrip(t *testing.T) {
	t.Parallel()

	for name, h := range hashers() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			digest, err := h.Hash(longToken)
			require.NoError(t, err)
			assert.NotContains(t, string(digest), longToken)

			assert.True(t, h.Verify(string(digest), longToken))
			assert.False(t, h.Verify(string(digest), longToken+"x"))
			assert.False(t, h.Verify("", longToken))
		})
	}
}

func TestHash_Salted(t *testing.T) {
	t.Parallel()

	for name, h := range hashers() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			a, err := h.Hash(longToken)
			require.NoError(t, err)
			b, err := h.Hash(longToken)
			require.NoError(t, err)

			assert.NotEqual(t, string(a), string(b))
		})
	}
}

func TestArgon2id_VerifyRejectsGarbage(t *testing.T) {
	t.Parallel()

	h := NewArgon2id("", WithArgon2MaxConcurrent(0))
	assert.False(t, h.Verify("$argon2i$v=19$m=1,t=1,p=1$AA$AA", "x"))
	assert.False(t, h.Verify("$argon2id$broken", "x"))
}

func TestBcrypt_PepperMatters(t *testing.T) {
	t.Parallel()

	digest, err := NewBcrypt(4, "one").Hash("token")
	require.NoError(t, err)
	assert.False(t, NewBcrypt(4, "two").Verify(string(digest), "token"))
}
