package jwt

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

type seqID struct{ n int }

func (s *seqID) Generate() string {
	s.n++
	return "jti-" + strings.Repeat("x", s.n)
}

func newSigner(t *testing.T, secret string, ttl time.Duration, clk clocker) *Symmetric {
	t.Helper()

	s, err := NewHS512(Config{
		Secret:    []byte(secret),
		Issuer:    "tarkhineh",
		Audiences: []string{"tarkhineh-web"},
		TTL:       ttl,
		Clock:     clk,
		UUID:      &seqID{},
	})
	require.NoError(t, err)
	return s
}

func TestNewHS512_ShortSecret(t *testing.T) {
	t.Parallel()

	_, err := NewHS512(Config{Secret: []byte("short")})
	assert.ErrorIs(t, err, ErrSigningKeyTooShort)
}

func TestSymmetric_GenerateVerify(t *testing.T) {
	t.Parallel()

	clk := &fixedClock{now: time.Now().Truncate(time.Second)}
	s := newSigner(t, strings.Repeat("a", 64), time.Hour, clk)

	token, err := s.Generate("ali", "+989123456789")
	require.NoError(t, err)

	claims, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "ali", claims.Subject)
	assert.Equal(t, "+989123456789", claims.Phone)
	assert.Equal(t, clk.now.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
	assert.Equal(t, time.Hour, s.TTL())

	peeked, err := Peek(token)
	require.NoError(t, err)
	assert.Equal(t, claims.Phone, peeked.Phone)
}

func TestSymmetric_VerifyRejectsOtherSecret(t *testing.T) {
	t.Parallel()

	clk := &fixedClock{now: time.Now()}
	access := newSigner(t, strings.Repeat("a", 64), time.Hour, clk)
	refresh := newSigner(t, strings.Repeat("r", 64), 72*time.Hour, clk)

	token, err := refresh.Generate("ali", "+989123456789")
	require.NoError(t, err)

	_, err = access.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSymmetric_VerifyExpired(t *testing.T) {
	t.Parallel()

	clk := &fixedClock{now: time.Now()}
	s := newSigner(t, strings.Repeat("a", 64), time.Hour, clk)

	token, err := s.Generate("ali", "+989123456789")
	require.NoError(t, err)

	clk.now = clk.now.Add(2 * time.Hour)
	_, err = s.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestPeek_Malformed(t *testing.T) {
	t.Parallel()

	_, err := Peek("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
