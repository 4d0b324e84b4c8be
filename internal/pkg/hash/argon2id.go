package hash

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id implements Hash using Argon2id with a random salt per digest.
type Argon2id struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	saltLength  uint32
	keyLength   uint32
	pepper      string
	sema        chan struct{}
}

// Argon2idOption tunes the Argon2id cost parameters.
type Argon2idOption func(*Argon2id)

// WithArgon2Memory sets the memory cost in KiB.
func WithArgon2Memory(kib uint32) Argon2idOption {
	return func(a *Argon2id) { a.memory = kib }
}

// WithArgon2Iterations sets the time cost.
func WithArgon2Iterations(n uint32) Argon2idOption {
	return func(a *Argon2id) { a.iterations = n }
}

// WithArgon2MaxConcurrent caps how many digests are computed at once; 0 disables the cap.
func WithArgon2MaxConcurrent(n int) Argon2idOption {
	return func(a *Argon2id) {
		a.sema = nil
		if n > 0 {
			a.sema = make(chan struct{}, n)
		}
	}
}

// NewArgon2id returns an Argon2id hasher with recommended defaults.
func NewArgon2id(pepper string, opts ...Argon2idOption) *Argon2id {
	a := &Argon2id{
		memory:      32 * 1024,
		iterations:  3,
		parallelism: 2,
		saltLength:  16,
		keyLength:   32,
		pepper:      pepper,
		sema:        make(chan struct{}, 4),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Argon2id) key(str string, salt []byte, t, m uint32, p uint8, l uint32) []byte {
	if a.sema != nil {
		a.sema <- struct{}{}
		defer func() { <-a.sema }()
	}
	return argon2.IDKey([]byte(str+a.pepper), salt, t, m, p, l)
}

// Hash returns a PHC-style encoded digest: $argon2id$v=..$m=..,t=..,p=..$salt$key.
func (a *Argon2id) Hash(str string) ([]byte, error) {
	salt := make([]byte, a.saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	key := a.key(str, salt, a.iterations, a.memory, a.parallelism, a.keyLength)

	return fmt.Appendf(nil, "$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		a.memory,
		a.iterations,
		a.parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify recomputes the digest with the parameters embedded in hashed.
func (a *Argon2id) Verify(hashed, str string) bool {
	if hashed == "" || str == "" {
		return false
	}

	parts := strings.Split(hashed, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false
	}

	var memory, iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}

	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false
	}

	computed := a.key(str, salt, iterations, memory, parallelism, uint32(len(expected)))

	return subtle.ConstantTimeCompare(expected, computed) == 1
}
