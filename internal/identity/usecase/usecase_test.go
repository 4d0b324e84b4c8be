package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tarkhineh/tarkhineh/internal/identity/entity"
	"github.com/tarkhineh/tarkhineh/internal/pkg/clock"
	"github.com/tarkhineh/tarkhineh/internal/pkg/goerror"
	"github.com/tarkhineh/tarkhineh/internal/pkg/goroutine"
	"github.com/tarkhineh/tarkhineh/internal/pkg/hash"
	"github.com/tarkhineh/tarkhineh/internal/pkg/i18n"
	"github.com/tarkhineh/tarkhineh/internal/pkg/instrument"
	"github.com/tarkhineh/tarkhineh/internal/pkg/jwt"
	"github.com/tarkhineh/tarkhineh/internal/pkg/uid"
	"github.com/tarkhineh/tarkhineh/internal/pkg/validator"
)

const (
	testPhone    = "+989123456789"
	testUsername = "ali"
	testCode     = 482913
)

// fakeStore keeps users in memory. Every method holds the lock for its whole
// read-modify-write, which gives the per-user atomicity the real stores have.
type fakeStore struct {
	mu    sync.Mutex
	users map[string]*entity.User
	err   error
}

func newFakeStore(users ...entity.User) *fakeStore {
	s := &fakeStore{users: map[string]*entity.User{}}
	for _, u := range users {
		s.users[u.Phone] = &u
	}
	return s
}

func (s *fakeStore) GetUserByPhone(_ context.Context, phone string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[phone]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	cp := *u
	if u.OTP != nil {
		otp := *u.OTP
		cp.OTP = &otp
	}
	return &cp, nil
}

func (s *fakeStore) SaveOTP(_ context.Context, phone string, otp entity.OTP) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[phone]
	if !ok {
		return goerror.ErrNotFound
	}
	u.OTP = &otp
	return nil
}

func (s *fakeStore) SaveRefreshHash(_ context.Context, phone, h string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[phone]
	if !ok {
		return goerror.ErrNotFound
	}
	u.HashedRefreshToken = h
	return nil
}

func (s *fakeStore) SwapRefreshHash(_ context.Context, phone, oldHash, newHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[phone]
	if !ok || u.HashedRefreshToken != oldHash {
		return goerror.ErrNotFound
	}
	u.HashedRefreshToken = newHash
	return nil
}

func (s *fakeStore) ClearRefreshHash(_ context.Context, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}
	if u, ok := s.users[phone]; ok {
		u.HashedRefreshToken = ""
	}
	return nil
}

func (s *fakeStore) user(phone string) entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.users[phone]
}

type fakeMessaging struct {
	mu     sync.Mutex
	events []OTPIssuedEvent
	err    error
}

func (m *fakeMessaging) PublishOTPIssued(_ context.Context, msg OTPIssuedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = append(m.events, msg)
	return m.err
}

func (m *fakeMessaging) published() []OTPIssuedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]OTPIssuedEvent(nil), m.events...)
}

type seqNumber struct{ n int64 }

func (s *seqNumber) Generate() int64 {
	s.n++
	return s.n
}

type fixture struct {
	uc        *Usecase
	store     *fakeStore
	messaging *fakeMessaging
	clock     *clock.Frozen
	goroutine *goroutine.Manager
	access    *jwt.Symmetric
	refresh   *jwt.Symmetric
	codes     []int
}

func newFixture(t *testing.T, codes ...int) *fixture {
	t.Helper()

	if len(codes) == 0 {
		codes = []int{testCode}
	}

	f := &fixture{
		store:     newFakeStore(entity.User{Phone: testPhone, Username: testUsername}),
		messaging: &fakeMessaging{},
		clock:     clock.NewFrozen(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)),
		goroutine: goroutine.NewManager(8),
		codes:     codes,
	}

	var err error
	f.access, err = jwt.NewHS512(jwt.Config{
		Secret:    []byte(strings.Repeat("a", 64)),
		Issuer:    "tarkhineh",
		Audiences: []string{"tarkhineh-web"},
		TTL:       time.Hour,
		Clock:     f.clock,
		UUID:      uid.NewUUID(),
	})
	require.NoError(t, err)

	f.refresh, err = jwt.NewHS512(jwt.Config{
		Secret:    []byte(strings.Repeat("r", 64)),
		Issuer:    "tarkhineh",
		Audiences: []string{"tarkhineh-web"},
		TTL:       72 * time.Hour,
		Clock:     f.clock,
		UUID:      uid.NewUUID(),
	})
	require.NoError(t, err)

	v, err := validator.NewV10Validator(i18n.LocaleEnglish)
	require.NoError(t, err)

	bundle, err := i18n.New(i18n.LocaleEnglish)
	require.NoError(t, err)
	for locale, msgs := range Messages {
		require.NoError(t, bundle.Register(locale, msgs))
	}

	next := 0
	f.uc = New(Dependency{
		RepoDB:        f.store,
		RepoMessaging: f.messaging,
		Validator:     v,
		Translator:    bundle,
		Hash:          hash.NewArgon2id("pepper", hash.WithArgon2Memory(64), hash.WithArgon2Iterations(1)),
		UID:           &seqNumber{},
		Clock:         f.clock,
		AccessJWT:     f.access,
		RefreshJWT:    f.refresh,
		Instrument:    instrument.NewNoop(),
		Goroutine:     f.goroutine,
		OTPTTL:        DefaultOTPTTL,
		CodeGenerator: func() (int, error) {
			code := f.codes[next%len(f.codes)]
			next++
			return code, nil
		},
	})

	return f
}

// login runs the request and verify steps and returns the issued pair.
func (f *fixture) login(t *testing.T) entity.TokenPair {
	t.Helper()

	_, err := f.uc.RequestOTP(context.Background(), RequestOTPInput{Phone: testPhone})
	require.NoError(t, err)

	out, err := f.uc.VerifyOTP(context.Background(), VerifyOTPInput{Phone: testPhone, Code: f.codes[0]})
	require.NoError(t, err)

	return out.Tokens
}

func requireCode(t *testing.T, err error, code goerror.Code) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, goerror.CodeOf(err), "error: %v", err)
}
