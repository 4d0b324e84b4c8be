package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/tarkhineh/tarkhineh/internal/identity/entity"
	"github.com/tarkhineh/tarkhineh/internal/pkg/clock"
	"github.com/tarkhineh/tarkhineh/internal/pkg/goroutine"
	"github.com/tarkhineh/tarkhineh/internal/pkg/hash"
	"github.com/tarkhineh/tarkhineh/internal/pkg/i18n"
	"github.com/tarkhineh/tarkhineh/internal/pkg/instrument"
	"github.com/tarkhineh/tarkhineh/internal/pkg/jwt"
	"github.com/tarkhineh/tarkhineh/internal/pkg/uid"
	"github.com/tarkhineh/tarkhineh/internal/pkg/validator"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// OTPIssuedEvent asks the notification side to deliver a code by SMS.
type OTPIssuedEvent struct {
	ID       int64
	Phone    string
	Text     string
	Resend   bool
	ExpireAt time.Time
}

type repoMessaging interface {
	PublishOTPIssued(ctx context.Context, msg OTPIssuedEvent) error
}

type repoDB interface {
	GetUserByPhone(ctx context.Context, phone string) (*entity.User, error)

	SaveOTP(ctx context.Context, phone string, otp entity.OTP) error
	SaveRefreshHash(ctx context.Context, phone, hash string) error
	// SwapRefreshHash replaces oldHash with newHash, returning goerror.ErrNotFound
	// when the stored hash is no longer oldHash.
	SwapRefreshHash(ctx context.Context, phone, oldHash, newHash string) error
	ClearRefreshHash(ctx context.Context, phone string) error
}

// Store is the credential store adapter, implemented by the Postgres and
// Redis outbound packages.
type Store interface {
	repoDB
}

type Usecase struct {
	repoDB    repoDB
	validator validator.Validator
	trans     i18n.Translator
	ins       instrument.Instrumentation

	otp      *OTPEngine
	issuer   *TokenIssuer
	rotation *RotationManager

	otpIssued       metric.Int64Counter
	refreshRotated  metric.Int64Counter
	refreshRejected metric.Int64Counter
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	Validator     validator.Validator
	Translator    i18n.Translator
	Hash          hash.Hash
	UID           uid.NumberID
	Clock         clock.Clocker
	AccessJWT     jwt.JWT
	RefreshJWT    jwt.JWT
	Instrument    instrument.Instrumentation
	Goroutine     *goroutine.Manager
	OTPTTL        time.Duration

	// CodeGenerator overrides the random OTP source. Nil uses crypto/rand.
	CodeGenerator func() (int, error)
}

func New(dep Dependency) *Usecase {
	issuer := NewTokenIssuer(dep.AccessJWT, dep.RefreshJWT)

	uc := &Usecase{
		repoDB:    dep.RepoDB,
		validator: dep.Validator,
		trans:     dep.Translator,
		ins:       dep.Instrument,
		issuer:    issuer,
		otp: NewOTPEngine(OTPEngineConfig{
			Store:     dep.RepoDB,
			Messaging: dep.RepoMessaging,
			Goroutine: dep.Goroutine,
			UID:       dep.UID,
			Clock:     dep.Clock,
			Texts:     dep.Translator,
			TTL:       dep.OTPTTL,
			Generate:  dep.CodeGenerator,
		}),
		rotation: NewRotationManager(dep.RepoDB, dep.Hash, issuer, dep.RefreshJWT),
	}

	meter := dep.Instrument.Meter("identity.usecase")
	uc.otpIssued = newCounter(meter, "identity.otp.issued", "Number of OTP challenges issued")
	uc.refreshRotated = newCounter(meter, "identity.refresh.rotated", "Number of successful refresh token rotations")
	uc.refreshRejected = newCounter(meter, "identity.refresh.rejected", "Number of refresh tokens rejected")

	return uc
}

func newCounter(meter metric.Meter, name, desc string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(desc))
	if err != nil {
		slog.Error("failed to create counter", "name", name, "error", err)
	}
	return c
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.usecase").Start(ctx, name)
}

func (s *Usecase) count(ctx context.Context, c metric.Int64Counter, attrs ...metric.AddOption) {
	if c != nil {
		c.Add(ctx, 1, attrs...)
	}
}
