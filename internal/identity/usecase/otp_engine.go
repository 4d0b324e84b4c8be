package usecase

import (
	"context"
	"crypto/rand"
	"log/slog"
	"math/big"
	"strconv"
	"time"

	"github.com/tarkhineh/tarkhineh/internal/identity/entity"
	"github.com/tarkhineh/tarkhineh/internal/pkg/clock"
	"github.com/tarkhineh/tarkhineh/internal/pkg/goroutine"
	"github.com/tarkhineh/tarkhineh/internal/pkg/i18n"
	"github.com/tarkhineh/tarkhineh/internal/pkg/uid"
)

const (
	DefaultOTPTTL = 120 * time.Second

	otpMin = 100000
	otpMax = 999999
)

type otpStore interface {
	GetUserByPhone(ctx context.Context, phone string) (*entity.User, error)
	SaveOTP(ctx context.Context, phone string, otp entity.OTP) error
}

type OTPEngineConfig struct {
	Store     otpStore
	Messaging repoMessaging
	Goroutine *goroutine.Manager
	UID       uid.NumberID
	Clock     clock.Clocker
	Texts     i18n.Translator
	TTL       time.Duration
	Generate  func() (int, error)
}

// OTPEngine owns the one-slot challenge of each user.
type OTPEngine struct {
	store     otpStore
	messaging repoMessaging
	goroutine *goroutine.Manager
	uid       uid.NumberID
	clock     clock.Clocker
	texts     i18n.Translator
	ttl       time.Duration
	generate  func() (int, error)
}

func NewOTPEngine(cfg OTPEngineConfig) *OTPEngine {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultOTPTTL
	}
	if cfg.Generate == nil {
		cfg.Generate = randomCode
	}

	return &OTPEngine{
		store:     cfg.Store,
		messaging: cfg.Messaging,
		goroutine: cfg.Goroutine,
		uid:       cfg.UID,
		clock:     cfg.Clock,
		texts:     cfg.Texts,
		ttl:       cfg.TTL,
		generate:  cfg.Generate,
	}
}

// randomCode draws uniformly from [otpMin, otpMax].
func randomCode() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return 0, err
	}
	return otpMin + int(n.Int64()), nil
}

// Issue overwrites the user's challenge with a fresh code and sends it.
// It returns goerror.ErrNotFound when the phone has no user.
func (e *OTPEngine) Issue(ctx context.Context, phone string) (int, error) {
	if _, err := e.store.GetUserByPhone(ctx, phone); err != nil {
		return 0, err
	}

	return e.issue(ctx, phone, false)
}

// Verify checks code against the stored challenge. A matching code stays
// valid until it expires or a new one is issued.
func (e *OTPEngine) Verify(ctx context.Context, phone string, code int) (entity.Subject, error) {
	user, err := e.store.GetUserByPhone(ctx, phone)
	if err != nil {
		return entity.Subject{}, err
	}

	if user.OTP == nil || user.OTP.Expired(e.clock.Now()) {
		return entity.Subject{}, entity.ErrOTPExpired
	}

	if user.OTP.Code != code {
		return entity.Subject{}, entity.ErrOTPMismatch
	}

	return user.Subject(), nil
}

// Resend issues a new code once the previous one has expired.
func (e *OTPEngine) Resend(ctx context.Context, phone string) (int, error) {
	user, err := e.store.GetUserByPhone(ctx, phone)
	if err != nil {
		return 0, err
	}

	if user.OTP != nil && user.OTP.Pending(e.clock.Now()) {
		return 0, entity.ErrOTPThrottled
	}

	return e.issue(ctx, phone, true)
}

func (e *OTPEngine) issue(ctx context.Context, phone string, resend bool) (int, error) {
	code, err := e.generate()
	if err != nil {
		return 0, err
	}

	otp := entity.OTP{Code: code, ExpireAt: e.clock.Now().Add(e.ttl)}
	if err := e.store.SaveOTP(ctx, phone, otp); err != nil {
		return 0, err
	}

	e.deliver(ctx, phone, otp, resend)

	return code, nil
}

// deliver publishes the code in the background. Failures are logged only.
func (e *OTPEngine) deliver(ctx context.Context, phone string, otp entity.OTP, resend bool) {
	key := MsgSMSVerification
	if resend {
		key = MsgSMSResend
	}

	ev := OTPIssuedEvent{
		ID:       e.uid.Generate(),
		Phone:    phone,
		Text:     e.texts.T(key, strconv.Itoa(otp.Code)),
		Resend:   resend,
		ExpireAt: otp.ExpireAt,
	}

	started := e.goroutine.Go(context.WithoutCancel(ctx), func(ctx context.Context) error {
		if err := e.messaging.PublishOTPIssued(ctx, ev); err != nil {
			slog.ErrorContext(ctx, "failed to publish otp issued", "event_id", ev.ID, "error", err)
			return err
		}
		return nil
	})
	if !started {
		slog.WarnContext(ctx, "otp delivery was not scheduled", "event_id", ev.ID)
	}
}
