package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/tarkhineh/tarkhineh/internal/identity/inbound"
	"github.com/tarkhineh/tarkhineh/internal/identity/outbound/cache"
	"github.com/tarkhineh/tarkhineh/internal/identity/outbound/db"
	"github.com/tarkhineh/tarkhineh/internal/identity/outbound/mq"
	"github.com/tarkhineh/tarkhineh/internal/identity/usecase"
	"github.com/tarkhineh/tarkhineh/internal/pkg/clock"
	"github.com/tarkhineh/tarkhineh/internal/pkg/config"
	"github.com/tarkhineh/tarkhineh/internal/pkg/goroutine"
	"github.com/tarkhineh/tarkhineh/internal/pkg/hash"
	"github.com/tarkhineh/tarkhineh/internal/pkg/i18n"
	"github.com/tarkhineh/tarkhineh/internal/pkg/instrument"
	"github.com/tarkhineh/tarkhineh/internal/pkg/jwt"
	"github.com/tarkhineh/tarkhineh/internal/pkg/messaging"
	"github.com/tarkhineh/tarkhineh/internal/pkg/router"
	"github.com/tarkhineh/tarkhineh/internal/pkg/uid"
	"github.com/tarkhineh/tarkhineh/internal/pkg/validator"
)

const (
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

type Dependency struct {
	DBConn     *pgxpool.Pool              `validate:"required"`
	CacheConn  redis.UniversalClient      `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Messaging  messaging.Publisher        `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	Hash       hash.Hash                  `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	I18n       *i18n.Bundle               `validate:"required"`
	AccessJWT  jwt.JWT                    `validate:"required"`
	RefreshJWT jwt.JWT                    `validate:"required"`
}

// Migrate applies the identity schema.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	return db.Migrate(ctx, pool)
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	for locale, msgs := range usecase.Messages {
		if err := dep.I18n.Register(locale, msgs); err != nil {
			return err
		}
	}

	store, err := newStore(dep)
	if err != nil {
		return err
	}
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:        store,
		RepoMessaging: repoMsg,
		Validator:     dep.Validator,
		Translator:    dep.I18n,
		Hash:          dep.Hash,
		UID:           dep.UID,
		Clock:         dep.Clock,
		AccessJWT:     dep.AccessJWT,
		RefreshJWT:    dep.RefreshJWT,
		Instrument:    dep.Instrument,
		Goroutine:     dep.Goroutine,
		OTPTTL:        dep.Config.GetSecond("modules.identity.otp.ttl_seconds"),
	})

	session := inbound.NewSession(inbound.SessionConfig{
		Domain:     dep.Config.GetString("modules.identity.cookie.domain"),
		Path:       dep.Config.GetString("modules.identity.cookie.path"),
		Secure:     dep.Config.GetBool("modules.identity.cookie.secure"),
		HTTPOnly:   dep.Config.GetBool("modules.identity.cookie.http_only"),
		SameSite:   inbound.ParseSameSite(dep.Config.GetString("modules.identity.cookie.same_site")),
		AccessTTL:  dep.Config.GetHour("jwt.access.ttl_hours"),
		RefreshTTL: dep.Config.GetDay("jwt.refresh.ttl_days"),
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc, session)

	return nil
}

func newStore(dep Dependency) (usecase.Store, error) {
	switch driver := strings.ToLower(dep.Config.GetString("modules.identity.store")); driver {
	case "", StorePostgres:
		return db.NewDB(dep.DBConn, dep.Instrument), nil
	case StoreRedis:
		return cache.NewCache(dep.CacheConn, dep.Instrument), nil
	default:
		return nil, fmt.Errorf("identity: unsupported store %q", driver)
	}
}
