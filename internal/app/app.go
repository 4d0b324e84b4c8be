package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/tarkhineh/tarkhineh/internal/pkg/clock"
	"github.com/tarkhineh/tarkhineh/internal/pkg/config"
	"github.com/tarkhineh/tarkhineh/internal/pkg/goroutine"
	"github.com/tarkhineh/tarkhineh/internal/pkg/hash"
	"github.com/tarkhineh/tarkhineh/internal/pkg/i18n"
	"github.com/tarkhineh/tarkhineh/internal/pkg/idempotency"
	"github.com/tarkhineh/tarkhineh/internal/pkg/instrument"
	"github.com/tarkhineh/tarkhineh/internal/pkg/jwt"
	"github.com/tarkhineh/tarkhineh/internal/pkg/messaging"
	"github.com/tarkhineh/tarkhineh/internal/pkg/router"
	"github.com/tarkhineh/tarkhineh/internal/pkg/sms"
	"github.com/tarkhineh/tarkhineh/internal/pkg/uid"
	"github.com/tarkhineh/tarkhineh/internal/pkg/validator"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine  *goroutine.Manager
	validator  validator.Validator
	clock      clock.Clocker
	hash       hash.Hash
	uid        uid.NumberID
	uuid       uid.StringID
	i18n       *i18n.Bundle
	accessJWT  jwt.JWT
	refreshJWT jwt.JWT

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	idemp     idempotency.Idempotency
	sms       sms.Sender
	messaging messaging.Messaging

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initJWT()
	app.initDatabase()
	app.initCache()
	app.initSMS()
	app.initMessaging()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
