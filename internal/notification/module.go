package notification

import (
	"context"

	"github.com/tarkhineh/tarkhineh/internal/notification/inbound"
	"github.com/tarkhineh/tarkhineh/internal/notification/outbound/sms"
	"github.com/tarkhineh/tarkhineh/internal/notification/usecase"
	"github.com/tarkhineh/tarkhineh/internal/pkg/clock"
	"github.com/tarkhineh/tarkhineh/internal/pkg/config"
	"github.com/tarkhineh/tarkhineh/internal/pkg/goroutine"
	"github.com/tarkhineh/tarkhineh/internal/pkg/idempotency"
	"github.com/tarkhineh/tarkhineh/internal/pkg/instrument"
	"github.com/tarkhineh/tarkhineh/internal/pkg/messaging"
	pkgsms "github.com/tarkhineh/tarkhineh/internal/pkg/sms"
	"github.com/tarkhineh/tarkhineh/internal/pkg/uid"
	"github.com/tarkhineh/tarkhineh/internal/pkg/validator"
)

type Dependency struct {
	// Ctx bounds the consumers. Without it no consumer is started.
	Ctx         context.Context
	Messaging   messaging.Consumer
	Config      config.Config
	Instrument  instrument.Instrumentation
	UUID        uid.StringID
	Clock       clock.Clocker
	Goroutine   *goroutine.Manager
	Validator   validator.Validator
	Idempotency idempotency.Idempotency
	SMS         pkgsms.Sender
}

func New(dep Dependency) error {
	repoSMS := sms.New(dep.SMS, dep.Instrument)

	uc := usecase.NewNotification(usecase.Dependency{
		RepoSMS:     repoSMS,
		Idempotency: dep.Idempotency,
		Validator:   dep.Validator,
		Clock:       dep.Clock,
		Instrument:  dep.Instrument,
	})

	if dep.Ctx != nil {
		inbound.RegisterMQConsumer(dep.Ctx, dep.Config, dep.Goroutine, dep.Messaging, dep.UUID, uc, dep.Instrument)
	}

	return nil
}
