package inbound

import (
	"context"
	"log/slog"
	"slices"

	"github.com/tarkhineh/tarkhineh/internal/pkg/config"
	"github.com/tarkhineh/tarkhineh/internal/pkg/goroutine"
	"github.com/tarkhineh/tarkhineh/internal/pkg/instrument"
	"github.com/tarkhineh/tarkhineh/internal/pkg/messaging"
	"github.com/tarkhineh/tarkhineh/internal/pkg/uid"
	"github.com/tarkhineh/tarkhineh/internal/shared/event"
)

type consumer struct {
	name    string
	topic   string // destination where publisher sent message
	group   string // nsq channel, nats queue group, kafka group, pubsub subscription
	handler messaging.Handler
}

func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Consumer,
	uuid uid.StringID,
	uc otpDeliverer,
	ins instrument.Instrumentation,
) {
	mqHandler := &MQHandler{uc: uc, uuid: uuid, ins: ins}

	enableConsumerNames := cfg.GetArray("modules.notification.consumer_names")
	concurrency := cfg.GetInt("modules.notification.consumer_concurrency")
	if concurrency < 1 {
		concurrency = 10
	}

	consumers := []consumer{
		{
			name:    event.OTPIssuedConsumerNotification,
			topic:   event.OTPIssuedDestination,
			group:   event.OTPIssuedConsumerNotification,
			handler: mqHandler.OTPIssuedNotification,
		},
	}

	for _, c := range consumers {
		if !slices.Contains(enableConsumerNames, c.name) {
			slog.InfoContext(ctx, "consumer is disabled", "consumer", c.name)
			continue
		}

		started := routine.Go(ctx, func(pCtx context.Context) error {
			slog.InfoContext(pCtx, "Running job for handling consumer", "consumer", c.name)
			return messenger.Consume(pCtx,
				c.topic,
				c.handler,
				messaging.WithChannel(c.group),
				messaging.WithQueueGroup(c.group),
				messaging.WithGroup(c.group),
				messaging.WithSubscription(c.group),
				messaging.WithAutoAck(true),
				messaging.WithConcurrency(concurrency),
				messaging.WithMaxInFlight(concurrency),
			)
		})
		if !started {
			slog.ErrorContext(ctx, "failed to start consumer", "consumer", c.name)
		}
	}
}
