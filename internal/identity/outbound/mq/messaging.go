package mq

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/tarkhineh/tarkhineh/internal/identity/usecase"
	"github.com/tarkhineh/tarkhineh/internal/pkg/instrument"
	"github.com/tarkhineh/tarkhineh/internal/pkg/messaging"
	"github.com/tarkhineh/tarkhineh/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Publisher
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Publisher, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) PublishOTPIssued(ctx context.Context, msg usecase.OTPIssuedEvent) error {
	ctx, span := m.ins.Tracer("identity.outbound.mq").Start(ctx, "PublishOTPIssued")
	defer span.End()

	cID := instrument.GetCorrelationID(ctx)
	body, err := json.Marshal(event.OTPIssuedMessage{
		EventID:       msg.ID,
		Phone:         msg.Phone,
		Text:          msg.Text,
		Resend:        msg.Resend,
		ExpireAt:      msg.ExpireAt.UnixMilli(),
		CorrelationID: cID,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if _, err := m.client.Publish(ctx, event.OTPIssuedDestination, messaging.OutgoingMessage{
		Body:        body,
		Key:         []byte(msg.Phone),
		OrderingKey: msg.Phone,
		Headers: map[string]string{
			keyOfCorrelationID: cID,
			"event_id":         strconv.FormatInt(msg.ID, 10),
		},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
