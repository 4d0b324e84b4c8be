package sms

import (
	"context"

	"github.com/tarkhineh/tarkhineh/internal/notification/entity"
	"github.com/tarkhineh/tarkhineh/internal/pkg/instrument"
	"github.com/tarkhineh/tarkhineh/internal/pkg/sms"
	"go.opentelemetry.io/otel/codes"
)

type SMS struct {
	client sms.Sender
	ins    instrument.Instrumentation
}

func New(client sms.Sender, ins instrument.Instrumentation) *SMS {
	return &SMS{client: client, ins: ins}
}

func (m *SMS) Send(ctx context.Context, msg entity.SMS) error {
	ctx, span := m.ins.Tracer("notification.outbound.sms").Start(ctx, "Send")
	defer span.End()

	if err := m.client.Send(ctx, msg.Phone, msg.Text); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
