package inbound

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/tarkhineh/tarkhineh/internal/notification/usecase"
	"github.com/tarkhineh/tarkhineh/internal/pkg/instrument"
	"github.com/tarkhineh/tarkhineh/internal/pkg/messaging"
	"github.com/tarkhineh/tarkhineh/internal/pkg/uid"
	"github.com/tarkhineh/tarkhineh/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

// otpDeliverer delivers the SMS for an issued code.
type otpDeliverer interface {
	ConsumeOTPIssued(ctx context.Context, in usecase.ConsumeOTPIssuedInput) error
}

type MQHandler struct {
	uc   otpDeliverer
	uuid uid.StringID
	ins  instrument.Instrumentation
}

// ensureCorrelationID prefers the header, then the id carried in the body.
func (h *MQHandler) ensureCorrelationID(ctx context.Context, msg messaging.Message, fromBody string) context.Context {
	if cID := msg.Header(keyOfCorrelationID); cID != "" {
		return instrument.SetCorrelationID(ctx, cID)
	}
	if fromBody != "" {
		return instrument.SetCorrelationID(ctx, fromBody)
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

func (h *MQHandler) OTPIssuedNotification(ctx context.Context, msg messaging.Message) error {
	body := msg.Body()

	var payload event.OTPIssuedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		ctx = h.ensureCorrelationID(ctx, msg, "")
		slog.ErrorContext(ctx, "failed to parse message body of otp issued notification", "msg_id", msg.ID(), "error", err)
		return nil
	}

	ctx = h.ensureCorrelationID(ctx, msg, payload.CorrelationID)

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "OTPIssuedNotification")
	defer span.End()

	slog.InfoContext(ctx, "consume: otp issued notification", "event_id", payload.EventID, "attempts", msg.Attempts())

	if err := h.uc.ConsumeOTPIssued(ctx, usecase.ConsumeOTPIssuedInput{
		EventID:  payload.EventID,
		Phone:    payload.Phone,
		Text:     payload.Text,
		ExpireAt: time.UnixMilli(payload.ExpireAt),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume otp issued", "event_id", payload.EventID, "error", err)
		return err
	}

	return nil
}
