package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/tarkhineh/tarkhineh/internal/notification/entity"
	"github.com/tarkhineh/tarkhineh/internal/pkg/idempotency"
)

const otpIssuedStateTTL = 24 * time.Hour

type ConsumeOTPIssuedInput struct {
	EventID  int64     `validate:"required,gt=0"`
	Phone    string    `validate:"required,phone"`
	Text     string    `validate:"required"`
	ExpireAt time.Time `validate:"required"`
}

// ConsumeOTPIssued sends the OTP text once per event. Invalid or stale events
// are dropped; a failed send is returned so the broker redelivers it.
func (s *Usecase) ConsumeOTPIssued(ctx context.Context, in ConsumeOTPIssuedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeOTPIssued")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	if s.clock.Now().After(in.ExpireAt) {
		slog.WarnContext(ctx, "otp expired before delivery", "event_id", in.EventID)
		return nil
	}

	key := "notification:otp_issued:" + strconv.FormatInt(in.EventID, 10)
	err := s.idemp.Exec(ctx, key, func(ctx context.Context) error {
		return s.repoSMS.Send(ctx, entity.SMS{Phone: in.Phone, Text: in.Text})
	}, idempotency.WithRetryFailed(), idempotency.WithStateTTL(otpIssuedStateTTL))

	switch {
	case errors.Is(err, idempotency.ErrAlreadyCompleted):
		slog.InfoContext(ctx, "otp sms already sent", "event_id", in.EventID)
		return nil
	case errors.Is(err, idempotency.ErrAlreadyInProgress):
		slog.InfoContext(ctx, "otp sms is being sent by another worker", "event_id", in.EventID)
		return nil
	case err != nil:
		slog.ErrorContext(ctx, "failed to send otp sms", "event_id", in.EventID, "error", err)
		return err
	}

	slog.InfoContext(ctx, "otp sms sent", "event_id", in.EventID)
	return nil
}
