package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tarkhineh/tarkhineh/internal/identity/entity"
	"github.com/tarkhineh/tarkhineh/internal/pkg/goerror"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type ResendCodeInput struct {
	Phone string `validate:"required,phone"`
}

type ResendCodeOutput struct {
	Message string
}

func (s *Usecase) ResendCode(ctx context.Context, in ResendCodeInput) (*ResendCodeOutput, error) {
	ctx, span := s.startSpan(ctx, "ResendCode")
	defer span.End()

	phone, err := s.phoneOf(in.Phone, in)
	if err != nil {
		return nil, err
	}

	_, err = s.otp.Resend(ctx, phone)
	switch {
	case errors.Is(err, goerror.ErrNotFound):
		slog.WarnContext(ctx, "otp resend for unknown phone", "phone", phone)
		return nil, goerror.NewBusinessFrom(err, s.trans.T(MsgUserNotFound), goerror.CodeNotFound)
	case errors.Is(err, entity.ErrOTPThrottled):
		slog.WarnContext(ctx, "otp resend is throttled", "phone", phone)
		return nil, goerror.NewBusinessFrom(err, s.trans.T(MsgCodeThrottled), goerror.CodeTooManyRequest)
	case err != nil:
		slog.ErrorContext(ctx, "failed to resend otp", "phone", phone, "error", err)
		return nil, goerror.NewServer(err)
	}

	s.count(ctx, s.otpIssued, metric.WithAttributes(attribute.Bool("resend", true)))

	return &ResendCodeOutput{Message: s.trans.T(MsgCodeSent)}, nil
}
