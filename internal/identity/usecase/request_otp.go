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

type RequestOTPInput struct {
	Phone string `validate:"required,phone"`
}

type RequestOTPOutput struct {
	Message string
}

func (s *Usecase) RequestOTP(ctx context.Context, in RequestOTPInput) (*RequestOTPOutput, error) {
	ctx, span := s.startSpan(ctx, "RequestOTP")
	defer span.End()

	phone, err := s.phoneOf(in.Phone, in)
	if err != nil {
		return nil, err
	}

	if _, err := s.otp.Issue(ctx, phone); err != nil {
		if errors.Is(err, goerror.ErrNotFound) {
			slog.WarnContext(ctx, "otp requested for unknown phone", "phone", phone)
			return nil, goerror.NewBusinessFrom(err, s.trans.T(MsgUserNotFound), goerror.CodeNotFound)
		}
		slog.ErrorContext(ctx, "failed to issue otp", "phone", phone, "error", err)
		return nil, goerror.NewServer(err)
	}

	s.count(ctx, s.otpIssued, metric.WithAttributes(attribute.Bool("resend", false)))

	return &RequestOTPOutput{Message: s.trans.T(MsgCodeSent)}, nil
}

// phoneOf validates in and returns raw in E.164 form.
func (s *Usecase) phoneOf(raw string, in any) (string, error) {
	if err := s.validator.Validate(in); err != nil {
		return "", goerror.NewInvalidInput(err)
	}

	phone, err := entity.NormalizePhone(raw)
	if err != nil {
		return "", goerror.NewInvalidInput(nil, "phone", s.trans.T(MsgInvalidPhone))
	}

	return phone, nil
}
