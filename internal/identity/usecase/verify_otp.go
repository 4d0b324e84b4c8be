package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tarkhineh/tarkhineh/internal/identity/entity"
	"github.com/tarkhineh/tarkhineh/internal/pkg/goerror"
)

type VerifyOTPInput struct {
	Phone string `validate:"required,phone"`
	Code  int    `validate:"min=0,max=999999"`
}

type VerifyOTPOutput struct {
	Subject entity.Subject
	Tokens  entity.TokenPair
	Message string
}

func (s *Usecase) VerifyOTP(ctx context.Context, in VerifyOTPInput) (*VerifyOTPOutput, error) {
	ctx, span := s.startSpan(ctx, "VerifyOTP")
	defer span.End()

	phone, err := s.phoneOf(in.Phone, in)
	if err != nil {
		return nil, err
	}

	sub, err := s.otp.Verify(ctx, phone, in.Code)
	switch {
	case errors.Is(err, goerror.ErrNotFound):
		slog.WarnContext(ctx, "otp verified for unknown phone", "phone", phone)
		return nil, goerror.NewBusinessFrom(err, s.trans.T(MsgUserNotFound), goerror.CodeNotFound)
	case errors.Is(err, entity.ErrOTPExpired):
		slog.WarnContext(ctx, "otp is expired", "phone", phone)
		return nil, goerror.NewBusinessFrom(err, s.trans.T(MsgCodeExpired), goerror.CodeUnauthorized)
	case errors.Is(err, entity.ErrOTPMismatch):
		slog.WarnContext(ctx, "otp does not match", "phone", phone)
		return nil, goerror.NewBusinessFrom(err, s.trans.T(MsgCodeMismatch), goerror.CodeUnauthorized)
	case err != nil:
		slog.ErrorContext(ctx, "failed to verify otp", "phone", phone, "error", err)
		return nil, goerror.NewServer(err)
	}

	pair, err := s.issuer.Mint(ctx, sub)
	if err != nil {
		slog.ErrorContext(ctx, "failed to mint token pair", "phone", phone, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.rotation.Persist(ctx, phone, pair.RefreshToken); err != nil {
		slog.ErrorContext(ctx, "failed to persist refresh token hash", "phone", phone, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &VerifyOTPOutput{
		Subject: sub,
		Tokens:  pair,
		Message: s.trans.T(MsgLoginSucceeded),
	}, nil
}
