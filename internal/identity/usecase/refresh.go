package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tarkhineh/tarkhineh/internal/identity/entity"
	"github.com/tarkhineh/tarkhineh/internal/pkg/goerror"
)

type RefreshInput struct {
	RefreshToken string `validate:"required"`
	Phone        string `validate:"required"`
}

type RefreshOutput struct {
	Tokens  entity.TokenPair
	Message string
}

func (s *Usecase) Refresh(ctx context.Context, in RefreshInput) (*RefreshOutput, error) {
	ctx, span := s.startSpan(ctx, "Refresh")
	defer span.End()

	phone, err := s.refreshPhoneOf(ctx, in.Phone, in)
	if err != nil {
		return nil, err
	}

	pair, err := s.rotation.Rotate(ctx, in.RefreshToken, phone)
	if err != nil {
		return nil, s.refreshError(ctx, phone, err)
	}

	s.count(ctx, s.refreshRotated)

	return &RefreshOutput{Tokens: pair, Message: s.trans.T(MsgTokenRefreshed)}, nil
}

// refreshPhoneOf is phoneOf for refresh flows, where every input problem is
// reported as an invalid token.
func (s *Usecase) refreshPhoneOf(ctx context.Context, raw string, in any) (string, error) {
	if err := s.validator.Validate(in); err != nil {
		s.count(ctx, s.refreshRejected)
		return "", goerror.NewBusinessFrom(entity.ErrInvalidRefreshToken, s.trans.T(MsgInvalidToken), goerror.CodeUnauthorized)
	}

	phone, err := entity.NormalizePhone(raw)
	if err != nil {
		s.count(ctx, s.refreshRejected)
		return "", goerror.NewBusinessFrom(entity.ErrInvalidRefreshToken, s.trans.T(MsgInvalidToken), goerror.CodeUnauthorized)
	}

	return phone, nil
}

func (s *Usecase) refreshError(ctx context.Context, phone string, err error) error {
	if errors.Is(err, entity.ErrInvalidRefreshToken) {
		s.count(ctx, s.refreshRejected)
		slog.WarnContext(ctx, "refresh token rejected", "phone", phone)
		return goerror.NewBusinessFrom(err, s.trans.T(MsgInvalidToken), goerror.CodeUnauthorized)
	}

	slog.ErrorContext(ctx, "failed to authenticate refresh token", "phone", phone, "error", err)
	return goerror.NewServer(err)
}
