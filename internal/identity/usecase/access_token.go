package usecase

import (
	"context"
	"log/slog"

	"github.com/tarkhineh/tarkhineh/internal/pkg/goerror"
)

type AccessTokenInput struct {
	RefreshToken string `validate:"required"`
	Phone        string `validate:"required"`
}

type AccessTokenOutput struct {
	AccessToken string
	Message     string
}

// AccessToken mints an access token for a valid refresh token and leaves the
// refresh token in place.
func (s *Usecase) AccessToken(ctx context.Context, in AccessTokenInput) (*AccessTokenOutput, error) {
	ctx, span := s.startSpan(ctx, "AccessToken")
	defer span.End()

	phone, err := s.refreshPhoneOf(ctx, in.Phone, in)
	if err != nil {
		return nil, err
	}

	sub, err := s.rotation.Validate(ctx, in.RefreshToken, phone)
	if err != nil {
		return nil, s.refreshError(ctx, phone, err)
	}

	token, err := s.issuer.MintAccessOnly(ctx, sub)
	if err != nil {
		slog.ErrorContext(ctx, "failed to mint access token", "phone", phone, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &AccessTokenOutput{AccessToken: token, Message: s.trans.T(MsgAccessIssued)}, nil
}
