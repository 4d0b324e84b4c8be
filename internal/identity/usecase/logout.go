package usecase

import (
	"context"
	"log/slog"

	"github.com/tarkhineh/tarkhineh/internal/identity/entity"
	"github.com/tarkhineh/tarkhineh/internal/pkg/jwt"
)

type LogoutInput struct {
	RefreshToken string
	Phone        string
}

type LogoutOutput struct {
	Message string
}

// Logout clears the stored refresh hash of the caller. It always succeeds: an
// unknown phone, a missing session or a store failure only gets logged.
//
// The caller is identified by verified access claims, or by a refresh token
// that matches the stored hash. A bare phone identifies nobody.
func (s *Usecase) Logout(ctx context.Context, in LogoutInput) *LogoutOutput {
	ctx, span := s.startSpan(ctx, "Logout")
	defer span.End()

	out := &LogoutOutput{Message: s.trans.T(MsgLogoutSucceeded)}

	phone := s.logoutPhoneOf(ctx, in)
	if phone == "" {
		return out
	}

	if err := s.repoDB.ClearRefreshHash(ctx, phone); err != nil {
		slog.WarnContext(ctx, "failed to clear refresh token hash", "phone", phone, "error", err)
	}

	return out
}

func (s *Usecase) logoutPhoneOf(ctx context.Context, in LogoutInput) string {
	if clm := jwt.GetAuth(ctx); clm != nil && clm.Phone != "" {
		phone, err := entity.NormalizePhone(clm.Phone)
		if err != nil {
			slog.WarnContext(ctx, "logout with invalid phone claim", "error", err)
			return ""
		}
		return phone
	}

	if in.RefreshToken == "" {
		return ""
	}

	raw := in.Phone
	if raw == "" {
		if clm, err := jwt.Peek(in.RefreshToken); err == nil {
			raw = clm.Phone
		}
	}

	phone, err := entity.NormalizePhone(raw)
	if err != nil {
		slog.WarnContext(ctx, "logout with invalid phone", "error", err)
		return ""
	}

	sub, err := s.rotation.Validate(ctx, in.RefreshToken, phone)
	if err != nil {
		slog.WarnContext(ctx, "logout refresh token rejected", "phone", phone, "error", err)
		return ""
	}

	return sub.Phone
}
