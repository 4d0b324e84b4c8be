package usecase

import (
	"context"

	"github.com/tarkhineh/tarkhineh/internal/identity/entity"
	"github.com/tarkhineh/tarkhineh/internal/pkg/goerror"
	"github.com/tarkhineh/tarkhineh/internal/pkg/jwt"
)

type SessionOutput struct {
	Subject   entity.Subject
	ExpiresAt int64
	Message   string
}

// Session describes the caller of an authenticated request.
func (s *Usecase) Session(ctx context.Context) (*SessionOutput, error) {
	_, span := s.startSpan(ctx, "Session")
	defer span.End()

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness(s.trans.T(MsgAuthRequired), goerror.CodeUnauthorized)
	}

	out := &SessionOutput{
		Subject: entity.Subject{Phone: clm.Phone, Username: clm.Subject},
		Message: s.trans.T(MsgSessionActive),
	}
	if clm.ExpiresAt != nil {
		out.ExpiresAt = clm.ExpiresAt.Unix()
	}

	return out, nil
}
