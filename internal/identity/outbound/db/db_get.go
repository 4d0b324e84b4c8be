package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/tarkhineh/tarkhineh/internal/identity/entity"
)

const queryGetUserByPhone = `
SELECT phone, username, otp_code, otp_expire_at, hashed_refresh_token
FROM identity_users
WHERE phone = $1`

func (s *DB) GetUserByPhone(ctx context.Context, phone string) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByPhone")
	defer func() { s.endSpan(span, err) }()

	var (
		user     entity.User
		code     pgtype.Int4
		expireAt pgtype.Timestamptz
		hashRT   pgtype.Text
	)

	err = s.conn.QueryRow(ctx, queryGetUserByPhone, phone).
		Scan(&user.Phone, &user.Username, &code, &expireAt, &hashRT)
	if err != nil {
		return nil, s.mapError(err)
	}

	if code.Valid && expireAt.Valid {
		user.OTP = &entity.OTP{Code: int(code.Int32), ExpireAt: expireAt.Time}
	}
	user.HashedRefreshToken = hashRT.String

	return &user, nil
}
