package db

import (
	"context"

	"github.com/tarkhineh/tarkhineh/internal/identity/entity"
)

const (
	querySaveOTP = `
UPDATE identity_users
SET otp_code = $2, otp_expire_at = $3, updated_at = NOW()
WHERE phone = $1`

	querySaveRefreshHash = `
UPDATE identity_users
SET hashed_refresh_token = $2, updated_at = NOW()
WHERE phone = $1`

	querySwapRefreshHash = `
UPDATE identity_users
SET hashed_refresh_token = $3, updated_at = NOW()
WHERE phone = $1 AND hashed_refresh_token = $2`

	queryClearRefreshHash = `
UPDATE identity_users
SET hashed_refresh_token = NULL, updated_at = NOW()
WHERE phone = $1 AND hashed_refresh_token IS NOT NULL`
)

func (s *DB) SaveOTP(ctx context.Context, phone string, otp entity.OTP) (err error) {
	ctx, span := s.startSpan(ctx, "SaveOTP")
	defer func() { s.endSpan(span, err) }()

	return s.exec(ctx, querySaveOTP, phone, int32(otp.Code), otp.ExpireAt)
}

func (s *DB) SaveRefreshHash(ctx context.Context, phone, hash string) (err error) {
	ctx, span := s.startSpan(ctx, "SaveRefreshHash")
	defer func() { s.endSpan(span, err) }()

	return s.exec(ctx, querySaveRefreshHash, phone, hash)
}

// SwapRefreshHash is a compare-and-set on the stored hash.
func (s *DB) SwapRefreshHash(ctx context.Context, phone, oldHash, newHash string) (err error) {
	ctx, span := s.startSpan(ctx, "SwapRefreshHash")
	defer func() { s.endSpan(span, err) }()

	return s.exec(ctx, querySwapRefreshHash, phone, oldHash, newHash)
}

// ClearRefreshHash is a no-op for unknown phones and users without a session.
func (s *DB) ClearRefreshHash(ctx context.Context, phone string) (err error) {
	ctx, span := s.startSpan(ctx, "ClearRefreshHash")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryClearRefreshHash, phone)
	return s.mapError(err)
}
