package entity

import "errors"

var (
	ErrOTPExpired          = errors.New("identity: otp is expired")
	ErrOTPMismatch         = errors.New("identity: otp does not match")
	ErrOTPThrottled        = errors.New("identity: previous otp is still pending")
	ErrInvalidRefreshToken = errors.New("identity: refresh token is invalid")
	ErrInvalidPhone        = errors.New("identity: phone number is invalid")
)
