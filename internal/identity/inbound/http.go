package inbound

import (
	"context"

	"github.com/tarkhineh/tarkhineh/internal/identity/usecase"
	"github.com/tarkhineh/tarkhineh/internal/pkg/router"
)

type uc interface {
	RequestOTP(ctx context.Context, in usecase.RequestOTPInput) (*usecase.RequestOTPOutput, error)
	VerifyOTP(ctx context.Context, in usecase.VerifyOTPInput) (*usecase.VerifyOTPOutput, error)
	ResendCode(ctx context.Context, in usecase.ResendCodeInput) (*usecase.ResendCodeOutput, error)

	Refresh(ctx context.Context, in usecase.RefreshInput) (*usecase.RefreshOutput, error)
	AccessToken(ctx context.Context, in usecase.AccessTokenInput) (*usecase.AccessTokenOutput, error)

	Logout(ctx context.Context, in usecase.LogoutInput) *usecase.LogoutOutput
	Session(ctx context.Context) (*usecase.SessionOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc, session *Session) {
	end := &HTTPEndpoint{uc: uc, session: session}

	// OTP login
	r.POST("/api/v1/identity/otp", end.RequestOTP)
	r.POST("/api/v1/identity/otp/verify", end.VerifyOTP)
	r.POST("/api/v1/identity/otp/resend", end.ResendCode)

	// Tokens
	r.POST("/api/v1/identity/refresh", end.Refresh)
	r.POST("/api/v1/identity/token/access", end.AccessToken)

	r.POST("/api/v1/identity/logout", end.Logout)
	r.GET("/api/v1/identity/session", end.Session) // need authenticated
}
