package inbound

import (
	"net/http"

	"github.com/tarkhineh/tarkhineh/internal/identity/usecase"
	"github.com/tarkhineh/tarkhineh/internal/pkg/jwt"
	"github.com/tarkhineh/tarkhineh/internal/pkg/router"
)

type HTTPEndpoint struct {
	uc      uc
	session *Session
}

// RequestOTP sends a login code to a registered phone.
// @Summary Request OTP
// @Description Issues a one-time code valid for two minutes and sends it by SMS.
// @Tags Identity, Authentication
// @Accept json
// @Produce json
// @Param request body RequestOTPRequest true "Phone payload"
// @Success 200 {object} router.successResponse{data=CodeSentResponse} "Code sent"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 404 {object} router.errorResponse "Unknown phone"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/otp [post]
func (h *HTTPEndpoint) RequestOTP(r *router.Request) (any, error) {
	var req RequestOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.RequestOTP(r.Context(), usecase.RequestOTPInput{Phone: req.Phone})
	if err != nil {
		return nil, err
	}

	return CodeSentResponse{msg: resp.Message}, nil
}

// VerifyOTP exchanges a valid code for a token pair.
// @Summary Verify OTP
// @Description Verifies the code and sets the access-token and refresh-token cookies.
// @Tags Identity, Authentication
// @Accept json
// @Produce json
// @Param request body VerifyOTPRequest true "Phone and code"
// @Success 200 {object} router.successResponse{data=VerifyOTPResponse} "Authentication result"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Expired or incorrect code"
// @Failure 404 {object} router.errorResponse "Unknown phone"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/otp/verify [post]
func (h *HTTPEndpoint) VerifyOTP(r *router.Request) (any, error) {
	var req VerifyOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.VerifyOTP(r.Context(), usecase.VerifyOTPInput{Phone: req.Phone, Code: req.Code})
	if err != nil {
		return nil, err
	}

	return VerifyOTPResponse{
		Tokens: Tokens{
			AccessToken:  resp.Tokens.AccessToken,
			RefreshToken: resp.Tokens.RefreshToken,
		},
		Phone:    resp.Subject.Phone,
		Username: resp.Subject.Username,
		msg:      resp.Message,
		cookies:  h.session.Attach(resp.Tokens),
	}, nil
}

// ResendCode sends a new code once the previous one has expired.
// @Summary Resend OTP
// @Tags Identity, Authentication
// @Accept json
// @Produce json
// @Param request body ResendCodeRequest true "Phone payload"
// @Success 200 {object} router.successResponse{data=CodeSentResponse} "Code sent"
// @Failure 404 {object} router.errorResponse "Unknown phone"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 429 {object} router.errorResponse "Previous code still valid"
// @Router /api/v1/identity/otp/resend [post]
func (h *HTTPEndpoint) ResendCode(r *router.Request) (any, error) {
	var req ResendCodeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.ResendCode(r.Context(), usecase.ResendCodeInput{Phone: req.Phone})
	if err != nil {
		return nil, err
	}

	return CodeSentResponse{msg: resp.Message}, nil
}

// Refresh rotates the refresh token and resets both cookies.
// @Summary Refresh tokens
// @Description Body fields are optional; the refresh-token cookie and the token's phone claim are used as fallbacks.
// @Tags Identity, Authentication
// @Accept json
// @Produce json
// @Param request body RefreshRequest false "Refresh token payload"
// @Success 200 {object} router.successResponse{data=RefreshResponse} "Tokens rotated"
// @Failure 401 {object} router.errorResponse "Invalid refresh token"
// @Router /api/v1/identity/refresh [post]
func (h *HTTPEndpoint) Refresh(r *router.Request) (any, error) {
	token, phone := h.refreshCredential(r)

	resp, err := h.uc.Refresh(r.Context(), usecase.RefreshInput{RefreshToken: token, Phone: phone})
	if err != nil {
		return nil, err
	}

	return RefreshResponse{msg: resp.Message, cookies: h.session.Attach(resp.Tokens)}, nil
}

// AccessToken issues a new access token without rotating the refresh token.
// @Summary Issue access token
// @Tags Identity, Authentication
// @Accept json
// @Produce json
// @Param request body RefreshRequest false "Refresh token payload"
// @Success 200 {object} router.successResponse{data=AccessTokenResponse} "Access token issued"
// @Failure 401 {object} router.errorResponse "Invalid refresh token"
// @Router /api/v1/identity/token/access [post]
func (h *HTTPEndpoint) AccessToken(r *router.Request) (any, error) {
	token, phone := h.refreshCredential(r)

	resp, err := h.uc.AccessToken(r.Context(), usecase.AccessTokenInput{RefreshToken: token, Phone: phone})
	if err != nil {
		return nil, err
	}

	return AccessTokenResponse{
		AccessToken: resp.AccessToken,
		msg:         resp.Message,
		cookies:     []*http.Cookie{h.session.AccessCookie(resp.AccessToken)},
	}, nil
}

// Logout clears the session. It succeeds even without an active session.
// The stored session is revoked only for a bearer access token or a valid
// refresh token; otherwise just the cookies are cleared.
// @Summary Logout
// @Tags Identity, Authentication
// @Accept json
// @Produce json
// @Param request body RefreshRequest false "Refresh token payload"
// @Success 200 {object} router.successResponse{data=LogoutResponse} "Logged out"
// @Router /api/v1/identity/logout [post]
func (h *HTTPEndpoint) Logout(r *router.Request) (any, error) {
	token, phone := h.refreshCredential(r)

	resp := h.uc.Logout(r.Context(), usecase.LogoutInput{RefreshToken: token, Phone: phone})

	return LogoutResponse{msg: resp.Message, cookies: h.session.Teardown()}, nil
}

// Session returns the authenticated caller.
// @Summary Current session
// @Tags Identity, Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} router.successResponse{data=SessionResponse} "Session"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Router /api/v1/identity/session [get]
func (h *HTTPEndpoint) Session(r *router.Request) (any, error) {
	resp, err := h.uc.Session(r.Context())
	if err != nil {
		return nil, err
	}

	return SessionResponse{
		Phone:     resp.Subject.Phone,
		Username:  resp.Subject.Username,
		ExpiresAt: resp.ExpiresAt,
		msg:       resp.Message,
	}, nil
}

// refreshCredential reads the refresh token from the body or its cookie, and
// the phone from the body or the token's unverified claims. A malformed body
// counts as absent so the caller gets an invalid token error.
func (h *HTTPEndpoint) refreshCredential(r *router.Request) (token, phone string) {
	var req RefreshRequest
	if err := r.DecodeBody(&req, true); err != nil {
		req = RefreshRequest{}
	}

	token = req.RefreshToken
	if token == "" {
		token = r.GetCookie(CookieRefreshToken)
	}

	phone = req.Phone
	if phone == "" && token != "" {
		if clm, err := jwt.Peek(token); err == nil {
			phone = clm.Phone
		}
	}

	return token, phone
}
