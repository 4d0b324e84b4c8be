package inbound

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tarkhineh/tarkhineh/internal/identity/entity"
	"github.com/tarkhineh/tarkhineh/internal/identity/usecase"
	"github.com/tarkhineh/tarkhineh/internal/pkg/config"
	"github.com/tarkhineh/tarkhineh/internal/pkg/goerror"
	"github.com/tarkhineh/tarkhineh/internal/pkg/jwt"
	"github.com/tarkhineh/tarkhineh/internal/pkg/router"
	"github.com/tarkhineh/tarkhineh/internal/pkg/uid"
)

type fakeUsecase struct {
	verifyIn  usecase.VerifyOTPInput
	refreshIn usecase.RefreshInput
	accessIn  usecase.AccessTokenInput
	logoutIn  usecase.LogoutInput
	err       error
}

func (f *fakeUsecase) RequestOTP(_ context.Context, in usecase.RequestOTPInput) (*usecase.RequestOTPOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &usecase.RequestOTPOutput{Message: "sent to " + in.Phone}, nil
}

func (f *fakeUsecase) VerifyOTP(_ context.Context, in usecase.VerifyOTPInput) (*usecase.VerifyOTPOutput, error) {
	f.verifyIn = in
	if f.err != nil {
		return nil, f.err
	}
	return &usecase.VerifyOTPOutput{
		Subject: entity.Subject{Phone: in.Phone, Username: "ali"},
		Tokens:  entity.TokenPair{AccessToken: "A1", RefreshToken: "R1"},
		Message: "welcome",
	}, nil
}

func (f *fakeUsecase) ResendCode(context.Context, usecase.ResendCodeInput) (*usecase.ResendCodeOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &usecase.ResendCodeOutput{Message: "resent"}, nil
}

func (f *fakeUsecase) Refresh(_ context.Context, in usecase.RefreshInput) (*usecase.RefreshOutput, error) {
	f.refreshIn = in
	if f.err != nil {
		return nil, f.err
	}
	return &usecase.RefreshOutput{
		Tokens:  entity.TokenPair{AccessToken: "A2", RefreshToken: "R2"},
		Message: "rotated",
	}, nil
}

func (f *fakeUsecase) AccessToken(_ context.Context, in usecase.AccessTokenInput) (*usecase.AccessTokenOutput, error) {
	f.accessIn = in
	if f.err != nil {
		return nil, f.err
	}
	return &usecase.AccessTokenOutput{AccessToken: "A3", Message: "issued"}, nil
}

func (f *fakeUsecase) Logout(_ context.Context, in usecase.LogoutInput) *usecase.LogoutOutput {
	f.logoutIn = in
	return &usecase.LogoutOutput{Message: "bye"}
}

func (f *fakeUsecase) Session(ctx context.Context) (*usecase.SessionOutput, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}
	return &usecase.SessionOutput{Subject: entity.Subject{Phone: clm.Phone, Username: clm.Subject}, Message: "active"}, nil
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type testServer struct {
	handler http.Handler
	uc      *fakeUsecase
	access  *jwt.Symmetric
	refresh *jwt.Symmetric
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	clk := fixedClock{now: time.Now()}
	access, err := jwt.NewHS512(jwt.Config{
		Secret: []byte(strings.Repeat("a", 64)), TTL: time.Hour, Clock: clk, UUID: uid.NewUUID(),
	})
	require.NoError(t, err)
	refresh, err := jwt.NewHS512(jwt.Config{
		Secret: []byte(strings.Repeat("r", 64)), TTL: 72 * time.Hour, Clock: clk, UUID: uid.NewUUID(),
	})
	require.NoError(t, err)

	cfg, err := config.NewViperFromBytes("yaml", []byte("app: {}"))
	require.NoError(t, err)

	r := router.NewRouter(router.Config{
		Config:       cfg,
		UUID:         uid.NewUUID(),
		JWT:          access,
		AccessCookie: CookieAccessToken,
	})

	fuc := &fakeUsecase{}
	RegisterHTTPEndpoint(r, fuc, NewSession(SessionConfig{
		Secure:     true,
		HTTPOnly:   true,
		AccessTTL:  time.Hour,
		RefreshTTL: 72 * time.Hour,
	}))

	return &testServer{handler: r, uc: fuc, access: access, refresh: refresh}
}

func (s *testServer) do(req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func post(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func cookiesOf(rec *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := map[string]*http.Cookie{}
	for _, c := range rec.Result().Cookies() {
		out[c.Name] = c
	}
	return out
}

func TestHTTPEndpoint_RequestOTP(t *testing.T) {
	s := newTestServer(t)

	rec, body := s.do(post("/api/v1/identity/otp", `{"phone":"09123456789"}`))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sent to 09123456789", body["message"])

	rec, _ = s.do(post("/api/v1/identity/otp", `{"phone":`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHTTPEndpoint_RequestOTP_Errors(t *testing.T) {
	s := newTestServer(t)

	s.uc.err = goerror.NewBusiness("not found", goerror.CodeNotFound)
	rec, body := s.do(post("/api/v1/identity/otp", `{"phone":"09123456789"}`))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not found", body["message"])

	s.uc.err = goerror.NewBusinessFrom(entity.ErrOTPThrottled, "wait", goerror.CodeTooManyRequest)
	rec, _ = s.do(post("/api/v1/identity/otp/resend", `{"phone":"09123456789"}`))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestHTTPEndpoint_VerifyOTP(t *testing.T) {
	s := newTestServer(t)

	rec, body := s.do(post("/api/v1/identity/otp/verify", `{"phone":"+989123456789","code":482913}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "welcome", body["message"])

	data := body["data"].(map[string]any)
	assert.Equal(t, map[string]any{"access_token": "A1", "refresh_token": "R1"}, data["tokens"])
	assert.Equal(t, "ali", data["username"])

	cookies := cookiesOf(rec)
	require.Contains(t, cookies, CookieAccessToken)
	require.Contains(t, cookies, CookieRefreshToken)
	assert.Equal(t, "A1", cookies[CookieAccessToken].Value)
	assert.Equal(t, 3600, cookies[CookieAccessToken].MaxAge)
	assert.Equal(t, "R1", cookies[CookieRefreshToken].Value)
	assert.Equal(t, 259200, cookies[CookieRefreshToken].MaxAge)
	assert.True(t, cookies[CookieRefreshToken].HttpOnly)
}

func TestHTTPEndpoint_VerifyOTP_Unauthorized(t *testing.T) {
	s := newTestServer(t)
	s.uc.err = goerror.NewBusinessFrom(entity.ErrOTPExpired, "expired", goerror.CodeUnauthorized)

	rec, body := s.do(post("/api/v1/identity/otp/verify", `{"phone":"+989123456789","code":482913}`))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "expired", body["message"])
	assert.Empty(t, rec.Result().Cookies())
}

func TestHTTPEndpoint_VerifyOTP_ZeroCode(t *testing.T) {
	s := newTestServer(t)
	s.uc.err = goerror.NewBusinessFrom(entity.ErrOTPMismatch, "wrong code", goerror.CodeUnauthorized)

	rec, body := s.do(post("/api/v1/identity/otp/verify", `{"phone":"+989123456789","code":0}`))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "wrong code", body["message"])
	assert.Equal(t, usecase.VerifyOTPInput{Phone: "+989123456789", Code: 0}, s.uc.verifyIn)
}

func TestHTTPEndpoint_Refresh(t *testing.T) {
	s := newTestServer(t)
	token, err := s.refresh.Generate("ali", "+989123456789")
	require.NoError(t, err)

	t.Run("body", func(t *testing.T) {
		rec, body := s.do(post("/api/v1/identity/refresh", `{"refresh_token":"`+token+`","phone":"09123456789"}`))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "rotated", body["message"])
		assert.Equal(t, usecase.RefreshInput{RefreshToken: token, Phone: "09123456789"}, s.uc.refreshIn)

		cookies := cookiesOf(rec)
		assert.Equal(t, "A2", cookies[CookieAccessToken].Value)
		assert.Equal(t, "R2", cookies[CookieRefreshToken].Value)
	})

	t.Run("cookie and claim fallback", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/identity/refresh", nil)
		req.AddCookie(&http.Cookie{Name: CookieRefreshToken, Value: token})

		rec, _ := s.do(req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, usecase.RefreshInput{RefreshToken: token, Phone: "+989123456789"}, s.uc.refreshIn)
	})

	t.Run("malformed body falls back to cookie", func(t *testing.T) {
		req := post("/api/v1/identity/refresh", `not json`)
		req.AddCookie(&http.Cookie{Name: CookieRefreshToken, Value: token})

		rec, _ := s.do(req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, usecase.RefreshInput{RefreshToken: token, Phone: "+989123456789"}, s.uc.refreshIn)
	})

	t.Run("rejected", func(t *testing.T) {
		s.uc.err = goerror.NewBusinessFrom(entity.ErrInvalidRefreshToken, "invalid", goerror.CodeUnauthorized)
		defer func() { s.uc.err = nil }()

		rec, _ := s.do(post("/api/v1/identity/refresh", `{}`))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, rec.Result().Cookies())
	})
}

func TestHTTPEndpoint_AccessToken(t *testing.T) {
	s := newTestServer(t)
	token, err := s.refresh.Generate("ali", "+989123456789")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/identity/token/access", nil)
	req.AddCookie(&http.Cookie{Name: CookieRefreshToken, Value: token})

	rec, body := s.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "A3", body["data"].(map[string]any)["access_token"])
	assert.Equal(t, "+989123456789", s.uc.accessIn.Phone)

	cookies := cookiesOf(rec)
	assert.Equal(t, "A3", cookies[CookieAccessToken].Value)
	assert.NotContains(t, cookies, CookieRefreshToken)
}

func TestHTTPEndpoint_Logout(t *testing.T) {
	s := newTestServer(t)

	for _, body := range []string{"", `{"phone":"09123456789"}`, `not json`} {
		rec, resp := s.do(post("/api/v1/identity/logout", body))
		require.Equal(t, http.StatusOK, rec.Code, body)
		assert.Equal(t, "bye", resp["message"])

		cookies := cookiesOf(rec)
		require.Contains(t, cookies, CookieAccessToken)
		require.Contains(t, cookies, CookieRefreshToken)
		assert.Negative(t, cookies[CookieAccessToken].MaxAge)
		assert.Negative(t, cookies[CookieRefreshToken].MaxAge)
	}

	assert.Equal(t, usecase.LogoutInput{}, s.uc.logoutIn)
}

func TestHTTPEndpoint_Logout_Credential(t *testing.T) {
	s := newTestServer(t)
	token, err := s.refresh.Generate("ali", "+989123456789")
	require.NoError(t, err)

	rec, _ := s.do(post("/api/v1/identity/logout", `{"phone":"09350000000"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, usecase.LogoutInput{Phone: "09350000000"}, s.uc.logoutIn)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/identity/logout", nil)
	req.AddCookie(&http.Cookie{Name: CookieRefreshToken, Value: token})
	rec, _ = s.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, usecase.LogoutInput{RefreshToken: token, Phone: "+989123456789"}, s.uc.logoutIn)
}

func TestHTTPEndpoint_Session(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/identity/session", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := s.access.Generate("ali", "+989123456789")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/identity/session", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec, body := s.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "ali", data["username"])
	assert.Equal(t, "+989123456789", data["phone"])

	req = httptest.NewRequest(http.MethodGet, "/api/v1/identity/session", nil)
	req.AddCookie(&http.Cookie{Name: CookieAccessToken, Value: token})
	rec, _ = s.do(req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
