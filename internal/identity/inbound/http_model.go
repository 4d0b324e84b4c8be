package inbound

import "net/http"

type RequestOTPRequest struct {
	Phone string `json:"phone"`
}

type CodeSentResponse struct {
	msg string
}

func (r CodeSentResponse) Message() string { return r.msg }

type VerifyOTPRequest struct {
	Phone string `json:"phone"`
	Code  int    `json:"code"`
}

type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type VerifyOTPResponse struct {
	Tokens   Tokens `json:"tokens"`
	Phone    string `json:"phone"`
	Username string `json:"username"`

	msg     string
	cookies []*http.Cookie
}

func (r VerifyOTPResponse) Message() string         { return r.msg }
func (r VerifyOTPResponse) Cookies() []*http.Cookie { return r.cookies }

type ResendCodeRequest struct {
	Phone string `json:"phone"`
}

// RefreshRequest falls back to the refresh-token cookie and the token's own
// phone claim when fields are left empty.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
	Phone        string `json:"phone"`
}

type RefreshResponse struct {
	msg     string
	cookies []*http.Cookie
}

func (r RefreshResponse) Message() string         { return r.msg }
func (r RefreshResponse) Cookies() []*http.Cookie { return r.cookies }

type AccessTokenResponse struct {
	AccessToken string `json:"access_token"`

	msg     string
	cookies []*http.Cookie
}

func (r AccessTokenResponse) Message() string         { return r.msg }
func (r AccessTokenResponse) Cookies() []*http.Cookie { return r.cookies }

type LogoutResponse struct {
	msg     string
	cookies []*http.Cookie
}

func (r LogoutResponse) Message() string         { return r.msg }
func (r LogoutResponse) Cookies() []*http.Cookie { return r.cookies }

type SessionResponse struct {
	Phone     string `json:"phone"`
	Username  string `json:"username"`
	ExpiresAt int64  `json:"expires_at"`

	msg string
}

func (r SessionResponse) Message() string { return r.msg }
