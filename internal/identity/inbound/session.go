package inbound

import (
	"net/http"
	"strings"
	"time"

	"github.com/tarkhineh/tarkhineh/internal/identity/entity"
)

const (
	CookieAccessToken  = "access-token"
	CookieRefreshToken = "refresh-token"
)

type SessionConfig struct {
	Domain     string
	Path       string
	Secure     bool
	HTTPOnly   bool
	SameSite   http.SameSite
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Session turns token pairs into cookies.
type Session struct {
	cfg SessionConfig
}

// NewSession defaults to SameSite=None, which browsers only accept on
// secure cookies, so None always implies Secure.
func NewSession(cfg SessionConfig) *Session {
	if cfg.Path == "" {
		cfg.Path = "/"
	}
	if cfg.SameSite == 0 {
		cfg.SameSite = http.SameSiteNoneMode
	}
	if cfg.SameSite == http.SameSiteNoneMode {
		cfg.Secure = true
	}
	return &Session{cfg: cfg}
}

// ParseSameSite maps "lax", "strict", "none" and "default" to http.SameSite.
// Anything else yields SameSiteNoneMode.
func ParseSameSite(s string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lax":
		return http.SameSiteLaxMode
	case "strict":
		return http.SameSiteStrictMode
	case "default":
		return http.SameSiteDefaultMode
	default:
		return http.SameSiteNoneMode
	}
}

// Attach returns the access and refresh cookies of pair.
func (s *Session) Attach(pair entity.TokenPair) []*http.Cookie {
	return []*http.Cookie{
		s.AccessCookie(pair.AccessToken),
		s.cookie(CookieRefreshToken, pair.RefreshToken, s.cfg.RefreshTTL),
	}
}

func (s *Session) AccessCookie(token string) *http.Cookie {
	return s.cookie(CookieAccessToken, token, s.cfg.AccessTTL)
}

// Teardown returns both cookies expired, whether or not they were set.
func (s *Session) Teardown() []*http.Cookie {
	access := s.cookie(CookieAccessToken, "", 0)
	refresh := s.cookie(CookieRefreshToken, "", 0)

	for _, c := range []*http.Cookie{access, refresh} {
		c.MaxAge = -1
		c.Expires = time.Unix(0, 0)
	}

	return []*http.Cookie{access, refresh}
}

func (s *Session) cookie(name, value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Domain:   s.cfg.Domain,
		Path:     s.cfg.Path,
		MaxAge:   int(ttl.Seconds()),
		Secure:   s.cfg.Secure,
		HttpOnly: s.cfg.HTTPOnly,
		SameSite: s.cfg.SameSite,
	}
}
