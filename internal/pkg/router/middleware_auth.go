package router

import (
	"net/http"
	"strings"

	"github.com/tarkhineh/tarkhineh/internal/pkg/jwt"
)

// bearerOrCookie returns the access token from the Authorization header, or
// from the named cookie when no header is sent.
func bearerOrCookie(r *http.Request, cookieName string) string {
	if h := r.Header.Get("Authorization"); h != "" {
		p := strings.Fields(h)
		if len(p) == 2 && strings.EqualFold(p[0], "Bearer") {
			return p[1]
		}
		return ""
	}

	if cookieName == "" {
		return ""
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}

// middlewareAuthentication requires a valid access token outside
// publicEndpoints. On public endpoints a valid token is still attached to the
// context, and an invalid one is ignored.
func middlewareAuthentication(verifier jwt.JWT, cookieName string, publicEndpoints map[string]map[string]struct{}) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, public := publicEndpoints[r.Method][matchedRoutePath(r)]
			token := bearerOrCookie(r, cookieName)

			if token == "" || verifier == nil {
				if public {
					next.ServeHTTP(w, r)
					return
				}
				writeJSON(w, errorResponse{Message: "Authentication required"}, http.StatusUnauthorized)
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				if public {
					next.ServeHTTP(w, r)
					return
				}
				writeJSON(w, errorResponse{Message: "Invalid or expired token"}, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(jwt.SetAuth(r.Context(), claims)))
		})
	}
}
