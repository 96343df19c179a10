package middlewares

import (
	"context"
	"net/http"
	"time"

	"github.com/jcmexdev/storefront/internal/pkg/ctxkeys"
	"github.com/jcmexdev/storefront/internal/storefront/core/session"
)

const (
	SessionCookie    = "sf_session"
	sessionCookieAge = 30 * 24 * time.Hour
)

type sessionKey struct{}

// LoadFunc runs the initial catalog load of a session if it is still due.
type LoadFunc func(ctx context.Context, s *session.Session)

// Sessions resolves the sf_session cookie to a session, creating one when the
// cookie is missing or unknown.
func Sessions(mgr *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(SessionCookie); err == nil {
				id = c.Value
			}

			s, _ := mgr.GetOrCreate(r.Context(), id)
			ctx := ctxkeys.WithSessionID(r.Context(), s.ID)

			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    s.ID,
				Path:     "/",
				MaxAge:   int(sessionCookieAge.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})

			ctx = context.WithValue(ctx, sessionKey{}, s)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LoadCatalog runs load on the request's session before the handler. It must
// be mounted after Sessions.
func LoadCatalog(load LoadFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if s := SessionFrom(r.Context()); s != nil {
				load(r.Context(), s)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SessionFrom returns the session attached by Sessions, or nil.
func SessionFrom(ctx context.Context) *session.Session {
	s, _ := ctx.Value(sessionKey{}).(*session.Session)
	return s
}
