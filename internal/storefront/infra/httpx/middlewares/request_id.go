package middlewares

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/storefront/internal/pkg/ctxkeys"
)

// AttachRequestID copies the id assigned by middleware.RequestID into the
// context keys read by the logger and the catalog client, and echoes it on
// the response. It must run after middleware.RequestID.
func AttachRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetReqID(r.Context())
		if requestID == "" {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set(ctxkeys.HeaderXRequestID, requestID)
		ctx := ctxkeys.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
