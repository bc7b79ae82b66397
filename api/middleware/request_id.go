package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/filmatch/filmatch-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID stamps every request with a uuid, echoes it on the response, and
// attaches it to the request-scoped logger. An inbound header is honored only
// when it parses as a uuid, so clients cannot inject arbitrary strings into
// the logs.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(requestIDHeader)
			if _, err := uuid.Parse(reqID); err != nil {
				reqID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
