package httpx

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const requestIDHeader = "X-Request-Id"

// RequestIDMiddleware tags the request, the response and the request logger
// with a request id. Run it after hlog.NewHandler.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set(requestIDHeader, requestID)
		ctx := ContextWithRequestID(r.Context(), requestID)
		log := zerolog.Ctx(ctx).With().Str("request_id", requestID).Logger()
		ctx = log.WithContext(ctx)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
