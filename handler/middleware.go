package handler

import (
	"context"
	"finease-api/common"
	"finease-api/logger"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type contextKey string

const RequestIDKey contextKey = "requestID"

const RequestIDHeader = "X-Request-ID"

// RequestIDFromContext returns the id RequestLogger attached, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// RequestLogger tags each request with an id and logs its outcome.
// An incoming X-Request-ID is kept.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		next.ServeHTTP(rec, r.WithContext(ctx))

		logger.Log.WithFields(logrus.Fields{
			"request_id":  requestID,
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rec.status,
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("Request handled")
	})
}

// ReadinessMiddleware answers 503 while the database is unreachable.
func ReadinessMiddleware(readiness ReadinessChecker, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !readiness.Ready() {
			err := common.NewAppError(http.StatusServiceUnavailable, "Database is not ready", nil)
			err.Send(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}
