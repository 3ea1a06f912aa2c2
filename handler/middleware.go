package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ctxKeyLog struct{}

type responseRecorder struct {
	b      int
	status int
	w      http.ResponseWriter
}

func (r *responseRecorder) Header() http.Header { return r.w.Header() }

func (r *responseRecorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.w.Write(p)
	r.b += n
	return n, err
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.status = statusCode
	r.w.WriteHeader(statusCode)
}

// Logging tags every request with an id and logs its outcome.
func Logging(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := uuid.NewString()
			start := time.Now()
			rr := &responseRecorder{w: w}

			l := log.WithFields(logrus.Fields{
				"http.req.path":   r.URL.Path,
				"http.req.method": r.Method,
				"http.req.id":     requestID,
			})
			defer func() {
				l.WithFields(logrus.Fields{
					"http.resp.took_ms": int64(time.Since(start) / time.Millisecond),
					"http.resp.status":  rr.status,
					"http.resp.bytes":   rr.b,
				}).Debug("request complete")
			}()

			w.Header().Set("X-Request-Id", requestID)
			ctx := context.WithValue(r.Context(), ctxKeyLog{}, l)
			next.ServeHTTP(rr, r.WithContext(ctx))
		})
	}
}

func requestLogger(r *http.Request, fallback logrus.FieldLogger) logrus.FieldLogger {
	if l, ok := r.Context().Value(ctxKeyLog{}).(logrus.FieldLogger); ok {
		return l
	}
	return fallback
}
