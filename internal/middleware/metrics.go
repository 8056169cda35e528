package middleware

import (
	"net/http"
	"time"

	"github.com/Simplici0/diamond-courier/internal/metrics"
)

// Metrics records request latency by response status.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := wrap(w)
		next.ServeHTTP(ww, r)
		metrics.ObserveRequest(time.Since(start), ww.statusCode)
	})
}
