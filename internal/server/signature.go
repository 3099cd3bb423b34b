package server

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/danzirulez/LogAnalyticsCollector/internal/auth"
)

const (
	// maxReportBytes caps the ingest request body.
	maxReportBytes = 8 << 20

	// maxIngestSkew is how far the signed date header may drift from the
	// collector's clock before the request is rejected.
	maxIngestSkew = 15 * time.Minute
)

// SharedKeyFilter returns an HTTP filter that verifies the SharedKey
// signature on ingest POSTs before they reach the router. The body is read
// once for the content-length covered by the signature and restored for the
// handler. Other routes pass through untouched. An empty key disables
// verification.
func SharedKeyFilter(sharedKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sharedKey == "" || r.Method != http.MethodPost || r.URL.Path != reportsPath {
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(io.LimitReader(r.Body, maxReportBytes+1))
			if err != nil {
				http.Error(w, "read request body", http.StatusBadRequest)
				return
			}
			if len(body) > maxReportBytes {
				http.Error(w, "report too large", http.StatusRequestEntityTooLarge)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			date := r.Header.Get(auth.DateHeader)
			if date == "" {
				http.Error(w, "missing "+auth.DateHeader+" header", http.StatusUnauthorized)
				return
			}
			sent, err := time.Parse(http.TimeFormat, date)
			if err != nil {
				http.Error(w, "malformed "+auth.DateHeader+" header", http.StatusUnauthorized)
				return
			}
			if skew := time.Since(sent); skew > maxIngestSkew || skew < -maxIngestSkew {
				http.Error(w, "request date outside allowed window", http.StatusUnauthorized)
				return
			}

			_, sig, err := auth.ParseAuthorization(r.Header.Get("Authorization"))
			if err != nil {
				http.Error(w, "malformed Authorization header", http.StatusUnauthorized)
				return
			}

			if err := auth.Verify(sharedKey, r.Method, r.URL.Path, date, sig, len(body)); err != nil {
				http.Error(w, "invalid signature", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
