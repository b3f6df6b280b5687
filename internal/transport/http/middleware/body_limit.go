package middleware

import (
	"net/http"
	"strconv"

	"emprecords/internal/transport/http/api"
)

// BodyLimit caps request bodies on writes. A declared Content-Length over the cap
// is rejected before the handler runs; undeclared bodies fail while decoding.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxBytes > 0 && (r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch) {
				if r.ContentLength > maxBytes {
					api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large",
						"request body exceeds "+strconv.FormatInt(maxBytes, 10)+" bytes", GetRequestID(r.Context()))
					return
				}
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
