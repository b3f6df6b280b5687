package middleware

import (
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"emprecords/internal/requestctx"
	"emprecords/internal/transport/http/api"
)

func Recoverer(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Error("panic serving request",
					zap.Any("panic", rec),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					requestctx.LogField(r.Context()),
					zap.ByteString("stack", debug.Stack()),
				)
				api.Fail(w, http.StatusInternalServerError, "internal_error", "Error processing request!", GetRequestID(r.Context()))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
