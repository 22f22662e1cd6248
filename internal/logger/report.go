package logger

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"errpage-service/internal/domain"
)

// RequestIDHeader carries the request id assigned by the RequestID middleware.
const RequestIDHeader = "X-Request-ID"

// Report logs an error raised while handling r.
// Verbose reports also carry the error category and debug description.
// Report never panics.
func Report(log *zap.Logger, err error, r *http.Request, verbose bool) {
	if log == nil || err == nil {
		return
	}

	defer func() {
		_ = recover()
	}()

	fields := []zap.Field{zap.Error(err)}
	if r != nil {
		fields = append(fields,
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote_addr", r.RemoteAddr),
		)
		if id := r.Header.Get(RequestIDHeader); id != "" {
			fields = append(fields, zap.String("request_id", id))
		}
	}

	if verbose {
		fields = append(fields, zap.Stringer("category", domain.Categorize(err)))

		var dbg domain.Debuggable
		if errors.As(err, &dbg) {
			fields = append(fields, zap.String("debug_reason", dbg.DebugReason()))
		}
	}

	log.Error("Request failed", fields...)
}
