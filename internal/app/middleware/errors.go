package middleware

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"errpage-service/internal/domain"
	"errpage-service/internal/errorpage"
	"errpage-service/internal/logger"
)

// HandlerFunc is an HTTP handler that reports failure by returning an error.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Responder is an error that knows how to render itself.
// It bypasses classification unless rendering fails.
type Responder interface {
	Respond(w http.ResponseWriter, r *http.Request) error
}

// ErrorPagesConfig configures ErrorPages. It is read once at construction.
type ErrorPagesConfig struct {
	Resolver *errorpage.Resolver
	Release  bool
	Logger   *zap.Logger
}

// ErrorPages turns handler errors into HTML error pages or plain-text bodies.
type ErrorPages struct {
	resolver *errorpage.Resolver
	release  bool
	logger   *zap.Logger
}

// NewErrorPages creates the error page middleware
func NewErrorPages(cfg ErrorPagesConfig) *ErrorPages {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &ErrorPages{
		resolver: cfg.Resolver,
		release:  cfg.Release,
		logger:   log,
	}
}

// Wrap adapts an error-returning handler to http.Handler.
func (p *ErrorPages) Wrap(h HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := newResponseWriter(w)

		err := h(rw, r)
		if err == nil {
			return
		}

		var responder Responder
		if errors.As(err, &responder) {
			renderErr := responder.Respond(rw, r)
			if renderErr == nil {
				return
			}
			err = renderErr
		}

		p.Handle(rw, r, err)
	})
}

// Handle logs err and writes the error response for it.
// It never panics and never returns an error to the caller.
func (p *ErrorPages) Handle(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			p.logger.Error("Error page handling panicked", zap.Any("panic", rec))
		}
	}()

	logger.Report(p.logger, err, r, !p.release)

	if ww, ok := w.(interface{ Written() bool }); ok && ww.Written() {
		// Headers are gone already; the log entry is all we can do.
		return
	}

	resetHeaders(w.Header())

	ce := domain.Classify(err, p.release)

	var res errorpage.Result
	if p.resolver != nil {
		res = p.resolver.Resolve(ce.Status)
	}
	if res.Kind == errorpage.ReadFailed {
		p.logger.Warn("Failed to read error page",
			zap.String("path", res.Path),
			zap.Error(res.Err),
		)
	}

	if writeErr := errorpage.Build(ce, res).Write(w); writeErr != nil {
		p.logger.Debug("Failed to write error response", zap.Error(writeErr))
	}
}

// resetHeaders drops headers the failed handler set, keeping the ones owned by middleware.
func resetHeaders(h http.Header) {
	keep := http.CanonicalHeaderKey(logger.RequestIDHeader)
	for key := range h {
		if key != keep {
			delete(h, key)
		}
	}
}

// responseWriter records whether a response has been started.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	if rw, ok := w.(*responseWriter); ok {
		return rw
	}
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.written {
		return
	}
	rw.statusCode = code
	rw.written = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

// Written reports whether the status line has been sent.
func (rw *responseWriter) Written() bool { return rw.written }

// Status returns the status code sent, or 200 if none was sent yet.
func (rw *responseWriter) Status() int { return rw.statusCode }

// Size returns the number of body bytes written.
func (rw *responseWriter) Size() int { return rw.size }

// Unwrap exposes the underlying writer to http.ResponseController.
func (rw *responseWriter) Unwrap() http.ResponseWriter { return rw.ResponseWriter }
