package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"errpage-service/internal/domain"
)

// PanicError wraps a value recovered from a panicking handler.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// DebugReason implements domain.Debuggable.
func (e *PanicError) DebugReason() string {
	return e.Error()
}

// Unwrap lets a panic carrying an error be classified by that error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Recovery is a middleware that recovers from panics and renders them through the error pages
func Recovery(logger *zap.Logger, pages *ErrorPages) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := newResponseWriter(w)

			defer func() {
				p := recover()
				if p == nil {
					return
				}
				if err, ok := p.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(p)
				}

				stack := debug.Stack()
				logger.Error("Panic recovered",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Any("panic", p),
					zap.String("stack", string(stack)),
				)

				if pages != nil {
					pages.Handle(rw, r, &PanicError{Value: p, Stack: stack})
					return
				}

				if rw.Written() {
					return
				}
				resetHeaders(rw.Header())
				rw.Header().Set("Content-Type", "text/plain; charset=utf-8")
				rw.WriteHeader(http.StatusInternalServerError)
				if _, writeErr := rw.Write([]byte(domain.Classify(nil, true).Text())); writeErr != nil {
					logger.Error("failed to write recovery response", zap.Error(writeErr))
				}
			}()

			next.ServeHTTP(rw, r)
		})
	}
}
