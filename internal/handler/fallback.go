package handler

import (
	"net/http"
	"strings"

	"errpage-service/internal/domain"
)

// NotFound answers every request no other route matched.
func NotFound(w http.ResponseWriter, r *http.Request) error {
	return domain.ErrNotFound
}

// MethodNotAllowed answers a known path requested with an unsupported method.
func MethodNotAllowed(allow ...string) func(http.ResponseWriter, *http.Request) error {
	allowed := strings.Join(allow, ", ")
	return func(w http.ResponseWriter, r *http.Request) error {
		return domain.ErrMethodNotAllowed.WithHeader("Allow", allowed)
	}
}
