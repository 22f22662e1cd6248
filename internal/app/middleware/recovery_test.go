package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"errpage-service/internal/app/middleware"
	"errpage-service/internal/domain"
	"errpage-service/internal/errorpage"
)

func panicking(v any) http.Handler {
	return http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(v)
	})
}

func TestRecovery_RendersServerErrorPage(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)
	pages := newPages(t, pageFS(t), true, log)

	w := serve(middleware.Recovery(log, pages)(panicking("nil map write")))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, errorpage.ContentTypeHTML, w.Header().Get("Content-Type"))
	assert.Equal(t, serverPage, w.Body.String())

	entries := logs.FilterMessage("Panic recovered").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "nil map write", entries[0].ContextMap()["panic"])
	assert.NotEmpty(t, entries[0].ContextMap()["stack"])
}

func TestRecovery_DebugDetailOutsideRelease(t *testing.T) {
	pages := newPages(t, memfs.New(), false, nil)

	w := serve(middleware.Recovery(zap.NewNop(), pages)(panicking("index out of range")))
	assert.Equal(t, "500\n\npanic: index out of range", w.Body.String())
}

func TestRecovery_PanicWithAbortError(t *testing.T) {
	pages := newPages(t, pageFS(t), true, nil)

	w := serve(middleware.Recovery(zap.NewNop(), pages)(panicking(domain.ErrNotFound)))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, notFoundPage, w.Body.String())
}

func TestRecovery_WithoutErrorPages(t *testing.T) {
	w := serve(middleware.Recovery(zap.NewNop(), nil)(panicking("boom")))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "500\n\nSomething went wrong.", w.Body.String())
}

func TestRecovery_AfterResponseStarted(t *testing.T) {
	pages := newPages(t, pageFS(t), true, nil)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("half"))
		panic("late")
	})

	w := serve(middleware.Recovery(zap.NewNop(), pages)(h))
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "half", w.Body.String())
}

func TestRecovery_RepanicsAbortHandler(t *testing.T) {
	h := middleware.Recovery(zap.NewNop(), nil)(panicking(http.ErrAbortHandler))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestPanicError(t *testing.T) {
	err := &middleware.PanicError{Value: domain.ErrForbidden}

	assert.Equal(t, domain.CategoryAbort, domain.Categorize(err))
	assert.Equal(t, "panic: abort 403: Forbidden", err.Error())

	plain := &middleware.PanicError{Value: 42}
	assert.Nil(t, plain.Unwrap())
	assert.Equal(t, domain.CategoryDebuggable, domain.Categorize(plain))
	assert.Equal(t, "panic: 42", plain.DebugReason())
}
