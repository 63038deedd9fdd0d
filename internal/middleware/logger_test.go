package middleware_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maynagashev/taskkeeper/internal/apierror"
	"github.com/maynagashev/taskkeeper/internal/logging"
	"github.com/maynagashev/taskkeeper/internal/middleware"
)

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	h := middleware.RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("ok"))
	}))

	t.Run("Генерирует идентификатор запроса", func(t *testing.T) {
		buf.Reset()
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/create", nil))

		assert.Equal(t, http.StatusCreated, rec.Code)
		id := rec.Header().Get(middleware.RequestIDHeader)
		_, err := uuid.Parse(id)
		require.NoError(t, err)

		out := buf.String()
		assert.Contains(t, out, "request_id="+id)
		assert.Contains(t, out, "method=POST")
		assert.Contains(t, out, "path=/create")
		assert.Contains(t, out, "status=201")
	})

	t.Run("Сохраняет идентификатор клиента", func(t *testing.T) {
		buf.Reset()
		req := httptest.NewRequest(http.MethodGet, "/all", nil)
		req.Header.Set(middleware.RequestIDHeader, "client-id-1")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "client-id-1", rec.Header().Get(middleware.RequestIDHeader))
		assert.Contains(t, buf.String(), "request_id=client-id-1")
	})
}

func TestRecoverer(t *testing.T) {
	h := middleware.Recoverer(logging.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp apierror.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "500 Internal Server Error", resp.Status)
	assert.Equal(t, apierror.MsgInternal, resp.Message)
}

func TestRecoverer_PassesThrough(t *testing.T) {
	h := middleware.Recoverer(logging.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
