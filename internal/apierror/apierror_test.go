package apierror_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maynagashev/taskkeeper/internal/apierror"
	"github.com/maynagashev/taskkeeper/internal/logging"
)

// brokenWriter принимает заголовки, но не может записать тело.
type brokenWriter struct {
	header http.Header
	status int
}

func (w *brokenWriter) Header() http.Header { return w.header }

func (w *brokenWriter) WriteHeader(code int) { w.status = code }

func (w *brokenWriter) Write([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestStatusString(t *testing.T) {
	assert.Equal(t, "409 Conflict", apierror.StatusString(http.StatusConflict))
	assert.Equal(t, "401 Unauthorized", apierror.StatusString(http.StatusUnauthorized))
}

func TestWrite(t *testing.T) {
	rr := httptest.NewRecorder()
	apierror.Write(context.Background(), logging.NewNop(), rr, http.StatusForbidden, apierror.MsgNotAuthorized)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var resp apierror.Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, apierror.Response{Status: "403 Forbidden", Message: apierror.MsgNotAuthorized}, resp)
}

func TestWrite_EncodeErrorGoesToLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	w := &brokenWriter{header: http.Header{}}

	apierror.Write(context.Background(), log, w, http.StatusInternalServerError, apierror.MsgInternal)

	assert.Equal(t, http.StatusInternalServerError, w.status)
	assert.Contains(t, buf.String(), "ошибка кодирования ответа об ошибке")
	assert.Contains(t, buf.String(), "connection reset")
}

func TestRouteHandlers(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		status  int
		message string
	}{
		{"Неизвестный маршрут", apierror.NotFound(logging.NewNop()), http.StatusNotFound, apierror.MsgNotFound},
		{
			"Неподдерживаемый метод", apierror.MethodNotAllowed(logging.NewNop()),
			http.StatusMethodNotAllowed, apierror.MsgMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			tt.handler(rr, httptest.NewRequest(http.MethodGet, "/x", nil))

			assert.Equal(t, tt.status, rr.Code)
			var resp apierror.Response
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, apierror.StatusString(tt.status), resp.Status)
			assert.Equal(t, tt.message, resp.Message)
		})
	}
}
