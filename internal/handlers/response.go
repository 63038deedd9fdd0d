package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/maynagashev/taskkeeper/internal/apierror"
	"github.com/maynagashev/taskkeeper/internal/logging"
	"github.com/maynagashev/taskkeeper/internal/services"
)

// notFoundBody - тело ответа 404 для update/delete: JSON-строка "{}".
// Клиенты исходного API могут зависеть от этой формы, поэтому она сохранена.
const notFoundBody = "{}"

// writeJSON кодирует v в JSON и отправляет с указанным статусом.
func writeJSON(ctx context.Context, log logging.Logger, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Клиент уже получил статус, сложно что-то изменить
		log.Error(ctx, "ошибка кодирования ответа", "error", err)
	}
}

// writeError переводит ошибку сервисного слоя в HTTP-ответ.
func writeError(ctx context.Context, log logging.Logger, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrUserExists):
		apierror.Write(ctx, log, w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apierror.Write(ctx, log, w, http.StatusUnauthorized, apierror.MsgInvalidCredentials)
	case errors.Is(err, services.ErrNotAuthorized):
		apierror.Write(ctx, log, w, http.StatusForbidden, apierror.MsgNotAuthorized)
	case errors.Is(err, services.ErrValidation):
		apierror.Write(ctx, log, w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrTaskNotFound):
		writeJSON(ctx, log, w, http.StatusNotFound, notFoundBody)
	default:
		log.Error(ctx, "внутренняя ошибка", "error", err)
		apierror.Write(ctx, log, w, http.StatusInternalServerError, apierror.MsgInternal)
	}
}

// maxBodyBytes ограничивает размер тела запроса.
const maxBodyBytes = 1 << 20

// errTrailingData - после JSON-значения в теле есть что-то еще.
var errTrailingData = errors.New("trailing data after JSON value")

// decodeJSON разбирает тело запроса, содержащее ровно одно JSON-значение.
// При ошибке сразу отвечает 400 и возвращает false.
func decodeJSON(ctx context.Context, log logging.Logger, w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	err := dec.Decode(dst)
	if err == nil {
		if extra := dec.Decode(&struct{}{}); !errors.Is(extra, io.EOF) {
			err = errTrailingData
		}
	}
	if err != nil {
		log.Debug(ctx, "ошибка декодирования тела запроса", "path", r.URL.Path, "error", err)
		apierror.Write(ctx, log, w, http.StatusBadRequest, fmt.Sprintf("Request body deserialize error: %v", err))
		return false
	}
	return true
}

// taskIDParam читает неотрицательный {id} из пути.
func taskIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}
