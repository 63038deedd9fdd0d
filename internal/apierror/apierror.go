// Package apierror формирует единый JSON-ответ об ошибке:
//
//	{"status": "409 Conflict", "message": "User with name 'alice' already exists."}
package apierror

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/maynagashev/taskkeeper/internal/logging"
)

// Тексты ошибок, которые видит клиент.
const (
	MsgInvalidCredentials = "Invalid Credentials."
	MsgAuthHeaderRequired = "Authorization Header Required."
	MsgInvalidAuthHeader  = "Invalid Auth Header."
	MsgInvalidToken       = "Invalid JWT Token."
	MsgNotAuthorized      = "Not Authorized for given action."
	MsgInternal           = "Internal Server Error."
	MsgNotFound           = "Not Found"
	MsgMethodNotAllowed   = "HTTP method not allowed"
)

// Response - тело ответа об ошибке.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// StatusString возвращает код вместе с его названием, например "401 Unauthorized".
func StatusString(code int) string {
	return fmt.Sprintf("%d %s", code, http.StatusText(code))
}

// Write отправляет ответ об ошибке с указанным статусом.
// Ошибка кодирования уходит в log: статус к этому моменту уже отправлен.
func Write(ctx context.Context, log logging.Logger, w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(Response{Status: StatusString(code), Message: message}); err != nil {
		log.Error(ctx, "ошибка кодирования ответа об ошибке", "status", code, "error", err)
	}
}

// NotFound возвращает обработчик для неизвестных маршрутов.
func NotFound(log logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		Write(r.Context(), log, w, http.StatusNotFound, MsgNotFound)
	}
}

// MethodNotAllowed возвращает обработчик для неподдерживаемых методов.
func MethodNotAllowed(log logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		Write(r.Context(), log, w, http.StatusMethodNotAllowed, MsgMethodNotAllowed)
	}
}
