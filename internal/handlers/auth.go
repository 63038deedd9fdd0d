package handlers

import (
	"context"
	"net/http"

	"github.com/maynagashev/taskkeeper/internal/apierror"
	"github.com/maynagashev/taskkeeper/internal/logging"
	"github.com/maynagashev/taskkeeper/internal/models"
	"github.com/maynagashev/taskkeeper/internal/services"
)

// MsgEmptyCredentials - ответ на запрос без имени пользователя или пароля.
const MsgEmptyCredentials = "Username and password must not be empty."

// AuthHandler обрабатывает HTTP-запросы, связанные с аутентификацией.
type AuthHandler struct {
	service services.AuthService // Зависимость от интерфейса, а не конкретной реализации
	log     logging.Logger
}

// NewAuthHandler создает новый экземпляр AuthHandler.
func NewAuthHandler(s services.AuthService, log logging.Logger) *AuthHandler {
	return &AuthHandler{service: s, log: log}
}

// Register обрабатывает POST /user.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.RegisterRequest
	if !decodeJSON(ctx, h.log, w, r, &req) {
		return
	}
	if !h.requireCredentials(ctx, w, req.Username, req.Password) {
		return
	}

	h.log.Info(ctx, "попытка регистрации пользователя", "username", req.Username)

	user, err := h.service.Register(ctx, req.Username, req.Password)
	if err != nil {
		writeError(ctx, h.log, w, err)
		return
	}

	writeJSON(ctx, h.log, w, http.StatusCreated, models.NewUserResponse(user))
}

// Login обрабатывает POST /login. Токен возвращается как есть, текстом.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.LoginRequest
	if !decodeJSON(ctx, h.log, w, r, &req) {
		return
	}
	if !h.requireCredentials(ctx, w, req.Username, req.Password) {
		return
	}

	h.log.Info(ctx, "попытка входа пользователя", "username", req.Username)

	token, err := h.service.Login(ctx, req.Username, req.Password)
	if err != nil {
		writeError(ctx, h.log, w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err = w.Write([]byte(token)); err != nil {
		h.log.Error(ctx, "ошибка записи токена в ответ", "error", err)
	}
}

// requireCredentials отвечает 400, если имя пользователя или пароль не заданы.
func (h *AuthHandler) requireCredentials(ctx context.Context, w http.ResponseWriter, username, password string) bool {
	if username == "" || password == "" {
		h.log.Debug(ctx, "пустое имя пользователя или пароль")
		apierror.Write(ctx, h.log, w, http.StatusBadRequest, MsgEmptyCredentials)
		return false
	}
	return true
}
