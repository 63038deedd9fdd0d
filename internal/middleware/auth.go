package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/maynagashev/taskkeeper/internal/apierror"
	"github.com/maynagashev/taskkeeper/internal/logging"
	"github.com/maynagashev/taskkeeper/internal/services"
)

// Тип для ключа контекста.
type contextKey string

// Ключ для хранения имени пользователя (subject токена) в контексте.
const UsernameKey contextKey = "username"

const bearerPrefix = "Bearer "

// Ошибки разбора заголовка Authorization.
var (
	ErrAuthHeaderRequired = errors.New("отсутствует заголовок Authorization")
	ErrInvalidAuthHeader  = errors.New("неверный формат заголовка Authorization")
)

// Authenticator проверяет bearer-токен и кладет subject в контекст запроса.
//
//   - нет заголовка или он не в UTF-8: 401 Authorization Header Required.
//   - заголовок не начинается ровно с "Bearer ": 400 Invalid Auth Header.
//   - токен не прошел проверку: 401 Invalid JWT Token.
func Authenticator(validator services.TokenValidator, log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tokenString, err := tokenFromHeader(r.Header)
			switch {
			case errors.Is(err, ErrAuthHeaderRequired):
				log.Debug(ctx, "заголовок Authorization отсутствует", "path", r.URL.Path)
				apierror.Write(ctx, log, w, http.StatusUnauthorized, apierror.MsgAuthHeaderRequired)
				return
			case errors.Is(err, ErrInvalidAuthHeader):
				log.Debug(ctx, "неверный формат заголовка Authorization", "path", r.URL.Path)
				apierror.Write(ctx, log, w, http.StatusBadRequest, apierror.MsgInvalidAuthHeader)
				return
			}

			username, err := validator.Validate(tokenString)
			if err != nil {
				log.Info(ctx, "токен не прошел проверку", "path", r.URL.Path, "error", err)
				apierror.Write(ctx, log, w, http.StatusUnauthorized, apierror.MsgInvalidToken)
				return
			}

			log.Debug(ctx, "пользователь аутентифицирован", "username", username)
			next.ServeHTTP(w, r.WithContext(WithUsername(ctx, username)))
		})
	}
}

// tokenFromHeader извлекает токен из заголовка "Authorization: Bearer <token>".
// Префикс чувствителен к регистру, пробел ровно один.
func tokenFromHeader(h http.Header) (string, error) {
	values, ok := h["Authorization"]
	if !ok || len(values) == 0 {
		return "", ErrAuthHeaderRequired
	}
	header := values[0]
	if !utf8.ValidString(header) {
		return "", ErrAuthHeaderRequired
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", ErrInvalidAuthHeader
	}
	return strings.TrimPrefix(header, bearerPrefix), nil
}

// WithUsername возвращает контекст с именем аутентифицированного пользователя.
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, UsernameKey, username)
}

// GetUsernameFromContext извлекает имя пользователя из контекста запроса.
// Возвращает имя и true, если оно найдено, иначе "" и false.
func GetUsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameKey).(string)
	return username, ok && username != ""
}
