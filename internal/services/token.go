package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL - время жизни выдаваемого токена.
const TokenTTL = 6000 * time.Second

// TokenValidator проверяет bearer-токен и возвращает subject (имя пользователя).
type TokenValidator interface {
	Validate(tokenString string) (string, error)
}

// TokenIssuer выпускает токен для пользователя.
type TokenIssuer interface {
	Mint(username string) (string, error)
}

// TokenManager выпускает и проверяет JWT, подписанные HS256.
// В токене только два утверждения: sub и exp.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

var (
	_ TokenValidator = (*TokenManager)(nil)
	_ TokenIssuer    = (*TokenManager)(nil)
)

// TokenOption настраивает TokenManager.
type TokenOption func(*TokenManager)

// WithClock подменяет источник текущего времени (для тестов).
func WithClock(now func() time.Time) TokenOption {
	return func(m *TokenManager) { m.now = now }
}

// NewTokenManager создает TokenManager. Пустой секрет недопустим.
func NewTokenManager(secret []byte, opts ...TokenOption) (*TokenManager, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	m := &TokenManager{
		secret: secret,
		ttl:    TokenTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Mint создает и подписывает токен с sub=username и exp=now+TokenTTL.
func (m *TokenManager) Mint(username string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   username,
		ExpiresAt: jwt.NewNumericDate(m.now().Add(m.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("ошибка подписи JWT: %w", err)
	}
	return signed, nil
}

// Validate проверяет подпись, срок действия и наличие sub.
// Любая ошибка возвращается как ErrInvalidToken.
func (m *TokenManager) Validate(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(_ *jwt.Token) (interface{}, error) {
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// Ошибки токенов.
var (
	ErrInvalidToken = errors.New("невалидный JWT токен")
	ErrEmptySecret  = errors.New("не задан секрет для подписи JWT")
)
