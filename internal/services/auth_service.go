package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/maynagashev/taskkeeper/internal/logging"
	"github.com/maynagashev/taskkeeper/internal/models"
	"github.com/maynagashev/taskkeeper/internal/repository"
)

// AuthService определяет интерфейс для сервиса аутентификации.
type AuthService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, error) // Возвращает JWT токен или ошибку
}

// PasswordHasher вычисляет и проверяет хеш пароля.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) bool
}

// Убедимся, что authService удовлетворяет интерфейсу AuthService.
var _ AuthService = (*authService)(nil)

type authService struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	tokens   TokenIssuer
	log      logging.Logger

	// Хеш-заглушка: Verify выполняется и для несуществующего пользователя.
	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService создает новый экземпляр сервиса аутентификации.
func NewAuthService(
	userRepo repository.UserRepository, hasher PasswordHasher, tokens TokenIssuer, log logging.Logger,
) AuthService {
	return &authService{userRepo: userRepo, hasher: hasher, tokens: tokens, log: log}
}

// Register регистрирует нового пользователя.
// Хеш вычисляется до обращения к репозиторию, чтобы не держать блокировку хранилища во время scrypt.
func (s *authService) Register(ctx context.Context, username, password string) (*models.User, error) {
	hashed, err := s.hasher.Hash(password)
	if err != nil {
		s.log.Error(ctx, "ошибка хеширования пароля", "username", username, "error", err)
		return nil, fmt.Errorf("хеширование пароля: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hashed,
	}

	if _, err = s.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			s.log.Warn(ctx, "попытка регистрации с занятым именем", "username", username)
			return nil, UserExistsError{Username: username}
		}
		s.log.Error(ctx, "непредвиденная ошибка репозитория при регистрации", "username", username, "error", err)
		return nil, fmt.Errorf("создание пользователя: %w", err)
	}

	s.log.Info(ctx, "пользователь зарегистрирован", "username", username, "user_id", user.ID)
	return user, nil
}

// Login аутентифицирует пользователя и возвращает JWT токен.
// Отсутствие пользователя и неверный пароль неразличимы для вызывающего.
func (s *authService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.log.Warn(ctx, "попытка входа несуществующего пользователя", "username", username)
			s.hasher.Verify(password, s.dummyVerifier(ctx))
			return "", ErrInvalidCredentials
		}
		s.log.Error(ctx, "ошибка репозитория при поиске пользователя", "username", username, "error", err)
		return "", fmt.Errorf("поиск пользователя: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.log.Warn(ctx, "неверный пароль", "username", username)
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Mint(user.Username)
	if err != nil {
		s.log.Error(ctx, "ошибка генерации JWT", "username", username, "error", err)
		return "", fmt.Errorf("генерация токена: %w", err)
	}

	s.log.Info(ctx, "пользователь аутентифицирован", "username", username)
	return token, nil
}

// dummyVerifier лениво вычисляет хеш-заглушку с параметрами текущего hasher.
func (s *authService) dummyVerifier(ctx context.Context) string {
	s.dummyOnce.Do(func() {
		hashed, err := s.hasher.Hash("taskkeeper-dummy-password")
		if err != nil {
			s.log.Error(ctx, "ошибка вычисления хеша-заглушки", "error", err)
			return
		}
		s.dummyHash = hashed
	})
	return s.dummyHash
}

// UserExistsError возвращается при регистрации занятого имени.
type UserExistsError struct {
	Username string
}

func (e UserExistsError) Error() string {
	return fmt.Sprintf("User with name '%s' already exists.", e.Username)
}

// Is позволяет сравнивать через errors.Is(err, ErrUserExists).
func (e UserExistsError) Is(target error) bool {
	return target == ErrUserExists
}

// Кастомные ошибки сервиса.
var (
	ErrInvalidCredentials = errors.New("неверное имя пользователя или пароль")
	ErrUserExists         = errors.New("имя пользователя уже занято")
)
