package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/maynagashev/taskkeeper/internal/logging"
	"github.com/maynagashev/taskkeeper/internal/models"
)

// UserRepository определяет методы для работы с данными пользователей в хранилище.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) (int64, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// memoryUserRepository хранит пользователей в памяти процесса.
type memoryUserRepository struct {
	mu     sync.RWMutex
	users  map[string]models.User
	nextID int64
	log    logging.Logger
}

var _ UserRepository = (*memoryUserRepository)(nil)

// NewMemoryUserRepository создает пустое хранилище пользователей.
func NewMemoryUserRepository(log logging.Logger) UserRepository {
	return &memoryUserRepository{
		users: make(map[string]models.User),
		log:   log,
	}
}

// CreateUser сохраняет пользователя и присваивает ему ID.
// Проверка уникальности и вставка выполняются под одной блокировкой.
func (r *memoryUserRepository) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.Username]; exists {
		r.log.Debug(ctx, "имя пользователя уже занято", "username", user.Username)
		return 0, ErrUsernameTaken
	}

	user.ID = r.nextID
	r.nextID++
	r.users[user.Username] = *user

	r.log.Debug(ctx, "пользователь создан", "username", user.Username, "user_id", user.ID)
	return user.ID, nil
}

// GetUserByUsername находит пользователя по его имени.
func (r *memoryUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[username]
	if !ok {
		r.log.Debug(ctx, "пользователь не найден", "username", username)
		return nil, ErrUserNotFound
	}
	return &user, nil
}

// Кастомные ошибки репозитория.
var (
	ErrUserNotFound  = errors.New("пользователь не найден")
	ErrUsernameTaken = errors.New("имя пользователя уже занято")
)
