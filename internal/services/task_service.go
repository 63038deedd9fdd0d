package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/maynagashev/taskkeeper/internal/logging"
	"github.com/maynagashev/taskkeeper/internal/models"
	"github.com/maynagashev/taskkeeper/internal/repository"
)

// TaskService определяет интерфейс для работы с задачами пользователя.
// Во всех методах owner - subject из проверенного токена.
type TaskService interface {
	Create(ctx context.Context, owner string, req models.CreateTaskRequest) (*models.TaskItem, error)
	List(ctx context.Context, owner string) ([]models.TaskItem, error)
	Update(ctx context.Context, owner string, id int64, req models.UpdateTaskRequest) (*models.TaskItem, error)
	Delete(ctx context.Context, owner string, id int64) error
}

var _ TaskService = (*taskService)(nil)

type taskService struct {
	taskRepo repository.TaskRepository
	now      func() time.Time
	log      logging.Logger
}

// NewTaskService создает новый экземпляр сервиса задач.
func NewTaskService(taskRepo repository.TaskRepository, log logging.Logger) TaskService {
	return &taskService{taskRepo: taskRepo, now: time.Now, log: log}
}

// Create создает задачу, владельцем которой становится owner.
func (s *taskService) Create(ctx context.Context, owner string, req models.CreateTaskRequest) (*models.TaskItem, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	task := &models.TaskItem{
		Name:        *req.Name,
		Description: *req.Description,
		Deadline:    *req.Deadline,
		Owner:       owner,
		CreatedAt:   s.now().UTC(),
	}

	created, err := s.taskRepo.CreateTask(ctx, task)
	if err != nil {
		s.log.Error(ctx, "ошибка репозитория при создании задачи", "owner", owner, "error", err)
		return nil, fmt.Errorf("создание задачи: %w", err)
	}

	s.log.Info(ctx, "задача создана", "item_id", created.ID, "owner", owner, "name", created.Name)
	return created, nil
}

// List возвращает задачи пользователя.
func (s *taskService) List(ctx context.Context, owner string) ([]models.TaskItem, error) {
	tasks, err := s.taskRepo.ListTasksByOwner(ctx, owner)
	if err != nil {
		s.log.Error(ctx, "ошибка репозитория при получении задач", "owner", owner, "error", err)
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	return tasks, nil
}

// Update частично обновляет задачу владельца и проставляет modified_at.
func (s *taskService) Update(
	ctx context.Context, owner string, id int64, req models.UpdateTaskRequest,
) (*models.TaskItem, error) {
	if err := validateUpdate(req); err != nil {
		return nil, err
	}

	updated, err := s.taskRepo.UpdateTask(ctx, id, owner, func(t *models.TaskItem) {
		req.Apply(t)
		modified := s.now().UTC()
		t.ModifiedAt = &modified
	})
	if err != nil {
		return nil, s.mapRepoError(ctx, "обновление задачи", id, owner, err)
	}

	s.log.Info(ctx, "задача обновлена", "item_id", id, "owner", owner)
	return updated, nil
}

// Delete удаляет задачу владельца.
func (s *taskService) Delete(ctx context.Context, owner string, id int64) error {
	if err := s.taskRepo.DeleteTask(ctx, id, owner); err != nil {
		return s.mapRepoError(ctx, "удаление задачи", id, owner, err)
	}

	s.log.Info(ctx, "задача удалена", "item_id", id, "owner", owner)
	return nil
}

func (s *taskService) mapRepoError(ctx context.Context, op string, id int64, owner string, err error) error {
	switch {
	case errors.Is(err, repository.ErrTaskNotFound):
		s.log.Debug(ctx, "задача не найдена", "op", op, "item_id", id)
		return ErrTaskNotFound
	case errors.Is(err, repository.ErrNotOwner):
		s.log.Warn(ctx, "нет прав на действие", "op", op, "item_id", id, "caller", owner)
		return ErrNotAuthorized
	default:
		s.log.Error(ctx, "ошибка репозитория", "op", op, "item_id", id, "error", err)
		return fmt.Errorf("%s: %w", op, err)
	}
}

func validateCreate(req models.CreateTaskRequest) error {
	required := []struct {
		field string
		value *string
	}{
		{"name", req.Name},
		{"description", req.Description},
		{"deadline", req.Deadline},
	}
	for _, r := range required {
		if r.value == nil {
			return ValidationError{Field: r.field, Reason: "missing field"}
		}
	}
	return validateUpdate(models.UpdateTaskRequest(req))
}

func validateUpdate(req models.UpdateTaskRequest) error {
	if req.Name != nil && *req.Name == "" {
		return ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if req.Description != nil && *req.Description == "" {
		return ValidationError{Field: "description", Reason: "must not be empty"}
	}
	return nil
}

// ValidationError описывает некорректное поле запроса.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid field '%s': %s", e.Field, e.Reason)
}

// Is позволяет сравнивать через errors.Is(err, ErrValidation).
func (e ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Ошибки сервиса задач.
var (
	ErrTaskNotFound  = errors.New("задача не найдена")
	ErrNotAuthorized = errors.New("нет прав на действие с задачей")
	ErrValidation    = errors.New("некорректный запрос")
)
