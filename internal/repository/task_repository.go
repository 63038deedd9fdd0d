package repository

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/maynagashev/taskkeeper/internal/logging"
	"github.com/maynagashev/taskkeeper/internal/models"
)

// TaskRepository определяет методы для работы с задачами.
// Методы изменения проверяют владельца под той же блокировкой, что и само изменение.
type TaskRepository interface {
	CreateTask(ctx context.Context, task *models.TaskItem) (*models.TaskItem, error)
	ListTasksByOwner(ctx context.Context, owner string) ([]models.TaskItem, error)
	UpdateTask(ctx context.Context, id int64, owner string, mutate func(*models.TaskItem)) (*models.TaskItem, error)
	DeleteTask(ctx context.Context, id int64, owner string) error
}

// memoryTaskRepository хранит задачи в памяти процесса.
type memoryTaskRepository struct {
	mu     sync.RWMutex
	tasks  map[int64]models.TaskItem
	nextID int64 // ID не переиспользуются после удаления
	log    logging.Logger
}

var _ TaskRepository = (*memoryTaskRepository)(nil)

// NewMemoryTaskRepository создает пустое хранилище задач.
func NewMemoryTaskRepository(log logging.Logger) TaskRepository {
	return &memoryTaskRepository{
		tasks: make(map[int64]models.TaskItem),
		log:   log,
	}
}

// CreateTask присваивает задаче ID и сохраняет ее копию.
func (r *memoryTaskRepository) CreateTask(ctx context.Context, task *models.TaskItem) (*models.TaskItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task.ID = r.nextID
	r.nextID++
	r.tasks[task.ID] = *task

	r.log.Debug(ctx, "задача сохранена", "item_id", task.ID, "owner", task.Owner)
	created := *task
	return &created, nil
}

// ListTasksByOwner возвращает задачи владельца, отсортированные по ID.
// Для владельца без задач возвращается пустой (не nil) срез.
func (r *memoryTaskRepository) ListTasksByOwner(_ context.Context, owner string) ([]models.TaskItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.TaskItem, 0)
	for _, t := range r.tasks {
		if t.Owner == owner {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// UpdateTask применяет mutate к задаче, если она существует и принадлежит owner.
// ID, владелец и время создания восстанавливаются после mutate.
func (r *memoryTaskRepository) UpdateTask(
	ctx context.Context, id int64, owner string, mutate func(*models.TaskItem),
) (*models.TaskItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.tasks[id]
	if !ok {
		return nil, ErrTaskNotFound
	}
	if current.Owner != owner {
		r.log.Warn(ctx, "попытка изменить чужую задачу", "item_id", id, "owner", current.Owner, "caller", owner)
		return nil, ErrNotOwner
	}

	updated := current
	mutate(&updated)
	updated.ID = current.ID
	updated.Owner = current.Owner
	updated.CreatedAt = current.CreatedAt
	r.tasks[id] = updated

	return &updated, nil
}

// DeleteTask удаляет задачу, если она существует и принадлежит owner.
func (r *memoryTaskRepository) DeleteTask(ctx context.Context, id int64, owner string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.tasks[id]
	if !ok {
		return ErrTaskNotFound
	}
	if current.Owner != owner {
		r.log.Warn(ctx, "попытка удалить чужую задачу", "item_id", id, "owner", current.Owner, "caller", owner)
		return ErrNotOwner
	}

	delete(r.tasks, id)
	return nil
}

// Ошибки репозитория задач.
var (
	ErrTaskNotFound = errors.New("задача не найдена")
	ErrNotOwner     = errors.New("задача принадлежит другому пользователю")
)
