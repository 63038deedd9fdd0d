package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maynagashev/taskkeeper/internal/logging"
	"github.com/maynagashev/taskkeeper/internal/models"
	"github.com/maynagashev/taskkeeper/internal/repository"
)

func newTask(owner, name string) *models.TaskItem {
	return &models.TaskItem{
		Name:        name,
		Description: "desc",
		Deadline:    "2030-01-01",
		Owner:       owner,
		CreatedAt:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateTask_AssignsMonotonicIDs(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryTaskRepository(logging.NewNop())

	first, err := repo.CreateTask(ctx, newTask("alice", "first"))
	require.NoError(t, err)
	second, err := repo.CreateTask(ctx, newTask("alice", "second"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), first.ID)
	assert.Equal(t, int64(1), second.ID)

	// После удаления ID не переиспользуется
	require.NoError(t, repo.DeleteTask(ctx, first.ID, "alice"))
	third, err := repo.CreateTask(ctx, newTask("alice", "third"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), third.ID)

	tasks, err := repo.ListTasksByOwner(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "second", tasks[0].Name)
	assert.Equal(t, "third", tasks[1].Name)
}

func TestListTasksByOwner(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryTaskRepository(logging.NewNop())

	for _, tc := range []struct{ owner, name string }{
		{"alice", "a1"}, {"bob", "b1"}, {"alice", "a2"},
	} {
		_, err := repo.CreateTask(ctx, newTask(tc.owner, tc.name))
		require.NoError(t, err)
	}

	alice, err := repo.ListTasksByOwner(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, alice, 2)
	assert.Equal(t, []string{"a1", "a2"}, []string{alice[0].Name, alice[1].Name})

	bob, err := repo.ListTasksByOwner(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, bob, 1)
	assert.Equal(t, "b1", bob[0].Name)

	nobody, err := repo.ListTasksByOwner(ctx, "carol")
	require.NoError(t, err)
	assert.NotNil(t, nobody)
	assert.Empty(t, nobody)
}

func TestUpdateTask(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryTaskRepository(logging.NewNop())
	created, err := repo.CreateTask(ctx, newTask("alice", "buy milk"))
	require.NoError(t, err)

	tests := []struct {
		name        string
		id          int64
		caller      string
		expectedErr error
	}{
		{name: "Задача не найдена", id: 99, caller: "alice", expectedErr: repository.ErrTaskNotFound},
		{name: "Чужая задача", id: created.ID, caller: "bob", expectedErr: repository.ErrNotOwner},
		{name: "Успешное обновление", id: created.ID, caller: "alice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			updated, updateErr := repo.UpdateTask(ctx, tt.id, tt.caller, func(task *models.TaskItem) {
				called = true
				task.Name = "hacked"
				// Попытка поменять неизменяемые поля игнорируется
				task.ID = 42
				task.Owner = tt.caller + "-other"
				task.CreatedAt = time.Now()
			})

			if tt.expectedErr != nil {
				require.ErrorIs(t, updateErr, tt.expectedErr)
				assert.Nil(t, updated)
				assert.False(t, called, "mutate не должен вызываться")

				tasks, _ := repo.ListTasksByOwner(ctx, "alice")
				require.Len(t, tasks, 1)
				assert.Equal(t, "buy milk", tasks[0].Name)
				return
			}

			require.NoError(t, updateErr)
			assert.Equal(t, "hacked", updated.Name)
			assert.Equal(t, created.ID, updated.ID)
			assert.Equal(t, "alice", updated.Owner)
			assert.Equal(t, created.CreatedAt, updated.CreatedAt)
		})
	}
}

func TestDeleteTask(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryTaskRepository(logging.NewNop())
	created, err := repo.CreateTask(ctx, newTask("alice", "buy milk"))
	require.NoError(t, err)

	require.ErrorIs(t, repo.DeleteTask(ctx, 99, "alice"), repository.ErrTaskNotFound)
	require.ErrorIs(t, repo.DeleteTask(ctx, created.ID, "bob"), repository.ErrNotOwner)

	tasks, err := repo.ListTasksByOwner(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, tasks, 1, "чужой пользователь не должен удалять задачу")

	require.NoError(t, repo.DeleteTask(ctx, created.ID, "alice"))
	require.ErrorIs(t, repo.DeleteTask(ctx, created.ID, "alice"), repository.ErrTaskNotFound)

	tasks, err = repo.ListTasksByOwner(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestCreateTask_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryTaskRepository(logging.NewNop())

	created, err := repo.CreateTask(ctx, newTask("alice", "original"))
	require.NoError(t, err)
	created.Name = "changed outside"

	tasks, err := repo.ListTasksByOwner(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "original", tasks[0].Name)
}
