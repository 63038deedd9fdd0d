package repository_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maynagashev/taskkeeper/internal/logging"
	"github.com/maynagashev/taskkeeper/internal/models"
	"github.com/maynagashev/taskkeeper/internal/repository"
)

func TestNewMemoryUserRepository(t *testing.T) {
	repo := repository.NewMemoryUserRepository(logging.NewNop())
	assert.NotNil(t, repo)
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryUserRepository(logging.NewNop())

	id, err := repo.CreateUser(ctx, &models.User{Username: "alice", PasswordHash: "hash1"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), id)

	id, err = repo.CreateUser(ctx, &models.User{Username: "bob", PasswordHash: "hash2"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	t.Run("Имя пользователя занято", func(t *testing.T) {
		dupID, dupErr := repo.CreateUser(ctx, &models.User{Username: "alice", PasswordHash: "other"})
		require.ErrorIs(t, dupErr, repository.ErrUsernameTaken)
		assert.Equal(t, int64(0), dupID)

		// Исходная запись не перезаписана
		u, getErr := repo.GetUserByUsername(ctx, "alice")
		require.NoError(t, getErr)
		assert.Equal(t, "hash1", u.PasswordHash)
	})

	t.Run("ID не сдвигается после отказа", func(t *testing.T) {
		nextID, createErr := repo.CreateUser(ctx, &models.User{Username: "carol", PasswordHash: "hash3"})
		require.NoError(t, createErr)
		assert.Equal(t, int64(2), nextID)
	})
}

func TestGetUserByUsername(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryUserRepository(logging.NewNop())
	_, err := repo.CreateUser(ctx, &models.User{Username: "alice", PasswordHash: "hash"})
	require.NoError(t, err)

	tests := []struct {
		name        string
		username    string
		expectedErr error
	}{
		{name: "Пользователь найден", username: "alice"},
		{name: "Пользователь не найден", username: "bob", expectedErr: repository.ErrUserNotFound},
		{name: "Регистр имеет значение", username: "Alice", expectedErr: repository.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, getErr := repo.GetUserByUsername(ctx, tt.username)
			if tt.expectedErr != nil {
				require.ErrorIs(t, getErr, tt.expectedErr)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, getErr)
			assert.Equal(t, tt.username, user.Username)
			assert.Equal(t, "hash", user.PasswordHash)
		})
	}
}

func TestCreateUser_ConcurrentUniqueIDs(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryUserRepository(logging.NewNop())

	const n = 50
	ids := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := repo.CreateUser(ctx, &models.User{Username: fmt.Sprintf("user%d", i)})
			assert.NoError(t, err)
			ids <- id
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool, n)
	for id := range ids {
		assert.False(t, seen[id], "ID %d выдан дважды", id)
		assert.Less(t, id, int64(n))
		seen[id] = true
	}
	assert.Len(t, seen, n)
}
