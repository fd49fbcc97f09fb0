package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/nlanzo/recipe-app/internal/models"
	"github.com/nlanzo/recipe-app/internal/storage"
	"github.com/nlanzo/recipe-app/migrations"
)

// Интеграционные тесты пакета postgres:
// - поднимают реальный PostgreSQL через testcontainers-go (postgres:16-alpine);
// - применяют встроенные goose-миграции (migrations.Up);
// - проверяют happy-path, уникальность email и сценарии ErrNotFound.
//
// Запуск локально:
//   GO_TEST_INTEGRATION=1 go test ./internal/storage/postgres -v -race -count=1

// startPostgres поднимает временный PostgreSQL, применяет миграции
// и возвращает инициализированное хранилище с функцией очистки.
// Без GO_TEST_INTEGRATION тест пропускается.
func startPostgres(t *testing.T) (*Storage, func()) {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		Env:          map[string]string{"POSTGRES_USER": "user", "POSTGRES_PASSWORD": "pass", "POSTGRES_DB": "recipes"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)

	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "5432/tcp")
	dsn := fmt.Sprintf("postgres://user:pass@%s:%s/recipes?sslmode=disable", host, port.Port())

	// Применяем миграции тем же кодом, что и main.
	mdb, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	require.NoError(t, migrations.Up(ctx, mdb))
	require.NoError(t, mdb.Close())

	st, err := New(ctx, dsn)
	require.NoError(t, err)

	cleanup := func() {
		st.Close()
		_ = c.Terminate(context.Background())
	}
	return st, cleanup
}

// seedUser создаёт пользователя и возвращает присвоенный id.
func seedUser(t *testing.T, st *Storage, email string) int64 {
	t.Helper()

	now := time.Now().UTC()
	id, err := st.SaveUser(context.Background(), &models.User{
		Username:     "seed",
		Email:        email,
		PasswordHash: "hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	require.NoError(t, err)
	return id
}

func TestIntegration_SaveUser_And_GetByEmail_And_ByID_OK(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now().UTC()

	id, err := st.SaveUser(ctx, &models.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	require.NoError(t, err)
	require.Positive(t, id)

	byEmail, err := st.UserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, id, byEmail.ID)
	require.Equal(t, "alice", byEmail.Username)
	require.False(t, byEmail.IsAdmin)
	require.WithinDuration(t, now, byEmail.CreatedAt, 2*time.Second)

	byID, err := st.UserByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", byID.Email)
}

func TestIntegration_SaveUser_DuplicateEmail(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx := context.Background()
	seedUser(t, st, "dup@example.com")

	now := time.Now().UTC()
	_, err := st.SaveUser(ctx, &models.User{
		Username:     "other",
		Email:        "dup@example.com",
		PasswordHash: "hash2",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	require.ErrorIs(t, err, storage.ErrAlreadyExists)
}

func TestIntegration_UserLookup_NotFound(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	_, err := st.UserByEmail(context.Background(), "missing@example.com")
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = st.UserByID(context.Background(), 9999)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIntegration_UpdateUserPassword(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx := context.Background()
	id := seedUser(t, st, "pw@example.com")

	require.NoError(t, st.UpdateUserPassword(ctx, id, "new-hash"))

	got, err := st.UserByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "new-hash", got.PasswordHash)

	// Несуществующий пользователь — ErrNotFound.
	err = st.UpdateUserPassword(ctx, 424242, "whatever")
	require.ErrorIs(t, err, storage.ErrNotFound)
}
