package postgres

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"news-backend/internal/models"
	"news-backend/internal/storage"
)

// Файл интеграционных тестов для пакета postgres (репозиторий user.go):
// - поднимает реальный PostgreSQL через testcontainers-go (образ postgres:16-alpine);
// - применяет миграции из ./migrations;
// - проверяет happy-path, уникальность login и round-trip роли;
// - валидирует сценарии отсутствия записей (storage.ErrNotFound) и корректную обработку ошибок контекста.
//
// Запуск локально:
//   GO_TEST_INTEGRATION=1 go test ./internal/storage/postgres -v -race -count=1

// repoRootFromThisFile — определяет корень репозитория относительно текущего файла тестов.
// Используется для поиска SQL-миграций в каталоге ./migrations независимо от текущего рабочего каталога.
func repoRootFromThisFile() string {
	// internal/storage/postgres/... -> подняться на 3 уровня до корня.
	_, thisFile, _, _ := runtime.Caller(0)
	return filepath.Clean(filepath.Join(filepath.Dir(thisFile), "..", "..", ".."))
}

// readMigration — читает содержимое SQL-миграции из подкаталога ./migrations.
func readMigration(t *testing.T, name string) string {
	t.Helper()
	root := repoRootFromThisFile()
	path := filepath.Join(root, "migrations", name)
	b, err := os.ReadFile(path)
	require.NoError(t, err, "read migration %s", path)
	return string(b)
}

// startPostgres — поднимает временный экземпляр PostgreSQL через testcontainers-go,
// применяет миграции и возвращает инициализированное хранилище и функцию очистки.
// Если переменная окружения GO_TEST_INTEGRATION не установлена — тест пропускается.
func startPostgres(t *testing.T) (*Storage, func()) {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		Env:          map[string]string{"POSTGRES_USER": "user", "POSTGRES_PASSWORD": "pass", "POSTGRES_DB": "db"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)

	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "5432/tcp")
	dsn := fmt.Sprintf("postgres://user:pass@%s:%s/db?sslmode=disable", host, port.Port())

	// применяем миграции.
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	for _, name := range []string{"1_init_users.up.sql", "2_init_news.up.sql"} {
		_, err = pool.Exec(ctx, readMigration(t, name))
		require.NoError(t, err)
	}

	st, err := New(ctx, dsn)
	require.NoError(t, err)

	cleanup := func() {
		st.Close()
		_ = c.Terminate(context.Background())
	}
	return st, cleanup
}

// TestIntegration_SaveUser_And_GetByLogin_And_ByID_OK — happy-path:
// сохранение пользователя и последующий поиск по login и ID; round-trip роли и таймстемпов.
func TestIntegration_SaveUser_And_GetByLogin_And_ByID_OK(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	now := time.Now().UTC()
	u := &models.User{
		ID:               uuid.New(),
		Login:            "alice",
		PasswordHash:     "hash",
		Role:             models.RoleAdmin,
		IsAuthorVerified: true,
		AvatarURL:        "https://cdn.example.com/a.png",
		RegisteredAt:     now,
	}

	require.NoError(t, st.SaveUser(context.Background(), u))

	gotByLogin, err := st.UserByLogin(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, u.ID, gotByLogin.ID)
	require.Equal(t, models.RoleAdmin, gotByLogin.Role)
	require.True(t, gotByLogin.IsAuthorVerified)
	require.Equal(t, u.AvatarURL, gotByLogin.AvatarURL)
	require.WithinDuration(t, u.RegisteredAt, gotByLogin.RegisteredAt, time.Second)

	gotByID, err := st.UserByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.Equal(t, u.ID, gotByID.ID)
	require.Equal(t, u.PasswordHash, gotByID.PasswordHash)
}

// TestIntegration_SaveUser_UniqueLogin_Violation — конфликт уникальности по login,
// ожидаем storage.ErrAlreadyExists.
func TestIntegration_SaveUser_UniqueLogin_Violation(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	now := time.Now().UTC()

	a := &models.User{
		ID:           uuid.New(),
		Login:        "bob",
		PasswordHash: "h1",
		Role:         models.RoleUser,
		RegisteredAt: now,
	}
	require.NoError(t, st.SaveUser(context.Background(), a))

	b := &models.User{
		ID:           uuid.New(),
		Login:        "bob", // тот же login
		PasswordHash: "h2",
		Role:         models.RoleUser,
		RegisteredAt: now,
	}
	err := st.SaveUser(context.Background(), b)
	require.Error(t, err)
	require.ErrorIs(t, err, storage.ErrAlreadyExists)
}

// TestIntegration_UpdateAvatarURL_OK_And_Missing — запись ссылки на аватар
// и поведение для отсутствующего пользователя.
func TestIntegration_UpdateAvatarURL_OK_And_Missing(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	u := &models.User{
		ID:           uuid.New(),
		Login:        "carol",
		PasswordHash: "h",
		Role:         models.RoleUser,
		RegisteredAt: time.Now().UTC(),
	}
	require.NoError(t, st.SaveUser(context.Background(), u))

	require.NoError(t, st.UpdateAvatarURL(context.Background(), u.ID, "https://cdn.example.com/c.png"))

	got, err := st.UserByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/c.png", got.AvatarURL)

	err = st.UpdateAvatarURL(context.Background(), uuid.New(), "x")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

// TestIntegration_UserByLogin_NotFound — поиск по login для отсутствующей записи,
// ожидаем storage.ErrNotFound.
func TestIntegration_UserByLogin_NotFound(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	_, err := st.UserByLogin(context.Background(), "absent")
	require.Error(t, err)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

// TestIntegration_UserQueries_ContextCanceled — отменённый контекст должен «просочиться» в ошибки
// чтения (UserByLogin, UserByID) как context.Canceled.
func TestIntegration_UserQueries_ContextCanceled(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // отменяем заранее

	_, err := st.UserByLogin(ctx, "alice")
	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)

	_, err = st.UserByID(ctx, uuid.New())
	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)
}
