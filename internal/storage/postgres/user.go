package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"news-backend/internal/models"
	"news-backend/internal/storage"
)

// SaveUser создает нового пользователя в БД.
func (s *Storage) SaveUser(ctx context.Context, user *models.User) error {
	const op = "storage.postgres.SaveUser"

	query := `
		INSERT INTO users(id, login, password_hash, role, is_author_verified, avatar_url, registered_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.db.Exec(ctx, query,
		user.ID,
		user.Login,
		user.PasswordHash,
		user.Role.String(),
		user.IsAuthorVerified,
		user.AvatarURL,
		user.RegisteredAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// UserByLogin находит пользователя по login.
func (s *Storage) UserByLogin(ctx context.Context, login string) (*models.User, error) {
	const op = "storage.postgres.UserByLogin"

	query := `
		SELECT id, login, password_hash, role, is_author_verified, avatar_url, registered_at
		FROM users
		WHERE login = $1
	`

	user, err := s.scanUser(s.db.QueryRow(ctx, query, login))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// UserByID находит пользователя по ID.
func (s *Storage) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const op = "storage.postgres.UserByID"

	query := `
		SELECT id, login, password_hash, role, is_author_verified, avatar_url, registered_at
		FROM users
		WHERE id = $1
	`

	user, err := s.scanUser(s.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// UpdateAvatarURL сохраняет ссылку на загруженный аватар.
func (s *Storage) UpdateAvatarURL(ctx context.Context, id uuid.UUID, avatarURL string) error {
	const op = "storage.postgres.UpdateAvatarURL"

	query := `
		UPDATE users
		SET avatar_url = $2
		WHERE id = $1
	`

	tag, err := s.db.Exec(ctx, query, id, avatarURL)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

func (s *Storage) scanUser(row pgx.Row) (*models.User, error) {
	var (
		user models.User
		role string
	)

	err := row.Scan(
		&user.ID,
		&user.Login,
		&user.PasswordHash,
		&role,
		&user.IsAuthorVerified,
		&user.AvatarURL,
		&user.RegisteredAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}

		return nil, err
	}

	user.Role = models.ParseRole(role)

	return &user, nil
}
