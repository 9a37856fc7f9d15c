package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"news-backend/internal/models"
	"news-backend/internal/storage"
)

// SaveNews создает новую новость.
func (s *Storage) SaveNews(ctx context.Context, news *models.News) error {
	const op = "storage.postgres.SaveNews"

	query := `
		INSERT INTO news(id, author_id, title, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.db.Exec(ctx, query,
		news.ID,
		news.AuthorID,
		news.Title,
		news.Content,
		news.CreatedAt,
		news.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// NewsByID находит новость по ID.
func (s *Storage) NewsByID(ctx context.Context, id uuid.UUID) (*models.News, error) {
	const op = "storage.postgres.NewsByID"

	query := `
		SELECT id, author_id, title, content, created_at, updated_at
		FROM news
		WHERE id = $1
	`

	var news models.News
	err := s.db.QueryRow(ctx, query, id).Scan(
		&news.ID,
		&news.AuthorID,
		&news.Title,
		&news.Content,
		&news.CreatedAt,
		&news.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &news, nil
}

// ListNews возвращает новости по убыванию created_at.
func (s *Storage) ListNews(ctx context.Context, limit, offset int32) ([]models.News, error) {
	const op = "storage.postgres.ListNews"

	query := `
		SELECT id, author_id, title, content, created_at, updated_at
		FROM news
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := s.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	items, err := scanNewsRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

// RecentNews возвращает новости, созданные после since.
func (s *Storage) RecentNews(ctx context.Context, since time.Time) ([]models.News, error) {
	const op = "storage.postgres.RecentNews"

	query := `
		SELECT id, author_id, title, content, created_at, updated_at
		FROM news
		WHERE created_at >= $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	items, err := scanNewsRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

// UpdateNews изменяет заголовок и тело существующей новости.
func (s *Storage) UpdateNews(ctx context.Context, news *models.News) error {
	const op = "storage.postgres.UpdateNews"

	query := `
		UPDATE news
		SET title = $2, content = $3, updated_at = $4
		WHERE id = $1
	`

	tag, err := s.db.Exec(ctx, query,
		news.ID,
		news.Title,
		news.Content,
		news.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// DeleteNews удаляет новость.
func (s *Storage) DeleteNews(ctx context.Context, id uuid.UUID) error {
	const op = "storage.postgres.DeleteNews"

	query := `
		DELETE FROM news
		WHERE id = $1
	`

	tag, err := s.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

func scanNewsRows(rows pgx.Rows) ([]models.News, error) {
	var items []models.News

	for rows.Next() {
		var news models.News
		if err := rows.Scan(
			&news.ID,
			&news.AuthorID,
			&news.Title,
			&news.Content,
			&news.CreatedAt,
			&news.UpdatedAt,
		); err != nil {
			return nil, err
		}

		items = append(items, news)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
