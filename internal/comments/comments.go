// comments содержит бизнес-логику комментариев: создание с проверкой
// существования новости, чтение и мягкое удаление.
package comments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"news-backend/internal/authz"
	"news-backend/internal/models"
	"news-backend/internal/storage"
)

var (
	// ErrNotFound — комментарий не существует. Транспорт: HTTP 404.
	ErrNotFound = errors.New("comment not found")
	// ErrNewsNotFound — новость, к которой пишут комментарий, не существует.
	// Транспорт: HTTP 404.
	ErrNewsNotFound = errors.New("news not found")
	// ErrPermissionDenied — у пользователя нет прав на операцию.
	// Транспорт: HTTP 403.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrEmptyContent — текст комментария пустой. Транспорт: HTTP 422.
	ErrEmptyContent = errors.New("content is empty")
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// Service описывает бизнес-логику комментариев.
type Service struct {
	store storage.CommentStorage
	news  storage.NewsStorage
}

// New создаёт новый экземпляр Service.
func New(store storage.CommentStorage, news storage.NewsStorage) *Service {
	return &Service{store: store, news: news}
}

// Create создаёт комментарий к существующей новости.
// Существование новости проверяется авторитативным чтением.
func (s *Service) Create(ctx context.Context, actor *models.User, newsID uuid.UUID, content string) (*models.Comment, error) {
	const op = "comments.Create"

	if !authz.Can(actor, authz.ActionComment, nil) {
		return nil, fmt.Errorf("%s: %w", op, ErrPermissionDenied)
	}

	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyContent)
	}

	if _, err := s.news.NewsByID(ctx, newsID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNewsNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	comment := &models.Comment{
		NewsID:  newsID,
		UserID:  actor.ID,
		Content: content,
	}

	if _, err := s.store.SaveComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return comment, nil
}

// ByID возвращает комментарий по идентификатору.
func (s *Service) ByID(ctx context.Context, id string) (*models.Comment, error) {
	const op = "comments.ByID"

	comment, err := s.store.CommentByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return comment, nil
}

// ListByNews возвращает комментарии новости по убыванию created_at.
func (s *Service) ListByNews(ctx context.Context, newsID uuid.UUID, limit, offset int32) ([]models.Comment, error) {
	const op = "comments.ListByNews"

	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}

	items, err := s.store.CommentsByNews(ctx, newsID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

// Delete помечает комментарий удалённым. Разрешено автору и администратору.
func (s *Service) Delete(ctx context.Context, actor *models.User, id string) error {
	const op = "comments.Delete"

	comment, err := s.store.CommentByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	if !authz.Can(actor, authz.ActionDeleteComment, comment) {
		return fmt.Errorf("%s: %w", op, ErrPermissionDenied)
	}

	if err := s.store.SoftDeleteComment(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
