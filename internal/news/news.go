// news содержит бизнес-логику публикации новостей: правила доступа,
// кэшированные чтения и авторитативные изменения.
package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"news-backend/internal/authz"
	"news-backend/internal/cache"
	"news-backend/internal/models"
	"news-backend/internal/storage"
)

var (
	// ErrNotFound — новость не существует. Транспорт: HTTP 404.
	ErrNotFound = errors.New("news not found")
	// ErrPermissionDenied — у пользователя нет прав на операцию.
	// Транспорт: HTTP 403.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrEmptyTitle — заголовок пустой. Транспорт: HTTP 422.
	ErrEmptyTitle = errors.New("title is empty")
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Service описывает бизнес-логику новостей.
type Service struct {
	store  storage.NewsStorage
	cached *cache.News
}

// New создаёт новый экземпляр Service.
func New(store storage.NewsStorage, cached *cache.News) *Service {
	return &Service{store: store, cached: cached}
}

// Create публикует новость. Разрешено администраторам
// и верифицированным авторам.
func (s *Service) Create(ctx context.Context, actor *models.User, title string, content json.RawMessage) (*models.News, error) {
	const op = "news.Create"

	if !authz.Can(actor, authz.ActionPublishNews, nil) {
		return nil, fmt.Errorf("%s: %w", op, ErrPermissionDenied)
	}

	if title == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyTitle)
	}

	if len(content) == 0 {
		content = json.RawMessage(`{}`)
	}

	now := time.Now().UTC()
	item := &models.News{
		ID:        uuid.New(),
		AuthorID:  actor.ID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.SaveNews(ctx, item); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return item, nil
}

// ByID возвращает новость через read-through-кэш.
// Материал может отставать от авторитативного состояния в пределах TTL кэша.
func (s *Service) ByID(ctx context.Context, id uuid.UUID) (*models.News, error) {
	const op = "news.ByID"

	item, err := s.cached.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return item, nil
}

// List возвращает новости по убыванию created_at.
func (s *Service) List(ctx context.Context, limit, offset int32) ([]models.News, error) {
	const op = "news.List"

	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}

	items, err := s.store.ListNews(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

// Recent возвращает новости за последние days суток.
func (s *Service) Recent(ctx context.Context, days int) ([]models.News, error) {
	const op = "news.Recent"

	if days <= 0 {
		days = 1
	}

	since := time.Now().UTC().AddDate(0, 0, -days)

	items, err := s.store.RecentNews(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

// Update изменяет новость. Проверка существования и владения идёт
// по авторитативному чтению, мимо кэша.
func (s *Service) Update(ctx context.Context, actor *models.User, id uuid.UUID, title string, content json.RawMessage) (*models.News, error) {
	const op = "news.Update"

	item, err := s.store.NewsByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !authz.Can(actor, authz.ActionEditNews, item) {
		return nil, fmt.Errorf("%s: %w", op, ErrPermissionDenied)
	}

	if title != "" {
		item.Title = title
	}
	if content != nil {
		item.Content = content
	}
	item.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateNews(ctx, item); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return item, nil
}

// Delete удаляет новость. Запись в кэше не трогается и доживает свой TTL.
func (s *Service) Delete(ctx context.Context, actor *models.User, id uuid.UUID) error {
	const op = "news.Delete"

	item, err := s.store.NewsByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	if !authz.Can(actor, authz.ActionDeleteNews, item) {
		return fmt.Errorf("%s: %w", op, ErrPermissionDenied)
	}

	if err := s.store.DeleteNews(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
