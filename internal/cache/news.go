package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"news-backend/internal/models"
	"news-backend/internal/storage"
)

// newsView — кэшируемая проекция новости. Секретов у новости нет,
// проекция совпадает с моделью.
type newsView struct {
	ID        uuid.UUID       `json:"id"`
	AuthorID  uuid.UUID       `json:"author_id"`
	Title     string          `json:"title"`
	Content   json.RawMessage `json:"content"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// News — read-through-читатель новостей.
type News struct {
	rdb    *redis.Client
	news   storage.NewsStorage
	prefix string
	ttl    time.Duration
}

// NewNews создаёт читатель поверх открытого клиента Redis.
func NewNews(rdb *redis.Client, news storage.NewsStorage, prefix string, ttl time.Duration) *News {
	if prefix == "" {
		prefix = "auth:"
	}

	return &News{rdb: rdb, news: news, prefix: prefix, ttl: ttl}
}

func (c *News) key(id uuid.UUID) string {
	return c.prefix + "cache:news:" + id.String()
}

// ByID возвращает новость из кэша либо из авторитативного хранилища.
// Отсутствие новости (storage.ErrNotFound) не кэшируется.
func (c *News) ByID(ctx context.Context, id uuid.UUID) (*models.News, error) {
	const op = "cache.News.ByID"

	raw, err := c.rdb.Get(ctx, c.key(id)).Bytes()
	if err == nil {
		var view newsView
		if uerr := json.Unmarshal(raw, &view); uerr == nil {
			return &models.News{
				ID:        view.ID,
				AuthorID:  view.AuthorID,
				Title:     view.Title,
				Content:   view.Content,
				CreatedAt: view.CreatedAt,
				UpdatedAt: view.UpdatedAt,
			}, nil
		}
		// Битая запись: игнорируем и падаем в авторитативное чтение.
	} else if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	news, err := c.news.NewsByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	view := newsView{
		ID:        news.ID,
		AuthorID:  news.AuthorID,
		Title:     news.Title,
		Content:   news.Content,
		CreatedAt: news.CreatedAt,
		UpdatedAt: news.UpdatedAt,
	}

	if raw, merr := json.Marshal(view); merr == nil {
		// Ошибка записи в кэш не фатальна для чтения.
		_ = c.rdb.Set(ctx, c.key(id), raw, c.ttl).Err()
	}

	return news, nil
}
