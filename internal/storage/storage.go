package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"news-backend/internal/models"
)

var (
	// ErrNotFound — запись не найдена (пользователь/новость/комментарий).
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — нарушение уникальности (login).
	ErrAlreadyExists = errors.New("already exists")
)

// UserStorage выполняет авторитативные операции над пользователями.
// Кэширующие чтения живут отдельно, в internal/cache.
type UserStorage interface {
	// SaveUser создает нового пользователя в БД.
	SaveUser(ctx context.Context, user *models.User) error
	// UserByLogin находит пользователя по login.
	UserByLogin(ctx context.Context, login string) (*models.User, error)
	// UserByID находит пользователя по ID.
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// UpdateAvatarURL сохраняет ссылку на загруженный аватар.
	UpdateAvatarURL(ctx context.Context, id uuid.UUID, avatarURL string) error
}

// NewsStorage выполняет авторитативные операции над новостями.
type NewsStorage interface {
	// SaveNews создает новую новость.
	SaveNews(ctx context.Context, news *models.News) error
	// NewsByID находит новость по ID.
	NewsByID(ctx context.Context, id uuid.UUID) (*models.News, error)
	// ListNews возвращает новости по убыванию created_at.
	ListNews(ctx context.Context, limit, offset int32) ([]models.News, error)
	// RecentNews возвращает новости, созданные после since.
	RecentNews(ctx context.Context, since time.Time) ([]models.News, error)
	// UpdateNews изменяет заголовок и тело существующей новости.
	UpdateNews(ctx context.Context, news *models.News) error
	// DeleteNews удаляет новость.
	DeleteNews(ctx context.Context, id uuid.UUID) error
}

// CommentStorage выполняет операции над комментариями.
type CommentStorage interface {
	// SaveComment создает новый комментарий.
	SaveComment(ctx context.Context, comment *models.Comment) (string, error)
	// CommentByID находит комментарий по ID.
	CommentByID(ctx context.Context, id string) (*models.Comment, error)
	// CommentsByNews возвращает комментарии новости по убыванию created_at.
	CommentsByNews(ctx context.Context, newsID uuid.UUID, limit, offset int32) ([]models.Comment, error)
	// SoftDeleteComment помечает комментарий удалённым.
	SoftDeleteComment(ctx context.Context, id string) error
}

// AvatarStorage выдает presigned-ссылки на загрузку аватаров
// и проверяет факт загрузки.
type AvatarStorage interface {
	// PresignUpload возвращает URL для PUT-загрузки объекта key.
	PresignUpload(ctx context.Context, key string, expires time.Duration) (string, error)
	// StatObject проверяет, что объект key существует, и возвращает его размер.
	StatObject(ctx context.Context, key string) (int64, error)
	// PublicURL возвращает публичную ссылку на объект key.
	PublicURL(key string) string
}
