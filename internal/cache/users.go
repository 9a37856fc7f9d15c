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

// userView — кэшируемая проекция пользователя.
// password_hash в проекции отсутствует всегда.
type userView struct {
	ID               uuid.UUID `json:"id"`
	Login            string    `json:"login"`
	Role             string    `json:"role"`
	IsAuthorVerified bool      `json:"is_author_verified"`
	AvatarURL        string    `json:"avatar_url,omitempty"`
	RegisteredAt     time.Time `json:"registered_at"`
}

// Users — read-through-читатель пользователей.
// Авторитативные чтения (проверка учётных данных, проверки существования
// перед изменением) идут мимо него, напрямую в storage.UserStorage.
type Users struct {
	rdb    *redis.Client
	users  storage.UserStorage
	prefix string
	ttl    time.Duration
}

// NewUsers создаёт читатель поверх открытого клиента Redis.
func NewUsers(rdb *redis.Client, users storage.UserStorage, prefix string, ttl time.Duration) *Users {
	if prefix == "" {
		prefix = "auth:"
	}

	return &Users{rdb: rdb, users: users, prefix: prefix, ttl: ttl}
}

func (c *Users) key(id uuid.UUID) string {
	return c.prefix + "cache:user:" + id.String()
}

// ByID возвращает пользователя из кэша либо из авторитативного хранилища.
// Возвращаемая модель никогда не содержит password_hash; отсутствие
// пользователя (storage.ErrNotFound) не кэшируется.
func (c *Users) ByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const op = "cache.Users.ByID"

	raw, err := c.rdb.Get(ctx, c.key(id)).Bytes()
	if err == nil {
		var view userView
		if uerr := json.Unmarshal(raw, &view); uerr == nil {
			return &models.User{
				ID:               view.ID,
				Login:            view.Login,
				Role:             models.ParseRole(view.Role),
				IsAuthorVerified: view.IsAuthorVerified,
				AvatarURL:        view.AvatarURL,
				RegisteredAt:     view.RegisteredAt,
			}, nil
		}
		// Битая запись: игнорируем и падаем в авторитативное чтение.
	} else if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := c.users.UserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	view := userView{
		ID:               user.ID,
		Login:            user.Login,
		Role:             user.Role.String(),
		IsAuthorVerified: user.IsAuthorVerified,
		AvatarURL:        user.AvatarURL,
		RegisteredAt:     user.RegisteredAt,
	}

	if raw, merr := json.Marshal(view); merr == nil {
		// Ошибка записи в кэш не фатальна для чтения.
		_ = c.rdb.Set(ctx, c.key(id), raw, c.ttl).Err()
	}

	out := *user
	out.PasswordHash = ""

	return &out, nil
}
