// users содержит бизнес-логику профилей: кэшированные чтения
// и загрузку аватаров через presigned PUT в S3-совместимое хранилище.
package users

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/google/uuid"

	"news-backend/internal/cache"
	"news-backend/internal/config"
	"news-backend/internal/models"
	"news-backend/internal/storage"
)

var (
	// ErrNotFound — пользователь не существует. Транспорт: HTTP 404.
	ErrNotFound = errors.New("user not found")
	// ErrInvalidArgument — некорректные параметры загрузки аватара.
	// Транспорт: HTTP 422.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrAvatarNotUploaded — объект по ключу не найден при подтверждении.
	// Транспорт: HTTP 404.
	ErrAvatarNotUploaded = errors.New("avatar not uploaded")
	// ErrPermissionDenied — попытка управлять чужим профилем. Транспорт: HTTP 403.
	ErrPermissionDenied = errors.New("permission denied")
)

// allowedContentTypes — разрешённые типы содержимого аватара.
var allowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// UploadInfo — данные для клиентской PUT-загрузки аватара.
type UploadInfo struct {
	UploadURL string
	AvatarKey string
	// RequiredHeaders клиент обязан передать при PUT.
	RequiredHeaders map[string]string
}

// Service описывает бизнес-логику профилей.
type Service struct {
	cached  *cache.Users
	users   storage.UserStorage
	avatars storage.AvatarStorage
	cfg     config.S3Config
}

// New создаёт новый экземпляр Service.
func New(cached *cache.Users, users storage.UserStorage, avatars storage.AvatarStorage, cfg config.S3Config) *Service {
	return &Service{cached: cached, users: users, avatars: avatars, cfg: cfg}
}

// ByID возвращает профиль через read-through-кэш.
// password_hash в возвращаемой модели всегда пуст.
func (s *Service) ByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const op = "users.ByID"

	user, err := s.cached.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// AvatarUploadURL генерирует presigned PUT URL для загрузки аватара.
// Ключ имеет вид "avatars/<userID>/<uuid>.<ext>".
func (s *Service) AvatarUploadURL(ctx context.Context, userID uuid.UUID, contentType string, contentLength int64) (*UploadInfo, error) {
	const op = "users.AvatarUploadURL"

	if contentLength <= 0 || contentLength > s.cfg.MaxAvatarSize {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	ext, ok := allowedContentTypes[contentType]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	key := path.Join("avatars", userID.String(), uuid.NewString()+ext)

	url, err := s.avatars.PresignUpload(ctx, key, s.cfg.PresignTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &UploadInfo{
		UploadURL: url,
		AvatarKey: key,
		RequiredHeaders: map[string]string{
			"Content-Type":   contentType,
			"Content-Length": fmt.Sprintf("%d", contentLength),
		},
	}, nil
}

// ConfirmAvatar подтверждает факт загрузки по key: проверяет принадлежность
// ключа пользователю и существование объекта, затем сохраняет публичную
// ссылку в профиле. Кэшированная проекция доживает свой TTL со старой ссылкой.
func (s *Service) ConfirmAvatar(ctx context.Context, userID uuid.UUID, key string) (string, error) {
	const op = "users.ConfirmAvatar"

	prefix := "avatars/" + userID.String() + "/"
	if len(key) <= len(prefix) || key[:len(prefix)] != prefix {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	size, err := s.avatars.StatObject(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", fmt.Errorf("%s: %w", op, ErrAvatarNotUploaded)
		}

		return "", fmt.Errorf("%s: %w", op, err)
	}

	if size <= 0 || size > s.cfg.MaxAvatarSize {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	publicURL := s.avatars.PublicURL(key)

	if err := s.users.UpdateAvatarURL(ctx, userID, publicURL); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return "", fmt.Errorf("%s: %w", op, err)
	}

	return publicURL, nil
}
