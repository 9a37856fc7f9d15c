// minio предоставляет реализацию storage.AvatarStorage на базе MinIO/S3:
//   - генерация presigned PUT URL для загрузки аватара;
//   - подтверждение факта загрузки (StatObject);
//   - построение публичной ссылки на объект.
package minio

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"news-backend/internal/config"
	"news-backend/internal/storage"
)

// AvatarStorage — адаптер MinIO для операций с аватарами.
type AvatarStorage struct {
	cfg    config.S3Config
	client *mclient.Client
}

// New создает и инициализирует клиент MinIO.
// Убирает схему из endpoint, подбирает Secure по схеме и выполняет
// fail-fast-проверку доступности бакета.
func New(ctx context.Context, cfg config.S3Config) (*AvatarStorage, error) {
	const op = "storage/minio/New"

	endpoint := cfg.Endpoint
	secure := strings.HasPrefix(endpoint, "https://")

	if u, err := url.Parse(endpoint); err == nil && u.Scheme != "" {
		endpoint = u.Host
		secure = u.Scheme == "https"
	}

	client, err := mclient.New(endpoint, &mclient.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
	})

	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !exists {
		return nil, fmt.Errorf("%s: bucket %q does not exist", op, cfg.Bucket)
	}

	return &AvatarStorage{cfg: cfg, client: client}, nil
}

// PresignUpload возвращает URL для PUT-загрузки объекта key.
func (s *AvatarStorage) PresignUpload(ctx context.Context, key string, expires time.Duration) (string, error) {
	const op = "storage/minio/PresignUpload"

	u, err := s.client.PresignedPutObject(ctx, s.cfg.Bucket, key, expires)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return u.String(), nil
}

// StatObject проверяет, что объект key существует, и возвращает его размер.
// Отсутствующий объект — storage.ErrNotFound.
func (s *AvatarStorage) StatObject(ctx context.Context, key string) (int64, error) {
	const op = "storage/minio/StatObject"

	info, err := s.client.StatObject(ctx, s.cfg.Bucket, key, mclient.StatObjectOptions{})
	if err != nil {
		errResp := mclient.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.StatusCode == 404 {
			return 0, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return info.Size, nil
}

// PublicURL возвращает публичную ссылку на объект key.
// Если PublicBaseURL не задан — пустую строку.
func (s *AvatarStorage) PublicURL(key string) string {
	if s.cfg.PublicBaseURL == "" {
		return ""
	}

	return strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/" + key
}

// Проверка выполнения контракта верхнего уровня.
var _ storage.AvatarStorage = (*AvatarStorage)(nil)
