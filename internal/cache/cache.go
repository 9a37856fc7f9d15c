// cache реализует read-through-кэширование горячих сущностей (User, News)
// поверх Redis.
//
// Политика одна для всех типов:
//   - попадание -> десериализуем проекцию (секретов в ней нет);
//   - промах -> авторитативное чтение; найденная сущность пишется в кэш
//     с TTL своего типа, «не найдено» не кэшируется никогда;
//   - инвалидация только по TTL, записи при изменении сущности не трогаются.
package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// NewClient создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}
