// sessions владеет жизненным циклом refresh-сессий в Redis.
//
// Раскладка ключей (prefix по умолчанию "auth:"):
//   - <prefix>session:<jti>           JSON-запись сессии, TTL = окно refresh-токена;
//   - <prefix>sessions:<user_id>      SET из jti пользователя, без TTL;
//   - <prefix>blacklist:<uid>:<jti>   отметка об отзыве, TTL = окно refresh-токена.
//
// Истечение записи сессии — основной механизм экспирации; протухшие члены
// индекса tolerated и отфильтровываются читателями.
package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"news-backend/internal/models"
)

// ErrSessionNotFound — сессия отсутствует либо отозвана.
var ErrSessionNotFound = errors.New("session not found")

// Store — контракт хранилища refresh-сессий.
type Store interface {
	// Create сохраняет запись сессии и добавляет jti в индекс пользователя.
	Create(ctx context.Context, session *models.Session) error
	// Get возвращает сессию по jti; отозванная или отсутствующая — ErrSessionNotFound.
	Get(ctx context.Context, jti string) (*models.Session, error)
	// Revoke удаляет сессию и убирает jti из индекса; при blacklist=true
	// дополнительно пишет отметку об отзыве. Идемпотентна.
	Revoke(ctx context.Context, userID uuid.UUID, jti string, blacklist bool) error
	// List возвращает jti активного индекса пользователя; протухшие члены
	// не отфильтрованы — это забота вызывающего.
	List(ctx context.Context, userID uuid.UUID) ([]string, error)
	// Close закрывает клиент Redis.
	Close() error
}

// record — формат JSON-записи сессии в Redis.
type record struct {
	UserID    uuid.UUID `json:"user_id"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}

type redisStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// New создаёт хранилище сессий поверх уже открытого клиента Redis.
// ttl — окно действия refresh-токена.
func New(rdb *redis.Client, prefix string, ttl time.Duration) Store {
	if prefix == "" {
		prefix = "auth:"
	}

	return &redisStore{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (s *redisStore) sessionKey(jti string) string {
	return s.prefix + "session:" + jti
}

func (s *redisStore) indexKey(userID uuid.UUID) string {
	return s.prefix + "sessions:" + userID.String()
}

func (s *redisStore) blacklistKey(userID uuid.UUID, jti string) string {
	return s.prefix + "blacklist:" + userID.String() + ":" + jti
}

// Create пишет запись сессии (SET с TTL) и добавляет jti в индекс (SADD).
// Пара операций сознательно не обёрнута в транзакцию: осиротевший член
// индекса отфильтровывается читателями, а сессия без члена индекса влияет
// только на перечисление, не на безопасность.
func (s *redisStore) Create(ctx context.Context, session *models.Session) error {
	const op = "sessions.Create"

	raw, err := json.Marshal(record{
		UserID:    session.UserID,
		UserAgent: session.UserAgent,
		CreatedAt: session.CreatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.rdb.Set(ctx, s.sessionKey(session.JTI), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.rdb.SAdd(ctx, s.indexKey(session.UserID), session.JTI).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Get возвращает сессию по jti. Запись, для которой существует отметка
// об отзыве, трактуется как отсутствующая.
func (s *redisStore) Get(ctx context.Context, jti string) (*models.Session, error) {
	const op = "sessions.Get"

	raw, err := s.rdb.Get(ctx, s.sessionKey(jti)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%s: %w", op, ErrSessionNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	blacklisted, err := s.rdb.Exists(ctx, s.blacklistKey(rec.UserID, jti)).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if blacklisted > 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrSessionNotFound)
	}

	return &models.Session{
		JTI:       jti,
		UserID:    rec.UserID,
		UserAgent: rec.UserAgent,
		CreatedAt: rec.CreatedAt,
	}, nil
}

// Revoke удаляет запись сессии и член индекса; при blacklist=true сначала
// пишет отметку об отзыве, чтобы перехваченный токен нельзя было
// воспроизвести до того, как удаление распространится.
// Отзыв несуществующего jti — no-op.
func (s *redisStore) Revoke(ctx context.Context, userID uuid.UUID, jti string, blacklist bool) error {
	const op = "sessions.Revoke"

	if blacklist {
		if err := s.rdb.Set(ctx, s.blacklistKey(userID, jti), "revoked", s.ttl).Err(); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := s.rdb.Del(ctx, s.sessionKey(jti)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.rdb.SRem(ctx, s.indexKey(userID), jti).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// List возвращает содержимое индекса пользователя (SMEMBERS).
func (s *redisStore) List(ctx context.Context, userID uuid.UUID) ([]string, error) {
	const op = "sessions.List"

	members, err := s.rdb.SMembers(ctx, s.indexKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return members, nil
}

func (s *redisStore) Close() error { return s.rdb.Close() }
