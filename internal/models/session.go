package models

import (
	"time"

	"github.com/google/uuid"
)

// Session - запись refresh-сессии в key-value хранилище.
//
// Сессия идентифицируется по jti — серверному непрозрачному идентификатору,
// вшитому в refresh-токен. Запись живёт с TTL, равным окну действия
// refresh-токена; истечение записи — основной механизм экспирации.
type Session struct {
	JTI       string
	UserID    uuid.UUID
	UserAgent string
	CreatedAt time.Time
}
