package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// News — доменная сущность новости.
//
// Особенности:
//   - ID — UUIDv4;
//   - Content — произвольный JSON-документ (тело статьи), хранится как JSONB;
//   - Временные метки — в UTC.
type News struct {
	ID       uuid.UUID
	AuthorID uuid.UUID
	Title    string
	// Content - тело статьи в виде сырого JSON.
	Content   json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}
