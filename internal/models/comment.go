package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment — внутренняя доменная модель комментария (MongoDB).
// Важно:
//   - ID — ObjectID MongoDB, наружу/вовнутрь конвертируется в string;
//   - NewsID/UserID — UUID смежных сущностей;
//   - IsDeleted — мягкое удаление, при отдаче наружу content маскируется.
type Comment struct {
	ID        string
	NewsID    uuid.UUID
	UserID    uuid.UUID
	Content   string
	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
