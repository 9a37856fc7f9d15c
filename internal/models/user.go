// models содержит доменные сущности news-backend.
// Эти типы используются слоями бизнес-логики, хранилища и транспорта.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Role — роль пользователя; закрытый enum.
type Role int8

const (
	RoleGuest Role = iota
	RoleUser
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleAdmin:
		return "admin"
	default:
		return "guest"
	}
}

// ParseRole — разбирает строковое представление роли.
// Неизвестные значения трактуются как guest.
func ParseRole(s string) Role {
	switch s {
	case "user":
		return RoleUser
	case "admin":
		return RoleAdmin
	default:
		return RoleGuest
	}
}

// User - модель пользователя в системе.
//
// Особенности:
//   - Login — уникальный неизменяемый идентификатор;
//   - PasswordHash — bcrypt-хэш, наружу никогда не сериализуется;
//   - RegisteredAt — в UTC, неизменяемое поле.
type User struct {
	ID               uuid.UUID
	Login            string
	PasswordHash     string
	Role             Role
	IsAuthorVerified bool
	AvatarURL        string
	RegisteredAt     time.Time
}
