// service содержит бизнес-логику аутентификации:
// регистрацию/вход пользователей, выпуск/проверку/ротацию токенов
// и работу с refresh-сессиями через пакет sessions.
//
// Основные аспекты:
//   - Пакет не хранит состояние запроса внутри Service; экземпляр Service
//     безопасен для конкурентного использования из разных горутин при условии,
//     что переданные хранилища потокобезопасны.
//   - Ошибки возвращаются и далее маппятся транспортом на HTTP-коды
//     (см. комментарии к переменным ошибок ниже).
package service

import (
	"errors"

	"news-backend/internal/config"
	"news-backend/internal/sessions"
	"news-backend/internal/storage"
)

var (
	// ErrInvalidCredentials — пара логин/пароль неверна или пользователь не найден.
	// Транспорт: HTTP 401. Причина (нет пользователя/неверный пароль) не различается.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken — токен (access/refresh) некорректен по формату/подписи
	// или его сессия отсутствует/отозвана. Транспорт: HTTP 401.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired — срок действия токена истёк. Транспорт: HTTP 401,
	// наружу отдаётся то же сообщение, что и для ErrInvalidToken.
	ErrTokenExpired = errors.New("token expired")

	// ErrLoginTaken — login уже занят другим пользователем.
	// Транспорт: HTTP 409.
	ErrLoginTaken = errors.New("login already taken")

	// ErrInvalidLogin — login не проходит политику валидации.
	// Транспорт: HTTP 422.
	ErrInvalidLogin = errors.New("invalid login format")

	// ErrWeakPassword — пароль не удовлетворяет политикам сложности.
	// Транспорт: HTTP 422.
	ErrWeakPassword = errors.New("password is too weak")

	// ErrEmptyPassword — пароль пустой. Транспорт: HTTP 422.
	ErrEmptyPassword = errors.New("password is empty")
)

// Service описывает бизнес-логику аутентификации.
type Service struct {
	users    storage.UserStorage
	sessions sessions.Store
	cfg      config.AuthConfig
}

// New создаёт новый экземпляр Service.
func New(users storage.UserStorage, sessions sessions.Store, cfg config.AuthConfig) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		cfg:      cfg,
	}
}
