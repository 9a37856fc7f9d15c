// errors стандартизирует ответы об ошибках HTTP-слоя.
// На вход он принимает доменную ошибку сервисного слоя, а на выход даёт:
//   - корректный HTTP-статус;
//   - краткое безопасное message без утечки деталей.
//
// Все проблемы с учётными данными и токенами схлопываются в единый
// 401-ответ: причина (просрочен/битая подпись/отозван) наружу не
// отдаётся, чтобы не помогать подделке токенов.
package errors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"news-backend/internal/comments"
	"news-backend/internal/news"
	"news-backend/internal/service"
	"news-backend/internal/users"
)

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// ErrBadRequest — локальная ошибка разбора входных данных хендлером.
var ErrBadRequest = errors.New("bad request")

// APIError — единый формат для фронта.
// Code — короткий стабильный код для машиночитаемой обработки на FE.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ToHTTP конвертирует доменную ошибку в HTTP-статус и унифицированный ответ.
//
// Поведение:
//   - err == nil - это программная ошибка вызова: возвращаем 500/internal,
//     чтобы не послать "200 OK" с телом ошибки и не маскировать баг.
//   - неизвестная ошибка - 500/internal (без утечки деталей).
func ToHTTP(err error) (int, ErrorResponse) {
	status, code, msg := classify(err)

	return status, ErrorResponse{
		Error: APIError{
			Code:    code,
			Message: msg,
		},
	}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	// Прокидываем request_id для фронта, чтобы он мог репортить баги с привязкой.
	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// classify — базовый маппинг доменных ошибок -> HTTP/FE-код/сообщение:
//   - валидация входных данных -> 422
//   - конфликт уникальности login -> 409
//   - учётные данные/токены -> 401 (единое сообщение для всех причин)
//   - отсутствующая сущность -> 404
//   - нет прав -> 403
//   - битый JSON/параметры запроса -> 400
//   - Canceled -> 499, DeadlineExceeded -> 504
//   - прочее -> 500/internal
func classify(err error) (int, string, string) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, "internal", "internal error"

	case errors.Is(err, service.ErrInvalidLogin),
		errors.Is(err, service.ErrWeakPassword),
		errors.Is(err, service.ErrEmptyPassword),
		errors.Is(err, news.ErrEmptyTitle),
		errors.Is(err, comments.ErrEmptyContent),
		errors.Is(err, users.ErrInvalidArgument):
		return http.StatusUnprocessableEntity, "validation_failed", "validation failed"

	case errors.Is(err, service.ErrLoginTaken):
		return http.StatusConflict, "already_exists", "already exists"

	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrTokenExpired):
		return http.StatusUnauthorized, "unauthenticated", "unauthenticated"

	case errors.Is(err, news.ErrNotFound),
		errors.Is(err, comments.ErrNotFound),
		errors.Is(err, comments.ErrNewsNotFound),
		errors.Is(err, users.ErrNotFound),
		errors.Is(err, users.ErrAvatarNotUploaded):
		return http.StatusNotFound, "not_found", "not found"

	case errors.Is(err, news.ErrPermissionDenied),
		errors.Is(err, comments.ErrPermissionDenied),
		errors.Is(err, users.ErrPermissionDenied):
		return http.StatusForbidden, "permission_denied", "permission denied"

	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "invalid_argument", "invalid argument"

	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest, "canceled", "canceled"

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded"

	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}
