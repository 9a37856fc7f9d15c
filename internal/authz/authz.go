// authz — единая точка проверки прав доступа.
//
// Вместо разбросанных по хэндлерам сравнений строк роли все проверки
// проходят через Can(actor, action, resource). Роли — закрытый enum
// models.Role {guest, user, admin}.
package authz

import "news-backend/internal/models"

// Action — тип действия над ресурсом.
type Action int8

const (
	// ActionPublishNews — создание новости.
	ActionPublishNews Action = iota
	// ActionEditNews — изменение существующей новости.
	ActionEditNews
	// ActionDeleteNews — удаление новости.
	ActionDeleteNews
	// ActionComment — создание комментария.
	ActionComment
	// ActionDeleteComment — удаление (мягкое) комментария.
	ActionDeleteComment
)

// Can отвечает, разрешено ли actor выполнить action над resource.
//
// Правила:
//   - nil actor — гость, гостю не разрешено ничего;
//   - админу разрешено всё;
//   - публикация новостей требует верифицированного автора;
//   - изменение/удаление новости — только её автору;
//   - комментировать может любой аутентифицированный пользователь;
//   - удалять комментарий — только его автору.
//
// resource типизирован по месту вызова: *models.News либо *models.Comment;
// для действий без ресурса (публикация, комментирование) передаётся nil.
func Can(actor *models.User, action Action, resource any) bool {
	if actor == nil || actor.Role == models.RoleGuest {
		return false
	}
	if actor.Role == models.RoleAdmin {
		return true
	}

	switch action {
	case ActionPublishNews:
		return actor.IsAuthorVerified
	case ActionEditNews, ActionDeleteNews:
		news, ok := resource.(*models.News)
		return ok && news.AuthorID == actor.ID
	case ActionComment:
		return true
	case ActionDeleteComment:
		comment, ok := resource.(*models.Comment)
		return ok && comment.UserID == actor.ID
	default:
		return false
	}
}
