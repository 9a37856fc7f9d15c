package models

// OAuthIdentity — подтверждённая внешним провайдером личность пользователя.
// Обмен кода на identity происходит вне этого модуля; сюда приходит уже
// проверенный результат.
type OAuthIdentity struct {
	// Email используется как login при автосоздании пользователя.
	Email     string
	Name      string
	AvatarURL string
}
