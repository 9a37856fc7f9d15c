package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"news-backend/internal/models"
	"news-backend/internal/sessions"
	"news-backend/internal/storage"
	"news-backend/pkg/log"
	"news-backend/pkg/redact"
)

// loginRE — политика формата login: 3–32 символа, латиница/цифры/./_/-.
var loginRE = regexp.MustCompile(`^[a-zA-Z0-9._-]{3,32}$`)

// RegisterUser регистрирует нового пользователя.
// Токены при регистрации не выпускаются: клиент выполняет вход отдельно.
func (s *Service) RegisterUser(ctx context.Context, login, password string) (*models.User, error) {
	const op = "service.auth.RegisterUser"

	if !loginRE.MatchString(login) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidLogin)
	}

	if err := validatePassword(password); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err := s.users.UserByLogin(ctx, login)
	if err == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrLoginTaken)
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hashedPassword, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user := &models.User{
		ID:               uuid.New(),
		Login:            login,
		PasswordHash:     hashedPassword,
		Role:             models.RoleUser,
		IsAuthorVerified: false,
		RegisteredAt:     time.Now().UTC(),
	}

	if err := s.users.SaveUser(ctx, user); err != nil {
		// Уникальность login в БД — подстраховка сервисной проверки выше.
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, fmt.Errorf("%s: %w", op, ErrLoginTaken)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.From(ctx).Info("user_registered",
		slog.String("op", op),
		slog.String("login", redact.Login(login)),
	)

	return user, nil
}

// LoginUser выполняет вход по login+пароль.
// Отсутствие пользователя и неверный пароль дают одинаковую ошибку:
// перебор логинов не должен отличать эти случаи.
func (s *Service) LoginUser(ctx context.Context, login, password, userAgent string) (*models.TokenPair, uuid.UUID, error) {
	const op = "service.auth.LoginUser"

	if len(password) == 0 {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	user, err := s.users.UserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	if !checkPassword(user.PasswordHash, password) {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	pair, err := s.issueTokenPair(ctx, user.ID, user.Login, user.Role, user.IsAuthorVerified, userAgent)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return pair, user.ID, nil
}

// RefreshTokens ротирует пару токенов по refresh-токену.
// Предъявленный jti всегда отзывается с блэклистом, поэтому повторное
// использование уже разменянного токена отклоняется даже внутри его окна.
// Новая пара выпускается из claims старого токена без обращения к
// авторитативному хранилищу: смена роли/верификации доезжает до клиента
// только при следующем полноценном входе.
func (s *Service) RefreshTokens(ctx context.Context, refreshToken, userAgent string) (*models.TokenPair, uuid.UUID, error) {
	const op = "service.auth.RefreshTokens"

	claims, err := s.validateRefreshToken(refreshToken)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil || claims.ID == "" {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	if _, err := s.sessions.Get(ctx, claims.ID); err != nil {
		if errors.Is(err, sessions.ErrSessionNotFound) {
			log.From(ctx).Warn("refresh_session_rejected",
				slog.String("op", op),
				slog.String("user_id", userID.String()),
			)
			return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}

		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.sessions.Revoke(ctx, userID, claims.ID, true); err != nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	pair, err := s.issueTokenPair(ctx, userID, claims.Login, models.ParseRole(claims.Role), claims.IsAuthorVerified, userAgent)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return pair, userID, nil
}

// Logout отзывает refresh-сессию предъявленного токена.
// Намеренно fail-open: нечитаемый или чужой токен не является ошибкой,
// с точки зрения клиента logout успешен всегда.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	const op = "service.auth.Logout"

	claims, err := s.validateRefreshToken(refreshToken)
	if err != nil {
		return nil
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil || claims.ID == "" {
		return nil
	}

	if err := s.sessions.Revoke(ctx, userID, claims.ID, true); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// UserSessions перечисляет активные refresh-сессии пользователя.
// Протухшие члены индекса молча отбрасываются.
func (s *Service) UserSessions(ctx context.Context, userID uuid.UUID) ([]models.Session, error) {
	const op = "service.auth.UserSessions"

	jtis, err := s.sessions.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]models.Session, 0, len(jtis))
	for _, jti := range jtis {
		sess, err := s.sessions.Get(ctx, jti)
		if err != nil {
			if errors.Is(err, sessions.ErrSessionNotFound) {
				continue
			}

			return nil, fmt.Errorf("%s: %w", op, err)
		}

		out = append(out, *sess)
	}

	return out, nil
}

// OAuthLogin выполняет вход по подтверждённой внешней личности.
// Отсутствующий пользователь создаётся автоматически со случайным
// непригодным для входа паролем; дальше — обычный хвост выпуска токенов.
func (s *Service) OAuthLogin(ctx context.Context, identity models.OAuthIdentity, userAgent string) (*models.TokenPair, uuid.UUID, error) {
	const op = "service.auth.OAuthLogin"

	user, err := s.users.UserByLogin(ctx, identity.Email)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
		}

		user, err = s.provisionOAuthUser(ctx, identity)
		if err != nil {
			return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	pair, err := s.issueTokenPair(ctx, user.ID, user.Login, user.Role, user.IsAuthorVerified, userAgent)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return pair, user.ID, nil
}

// ValidateToken проверяет access-токен и возвращает данные его владельца,
// восстановленные из claims.
func (s *Service) ValidateToken(ctx context.Context, accessToken string) (*models.User, error) {
	const op = "service.auth.ValidateToken"

	claims, err := s.validateAccessToken(accessToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return &models.User{
		ID:               userID,
		Login:            claims.Login,
		Role:             models.ParseRole(claims.Role),
		IsAuthorVerified: claims.IsAuthorVerified,
	}, nil
}

// provisionOAuthUser создаёт пользователя по внешней личности.
func (s *Service) provisionOAuthUser(ctx context.Context, identity models.OAuthIdentity) (*models.User, error) {
	const op = "service.auth.provisionOAuthUser"

	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Пароль непригоден для входа: его никто не знает.
	hashedPassword, err := hashPassword(base64.RawURLEncoding.EncodeToString(b))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user := &models.User{
		ID:               uuid.New(),
		Login:            identity.Email,
		PasswordHash:     hashedPassword,
		Role:             models.RoleUser,
		IsAuthorVerified: false,
		AvatarURL:        identity.AvatarURL,
		RegisteredAt:     time.Now().UTC(),
	}

	if err := s.users.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.From(ctx).Info("oauth_user_provisioned",
		slog.String("op", op),
		slog.String("login", redact.Login(user.Login)),
	)

	return user, nil
}

// issueTokenPair выпускает новую пару access+refresh токенов
// и сохраняет refresh-сессию.
func (s *Service) issueTokenPair(ctx context.Context, userID uuid.UUID, login string, role models.Role, verified bool, userAgent string) (*models.TokenPair, error) {
	const op = "service.auth.issueTokenPair"

	now := time.Now().UTC()

	accessToken, err := s.generateAccessToken(ctx, userID, login, role, verified, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	jti, refreshToken, err := s.generateRefreshToken(ctx, userID, login, role, verified, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	session := &models.Session{
		JTI:       jti,
		UserID:    userID,
		UserAgent: userAgent,
		CreatedAt: now,
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.TokenPair{
		AccessToken:     accessToken,
		RefreshToken:    refreshToken,
		AccessExpiresAt: now.Add(s.cfg.AccessTokenTTL),
	}, nil
}

// hashPassword хэширует пароль с помощью bcrypt.
func hashPassword(password string) (string, error) {
	const op = "service.auth.hashPassword"

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return string(bytes), nil
}

// checkPassword сравнивает пароль с хэшем.
func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// validatePassword проверяет минимальные требования к паролю.
// Политика по умолчанию: длина >= 8, хотя бы одна строчная, заглавная, цифра и спецсимвол.
func validatePassword(pw string) error {
	const op = "service.auth.validatePassword"

	if len(pw) == 0 {
		return fmt.Errorf("%s: %w", op, ErrEmptyPassword)
	}

	if len([]rune(pw)) < 8 {
		return fmt.Errorf("%s: %w", op, ErrWeakPassword)
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if !(hasLower && hasUpper && hasDigit && hasSpecial) {
		return fmt.Errorf("%s: %w", op, ErrWeakPassword)
	}

	return nil
}
