package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"news-backend/internal/models"
	"news-backend/pkg/log"
)

// authClaims — полезная нагрузка обоих классов токенов.
// У refresh-токена дополнительно заполнен RegisteredClaims.ID (jti) —
// серверный идентификатор сессии; access-токен jti не несёт.
type authClaims struct {
	UserID           string `json:"uid"`
	Login            string `json:"login"`
	Role             string `json:"role"`
	IsAuthorVerified bool   `json:"is_author_verified"`
	jwt.RegisteredClaims
}

// generateAccessToken генерирует access-токен (секрет A, короткое окно).
func (s *Service) generateAccessToken(ctx context.Context, userID uuid.UUID, login string, role models.Role, verified bool, now time.Time) (string, error) {
	const op = "service.token.generateAccessToken"

	lg := log.From(ctx)

	claims := authClaims{
		UserID:           userID.String(),
		Login:            login,
		Role:             role.String(),
		IsAuthorVerified: verified,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.cfg.Issuer,
			Subject:   userID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		lg.Error("access_token_sign_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// generateRefreshToken генерирует refresh-токен (секрет B, длинное окно).
// Возвращает jti — случайный URL-safe идентификатор (32 байта энтропии),
// под которым сессия хранится на сервере, и подписанный токен для клиента.
func (s *Service) generateRefreshToken(ctx context.Context, userID uuid.UUID, login string, role models.Role, verified bool, now time.Time) (string, string, error) {
	const op = "service.token.generateRefreshToken"

	lg := log.From(ctx)

	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		lg.Error("refresh_rand_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	jti := base64.RawURLEncoding.EncodeToString(b)

	claims := authClaims{
		UserID:           userID.String(),
		Login:            login,
		Role:             role.String(),
		IsAuthorVerified: verified,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.RefreshTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.cfg.Issuer,
			Subject:   userID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.RefreshJWTSecret))
	if err != nil {
		lg.Error("refresh_token_sign_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return "", "", fmt.Errorf("%s: %w", op, err)
	}

	return jti, signed, nil
}

// validateAccessToken валидирует access-токен по секрету A.
func (s *Service) validateAccessToken(tokenStr string) (*authClaims, error) {
	const op = "service.token.validateAccessToken"

	return s.validateToken(op, tokenStr, []byte(s.cfg.JWTSecret))
}

// validateRefreshToken валидирует refresh-токен по секрету B.
// Отзыв здесь не проверяется: это зона ответственности хранилища сессий.
func (s *Service) validateRefreshToken(tokenStr string) (*authClaims, error) {
	const op = "service.token.validateRefreshToken"

	return s.validateToken(op, tokenStr, []byte(s.cfg.RefreshJWTSecret))
}

func (s *Service) validateToken(op, tokenStr string, secret []byte) (*authClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &authClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
			}

			return secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(5*time.Second),
		jwt.WithIssuer(s.cfg.Issuer),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	claims, ok := token.Claims.(*authClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return claims, nil
}
