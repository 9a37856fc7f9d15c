package service

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"news-backend/internal/config"
	"news-backend/internal/models"
	"news-backend/mocks"
)

func testAuthCfg() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:        "unit-access-secret",
		RefreshJWTSecret: "unit-refresh-secret",
		AccessTokenTTL:   15 * time.Minute,
		RefreshTokenTTL:  24 * time.Hour,
		Issuer:           "news-backend",
	}
}

func newSvc(t *testing.T) (*Service, *mocks.MockUserStorage, *mocks.MockStore, *gomock.Controller) {
	t.Helper()
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserStorage(ctrl)
	store := mocks.NewMockStore(ctrl)
	svc := New(users, store, testAuthCfg())
	return svc, users, store, ctrl
}

func TestGenerateAccessToken_AndValidate_OK(t *testing.T) {
	svc, _, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	ctx := context.Background()
	uid := uuid.New()
	now := time.Now().UTC()

	at, err := svc.generateAccessToken(ctx, uid, "alice", models.RoleAdmin, true, now)
	require.NoError(t, err)

	claims, err := svc.validateAccessToken(at)
	require.NoError(t, err)
	require.Equal(t, uid.String(), claims.UserID)
	require.Equal(t, "alice", claims.Login)
	require.Equal(t, "admin", claims.Role)
	require.True(t, claims.IsAuthorVerified)
	// Access-токен не несёт jti.
	require.Empty(t, claims.ID)
}

// Round-trip: generateRefreshToken -> validateRefreshToken восстанавливает
// тот же jti и claims. Хранилище сессий при этом не трогается
// (на моках нет ожиданий).
func TestGenerateRefreshToken_RoundTrip(t *testing.T) {
	svc, _, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	ctx := context.Background()
	uid := uuid.New()
	now := time.Now().UTC()

	jti, signed, err := svc.generateRefreshToken(ctx, uid, "alice", models.RoleUser, false, now)
	require.NoError(t, err)
	require.NotEmpty(t, jti)

	// jti — URL-safe base64 от 32 байт энтропии.
	raw, err := base64.RawURLEncoding.DecodeString(jti)
	require.NoError(t, err)
	require.Len(t, raw, 32)

	claims, err := svc.validateRefreshToken(signed)
	require.NoError(t, err)
	require.Equal(t, jti, claims.ID)
	require.Equal(t, uid.String(), claims.UserID)
	require.Equal(t, "alice", claims.Login)
	require.Equal(t, "user", claims.Role)
	require.False(t, claims.IsAuthorVerified)
}

// Секреты двух классов токенов различны: access-токен не проходит
// проверку как refresh и наоборот.
func TestValidateToken_DistinctSecrets(t *testing.T) {
	svc, _, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	ctx := context.Background()
	uid := uuid.New()
	now := time.Now().UTC()

	at, err := svc.generateAccessToken(ctx, uid, "alice", models.RoleUser, false, now)
	require.NoError(t, err)

	_, rt, err := svc.generateRefreshToken(ctx, uid, "alice", models.RoleUser, false, now)
	require.NoError(t, err)

	_, err = svc.validateRefreshToken(at)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.validateAccessToken(rt)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_WrongAlg(t *testing.T) {
	svc, _, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	uid := uuid.New()
	now := time.Now().UTC()

	claims := jwt.MapClaims{
		"uid":   uid.String(),
		"login": "alice",
		"role":  "user",
		"iss":   testAuthCfg().Issuer,
		"sub":   uid.String(),
		"exp":   now.Add(time.Hour).Unix(),
		"iat":   now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString([]byte(testAuthCfg().JWTSecret))
	require.NoError(t, err)

	_, err = svc.validateAccessToken(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_WrongIssuer(t *testing.T) {
	svc, _, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	uid := uuid.New()
	now := time.Now().UTC()

	claims := jwt.MapClaims{
		"uid":   uid.String(),
		"login": "alice",
		"role":  "user",
		"iss":   "someone-else",
		"sub":   uid.String(),
		"exp":   now.Add(time.Hour).Unix(),
		"iat":   now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testAuthCfg().JWTSecret))
	require.NoError(t, err)

	_, err = svc.validateAccessToken(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRefreshToken_Expired(t *testing.T) {
	svc, _, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	uid := uuid.New()
	now := time.Now().UTC()

	claims := jwt.MapClaims{
		"uid":   uid.String(),
		"login": "alice",
		"role":  "user",
		"jti":   "dead-session",
		"iss":   testAuthCfg().Issuer,
		"sub":   uid.String(),
		"exp":   now.Add(-time.Hour).Unix(),
		"iat":   now.Add(-2 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testAuthCfg().RefreshJWTSecret))
	require.NoError(t, err)

	_, err = svc.validateRefreshToken(signed)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateToken_Garbage(t *testing.T) {
	svc, _, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	_, err := svc.validateAccessToken("not-a-jwt")
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.validateRefreshToken("")
	require.ErrorIs(t, err, ErrInvalidToken)
}
