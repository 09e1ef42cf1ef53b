package jwt

import (
	"errors"
	"time"

	customErrors "github.com/Miraines/Connecto/auth-service/internal/domain/auth/errors"
	jwt2 "github.com/Miraines/Connecto/auth-service/internal/domain/auth/jwt"
	"github.com/Miraines/Connecto/auth-service/internal/domain/auth/model"
	"github.com/Miraines/Connecto/auth-service/internal/infra/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JwtUtilImpl подписывает токены симметричным ключом (HS256): ключ
// не покидает сервис, отдельная пара ключей здесь не нужна.
type JwtUtilImpl struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	issuer     string
	audience   string
}

func NewJWTUtil(cfg *config.Config) (*JwtUtilImpl, error) {
	if cfg.JWTSecret == "" {
		return nil, customErrors.WrapInternal(errors.New("empty secret"), "init jwt util")
	}

	return &JwtUtilImpl{
		secret:     []byte(cfg.JWTSecret),
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
		issuer:     cfg.JWTIssuer,
		audience:   cfg.JWTAudience,
	}, nil
}

func (j *JwtUtilImpl) AccessTTL() time.Duration {
	return j.accessTTL
}

func (j *JwtUtilImpl) GenerateAccessToken(userID uuid.UUID, role model.Role) (token string, exp time.Time, err error) {
	now := time.Now()

	claims := jwt2.AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    j.issuer,
			Audience:  jwt.ClaimStrings{j.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.accessTTL)),
			ID:        uuid.NewString(),
		},
		Type: jwt2.TypeAccess,
		Role: string(role),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", time.Time{}, customErrors.WrapInternal(err, "sign access token")
	}

	return signed, claims.ExpiresAt.Time, nil
}

func (j *JwtUtilImpl) GenerateRefreshToken(userID uuid.UUID) (token string, exp time.Time, err error) {
	now := time.Now()

	claims := jwt2.RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    j.issuer,
			Audience:  jwt.ClaimStrings{j.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.refreshTTL)),
			ID:        uuid.NewString(),
		},
		Type: jwt2.TypeRefresh,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", time.Time{}, customErrors.WrapInternal(err, "sign refresh token")
	}

	return signed, claims.ExpiresAt.Time, nil
}

func (j *JwtUtilImpl) ValidateAccessToken(raw string) (jwt2.AccessClaims, error) {
	token, err := jwt.ParseWithClaims(raw, &jwt2.AccessClaims{}, j.keyFunc,
		jwt.WithIssuedAt(), jwt.WithLeeway(30*time.Second))

	if err != nil || !token.Valid {
		return jwt2.AccessClaims{}, customErrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt2.AccessClaims)
	if !ok {
		return jwt2.AccessClaims{}, customErrors.WrapInternal(
			errors.New("claims not AccessClaims"), "ValidateAccessToken",
		)
	}

	if claims.Type != jwt2.TypeAccess {
		return jwt2.AccessClaims{}, customErrors.ErrInvalidToken
	}

	if err := j.checkIssuerAudience(claims.Issuer, claims.Audience); err != nil {
		return jwt2.AccessClaims{}, err
	}

	return *claims, nil
}

func (j *JwtUtilImpl) ValidateRefreshToken(raw string) (jwt2.RefreshClaims, error) {
	token, err := jwt.ParseWithClaims(raw, &jwt2.RefreshClaims{}, j.keyFunc,
		jwt.WithIssuedAt(), jwt.WithLeeway(30*time.Second))

	if err != nil || !token.Valid {
		return jwt2.RefreshClaims{}, customErrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt2.RefreshClaims)
	if !ok {
		return jwt2.RefreshClaims{}, customErrors.WrapInternal(
			errors.New("claims not RefreshClaims"), "ValidateRefreshToken")
	}

	if claims.Type != jwt2.TypeRefresh {
		return jwt2.RefreshClaims{}, customErrors.ErrInvalidToken
	}

	if err := j.checkIssuerAudience(claims.Issuer, claims.Audience); err != nil {
		return jwt2.RefreshClaims{}, err
	}

	return *claims, nil
}

func (j *JwtUtilImpl) keyFunc(t *jwt.Token) (interface{}, error) {
	if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, customErrors.ErrInvalidToken
	}
	return j.secret, nil
}

func (j *JwtUtilImpl) checkIssuerAudience(issuer string, audience jwt.ClaimStrings) error {
	if j.issuer != "" && issuer != j.issuer {
		return customErrors.ErrInvalidToken
	}

	if j.audience != "" {
		okAudi := false
		for _, a := range audience {
			if a == j.audience {
				okAudi = true
				break
			}
		}
		if !okAudi {
			return customErrors.ErrInvalidToken
		}
	}
	return nil
}
