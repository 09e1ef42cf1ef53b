package jwt

import (
	"time"

	"github.com/Miraines/Connecto/auth-service/internal/domain/auth/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

type AccessClaims struct {
	jwt.RegisteredClaims
	Type string `json:"typ"`
	Role string `json:"role"`
}

type RefreshClaims struct {
	jwt.RegisteredClaims
	Type string `json:"typ"`
}

type JWTUtil interface {
	GenerateAccessToken(userID uuid.UUID, role model.Role) (token string, exp time.Time, err error)
	GenerateRefreshToken(userID uuid.UUID) (token string, exp time.Time, err error)
	ValidateAccessToken(token string) (claims AccessClaims, err error)
	ValidateRefreshToken(token string) (claims RefreshClaims, err error)
	AccessTTL() time.Duration
}
