package jwt_test

import (
	"testing"
	"time"

	appjwt "github.com/Miraines/Connecto/auth-service/internal/app/auth/jwt"
	authErrors "github.com/Miraines/Connecto/auth-service/internal/domain/auth/errors"
	"github.com/Miraines/Connecto/auth-service/internal/domain/auth/model"
	"github.com/Miraines/Connecto/auth-service/internal/infra/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newUtil(t *testing.T, accessTTL time.Duration) *appjwt.JwtUtilImpl {
	t.Helper()
	util, err := appjwt.NewJWTUtil(&config.Config{
		JWTSecret:       "test-secret-test-secret-test-secret",
		AccessTokenTTL:  accessTTL,
		RefreshTokenTTL: time.Hour,
		JWTIssuer:       "connecto-test",
		JWTAudience:     "connecto-app",
	})
	require.NoError(t, err)
	return util
}

func TestJWTUtil_EmptySecret(t *testing.T) {
	_, err := appjwt.NewJWTUtil(&config.Config{})
	require.Error(t, err)
	require.True(t, authErrors.IsInternal(err))
}

func TestJWTUtil_AccessRoundTrip(t *testing.T) {
	util := newUtil(t, time.Minute)
	uid := uuid.New()

	token, exp, err := util.GenerateAccessToken(uid, model.RolePremium)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.WithinDuration(t, time.Now().Add(time.Minute), exp, 5*time.Second)

	claims, err := util.ValidateAccessToken(token)
	require.NoError(t, err)
	require.Equal(t, uid.String(), claims.Subject)
	require.Equal(t, "premium", claims.Role)
}

func TestJWTUtil_RefreshRoundTrip(t *testing.T) {
	util := newUtil(t, time.Minute)
	uid := uuid.New()

	token, _, err := util.GenerateRefreshToken(uid)
	require.NoError(t, err)

	claims, err := util.ValidateRefreshToken(token)
	require.NoError(t, err)
	require.Equal(t, uid.String(), claims.Subject)
}

func TestJWTUtil_ExpiredAlwaysInvalid(t *testing.T) {
	// TTL отрицательный: токен подписан правильно, но уже истёк
	util := newUtil(t, -time.Minute)

	token, _, err := util.GenerateAccessToken(uuid.New(), model.RoleUser)
	require.NoError(t, err)

	_, err = util.ValidateAccessToken(token)
	require.Error(t, err)
	require.True(t, authErrors.IsInvalidToken(err))
}

func TestJWTUtil_WrongSecret(t *testing.T) {
	util := newUtil(t, time.Minute)
	other, err := appjwt.NewJWTUtil(&config.Config{
		JWTSecret:       "completely-different-secret-value",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		JWTIssuer:       "connecto-test",
		JWTAudience:     "connecto-app",
	})
	require.NoError(t, err)

	token, _, err := util.GenerateAccessToken(uuid.New(), model.RoleUser)
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(token)
	require.Error(t, err)
	require.True(t, authErrors.IsInvalidToken(err))
}

func TestJWTUtil_IssuerMismatch(t *testing.T) {
	util := newUtil(t, time.Minute)
	other, err := appjwt.NewJWTUtil(&config.Config{
		JWTSecret:       "test-secret-test-secret-test-secret",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		JWTIssuer:       "someone-else",
		JWTAudience:     "connecto-app",
	})
	require.NoError(t, err)

	token, _, err := util.GenerateAccessToken(uuid.New(), model.RoleUser)
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(token)
	require.Error(t, err)
	require.True(t, authErrors.IsInvalidToken(err))
}

func TestJWTUtil_AccessIsNotRefresh(t *testing.T) {
	util := newUtil(t, time.Minute)

	access, _, err := util.GenerateAccessToken(uuid.New(), model.RoleUser)
	require.NoError(t, err)
	refresh, _, err := util.GenerateRefreshToken(uuid.New())
	require.NoError(t, err)

	// подпись общая, но typ-claim не даёт подменить один вид другим
	_, err = util.ValidateRefreshToken(access)
	require.True(t, authErrors.IsInvalidToken(err))
	_, err = util.ValidateAccessToken(refresh)
	require.True(t, authErrors.IsInvalidToken(err))

	_, err = util.ValidateAccessToken("garbage")
	require.True(t, authErrors.IsInvalidToken(err))
	_, err = util.ValidateRefreshToken("garbage")
	require.True(t, authErrors.IsInvalidToken(err))

	claims, err := util.ValidateAccessToken(access)
	require.NoError(t, err)
	require.NotEmpty(t, claims.ID)
}
