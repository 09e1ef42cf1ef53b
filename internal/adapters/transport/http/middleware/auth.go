package middleware

import (
	"context"
	"net/http"
	"strings"

	customErrors "github.com/Miraines/Connecto/auth-service/internal/domain/auth/errors"
	"github.com/Miraines/Connecto/auth-service/internal/domain/auth/model"
	"github.com/gin-gonic/gin"
)

const UserKey = "auth.user"

// Authorizer — срез оркестратора, нужный транспорту для гейтинга по ролям.
type Authorizer interface {
	Authorize(ctx context.Context, accessToken string, required model.Role) (model.User, error)
}

// RequireRole достаёт bearer-токен и пускает дальше только аккаунты с
// уровнем роли не ниже требуемого. 401 на любой невалидный токен — клиент
// по нему сбрасывает креденшелы.
func RequireRole(auth Authorizer, required model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "missing credentials"})
			return
		}

		user, err := auth.Authorize(c.Request.Context(), token, required)
		switch {
		case err == nil:
			c.Set(UserKey, user)
			c.Next()
		case customErrors.IsForbidden(err):
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "insufficient role"})
		case customErrors.IsUnauthenticated(err):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token"})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal server error"})
		}
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// CurrentUser возвращает аккаунт, положенный RequireRole.
func CurrentUser(c *gin.Context) (model.User, bool) {
	v, ok := c.Get(UserKey)
	if !ok {
		return model.User{}, false
	}
	u, ok := v.(model.User)
	return u, ok
}
