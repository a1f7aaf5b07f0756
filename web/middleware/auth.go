// Package middleware provides Gin middleware for authentication and
// request logging.
package middleware

import (
	"net/http"
	"strings"

	"household-economy/database/model"
	"household-economy/web/entity"
	"household-economy/web/service"

	"github.com/gin-gonic/gin"
)

const loginUserKey = "loginUser"

// TokenAuthMiddleware resolves the Bearer token of each request to its
// user and aborts with 401 when the token is absent or invalid.
func TokenAuthMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			abortUnauthorized(c, "missing bearer token")
			return
		}

		user, err := authService.ParseToken(token)
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		c.Set(loginUserKey, user)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, entity.Msg{
		Success: false,
		Msg:     msg,
	})
}

// GetLoginUser returns the authenticated user of the request, nil when
// the request did not pass TokenAuthMiddleware.
func GetLoginUser(c *gin.Context) *model.User {
	value, ok := c.Get(loginUserKey)
	if !ok {
		return nil
	}
	user, ok := value.(*model.User)
	if !ok {
		return nil
	}
	return user
}
