package middleware

import (
	"strings"

	"inkwell/internal/entity"
	"inkwell/pkg/apperr"
	"inkwell/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware for downstream handlers.
const (
	CtxUserID    = "user_id"
	CtxUserEmail = "user_email"
	CtxUserName  = "user_name"
	CtxUserRole  = "user_role"
)

const bearerPrefix = "Bearer "

// AuthMiddleware verifies the bearer token and publishes the caller's
// claims into the request context. A missing or invalid token is always
// 401; privilege checks downstream are 403.
func AuthMiddleware(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			abortWith(c, apperr.Unauthorized("authorization required"))
			return
		}

		claims, err := jwtService.ValidateToken(strings.TrimPrefix(authHeader, bearerPrefix))
		if err != nil {
			abortWith(c, apperr.Unauthorized("invalid or expired token"))
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUserEmail, claims.Email)
		c.Set(CtxUserName, claims.Name)
		c.Set(CtxUserRole, claims.Role)
		c.Next()
	}
}

// RequireAdmin gates admin-only routes. It runs after AuthMiddleware, so
// the caller is already identified; a role mismatch is 403, never 401.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxUserRole) != string(entity.RoleAdmin) {
			abortWith(c, apperr.Forbidden("admin privileges required"))
			return
		}
		c.Next()
	}
}

func abortWith(c *gin.Context, err error) {
	status, body := apperr.Envelope(err)
	c.AbortWithStatusJSON(status, body)
}
