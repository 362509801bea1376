package middleware

import (
	"strings"
	"study_aid_backend/internal/config"
	"study_aid_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware resolves the caller's identity from a bearer token, with a
// cookie fallback for browser clients. Handlers behind it can trust the
// claims placed in the context and never verify credentials themselves.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" || tokenString == "undefined" {
			util.Unauthorized(c, "Not authorized, token missing")
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			util.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}
