package middleware

import (
	"net/http"
	"strings"

	"socialty-api/internal/auth"

	"github.com/gin-gonic/gin"
)

// SessionCookie is the cookie carrying the session token.
const SessionCookie = "jwt"

// JWTAuthMiddleware validates the session token. The token is looked up in
// the jwt cookie (browser clients), then the Authorization header, then the
// token query param (WebSocket handshakes cannot set custom headers).
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		if cookie, err := c.Cookie(SessionCookie); err == nil {
			tokenString = cookie
		}
		if tokenString == "" {
			authHeader := c.GetHeader("Authorization")
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
		if tokenString == "" {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization token is required",
			})
			c.Abort()
			return
		}

		claims, err := auth.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		// Store user info in context for use in handlers
		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)

		c.Next()
	}
}
