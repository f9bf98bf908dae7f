package middleware

import (
	"net/http"
	"strings"

	"github.com/codehub-server/dto"
	"github.com/gin-gonic/gin"
)

// AccessTokenCookie is the cookie the login handler stores the JWT in
const AccessTokenCookie = "access_token"

// TokenValidator parses and verifies access tokens
type TokenValidator interface {
	ValidateToken(tokenString string) (*dto.TokenClaims, error)
}

// AuthMiddleware requires a valid access token from the Authorization header or the
// access_token cookie and stores the caller's identity in the context
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "Authentication required",
			})
			c.Abort()
			return
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set("userId", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
		return cookie
	}
	return ""
}
