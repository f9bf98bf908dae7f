package v1

import (
	"net/http"

	"github.com/codehub-server/middleware"
	"github.com/gin-gonic/gin"
)

// Logout clears the access token cookie. Issued tokens stay valid until they expire.
func Logout(c *gin.Context) {
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", true, true)

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Logged out successfully",
	})
}
