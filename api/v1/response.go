package v1

import (
	"net/http"

	"github.com/codehub-server/errs"
	"github.com/codehub-server/logutils"
	"github.com/gin-gonic/gin"
)

// statusFor maps an error kind to its HTTP status
func statusFor(kind errs.Kind) int {
	switch kind {
	case errs.KindValidation, errs.KindQuota:
		return http.StatusBadRequest
	case errs.KindUnauthorized:
		return http.StatusUnauthorized
	case errs.KindForbidden:
		return http.StatusForbidden
	case errs.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error envelope. Internal failures are logged and their details
// kept out of the response.
func respondError(c *gin.Context, err error) {
	status := statusFor(errs.KindOf(err))
	message := err.Error()
	if status == http.StatusInternalServerError {
		logutils.Log.WithFields(logutils.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
			"code":   errs.CodeOf(err),
		}).WithError(err).Error("Request failed")
		message = "Internal server error"
	}
	c.JSON(status, gin.H{
		"status":  "error",
		"message": message,
	})
}

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"status": "success",
		"data":   data,
	})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"status":  "error",
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}

// currentUserID reads the id stored by AuthMiddleware
func currentUserID(c *gin.Context) (string, bool) {
	value, exists := c.Get("userId")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "User not authenticated"})
		return "", false
	}
	userID, ok := value.(string)
	if !ok || userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "User not authenticated"})
		return "", false
	}
	return userID, true
}
