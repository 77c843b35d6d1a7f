package middlewares

import (
	"net/http"

	"Daybook/utils/httpctx"

	"github.com/gin-gonic/gin"
)

// AdminOnlyMiddleware ensures the request is authenticated as an admin user.
func AdminOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if httpctx.IsAdminRequest(c) {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	}
}
