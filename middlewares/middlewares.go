package middlewares

import (
	"net/http"
	"os"
	"strings"

	"Daybook/auth"
	"Daybook/models"
	"Daybook/utils/httpctx"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TokenAuthMiddleware verifies the bearer token and resolves it to a user
// record. A valid token for a deleted or deactivated user is rejected the
// same way as a missing token.
func TokenAuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := auth.ExtractTokenID(c.Request)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		var user models.User
		if err := db.Select("id", "is_admin", "is_active").First(&user, userID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}
		if !user.IsActive {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Inactive user"})
			c.Abort()
			return
		}

		c.Set(httpctx.UserIDKey, userID)
		c.Set(httpctx.IsAdminKey, user.IsAdmin)
		c.Next()
	}
}

// CORSMiddleware lets the web frontend talk to the API.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		allowedOrigins := []string{
			"http://localhost:3000", // local dev
		}
		if extra := strings.TrimSpace(os.Getenv("CORS_ORIGINS")); extra != "" {
			for _, o := range strings.Split(extra, ",") {
				if trimmed := strings.TrimSpace(o); trimmed != "" {
					allowedOrigins = append(allowedOrigins, trimmed)
				}
			}
		}

		for _, o := range allowedOrigins {
			if o == origin {
				c.Writer.Header().Set("Access-Control-Allow-Origin", o)
				break
			}
		}

		c.Writer.Header().Set("Vary", "Origin")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers",
			"Content-Type, Authorization, Content-Length, X-CSRF-Token, Accept, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods",
			"POST, GET, OPTIONS, PUT, PATCH, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
