package httpctx

import "github.com/gin-gonic/gin"

// Keys set by the token auth middleware.
const (
	UserIDKey  = "userID"
	IsAdminKey = "isAdmin"
)

// CurrentUserID returns the authenticated user ID stored on the Gin context.
func CurrentUserID(c *gin.Context) (uint, bool) {
	val, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	uid, ok := val.(uint)
	return uid, ok
}

// IsAdminRequest reports whether the current request carries the admin flag.
func IsAdminRequest(c *gin.Context) bool {
	val, exists := c.Get(IsAdminKey)
	if !exists {
		return false
	}
	isAdmin, ok := val.(bool)
	return ok && isAdmin
}
