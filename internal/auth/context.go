package auth

import "github.com/gin-gonic/gin"

const userIDKey = "userID"

// GetUserID returns the acting user's ID. ok is false when no identity was
// attached by the middleware.
func GetUserID(c *gin.Context) (int64, bool) {
	if v, ok := c.Get(userIDKey); ok {
		if id, ok := v.(int64); ok {
			return id, true
		}
	}
	return 0, false
}
