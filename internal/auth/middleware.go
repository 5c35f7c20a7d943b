package auth

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// UserHeader is set by the gateway in front of the service.
const UserHeader = "X-Sharer-User-Id"

// Identity resolves the acting user from either Authorization: Bearer <token>
// or, when trustHeader is set, the X-Sharer-User-Id header. A bearer token
// takes precedence over the header.
func Identity(jwtManager *JWTManager, trustHeader bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" {
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "invalid Authorization header format",
				})
				return
			}

			userID, err := jwtManager.UserIDFromToken(parts[1])
			if err != nil {
				msg := "invalid token"
				if errors.Is(err, ErrTokenExpired) {
					msg = "token expired"
				}
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
				return
			}

			c.Set(userIDKey, userID)
			c.Next()
			return
		}

		if trustHeader {
			if raw := strings.TrimSpace(c.GetHeader(UserHeader)); raw != "" {
				userID, err := strconv.ParseInt(raw, 10, 64)
				if err != nil || userID <= 0 {
					c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
						"error": "invalid " + UserHeader + " header",
					})
					return
				}

				c.Set(userIDKey, userID)
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing user identity",
		})
	}
}
