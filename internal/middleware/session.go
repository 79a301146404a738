// internal/middleware/session.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const SessionHeader = "X-Session-Id"

// Session resolves the browsing-session key that owns the cart and checkout
// state. Authenticated requests use the user id so a cart follows a login;
// guests use a client-held session id, minted here on first contact and
// echoed back in the response header.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, exists := c.Get("user_id"); exists {
			if id, ok := userID.(string); ok && id != "" {
				c.Set("session_key", id)
				c.Next()
				return
			}
		}

		sessionID := c.GetHeader(SessionHeader)
		if sessionID == "" {
			sessionID = uuid.NewString()
		}
		c.Header(SessionHeader, sessionID)
		c.Set("session_key", sessionID)
		c.Next()
	}
}

func GetSessionKey(c *gin.Context) (string, bool) {
	if key, exists := c.Get("session_key"); exists {
		if keyStr, ok := key.(string); ok && keyStr != "" {
			return keyStr, true
		}
	}
	return "", false
}
