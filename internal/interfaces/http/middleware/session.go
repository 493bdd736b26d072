// internal/interfaces/http/middleware/session.go
package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ContextSessionID = "session_id"
	SessionCookie    = "pos_session"
	HeaderSessionID  = "X-Session-ID"
)

// Session assigns the ordering session that owns the cart. Kiosks may pin
// their session with a header; browsers get a cookie.
func Session(ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(HeaderSessionID)
		if sessionID == "" {
			sessionID, _ = c.Cookie(SessionCookie)
		}

		if _, err := uuid.Parse(sessionID); err != nil {
			sessionID = uuid.New().String()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, sessionID, int(ttl.Seconds()), "/", "", false, true)
		}

		c.Set(ContextSessionID, sessionID)
		c.Header(HeaderSessionID, sessionID)
		c.Next()
	}
}

// GetSessionID returns the session assigned by Session
func GetSessionID(c *gin.Context) string {
	return c.GetString(ContextSessionID)
}
