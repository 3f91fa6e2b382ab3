package server

import (
	"net/http"

	"coop_crm/internal/service/auth"

	"github.com/gin-gonic/gin"
)

// HeaderToken carries the session token on every authenticated request.
const HeaderToken = "X-Auth-Token"

const ctxSession = "session"

// requireSession rejects requests without a live session and stashes the
// resolved session in the gin context for handlers.
func requireSession(a *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(HeaderToken)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		sess, ok := a.Resolve(token)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		c.Set(ctxSession, sess)
		c.Next()
	}
}

// sessionFrom returns the session stored by requireSession.
func sessionFrom(c *gin.Context) auth.Session {
	sess, _ := c.MustGet(ctxSession).(auth.Session)
	return sess
}
