package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"driverhub/api/internal/models"
	"driverhub/api/internal/session"
)

const sessionContextKey = "current_session"

const (
	loginPath    = "/auth/login"
	rotationPath = "/auth/password"
)

// CurrentSession returns the session the guards resolved for this request.
func CurrentSession(c *gin.Context) (session.Session, bool) {
	val, exists := c.Get(sessionContextKey)
	if !exists {
		return session.Session{}, false
	}
	sess, ok := val.(session.Session)
	return sess, ok
}

// RequireSession resolves the cookie token to a live session or redirects to
// the login page. It deliberately does not care about the rotation flag;
// RequirePasswordCurrent layers that on.
func RequireSession(mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := mgr.TokenFromRequest(c)
		sess, ok := mgr.Resolve(c.Request.Context(), token)
		if !ok {
			c.Redirect(http.StatusSeeOther, loginPath)
			c.Abort()
			return
		}

		c.Set(sessionContextKey, sess)
		c.Next()
	}
}

// RequireRole gates privileged routes. The response names no role that would
// have been accepted.
func RequireRole(role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := CurrentSession(c)
		if !ok {
			c.Redirect(http.StatusSeeOther, loginPath)
			c.Abort()
			return
		}

		if sess.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// RequirePasswordCurrent bounces sessions that still owe a password rotation
// to the rotation page. Runs after RequireSession on every protected group
// except the rotation endpoints themselves.
func RequirePasswordCurrent() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := CurrentSession(c)
		if ok && sess.MustChangePassword {
			c.Redirect(http.StatusSeeOther, rotationPath)
			c.Abort()
			return
		}
		c.Next()
	}
}
