package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"driverhub/api/internal/service"
)

type loginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// Login verifies credentials, sets the session cookie and redirects: to the
// rotation page while the account owes a password change, to the dashboard
// otherwise. Every failure is the same undifferentiated outcome.
func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	}

	sess, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.renderAuthError(c, err)
		return
	}

	h.sessions.SetCookie(c, sess.Token)

	if sess.MustChangePassword {
		c.Redirect(http.StatusSeeOther, "/auth/password")
		return
	}
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

// Logout tears down the session and clears the cookie. Safe to repeat.
func (h HandlerSet) Logout(c *gin.Context) {
	token := h.sessions.TokenFromRequest(c)
	if err := h.auth.Logout(c.Request.Context(), token); err != nil {
		h.log.Error().Err(err).Msg("logout failed")
	}
	h.sessions.ClearCookie(c)
	c.Redirect(http.StatusSeeOther, "/auth/login")
}

// Me reports the caller's session snapshot.
func (h HandlerSet) Me(c *gin.Context) {
	sess := mustSession(c)
	c.JSON(http.StatusOK, gin.H{
		"username":           sess.Username,
		"role":               sess.Role,
		"mustChangePassword": sess.MustChangePassword,
	})
}

func (h HandlerSet) renderAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
	case errors.Is(err, service.ErrStoreUnavailable):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
	default:
		var invalid service.InvalidInputError
		if errors.As(err, &invalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": invalid.Reason})
			return
		}
		h.log.Error().Err(err).Msg("unexpected auth error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
	}
}
