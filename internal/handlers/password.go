package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"driverhub/api/internal/middleware"
	"driverhub/api/internal/session"
)

// mustSession returns the session RequireSession resolved. Routes calling
// this are always registered behind that guard.
func mustSession(c *gin.Context) session.Session {
	sess, _ := middleware.CurrentSession(c)
	return sess
}

// PasswordStatus tells the client whether rotation is currently forced.
func (h HandlerSet) PasswordStatus(c *gin.Context) {
	sess := mustSession(c)
	c.JSON(http.StatusOK, gin.H{
		"username":         sess.Username,
		"rotationRequired": sess.MustChangePassword,
	})
}

type changePasswordRequest struct {
	CurrentPassword string `form:"currentPassword" json:"currentPassword"`
	NewPassword     string `form:"newPassword" json:"newPassword"`
	ConfirmPassword string `form:"confirmPassword" json:"confirmPassword"`
}

// ChangePassword runs the rotation flow. When rotation was forced, success
// moves the user on to the dashboard; a voluntary change stays in place.
func (h HandlerSet) ChangePassword(c *gin.Context) {
	sess := mustSession(c)

	var req changePasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": "malformed request"})
		return
	}

	err := h.auth.ChangePassword(c.Request.Context(), sess, req.CurrentPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		h.renderAuthError(c, err)
		return
	}

	if sess.MustChangePassword {
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
