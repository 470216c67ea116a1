package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"driverhub/api/internal/ids"
	"driverhub/api/internal/models"
)

// Extra-sticker list.

func (h HandlerSet) ListStickers(c *gin.Context) {
	stickers, err := h.stickers.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("sticker list failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}

	items := make([]gin.H, 0, len(stickers))
	for _, s := range stickers {
		items = append(items, gin.H{
			"id":          s.ID,
			"kennzeichen": s.Kennzeichen,
			"createdAt":   s.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"stickers": items})
}

type stickerForm struct {
	Kennzeichen string `form:"kennzeichen" json:"kennzeichen"`
}

func (h HandlerSet) AddSticker(c *gin.Context) {
	var form stickerForm
	if err := c.ShouldBind(&form); err != nil || form.Kennzeichen == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": "kennzeichen is required"})
		return
	}

	sticker := models.ExtraSticker{ID: ids.New(), Kennzeichen: form.Kennzeichen}
	if err := h.stickers.Create(c.Request.Context(), sticker); err != nil {
		h.log.Error().Err(err).Msg("add sticker failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}

	c.Redirect(http.StatusSeeOther, "/sticker")
}

func (h HandlerSet) DeleteSticker(c *gin.Context) {
	if err := h.stickers.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.log.Error().Err(err).Msg("delete sticker failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	c.Redirect(http.StatusSeeOther, "/sticker")
}

// Referral list ("Empfehlungen").

func (h HandlerSet) ListReferrals(c *gin.Context) {
	referrals, err := h.referrals.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("referral list failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}

	items := make([]gin.H, 0, len(referrals))
	for _, r := range referrals {
		items = append(items, gin.H{
			"id":        r.ID,
			"vorname":   r.Vorname,
			"nachname":  r.Nachname,
			"abholort":  r.Abholort,
			"abgabeort": r.Abgabeort,
			"createdAt": r.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"empfehlungen": items})
}

type referralForm struct {
	Vorname   string `form:"vorname" json:"vorname"`
	Nachname  string `form:"nachname" json:"nachname"`
	Abholort  string `form:"abholort" json:"abholort"`
	Abgabeort string `form:"abgabeort" json:"abgabeort"`
}

func (h HandlerSet) AddReferral(c *gin.Context) {
	var form referralForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": "malformed request"})
		return
	}
	if form.Vorname == "" || form.Nachname == "" || form.Abholort == "" || form.Abgabeort == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": "all fields are required"})
		return
	}

	ref := models.Referral{
		ID:        ids.New(),
		Vorname:   form.Vorname,
		Nachname:  form.Nachname,
		Abholort:  form.Abholort,
		Abgabeort: form.Abgabeort,
	}
	if err := h.referrals.Create(c.Request.Context(), ref); err != nil {
		h.log.Error().Err(err).Msg("add referral failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}

	c.Redirect(http.StatusSeeOther, "/empfehlungen")
}

func (h HandlerSet) DeleteReferral(c *gin.Context) {
	if err := h.referrals.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.log.Error().Err(err).Msg("delete referral failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	c.Redirect(http.StatusSeeOther, "/empfehlungen")
}
