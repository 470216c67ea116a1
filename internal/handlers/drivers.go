package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"driverhub/api/internal/ids"
	"driverhub/api/internal/models"
	"driverhub/api/internal/repository"
)

type driverForm struct {
	Vorname     string `form:"vorname" json:"vorname"`
	Nachname    string `form:"nachname" json:"nachname"`
	Email       string `form:"email" json:"email"`
	Phone       string `form:"phone" json:"phone"`
	Status      string `form:"status" json:"status"`
	Fahrzeugtyp string `form:"fahrzeugtyp" json:"fahrzeugtyp"`
	Kennzeichen string `form:"kennzeichen" json:"kennzeichen"`
	Sticker     bool   `form:"sticker" json:"sticker"`
	App         bool   `form:"app" json:"app"`
}

func (f driverForm) toModel(id string) models.Driver {
	status := models.DriverStatus(f.Status)
	if f.Status == "" {
		status = models.DriverStatusNeu
	}
	return models.Driver{
		ID:          id,
		Vorname:     f.Vorname,
		Nachname:    f.Nachname,
		Email:       optional(f.Email),
		Phone:       optional(f.Phone),
		Status:      status,
		Fahrzeugtyp: f.Fahrzeugtyp,
		Kennzeichen: optional(f.Kennzeichen),
		Sticker:     f.Sticker,
		App:         f.App,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (f driverForm) validate() string {
	if f.Vorname == "" || f.Nachname == "" || f.Fahrzeugtyp == "" {
		return "vorname, nachname and fahrzeugtyp are required"
	}
	if f.Status != "" && !models.ValidDriverStatus(models.DriverStatus(f.Status)) {
		return "unknown status"
	}
	return ""
}

func (h HandlerSet) AddDriver(c *gin.Context) {
	var form driverForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": "malformed request"})
		return
	}
	if msg := form.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": msg})
		return
	}

	if err := h.drivers.Create(c.Request.Context(), form.toModel(ids.New())); err != nil {
		h.log.Error().Err(err).Msg("add driver failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}

	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h HandlerSet) UpdateDriver(c *gin.Context) {
	var form driverForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": "malformed request"})
		return
	}
	if msg := form.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": msg})
		return
	}

	err := h.drivers.Update(c.Request.Context(), form.toModel(c.Param("id")))
	if err != nil {
		if errors.Is(err, repository.ErrDriverNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "driver_not_found"})
			return
		}
		h.log.Error().Err(err).Msg("update driver failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}

	c.Redirect(http.StatusSeeOther, "/dashboard")
}

type statusForm struct {
	Status string `form:"status" json:"status"`
}

// UpdateDriverStatus is the one driver mutation partners may perform.
func (h HandlerSet) UpdateDriverStatus(c *gin.Context) {
	var form statusForm
	if err := c.ShouldBind(&form); err != nil || !models.ValidDriverStatus(models.DriverStatus(form.Status)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": "unknown status"})
		return
	}

	err := h.drivers.UpdateStatus(c.Request.Context(), c.Param("id"), models.DriverStatus(form.Status))
	if err != nil {
		if errors.Is(err, repository.ErrDriverNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "driver_not_found"})
			return
		}
		h.log.Error().Err(err).Msg("update driver status failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}

	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h HandlerSet) DeleteDriver(c *gin.Context) {
	if err := h.drivers.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.log.Error().Err(err).Msg("delete driver failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h HandlerSet) GetDriver(c *gin.Context) {
	driver, err := h.drivers.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrDriverNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "driver_not_found"})
			return
		}
		h.log.Error().Err(err).Msg("get driver failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}

	c.JSON(http.StatusOK, toDriverResponse(driver))
}
