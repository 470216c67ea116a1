package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"driverhub/api/internal/models"
)

type driverResponse struct {
	ID          string    `json:"id"`
	Vorname     string    `json:"vorname"`
	Nachname    string    `json:"nachname"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Status      string    `json:"status"`
	Fahrzeugtyp string    `json:"fahrzeugtyp"`
	Kennzeichen string    `json:"kennzeichen"`
	Sticker     bool      `json:"sticker"`
	App         bool      `json:"app"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toDriverResponse(d models.Driver) driverResponse {
	return driverResponse{
		ID:          d.ID,
		Vorname:     d.Vorname,
		Nachname:    d.Nachname,
		Email:       deref(d.Email),
		Phone:       deref(d.Phone),
		Status:      string(d.Status),
		Fahrzeugtyp: d.Fahrzeugtyp,
		Kennzeichen: deref(d.Kennzeichen),
		Sticker:     d.Sticker,
		App:         d.App,
		CreatedAt:   d.CreatedAt,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Dashboard returns the status breakdown and the full driver list, newest
// first.
func (h HandlerSet) Dashboard(c *gin.Context) {
	stats, err := h.drivers.Stats(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("driver stats failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}

	drivers, err := h.drivers.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("driver list failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}

	items := make([]driverResponse, 0, len(drivers))
	for _, d := range drivers {
		items = append(items, toDriverResponse(d))
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": gin.H{
			"total":   stats.Total,
			"aktiv":   stats.Aktiv,
			"inaktiv": stats.Inaktiv,
			"neu":     stats.Neu,
		},
		"drivers": items,
	})
}

var csvHeader = []string{
	"Vorname", "Nachname", "E-Mail", "Telefon", "Status",
	"Fahrzeugtyp", "Kennzeichen", "Sticker", "App", "Erstellt am",
}

// ExportDrivers streams the driver list as a semicolon-separated CSV with a
// UTF-8 BOM, which is what Excel expects for umlauts.
func (h HandlerSet) ExportDrivers(c *gin.Context) {
	drivers, err := h.drivers.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("driver export failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}

	filename := fmt.Sprintf("fahrer_export_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if _, err := c.Writer.WriteString("\xEF\xBB\xBF"); err != nil {
		return
	}

	w := csv.NewWriter(c.Writer)
	w.Comma = ';'

	_ = w.Write(csvHeader)
	for _, d := range drivers {
		_ = w.Write([]string{
			d.Vorname,
			d.Nachname,
			deref(d.Email),
			deref(d.Phone),
			string(d.Status),
			d.Fahrzeugtyp,
			deref(d.Kennzeichen),
			jaNein(d.Sticker),
			jaNein(d.App),
			d.CreatedAt.Format("02.01.2006"),
		})
	}
	w.Flush()
}

func jaNein(b bool) string {
	if b {
		return "Ja"
	}
	return "Nein"
}
