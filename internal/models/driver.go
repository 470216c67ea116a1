package models

import "time"

type DriverStatus string

const (
	DriverStatusAktiv   DriverStatus = "aktiv"
	DriverStatusInaktiv DriverStatus = "inaktiv"
	DriverStatusNeu     DriverStatus = "neu"
)

// ValidDriverStatus reports whether s is one of the known states.
func ValidDriverStatus(s DriverStatus) bool {
	switch s {
	case DriverStatusAktiv, DriverStatusInaktiv, DriverStatusNeu:
		return true
	}
	return false
}

type Driver struct {
	ID          string
	Vorname     string
	Nachname    string
	Email       *string
	Phone       *string
	Status      DriverStatus
	Fahrzeugtyp string
	Kennzeichen *string
	Sticker     bool
	App         bool
	CreatedAt   time.Time
}

// DriverStats is the dashboard head-count breakdown.
type DriverStats struct {
	Total   int
	Aktiv   int
	Inaktiv int
	Neu     int
}

// ExtraSticker is a pending extra-sticker request for a plate.
type ExtraSticker struct {
	ID          string
	Kennzeichen string
	CreatedAt   time.Time
}

// Referral is a referral-code entry ("Empfehlung").
type Referral struct {
	ID        string
	Vorname   string
	Nachname  string
	Abholort  string
	Abgabeort string
	CreatedAt time.Time
}
