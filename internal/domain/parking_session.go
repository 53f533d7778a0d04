package domain

import (
	"time"

	"gopkg.in/guregu/null.v4"
)

type ParkingSessionStatus string

const (
	SessionActive    ParkingSessionStatus = "active"
	SessionCompleted ParkingSessionStatus = "completed"
	SessionExpired   ParkingSessionStatus = "expired"
	SessionCancelled ParkingSessionStatus = "cancelled"
)

// Color maps a session status to the badge colour shown next to it.
func (s ParkingSessionStatus) Color() string {
	switch s {
	case SessionActive:
		return "green"
	case SessionExpired:
		return "red"
	case SessionCompleted:
		return "gray"
	case SessionCancelled:
		return "orange"
	}
	return "gray"
}

type ParkingSession struct {
	ID              int                  `json:"id"`
	PlateNumber     string               `json:"plate_number"`
	ParkingSpotID   int                  `json:"parking_spot_id"`
	StartTime       time.Time            `json:"start_time"`
	EndTime         null.Time            `json:"end_time"`
	Status          ParkingSessionStatus `json:"status"`
	Cost            null.Float           `json:"cost"`
	DurationMinutes null.Int             `json:"duration_minutes"`
	CreatedAt       time.Time            `json:"created_at"`
}

// ParkingSessionDetail is what the session screens render: the session, the
// spot it occupies and the derived countdown fields.
type ParkingSessionDetail struct {
	ParkingSession
	Spot          *ParkingSpotDetail `json:"parking_spot,omitempty"`
	TimeRemaining string             `json:"time_remaining"`
	StatusColor   string             `json:"status_color"`
}

type CreateParkingSessionDTO struct {
	PlateNumber     string  `json:"plate_number" binding:"required"`
	ParkingSpotID   int     `json:"parking_spot_id" binding:"required,gt=0"`
	StartTime       string  `json:"start_time,omitempty"`
	DurationMinutes int     `json:"duration_minutes" binding:"required,gt=0"`
	Cost            float64 `json:"cost" binding:"gte=0"`
}

type ParkingSessionFilterDTO struct {
	Status      *string `form:"status"`
	PlateNumber *string `form:"plate"`
	StreetID    *int    `form:"street_id"`
}

// CountdownUpdate is pushed over the countdown websocket.
type CountdownUpdate struct {
	SessionID     int                  `json:"session_id"`
	Status        ParkingSessionStatus `json:"status"`
	TimeRemaining string               `json:"time_remaining"`
	StatusColor   string               `json:"status_color"`
	SentAt        time.Time            `json:"sent_at"`
}
