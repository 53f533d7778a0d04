package domain

import (
	"encoding/json"
	"time"
)

type NotificationType string

const (
	NotificationSpotAvailability NotificationType = "spot_availability_changed"
	NotificationCompoundIssued   NotificationType = "compound_issued"
	NotificationSessionExpired   NotificationType = "session_expired"
)

// Notification is broadcast to every officer connected to the /ws hub.
type Notification struct {
	Type      NotificationType `json:"type"`
	Timestamp time.Time        `json:"timestamp"`
	Payload   any              `json:"payload"`
}

type SpotAvailabilityChanged struct {
	ParkingSpotID int  `json:"parking_spot_id"`
	StreetID      int  `json:"street_id"`
	IsAvailable   bool `json:"is_available"`
}

// SpotEvent is the sensor message consumed from the spot event queue.
type SpotEvent struct {
	MessageType   string          `json:"message_type"`
	ParkingSpotID int             `json:"parking_spot_id"`
	IsAvailable   bool            `json:"is_available"`
	Timestamp     string          `json:"timestamp"`
	DeviceID      string          `json:"device_id,omitempty"`
	RawPayload    json.RawMessage `json:"-"`
}

type SessionExpiredPayload struct {
	SessionID int `json:"session_id"`
}

type CompoundIssued struct {
	CompoundID     int    `json:"compound_id"`
	CompoundNumber string `json:"compound_number"`
	PlateNumber    string `json:"plate_number"`
	Location       string `json:"location"`
}
