package domain

import "time"

type SpotType string

const (
	SpotGreen   SpotType = "green"
	SpotYellow  SpotType = "yellow"
	SpotRed     SpotType = "red"
	SpotDisable SpotType = "disable"
)

func (t SpotType) Valid() bool {
	switch t {
	case SpotGreen, SpotYellow, SpotRed, SpotDisable:
		return true
	}
	return false
}

// Color is the marker colour used for the spot type on maps and lists.
func (t SpotType) Color() string {
	switch t {
	case SpotGreen:
		return "#34C759"
	case SpotYellow:
		return "#FFCC00"
	case SpotRed:
		return "#FF3B30"
	case SpotDisable:
		return "#007AFF"
	}
	return "#8E8E93"
}

type ParkingSpot struct {
	ID          int       `json:"id"`
	StreetID    int       `json:"street_id"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Type        SpotType  `json:"type"`
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
}

// ParkingSpotDetail is a spot joined with its street and area names.
type ParkingSpotDetail struct {
	ParkingSpot
	StreetName string `json:"street_name"`
	AreaID     int    `json:"area_id"`
	AreaName   string `json:"area_name"`
	Color      string `json:"color"`
}

type ParkingSpotDTO struct {
	StreetID    int      `json:"street_id" binding:"required,gt=0"`
	Latitude    *float64 `json:"latitude" binding:"required,latitude"`
	Longitude   *float64 `json:"longitude" binding:"required,longitude"`
	Type        SpotType `json:"type" binding:"required,oneof=green yellow red disable"`
	IsAvailable *bool    `json:"is_available"`
}

type SpotAvailabilityDTO struct {
	IsAvailable *bool `json:"is_available" binding:"required"`
}
