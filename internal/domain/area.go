package domain

import "time"

type Area struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
}

type AreaDTO struct {
	Name      string   `json:"name" binding:"required"`
	Latitude  *float64 `json:"latitude" binding:"required,latitude"`
	Longitude *float64 `json:"longitude" binding:"required,longitude"`
}

// AreaSummary is one row of get_area_parking_info(), optionally ranked by
// distance from the caller.
type AreaSummary struct {
	Area
	TotalParking     int      `json:"total_parking"`
	AvailableParking int      `json:"available_parking"`
	GreenCount       int      `json:"green_count"`
	YellowCount      int      `json:"yellow_count"`
	RedCount         int      `json:"red_count"`
	DisableCount     int      `json:"disable_count"`
	DistanceKm       *float64 `json:"distance_km,omitempty"`
}

type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

// GeoPointQuery binds ?lat=&lon=. Pointers keep 0 a valid coordinate.
type GeoPointQuery struct {
	Latitude  *float64 `form:"lat" binding:"required,latitude"`
	Longitude *float64 `form:"lon" binding:"required,longitude"`
}
