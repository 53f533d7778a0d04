package domain

import "time"

type Street struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	AreaID    int       `json:"area_id"`
	CreatedAt time.Time `json:"created_at"`
}

type StreetDTO struct {
	Name   string `json:"name" binding:"required"`
	AreaID int    `json:"area_id" binding:"required,gt=0"`
}

// StreetParkingCount is the denormalized row returned by
// get_available_parking_count_by_type_street().
type StreetParkingCount struct {
	StreetID       int `json:"street_id"`
	GreenCount     int `json:"green_count"`
	YellowCount    int `json:"yellow_count"`
	RedCount       int `json:"red_count"`
	DisableCount   int `json:"disable_count"`
	AvailableCount int `json:"available_count"`
}

// StreetInventory is a street composed with its aggregate counts and spots.
type StreetInventory struct {
	ID             int                 `json:"id"`
	Name           string              `json:"name"`
	AreaID         int                 `json:"area_id"`
	GreenCount     int                 `json:"green_count"`
	YellowCount    int                 `json:"yellow_count"`
	RedCount       int                 `json:"red_count"`
	DisableCount   int                 `json:"disable_count"`
	AvailableCount int                 `json:"available_count"`
	TotalCount     int                 `json:"total_count"`
	Spots          []ParkingSpotDetail `json:"spots"`
}
