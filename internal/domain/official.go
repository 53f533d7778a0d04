package domain

import "time"

type OfficialType string

const (
	OfficialCity        OfficialType = "city"
	OfficialEnforcement OfficialType = "enforcement"
)

func (t OfficialType) Valid() bool {
	return t == OfficialCity || t == OfficialEnforcement
}

type Official struct {
	ID         int          `json:"id"`
	UserID     string       `json:"user_id"`
	Name       string       `json:"name"`
	OfficialID string       `json:"official_id"`
	Type       OfficialType `json:"type"`
	CreatedAt  time.Time    `json:"created_at"`
}

// CreateAccountDTO is the JSON body of the create-account function.
type CreateAccountDTO struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=6,max=100"`
	Name       string `json:"name" binding:"required"`
	OfficialID string `json:"official_id" binding:"required"`
	Type       string `json:"type" binding:"required,oneof=city enforcement"`
}

type UpdateOfficialDTO struct {
	Name       string `json:"name" binding:"required"`
	OfficialID string `json:"official_id" binding:"required"`
	Type       string `json:"type" binding:"required,oneof=city enforcement"`
}

// MenuItem is one entry of the role-gated home menu.
type MenuItem struct {
	Key   string `json:"key"`
	Title string `json:"title"`
}
