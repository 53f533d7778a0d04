package domain

import (
	"time"

	"gopkg.in/guregu/null.v4"
)

type Violation struct {
	ID          int     `json:"id"`
	Code        string  `json:"code"`
	Section     string  `json:"section"`
	Description string  `json:"description"`
	FineTier1   float64 `json:"fine_tier1"`
	FineTier2   float64 `json:"fine_tier2"`
	FineTier3   float64 `json:"fine_tier3"`
	FineTier4   float64 `json:"fine_tier4"`
}

// Fine tiers escalate with the age of the compound at payment time.
const (
	Tier1MaxDays = 14
	Tier2MaxDays = 30
	Tier3MaxDays = 60
)

// FineDue returns the amount payable for a compound issued at issuedAt and
// settled at paidAt.
func (v Violation) FineDue(issuedAt, paidAt time.Time) float64 {
	days := int(paidAt.Sub(issuedAt).Hours() / 24)
	switch {
	case days <= Tier1MaxDays:
		return v.FineTier1
	case days <= Tier2MaxDays:
		return v.FineTier2
	case days <= Tier3MaxDays:
		return v.FineTier3
	default:
		return v.FineTier4
	}
}

type CompoundStatus string

const (
	CompoundUnpaid    CompoundStatus = "unpaid"
	CompoundPaid      CompoundStatus = "paid"
	CompoundCancelled CompoundStatus = "cancelled"
)

type Compound struct {
	ID             int            `json:"id"`
	CompoundNumber string         `json:"compound_number"`
	ViolationID    int            `json:"violation_id"`
	PlateNumber    string         `json:"plate_number"`
	Location       string         `json:"location"`
	Status         CompoundStatus `json:"status"`
	IssuedAt       time.Time      `json:"issued_at"`
	IssuedBy       null.String    `json:"issued_by"`
	PaymentDate    null.Time      `json:"payment_date"`
	PaymentAmount  null.Float     `json:"payment_amount"`

	Violation *Violation `json:"violation,omitempty"`
}

type CreateCompoundDTO struct {
	ViolationID int    `json:"violation_id" binding:"required,gt=0"`
	PlateNumber string `json:"plate_number" binding:"required"`
	Location    string `json:"location" binding:"required"`
}

type PayCompoundDTO struct {
	PaymentAmount *float64 `json:"payment_amount" binding:"omitempty,gt=0"`
	PaymentDate   string   `json:"payment_date,omitempty"`
}

type CompoundFilterDTO struct {
	Status      *string `form:"status"`
	PlateNumber *string `form:"plate"`
}
