package domain

import "time"

type ReportStatus string

const (
	ReportPending    ReportStatus = "pending"
	ReportInProgress ReportStatus = "in_progress"
	ReportResolved   ReportStatus = "resolved"
	ReportRejected   ReportStatus = "rejected"
)

func (s ReportStatus) Valid() bool {
	switch s {
	case ReportPending, ReportInProgress, ReportResolved, ReportRejected:
		return true
	}
	return false
}

type Report struct {
	ID            int          `json:"id"`
	UserID        string       `json:"user_id"`
	ParkingSpotID int          `json:"parking_spot_id"`
	IssueType     string       `json:"issue_type"`
	Description   string       `json:"description"`
	Status        ReportStatus `json:"status"`
	ImageName     string       `json:"image_name,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}

type CreateReportDTO struct {
	ParkingSpotID int    `json:"parking_spot_id" binding:"required,gt=0"`
	IssueType     string `json:"issue_type" binding:"required"`
	Description   string `json:"description" binding:"required"`
	ImageBase64   string `json:"image_base64,omitempty"`
}

type UpdateReportStatusDTO struct {
	Status string `json:"status" binding:"required,oneof=pending in_progress resolved rejected"`
}

type ReportFilterDTO struct {
	Status *string `form:"status"`
}
