package repository

import (
	"context"
	"errors"
	"time"

	"parking_enforcement/internal/domain"
)

var ErrNotFound = errors.New("record not found")
var ErrDuplicateEntry = errors.New("record already exists")
var ErrNoActiveSession = errors.New("no active parking session for the given vehicle")
var ErrForeignKey = errors.New("referenced record does not exist or is still referenced")

// ErrStaleStatus is returned by conditional updates when the row no longer has
// the status it was read with.
var ErrStaleStatus = errors.New("record status changed since it was read")

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
}

type OfficialRepository interface {
	// CreateWithUser inserts the auth user and its official row atomically.
	CreateWithUser(ctx context.Context, user *domain.User, official *domain.Official) (*domain.Official, error)
	FindByID(ctx context.Context, id int) (*domain.Official, error)
	FindByUserID(ctx context.Context, userID string) (*domain.Official, error)
	FindAll(ctx context.Context) ([]domain.Official, error)
	Update(ctx context.Context, official *domain.Official) (*domain.Official, error)
	Delete(ctx context.Context, id int) error
}

type AreaRepository interface {
	Create(ctx context.Context, area *domain.Area) (*domain.Area, error)
	FindByID(ctx context.Context, id int) (*domain.Area, error)
	// ParkingInfo runs get_area_parking_info().
	ParkingInfo(ctx context.Context) ([]domain.AreaSummary, error)
	Update(ctx context.Context, area *domain.Area) (*domain.Area, error)
	Delete(ctx context.Context, id int) error
}

type StreetRepository interface {
	Create(ctx context.Context, street *domain.Street) (*domain.Street, error)
	FindByID(ctx context.Context, id int) (*domain.Street, error)
	FindByAreaID(ctx context.Context, areaID int) ([]domain.Street, error)
	// CountsByType runs get_available_parking_count_by_type_street().
	CountsByType(ctx context.Context, streetID int) (*domain.StreetParkingCount, error)
	Update(ctx context.Context, street *domain.Street) (*domain.Street, error)
	Delete(ctx context.Context, id int) error
}

type ParkingSpotRepository interface {
	Create(ctx context.Context, spot *domain.ParkingSpot) (*domain.ParkingSpot, error)
	FindByID(ctx context.Context, id int) (*domain.ParkingSpotDetail, error)
	FindByIDs(ctx context.Context, ids []int) (map[int]domain.ParkingSpotDetail, error)
	FindByStreetID(ctx context.Context, streetID int) ([]domain.ParkingSpotDetail, error)
	Update(ctx context.Context, spot *domain.ParkingSpot) (*domain.ParkingSpot, error)
	UpdateAvailability(ctx context.Context, id int, available bool) (*domain.ParkingSpot, error)
	Delete(ctx context.Context, id int) error
}

type ParkingSessionRepository interface {
	Create(ctx context.Context, session *domain.ParkingSession) (*domain.ParkingSession, error)
	FindByID(ctx context.Context, id int) (*domain.ParkingSession, error)
	FindActiveByPlate(ctx context.Context, plateNumber string) (*domain.ParkingSession, error)
	Find(ctx context.Context, filter domain.ParkingSessionFilterDTO) ([]domain.ParkingSession, error)
	// Update applies only while the stored status is still from.
	Update(ctx context.Context, session *domain.ParkingSession, from domain.ParkingSessionStatus) (*domain.ParkingSession, error)
	// ExpireOverdue flips active sessions whose end time has passed to expired
	// and returns the affected ids.
	ExpireOverdue(ctx context.Context, now time.Time) ([]int, error)
}

type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) (*domain.Report, error)
	FindByID(ctx context.Context, id int) (*domain.Report, error)
	Find(ctx context.Context, filter domain.ReportFilterDTO) ([]domain.Report, error)
	UpdateStatus(ctx context.Context, id int, status domain.ReportStatus) (*domain.Report, error)
	Delete(ctx context.Context, id int) error
}

type ViolationRepository interface {
	FindAll(ctx context.Context) ([]domain.Violation, error)
	FindByID(ctx context.Context, id int) (*domain.Violation, error)
}

type CompoundRepository interface {
	// Create runs the create_compound() RPC.
	Create(ctx context.Context, dto domain.CreateCompoundDTO, issuedBy string) (*domain.Compound, error)
	FindByID(ctx context.Context, id int) (*domain.Compound, error)
	Find(ctx context.Context, filter domain.CompoundFilterDTO) ([]domain.Compound, error)
	// Update applies only while the stored status is still from.
	Update(ctx context.Context, compound *domain.Compound, from domain.CompoundStatus) (*domain.Compound, error)
}

type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error)
	FindByID(ctx context.Context, id int) (*domain.Transaction, error)
	Find(ctx context.Context, filter domain.TransactionFilterDTO) ([]domain.Transaction, error)
}
