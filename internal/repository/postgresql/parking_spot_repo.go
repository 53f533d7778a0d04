package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"parking_enforcement/internal/domain"
	"parking_enforcement/internal/repository"

	"github.com/lib/pq"
)

type pgParkingSpotRepository struct {
	db *sql.DB
}

func NewPgParkingSpotRepository(db *sql.DB) repository.ParkingSpotRepository {
	return &pgParkingSpotRepository{db: db}
}

// spotDetailSelect joins each spot with its street and the street's area.
const spotDetailSelect = `SELECT ps.id, ps.street_id, ps.latitude, ps.longitude, ps.type, ps.is_available, ps.created_at,
	       s.name, a.id, a.name
	FROM parking_spots ps
	JOIN streets s ON s.id = ps.street_id
	JOIN areas a ON a.id = s.area_id`

func scanSpotDetail(row interface{ Scan(...any) error }) (*domain.ParkingSpotDetail, error) {
	d := &domain.ParkingSpotDetail{}
	err := row.Scan(&d.ID, &d.StreetID, &d.Latitude, &d.Longitude, &d.Type, &d.IsAvailable, &d.CreatedAt,
		&d.StreetName, &d.AreaID, &d.AreaName)
	if err != nil {
		return nil, err
	}
	d.CreatedAt = d.CreatedAt.In(time.UTC)
	d.Color = d.Type.Color()
	return d, nil
}

func (r *pgParkingSpotRepository) Create(ctx context.Context, spot *domain.ParkingSpot) (*domain.ParkingSpot, error) {
	query := `INSERT INTO parking_spots (street_id, latitude, longitude, type, is_available)
	           VALUES ($1, $2, $3, $4, $5)
	           RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, spot.StreetID, spot.Latitude, spot.Longitude, spot.Type, spot.IsAvailable).
		Scan(&spot.ID, &spot.CreatedAt)
	if err != nil {
		if cErr := constraintError(err, fmt.Sprintf("spot on street %d", spot.StreetID)); cErr != nil {
			return nil, cErr
		}
		return nil, fmt.Errorf("ParkingSpotRepository.Create: %w", err)
	}
	spot.CreatedAt = spot.CreatedAt.In(time.UTC)
	return spot, nil
}

func (r *pgParkingSpotRepository) FindByID(ctx context.Context, id int) (*domain.ParkingSpotDetail, error) {
	d, err := scanSpotDetail(r.db.QueryRowContext(ctx, spotDetailSelect+` WHERE ps.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("ParkingSpotRepository.FindByID: %w", err)
	}
	return d, nil
}

func (r *pgParkingSpotRepository) FindByIDs(ctx context.Context, ids []int) (map[int]domain.ParkingSpotDetail, error) {
	spots := make(map[int]domain.ParkingSpotDetail, len(ids))
	if len(ids) == 0 {
		return spots, nil
	}
	rows, err := r.db.QueryContext(ctx, spotDetailSelect+` WHERE ps.id = ANY($1::int[])`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("ParkingSpotRepository.FindByIDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		d, err := scanSpotDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("ParkingSpotRepository.FindByIDs (scanning row): %w", err)
		}
		spots[d.ID] = *d
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("ParkingSpotRepository.FindByIDs (rows error): %w", err)
	}
	return spots, nil
}

func (r *pgParkingSpotRepository) FindByStreetID(ctx context.Context, streetID int) ([]domain.ParkingSpotDetail, error) {
	rows, err := r.db.QueryContext(ctx, spotDetailSelect+` WHERE ps.street_id = $1 ORDER BY ps.id`, streetID)
	if err != nil {
		return nil, fmt.Errorf("ParkingSpotRepository.FindByStreetID: %w", err)
	}
	defer rows.Close()

	spots := []domain.ParkingSpotDetail{}
	for rows.Next() {
		d, err := scanSpotDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("ParkingSpotRepository.FindByStreetID (scanning row): %w", err)
		}
		spots = append(spots, *d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("ParkingSpotRepository.FindByStreetID (rows error): %w", err)
	}
	return spots, nil
}

func (r *pgParkingSpotRepository) Update(ctx context.Context, spot *domain.ParkingSpot) (*domain.ParkingSpot, error) {
	query := `UPDATE parking_spots
	           SET street_id = $1, latitude = $2, longitude = $3, type = $4, is_available = $5
	           WHERE id = $6
	           RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query, spot.StreetID, spot.Latitude, spot.Longitude, spot.Type, spot.IsAvailable, spot.ID).
		Scan(&spot.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		if cErr := constraintError(err, fmt.Sprintf("spot %d", spot.ID)); cErr != nil {
			return nil, cErr
		}
		return nil, fmt.Errorf("ParkingSpotRepository.Update: %w", err)
	}
	spot.CreatedAt = spot.CreatedAt.In(time.UTC)
	return spot, nil
}

func (r *pgParkingSpotRepository) UpdateAvailability(ctx context.Context, id int, available bool) (*domain.ParkingSpot, error) {
	spot := &domain.ParkingSpot{}
	query := `UPDATE parking_spots SET is_available = $1 WHERE id = $2
	           RETURNING id, street_id, latitude, longitude, type, is_available, created_at`
	err := r.db.QueryRowContext(ctx, query, available, id).
		Scan(&spot.ID, &spot.StreetID, &spot.Latitude, &spot.Longitude, &spot.Type, &spot.IsAvailable, &spot.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("ParkingSpotRepository.UpdateAvailability: %w", err)
	}
	spot.CreatedAt = spot.CreatedAt.In(time.UTC)
	return spot, nil
}

func (r *pgParkingSpotRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM parking_spots WHERE id = $1`, id)
	if err != nil {
		if cErr := constraintError(err, fmt.Sprintf("spot %d", id)); cErr != nil {
			return cErr
		}
		return fmt.Errorf("ParkingSpotRepository.Delete: %w", err)
	}
	return checkRowsAffected(result, "ParkingSpotRepository.Delete")
}
