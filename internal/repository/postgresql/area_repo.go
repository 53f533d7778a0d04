package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"parking_enforcement/internal/domain"
	"parking_enforcement/internal/repository"
)

type pgAreaRepository struct {
	db *sql.DB
}

func NewPgAreaRepository(db *sql.DB) repository.AreaRepository {
	return &pgAreaRepository{db: db}
}

func (r *pgAreaRepository) Create(ctx context.Context, area *domain.Area) (*domain.Area, error) {
	query := `INSERT INTO areas (name, latitude, longitude) VALUES ($1, $2, $3) RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, area.Name, area.Latitude, area.Longitude).Scan(&area.ID, &area.CreatedAt)
	if err != nil {
		if cErr := constraintError(err, fmt.Sprintf("area '%s'", area.Name)); cErr != nil {
			return nil, cErr
		}
		return nil, fmt.Errorf("AreaRepository.Create: %w", err)
	}
	area.CreatedAt = area.CreatedAt.In(time.UTC)
	return area, nil
}

func (r *pgAreaRepository) FindByID(ctx context.Context, id int) (*domain.Area, error) {
	area := &domain.Area{}
	query := `SELECT id, name, latitude, longitude, created_at FROM areas WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&area.ID, &area.Name, &area.Latitude, &area.Longitude, &area.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("AreaRepository.FindByID: %w", err)
	}
	area.CreatedAt = area.CreatedAt.In(time.UTC)
	return area, nil
}

func (r *pgAreaRepository) ParkingInfo(ctx context.Context) ([]domain.AreaSummary, error) {
	query := `SELECT id, name, latitude, longitude, created_at,
	                 total_parking, available_parking, green_count, yellow_count, red_count, disable_count
	           FROM get_area_parking_info()`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("AreaRepository.ParkingInfo: %w", err)
	}
	defer rows.Close()

	areas := []domain.AreaSummary{}
	for rows.Next() {
		var a domain.AreaSummary
		if err := rows.Scan(&a.ID, &a.Name, &a.Latitude, &a.Longitude, &a.CreatedAt,
			&a.TotalParking, &a.AvailableParking, &a.GreenCount, &a.YellowCount, &a.RedCount, &a.DisableCount); err != nil {
			return nil, fmt.Errorf("AreaRepository.ParkingInfo (scanning row): %w", err)
		}
		a.CreatedAt = a.CreatedAt.In(time.UTC)
		areas = append(areas, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("AreaRepository.ParkingInfo (rows error): %w", err)
	}
	return areas, nil
}

func (r *pgAreaRepository) Update(ctx context.Context, area *domain.Area) (*domain.Area, error) {
	query := `UPDATE areas SET name = $1, latitude = $2, longitude = $3 WHERE id = $4 RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query, area.Name, area.Latitude, area.Longitude, area.ID).Scan(&area.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		if cErr := constraintError(err, fmt.Sprintf("area '%s'", area.Name)); cErr != nil {
			return nil, cErr
		}
		return nil, fmt.Errorf("AreaRepository.Update: %w", err)
	}
	area.CreatedAt = area.CreatedAt.In(time.UTC)
	return area, nil
}

func (r *pgAreaRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM areas WHERE id = $1`, id)
	if err != nil {
		if cErr := constraintError(err, fmt.Sprintf("area %d", id)); cErr != nil {
			return cErr
		}
		return fmt.Errorf("AreaRepository.Delete: %w", err)
	}
	return checkRowsAffected(result, "AreaRepository.Delete")
}
