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

type pgStreetRepository struct {
	db *sql.DB
}

func NewPgStreetRepository(db *sql.DB) repository.StreetRepository {
	return &pgStreetRepository{db: db}
}

func (r *pgStreetRepository) Create(ctx context.Context, street *domain.Street) (*domain.Street, error) {
	query := `INSERT INTO streets (name, area_id) VALUES ($1, $2) RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, street.Name, street.AreaID).Scan(&street.ID, &street.CreatedAt)
	if err != nil {
		if cErr := constraintError(err, fmt.Sprintf("street '%s' in area %d", street.Name, street.AreaID)); cErr != nil {
			return nil, cErr
		}
		return nil, fmt.Errorf("StreetRepository.Create: %w", err)
	}
	street.CreatedAt = street.CreatedAt.In(time.UTC)
	return street, nil
}

func (r *pgStreetRepository) FindByID(ctx context.Context, id int) (*domain.Street, error) {
	street := &domain.Street{}
	query := `SELECT id, name, area_id, created_at FROM streets WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&street.ID, &street.Name, &street.AreaID, &street.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("StreetRepository.FindByID: %w", err)
	}
	street.CreatedAt = street.CreatedAt.In(time.UTC)
	return street, nil
}

func (r *pgStreetRepository) FindByAreaID(ctx context.Context, areaID int) ([]domain.Street, error) {
	query := `SELECT id, name, area_id, created_at FROM streets WHERE area_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, areaID)
	if err != nil {
		return nil, fmt.Errorf("StreetRepository.FindByAreaID: %w", err)
	}
	defer rows.Close()

	streets := []domain.Street{}
	for rows.Next() {
		var s domain.Street
		if err := rows.Scan(&s.ID, &s.Name, &s.AreaID, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("StreetRepository.FindByAreaID (scanning row): %w", err)
		}
		s.CreatedAt = s.CreatedAt.In(time.UTC)
		streets = append(streets, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("StreetRepository.FindByAreaID (rows error): %w", err)
	}
	return streets, nil
}

func (r *pgStreetRepository) CountsByType(ctx context.Context, streetID int) (*domain.StreetParkingCount, error) {
	c := &domain.StreetParkingCount{StreetID: streetID}
	query := `SELECT green_count, yellow_count, red_count, disable_count, available_count
	           FROM get_available_parking_count_by_type_street($1)`
	err := r.db.QueryRowContext(ctx, query, streetID).
		Scan(&c.GreenCount, &c.YellowCount, &c.RedCount, &c.DisableCount, &c.AvailableCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("StreetRepository.CountsByType: %w", err)
	}
	return c, nil
}

func (r *pgStreetRepository) Update(ctx context.Context, street *domain.Street) (*domain.Street, error) {
	query := `UPDATE streets SET name = $1, area_id = $2 WHERE id = $3 RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query, street.Name, street.AreaID, street.ID).Scan(&street.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		if cErr := constraintError(err, fmt.Sprintf("street '%s'", street.Name)); cErr != nil {
			return nil, cErr
		}
		return nil, fmt.Errorf("StreetRepository.Update: %w", err)
	}
	street.CreatedAt = street.CreatedAt.In(time.UTC)
	return street, nil
}

func (r *pgStreetRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM streets WHERE id = $1`, id)
	if err != nil {
		if cErr := constraintError(err, fmt.Sprintf("street %d", id)); cErr != nil {
			return cErr
		}
		return fmt.Errorf("StreetRepository.Delete: %w", err)
	}
	return checkRowsAffected(result, "StreetRepository.Delete")
}
