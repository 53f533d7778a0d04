package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"parking_enforcement/internal/domain"
	"parking_enforcement/internal/repository"
)

type pgViolationRepository struct {
	db *sql.DB
}

func NewPgViolationRepository(db *sql.DB) repository.ViolationRepository {
	return &pgViolationRepository{db: db}
}

const violationColumns = `id, code, section, description, fine_tier1, fine_tier2, fine_tier3, fine_tier4`

func scanViolation(row interface{ Scan(...any) error }) (*domain.Violation, error) {
	v := &domain.Violation{}
	if err := row.Scan(&v.ID, &v.Code, &v.Section, &v.Description,
		&v.FineTier1, &v.FineTier2, &v.FineTier3, &v.FineTier4); err != nil {
		return nil, err
	}
	return v, nil
}

func (r *pgViolationRepository) FindAll(ctx context.Context) ([]domain.Violation, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+violationColumns+` FROM violations ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("ViolationRepository.FindAll: %w", err)
	}
	defer rows.Close()

	violations := []domain.Violation{}
	for rows.Next() {
		v, err := scanViolation(rows)
		if err != nil {
			return nil, fmt.Errorf("ViolationRepository.FindAll (scanning row): %w", err)
		}
		violations = append(violations, *v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("ViolationRepository.FindAll (rows error): %w", err)
	}
	return violations, nil
}

func (r *pgViolationRepository) FindByID(ctx context.Context, id int) (*domain.Violation, error) {
	v, err := scanViolation(r.db.QueryRowContext(ctx, `SELECT `+violationColumns+` FROM violations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("ViolationRepository.FindByID: %w", err)
	}
	return v, nil
}
