package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"parking_enforcement/internal/domain"
	"parking_enforcement/internal/repository"
)

type pgCompoundRepository struct {
	db *sql.DB
}

func NewPgCompoundRepository(db *sql.DB) repository.CompoundRepository {
	return &pgCompoundRepository{db: db}
}

// compoundSelect embeds the violation row so callers can price the compound.
const compoundSelect = `SELECT c.id, c.compound_number, c.violation_id, c.plate_number, c.location, c.status,
	       c.issued_at, c.issued_by, c.payment_date, c.payment_amount,
	       v.id, v.code, v.section, v.description, v.fine_tier1, v.fine_tier2, v.fine_tier3, v.fine_tier4
	FROM compounds c
	JOIN violations v ON v.id = c.violation_id`

func scanCompound(row interface{ Scan(...any) error }) (*domain.Compound, error) {
	c := &domain.Compound{Violation: &domain.Violation{}}
	v := c.Violation
	err := row.Scan(&c.ID, &c.CompoundNumber, &c.ViolationID, &c.PlateNumber, &c.Location, &c.Status,
		&c.IssuedAt, &c.IssuedBy, &c.PaymentDate, &c.PaymentAmount,
		&v.ID, &v.Code, &v.Section, &v.Description, &v.FineTier1, &v.FineTier2, &v.FineTier3, &v.FineTier4)
	if err != nil {
		return nil, err
	}
	c.IssuedAt = c.IssuedAt.In(time.UTC)
	if c.PaymentDate.Valid {
		c.PaymentDate.Time = c.PaymentDate.Time.In(time.UTC)
	}
	return c, nil
}

func (r *pgCompoundRepository) Create(ctx context.Context, dto domain.CreateCompoundDTO, issuedBy string) (*domain.Compound, error) {
	var id int
	query := `SELECT create_compound($1, $2, $3, $4)`
	err := r.db.QueryRowContext(ctx, query,
		dto.ViolationID, strings.ToUpper(strings.TrimSpace(dto.PlateNumber)), dto.Location,
		sql.NullString{String: issuedBy, Valid: issuedBy != ""},
	).Scan(&id)
	if err != nil {
		if cErr := constraintError(err, fmt.Sprintf("violation %d", dto.ViolationID)); cErr != nil {
			return nil, cErr
		}
		return nil, fmt.Errorf("CompoundRepository.Create: %w", err)
	}
	return r.FindByID(ctx, id)
}

func (r *pgCompoundRepository) FindByID(ctx context.Context, id int) (*domain.Compound, error) {
	c, err := scanCompound(r.db.QueryRowContext(ctx, compoundSelect+` WHERE c.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("CompoundRepository.FindByID: %w", err)
	}
	return c, nil
}

func (r *pgCompoundRepository) Find(ctx context.Context, filter domain.CompoundFilterDTO) ([]domain.Compound, error) {
	var conditions []string
	var args []any
	argID := 1

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("c.status = $%d", argID))
		args = append(args, *filter.Status)
		argID++
	}
	if filter.PlateNumber != nil {
		conditions = append(conditions, fmt.Sprintf("c.plate_number ILIKE $%d", argID))
		args = append(args, "%"+*filter.PlateNumber+"%")
		argID++
	}

	query := compoundSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY c.issued_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("CompoundRepository.Find: %w", err)
	}
	defer rows.Close()

	compounds := []domain.Compound{}
	for rows.Next() {
		c, err := scanCompound(rows)
		if err != nil {
			return nil, fmt.Errorf("CompoundRepository.Find (scanning row): %w", err)
		}
		compounds = append(compounds, *c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("CompoundRepository.Find (rows error): %w", err)
	}
	return compounds, nil
}

func (r *pgCompoundRepository) Update(ctx context.Context, compound *domain.Compound, from domain.CompoundStatus) (*domain.Compound, error) {
	query := `UPDATE compounds SET status = $1, payment_date = $2, payment_amount = $3
	           WHERE id = $4 AND status = $5`
	result, err := r.db.ExecContext(ctx, query, compound.Status, compound.PaymentDate, compound.PaymentAmount, compound.ID, from)
	if err != nil {
		return nil, fmt.Errorf("CompoundRepository.Update: %w", err)
	}
	if err := checkStatusMatched(result, "CompoundRepository.Update"); err != nil {
		return nil, err
	}
	return compound, nil
}
