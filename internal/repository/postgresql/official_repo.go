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

type pgOfficialRepository struct {
	db *sql.DB
}

func NewPgOfficialRepository(db *sql.DB) repository.OfficialRepository {
	return &pgOfficialRepository{db: db}
}

const officialColumns = `id, user_id, name, official_id, type, created_at`

func scanOfficial(row interface{ Scan(...any) error }) (*domain.Official, error) {
	o := &domain.Official{}
	if err := row.Scan(&o.ID, &o.UserID, &o.Name, &o.OfficialID, &o.Type, &o.CreatedAt); err != nil {
		return nil, err
	}
	o.CreatedAt = o.CreatedAt.In(time.UTC)
	return o, nil
}

func (r *pgOfficialRepository) CreateWithUser(ctx context.Context, user *domain.User, official *domain.Official) (*domain.Official, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("OfficialRepository.CreateWithUser (begin): %w", err)
	}
	defer tx.Rollback()

	if _, err := insertUser(ctx, tx, user); err != nil {
		return nil, err
	}

	official.UserID = user.ID
	query := `INSERT INTO officials (user_id, name, official_id, type, created_at)
	           VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP)
	           RETURNING id, created_at`
	err = tx.QueryRowContext(ctx, query, official.UserID, official.Name, official.OfficialID, official.Type).
		Scan(&official.ID, &official.CreatedAt)
	if err != nil {
		if cErr := constraintError(err, fmt.Sprintf("official id '%s'", official.OfficialID)); cErr != nil {
			return nil, cErr
		}
		return nil, fmt.Errorf("OfficialRepository.CreateWithUser: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("OfficialRepository.CreateWithUser (commit): %w", err)
	}
	official.CreatedAt = official.CreatedAt.In(time.UTC)
	return official, nil
}

func (r *pgOfficialRepository) FindByID(ctx context.Context, id int) (*domain.Official, error) {
	query := `SELECT ` + officialColumns + ` FROM officials WHERE id = $1`
	o, err := scanOfficial(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("OfficialRepository.FindByID: %w", err)
	}
	return o, nil
}

func (r *pgOfficialRepository) FindByUserID(ctx context.Context, userID string) (*domain.Official, error) {
	query := `SELECT ` + officialColumns + ` FROM officials WHERE user_id = $1`
	o, err := scanOfficial(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("OfficialRepository.FindByUserID: %w", err)
	}
	return o, nil
}

func (r *pgOfficialRepository) FindAll(ctx context.Context) ([]domain.Official, error) {
	query := `SELECT ` + officialColumns + ` FROM officials ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("OfficialRepository.FindAll: %w", err)
	}
	defer rows.Close()

	officials := []domain.Official{}
	for rows.Next() {
		o, err := scanOfficial(rows)
		if err != nil {
			return nil, fmt.Errorf("OfficialRepository.FindAll (scanning row): %w", err)
		}
		officials = append(officials, *o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("OfficialRepository.FindAll (rows error): %w", err)
	}
	return officials, nil
}

func (r *pgOfficialRepository) Update(ctx context.Context, official *domain.Official) (*domain.Official, error) {
	query := `UPDATE officials SET name = $1, official_id = $2, type = $3 WHERE id = $4
	           RETURNING ` + officialColumns
	o, err := scanOfficial(r.db.QueryRowContext(ctx, query, official.Name, official.OfficialID, official.Type, official.ID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		if cErr := constraintError(err, fmt.Sprintf("official id '%s'", official.OfficialID)); cErr != nil {
			return nil, cErr
		}
		return nil, fmt.Errorf("OfficialRepository.Update: %w", err)
	}
	return o, nil
}

func (r *pgOfficialRepository) Delete(ctx context.Context, id int) error {
	// officials.user_id is ON DELETE CASCADE, so dropping the user drops the official.
	query := `DELETE FROM users WHERE id = (SELECT user_id FROM officials WHERE id = $1)`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("OfficialRepository.Delete: %w", err)
	}
	return checkRowsAffected(result, "OfficialRepository.Delete")
}
