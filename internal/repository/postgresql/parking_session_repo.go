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

type pgParkingSessionRepository struct {
	db *sql.DB
}

func NewPgParkingSessionRepository(db *sql.DB) repository.ParkingSessionRepository {
	return &pgParkingSessionRepository{db: db}
}

const sessionColumns = `id, plate_number, parking_spot_id, start_time, end_time, status, cost, duration_minutes, created_at`

func scanSession(row interface{ Scan(...any) error }) (*domain.ParkingSession, error) {
	s := &domain.ParkingSession{}
	err := row.Scan(&s.ID, &s.PlateNumber, &s.ParkingSpotID, &s.StartTime, &s.EndTime,
		&s.Status, &s.Cost, &s.DurationMinutes, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	s.StartTime = s.StartTime.In(time.UTC)
	if s.EndTime.Valid {
		s.EndTime.Time = s.EndTime.Time.In(time.UTC)
	}
	s.CreatedAt = s.CreatedAt.In(time.UTC)
	return s, nil
}

func (r *pgParkingSessionRepository) Create(ctx context.Context, session *domain.ParkingSession) (*domain.ParkingSession, error) {
	query := `INSERT INTO parking_sessions
	           (plate_number, parking_spot_id, start_time, end_time, status, cost, duration_minutes, created_at)
	           VALUES ($1, $2, $3, $4, $5, $6, $7, CURRENT_TIMESTAMP)
	           RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query,
		session.PlateNumber, session.ParkingSpotID, session.StartTime, session.EndTime,
		session.Status, session.Cost, session.DurationMinutes,
	).Scan(&session.ID, &session.CreatedAt)
	if err != nil {
		if cErr := constraintError(err, fmt.Sprintf("session for '%s'", session.PlateNumber)); cErr != nil {
			return nil, cErr
		}
		return nil, fmt.Errorf("ParkingSessionRepository.Create: %w", err)
	}
	session.CreatedAt = session.CreatedAt.In(time.UTC)
	return session, nil
}

func (r *pgParkingSessionRepository) FindByID(ctx context.Context, id int) (*domain.ParkingSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM parking_sessions WHERE id = $1`
	s, err := scanSession(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("ParkingSessionRepository.FindByID: %w", err)
	}
	return s, nil
}

func (r *pgParkingSessionRepository) FindActiveByPlate(ctx context.Context, plateNumber string) (*domain.ParkingSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM parking_sessions
	           WHERE upper(replace(plate_number, ' ', '')) = upper(replace($1, ' ', '')) AND status = $2
	           ORDER BY start_time DESC LIMIT 1`
	s, err := scanSession(r.db.QueryRowContext(ctx, query, plateNumber, domain.SessionActive))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNoActiveSession
		}
		return nil, fmt.Errorf("ParkingSessionRepository.FindActiveByPlate: %w", err)
	}
	return s, nil
}

func (r *pgParkingSessionRepository) Find(ctx context.Context, filter domain.ParkingSessionFilterDTO) ([]domain.ParkingSession, error) {
	baseQuery := `SELECT ` + sessionColumns + ` FROM parking_sessions`

	var conditions []string
	var args []any
	argID := 1

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argID))
		args = append(args, *filter.Status)
		argID++
	}
	if filter.PlateNumber != nil {
		conditions = append(conditions, fmt.Sprintf("plate_number ILIKE $%d", argID))
		args = append(args, "%"+*filter.PlateNumber+"%")
		argID++
	}
	if filter.StreetID != nil {
		conditions = append(conditions, fmt.Sprintf("parking_spot_id IN (SELECT id FROM parking_spots WHERE street_id = $%d)", argID))
		args = append(args, *filter.StreetID)
		argID++
	}

	query := baseQuery
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY start_time DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ParkingSessionRepository.Find: %w", err)
	}
	defer rows.Close()

	sessions := []domain.ParkingSession{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("ParkingSessionRepository.Find (scanning row): %w", err)
		}
		sessions = append(sessions, *s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("ParkingSessionRepository.Find (rows error): %w", err)
	}
	return sessions, nil
}

func (r *pgParkingSessionRepository) Update(ctx context.Context, session *domain.ParkingSession, from domain.ParkingSessionStatus) (*domain.ParkingSession, error) {
	query := `UPDATE parking_sessions
	           SET plate_number = $1, parking_spot_id = $2, start_time = $3, end_time = $4,
	               status = $5, cost = $6, duration_minutes = $7
	           WHERE id = $8 AND status = $9`
	result, err := r.db.ExecContext(ctx, query,
		session.PlateNumber, session.ParkingSpotID, session.StartTime, session.EndTime,
		session.Status, session.Cost, session.DurationMinutes, session.ID, from,
	)
	if err != nil {
		return nil, fmt.Errorf("ParkingSessionRepository.Update: %w", err)
	}
	if err := checkStatusMatched(result, "ParkingSessionRepository.Update"); err != nil {
		return nil, err
	}
	return session, nil
}

func (r *pgParkingSessionRepository) ExpireOverdue(ctx context.Context, now time.Time) ([]int, error) {
	query := `UPDATE parking_sessions SET status = $1
	           WHERE status = $2 AND end_time IS NOT NULL AND end_time <= $3
	           RETURNING id`
	rows, err := r.db.QueryContext(ctx, query, domain.SessionExpired, domain.SessionActive, now)
	if err != nil {
		return nil, fmt.Errorf("ParkingSessionRepository.ExpireOverdue: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("ParkingSessionRepository.ExpireOverdue (scanning row): %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("ParkingSessionRepository.ExpireOverdue (rows error): %w", err)
	}
	return ids, nil
}
