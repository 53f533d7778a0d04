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

type pgReportRepository struct {
	db *sql.DB
}

func NewPgReportRepository(db *sql.DB) repository.ReportRepository {
	return &pgReportRepository{db: db}
}

const reportColumns = `id, user_id, parking_spot_id, issue_type, description, status, COALESCE(image_name, ''), created_at`

func scanReport(row interface{ Scan(...any) error }) (*domain.Report, error) {
	rep := &domain.Report{}
	err := row.Scan(&rep.ID, &rep.UserID, &rep.ParkingSpotID, &rep.IssueType, &rep.Description,
		&rep.Status, &rep.ImageName, &rep.CreatedAt)
	if err != nil {
		return nil, err
	}
	rep.CreatedAt = rep.CreatedAt.In(time.UTC)
	return rep, nil
}

func (r *pgReportRepository) Create(ctx context.Context, report *domain.Report) (*domain.Report, error) {
	query := `INSERT INTO reports (user_id, parking_spot_id, issue_type, description, status, image_name, created_at)
	           VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP)
	           RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query,
		report.UserID, report.ParkingSpotID, report.IssueType, report.Description, report.Status,
		sql.NullString{String: report.ImageName, Valid: report.ImageName != ""},
	).Scan(&report.ID, &report.CreatedAt)
	if err != nil {
		if cErr := constraintError(err, fmt.Sprintf("report on spot %d", report.ParkingSpotID)); cErr != nil {
			return nil, cErr
		}
		return nil, fmt.Errorf("ReportRepository.Create: %w", err)
	}
	report.CreatedAt = report.CreatedAt.In(time.UTC)
	return report, nil
}

func (r *pgReportRepository) FindByID(ctx context.Context, id int) (*domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1`
	rep, err := scanReport(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("ReportRepository.FindByID: %w", err)
	}
	return rep, nil
}

func (r *pgReportRepository) Find(ctx context.Context, filter domain.ReportFilterDTO) ([]domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports`
	var args []any
	if filter.Status != nil {
		query += ` WHERE status = $1`
		args = append(args, *filter.Status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ReportRepository.Find: %w", err)
	}
	defer rows.Close()

	reports := []domain.Report{}
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("ReportRepository.Find (scanning row): %w", err)
		}
		reports = append(reports, *rep)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("ReportRepository.Find (rows error): %w", err)
	}
	return reports, nil
}

func (r *pgReportRepository) UpdateStatus(ctx context.Context, id int, status domain.ReportStatus) (*domain.Report, error) {
	query := `UPDATE reports SET status = $1 WHERE id = $2 RETURNING ` + reportColumns
	rep, err := scanReport(r.db.QueryRowContext(ctx, query, status, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("ReportRepository.UpdateStatus: %w", err)
	}
	return rep, nil
}

func (r *pgReportRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ReportRepository.Delete: %w", err)
	}
	return checkRowsAffected(result, "ReportRepository.Delete")
}
