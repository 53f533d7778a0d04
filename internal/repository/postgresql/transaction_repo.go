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

type pgTransactionRepository struct {
	db *sql.DB
}

func NewPgTransactionRepository(db *sql.DB) repository.TransactionRepository {
	return &pgTransactionRepository{db: db}
}

const transactionSelect = `SELECT t.id, t.wallet_id, t.transaction_type_id, t.amount, COALESCE(t.reference_id, ''), t.date,
	       tt.id, tt.name
	FROM transactions t
	JOIN transaction_types tt ON tt.id = t.transaction_type_id`

func scanTransaction(row interface{ Scan(...any) error }) (*domain.Transaction, error) {
	t := &domain.Transaction{Type: &domain.TransactionType{}}
	err := row.Scan(&t.ID, &t.WalletID, &t.TransactionTypeID, &t.Amount, &t.ReferenceID, &t.Date,
		&t.Type.ID, &t.Type.Name)
	if err != nil {
		return nil, err
	}
	t.Date = t.Date.In(time.UTC)
	return t, nil
}

func (r *pgTransactionRepository) Create(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	var id int
	query := `INSERT INTO transactions (wallet_id, transaction_type_id, amount, reference_id, date)
	           VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP)
	           RETURNING id`
	err := r.db.QueryRowContext(ctx, query, tx.WalletID, tx.TransactionTypeID, tx.Amount,
		sql.NullString{String: tx.ReferenceID, Valid: tx.ReferenceID != ""}).Scan(&id)
	if err != nil {
		if cErr := constraintError(err, fmt.Sprintf("transaction type %d", tx.TransactionTypeID)); cErr != nil {
			return nil, cErr
		}
		return nil, fmt.Errorf("TransactionRepository.Create: %w", err)
	}
	return r.FindByID(ctx, id)
}

func (r *pgTransactionRepository) FindByID(ctx context.Context, id int) (*domain.Transaction, error) {
	t, err := scanTransaction(r.db.QueryRowContext(ctx, transactionSelect+` WHERE t.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("TransactionRepository.FindByID: %w", err)
	}
	return t, nil
}

func (r *pgTransactionRepository) Find(ctx context.Context, filter domain.TransactionFilterDTO) ([]domain.Transaction, error) {
	query := transactionSelect
	var args []any
	if filter.WalletID != nil {
		query += ` WHERE t.wallet_id = $1`
		args = append(args, *filter.WalletID)
	}
	query += ` ORDER BY t.date DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("TransactionRepository.Find: %w", err)
	}
	defer rows.Close()

	transactions := []domain.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("TransactionRepository.Find (scanning row): %w", err)
		}
		transactions = append(transactions, *t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("TransactionRepository.Find (rows error): %w", err)
	}
	return transactions, nil
}
