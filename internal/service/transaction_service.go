package service

import (
	"context"
	"fmt"
	"strings"

	"parking_enforcement/internal/domain"
	"parking_enforcement/internal/repository"
)

type TransactionService struct {
	transactionRepo repository.TransactionRepository
}

func NewTransactionService(transactionRepo repository.TransactionRepository) *TransactionService {
	return &TransactionService{transactionRepo: transactionRepo}
}

func (s *TransactionService) FindTransactions(ctx context.Context, filter domain.TransactionFilterDTO) ([]domain.Transaction, error) {
	return s.transactionRepo.Find(ctx, filter)
}

func (s *TransactionService) GetTransaction(ctx context.Context, id int) (*domain.Transaction, error) {
	return s.transactionRepo.FindByID(ctx, id)
}

func (s *TransactionService) CreateTransaction(ctx context.Context, dto domain.CreateTransactionDTO) (*domain.Transaction, error) {
	if dto.Amount == 0 {
		return nil, fmt.Errorf("%w: amount must not be zero", ErrValidation)
	}
	tx := &domain.Transaction{
		WalletID:          dto.WalletID,
		TransactionTypeID: dto.TransactionTypeID,
		Amount:            dto.Amount,
		ReferenceID:       strings.TrimSpace(dto.ReferenceID),
	}
	return s.transactionRepo.Create(ctx, tx)
}
