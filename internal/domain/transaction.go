package domain

import "time"

type TransactionType struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Transaction struct {
	ID                int              `json:"id"`
	WalletID          int              `json:"wallet_id"`
	TransactionTypeID int              `json:"transaction_type_id"`
	Amount            float64          `json:"amount"`
	ReferenceID       string           `json:"reference_id"`
	Date              time.Time        `json:"date"`
	Type              *TransactionType `json:"transaction_type,omitempty"`
}

type CreateTransactionDTO struct {
	WalletID          int     `json:"wallet_id" binding:"required,gt=0"`
	TransactionTypeID int     `json:"transaction_type_id" binding:"required,gt=0"`
	Amount            float64 `json:"amount" binding:"required"`
	ReferenceID       string  `json:"reference_id"`
}

type TransactionFilterDTO struct {
	WalletID *int `form:"wallet_id"`
}
