package handler

import (
	"net/http"

	"parking_enforcement/internal/domain"
	"parking_enforcement/internal/service"

	"github.com/gin-gonic/gin"
)

type TransactionHandler struct {
	transactionService *service.TransactionService
}

func NewTransactionHandler(ts *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: ts}
}

// GET /transactions?wallet_id=
func (h *TransactionHandler) FindTransactions(c *gin.Context) {
	var filter domain.TransactionFilterDTO
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	transactions, err := h.transactionService.FindTransactions(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Could not list transactions")
		return
	}
	c.JSON(http.StatusOK, transactions)
}

// GET /transactions/:id
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Transaction")
	if !ok {
		return
	}
	transaction, err := h.transactionService.GetTransaction(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Could not load transaction")
		return
	}
	c.JSON(http.StatusOK, transaction)
}

// POST /transactions
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var dto domain.CreateTransactionDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	transaction, err := h.transactionService.CreateTransaction(c.Request.Context(), dto)
	if err != nil {
		respondError(c, err, "Could not create transaction")
		return
	}
	c.JSON(http.StatusCreated, transaction)
}
