package service

import (
	"context"
	"testing"

	"parking_enforcement/internal/domain"
	"parking_enforcement/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfficialService_Update(t *testing.T) {
	users := &fakeUserRepo{users: map[string]*domain.User{}}
	repo := &fakeOfficialRepo{users: users, officials: map[int]*domain.Official{}}
	created, err := repo.CreateWithUser(context.Background(),
		&domain.User{Email: "a@dbkl.gov.my"},
		&domain.Official{Name: "Aminah", OfficialID: "DBKL-1", Type: domain.OfficialEnforcement})
	require.NoError(t, err)
	svc := NewOfficialService(repo)

	updated, err := svc.UpdateOfficial(context.Background(), created.ID, domain.UpdateOfficialDTO{
		Name: " Aminah Yusof ", OfficialID: "DBKL-1", Type: "city",
	})
	require.NoError(t, err)
	assert.Equal(t, "Aminah Yusof", updated.Name)
	assert.Equal(t, domain.OfficialCity, updated.Type)

	_, err = svc.UpdateOfficial(context.Background(), created.ID, domain.UpdateOfficialDTO{Name: "x", OfficialID: "y", Type: "mayor"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateOfficial(context.Background(), 99, domain.UpdateOfficialDTO{Name: "x", OfficialID: "y", Type: "city"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

type fakeTransactionRepo struct {
	created []domain.Transaction
}

func (r *fakeTransactionRepo) Create(_ context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	tx.ID = len(r.created) + 1
	r.created = append(r.created, *tx)
	return tx, nil
}

func (r *fakeTransactionRepo) FindByID(context.Context, int) (*domain.Transaction, error) {
	return nil, repository.ErrNotFound
}

func (r *fakeTransactionRepo) Find(context.Context, domain.TransactionFilterDTO) ([]domain.Transaction, error) {
	return r.created, nil
}

func TestTransactionService_Create(t *testing.T) {
	repo := &fakeTransactionRepo{}
	svc := NewTransactionService(repo)

	tx, err := svc.CreateTransaction(context.Background(), domain.CreateTransactionDTO{
		WalletID: 1, TransactionTypeID: 2, Amount: -3.5, ReferenceID: " CMP-1 ",
	})
	require.NoError(t, err)
	assert.Equal(t, "CMP-1", tx.ReferenceID)

	_, err = svc.CreateTransaction(context.Background(), domain.CreateTransactionDTO{WalletID: 1, TransactionTypeID: 2})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Len(t, repo.created, 1)
}
