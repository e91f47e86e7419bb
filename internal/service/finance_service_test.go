package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"redecell/internal/apierror"
	"redecell/internal/dto"
	"redecell/internal/model"
	"redecell/internal/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bankAccountRequest(number string) dto.BankAccountRequest {
	return dto.BankAccountRequest{Name: "Conta movimento", BankName: "Banco do Brasil", AccountNumber: number, Balance: decimal.NewFromInt(1500)}
}

func TestFinance_BankAccountLifecycle(t *testing.T) {
	repo := &stubBankAccountRepo{accounts: map[uuid.UUID]*model.BankAccount{}}
	svc := service.NewFinanceService(repo)
	ctx := context.Background()

	created, err := svc.CreateBankAccount(ctx, bankAccountRequest("12345-6"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.CreatedAt)
	id := uuid.MustParse(created.ID)

	req := bankAccountRequest("12345-6")
	req.Balance = decimal.NewFromInt(900)
	updated, err := svc.UpdateBankAccount(ctx, id, req)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(900).Equal(updated.Balance))

	list, err := svc.ListBankAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.DeleteBankAccount(ctx, id))
	assert.Equal(t, http.StatusNotFound, apierror.StatusOf(svc.DeleteBankAccount(ctx, id)))

	_, err = svc.UpdateBankAccount(ctx, id, req)
	assert.Equal(t, http.StatusNotFound, apierror.StatusOf(err))
}

func TestFinance_DuplicateAccountNumber(t *testing.T) {
	repo := &stubBankAccountRepo{
		accounts: map[uuid.UUID]*model.BankAccount{},
		err:      &pgconn.PgError{Code: "23505", ConstraintName: "bank_accounts_account_number_key"},
	}
	svc := service.NewFinanceService(repo)

	_, err := svc.CreateBankAccount(context.Background(), bankAccountRequest("999"))
	assert.Equal(t, http.StatusConflict, apierror.StatusOf(err))
	assert.Equal(t, "Número de conta já está em uso", err.Error())

	_, err = svc.UpdateBankAccount(context.Background(), uuid.New(), bankAccountRequest("999"))
	assert.Equal(t, http.StatusConflict, apierror.StatusOf(err))
}

func TestFinance_UnexpectedErrorIsInternal(t *testing.T) {
	repo := &stubBankAccountRepo{accounts: map[uuid.UUID]*model.BankAccount{}, err: errors.New("connection reset")}
	_, err := service.NewFinanceService(repo).CreateBankAccount(context.Background(), bankAccountRequest("1"))
	assert.Equal(t, http.StatusInternalServerError, apierror.StatusOf(err))
}
