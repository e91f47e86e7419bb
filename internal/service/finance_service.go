package service

import (
	"context"
	"time"

	"redecell/internal/apierror"
	"redecell/internal/dto"
	"redecell/internal/model"
	"redecell/internal/repository"

	"github.com/google/uuid"
)

const (
	msgAccountNumberInUse  = "Número de conta já está em uso"
	msgBankAccountNotFound = "Conta bancária não encontrada"
)

type FinanceService interface {
	ListBankAccounts(ctx context.Context) ([]dto.BankAccountResponse, error)
	CreateBankAccount(ctx context.Context, req dto.BankAccountRequest) (*dto.BankAccountResponse, error)
	UpdateBankAccount(ctx context.Context, id uuid.UUID, req dto.BankAccountRequest) (*dto.BankAccountResponse, error)
	DeleteBankAccount(ctx context.Context, id uuid.UUID) error
}

type financeService struct {
	accounts repository.BankAccountRepository
}

func NewFinanceService(accounts repository.BankAccountRepository) FinanceService {
	return &financeService{accounts: accounts}
}

func (s *financeService) ListBankAccounts(ctx context.Context) ([]dto.BankAccountResponse, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BankAccountResponse, 0, len(accounts))
	for i := range accounts {
		out = append(out, bankAccountToResponse(&accounts[i]))
	}
	return out, nil
}

func (s *financeService) CreateBankAccount(ctx context.Context, req dto.BankAccountRequest) (*dto.BankAccountResponse, error) {
	now := time.Now()
	a := &model.BankAccount{
		ID:            uuid.New(),
		Name:          req.Name,
		BankName:      req.BankName,
		Agency:        req.Agency,
		AccountNumber: req.AccountNumber,
		Balance:       req.Balance,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.accounts.Create(ctx, a); err != nil {
		if repository.IsUniqueViolation(err, "") {
			return nil, apierror.Conflict(msgAccountNumberInUse)
		}
		return nil, err
	}
	resp := bankAccountToResponse(a)
	return &resp, nil
}

func (s *financeService) UpdateBankAccount(ctx context.Context, id uuid.UUID, req dto.BankAccountRequest) (*dto.BankAccountResponse, error) {
	a := &model.BankAccount{
		ID:            id,
		Name:          req.Name,
		BankName:      req.BankName,
		Agency:        req.Agency,
		AccountNumber: req.AccountNumber,
		Balance:       req.Balance,
	}
	rows, err := s.accounts.Update(ctx, a)
	if err != nil {
		if repository.IsUniqueViolation(err, "") {
			return nil, apierror.Conflict(msgAccountNumberInUse)
		}
		return nil, err
	}
	if rows == 0 {
		return nil, apierror.NotFound(msgBankAccountNotFound)
	}
	resp := bankAccountToResponse(a)
	return &resp, nil
}

func (s *financeService) DeleteBankAccount(ctx context.Context, id uuid.UUID) error {
	rows, err := s.accounts.Delete(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return apierror.NotFound(msgBankAccountNotFound)
	}
	return nil
}

func bankAccountToResponse(a *model.BankAccount) dto.BankAccountResponse {
	resp := dto.BankAccountResponse{
		ID:            a.ID.String(),
		Name:          a.Name,
		BankName:      a.BankName,
		Agency:        a.Agency,
		AccountNumber: a.AccountNumber,
		Balance:       a.Balance,
	}
	if !a.CreatedAt.IsZero() {
		resp.CreatedAt = formatTime(a.CreatedAt)
	}
	return resp
}
