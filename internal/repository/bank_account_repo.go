package repository

import (
	"context"
	"time"

	"redecell/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BankAccountRepository interface {
	List(ctx context.Context) ([]model.BankAccount, error)
	Create(ctx context.Context, a *model.BankAccount) error
	Update(ctx context.Context, a *model.BankAccount) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type bankAccountRepo struct{ db *gorm.DB }

func NewBankAccountRepository(db *gorm.DB) BankAccountRepository {
	return &bankAccountRepo{db: db}
}

func (r *bankAccountRepo) List(ctx context.Context) ([]model.BankAccount, error) {
	var accounts []model.BankAccount
	err := r.db.WithContext(ctx).Order("name ASC").Find(&accounts).Error
	return accounts, err
}

func (r *bankAccountRepo) Create(ctx context.Context, a *model.BankAccount) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *bankAccountRepo) Update(ctx context.Context, a *model.BankAccount) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.BankAccount{}).Where("id = ?", a.ID).Updates(map[string]interface{}{
		"name":           a.Name,
		"bank_name":      a.BankName,
		"agency":         a.Agency,
		"account_number": a.AccountNumber,
		"balance":        a.Balance,
		"updated_at":     time.Now(),
	})
	return res.RowsAffected, res.Error
}

func (r *bankAccountRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.BankAccount{})
	return res.RowsAffected, res.Error
}
