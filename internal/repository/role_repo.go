package repository

import (
	"context"

	"redecell/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RoleRepository manages the role/permission catalogue. Used by the admin CLI.
type RoleRepository interface {
	FindByName(ctx context.Context, name string) (*model.Role, error)
	// UpsertRole makes the role carry exactly the given permissions, creating
	// any permission that does not exist yet.
	UpsertRole(ctx context.Context, name string, permissions []string) (*model.Role, error)
	UpsertPaymentMethod(ctx context.Context, name string) error
}

type roleRepo struct{ db *gorm.DB }

func NewRoleRepository(db *gorm.DB) RoleRepository { return &roleRepo{db: db} }

func (r *roleRepo) FindByName(ctx context.Context, name string) (*model.Role, error) {
	var role model.Role
	err := r.db.WithContext(ctx).Preload("Permissions").Where("name = ?", name).First(&role).Error
	return &role, err
}

func (r *roleRepo) UpsertRole(ctx context.Context, name string, permissions []string) (*model.Role, error) {
	var role model.Role
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(model.Role{Name: name}).FirstOrCreate(&role).Error; err != nil {
			return err
		}
		perms := make([]model.Permission, 0, len(permissions))
		for _, p := range permissions {
			perm := model.Permission{Name: p}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&perm).Error; err != nil {
				return err
			}
			if err := tx.Where("name = ?", p).First(&perm).Error; err != nil {
				return err
			}
			perms = append(perms, perm)
		}
		return tx.Model(&role).Association("Permissions").Replace(perms)
	})
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepo) UpsertPaymentMethod(ctx context.Context, name string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.PaymentMethod{Name: name}).Error
}
