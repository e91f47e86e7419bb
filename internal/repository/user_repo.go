package repository

import (
	"context"

	"redecell/internal/auth"
	"redecell/internal/model"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// LoadPrincipal resolves an active user with its role name and the
	// aggregated permission names of that role.
	LoadPrincipal(ctx context.Context, id uuid.UUID) (*auth.Principal, error)
	// UpsertByEmail creates the user or updates name, role and password of an existing one.
	UpsertByEmail(ctx context.Context, u *model.User) error
}

type userRepo struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepo{db: db} }

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).
		Preload("Role").
		Where("LOWER(email) = LOWER(?)", email).
		First(&u).Error
	return &u, err
}

type principalRow struct {
	ID          uuid.UUID
	Name        string
	Email       string
	Role        string
	Permissions pq.StringArray
}

const loadPrincipalSQL = `
SELECT u.id, u.name, u.email, r.name AS role,
       COALESCE(array_agg(p.name) FILTER (WHERE p.name IS NOT NULL), '{}')::text[] AS permissions
  FROM users u
  JOIN roles r                  ON r.id = u.role_id
  LEFT JOIN role_permissions rp ON rp.role_id = r.id
  LEFT JOIN permissions p       ON p.id = rp.permission_id
 WHERE u.id = ? AND u.is_active = true
 GROUP BY u.id, r.name`

func (r *userRepo) LoadPrincipal(ctx context.Context, id uuid.UUID) (*auth.Principal, error) {
	var row principalRow
	res := r.db.WithContext(ctx).Raw(loadPrincipalSQL, id).Scan(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &auth.Principal{
		UserID:      row.ID,
		Name:        row.Name,
		Email:       row.Email,
		Role:        row.Role,
		Permissions: []string(row.Permissions),
	}, nil
}

func (r *userRepo) UpsertByEmail(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Omit("Role").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "role_id", "password_hash", "is_active", "updated_at"}),
	}).Create(u).Error
}
