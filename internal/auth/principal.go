package auth

import (
	"slices"

	"github.com/google/uuid"
)

// RoleAdmin bypasses every permission check.
const RoleAdmin = "admin"

// Permission strings follow the resource:action convention.
const (
	PermPurchasesManage = "purchases:manage"
	PermInventoryRead   = "inventory:read"
	PermRepairsManage   = "repairs:manage"
	PermCashierOperate  = "cashier:operate"
	PermFinanceManage   = "finance:manage"
)

// Principal is the authenticated user resolved for a single request.
type Principal struct {
	UserID      uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Permissions []string  `json:"permissions"`
}

// Can reports whether the principal may perform the given permission.
func (p *Principal) Can(permission string) bool {
	if p == nil {
		return false
	}
	return p.Role == RoleAdmin || slices.Contains(p.Permissions, permission)
}
