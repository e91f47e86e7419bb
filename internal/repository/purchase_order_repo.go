package repository

import (
	"context"
	"time"

	"redecell/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PurchaseOrderRepository defines the data access contract for purchase orders.
// Every *Tx method must be called with the transaction handle opened by the service.
type PurchaseOrderRepository interface {
	List(ctx context.Context) ([]model.PurchaseOrder, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error)
	ListOverdue(ctx context.Context, today time.Time) ([]model.PurchaseOrder, error)

	CreateTx(tx *gorm.DB, po *model.PurchaseOrder) error
	CreateItemTx(tx *gorm.DB, item *model.PurchaseOrderItem) error
	// UpdateTx writes the scalar columns and reports how many rows matched.
	UpdateTx(tx *gorm.DB, po *model.PurchaseOrder) (int64, error)
	DeleteItemsTx(tx *gorm.DB, orderID uuid.UUID) error

	// Receiving
	FindItemForUpdateTx(tx *gorm.DB, orderID, itemID uuid.UUID) (*model.PurchaseOrderItem, error)
	IncrementReceivedTx(tx *gorm.DB, itemID uuid.UUID, qty int) error
	ListItemsTx(tx *gorm.DB, orderID uuid.UUID) ([]model.PurchaseOrderItem, error)
	UpdateStatusTx(tx *gorm.DB, orderID uuid.UUID, status string) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type purchaseOrderRepo struct{ db *gorm.DB }

func NewPurchaseOrderRepository(db *gorm.DB) PurchaseOrderRepository {
	return &purchaseOrderRepo{db: db}
}

func (r *purchaseOrderRepo) DB() *gorm.DB { return r.db }

func (r *purchaseOrderRepo) List(ctx context.Context) ([]model.PurchaseOrder, error) {
	var orders []model.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Order("order_date DESC").
		Find(&orders).Error
	return orders, err
}

func (r *purchaseOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	var po model.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("line_no, id") }).
		Preload("Items.Variation.Product").
		First(&po, "id = ?", id).Error
	return &po, err
}

func (r *purchaseOrderRepo) ListOverdue(ctx context.Context, today time.Time) ([]model.PurchaseOrder, error) {
	var orders []model.PurchaseOrder
	err := r.db.WithContext(ctx).
		Where("expected_delivery_date < ? AND status <> ?", today.Format("2006-01-02"), model.POStatusReceived).
		Order("expected_delivery_date ASC").
		Find(&orders).Error
	return orders, err
}

func (r *purchaseOrderRepo) CreateTx(tx *gorm.DB, po *model.PurchaseOrder) error {
	return tx.Omit("Items", "Supplier").Create(po).Error
}

func (r *purchaseOrderRepo) CreateItemTx(tx *gorm.DB, item *model.PurchaseOrderItem) error {
	return tx.Omit("Variation").Create(item).Error
}

func (r *purchaseOrderRepo) UpdateTx(tx *gorm.DB, po *model.PurchaseOrder) (int64, error) {
	res := tx.Model(&model.PurchaseOrder{}).Where("id = ?", po.ID).Updates(map[string]interface{}{
		"supplier_id":            po.SupplierID,
		"expected_delivery_date": po.ExpectedDeliveryDate,
		"notes":                  po.Notes,
		"total_amount":           po.TotalAmount,
		"updated_at":             time.Now(),
	})
	return res.RowsAffected, res.Error
}

func (r *purchaseOrderRepo) DeleteItemsTx(tx *gorm.DB, orderID uuid.UUID) error {
	return tx.Where("purchase_order_id = ?", orderID).Delete(&model.PurchaseOrderItem{}).Error
}

func (r *purchaseOrderRepo) FindItemForUpdateTx(tx *gorm.DB, orderID, itemID uuid.UUID) (*model.PurchaseOrderItem, error) {
	var item model.PurchaseOrderItem
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND purchase_order_id = ?", itemID, orderID).
		First(&item).Error
	return &item, err
}

func (r *purchaseOrderRepo) IncrementReceivedTx(tx *gorm.DB, itemID uuid.UUID, qty int) error {
	return tx.Model(&model.PurchaseOrderItem{}).
		Where("id = ?", itemID).
		Update("quantity_received", gorm.Expr("quantity_received + ?", qty)).Error
}

func (r *purchaseOrderRepo) ListItemsTx(tx *gorm.DB, orderID uuid.UUID) ([]model.PurchaseOrderItem, error) {
	var items []model.PurchaseOrderItem
	err := tx.Where("purchase_order_id = ?", orderID).Order("line_no, id").Find(&items).Error
	return items, err
}

func (r *purchaseOrderRepo) UpdateStatusTx(tx *gorm.DB, orderID uuid.UUID, status string) error {
	return tx.Model(&model.PurchaseOrder{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()}).Error
}
