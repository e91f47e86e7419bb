package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"redecell/internal/apierror"
	"redecell/internal/dto"
	"redecell/internal/model"
	"redecell/internal/repository"
	"redecell/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"gorm.io/gorm"
)

const (
	msgPurchaseOrderNotFound = "Pedido de compra não encontrado"
	msgSupplierAndItems      = "Fornecedor e itens são obrigatórios"
)

// JobEnqueuer is implemented by *worker.Dispatcher.
type JobEnqueuer interface {
	EnqueueEmail(ctx context.Context, payload worker.EmailJobPayload) error
	EnqueueWebhook(ctx context.Context, event worker.WebhookEvent) error
}

// PurchaseOrderRenderer is implemented by *infra.PurchaseOrderPDF.
type PurchaseOrderRenderer interface {
	Render(po *model.PurchaseOrder) ([]byte, error)
	Save(po *model.PurchaseOrder) (string, error)
}

type PurchaseOrderService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error)
	List(ctx context.Context) ([]dto.PurchaseOrderResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.PurchaseOrderResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error)
	ReceiveItems(ctx context.Context, userID, id uuid.UUID, req dto.ReceiveItemsRequest) (*dto.ReceiveItemsResponse, error)
	// Send renders the order PDF and queues it by e-mail to the supplier.
	Send(ctx context.Context, id uuid.UUID) error
	RenderPDF(ctx context.Context, id uuid.UUID) ([]byte, error)
}

type purchaseOrderService struct {
	repo          repository.PurchaseOrderRepository
	variations    repository.VariationRepository
	history       repository.StockHistoryRepository
	pdf           PurchaseOrderRenderer
	jobs          JobEnqueuer
	unitsReceived metric.Int64Counter
}

func NewPurchaseOrderService(
	repo repository.PurchaseOrderRepository,
	variations repository.VariationRepository,
	history repository.StockHistoryRepository,
	pdf PurchaseOrderRenderer,
	jobs JobEnqueuer,
) PurchaseOrderService {
	counter, err := otel.Meter("redecell").Int64Counter("purchase_orders.units_received",
		metric.WithDescription("Units received into stock from purchase orders"))
	if err != nil {
		log.Warn().Err(err).Msg("purchase_orders: counter unavailable")
	}
	return &purchaseOrderService{
		repo:          repo,
		variations:    variations,
		history:       history,
		pdf:           pdf,
		jobs:          jobs,
		unitsReceived: counter,
	}
}

// ── Create ────────────────────────────────────────────────────────────────────
// Order row first, then one row per item, all in one transaction.

func (s *purchaseOrderService) Create(ctx context.Context, userID uuid.UUID, req dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if req.SupplierID == "" || len(req.Items) == 0 {
		return nil, apierror.BadRequest(msgSupplierAndItems)
	}
	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return nil, apierror.BadRequest("supplier_id inválido")
	}
	expected, err := parseDate(req.ExpectedDeliveryDate)
	if err != nil {
		return nil, err
	}
	items, total, err := buildOrderItems(req.Items)
	if err != nil {
		return nil, err
	}

	po := &model.PurchaseOrder{
		ID:                   uuid.New(),
		SupplierID:           supplierID,
		UserID:               userID,
		OrderDate:            time.Now(),
		ExpectedDeliveryDate: expected,
		Status:               model.POStatusPending,
		TotalAmount:          total,
		Notes:                req.Notes,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, po); err != nil {
			return err
		}
		for i := range items {
			items[i].PurchaseOrderID = po.ID
			if err := s.repo.CreateItemTx(tx, &items[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		if repository.IsForeignKeyViolation(txErr) {
			return nil, apierror.BadRequest("Fornecedor ou variação de produto inexistente")
		}
		return nil, fmt.Errorf("create purchase order: %w", txErr)
	}

	po.Items = items
	resp := purchaseOrderToResponse(po)
	return &resp, nil
}

// ── List / GetByID ────────────────────────────────────────────────────────────

func (s *purchaseOrderService) List(ctx context.Context) ([]dto.PurchaseOrderResponse, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PurchaseOrderResponse, 0, len(orders))
	for i := range orders {
		r := purchaseOrderToResponse(&orders[i])
		r.Items = nil
		out = append(out, r)
	}
	return out, nil
}

func (s *purchaseOrderService) GetByID(ctx context.Context, id uuid.UUID) (*dto.PurchaseOrderResponse, error) {
	po, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := purchaseOrderToResponse(po)
	return &resp, nil
}

func (s *purchaseOrderService) find(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	po, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.NotFound(msgPurchaseOrderNotFound)
	}
	if err != nil {
		return nil, err
	}
	return po, nil
}

// ── Update ────────────────────────────────────────────────────────────────────
// Scalar update first; zero matched rows means the order does not exist and
// the transaction rolls back before the item set is touched.

func (s *purchaseOrderService) Update(ctx context.Context, id uuid.UUID, req dto.UpdatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return nil, apierror.BadRequest("supplier_id inválido")
	}
	expected, err := parseDate(req.ExpectedDeliveryDate)
	if err != nil {
		return nil, err
	}
	items, total, err := buildOrderItems(req.Items)
	if err != nil {
		return nil, err
	}

	po := &model.PurchaseOrder{
		ID:                   id,
		SupplierID:           supplierID,
		ExpectedDeliveryDate: expected,
		Notes:                req.Notes,
		TotalAmount:          total,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		rows, err := s.repo.UpdateTx(tx, po)
		if err != nil {
			return err
		}
		if rows == 0 {
			return apierror.NotFound(msgPurchaseOrderNotFound)
		}
		if err := s.repo.DeleteItemsTx(tx, id); err != nil {
			return err
		}
		for i := range items {
			items[i].PurchaseOrderID = id
			if err := s.repo.CreateItemTx(tx, &items[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		if repository.IsForeignKeyViolation(txErr) {
			return nil, apierror.BadRequest("Fornecedor ou variação de produto inexistente")
		}
		return nil, txErr
	}

	return s.GetByID(ctx, id)
}

// ── ReceiveItems ──────────────────────────────────────────────────────────────
// For each line: lock the item, bump quantity_received, bump variation stock and
// append one stock_history row. Then recompute the order status from the
// reloaded items. Any failure rolls the whole receipt back.

func (s *purchaseOrderService) ReceiveItems(ctx context.Context, userID, id uuid.UUID, req dto.ReceiveItemsRequest) (*dto.ReceiveItemsResponse, error) {
	if len(req.ItemsToReceive) == 0 {
		return nil, apierror.BadRequest("Nenhum item informado para recebimento")
	}

	type line struct {
		itemID uuid.UUID
		qty    int
	}
	lines := make([]line, 0, len(req.ItemsToReceive))
	for _, in := range req.ItemsToReceive {
		itemID, err := uuid.Parse(in.ItemID)
		if err != nil {
			return nil, apierror.BadRequest("item_id inválido")
		}
		if in.Quantity <= 0 {
			return nil, apierror.BadRequest("A quantidade recebida deve ser maior que zero")
		}
		lines = append(lines, line{itemID: itemID, qty: in.Quantity})
	}

	result := &dto.ReceiveItemsResponse{PurchaseOrderID: id.String()}
	unitsReceived := 0
	reason := fmt.Sprintf("Recebimento do pedido de compra %s", id)

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, l := range lines {
			item, err := s.repo.FindItemForUpdateTx(tx, id, l.itemID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NotFound(fmt.Sprintf("Item %s não pertence ao pedido", l.itemID))
			}
			if err != nil {
				return err
			}
			if item.QuantityReceived+l.qty > item.Quantity {
				return apierror.BadRequest(fmt.Sprintf(
					"Quantidade recebida excede o pedido para o item %s (pedido: %d, já recebido: %d)",
					item.ID, item.Quantity, item.QuantityReceived))
			}

			if err := s.repo.IncrementReceivedTx(tx, item.ID, l.qty); err != nil {
				return err
			}
			if err := s.variations.IncrementStockTx(tx, item.VariationID, l.qty); err != nil {
				return fmt.Errorf("stock increment for variation %s: %w", item.VariationID, err)
			}
			ref := id
			entry := &model.StockHistory{
				VariationID:    item.VariationID,
				UserID:         userID,
				ChangeType:     model.StockChangePurchase,
				QuantityChange: l.qty,
				Reason:         reason,
				ReferenceID:    &ref,
			}
			if err := s.history.CreateTx(tx, entry); err != nil {
				return err
			}
			unitsReceived += l.qty
		}

		items, err := s.repo.ListItemsTx(tx, id)
		if err != nil {
			return err
		}
		for _, it := range items {
			result.TotalOrdered += it.Quantity
			result.TotalReceived += it.QuantityReceived
		}
		result.Status = model.StatusFor(result.TotalOrdered, result.TotalReceived)
		return s.repo.UpdateStatusTx(tx, id, result.Status)
	})
	if txErr != nil {
		return nil, txErr
	}

	if s.unitsReceived != nil {
		s.unitsReceived.Add(ctx, int64(unitsReceived))
	}
	s.notifyStatus(ctx, id, result.Status)
	return result, nil
}

// notifyStatus queues the order-status webhook. Failures are logged only; the
// receipt is already committed.
func (s *purchaseOrderService) notifyStatus(ctx context.Context, id uuid.UUID, status string) {
	if s.jobs == nil {
		return
	}
	event := worker.EventPurchaseOrderPartiallyReceived
	if status == model.POStatusReceived {
		event = worker.EventPurchaseOrderReceived
	}
	err := s.jobs.EnqueueWebhook(ctx, worker.WebhookEvent{
		Event:           event,
		PurchaseOrderID: id.String(),
		Status:          status,
		OccurredAt:      formatTime(time.Now()),
	})
	if err != nil {
		log.Error().Err(err).Str("purchase_order_id", id.String()).Msg("failed to enqueue webhook")
	}
}

// ── Send / RenderPDF ──────────────────────────────────────────────────────────

func (s *purchaseOrderService) Send(ctx context.Context, id uuid.UUID) error {
	po, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if po.Supplier == nil || po.Supplier.Email == nil || *po.Supplier.Email == "" {
		return apierror.BadRequest("Fornecedor sem e-mail cadastrado")
	}

	if s.jobs == nil {
		return errors.New("purchase order send: job queue not configured")
	}
	path, err := s.pdf.Save(po)
	if err != nil {
		return err
	}
	return s.jobs.EnqueueEmail(ctx, worker.EmailJobPayload{
		ToEmail: *po.Supplier.Email,
		Subject: fmt.Sprintf("Pedido de compra %s", po.ID),
		Body: fmt.Sprintf("Olá %s,\n\nSegue em anexo o pedido de compra %s no valor de R$ %s.\n\nAtenciosamente,\nRedeCell",
			po.Supplier.Name, po.ID, po.TotalAmount.StringFixed(2)),
		PDFPath: path,
	})
}

func (s *purchaseOrderService) RenderPDF(ctx context.Context, id uuid.UUID) ([]byte, error) {
	po, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.pdf.Render(po)
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// buildOrderItems converts request lines into models and returns
// Σ quantity × cost_price. Prices are stored as NUMERIC(12,2), so more than two
// decimals are rejected to keep the stored total equal to the stored lines.
func buildOrderItems(in []dto.PurchaseOrderItemInput) ([]model.PurchaseOrderItem, decimal.Decimal, error) {
	items := make([]model.PurchaseOrderItem, 0, len(in))
	total := decimal.Zero
	for i, it := range in {
		variationID, err := uuid.Parse(it.VariationID)
		if err != nil {
			return nil, decimal.Zero, apierror.BadRequest("variation_id inválido")
		}
		if it.Quantity <= 0 {
			return nil, decimal.Zero, apierror.BadRequest("A quantidade de cada item deve ser maior que zero")
		}
		if it.CostPrice.IsNegative() {
			return nil, decimal.Zero, apierror.BadRequest("O preço de custo não pode ser negativo")
		}
		if !it.CostPrice.Equal(it.CostPrice.Truncate(2)) {
			return nil, decimal.Zero, apierror.BadRequest("O preço de custo deve ter no máximo duas casas decimais")
		}
		items = append(items, model.PurchaseOrderItem{
			ID:          uuid.New(),
			VariationID: variationID,
			LineNo:      i,
			Quantity:    it.Quantity,
			CostPrice:   it.CostPrice,
		})
		total = total.Add(it.CostPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return items, total, nil
}

func parseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, apierror.BadRequest("Data inválida, use o formato AAAA-MM-DD")
	}
	return &t, nil
}

func purchaseOrderToResponse(po *model.PurchaseOrder) dto.PurchaseOrderResponse {
	resp := dto.PurchaseOrderResponse{
		ID:          po.ID.String(),
		SupplierID:  po.SupplierID.String(),
		UserID:      po.UserID.String(),
		OrderDate:   formatTime(po.OrderDate),
		Status:      po.Status,
		TotalAmount: po.TotalAmount,
		Notes:       po.Notes,
	}
	if po.Supplier != nil {
		resp.SupplierName = po.Supplier.Name
	}
	if po.ExpectedDeliveryDate != nil {
		d := po.ExpectedDeliveryDate.Format("2006-01-02")
		resp.ExpectedDeliveryDate = &d
	}
	for _, it := range po.Items {
		item := dto.PurchaseOrderItemResponse{
			ID:               it.ID.String(),
			VariationID:      it.VariationID.String(),
			Quantity:         it.Quantity,
			CostPrice:        it.CostPrice,
			QuantityReceived: it.QuantityReceived,
		}
		if it.Variation != nil {
			item.VariationName = it.Variation.Name
			if it.Variation.Product != nil {
				item.ProductName = it.Variation.Product.Name
			}
		}
		resp.Items = append(resp.Items, item)
	}
	return resp
}
