package service_test

import (
	"context"
	"sort"
	"time"

	"redecell/internal/auth"
	"redecell/internal/dto"
	"redecell/internal/infra"
	"redecell/internal/model"
	"redecell/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Purchase orders ──────────────────────────────────────────────────────────

type stubPORepo struct {
	orders    map[uuid.UUID]*model.PurchaseOrder
	items     map[uuid.UUID]*model.PurchaseOrderItem
	itemOrder []uuid.UUID
}

func newStubPORepo() *stubPORepo {
	return &stubPORepo{
		orders: map[uuid.UUID]*model.PurchaseOrder{},
		items:  map[uuid.UUID]*model.PurchaseOrderItem{},
	}
}

func (r *stubPORepo) DB() *gorm.DB { return nil }

func (r *stubPORepo) List(context.Context) ([]model.PurchaseOrder, error) {
	out := make([]model.PurchaseOrder, 0, len(r.orders))
	for _, po := range r.orders {
		out = append(out, *po)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderDate.After(out[j].OrderDate) })
	return out, nil
}

func (r *stubPORepo) FindByID(_ context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	po, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *po
	cp.Items, _ = r.ListItemsTx(nil, id)
	return &cp, nil
}

func (r *stubPORepo) ListOverdue(context.Context, time.Time) ([]model.PurchaseOrder, error) {
	return nil, nil
}

func (r *stubPORepo) CreateTx(_ *gorm.DB, po *model.PurchaseOrder) error {
	cp := *po
	cp.Items = nil
	r.orders[po.ID] = &cp
	return nil
}

func (r *stubPORepo) CreateItemTx(_ *gorm.DB, item *model.PurchaseOrderItem) error {
	cp := *item
	r.items[item.ID] = &cp
	r.itemOrder = append(r.itemOrder, item.ID)
	return nil
}

func (r *stubPORepo) UpdateTx(_ *gorm.DB, po *model.PurchaseOrder) (int64, error) {
	existing, ok := r.orders[po.ID]
	if !ok {
		return 0, nil
	}
	existing.SupplierID = po.SupplierID
	existing.ExpectedDeliveryDate = po.ExpectedDeliveryDate
	existing.Notes = po.Notes
	existing.TotalAmount = po.TotalAmount
	return 1, nil
}

func (r *stubPORepo) DeleteItemsTx(_ *gorm.DB, orderID uuid.UUID) error {
	kept := r.itemOrder[:0]
	for _, id := range r.itemOrder {
		if r.items[id].PurchaseOrderID == orderID {
			delete(r.items, id)
			continue
		}
		kept = append(kept, id)
	}
	r.itemOrder = kept
	return nil
}

func (r *stubPORepo) FindItemForUpdateTx(_ *gorm.DB, orderID, itemID uuid.UUID) (*model.PurchaseOrderItem, error) {
	it, ok := r.items[itemID]
	if !ok || it.PurchaseOrderID != orderID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *it
	return &cp, nil
}

func (r *stubPORepo) IncrementReceivedTx(_ *gorm.DB, itemID uuid.UUID, qty int) error {
	r.items[itemID].QuantityReceived += qty
	return nil
}

func (r *stubPORepo) ListItemsTx(_ *gorm.DB, orderID uuid.UUID) ([]model.PurchaseOrderItem, error) {
	var out []model.PurchaseOrderItem
	for _, id := range r.itemOrder {
		if it := r.items[id]; it.PurchaseOrderID == orderID {
			out = append(out, *it)
		}
	}
	// Same ordering as the SQL repository: line_no, id.
	sort.Slice(out, func(i, j int) bool {
		if out[i].LineNo != out[j].LineNo {
			return out[i].LineNo < out[j].LineNo
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (r *stubPORepo) UpdateStatusTx(_ *gorm.DB, orderID uuid.UUID, status string) error {
	r.orders[orderID].Status = status
	return nil
}

type stubVariationRepo struct{ stock map[uuid.UUID]int }

func newStubVariationRepo() *stubVariationRepo {
	return &stubVariationRepo{stock: map[uuid.UUID]int{}}
}

func (r *stubVariationRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ProductVariation, error) {
	q, ok := r.stock[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &model.ProductVariation{ID: id, StockQuantity: q}, nil
}

func (r *stubVariationRepo) IncrementStockTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	if _, ok := r.stock[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.stock[id] += delta
	return nil
}

type stubHistoryRepo struct {
	entries    []model.StockHistory
	lastFilter dto.StockHistoryFilter
}

func (r *stubHistoryRepo) CreateTx(_ *gorm.DB, h *model.StockHistory) error {
	r.entries = append(r.entries, *h)
	return nil
}

func (r *stubHistoryRepo) List(_ context.Context, f dto.StockHistoryFilter) ([]model.StockHistory, int64, error) {
	r.lastFilter = f
	return r.entries, int64(len(r.entries)), nil
}

type stubJobs struct {
	emails   []worker.EmailJobPayload
	webhooks []worker.WebhookEvent
	err      error
}

func (j *stubJobs) EnqueueEmail(_ context.Context, p worker.EmailJobPayload) error {
	j.emails = append(j.emails, p)
	return j.err
}

func (j *stubJobs) EnqueueWebhook(_ context.Context, e worker.WebhookEvent) error {
	j.webhooks = append(j.webhooks, e)
	return j.err
}

type stubRenderer struct{ saved []uuid.UUID }

func (r *stubRenderer) Render(*model.PurchaseOrder) ([]byte, error) { return []byte("%PDF-1.3"), nil }

func (r *stubRenderer) Save(po *model.PurchaseOrder) (string, error) {
	r.saved = append(r.saved, po.ID)
	return "/tmp/pedido_" + po.ID.String() + ".pdf", nil
}

// ── Checklists ───────────────────────────────────────────────────────────────

type stubChecklistRepo struct {
	templates map[uuid.UUID]*model.ChecklistTemplate
	items     map[uuid.UUID][]model.ChecklistTemplateItem
	findCalls int
	afterLoad func() // runs after the row is read, before FindByID returns
}

func newStubChecklistRepo() *stubChecklistRepo {
	return &stubChecklistRepo{
		templates: map[uuid.UUID]*model.ChecklistTemplate{},
		items:     map[uuid.UUID][]model.ChecklistTemplateItem{},
	}
}

func (r *stubChecklistRepo) DB() *gorm.DB { return nil }

func (r *stubChecklistRepo) List(_ context.Context, f dto.ChecklistFilter) ([]model.ChecklistTemplate, int64, error) {
	var all []model.ChecklistTemplate
	for _, t := range r.templates {
		if f.Category != "" && (t.Category == nil || *t.Category != f.Category) {
			continue
		}
		all = append(all, *t)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	total := int64(len(all))
	start := (f.Page - 1) * f.Limit
	if start > len(all) {
		start = len(all)
	}
	end := start + f.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *stubChecklistRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ChecklistTemplate, error) {
	r.findCalls++
	t, ok := r.templates[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	cp.Items = append([]model.ChecklistTemplateItem(nil), r.items[id]...)
	sort.Slice(cp.Items, func(i, j int) bool { return cp.Items[i].DisplayOrder < cp.Items[j].DisplayOrder })
	if hook := r.afterLoad; hook != nil {
		r.afterLoad = nil
		hook()
	}
	return &cp, nil
}

func (r *stubChecklistRepo) Delete(_ context.Context, id uuid.UUID) (int64, error) {
	if _, ok := r.templates[id]; !ok {
		return 0, nil
	}
	delete(r.templates, id)
	delete(r.items, id) // cascade
	return 1, nil
}

func (r *stubChecklistRepo) CreateTx(_ *gorm.DB, t *model.ChecklistTemplate) error {
	cp := *t
	cp.Items = nil
	r.templates[t.ID] = &cp
	return nil
}

func (r *stubChecklistRepo) CreateItemTx(_ *gorm.DB, it *model.ChecklistTemplateItem) error {
	r.items[it.TemplateID] = append(r.items[it.TemplateID], *it)
	return nil
}

func (r *stubChecklistRepo) UpdateTx(_ *gorm.DB, t *model.ChecklistTemplate) (int64, error) {
	existing, ok := r.templates[t.ID]
	if !ok {
		return 0, nil
	}
	existing.Name = t.Name
	existing.Description = t.Description
	existing.Category = t.Category
	existing.UpdatedAt = t.UpdatedAt
	return 1, nil
}

func (r *stubChecklistRepo) DeleteItemsTx(_ *gorm.DB, templateID uuid.UUID) error {
	delete(r.items, templateID)
	return nil
}

type memCache struct {
	data map[string][]byte
	ttls map[string]time.Duration
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	b, ok := c.data[key]
	if !ok {
		return nil, infra.ErrCacheMiss
	}
	return b, nil
}

func (c *memCache) Set(_ context.Context, key string, v []byte, ttl time.Duration) error {
	c.data[key] = v
	c.ttls[key] = ttl
	return nil
}

func (c *memCache) Del(_ context.Context, key string) error {
	delete(c.data, key)
	delete(c.ttls, key)
	return nil
}

// ── Cashier ──────────────────────────────────────────────────────────────────

type stubCashRepo struct {
	sessions  map[uuid.UUID]*model.CashSession
	createErr error
}

func newStubCashRepo() *stubCashRepo {
	return &stubCashRepo{sessions: map[uuid.UUID]*model.CashSession{}}
}

func (r *stubCashRepo) FindOpenByUser(_ context.Context, userID uuid.UUID) (*model.CashSession, error) {
	for _, s := range r.sessions {
		if s.UserID == userID && s.ClosingTime == nil {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *stubCashRepo) Create(_ context.Context, s *model.CashSession) error {
	if r.createErr != nil {
		return r.createErr
	}
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *stubCashRepo) Close(_ context.Context, s *model.CashSession) error {
	existing, ok := r.sessions[s.ID]
	if !ok || existing.ClosingTime != nil {
		return gorm.ErrRecordNotFound
	}
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *stubCashRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]model.CashSession, error) {
	var out []model.CashSession
	for _, s := range r.sessions {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OpeningTime.After(out[j].OpeningTime) })
	return out, nil
}

type stubReports struct {
	sales    decimal.Decimal
	payments []dto.PaymentMethodTotal
	since    time.Time
}

func (r *stubReports) SumSalesSince(_ context.Context, _ uuid.UUID, since time.Time) (decimal.Decimal, error) {
	r.since = since
	return r.sales, nil
}

func (r *stubReports) SalesByPaymentMethod(_ context.Context, _ uuid.UUID, _ time.Time) ([]dto.PaymentMethodTotal, error) {
	return r.payments, nil
}

// ── Users / suppliers / finance ──────────────────────────────────────────────

type stubUserRepo struct {
	users      map[string]*model.User
	principals map[uuid.UUID]*auth.Principal
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) LoadPrincipal(_ context.Context, id uuid.UUID) (*auth.Principal, error) {
	p, ok := r.principals[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubUserRepo) UpsertByEmail(_ context.Context, u *model.User) error {
	r.users[u.Email] = u
	return nil
}

type stubSupplierRepo struct {
	suppliers map[uuid.UUID]*model.Supplier
	createErr error
}

func (r *stubSupplierRepo) Create(_ context.Context, s *model.Supplier) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.suppliers[s.ID] = s
	return nil
}

func (r *stubSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSupplierRepo) List(context.Context) ([]model.Supplier, error) {
	var out []model.Supplier
	for _, s := range r.suppliers {
		out = append(out, *s)
	}
	return out, nil
}

type stubBankAccountRepo struct {
	accounts map[uuid.UUID]*model.BankAccount
	err      error
}

func (r *stubBankAccountRepo) List(context.Context) ([]model.BankAccount, error) {
	var out []model.BankAccount
	for _, a := range r.accounts {
		out = append(out, *a)
	}
	return out, nil
}

func (r *stubBankAccountRepo) Create(_ context.Context, a *model.BankAccount) error {
	if r.err != nil {
		return r.err
	}
	r.accounts[a.ID] = a
	return nil
}

func (r *stubBankAccountRepo) Update(_ context.Context, a *model.BankAccount) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	if _, ok := r.accounts[a.ID]; !ok {
		return 0, nil
	}
	r.accounts[a.ID] = a
	return 1, nil
}

func (r *stubBankAccountRepo) Delete(_ context.Context, id uuid.UUID) (int64, error) {
	if _, ok := r.accounts[id]; !ok {
		return 0, nil
	}
	delete(r.accounts, id)
	return 1, nil
}
