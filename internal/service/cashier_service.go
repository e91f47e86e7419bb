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

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"gorm.io/gorm"
)

const (
	msgCashAlreadyOpen = "Já existe um caixa aberto para este usuário"
	msgNoOpenCash      = "Nenhum caixa aberto"

	// openCashSessionIndex backs the one-open-session-per-user rule.
	openCashSessionIndex = "uq_cash_sessions_open_user"
)

// Variance levels reported on close.
const (
	VarianceNormal    = "normal"
	VarianceAttention = "atencao"
	VarianceCritical  = "critico"
)

type CashierService interface {
	Open(ctx context.Context, userID uuid.UUID, req dto.OpenCashRequest) (*dto.CashSessionResponse, error)
	Close(ctx context.Context, userID uuid.UUID, req dto.CloseCashRequest) (*dto.CloseCashResponse, error)
	Status(ctx context.Context, userID uuid.UUID) (*dto.CashStatusResponse, error)
	Summary(ctx context.Context, userID uuid.UUID) (*dto.CashSummaryResponse, error)
	History(ctx context.Context, userID uuid.UUID) ([]dto.CashSessionResponse, error)
}

type cashierService struct {
	repo    repository.CashSessionRepository
	reports repository.CashierReportRepository
	closed  metric.Int64Counter
}

func NewCashierService(repo repository.CashSessionRepository, reports repository.CashierReportRepository) CashierService {
	counter, err := otel.Meter("redecell").Int64Counter("cash_sessions.closed",
		metric.WithDescription("Cash sessions closed"))
	if err != nil {
		log.Warn().Err(err).Msg("cashier: counter unavailable")
	}
	return &cashierService{repo: repo, reports: reports, closed: counter}
}

// ── Open ──────────────────────────────────────────────────────────────────────
// Check-then-insert; the partial unique index turns a lost race into the same 400.

func (s *cashierService) Open(ctx context.Context, userID uuid.UUID, req dto.OpenCashRequest) (*dto.CashSessionResponse, error) {
	if req.InitialAmount.IsNegative() {
		return nil, apierror.BadRequest("O valor inicial não pode ser negativo")
	}
	existing, err := s.repo.FindOpenByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apierror.BadRequest(msgCashAlreadyOpen)
	}

	session := &model.CashSession{
		ID:            uuid.New(),
		UserID:        userID,
		OpeningTime:   time.Now(),
		InitialAmount: req.InitialAmount,
	}
	if err := s.repo.Create(ctx, session); err != nil {
		if repository.IsUniqueViolation(err, openCashSessionIndex) {
			return nil, apierror.BadRequest(msgCashAlreadyOpen)
		}
		return nil, fmt.Errorf("open cash session: %w", err)
	}

	resp := cashSessionToResponse(session)
	return &resp, nil
}

// ── Close ─────────────────────────────────────────────────────────────────────
// expected = initial + sales since opening; difference = final − expected.

func (s *cashierService) Close(ctx context.Context, userID uuid.UUID, req dto.CloseCashRequest) (*dto.CloseCashResponse, error) {
	if req.FinalAmount.IsNegative() {
		return nil, apierror.BadRequest("O valor final não pode ser negativo")
	}
	session, err := s.openSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	sales, err := s.reports.SumSalesSince(ctx, userID, session.OpeningTime)
	if err != nil {
		return nil, err
	}
	expected := session.InitialAmount.Add(sales)
	difference := req.FinalAmount.Sub(expected)
	now := time.Now()
	final := req.FinalAmount

	session.ClosingTime = &now
	session.FinalAmount = &final
	session.CalculatedSales = &sales
	session.Difference = &difference

	if err := s.repo.Close(ctx, session); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound(msgNoOpenCash)
		}
		return nil, err
	}
	if s.closed != nil {
		s.closed.Add(ctx, 1)
	}

	return &dto.CloseCashResponse{
		CashSessionResponse: cashSessionToResponse(session),
		ExpectedAmount:      expected,
		VarianceLevel:       varianceLevel(difference, expected),
	}, nil
}

// ── Status / Summary / History ───────────────────────────────────────────────

func (s *cashierService) Status(ctx context.Context, userID uuid.UUID) (*dto.CashStatusResponse, error) {
	session, err := s.repo.FindOpenByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return &dto.CashStatusResponse{IsOpen: false}, nil
	}
	resp := cashSessionToResponse(session)
	return &dto.CashStatusResponse{IsOpen: true, Session: &resp}, nil
}

func (s *cashierService) Summary(ctx context.Context, userID uuid.UUID) (*dto.CashSummaryResponse, error) {
	session, err := s.openSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	total, err := s.reports.SumSalesSince(ctx, userID, session.OpeningTime)
	if err != nil {
		return nil, err
	}
	payments, err := s.reports.SalesByPaymentMethod(ctx, userID, session.OpeningTime)
	if err != nil {
		return nil, err
	}
	if payments == nil {
		payments = []dto.PaymentMethodTotal{}
	}
	return &dto.CashSummaryResponse{
		Session:        cashSessionToResponse(session),
		TotalSales:     total,
		ExpectedAmount: session.InitialAmount.Add(total),
		Payments:       payments,
	}, nil
}

func (s *cashierService) History(ctx context.Context, userID uuid.UUID) ([]dto.CashSessionResponse, error) {
	sessions, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CashSessionResponse, 0, len(sessions))
	for i := range sessions {
		out = append(out, cashSessionToResponse(&sessions[i]))
	}
	return out, nil
}

func (s *cashierService) openSession(ctx context.Context, userID uuid.UUID) (*model.CashSession, error) {
	session, err := s.repo.FindOpenByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apierror.NotFound(msgNoOpenCash)
	}
	return session, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// varianceLevel classifies |difference| / expected:
// normal <= 1%, atencao <= 5%, critico > 5%.
func varianceLevel(difference, expected decimal.Decimal) string {
	if difference.IsZero() {
		return VarianceNormal
	}
	if expected.IsZero() {
		return VarianceCritical
	}
	pct := difference.Abs().Div(expected.Abs()).Mul(decimal.NewFromInt(100))
	switch {
	case pct.LessThanOrEqual(decimal.NewFromInt(1)):
		return VarianceNormal
	case pct.LessThanOrEqual(decimal.NewFromInt(5)):
		return VarianceAttention
	default:
		return VarianceCritical
	}
}

func cashSessionToResponse(s *model.CashSession) dto.CashSessionResponse {
	return dto.CashSessionResponse{
		ID:              s.ID.String(),
		UserID:          s.UserID.String(),
		OpeningTime:     formatTime(s.OpeningTime),
		InitialAmount:   s.InitialAmount,
		ClosingTime:     formatTimePtr(s.ClosingTime),
		FinalAmount:     s.FinalAmount,
		CalculatedSales: s.CalculatedSales,
		Difference:      s.Difference,
	}
}
