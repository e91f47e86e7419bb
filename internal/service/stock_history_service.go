package service

import (
	"context"

	"redecell/internal/apierror"
	"redecell/internal/dto"
	"redecell/internal/repository"

	"github.com/google/uuid"
)

type StockHistoryService interface {
	List(ctx context.Context, filter dto.StockHistoryFilter) (*dto.StockHistoryListResponse, error)
}

type stockHistoryService struct {
	repo repository.StockHistoryRepository
}

func NewStockHistoryService(repo repository.StockHistoryRepository) StockHistoryService {
	return &stockHistoryService{repo: repo}
}

func (s *stockHistoryService) List(ctx context.Context, filter dto.StockHistoryFilter) (*dto.StockHistoryListResponse, error) {
	if filter.VariationID != "" {
		if _, err := uuid.Parse(filter.VariationID); err != nil {
			return nil, apierror.BadRequest("variation_id inválido")
		}
	}
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit, 50, 200)

	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	data := make([]dto.StockHistoryResponse, 0, len(rows))
	for _, h := range rows {
		r := dto.StockHistoryResponse{
			ID:             h.ID.String(),
			VariationID:    h.VariationID.String(),
			UserID:         h.UserID.String(),
			ChangeType:     h.ChangeType,
			QuantityChange: h.QuantityChange,
			Reason:         h.Reason,
			CreatedAt:      formatTime(h.CreatedAt),
		}
		if h.Variation != nil {
			r.VariationName = h.Variation.Name
		}
		if h.ReferenceID != nil {
			ref := h.ReferenceID.String()
			r.ReferenceID = &ref
		}
		data = append(data, r)
	}

	return &dto.StockHistoryListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}
