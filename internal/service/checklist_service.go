package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"redecell/internal/apierror"
	"redecell/internal/dto"
	"redecell/internal/infra"
	"redecell/internal/model"
	"redecell/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const msgChecklistNotFound = "Modelo de checklist não encontrado"

// checklistWriteGuard caps the TTL of entries cached shortly after a write. A
// read that loaded the row before the write committed can still land in the
// cache after invalidation; it expires within this window.
const checklistWriteGuard = 5 * time.Second

// Cache is implemented by *infra.RedisCache. Get returns infra.ErrCacheMiss on a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

type ChecklistService interface {
	List(ctx context.Context, filter dto.ChecklistFilter) (*dto.ChecklistListResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ChecklistTemplateResponse, error)
	Create(ctx context.Context, req dto.ChecklistTemplateRequest) (*dto.ChecklistTemplateResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.ChecklistTemplateRequest) (*dto.ChecklistTemplateResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type checklistService struct {
	repo  repository.ChecklistRepository
	cache Cache
	ttl   time.Duration
}

func NewChecklistService(repo repository.ChecklistRepository, cache Cache, ttl time.Duration) ChecklistService {
	return &checklistService{repo: repo, cache: cache, ttl: ttl}
}

func checklistCacheKey(id uuid.UUID) string { return "checklist:template:" + id.String() }

func checklistWrittenKey(id uuid.UUID) string { return checklistCacheKey(id) + ":written" }

func (s *checklistService) List(ctx context.Context, filter dto.ChecklistFilter) (*dto.ChecklistListResponse, error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit, 10, 100)

	templates, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ChecklistTemplateResponse, 0, len(templates))
	for i := range templates {
		data = append(data, checklistToResponse(&templates[i]))
	}
	return &dto.ChecklistListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

// GetByID serves from cache when possible. Cache failures fall through to the database.
func (s *checklistService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ChecklistTemplateResponse, error) {
	key := checklistCacheKey(id)
	if cached, err := s.cache.Get(ctx, key); err == nil {
		var resp dto.ChecklistTemplateResponse
		if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
			return &resp, nil
		}
	} else if !errors.Is(err, infra.ErrCacheMiss) {
		log.Warn().Err(err).Str("key", key).Msg("checklist cache read failed")
	}

	t, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.NotFound(msgChecklistNotFound)
	}
	if err != nil {
		return nil, err
	}
	resp := checklistToResponse(t)

	ttl := s.ttl
	if _, err := s.cache.Get(ctx, checklistWrittenKey(id)); err == nil && ttl > checklistWriteGuard {
		ttl = checklistWriteGuard
	}
	if b, err := json.Marshal(resp); err == nil {
		if err := s.cache.Set(ctx, key, b, ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("checklist cache write failed")
		}
	}
	return &resp, nil
}

// Create inserts the template and then its items in array order; display_order
// is the array index.
func (s *checklistService) Create(ctx context.Context, req dto.ChecklistTemplateRequest) (*dto.ChecklistTemplateResponse, error) {
	now := time.Now()
	t := &model.ChecklistTemplate{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	items := buildChecklistItems(t.ID, req.Items)

	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, t); err != nil {
			return err
		}
		for i := range items {
			if err := s.repo.CreateItemTx(tx, &items[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	t.Items = items
	resp := checklistToResponse(t)
	return &resp, nil
}

// Update rewrites the scalar fields and replaces the whole item set.
func (s *checklistService) Update(ctx context.Context, id uuid.UUID, req dto.ChecklistTemplateRequest) (*dto.ChecklistTemplateResponse, error) {
	t := &model.ChecklistTemplate{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		UpdatedAt:   time.Now(),
	}
	items := buildChecklistItems(id, req.Items)

	s.invalidate(ctx, id)
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		rows, err := s.repo.UpdateTx(tx, t)
		if err != nil {
			return err
		}
		if rows == 0 {
			return apierror.NotFound(msgChecklistNotFound)
		}
		if err := s.repo.DeleteItemsTx(tx, id); err != nil {
			return err
		}
		for i := range items {
			if err := s.repo.CreateItemTx(tx, &items[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.markWritten(ctx, id)
	return s.GetByID(ctx, id)
}

func (s *checklistService) Delete(ctx context.Context, id uuid.UUID) error {
	rows, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return apierror.NotFound(msgChecklistNotFound)
	}
	s.markWritten(ctx, id)
	return nil
}

// markWritten flags the template as recently written and drops its entry.
func (s *checklistService) markWritten(ctx context.Context, id uuid.UUID) {
	if err := s.cache.Set(ctx, checklistWrittenKey(id), []byte("1"), checklistWriteGuard); err != nil {
		log.Warn().Err(err).Str("template_id", id.String()).Msg("checklist cache write marker failed")
	}
	s.invalidate(ctx, id)
}

func (s *checklistService) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.cache.Del(ctx, checklistCacheKey(id)); err != nil {
		log.Warn().Err(err).Str("template_id", id.String()).Msg("checklist cache invalidation failed")
	}
}

func buildChecklistItems(templateID uuid.UUID, in []dto.ChecklistItemInput) []model.ChecklistTemplateItem {
	items := make([]model.ChecklistTemplateItem, 0, len(in))
	for i, it := range in {
		items = append(items, model.ChecklistTemplateItem{
			ID:           uuid.New(),
			TemplateID:   templateID,
			ItemText:     it.ItemText,
			ResponseType: it.ResponseType,
			DisplayOrder: i,
		})
	}
	return items
}

func checklistToResponse(t *model.ChecklistTemplate) dto.ChecklistTemplateResponse {
	resp := dto.ChecklistTemplateResponse{
		ID:          t.ID.String(),
		Name:        t.Name,
		Description: t.Description,
		Category:    t.Category,
		CreatedAt:   formatTime(t.CreatedAt),
		UpdatedAt:   formatTime(t.UpdatedAt),
	}
	for _, it := range t.Items {
		resp.Items = append(resp.Items, dto.ChecklistItemResponse{
			ID:           it.ID.String(),
			ItemText:     it.ItemText,
			ResponseType: it.ResponseType,
			DisplayOrder: it.DisplayOrder,
		})
	}
	return resp
}
