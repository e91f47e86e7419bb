package service

import (
	"context"
	"errors"

	"redecell/internal/apierror"
	"redecell/internal/dto"
	"redecell/internal/model"
	"redecell/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SupplierService interface {
	List(ctx context.Context) ([]dto.SupplierResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.SupplierResponse, error)
	Create(ctx context.Context, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error)
}

type supplierService struct {
	repo repository.SupplierRepository
}

func NewSupplierService(repo repository.SupplierRepository) SupplierService {
	return &supplierService{repo: repo}
}

func (s *supplierService) List(ctx context.Context) ([]dto.SupplierResponse, error) {
	suppliers, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(suppliers))
	for i := range suppliers {
		out = append(out, supplierToResponse(&suppliers[i]))
	}
	return out, nil
}

func (s *supplierService) GetByID(ctx context.Context, id uuid.UUID) (*dto.SupplierResponse, error) {
	sup, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.NotFound("Fornecedor não encontrado")
	}
	if err != nil {
		return nil, err
	}
	resp := supplierToResponse(sup)
	return &resp, nil
}

func (s *supplierService) Create(ctx context.Context, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	sup := &model.Supplier{
		ID:       uuid.New(),
		Name:     req.Name,
		CNPJ:     req.CNPJ,
		Email:    req.Email,
		Phone:    req.Phone,
		IsActive: true,
	}
	if err := s.repo.Create(ctx, sup); err != nil {
		if repository.IsUniqueViolation(err, "") {
			return nil, apierror.Conflict("CNPJ já cadastrado")
		}
		return nil, err
	}
	resp := supplierToResponse(sup)
	return &resp, nil
}

func supplierToResponse(s *model.Supplier) dto.SupplierResponse {
	return dto.SupplierResponse{
		ID:       s.ID.String(),
		Name:     s.Name,
		CNPJ:     s.CNPJ,
		Email:    s.Email,
		Phone:    s.Phone,
		IsActive: s.IsActive,
	}
}
