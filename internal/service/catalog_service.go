package service

import (
	"context"

	"github.com/andresuchdata/bufferboard/internal/domain"
	"github.com/andresuchdata/bufferboard/internal/repository"
)

// CatalogService exposes the warehouse and product reference reads.
type CatalogService struct {
	references repository.ReferenceRepository
}

func NewCatalogService(references repository.ReferenceRepository) *CatalogService {
	return &CatalogService{references: references}
}

func (s *CatalogService) ListWarehouses(ctx context.Context, orgID string) ([]domain.Warehouse, error) {
	if orgID == "" {
		return nil, domain.NewValidationError("org_id", "must not be empty")
	}
	return s.references.ListWarehouses(ctx, orgID)
}

func (s *CatalogService) ListProducts(ctx context.Context, orgID, search string, limit, offset int) ([]domain.Product, error) {
	if orgID == "" {
		return nil, domain.NewValidationError("org_id", "must not be empty")
	}
	return s.references.ListProducts(ctx, orgID, search, limit, offset)
}
