// internal/repository/reference_repository.go
package repository

import (
	"context"

	"github.com/andresuchdata/bufferboard/internal/domain"
)

// ReferenceRepository covers warehouse and product reference reads.
type ReferenceRepository interface {
	WarehouseExists(ctx context.Context, orgID, code string) (bool, error)
	ListWarehouses(ctx context.Context, orgID string) ([]domain.Warehouse, error)
	ListProducts(ctx context.Context, orgID, search string, limit, offset int) ([]domain.Product, error)
}
