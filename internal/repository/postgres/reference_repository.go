// internal/repository/postgres/reference_repository.go
package postgres

import (
	"context"

	"github.com/andresuchdata/bufferboard/internal/domain"
	"github.com/andresuchdata/bufferboard/internal/repository"
)

type referenceRepository struct {
	db *DB
}

func NewReferenceRepository(db *DB) repository.ReferenceRepository {
	return &referenceRepository{db: db}
}

func (r *referenceRepository) WarehouseExists(ctx context.Context, orgID, code string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM warehouses WHERE org_id = $1 AND code = $2
		)
	`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, orgID, code); err != nil {
		return false, wrapErr("checking warehouse", err)
	}

	return exists, nil
}

func (r *referenceRepository) ListWarehouses(ctx context.Context, orgID string) ([]domain.Warehouse, error) {
	query := `
		SELECT org_id, code, name, created_at, updated_at
		FROM warehouses
		WHERE org_id = $1
		ORDER BY code
	`

	var warehouses []domain.Warehouse
	if err := r.db.SelectContext(ctx, &warehouses, query, orgID); err != nil {
		return nil, wrapErr("listing warehouses", err)
	}

	return warehouses, nil
}

func (r *referenceRepository) ListProducts(ctx context.Context, orgID, search string, limit, offset int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT org_id, sku, name, created_at, updated_at
		FROM products
		WHERE org_id = $1
			AND ($2 = '' OR sku ILIKE '%' || $2 || '%' OR name ILIKE '%' || $2 || '%')
		ORDER BY sku ASC
		LIMIT $3 OFFSET $4
	`

	var products []domain.Product
	if err := r.db.SelectContext(ctx, &products, query, orgID, search, limit, offset); err != nil {
		return nil, wrapErr("listing products", err)
	}

	return products, nil
}
