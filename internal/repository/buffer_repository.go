// internal/repository/buffer_repository.go
package repository

import (
	"context"

	"github.com/andresuchdata/bufferboard/internal/domain"
)

// BufferRepository persists one buffer row per (org, sku, warehouse).
type BufferRepository interface {
	// Get returns the stored buffer or domain.ErrNotFound.
	Get(ctx context.Context, orgID, sku, warehouseID string) (*domain.Buffer, error)

	// ListByWarehouse returns all buffers for a warehouse keyed by SKU.
	ListByWarehouse(ctx context.Context, orgID, warehouseID string) (map[string]domain.Buffer, error)

	// ListPage returns one page of buffers in stable SKU order plus the
	// total buffer count for the warehouse.
	ListPage(ctx context.Context, orgID, warehouseID string, page, pageSize int) ([]domain.Buffer, int, error)

	// UpsertBatch replaces the listed buffers in a single transaction under
	// a per-(org, warehouse) advisory lock, so concurrent readers see either
	// the previous or the new generation, never a partial mix.
	UpsertBatch(ctx context.Context, orgID, warehouseID string, buffers []domain.Buffer) error
}
