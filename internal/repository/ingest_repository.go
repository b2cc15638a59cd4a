// internal/repository/ingest_repository.go
package repository

import (
	"context"

	"github.com/andresuchdata/bufferboard/internal/domain"
)

// IngestRepository is the upsert surface the ingestion collaborator writes
// through. Every operation is idempotent and keyed by natural ids.
type IngestRepository interface {
	UpsertSalesEvents(ctx context.Context, events []domain.SalesEvent) error
	UpsertWarehouse(ctx context.Context, warehouse *domain.Warehouse) error
	UpsertProduct(ctx context.Context, product *domain.Product) error
	UpsertSupplier(ctx context.Context, supplier *domain.Supplier) error
	InsertLeadTimeStat(ctx context.Context, stat *domain.LeadTimeStat) error
}
