// internal/repository/stock_repository.go
package repository

import (
	"context"
	"time"

	"github.com/andresuchdata/bufferboard/internal/domain"
)

// StockRepository covers stock snapshot reads and the ingest upsert.
type StockRepository interface {
	// ResolveSnapshotDate returns the most recent snapshot date at or before
	// the requested date for the warehouse, or nil when no snapshot exists.
	ResolveSnapshotDate(ctx context.Context, orgID, warehouseID string, date time.Time) (*time.Time, error)

	// OnHandBySKU sums qty_on_hand across batches at the given date for the
	// listed SKUs. SKUs without snapshot rows are absent from the map.
	OnHandBySKU(ctx context.Context, orgID, warehouseID string, date time.Time, skus []string) (map[string]float64, error)

	// OnHand resolves the effective date and on-hand total for one SKU.
	// warehouseID nil means across all warehouses. Returns 0 and a nil date
	// when no snapshot exists.
	OnHand(ctx context.Context, orgID, sku string, warehouseID *string, date time.Time) (float64, *time.Time, error)

	// EarliestExpiry returns the soonest batch expiry for a SKU, or nil when
	// no batch carries one.
	EarliestExpiry(ctx context.Context, orgID, sku string, warehouseID *string) (*time.Time, error)

	// UpsertSnapshots writes snapshot batches keyed by
	// (org, date, sku, warehouse, batch).
	UpsertSnapshots(ctx context.Context, snapshots []domain.StockSnapshot) error
}
