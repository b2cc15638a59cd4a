// internal/repository/sales_repository.go
package repository

import (
	"context"

	"github.com/andresuchdata/bufferboard/internal/domain"
)

// SalesRepository covers the daily rollup table: regeneration from raw
// sales events and the demand-series reads the estimators run on.
type SalesRepository interface {
	// RebuildDailyRollups regenerates every rollup touched by sales events
	// inside the range. Atomic per range and idempotent: re-running over an
	// overlapping range yields the same final rows.
	RebuildDailyRollups(ctx context.Context, orgID string, rng domain.DateRange) error

	// GetDailyUnits returns the rollup unit series for one SKU inside the
	// range, summed across warehouses when warehouseID is nil. Days without
	// sales have no row; callers zero-fill.
	GetDailyUnits(ctx context.Context, orgID, sku string, warehouseID *string, rng domain.DateRange) ([]domain.DailyUnits, error)

	// ListSKUDailyUnits returns the unit series for every SKU with at least
	// one rollup row for the warehouse inside the range.
	ListSKUDailyUnits(ctx context.Context, orgID, warehouseID string, rng domain.DateRange) (map[string][]domain.DailyUnits, error)
}
