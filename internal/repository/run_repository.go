// internal/repository/run_repository.go
package repository

import (
	"context"

	"github.com/andresuchdata/bufferboard/internal/domain"
)

// RunRepository records buffer recalculation executions.
type RunRepository interface {
	Create(ctx context.Context, run *domain.RecalcRun) error
	Update(ctx context.Context, run *domain.RecalcRun) error
	ListByWarehouse(ctx context.Context, orgID, warehouseID string, limit int) ([]domain.RecalcRun, error)
}
