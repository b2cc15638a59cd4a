// internal/repository/postgres/run_repository.go
package postgres

import (
	"context"

	"github.com/andresuchdata/bufferboard/internal/domain"
	"github.com/andresuchdata/bufferboard/internal/repository"
)

type runRepository struct {
	db *DB
}

func NewRunRepository(db *DB) repository.RunRepository {
	return &runRepository{db: db}
}

func (r *runRepository) Create(ctx context.Context, run *domain.RecalcRun) error {
	query := `
		INSERT INTO recalc_runs (
			org_id, warehouse_id, status, sku_count, started_at
		) VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.QueryRowxContext(ctx, query,
		run.OrgID, run.WarehouseID, run.Status, run.SKUCount, run.StartedAt,
	).Scan(&run.ID)
	if err != nil {
		return wrapErr("creating recalc run", err)
	}

	return nil
}

func (r *runRepository) Update(ctx context.Context, run *domain.RecalcRun) error {
	query := `
		UPDATE recalc_runs
		SET status = $2, sku_count = $3, completed_at = $4, error_message = $5
		WHERE id = $1
	`

	if _, err := r.db.ExecContext(ctx, query,
		run.ID, run.Status, run.SKUCount, run.CompletedAt, run.ErrorMessage,
	); err != nil {
		return wrapErr("updating recalc run", err)
	}

	return nil
}

func (r *runRepository) ListByWarehouse(ctx context.Context, orgID, warehouseID string, limit int) ([]domain.RecalcRun, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, org_id, warehouse_id, status, sku_count,
			started_at, completed_at, COALESCE(error_message, '') AS error_message
		FROM recalc_runs
		WHERE org_id = $1 AND warehouse_id = $2
		ORDER BY started_at DESC
		LIMIT $3
	`

	var runs []domain.RecalcRun
	if err := r.db.SelectContext(ctx, &runs, query, orgID, warehouseID, limit); err != nil {
		return nil, wrapErr("listing recalc runs", err)
	}

	return runs, nil
}
