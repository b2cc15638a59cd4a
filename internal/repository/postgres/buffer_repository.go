// internal/repository/postgres/buffer_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andresuchdata/bufferboard/internal/domain"
	"github.com/andresuchdata/bufferboard/internal/repository"
	"github.com/jmoiron/sqlx"
)

type bufferRepository struct {
	db *DB
}

func NewBufferRepository(db *DB) repository.BufferRepository {
	return &bufferRepository{db: db}
}

const bufferColumns = `
	org_id, sku, warehouse_id, lead_time_days, avg_daily_demand,
	buffer_qty, red_threshold, yellow_threshold, updated_at
`

func (r *bufferRepository) Get(ctx context.Context, orgID, sku, warehouseID string) (*domain.Buffer, error) {
	query := `
		SELECT ` + bufferColumns + `
		FROM buffers
		WHERE org_id = $1 AND sku = $2 AND warehouse_id = $3
	`

	var buf domain.Buffer
	err := r.db.GetContext(ctx, &buf, query, orgID, sku, warehouseID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, wrapErr("getting buffer", err)
	}

	return &buf, nil
}

func (r *bufferRepository) ListByWarehouse(ctx context.Context, orgID, warehouseID string) (map[string]domain.Buffer, error) {
	query := `
		SELECT ` + bufferColumns + `
		FROM buffers
		WHERE org_id = $1 AND warehouse_id = $2
	`

	var buffers []domain.Buffer
	if err := r.db.SelectContext(ctx, &buffers, query, orgID, warehouseID); err != nil {
		return nil, wrapErr("listing buffers", err)
	}

	result := make(map[string]domain.Buffer, len(buffers))
	for _, b := range buffers {
		result[b.SKU] = b
	}

	return result, nil
}

func (r *bufferRepository) ListPage(ctx context.Context, orgID, warehouseID string, page, pageSize int) ([]domain.Buffer, int, error) {
	countQuery := `
		SELECT COUNT(*)
		FROM buffers
		WHERE org_id = $1 AND warehouse_id = $2
	`

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, orgID, warehouseID); err != nil {
		return nil, 0, wrapErr("counting buffers", err)
	}

	query := `
		SELECT ` + bufferColumns + `
		FROM buffers
		WHERE org_id = $1 AND warehouse_id = $2
		ORDER BY sku ASC
		LIMIT $3 OFFSET $4
	`

	offset := (page - 1) * pageSize
	var buffers []domain.Buffer
	if err := r.db.SelectContext(ctx, &buffers, query, orgID, warehouseID, pageSize, offset); err != nil {
		return nil, 0, wrapErr("listing buffer page", err)
	}

	return buffers, total, nil
}

// UpsertBatch writes one recalculation generation atomically. The advisory
// lock keyed on (org, warehouse) keeps concurrent recalculations of the same
// warehouse from interleaving; the losing caller simply waits and then
// overwrites with an identical, deterministic result.
func (r *bufferRepository) UpsertBatch(ctx context.Context, orgID, warehouseID string, buffers []domain.Buffer) error {
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		lockKey := fmt.Sprintf("buffers:%s:%s", orgID, warehouseID)
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, lockKey); err != nil {
			return fmt.Errorf("acquiring recalc lock: %w", err)
		}

		query := `
			INSERT INTO buffers (
				org_id, sku, warehouse_id, lead_time_days, avg_daily_demand,
				buffer_qty, red_threshold, yellow_threshold, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
			ON CONFLICT (org_id, sku, warehouse_id)
			DO UPDATE SET
				lead_time_days = EXCLUDED.lead_time_days,
				avg_daily_demand = EXCLUDED.avg_daily_demand,
				buffer_qty = EXCLUDED.buffer_qty,
				red_threshold = EXCLUDED.red_threshold,
				yellow_threshold = EXCLUDED.yellow_threshold,
				updated_at = NOW()
		`

		stmt, err := tx.PreparexContext(ctx, query)
		if err != nil {
			return fmt.Errorf("preparing buffer upsert: %w", err)
		}
		defer stmt.Close()

		for _, b := range buffers {
			_, err := stmt.ExecContext(ctx,
				orgID, b.SKU, warehouseID,
				b.LeadTimeDays, b.AvgDailyDemand,
				b.BufferQty, b.RedThreshold, b.YellowThreshold,
			)
			if err != nil {
				return fmt.Errorf("upserting buffer for sku %s: %w", b.SKU, err)
			}
		}

		return nil
	})
	if err != nil {
		return wrapErr("upserting buffer batch", err)
	}

	return nil
}
