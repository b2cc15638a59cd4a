// internal/repository/postgres/stock_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/andresuchdata/bufferboard/internal/domain"
	"github.com/andresuchdata/bufferboard/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type stockRepository struct {
	db *DB
}

func NewStockRepository(db *DB) repository.StockRepository {
	return &stockRepository{db: db}
}

func (r *stockRepository) ResolveSnapshotDate(ctx context.Context, orgID, warehouseID string, date time.Time) (*time.Time, error) {
	query := `
		SELECT MAX(snapshot_date)
		FROM stock_snapshots
		WHERE org_id = $1 AND warehouse_id = $2 AND snapshot_date <= $3::date
	`

	var resolved sql.NullTime
	if err := r.db.GetContext(ctx, &resolved, query, orgID, warehouseID, date); err != nil {
		return nil, wrapErr("resolving snapshot date", err)
	}
	if !resolved.Valid {
		return nil, nil
	}

	return &resolved.Time, nil
}

func (r *stockRepository) OnHandBySKU(ctx context.Context, orgID, warehouseID string, date time.Time, skus []string) (map[string]float64, error) {
	if len(skus) == 0 {
		return map[string]float64{}, nil
	}

	query := `
		SELECT sku, SUM(qty_on_hand) AS qty
		FROM stock_snapshots
		WHERE org_id = $1 AND warehouse_id = $2 AND snapshot_date = $3::date
			AND sku = ANY($4::text[])
		GROUP BY sku
	`

	rows, err := r.db.QueryxContext(ctx, query, orgID, warehouseID, date, pq.Array(skus))
	if err != nil {
		return nil, wrapErr("getting on-hand by sku", err)
	}
	defer rows.Close()

	result := make(map[string]float64, len(skus))
	for rows.Next() {
		var sku string
		var qty float64
		if err := rows.Scan(&sku, &qty); err != nil {
			return nil, wrapErr("scanning on-hand row", err)
		}
		result[sku] = qty
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterating on-hand rows", err)
	}

	return result, nil
}

// OnHand resolves the effective snapshot date for one SKU and sums its
// batches at that date. A nil warehouse spans all warehouses.
func (r *stockRepository) OnHand(ctx context.Context, orgID, sku string, warehouseID *string, date time.Time) (float64, *time.Time, error) {
	dateQuery := `
		SELECT MAX(snapshot_date)
		FROM stock_snapshots
		WHERE org_id = $1 AND sku = $2 AND snapshot_date <= $3::date
	`
	args := []interface{}{orgID, sku, date}
	if warehouseID != nil {
		dateQuery += " AND warehouse_id = $4"
		args = append(args, *warehouseID)
	}

	var resolved sql.NullTime
	if err := r.db.GetContext(ctx, &resolved, dateQuery, args...); err != nil {
		return 0, nil, wrapErr("resolving sku snapshot date", err)
	}
	if !resolved.Valid {
		return 0, nil, nil
	}

	sumQuery := `
		SELECT COALESCE(SUM(qty_on_hand), 0)
		FROM stock_snapshots
		WHERE org_id = $1 AND sku = $2 AND snapshot_date = $3::date
	`
	sumArgs := []interface{}{orgID, sku, resolved.Time}
	if warehouseID != nil {
		sumQuery += " AND warehouse_id = $4"
		sumArgs = append(sumArgs, *warehouseID)
	}

	var onHand float64
	if err := r.db.GetContext(ctx, &onHand, sumQuery, sumArgs...); err != nil {
		return 0, nil, wrapErr("summing on-hand", err)
	}

	return onHand, &resolved.Time, nil
}

// EarliestExpiry looks at the most recent snapshot generation only, so
// batches that have already left the warehouse do not trigger FEFO alarms.
func (r *stockRepository) EarliestExpiry(ctx context.Context, orgID, sku string, warehouseID *string) (*time.Time, error) {
	warehouseFilter := ""
	args := []interface{}{orgID, sku}
	if warehouseID != nil {
		warehouseFilter = " AND warehouse_id = $3"
		args = append(args, *warehouseID)
	}

	query := `
		SELECT MIN(s.expires_at)
		FROM stock_snapshots s
		WHERE s.org_id = $1 AND s.sku = $2
			AND s.expires_at IS NOT NULL
			AND s.qty_on_hand > 0
			AND s.snapshot_date = (
				SELECT MAX(snapshot_date)
				FROM stock_snapshots
				WHERE org_id = $1 AND sku = $2` + warehouseFilter + `
			)` + warehouseFilter

	var expiry sql.NullTime
	err := r.db.GetContext(ctx, &expiry, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("getting earliest expiry", err)
	}
	if !expiry.Valid {
		return nil, nil
	}

	return &expiry.Time, nil
}

func (r *stockRepository) UpsertSnapshots(ctx context.Context, snapshots []domain.StockSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO stock_snapshots (
				org_id, snapshot_date, sku, warehouse_id, batch,
				qty_on_hand, expires_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
			ON CONFLICT (org_id, snapshot_date, sku, warehouse_id, batch)
			DO UPDATE SET
				qty_on_hand = EXCLUDED.qty_on_hand,
				expires_at = EXCLUDED.expires_at,
				updated_at = NOW()
		`

		stmt, err := tx.PreparexContext(ctx, query)
		if err != nil {
			return fmt.Errorf("preparing snapshot upsert: %w", err)
		}
		defer stmt.Close()

		for _, s := range snapshots {
			_, err := stmt.ExecContext(ctx,
				s.OrgID, s.SnapshotDate, s.SKU, s.WarehouseID, s.Batch,
				s.QtyOnHand, s.ExpiresAt,
			)
			if err != nil {
				return fmt.Errorf("upserting snapshot for sku %s batch %s: %w", s.SKU, s.Batch, err)
			}
		}

		return nil
	})
	if err != nil {
		return wrapErr("upserting snapshots", err)
	}

	return nil
}
