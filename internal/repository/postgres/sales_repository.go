// internal/repository/postgres/sales_repository.go
package postgres

import (
	"context"

	"github.com/andresuchdata/bufferboard/internal/domain"
	"github.com/andresuchdata/bufferboard/internal/repository"
	"github.com/jmoiron/sqlx"
)

type salesRepository struct {
	db *DB
}

func NewSalesRepository(db *DB) repository.SalesRepository {
	return &salesRepository{db: db}
}

// RebuildDailyRollups regenerates the rollup rows for every key touched by
// sales events inside the range. Delete-then-insert inside one transaction
// keeps the operation idempotent and atomic per range: a key whose events
// were all corrected away disappears instead of keeping a stale total, and
// concurrent readers see either the old or the new generation.
func (r *salesRepository) RebuildDailyRollups(ctx context.Context, orgID string, rng domain.DateRange) error {
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		deleteQuery := `
			DELETE FROM daily_sales_rollups
			WHERE org_id = $1 AND sales_date BETWEEN $2::date AND $3::date
		`
		if _, err := tx.ExecContext(ctx, deleteQuery, orgID, rng.From, rng.To); err != nil {
			return err
		}

		insertQuery := `
			INSERT INTO daily_sales_rollups (
				org_id, sales_date, sku, warehouse_id, channel,
				units, revenue, orders, updated_at
			)
			SELECT
				org_id,
				occurred_at::date AS sales_date,
				sku,
				COALESCE(warehouse_id, $4) AS warehouse_id,
				COALESCE(channel, $5) AS channel,
				SUM(quantity) AS units,
				SUM(net_amount) AS revenue,
				COUNT(DISTINCT order_id) AS orders,
				NOW()
			FROM sales_events
			WHERE org_id = $1
				AND occurred_at >= $2::date
				AND occurred_at < $3::date + INTERVAL '1 day'
			GROUP BY org_id, occurred_at::date, sku,
				COALESCE(warehouse_id, $4), COALESCE(channel, $5)
			ON CONFLICT (org_id, sales_date, sku, warehouse_id, channel)
			DO UPDATE SET
				units = EXCLUDED.units,
				revenue = EXCLUDED.revenue,
				orders = EXCLUDED.orders,
				updated_at = NOW()
		`
		_, err := tx.ExecContext(ctx, insertQuery,
			orgID, rng.From, rng.To, domain.GlobalWarehouse, domain.AllChannels)
		return err
	})
	if err != nil {
		return wrapErr("rebuilding daily rollups", err)
	}

	return nil
}

func (r *salesRepository) GetDailyUnits(ctx context.Context, orgID, sku string, warehouseID *string, rng domain.DateRange) ([]domain.DailyUnits, error) {
	warehouseFilter := ""
	args := []interface{}{orgID, sku, rng.From, rng.To}
	if warehouseID != nil {
		warehouseFilter = " AND warehouse_id = $5"
		args = append(args, *warehouseID)
	}

	query := `
		SELECT sales_date, SUM(units) AS units
		FROM daily_sales_rollups
		WHERE org_id = $1 AND sku = $2
			AND sales_date BETWEEN $3::date AND $4::date` + warehouseFilter + `
		GROUP BY sales_date
		ORDER BY sales_date
	`

	var series []domain.DailyUnits
	if err := r.db.SelectContext(ctx, &series, query, args...); err != nil {
		return nil, wrapErr("getting daily units", err)
	}

	return series, nil
}

func (r *salesRepository) ListSKUDailyUnits(ctx context.Context, orgID, warehouseID string, rng domain.DateRange) (map[string][]domain.DailyUnits, error) {
	query := `
		SELECT sku, sales_date, SUM(units) AS units
		FROM daily_sales_rollups
		WHERE org_id = $1 AND warehouse_id = $2
			AND sales_date BETWEEN $3::date AND $4::date
		GROUP BY sku, sales_date
		ORDER BY sku, sales_date
	`

	rows, err := r.db.QueryxContext(ctx, query, orgID, warehouseID, rng.From, rng.To)
	if err != nil {
		return nil, wrapErr("listing sku daily units", err)
	}
	defer rows.Close()

	result := make(map[string][]domain.DailyUnits)
	for rows.Next() {
		var sku string
		var point domain.DailyUnits
		if err := rows.Scan(&sku, &point.SalesDate, &point.Units); err != nil {
			return nil, wrapErr("scanning sku daily units", err)
		}
		result[sku] = append(result[sku], point)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterating sku daily units", err)
	}

	return result, nil
}
