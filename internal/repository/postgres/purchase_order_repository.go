// internal/repository/postgres/purchase_order_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andresuchdata/bufferboard/internal/domain"
	"github.com/andresuchdata/bufferboard/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type purchaseOrderRepository struct {
	db *DB
}

func NewPurchaseOrderRepository(db *DB) repository.PurchaseOrderRepository {
	return &purchaseOrderRepository{db: db}
}

func (r *purchaseOrderRepository) InboundBySKU(ctx context.Context, orgID string, skus []string) (map[string]float64, error) {
	if len(skus) == 0 {
		return map[string]float64{}, nil
	}

	query := `
		SELECT l.sku, COALESCE(SUM(l.quantity), 0) AS qty
		FROM purchase_order_lines l
		JOIN purchase_orders o
			ON o.org_id = l.org_id AND o.po_number = l.po_number
		WHERE l.org_id = $1
			AND o.received_at IS NULL
			AND l.sku = ANY($2::text[])
		GROUP BY l.sku
	`

	rows, err := r.db.QueryxContext(ctx, query, orgID, pq.Array(skus))
	if err != nil {
		return nil, wrapErr("getting inbound by sku", err)
	}
	defer rows.Close()

	result := make(map[string]float64, len(skus))
	for rows.Next() {
		var sku string
		var qty float64
		if err := rows.Scan(&sku, &qty); err != nil {
			return nil, wrapErr("scanning inbound row", err)
		}
		result[sku] = qty
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterating inbound rows", err)
	}

	return result, nil
}

func (r *purchaseOrderRepository) Inbound(ctx context.Context, orgID, sku string) (float64, error) {
	query := `
		SELECT COALESCE(SUM(l.quantity), 0)
		FROM purchase_order_lines l
		JOIN purchase_orders o
			ON o.org_id = l.org_id AND o.po_number = l.po_number
		WHERE l.org_id = $1 AND l.sku = $2 AND o.received_at IS NULL
	`

	var qty float64
	if err := r.db.GetContext(ctx, &qty, query, orgID, sku); err != nil {
		return 0, wrapErr("getting inbound", err)
	}

	return qty, nil
}

func (r *purchaseOrderRepository) Constraints(ctx context.Context, orgID, sku string) (*domain.OrderConstraints, error) {
	query := `
		SELECT l.moq, l.pack_size
		FROM purchase_order_lines l
		JOIN purchase_orders o
			ON o.org_id = l.org_id AND o.po_number = l.po_number
		WHERE l.org_id = $1 AND l.sku = $2
		ORDER BY o.ordered_at DESC
		LIMIT 1
	`

	var c domain.OrderConstraints
	err := r.db.QueryRowxContext(ctx, query, orgID, sku).Scan(&c.MOQ, &c.PackSize)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("getting order constraints", err)
	}

	return &c, nil
}

func (r *purchaseOrderRepository) MedianLeadTimes(ctx context.Context, orgID string, skus []string) (map[string]float64, error) {
	if len(skus) == 0 {
		return map[string]float64{}, nil
	}

	query := `
		SELECT sku,
			percentile_cont(0.5) WITHIN GROUP (ORDER BY observed_days) AS median_days
		FROM lead_time_stats
		WHERE org_id = $1 AND sku = ANY($2::text[])
		GROUP BY sku
	`

	rows, err := r.db.QueryxContext(ctx, query, orgID, pq.Array(skus))
	if err != nil {
		return nil, wrapErr("getting median lead times", err)
	}
	defer rows.Close()

	result := make(map[string]float64, len(skus))
	for rows.Next() {
		var sku string
		var days float64
		if err := rows.Scan(&sku, &days); err != nil {
			return nil, wrapErr("scanning median lead time", err)
		}
		result[sku] = days
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterating median lead times", err)
	}

	return result, nil
}

func (r *purchaseOrderRepository) SupplierDefaults(ctx context.Context, orgID string, skus []string) (map[string]float64, error) {
	if len(skus) == 0 {
		return map[string]float64{}, nil
	}

	query := `
		SELECT DISTINCT ON (l.sku) l.sku, s.default_lead_time_days
		FROM purchase_order_lines l
		JOIN purchase_orders o
			ON o.org_id = l.org_id AND o.po_number = l.po_number
		JOIN suppliers s
			ON s.org_id = o.org_id AND s.supplier_id = o.supplier_id
		WHERE l.org_id = $1
			AND l.sku = ANY($2::text[])
			AND s.default_lead_time_days > 0
		ORDER BY l.sku, o.ordered_at DESC
	`

	rows, err := r.db.QueryxContext(ctx, query, orgID, pq.Array(skus))
	if err != nil {
		return nil, wrapErr("getting supplier defaults", err)
	}
	defer rows.Close()

	result := make(map[string]float64, len(skus))
	for rows.Next() {
		var sku string
		var days float64
		if err := rows.Scan(&sku, &days); err != nil {
			return nil, wrapErr("scanning supplier default", err)
		}
		result[sku] = days
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterating supplier defaults", err)
	}

	return result, nil
}

func (r *purchaseOrderRepository) UpsertOrder(ctx context.Context, order domain.PurchaseOrder, lines []domain.PurchaseOrderLine) error {
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		headerQuery := `
			INSERT INTO purchase_orders (
				org_id, po_number, supplier_id, ordered_at, received_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, NOW())
			ON CONFLICT (org_id, po_number)
			DO UPDATE SET
				supplier_id = EXCLUDED.supplier_id,
				ordered_at = EXCLUDED.ordered_at,
				received_at = EXCLUDED.received_at,
				updated_at = NOW()
		`
		if _, err := tx.ExecContext(ctx, headerQuery,
			order.OrgID, order.PONumber, order.SupplierID,
			order.OrderedAt, order.ReceivedAt,
		); err != nil {
			return fmt.Errorf("upserting purchase order %s: %w", order.PONumber, err)
		}

		lineQuery := `
			INSERT INTO purchase_order_lines (
				org_id, po_number, sku, quantity, moq, pack_size
			) VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (org_id, po_number, sku)
			DO UPDATE SET
				quantity = EXCLUDED.quantity,
				moq = EXCLUDED.moq,
				pack_size = EXCLUDED.pack_size
		`

		stmt, err := tx.PreparexContext(ctx, lineQuery)
		if err != nil {
			return fmt.Errorf("preparing line upsert: %w", err)
		}
		defer stmt.Close()

		for _, l := range lines {
			_, err := stmt.ExecContext(ctx,
				order.OrgID, order.PONumber, l.SKU, l.Quantity, l.MOQ, l.PackSize,
			)
			if err != nil {
				return fmt.Errorf("upserting line %s/%s: %w", order.PONumber, l.SKU, err)
			}
		}

		return nil
	})
	if err != nil {
		return wrapErr("upserting purchase order", err)
	}

	return nil
}
