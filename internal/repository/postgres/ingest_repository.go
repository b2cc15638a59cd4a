// internal/repository/postgres/ingest_repository.go
package postgres

import (
	"context"
	"fmt"

	"github.com/andresuchdata/bufferboard/internal/domain"
	"github.com/andresuchdata/bufferboard/internal/repository"
	"github.com/jmoiron/sqlx"
)

type ingestRepository struct {
	db *DB
}

func NewIngestRepository(db *DB) repository.IngestRepository {
	return &ingestRepository{db: db}
}

func (r *ingestRepository) UpsertSalesEvents(ctx context.Context, events []domain.SalesEvent) error {
	if len(events) == 0 {
		return nil
	}

	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO sales_events (
				org_id, order_id, line_id, occurred_at, sku, quantity,
				unit_price, net_amount, currency, warehouse_id, channel,
				status, returned_qty, promo_code, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW())
			ON CONFLICT (org_id, order_id, line_id)
			DO UPDATE SET
				occurred_at = EXCLUDED.occurred_at,
				sku = EXCLUDED.sku,
				quantity = EXCLUDED.quantity,
				unit_price = EXCLUDED.unit_price,
				net_amount = EXCLUDED.net_amount,
				currency = EXCLUDED.currency,
				warehouse_id = EXCLUDED.warehouse_id,
				channel = EXCLUDED.channel,
				status = EXCLUDED.status,
				returned_qty = EXCLUDED.returned_qty,
				promo_code = EXCLUDED.promo_code,
				updated_at = NOW()
		`

		stmt, err := tx.PreparexContext(ctx, query)
		if err != nil {
			return fmt.Errorf("preparing sales event upsert: %w", err)
		}
		defer stmt.Close()

		for _, e := range events {
			_, err := stmt.ExecContext(ctx,
				e.OrgID, e.OrderID, e.LineID, e.OccurredAt, e.SKU, e.Quantity,
				e.UnitPrice, e.NetAmount, e.Currency, e.WarehouseID, e.Channel,
				e.Status, e.ReturnedQty, e.PromoCode,
			)
			if err != nil {
				return fmt.Errorf("upserting sales event %s/%s: %w", e.OrderID, e.LineID, err)
			}
		}

		return nil
	})
	if err != nil {
		return wrapErr("upserting sales events", err)
	}

	return nil
}

func (r *ingestRepository) UpsertWarehouse(ctx context.Context, warehouse *domain.Warehouse) error {
	query := `
		INSERT INTO warehouses (org_id, code, name, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (org_id, code)
		DO UPDATE SET name = EXCLUDED.name, updated_at = NOW()
	`

	if _, err := r.db.ExecContext(ctx, query, warehouse.OrgID, warehouse.Code, warehouse.Name); err != nil {
		return wrapErr("upserting warehouse", err)
	}

	return nil
}

func (r *ingestRepository) UpsertProduct(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (org_id, sku, name, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (org_id, sku)
		DO UPDATE SET name = EXCLUDED.name, updated_at = NOW()
	`

	if _, err := r.db.ExecContext(ctx, query, product.OrgID, product.SKU, product.Name); err != nil {
		return wrapErr("upserting product", err)
	}

	return nil
}

func (r *ingestRepository) UpsertSupplier(ctx context.Context, supplier *domain.Supplier) error {
	query := `
		INSERT INTO suppliers (org_id, supplier_id, name, default_lead_time_days)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (org_id, supplier_id)
		DO UPDATE SET
			name = EXCLUDED.name,
			default_lead_time_days = EXCLUDED.default_lead_time_days
	`

	if _, err := r.db.ExecContext(ctx, query,
		supplier.OrgID, supplier.SupplierID, supplier.Name, supplier.DefaultLeadTimeDays,
	); err != nil {
		return wrapErr("upserting supplier", err)
	}

	return nil
}

func (r *ingestRepository) InsertLeadTimeStat(ctx context.Context, stat *domain.LeadTimeStat) error {
	query := `
		INSERT INTO lead_time_stats (org_id, supplier_id, sku, observed_days)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := r.db.ExecContext(ctx, query,
		stat.OrgID, stat.SupplierID, stat.SKU, stat.ObservedDays,
	); err != nil {
		return wrapErr("inserting lead time stat", err)
	}

	return nil
}
