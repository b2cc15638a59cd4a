// internal/repository/purchase_order_repository.go
package repository

import (
	"context"

	"github.com/andresuchdata/bufferboard/internal/domain"
)

// PurchaseOrderRepository covers supplier commitments: the inbound-quantity
// lookups the recommendation and explain paths read, lead time statistics,
// and the ingest upsert. The core never mutates received orders.
type PurchaseOrderRepository interface {
	// InboundBySKU sums line quantities across orders not yet received
	// (received_at IS NULL) for the listed SKUs.
	InboundBySKU(ctx context.Context, orgID string, skus []string) (map[string]float64, error)

	// Inbound is the single-SKU form of InboundBySKU.
	Inbound(ctx context.Context, orgID, sku string) (float64, error)

	// Constraints returns the MOQ/pack size from the most recent order line
	// for the SKU, or nil when the SKU was never ordered.
	Constraints(ctx context.Context, orgID, sku string) (*domain.OrderConstraints, error)

	// MedianLeadTimes returns the median observed lead time per SKU from the
	// lead time statistics. SKUs without observations are absent.
	MedianLeadTimes(ctx context.Context, orgID string, skus []string) (map[string]float64, error)

	// SupplierDefaults returns the default lead time of each SKU's most
	// recent supplier. SKUs never ordered, or whose supplier carries no
	// default, are absent.
	SupplierDefaults(ctx context.Context, orgID string, skus []string) (map[string]float64, error)

	// UpsertOrder writes a purchase order header and its lines keyed by
	// (org, po_number) and (org, po_number, sku).
	UpsertOrder(ctx context.Context, order domain.PurchaseOrder, lines []domain.PurchaseOrderLine) error
}
