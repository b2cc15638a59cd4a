// internal/domain/models.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// GlobalWarehouse is the sentinel warehouse for sales with no warehouse
	// assignment, so every rollup key is fully populated.
	GlobalWarehouse = "GLOBAL"

	// AllChannels is the sentinel channel for sales with no channel assignment.
	AllChannels = "ALL"
)

// SalesEvent represents one order line as supplied by the ingestion
// collaborator. Immutable once recorded except for corrective upserts keyed
// by (org, order, line).
type SalesEvent struct {
	OrgID       string          `json:"org_id" db:"org_id"`
	OrderID     string          `json:"order_id" db:"order_id"`
	LineID      string          `json:"line_id" db:"line_id"`
	OccurredAt  time.Time       `json:"occurred_at" db:"occurred_at"`
	SKU         string          `json:"sku" db:"sku"`
	Quantity    float64         `json:"quantity" db:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price" db:"unit_price"`
	NetAmount   decimal.Decimal `json:"net_amount" db:"net_amount"`
	Currency    string          `json:"currency" db:"currency"`
	WarehouseID *string         `json:"warehouse_id" db:"warehouse_id"`
	Channel     *string         `json:"channel" db:"channel"`
	Status      string          `json:"status" db:"status"`
	ReturnedQty float64         `json:"returned_qty" db:"returned_qty"`
	PromoCode   *string         `json:"promo_code" db:"promo_code"`
}

// DailySalesRollup is the per-day aggregate of sales events for one
// (org, date, sku, warehouse, channel) key. Regenerated by the aggregator,
// never hand-edited.
type DailySalesRollup struct {
	OrgID       string          `json:"org_id" db:"org_id"`
	SalesDate   time.Time       `json:"sales_date" db:"sales_date"`
	SKU         string          `json:"sku" db:"sku"`
	WarehouseID string          `json:"warehouse_id" db:"warehouse_id"`
	Channel     string          `json:"channel" db:"channel"`
	Units       float64         `json:"units" db:"units"`
	Revenue     decimal.Decimal `json:"revenue" db:"revenue"`
	Orders      int             `json:"orders" db:"orders"`
}

// DailyUnits is a single point of a per-SKU daily demand series.
type DailyUnits struct {
	SalesDate time.Time `json:"sales_date" db:"sales_date"`
	Units     float64   `json:"units" db:"units"`
}

// StockSnapshot is a point-in-time on-hand quantity for one batch of a SKU
// at a warehouse. Multiple batches may exist per day; the SKU-day on-hand
// total is the sum across batches.
type StockSnapshot struct {
	OrgID        string     `json:"org_id" db:"org_id"`
	SnapshotDate time.Time  `json:"snapshot_date" db:"snapshot_date"`
	SKU          string     `json:"sku" db:"sku"`
	WarehouseID  string     `json:"warehouse_id" db:"warehouse_id"`
	Batch        string     `json:"batch" db:"batch"`
	QtyOnHand    float64    `json:"qty_on_hand" db:"qty_on_hand"`
	ExpiresAt    *time.Time `json:"expires_at" db:"expires_at"`
}

// Buffer is the TOC-style target stock record for one (org, sku, warehouse)
// pair. Fully recomputed on each recalculation cycle; rows for SKUs with no
// recent demand keep their last computed values.
type Buffer struct {
	OrgID           string    `json:"org_id" db:"org_id"`
	SKU             string    `json:"sku" db:"sku"`
	WarehouseID     string    `json:"warehouse_id" db:"warehouse_id"`
	LeadTimeDays    float64   `json:"lead_time_days" db:"lead_time_days"`
	AvgDailyDemand  float64   `json:"avg_daily_demand" db:"avg_daily_demand"`
	BufferQty       float64   `json:"buffer_qty" db:"buffer_qty"`
	RedThreshold    float64   `json:"red_threshold" db:"red_threshold"`
	YellowThreshold float64   `json:"yellow_threshold" db:"yellow_threshold"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// PurchaseOrder is a supplier commitment header. A nil ReceivedAt means the
// order is still in transit and counts toward inbound quantity.
type PurchaseOrder struct {
	OrgID      string     `json:"org_id" db:"org_id"`
	PONumber   string     `json:"po_number" db:"po_number"`
	SupplierID string     `json:"supplier_id" db:"supplier_id"`
	OrderedAt  time.Time  `json:"ordered_at" db:"ordered_at"`
	ReceivedAt *time.Time `json:"received_at" db:"received_at"`
}

// PurchaseOrderLine is one SKU line of a purchase order.
type PurchaseOrderLine struct {
	OrgID    string  `json:"org_id" db:"org_id"`
	PONumber string  `json:"po_number" db:"po_number"`
	SKU      string  `json:"sku" db:"sku"`
	Quantity float64 `json:"quantity" db:"quantity"`
	MOQ      float64 `json:"moq" db:"moq"`
	PackSize float64 `json:"pack_size" db:"pack_size"`
}

// Supplier is reference data carrying the default lead time for a vendor.
type Supplier struct {
	OrgID               string  `json:"org_id" db:"org_id"`
	SupplierID          string  `json:"supplier_id" db:"supplier_id"`
	Name                string  `json:"name" db:"name"`
	DefaultLeadTimeDays float64 `json:"default_lead_time_days" db:"default_lead_time_days"`
}

// LeadTimeStat is one observed order-to-receipt duration for a SKU/supplier.
type LeadTimeStat struct {
	OrgID        string  `json:"org_id" db:"org_id"`
	SupplierID   string  `json:"supplier_id" db:"supplier_id"`
	SKU          string  `json:"sku" db:"sku"`
	ObservedDays float64 `json:"observed_days" db:"observed_days"`
}

// Warehouse is a stock location.
type Warehouse struct {
	OrgID     string    `json:"org_id" db:"org_id"`
	Code      string    `json:"code" db:"code"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Product is SKU reference data.
type Product struct {
	OrgID     string    `json:"org_id" db:"org_id"`
	SKU       string    `json:"sku" db:"sku"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// RecommendationRow is a pure projection derived from a buffer and the live
// stock position; regenerated on every request, never stored.
type RecommendationRow struct {
	SKU               string   `json:"sku"`
	WarehouseID       string   `json:"warehouse_id"`
	Zone              Zone     `json:"zone"`
	Segment           string   `json:"segment"`
	OnHand            float64  `json:"on_hand"`
	Inbound           float64  `json:"inbound"`
	Reserved          float64  `json:"reserved"`
	StockPosition     float64  `json:"stock_position"`
	BufferQty         float64  `json:"buffer_qty"`
	RedThreshold      float64  `json:"red_threshold"`
	YellowThreshold   float64  `json:"yellow_threshold"`
	AvgDailyDemand    float64  `json:"avg_daily_demand"`
	BufferPenetration *float64 `json:"buffer_penetration"`
	SuggestedQty      float64  `json:"suggested_qty"`
	Overstock         bool     `json:"overstock"`
	OverstockRatio    *float64 `json:"overstock_ratio,omitempty"`
	Reason            string   `json:"reason"`
}

// RecommendationPage is the paginated recommendation read result. The
// effective date is the snapshot date actually used for on-hand figures,
// which may precede the requested date.
type RecommendationPage struct {
	Data          []RecommendationRow `json:"data"`
	Total         int                 `json:"total"`
	Page          int                 `json:"page"`
	PageSize      int                 `json:"page_size"`
	EffectiveDate *time.Time          `json:"effective_date"`
}

// ZoneSummary tallies recommendation rows per zone for one warehouse.
type ZoneSummary struct {
	WarehouseID   string     `json:"warehouse_id"`
	EffectiveDate *time.Time `json:"effective_date"`
	Red           int        `json:"red"`
	Yellow        int        `json:"yellow"`
	Green         int        `json:"green"`
	Overstock     int        `json:"overstock"`
	Total         int        `json:"total"`
}

// SkuKPI carries the derived read-only metrics for one SKU.
type SkuKPI struct {
	SKU              string   `json:"sku"`
	WarehouseID      string   `json:"warehouse_id,omitempty"`
	OnHand           float64  `json:"on_hand"`
	AvgDailyDemand   float64  `json:"avg_daily_demand"`
	DaysOfSupply     *float64 `json:"dos"`
	Turns            float64  `json:"turns"`
	MedianDaysToSell *float64 `json:"median_days_to_sell"`
	FEFORisk         bool     `json:"fefo_risk"`
}

// ExplainPayload is the structured snapshot handed to human- or agent-facing
// explanation layers. Read-only; reflects the other components' outputs.
type ExplainPayload struct {
	OrgID             string            `json:"org_id"`
	SKU               string            `json:"sku"`
	WarehouseID       string            `json:"warehouse_id"`
	EffectiveDate     *time.Time        `json:"effective_date"`
	Buffer            *Buffer           `json:"buffer"`
	OnHand            float64           `json:"on_hand"`
	Inbound           float64           `json:"inbound"`
	DemandVariability *float64          `json:"demand_variability"`
	DailyUnits        []float64         `json:"daily_units"`
	Constraints       *OrderConstraints `json:"constraints"`
}

// OrderConstraints carries the ordering constraints known for a SKU.
type OrderConstraints struct {
	MOQ      float64 `json:"moq"`
	PackSize float64 `json:"pack_size"`
}

// RecalcRun records one buffer recalculation execution for a warehouse.
type RecalcRun struct {
	ID           int64      `json:"id" db:"id"`
	OrgID        string     `json:"org_id" db:"org_id"`
	WarehouseID  string     `json:"warehouse_id" db:"warehouse_id"`
	Status       string     `json:"status" db:"status"`
	SKUCount     int        `json:"sku_count" db:"sku_count"`
	StartedAt    time.Time  `json:"started_at" db:"started_at"`
	CompletedAt  *time.Time `json:"completed_at" db:"completed_at"`
	ErrorMessage string     `json:"error_message" db:"error_message"`
}

// RecalcRun statuses.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// DateRange is a closed [From, To] day range.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Days returns the number of calendar days covered by the range, inclusive.
func (r DateRange) Days() int {
	return int(r.To.Sub(r.From).Hours()/24) + 1
}

// RecommendationFilter identifies one recommendation read.
type RecommendationFilter struct {
	OrgID       string
	WarehouseID string
	Date        time.Time
	Page        int
	PageSize    int
}
