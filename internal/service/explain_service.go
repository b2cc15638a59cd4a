package service

import (
	"context"
	"errors"
	"time"

	"github.com/andresuchdata/bufferboard/internal/buffer"
	"github.com/andresuchdata/bufferboard/internal/domain"
	"github.com/andresuchdata/bufferboard/internal/repository"
)

type ExplainService struct {
	buffers repository.BufferRepository
	sales   repository.SalesRepository
	stock   repository.StockRepository
	orders  repository.PurchaseOrderRepository
	calc    *buffer.Calculator
}

func NewExplainService(
	buffers repository.BufferRepository,
	sales repository.SalesRepository,
	stock repository.StockRepository,
	orders repository.PurchaseOrderRepository,
	calc *buffer.Calculator,
) *ExplainService {
	return &ExplainService{
		buffers: buffers,
		sales:   sales,
		stock:   stock,
		orders:  orders,
		calc:    calc,
	}
}

// BuildPayload assembles the structured explanation snapshot for one SKU at
// a warehouse: the stored buffer, live stock and inbound figures, demand
// variability, the zero-filled daily unit series of the lookback window,
// and any known ordering constraints. Returns domain.ErrNotFound when the
// SKU has neither a buffer nor a stock snapshot at the warehouse.
func (s *ExplainService) BuildPayload(ctx context.Context, orgID, warehouseID, sku string, date time.Time) (*domain.ExplainPayload, error) {
	if orgID == "" {
		return nil, domain.NewValidationError("org_id", "must not be empty")
	}
	if warehouseID == "" {
		return nil, domain.NewValidationError("warehouse_id", "must not be empty")
	}
	if sku == "" {
		return nil, domain.NewValidationError("sku", "must not be empty")
	}
	if date.IsZero() {
		date = time.Now().UTC()
	}
	date = truncateDay(date)

	buf, err := s.buffers.Get(ctx, orgID, sku, warehouseID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	onHand, effective, err := s.stock.OnHand(ctx, orgID, sku, &warehouseID, date)
	if err != nil {
		return nil, err
	}

	if buf == nil && effective == nil {
		return nil, domain.ErrNotFound
	}

	inbound, err := s.orders.Inbound(ctx, orgID, sku)
	if err != nil {
		return nil, err
	}

	constraints, err := s.orders.Constraints(ctx, orgID, sku)
	if err != nil {
		return nil, err
	}

	policy := s.calc.Policy()
	window := domain.DateRange{
		From: date.AddDate(0, 0, -(policy.LookbackDays - 1)),
		To:   date,
	}
	series, err := s.sales.GetDailyUnits(ctx, orgID, sku, &warehouseID, window)
	if err != nil {
		return nil, err
	}

	daily := zeroFill(series, window)
	stats := s.calc.ComputeDemand(daily, window.Days())

	return &domain.ExplainPayload{
		OrgID:             orgID,
		SKU:               sku,
		WarehouseID:       warehouseID,
		EffectiveDate:     effective,
		Buffer:            buf,
		OnHand:            onHand,
		Inbound:           inbound,
		DemandVariability: stats.Variability,
		DailyUnits:        daily,
		Constraints:       constraints,
	}, nil
}

// zeroFill expands a sparse rollup series into one value per window day, in
// chronological order, so consumers see the dormant days explicitly.
func zeroFill(series []domain.DailyUnits, window domain.DateRange) []float64 {
	daily := make([]float64, window.Days())
	for _, p := range series {
		idx := int(truncateDay(p.SalesDate).Sub(window.From).Hours() / 24)
		if idx >= 0 && idx < len(daily) {
			daily[idx] += p.Units
		}
	}
	return daily
}
