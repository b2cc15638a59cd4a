package service

import (
	"context"
	"time"

	"github.com/andresuchdata/bufferboard/internal/buffer"
	"github.com/andresuchdata/bufferboard/internal/domain"
	"github.com/andresuchdata/bufferboard/internal/repository"
)

type KPIService struct {
	sales repository.SalesRepository
	stock repository.StockRepository
	calc  *buffer.Calculator
}

func NewKPIService(sales repository.SalesRepository, stock repository.StockRepository, calc *buffer.Calculator) *KPIService {
	return &KPIService{sales: sales, stock: stock, calc: calc}
}

// GetSkuKPI derives days-of-supply, annualized turns, median days-to-sell
// and FEFO risk for one SKU. A nil warehouse spans all warehouses; a nil
// range defaults to the trailing lookback window. A SKU with neither sales
// nor stock still yields a KPI row of zero values.
func (s *KPIService) GetSkuKPI(ctx context.Context, orgID, sku string, warehouseID *string, rng *domain.DateRange) (*domain.SkuKPI, error) {
	if orgID == "" {
		return nil, domain.NewValidationError("org_id", "must not be empty")
	}
	if sku == "" {
		return nil, domain.NewValidationError("sku", "must not be empty")
	}

	window, err := s.resolveWindow(rng)
	if err != nil {
		return nil, err
	}

	series, err := s.sales.GetDailyUnits(ctx, orgID, sku, warehouseID, window)
	if err != nil {
		return nil, err
	}

	daily := make([]float64, len(series))
	for i, p := range series {
		daily[i] = p.Units
	}
	stats := s.calc.ComputeDemand(daily, window.Days())

	now := time.Now().UTC()
	onHand, _, err := s.stock.OnHand(ctx, orgID, sku, warehouseID, truncateDay(now))
	if err != nil {
		return nil, err
	}

	expiry, err := s.stock.EarliestExpiry(ctx, orgID, sku, warehouseID)
	if err != nil {
		return nil, err
	}

	kpi := s.calc.ComputeKPI(buffer.KPIInput{
		OnHand:         onHand,
		AvgDailyDemand: stats.AvgDaily,
		UnitsSold:      stats.TotalUnits,
		WindowDays:     window.Days(),
		EarliestExpiry: expiry,
		Now:            now,
	})

	result := &domain.SkuKPI{
		SKU:              sku,
		OnHand:           onHand,
		AvgDailyDemand:   stats.AvgDaily,
		DaysOfSupply:     kpi.DaysOfSupply,
		Turns:            kpi.Turns,
		MedianDaysToSell: kpi.MedianDaysToSell,
		FEFORisk:         kpi.FEFORisk,
	}
	if warehouseID != nil {
		result.WarehouseID = *warehouseID
	}

	return result, nil
}

func (s *KPIService) resolveWindow(rng *domain.DateRange) (domain.DateRange, error) {
	if rng == nil {
		to := truncateDay(time.Now().UTC())
		from := to.AddDate(0, 0, -(s.calc.Policy().LookbackDays - 1))
		return domain.DateRange{From: from, To: to}, nil
	}

	window := domain.DateRange{From: truncateDay(rng.From), To: truncateDay(rng.To)}
	if window.From.IsZero() || window.To.IsZero() {
		return domain.DateRange{}, domain.NewValidationError("range", "from and to are required together")
	}
	if window.To.Before(window.From) {
		return domain.DateRange{}, domain.NewValidationError("range", "to must not precede from")
	}

	return window, nil
}
