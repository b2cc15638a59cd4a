package service

import (
	"context"
	"sort"
	"time"

	"github.com/andresuchdata/bufferboard/internal/buffer"
	"github.com/andresuchdata/bufferboard/internal/cache"
	"github.com/andresuchdata/bufferboard/internal/domain"
	"github.com/andresuchdata/bufferboard/internal/repository"
	"github.com/rs/zerolog/log"
)

// RecalcResult summarizes one buffer recalculation.
type RecalcResult struct {
	RunID       int64            `json:"run_id"`
	WarehouseID string           `json:"warehouse_id"`
	Updated     int              `json:"updated"`
	Window      domain.DateRange `json:"window"`
}

type BufferService struct {
	buffers    repository.BufferRepository
	sales      repository.SalesRepository
	orders     repository.PurchaseOrderRepository
	references repository.ReferenceRepository
	runs       repository.RunRepository
	calc       *buffer.Calculator
	cache      cache.SummaryCache
}

func NewBufferService(
	buffers repository.BufferRepository,
	sales repository.SalesRepository,
	orders repository.PurchaseOrderRepository,
	references repository.ReferenceRepository,
	runs repository.RunRepository,
	calc *buffer.Calculator,
	cacheImpl cache.SummaryCache,
) *BufferService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopSummaryCache()
	}
	return &BufferService{
		buffers:    buffers,
		sales:      sales,
		orders:     orders,
		references: references,
		runs:       runs,
		calc:       calc,
		cache:      cacheImpl,
	}
}

// Recalc recomputes every buffer for a warehouse from the demand of the
// lookback window. lookbackDays 0 means the policy default. SKUs with no
// sales in the window keep their stored rows untouched; a warehouse with no
// active SKUs is a successful no-op.
func (s *BufferService) Recalc(ctx context.Context, orgID, warehouseID string, lookbackDays int) (*RecalcResult, error) {
	if orgID == "" {
		return nil, domain.NewValidationError("org_id", "must not be empty")
	}
	if warehouseID == "" {
		return nil, domain.NewValidationError("warehouse_id", "must not be empty")
	}
	if lookbackDays < 0 {
		return nil, domain.NewValidationError("lookback_days", "must not be negative")
	}
	if lookbackDays == 0 {
		lookbackDays = s.calc.Policy().LookbackDays
	}

	exists, err := s.references.WarehouseExists(ctx, orgID, warehouseID)
	if err != nil {
		return nil, err
	}
	if !exists && warehouseID != domain.GlobalWarehouse {
		return nil, domain.NewValidationError("warehouse_id", "unknown warehouse")
	}

	to := truncateDay(time.Now().UTC())
	window := domain.DateRange{
		From: to.AddDate(0, 0, -(lookbackDays - 1)),
		To:   to,
	}

	run := &domain.RecalcRun{
		OrgID:       orgID,
		WarehouseID: warehouseID,
		Status:      domain.RunStatusRunning,
		StartedAt:   time.Now().UTC(),
	}
	if err := s.runs.Create(ctx, run); err != nil {
		return nil, err
	}

	result, err := s.recalc(ctx, orgID, warehouseID, window)
	now := time.Now().UTC()
	run.CompletedAt = &now
	if err != nil {
		run.Status = domain.RunStatusFailed
		run.ErrorMessage = err.Error()
		if updateErr := s.runs.Update(ctx, run); updateErr != nil {
			log.Error().Err(updateErr).Int64("run_id", run.ID).Msg("recalc: failed to record run failure")
		}
		return nil, err
	}

	run.Status = domain.RunStatusCompleted
	run.SKUCount = result.Updated
	if err := s.runs.Update(ctx, run); err != nil {
		log.Error().Err(err).Int64("run_id", run.ID).Msg("recalc: failed to record run completion")
	}

	if err := s.cache.InvalidateOrg(ctx, orgID); err != nil {
		log.Warn().Err(err).Str("org_id", orgID).Msg("recalc: cache invalidation failed")
	}

	result.RunID = run.ID
	result.Window = window
	return result, nil
}

func (s *BufferService) recalc(ctx context.Context, orgID, warehouseID string, window domain.DateRange) (*RecalcResult, error) {
	series, err := s.sales.ListSKUDailyUnits(ctx, orgID, warehouseID, window)
	if err != nil {
		return nil, err
	}
	if len(series) == 0 {
		log.Info().Str("org_id", orgID).Str("warehouse_id", warehouseID).
			Msg("recalc: no sales in lookback window, nothing to update")
		return &RecalcResult{WarehouseID: warehouseID, Updated: 0}, nil
	}

	skus := make([]string, 0, len(series))
	for sku := range series {
		skus = append(skus, sku)
	}
	sort.Strings(skus)

	stored, err := s.buffers.ListByWarehouse(ctx, orgID, warehouseID)
	if err != nil {
		return nil, err
	}
	medians, err := s.orders.MedianLeadTimes(ctx, orgID, skus)
	if err != nil {
		return nil, err
	}
	supplierDefaults, err := s.orders.SupplierDefaults(ctx, orgID, skus)
	if err != nil {
		return nil, err
	}

	policy := s.calc.Policy()
	updated := make([]domain.Buffer, 0, len(skus))
	for _, sku := range skus {
		points := series[sku]
		daily := make([]float64, len(points))
		for i, p := range points {
			daily[i] = p.Units
		}

		stats := s.calc.ComputeDemand(daily, window.Days())
		leadTime := s.resolveLeadTime(sku, stored, medians, supplierDefaults, policy)
		calc := s.calc.Compute(stats.AvgDaily, leadTime)

		updated = append(updated, domain.Buffer{
			OrgID:           orgID,
			SKU:             sku,
			WarehouseID:     warehouseID,
			LeadTimeDays:    leadTime,
			AvgDailyDemand:  stats.AvgDaily,
			BufferQty:       calc.BufferQty,
			RedThreshold:    calc.RedThreshold,
			YellowThreshold: calc.YellowThreshold,
		})
	}

	if err := s.buffers.UpsertBatch(ctx, orgID, warehouseID, updated); err != nil {
		return nil, err
	}

	log.Info().Str("org_id", orgID).Str("warehouse_id", warehouseID).
		Int("updated", len(updated)).Msg("buffers recalculated")

	return &RecalcResult{WarehouseID: warehouseID, Updated: len(updated)}, nil
}

// resolveLeadTime picks, in order: the lead time already stored on the
// buffer, the median of observed lead times, the default of the SKU's most
// recent supplier, the policy default.
func (s *BufferService) resolveLeadTime(sku string, stored map[string]domain.Buffer, medians, supplierDefaults map[string]float64, policy buffer.Policy) float64 {
	if b, ok := stored[sku]; ok && b.LeadTimeDays > 0 {
		return b.LeadTimeDays
	}
	if m, ok := medians[sku]; ok && m > 0 {
		return m
	}
	if d, ok := supplierDefaults[sku]; ok && d > 0 {
		return d
	}
	return policy.DefaultLeadTimeDays
}

// Runs returns the recent recalculation history for a warehouse.
func (s *BufferService) Runs(ctx context.Context, orgID, warehouseID string, limit int) ([]domain.RecalcRun, error) {
	if warehouseID == "" {
		return nil, domain.NewValidationError("warehouse_id", "must not be empty")
	}
	return s.runs.ListByWarehouse(ctx, orgID, warehouseID, limit)
}
