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

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

type RecommendationService struct {
	buffers repository.BufferRepository
	stock   repository.StockRepository
	orders  repository.PurchaseOrderRepository
	calc    *buffer.Calculator
	cache   cache.SummaryCache
}

func NewRecommendationService(
	buffers repository.BufferRepository,
	stock repository.StockRepository,
	orders repository.PurchaseOrderRepository,
	calc *buffer.Calculator,
	cacheImpl cache.SummaryCache,
) *RecommendationService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopSummaryCache()
	}
	return &RecommendationService{
		buffers: buffers,
		stock:   stock,
		orders:  orders,
		calc:    calc,
		cache:   cacheImpl,
	}
}

// List returns one page of recommendations for a warehouse at a date. Rows
// are derived on the fly from stored buffers and the latest snapshot at or
// before the requested date; the page reports the snapshot date actually
// used.
func (s *RecommendationService) List(ctx context.Context, filter domain.RecommendationFilter) (*domain.RecommendationPage, error) {
	if err := normalizeFilter(&filter); err != nil {
		return nil, err
	}

	buffers, total, err := s.buffers.ListPage(ctx, filter.OrgID, filter.WarehouseID, filter.Page, filter.PageSize)
	if err != nil {
		return nil, err
	}

	page := &domain.RecommendationPage{
		Data:     make([]domain.RecommendationRow, 0, len(buffers)),
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	if len(buffers) == 0 {
		return page, nil
	}

	rows, effective, err := s.buildRows(ctx, filter, buffers)
	if err != nil {
		return nil, err
	}

	page.Data = rows
	page.EffectiveDate = effective
	return page, nil
}

// Summary tallies zone membership across every buffered SKU of a warehouse.
// Cached per (org, warehouse, date) until the next recalc or rebuild.
func (s *RecommendationService) Summary(ctx context.Context, filter domain.RecommendationFilter) (*domain.ZoneSummary, error) {
	if err := normalizeFilter(&filter); err != nil {
		return nil, err
	}

	if summary, ok, err := s.cache.GetSummary(ctx, filter); err == nil && ok {
		return summary, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("recommendations: cache get summary failed")
	}

	stored, err := s.buffers.ListByWarehouse(ctx, filter.OrgID, filter.WarehouseID)
	if err != nil {
		return nil, err
	}

	buffers := make([]domain.Buffer, 0, len(stored))
	for _, b := range stored {
		buffers = append(buffers, b)
	}
	sort.Slice(buffers, func(i, j int) bool { return buffers[i].SKU < buffers[j].SKU })

	summary := &domain.ZoneSummary{WarehouseID: filter.WarehouseID}
	if len(buffers) > 0 {
		rows, effective, err := s.buildRows(ctx, filter, buffers)
		if err != nil {
			return nil, err
		}
		summary.EffectiveDate = effective
		for _, row := range rows {
			switch row.Zone {
			case domain.ZoneRed:
				summary.Red++
			case domain.ZoneYellow:
				summary.Yellow++
			default:
				summary.Green++
			}
			if row.Overstock {
				summary.Overstock++
			}
		}
		summary.Total = len(rows)
	}

	if err := s.cache.SetSummary(ctx, filter, summary); err != nil {
		log.Warn().Err(err).Msg("recommendations: cache set summary failed")
	}

	return summary, nil
}

// buildRows resolves the effective snapshot date once per warehouse, then
// derives one recommendation row per buffer. When no snapshot exists at or
// before the date, on-hand is zero everywhere and the effective date is nil.
func (s *RecommendationService) buildRows(ctx context.Context, filter domain.RecommendationFilter, buffers []domain.Buffer) ([]domain.RecommendationRow, *time.Time, error) {
	skus := make([]string, len(buffers))
	for i, b := range buffers {
		skus[i] = b.SKU
	}

	effective, err := s.stock.ResolveSnapshotDate(ctx, filter.OrgID, filter.WarehouseID, filter.Date)
	if err != nil {
		return nil, nil, err
	}

	onHand := map[string]float64{}
	if effective != nil {
		onHand, err = s.stock.OnHandBySKU(ctx, filter.OrgID, filter.WarehouseID, *effective, skus)
		if err != nil {
			return nil, nil, err
		}
	}

	inbound, err := s.orders.InboundBySKU(ctx, filter.OrgID, skus)
	if err != nil {
		return nil, nil, err
	}

	rows := make([]domain.RecommendationRow, len(buffers))
	for i, b := range buffers {
		pos := buffer.StockPosition{
			OnHand:  onHand[b.SKU],
			Inbound: inbound[b.SKU],
		}
		rows[i] = s.calc.Recommend(b, pos)
	}

	return rows, effective, nil
}

func normalizeFilter(filter *domain.RecommendationFilter) error {
	if filter.OrgID == "" {
		return domain.NewValidationError("org_id", "must not be empty")
	}
	if filter.WarehouseID == "" {
		return domain.NewValidationError("warehouse_id", "must not be empty")
	}
	if filter.Date.IsZero() {
		filter.Date = truncateDay(time.Now().UTC())
	} else {
		filter.Date = truncateDay(filter.Date)
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = defaultPageSize
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}
	return nil
}
