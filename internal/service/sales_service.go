package service

import (
	"context"
	"time"

	"github.com/andresuchdata/bufferboard/internal/buffer"
	"github.com/andresuchdata/bufferboard/internal/cache"
	"github.com/andresuchdata/bufferboard/internal/domain"
	"github.com/andresuchdata/bufferboard/internal/repository"
	"github.com/rs/zerolog/log"
)

type SalesService struct {
	repo   repository.SalesRepository
	policy buffer.Policy
	cache  cache.SummaryCache
}

func NewSalesService(repo repository.SalesRepository, policy buffer.Policy, cacheImpl cache.SummaryCache) *SalesService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopSummaryCache()
	}
	return &SalesService{repo: repo, policy: policy, cache: cacheImpl}
}

// RebuildDailySales regenerates the daily rollups for the given range and
// returns the range actually applied. A nil range defaults to the trailing
// aggregation window ending today.
func (s *SalesService) RebuildDailySales(ctx context.Context, orgID string, rng *domain.DateRange) (domain.DateRange, error) {
	if orgID == "" {
		return domain.DateRange{}, domain.NewValidationError("org_id", "must not be empty")
	}

	applied, err := s.resolveRange(rng)
	if err != nil {
		return domain.DateRange{}, err
	}

	start := time.Now()
	if err := s.repo.RebuildDailyRollups(ctx, orgID, applied); err != nil {
		return domain.DateRange{}, err
	}

	log.Info().
		Str("org_id", orgID).
		Str("from", applied.From.Format("2006-01-02")).
		Str("to", applied.To.Format("2006-01-02")).
		Dur("elapsed", time.Since(start)).
		Msg("daily sales rollups rebuilt")

	if err := s.cache.InvalidateOrg(ctx, orgID); err != nil {
		log.Warn().Err(err).Str("org_id", orgID).Msg("sales rebuild: cache invalidation failed")
	}

	return applied, nil
}

func (s *SalesService) resolveRange(rng *domain.DateRange) (domain.DateRange, error) {
	if rng == nil {
		to := truncateDay(time.Now().UTC())
		from := to.AddDate(0, 0, -(s.policy.AggregationWindowDays - 1))
		return domain.DateRange{From: from, To: to}, nil
	}

	applied := domain.DateRange{
		From: truncateDay(rng.From),
		To:   truncateDay(rng.To),
	}
	if applied.From.IsZero() || applied.To.IsZero() {
		return domain.DateRange{}, domain.NewValidationError("range", "from and to are required")
	}
	if applied.To.Before(applied.From) {
		return domain.DateRange{}, domain.NewValidationError("range", "to must not precede from")
	}

	return applied, nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
