package buffer

import (
	"fmt"
	"math"

	"github.com/andresuchdata/bufferboard/internal/domain"
)

// Calculator computes buffer targets and order recommendations from demand
// statistics and stock positions. All methods are pure: given the same
// inputs they produce the same outputs.
type Calculator struct {
	policy Policy
}

// NewCalculator creates a calculator with the given policy.
func NewCalculator(policy Policy) *Calculator {
	return &Calculator{policy: policy}
}

// Policy returns the policy the calculator runs with.
func (c *Calculator) Policy() Policy {
	return c.policy
}

// ComputeDemand derives demand statistics from the observed daily unit
// values of a lookback window. dailyUnits holds one entry per day that has
// a rollup row; days without sales are counted as zeros across windowDays,
// so a SKU selling on 2 of 60 days averages over 60, not 2.
func (c *Calculator) ComputeDemand(dailyUnits []float64, windowDays int) DemandStats {
	stats := DemandStats{}
	if windowDays <= 0 {
		return stats
	}

	for _, u := range dailyUnits {
		stats.TotalUnits += u
		if u != 0 {
			stats.ActiveDays++
		}
	}

	stats.AvgDaily = stats.TotalUnits / float64(windowDays)
	if stats.AvgDaily == 0 {
		// Dormant SKU: valid state, variability undefined.
		return stats
	}

	// Population variance over the full window, zero-filled.
	var sumSq float64
	for _, u := range dailyUnits {
		d := u - stats.AvgDaily
		sumSq += d * d
	}
	zeroDays := windowDays - len(dailyUnits)
	if zeroDays > 0 {
		sumSq += float64(zeroDays) * stats.AvgDaily * stats.AvgDaily
	}
	cov := math.Sqrt(sumSq/float64(windowDays)) / stats.AvgDaily
	stats.Variability = &cov

	return stats
}

// Compute turns average daily demand and a lead time into the buffer target
// and its red/yellow thresholds.
func (c *Calculator) Compute(avgDailyDemand, leadTimeDays float64) Calc {
	bufferQty := avgDailyDemand * leadTimeDays * c.policy.Factor

	return Calc{
		BufferQty:       bufferQty,
		RedThreshold:    bufferQty * c.policy.RedRatio,
		YellowThreshold: bufferQty * c.policy.YellowRatio,
	}
}

// Recommend derives the actionable recommendation row for one buffered SKU.
//
// Zone classification uses on-hand alone while penetration uses the full
// stock position; the asymmetry is intentional and kept for behavioral
// compatibility with existing consumers.
func (c *Calculator) Recommend(buf domain.Buffer, pos StockPosition) domain.RecommendationRow {
	row := domain.RecommendationRow{
		SKU:             buf.SKU,
		WarehouseID:     buf.WarehouseID,
		OnHand:          pos.OnHand,
		Inbound:         pos.Inbound,
		Reserved:        pos.Reserved,
		StockPosition:   pos.Position(),
		BufferQty:       buf.BufferQty,
		RedThreshold:    buf.RedThreshold,
		YellowThreshold: buf.YellowThreshold,
		AvgDailyDemand:  buf.AvgDailyDemand,
	}

	// 1. Zone from on-hand against the stored thresholds
	row.Zone = domain.ClassifyZone(pos.OnHand, buf.RedThreshold, buf.YellowThreshold)

	// 2. Buffer penetration from the full stock position
	if buf.BufferQty > 0 {
		pen := row.StockPosition / buf.BufferQty
		row.BufferPenetration = &pen
	}

	// 3. Suggested order quantity: never negative, whole units
	orderRaw := buf.BufferQty - row.StockPosition
	row.SuggestedQty = math.Max(0, math.Ceil(orderRaw))

	// 4. Overstock signal against the demand projection
	projection := buf.AvgDailyDemand * c.policy.OverstockDays
	threshold := projection * c.policy.OverstockRatio
	if projection > 0 && pos.OnHand > threshold {
		ratio := pos.OnHand / threshold
		row.Overstock = true
		row.OverstockRatio = &ratio
	}

	// 5. Display segment from demand velocity
	row.Segment = c.Segment(buf.AvgDailyDemand)

	row.Reason = c.reason(row)

	return row
}

// Segment classifies a SKU by demand velocity. Display heuristic only.
func (c *Calculator) Segment(avgDailyDemand float64) string {
	switch {
	case avgDailyDemand >= c.policy.SegmentAThreshold:
		return "A"
	case avgDailyDemand >= c.policy.SegmentBThreshold:
		return "B"
	default:
		return "C"
	}
}

// reason builds the human-readable justification for a recommendation row.
func (c *Calculator) reason(row domain.RecommendationRow) string {
	switch {
	case row.Overstock && row.OverstockRatio != nil:
		return fmt.Sprintf("on-hand %.0f exceeds the %.0f-day overstock threshold by %.2fx; hold ordering",
			row.OnHand, c.policy.OverstockDays, *row.OverstockRatio)
	case row.Zone == domain.ZoneRed && row.SuggestedQty > 0:
		return fmt.Sprintf("on-hand %.0f at or below red threshold %.1f; order %.0f to restore buffer %.1f",
			row.OnHand, row.RedThreshold, row.SuggestedQty, row.BufferQty)
	case row.Zone == domain.ZoneYellow && row.SuggestedQty > 0:
		return fmt.Sprintf("on-hand %.0f inside yellow band; plan order of %.0f toward buffer %.1f",
			row.OnHand, row.SuggestedQty, row.BufferQty)
	case row.SuggestedQty > 0:
		return fmt.Sprintf("stock position %.0f below buffer %.1f; top-up of %.0f available",
			row.StockPosition, row.BufferQty, row.SuggestedQty)
	default:
		return "stock position covers the buffer; no order needed"
	}
}
