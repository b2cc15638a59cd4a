package buffer

import "time"

// Policy holds the replenishment policy constants. Values are business
// policy, not physical constants, so they are carried as configuration
// rather than hard-coded in the calculator.
type Policy struct {
	// Factor is the safety multiplier applied on top of raw lead-time
	// coverage (1.2 = 20% headroom).
	Factor float64

	// RedRatio and YellowRatio split the buffer into the red/yellow/green
	// bands. With 1/3 and 2/3 the three bands have equal width.
	RedRatio    float64
	YellowRatio float64

	// OverstockDays and OverstockRatio define the overstock alarm: on-hand
	// above OverstockRatio x (OverstockDays x avg daily demand) raises it.
	OverstockDays  float64
	OverstockRatio float64

	// LookbackDays is the demand estimation window.
	LookbackDays int

	// DefaultLeadTimeDays is the fallback when neither a stored buffer nor
	// lead time statistics exist for a SKU.
	DefaultLeadTimeDays float64

	// AggregationWindowDays is the default rebuild range for daily rollups.
	AggregationWindowDays int

	// Segment classification cut-offs (units/day).
	SegmentAThreshold float64
	SegmentBThreshold float64
}

// DefaultPolicy returns the current production policy.
func DefaultPolicy() Policy {
	return Policy{
		Factor:                1.2,
		RedRatio:              1.0 / 3.0,
		YellowRatio:           2.0 / 3.0,
		OverstockDays:         30,
		OverstockRatio:        1.1,
		LookbackDays:          60,
		DefaultLeadTimeDays:   7,
		AggregationWindowDays: 90,
		SegmentAThreshold:     20,
		SegmentBThreshold:     10,
	}
}

// DemandStats summarizes a SKU's demand over a lookback window.
type DemandStats struct {
	// AvgDaily is mean daily units over the whole window, days without
	// sales counted as zero.
	AvgDaily float64

	// Variability is the coefficient of variation (population stddev over
	// mean). Nil when the mean is zero.
	Variability *float64

	TotalUnits float64
	ActiveDays int
}

// Calc is the computed buffer target and zone thresholds for one SKU.
type Calc struct {
	BufferQty       float64
	RedThreshold    float64
	YellowThreshold float64
}

// StockPosition is the live stock input to a recommendation.
type StockPosition struct {
	OnHand   float64
	Inbound  float64
	Reserved float64
}

// Position returns on-hand plus inbound minus reservations.
func (s StockPosition) Position() float64 {
	return s.OnHand + s.Inbound - s.Reserved
}

// KPIInput bundles the figures the KPI calculator works from.
type KPIInput struct {
	OnHand         float64
	AvgDailyDemand float64
	UnitsSold      float64
	WindowDays     int
	EarliestExpiry *time.Time
	Now            time.Time
}

// KPI holds the derived per-SKU metrics.
type KPI struct {
	DaysOfSupply     *float64
	Turns            float64
	MedianDaysToSell *float64
	FEFORisk         bool
}
