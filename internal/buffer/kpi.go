package buffer

// ComputeKPI derives the read-only per-SKU metrics.
//
// Days-of-supply is undefined (nil) when demand is zero. Turns annualize the
// window's sell-through against current on-hand; zero on-hand yields zero
// turns rather than a division error. Median days-to-sell comes from turns
// when they are positive, otherwise it falls back to days-of-supply.
func (c *Calculator) ComputeKPI(in KPIInput) KPI {
	kpi := KPI{}

	if in.AvgDailyDemand > 0 {
		dos := in.OnHand / in.AvgDailyDemand
		kpi.DaysOfSupply = &dos
	}

	if in.OnHand > 0 && in.WindowDays > 0 {
		kpi.Turns = (in.UnitsSold / float64(in.WindowDays)) * 365 / in.OnHand
	}

	if kpi.Turns > 0 {
		median := 365 / kpi.Turns
		kpi.MedianDaysToSell = &median
	} else if kpi.DaysOfSupply != nil {
		v := *kpi.DaysOfSupply
		kpi.MedianDaysToSell = &v
	}

	// FEFO risk: stock expires before it is projected to sell through.
	if in.EarliestExpiry != nil && kpi.DaysOfSupply != nil {
		daysToExpiry := in.EarliestExpiry.Sub(in.Now).Hours() / 24
		if daysToExpiry < *kpi.DaysOfSupply {
			kpi.FEFORisk = true
		}
	}

	return kpi
}
