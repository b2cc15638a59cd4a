package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Server.Port == "" {
		t.Error("Server.Port is empty")
	}

	// The policy defaults encode the production replenishment policy.
	b := cfg.Buffer
	if b.Factor != 1.2 {
		t.Errorf("Factor = %v, want 1.2", b.Factor)
	}
	if b.RedRatio >= b.YellowRatio {
		t.Errorf("RedRatio %v must be below YellowRatio %v", b.RedRatio, b.YellowRatio)
	}
	if b.OverstockDays != 30 || b.OverstockRatio != 1.1 {
		t.Errorf("overstock policy = %v days x %v, want 30 x 1.1", b.OverstockDays, b.OverstockRatio)
	}
	if b.LookbackDays != 60 {
		t.Errorf("LookbackDays = %v, want 60", b.LookbackDays)
	}
	if b.DefaultLeadTimeDays != 7 {
		t.Errorf("DefaultLeadTimeDays = %v, want 7", b.DefaultLeadTimeDays)
	}
	if b.AggregationWindowDays != 90 {
		t.Errorf("AggregationWindowDays = %v, want 90", b.AggregationWindowDays)
	}
	if b.SegmentAThreshold <= b.SegmentBThreshold {
		t.Errorf("SegmentAThreshold %v must exceed SegmentBThreshold %v", b.SegmentAThreshold, b.SegmentBThreshold)
	}

	// Load is memoized; a second call returns the same instance.
	if Load() != cfg {
		t.Error("Load returned a different instance")
	}
}
