package service

import (
	"github.com/andresuchdata/bufferboard/internal/buffer"
	"github.com/andresuchdata/bufferboard/internal/config"
)

// PolicyFromConfig maps the configured policy knobs onto the calculator's
// policy struct.
func PolicyFromConfig(cfg config.BufferConfig) buffer.Policy {
	return buffer.Policy{
		Factor:                cfg.Factor,
		RedRatio:              cfg.RedRatio,
		YellowRatio:           cfg.YellowRatio,
		OverstockDays:         cfg.OverstockDays,
		OverstockRatio:        cfg.OverstockRatio,
		LookbackDays:          cfg.LookbackDays,
		DefaultLeadTimeDays:   cfg.DefaultLeadTimeDays,
		AggregationWindowDays: cfg.AggregationWindowDays,
		SegmentAThreshold:     cfg.SegmentAThreshold,
		SegmentBThreshold:     cfg.SegmentBThreshold,
	}
}
