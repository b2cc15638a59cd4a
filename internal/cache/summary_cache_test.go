package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/andresuchdata/bufferboard/internal/domain"
)

func TestBuildSummaryKey_Stable(t *testing.T) {
	filter := domain.RecommendationFilter{
		OrgID:       "org-1",
		WarehouseID: "WH-1",
		Date:        time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
	}

	first := buildSummaryKey(filter)
	second := buildSummaryKey(filter)
	if first != second {
		t.Errorf("key not stable: %q != %q", first, second)
	}
	if !strings.HasPrefix(first, zoneSummaryKeyPrefix+":org-1:") {
		t.Errorf("key %q missing org-scoped prefix", first)
	}
}

func TestBuildSummaryKey_DistinguishesFilters(t *testing.T) {
	base := domain.RecommendationFilter{
		OrgID:       "org-1",
		WarehouseID: "WH-1",
		Date:        time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
	}

	otherWarehouse := base
	otherWarehouse.WarehouseID = "WH-2"
	otherDate := base
	otherDate.Date = base.Date.AddDate(0, 0, 1)

	keys := map[string]string{
		"base":            buildSummaryKey(base),
		"other warehouse": buildSummaryKey(otherWarehouse),
		"other date":      buildSummaryKey(otherDate),
	}
	seen := map[string]string{}
	for name, key := range keys {
		if prev, ok := seen[key]; ok {
			t.Errorf("%s and %s share key %q", name, prev, key)
		}
		seen[key] = name
	}
}

func TestBuildSummaryKey_NormalizesWarehouseCase(t *testing.T) {
	a := buildSummaryKey(domain.RecommendationFilter{OrgID: "org-1", WarehouseID: "wh-1"})
	b := buildSummaryKey(domain.RecommendationFilter{OrgID: "org-1", WarehouseID: "WH-1"})
	if a != b {
		t.Errorf("case variants map to different keys: %q vs %q", a, b)
	}
}

func TestNoopCache(t *testing.T) {
	c := NewNoopSummaryCache()
	ctx := context.Background()
	filter := domain.RecommendationFilter{OrgID: "org-1", WarehouseID: "WH-1"}

	if err := c.SetSummary(ctx, filter, &domain.ZoneSummary{Total: 5}); err != nil {
		t.Fatalf("SetSummary failed: %v", err)
	}
	_, ok, err := c.GetSummary(ctx, filter)
	if err != nil {
		t.Fatalf("GetSummary failed: %v", err)
	}
	if ok {
		t.Error("noop cache reported a hit")
	}
}
