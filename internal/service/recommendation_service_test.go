package service

import (
	"context"
	"testing"
	"time"

	"github.com/andresuchdata/bufferboard/internal/buffer"
	"github.com/andresuchdata/bufferboard/internal/domain"
)

func newTestRecommendationService(buffers *fakeBufferRepo, stock *fakeStockRepo, orders *fakePORepo) *RecommendationService {
	calc := buffer.NewCalculator(buffer.DefaultPolicy())
	return NewRecommendationService(buffers, stock, orders, calc, nil)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestList_UsesFallbackSnapshotDate(t *testing.T) {
	buffers := newFakeBufferRepo()
	buffers.buffers["WH-1"] = map[string]domain.Buffer{
		"SKU-1": {SKU: "SKU-1", WarehouseID: "WH-1", AvgDailyDemand: 10, BufferQty: 100, RedThreshold: 100.0 / 3.0, YellowThreshold: 200.0 / 3.0},
	}
	stock := newFakeStockRepo()
	stock.snapshotDates["WH-1"] = day(2026, 8, 25) // latest snapshot precedes the request
	stock.onHand["WH-1"] = map[string]float64{"SKU-1": 50}

	svc := newTestRecommendationService(buffers, stock, newFakePORepo())
	page, err := svc.List(context.Background(), domain.RecommendationFilter{
		OrgID:       "org-1",
		WarehouseID: "WH-1",
		Date:        day(2026, 8, 28),
	})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if page.EffectiveDate == nil || !page.EffectiveDate.Equal(day(2026, 8, 25)) {
		t.Errorf("EffectiveDate = %v, want 2026-08-25", page.EffectiveDate)
	}
	if len(page.Data) != 1 {
		t.Fatalf("rows = %d, want 1", len(page.Data))
	}
	if page.Data[0].OnHand != 50 {
		t.Errorf("OnHand = %v, want 50", page.Data[0].OnHand)
	}
	if page.Data[0].Zone != domain.ZoneYellow {
		t.Errorf("Zone = %v, want yellow", page.Data[0].Zone)
	}
}

func TestList_NoSnapshotMeansZeroOnHand(t *testing.T) {
	buffers := newFakeBufferRepo()
	buffers.buffers["WH-1"] = map[string]domain.Buffer{
		"SKU-1": {SKU: "SKU-1", WarehouseID: "WH-1", AvgDailyDemand: 10, BufferQty: 100, RedThreshold: 100.0 / 3.0, YellowThreshold: 200.0 / 3.0},
	}

	svc := newTestRecommendationService(buffers, newFakeStockRepo(), newFakePORepo())
	page, err := svc.List(context.Background(), domain.RecommendationFilter{
		OrgID:       "org-1",
		WarehouseID: "WH-1",
	})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if page.EffectiveDate != nil {
		t.Errorf("EffectiveDate = %v, want nil without snapshots", page.EffectiveDate)
	}
	if page.Data[0].OnHand != 0 {
		t.Errorf("OnHand = %v, want 0", page.Data[0].OnHand)
	}
	if page.Data[0].Zone != domain.ZoneRed {
		t.Errorf("Zone = %v, want red at zero on-hand", page.Data[0].Zone)
	}
}

func TestList_Pagination(t *testing.T) {
	buffers := newFakeBufferRepo()
	buffers.buffers["WH-1"] = map[string]domain.Buffer{}
	for _, sku := range []string{"SKU-A", "SKU-B", "SKU-C"} {
		buffers.buffers["WH-1"][sku] = domain.Buffer{SKU: sku, WarehouseID: "WH-1", BufferQty: 10}
	}

	svc := newTestRecommendationService(buffers, newFakeStockRepo(), newFakePORepo())
	page, err := svc.List(context.Background(), domain.RecommendationFilter{
		OrgID:       "org-1",
		WarehouseID: "WH-1",
		Page:        2,
		PageSize:    2,
	})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if page.Total != 3 {
		t.Errorf("Total = %d, want 3", page.Total)
	}
	if len(page.Data) != 1 {
		t.Fatalf("rows = %d, want 1 on last page", len(page.Data))
	}
	if page.Data[0].SKU != "SKU-C" {
		t.Errorf("SKU = %q, want SKU-C", page.Data[0].SKU)
	}
}

func TestList_ValidatesWarehouse(t *testing.T) {
	svc := newTestRecommendationService(newFakeBufferRepo(), newFakeStockRepo(), newFakePORepo())

	_, err := svc.List(context.Background(), domain.RecommendationFilter{OrgID: "org-1"})
	if !domain.IsValidation(err) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestSummary_TalliesZones(t *testing.T) {
	buffers := newFakeBufferRepo()
	buffers.buffers["WH-1"] = map[string]domain.Buffer{
		"SKU-RED":    {SKU: "SKU-RED", WarehouseID: "WH-1", AvgDailyDemand: 1, BufferQty: 100, RedThreshold: 100.0 / 3.0, YellowThreshold: 200.0 / 3.0},
		"SKU-YELLOW": {SKU: "SKU-YELLOW", WarehouseID: "WH-1", AvgDailyDemand: 1, BufferQty: 100, RedThreshold: 100.0 / 3.0, YellowThreshold: 200.0 / 3.0},
		"SKU-GREEN":  {SKU: "SKU-GREEN", WarehouseID: "WH-1", AvgDailyDemand: 1, BufferQty: 100, RedThreshold: 100.0 / 3.0, YellowThreshold: 200.0 / 3.0},
	}
	stock := newFakeStockRepo()
	stock.snapshotDates["WH-1"] = day(2026, 8, 28)
	stock.onHand["WH-1"] = map[string]float64{
		"SKU-RED":    10,
		"SKU-YELLOW": 50,
		"SKU-GREEN":  90,
	}

	svc := newTestRecommendationService(buffers, stock, newFakePORepo())
	summary, err := svc.Summary(context.Background(), domain.RecommendationFilter{
		OrgID:       "org-1",
		WarehouseID: "WH-1",
		Date:        day(2026, 8, 28),
	})
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}

	if summary.Red != 1 || summary.Yellow != 1 || summary.Green != 1 {
		t.Errorf("tallies = %d/%d/%d, want 1/1/1", summary.Red, summary.Yellow, summary.Green)
	}
	if summary.Total != 3 {
		t.Errorf("Total = %d, want 3", summary.Total)
	}
	// Every SKU lands in exactly one zone.
	if summary.Red+summary.Yellow+summary.Green != summary.Total {
		t.Error("zone tallies do not partition the total")
	}
}
