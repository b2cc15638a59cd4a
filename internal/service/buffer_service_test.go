package service

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/andresuchdata/bufferboard/internal/buffer"
	"github.com/andresuchdata/bufferboard/internal/domain"
)

func newTestBufferService(sales *fakeSalesRepo, buffers *fakeBufferRepo, orders *fakePORepo, refs *fakeReferenceRepo) *BufferService {
	calc := buffer.NewCalculator(buffer.DefaultPolicy())
	return NewBufferService(buffers, sales, orders, refs, &fakeRunRepo{}, calc, nil)
}

func TestRecalc_ComputesBuffersFromDemand(t *testing.T) {
	sales := newFakeSalesRepo()
	sales.series["WH-1"] = map[string][]domain.DailyUnits{
		"SKU-1": {{Units: 25}, {Units: 25}},
	}
	buffers := newFakeBufferRepo()
	orders := newFakePORepo()
	orders.medians["SKU-1"] = 7

	svc := newTestBufferService(sales, buffers, orders, newFakeReferenceRepo("WH-1"))
	result, err := svc.Recalc(context.Background(), "org-1", "WH-1", 0)
	if err != nil {
		t.Fatalf("Recalc failed: %v", err)
	}

	if result.Updated != 1 {
		t.Fatalf("Updated = %d, want 1", result.Updated)
	}

	b := buffers.buffers["WH-1"]["SKU-1"]
	wantAvg := 50.0 / 60.0
	if math.Abs(b.AvgDailyDemand-wantAvg) > 1e-6 {
		t.Errorf("AvgDailyDemand = %v, want %v", b.AvgDailyDemand, wantAvg)
	}
	if b.LeadTimeDays != 7 {
		t.Errorf("LeadTimeDays = %v, want 7 from median lead times", b.LeadTimeDays)
	}
	if math.Abs(b.BufferQty-7.0) > 1e-3 {
		t.Errorf("BufferQty = %v, want 7.0", b.BufferQty)
	}
	if math.Abs(b.RedThreshold-7.0/3.0) > 1e-3 {
		t.Errorf("RedThreshold = %v, want %v", b.RedThreshold, 7.0/3.0)
	}
}

func TestRecalc_LeadTimeResolutionOrder(t *testing.T) {
	sales := newFakeSalesRepo()
	sales.series["WH-1"] = map[string][]domain.DailyUnits{
		"SKU-STORED":   {{Units: 10}},
		"SKU-MEDIAN":   {{Units: 10}},
		"SKU-SUPPLIER": {{Units: 10}},
		"SKU-DEFAULT":  {{Units: 10}},
	}
	buffers := newFakeBufferRepo()
	buffers.buffers["WH-1"] = map[string]domain.Buffer{
		"SKU-STORED": {SKU: "SKU-STORED", LeadTimeDays: 14},
	}
	orders := newFakePORepo()
	orders.medians["SKU-STORED"] = 3
	orders.medians["SKU-MEDIAN"] = 5
	orders.supplierDefaults["SKU-MEDIAN"] = 9
	orders.supplierDefaults["SKU-SUPPLIER"] = 9

	svc := newTestBufferService(sales, buffers, orders, newFakeReferenceRepo("WH-1"))
	if _, err := svc.Recalc(context.Background(), "org-1", "WH-1", 0); err != nil {
		t.Fatalf("Recalc failed: %v", err)
	}

	tests := []struct {
		sku  string
		want float64
	}{
		{"SKU-STORED", 14},  // stored buffer wins over median
		{"SKU-MEDIAN", 5},   // median wins over supplier default
		{"SKU-SUPPLIER", 9}, // supplier default wins over policy default
		{"SKU-DEFAULT", 7},  // policy default
	}
	for _, tt := range tests {
		if got := buffers.buffers["WH-1"][tt.sku].LeadTimeDays; got != tt.want {
			t.Errorf("%s: LeadTimeDays = %v, want %v", tt.sku, got, tt.want)
		}
	}
}

func TestRecalc_NoSalesIsNoOp(t *testing.T) {
	sales := newFakeSalesRepo()
	buffers := newFakeBufferRepo()
	buffers.buffers["WH-1"] = map[string]domain.Buffer{
		"SKU-OLD": {SKU: "SKU-OLD", BufferQty: 42},
	}

	svc := newTestBufferService(sales, buffers, newFakePORepo(), newFakeReferenceRepo("WH-1"))
	result, err := svc.Recalc(context.Background(), "org-1", "WH-1", 0)
	if err != nil {
		t.Fatalf("Recalc failed: %v", err)
	}

	if result.Updated != 0 {
		t.Errorf("Updated = %d, want 0", result.Updated)
	}
	if buffers.upserts != 0 {
		t.Errorf("upserts = %d, want 0", buffers.upserts)
	}
	// Dormant SKUs keep their stored values.
	if got := buffers.buffers["WH-1"]["SKU-OLD"].BufferQty; got != 42 {
		t.Errorf("stored buffer changed: BufferQty = %v, want 42", got)
	}
}

func TestRecalc_LookbackOverride(t *testing.T) {
	sales := newFakeSalesRepo()
	sales.series["WH-1"] = map[string][]domain.DailyUnits{
		"SKU-1": {{Units: 30}},
	}

	svc := newTestBufferService(sales, newFakeBufferRepo(), newFakePORepo(), newFakeReferenceRepo("WH-1"))

	result, err := svc.Recalc(context.Background(), "org-1", "WH-1", 30)
	if err != nil {
		t.Fatalf("Recalc failed: %v", err)
	}
	if got := result.Window.Days(); got != 30 {
		t.Errorf("Window.Days() = %d, want 30", got)
	}

	if _, err := svc.Recalc(context.Background(), "org-1", "WH-1", -1); !domain.IsValidation(err) {
		t.Errorf("negative lookback: err = %v, want ValidationError", err)
	}
}

func TestRecalc_UnknownWarehouse(t *testing.T) {
	svc := newTestBufferService(newFakeSalesRepo(), newFakeBufferRepo(), newFakePORepo(), newFakeReferenceRepo("WH-1"))

	_, err := svc.Recalc(context.Background(), "org-1", "WH-404", 0)
	if !domain.IsValidation(err) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestRecalc_RecordsRun(t *testing.T) {
	sales := newFakeSalesRepo()
	sales.series["WH-1"] = map[string][]domain.DailyUnits{
		"SKU-1": {{Units: 10}},
	}
	runs := &fakeRunRepo{}
	calc := buffer.NewCalculator(buffer.DefaultPolicy())
	svc := NewBufferService(newFakeBufferRepo(), sales, newFakePORepo(), newFakeReferenceRepo("WH-1"), runs, calc, nil)

	result, err := svc.Recalc(context.Background(), "org-1", "WH-1", 0)
	if err != nil {
		t.Fatalf("Recalc failed: %v", err)
	}
	if result.RunID == 0 {
		t.Error("RunID = 0, want an assigned id")
	}
	if len(runs.runs) != 1 {
		t.Fatalf("runs recorded = %d, want 1", len(runs.runs))
	}
	if runs.runs[0].StartedAt.After(time.Now()) {
		t.Error("StartedAt in the future")
	}
}
