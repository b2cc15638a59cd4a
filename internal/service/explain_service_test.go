package service

import (
	"context"
	"errors"
	"testing"

	"github.com/andresuchdata/bufferboard/internal/buffer"
	"github.com/andresuchdata/bufferboard/internal/domain"
)

func newTestExplainService(buffers *fakeBufferRepo, sales *fakeSalesRepo, stock *fakeStockRepo, orders *fakePORepo) *ExplainService {
	calc := buffer.NewCalculator(buffer.DefaultPolicy())
	return NewExplainService(buffers, sales, stock, orders, calc)
}

func TestBuildPayload_UnknownSKU(t *testing.T) {
	svc := newTestExplainService(newFakeBufferRepo(), newFakeSalesRepo(), newFakeStockRepo(), newFakePORepo())

	_, err := svc.BuildPayload(context.Background(), "org-1", "WH-1", "SKU-404", day(2026, 8, 28))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestBuildPayload_AssemblesSnapshot(t *testing.T) {
	buffers := newFakeBufferRepo()
	buffers.buffers["WH-1"] = map[string]domain.Buffer{
		"SKU-1": {SKU: "SKU-1", WarehouseID: "WH-1", BufferQty: 100, AvgDailyDemand: 10},
	}
	sales := newFakeSalesRepo()
	sales.series["WH-1"] = map[string][]domain.DailyUnits{
		"SKU-1": {
			{SalesDate: day(2026, 8, 27), Units: 25},
			{SalesDate: day(2026, 8, 28), Units: 25},
		},
	}
	stock := newFakeStockRepo()
	stock.snapshotDates["WH-1"] = day(2026, 8, 28)
	stock.onHand["WH-1"] = map[string]float64{"SKU-1": 60}
	orders := newFakePORepo()
	orders.inbound["SKU-1"] = 40
	orders.constraints["SKU-1"] = domain.OrderConstraints{MOQ: 12, PackSize: 6}

	svc := newTestExplainService(buffers, sales, stock, orders)
	payload, err := svc.BuildPayload(context.Background(), "org-1", "WH-1", "SKU-1", day(2026, 8, 28))
	if err != nil {
		t.Fatalf("BuildPayload failed: %v", err)
	}

	if payload.Buffer == nil || payload.Buffer.BufferQty != 100 {
		t.Errorf("Buffer = %+v, want stored buffer", payload.Buffer)
	}
	if payload.OnHand != 60 {
		t.Errorf("OnHand = %v, want 60", payload.OnHand)
	}
	if payload.Inbound != 40 {
		t.Errorf("Inbound = %v, want 40", payload.Inbound)
	}
	if payload.Constraints == nil || payload.Constraints.MOQ != 12 {
		t.Errorf("Constraints = %+v, want MOQ 12", payload.Constraints)
	}
	if payload.DemandVariability == nil {
		t.Error("DemandVariability = nil, want a value")
	}
	// One entry per lookback day, zero-filled.
	if len(payload.DailyUnits) != 60 {
		t.Fatalf("DailyUnits length = %d, want 60", len(payload.DailyUnits))
	}
	var total float64
	for _, u := range payload.DailyUnits {
		total += u
	}
	if total != 50 {
		t.Errorf("DailyUnits total = %v, want 50", total)
	}
	// The last window day carries the last sale.
	if payload.DailyUnits[59] != 25 {
		t.Errorf("last day units = %v, want 25", payload.DailyUnits[59])
	}
}

func TestBuildPayload_SnapshotOnlySKU(t *testing.T) {
	// A SKU with stock but no buffer still explains: the buffer field is
	// simply nil.
	stock := newFakeStockRepo()
	stock.snapshotDates["WH-1"] = day(2026, 8, 28)
	stock.onHand["WH-1"] = map[string]float64{"SKU-NEW": 30}

	svc := newTestExplainService(newFakeBufferRepo(), newFakeSalesRepo(), stock, newFakePORepo())
	payload, err := svc.BuildPayload(context.Background(), "org-1", "WH-1", "SKU-NEW", day(2026, 8, 28))
	if err != nil {
		t.Fatalf("BuildPayload failed: %v", err)
	}

	if payload.Buffer != nil {
		t.Errorf("Buffer = %+v, want nil", payload.Buffer)
	}
	if payload.OnHand != 30 {
		t.Errorf("OnHand = %v, want 30", payload.OnHand)
	}
}
