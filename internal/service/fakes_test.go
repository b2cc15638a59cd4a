package service

import (
	"context"
	"time"

	"github.com/andresuchdata/bufferboard/internal/domain"
)

// In-memory repository fakes for service tests. Maps are keyed the way the
// SQL tables are.

type fakeSalesRepo struct {
	rebuilds []domain.DateRange
	events   []domain.SalesEvent
	rollups  map[string]domain.DailySalesRollup        // "date|sku|warehouse|channel"
	series   map[string]map[string][]domain.DailyUnits // warehouse -> sku -> points
}

func newFakeSalesRepo() *fakeSalesRepo {
	return &fakeSalesRepo{
		rollups: map[string]domain.DailySalesRollup{},
		series:  map[string]map[string][]domain.DailyUnits{},
	}
}

// RebuildDailyRollups mirrors the SQL implementation: rows in the range are
// dropped, then regrouped from the raw events.
func (f *fakeSalesRepo) RebuildDailyRollups(ctx context.Context, orgID string, rng domain.DateRange) error {
	f.rebuilds = append(f.rebuilds, rng)

	for key, r := range f.rollups {
		if !r.SalesDate.Before(rng.From) && !r.SalesDate.After(rng.To) {
			delete(f.rollups, key)
		}
	}

	for _, e := range f.events {
		d := time.Date(e.OccurredAt.Year(), e.OccurredAt.Month(), e.OccurredAt.Day(), 0, 0, 0, 0, time.UTC)
		if d.Before(rng.From) || d.After(rng.To) {
			continue
		}
		wh := domain.GlobalWarehouse
		if e.WarehouseID != nil {
			wh = *e.WarehouseID
		}
		ch := domain.AllChannels
		if e.Channel != nil {
			ch = *e.Channel
		}
		key := d.Format("2006-01-02") + "|" + e.SKU + "|" + wh + "|" + ch
		r := f.rollups[key]
		r.OrgID = orgID
		r.SalesDate = d
		r.SKU = e.SKU
		r.WarehouseID = wh
		r.Channel = ch
		r.Units += e.Quantity
		r.Orders++
		f.rollups[key] = r
	}
	return nil
}

func (f *fakeSalesRepo) GetDailyUnits(ctx context.Context, orgID, sku string, warehouseID *string, rng domain.DateRange) ([]domain.DailyUnits, error) {
	if warehouseID != nil {
		return f.series[*warehouseID][sku], nil
	}
	var all []domain.DailyUnits
	for _, skus := range f.series {
		all = append(all, skus[sku]...)
	}
	return all, nil
}

func (f *fakeSalesRepo) ListSKUDailyUnits(ctx context.Context, orgID, warehouseID string, rng domain.DateRange) (map[string][]domain.DailyUnits, error) {
	result := map[string][]domain.DailyUnits{}
	for sku, points := range f.series[warehouseID] {
		result[sku] = points
	}
	return result, nil
}

type fakeBufferRepo struct {
	buffers map[string]map[string]domain.Buffer // warehouse -> sku -> buffer
	upserts int
}

func newFakeBufferRepo() *fakeBufferRepo {
	return &fakeBufferRepo{buffers: map[string]map[string]domain.Buffer{}}
}

func (f *fakeBufferRepo) Get(ctx context.Context, orgID, sku, warehouseID string) (*domain.Buffer, error) {
	if b, ok := f.buffers[warehouseID][sku]; ok {
		return &b, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeBufferRepo) ListByWarehouse(ctx context.Context, orgID, warehouseID string) (map[string]domain.Buffer, error) {
	result := map[string]domain.Buffer{}
	for sku, b := range f.buffers[warehouseID] {
		result[sku] = b
	}
	return result, nil
}

func (f *fakeBufferRepo) ListPage(ctx context.Context, orgID, warehouseID string, page, pageSize int) ([]domain.Buffer, int, error) {
	all := sortedBuffers(f.buffers[warehouseID])
	total := len(all)
	start := (page - 1) * pageSize
	if start >= total {
		return nil, total, nil
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (f *fakeBufferRepo) UpsertBatch(ctx context.Context, orgID, warehouseID string, buffers []domain.Buffer) error {
	f.upserts++
	if f.buffers[warehouseID] == nil {
		f.buffers[warehouseID] = map[string]domain.Buffer{}
	}
	for _, b := range buffers {
		f.buffers[warehouseID][b.SKU] = b
	}
	return nil
}

func sortedBuffers(m map[string]domain.Buffer) []domain.Buffer {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 0; i < len(keys); i++ {
		for j := i + 1; j < len(keys); j++ {
			if keys[j] < keys[i] {
				keys[i], keys[j] = keys[j], keys[i]
			}
		}
	}
	out := make([]domain.Buffer, len(keys))
	for i, k := range keys {
		out[i] = m[k]
	}
	return out
}

type fakeStockRepo struct {
	snapshotDates map[string]time.Time          // warehouse -> latest snapshot date
	onHand        map[string]map[string]float64 // warehouse -> sku -> qty
	expiries      map[string]time.Time          // sku -> earliest expiry
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{
		snapshotDates: map[string]time.Time{},
		onHand:        map[string]map[string]float64{},
		expiries:      map[string]time.Time{},
	}
}

func (f *fakeStockRepo) ResolveSnapshotDate(ctx context.Context, orgID, warehouseID string, date time.Time) (*time.Time, error) {
	d, ok := f.snapshotDates[warehouseID]
	if !ok || d.After(date) {
		return nil, nil
	}
	return &d, nil
}

func (f *fakeStockRepo) OnHandBySKU(ctx context.Context, orgID, warehouseID string, date time.Time, skus []string) (map[string]float64, error) {
	result := map[string]float64{}
	for _, sku := range skus {
		if qty, ok := f.onHand[warehouseID][sku]; ok {
			result[sku] = qty
		}
	}
	return result, nil
}

func (f *fakeStockRepo) OnHand(ctx context.Context, orgID, sku string, warehouseID *string, date time.Time) (float64, *time.Time, error) {
	if warehouseID != nil {
		d, ok := f.snapshotDates[*warehouseID]
		if !ok || d.After(date) {
			return 0, nil, nil
		}
		return f.onHand[*warehouseID][sku], &d, nil
	}
	var total float64
	var latest *time.Time
	for wh, skus := range f.onHand {
		if d, ok := f.snapshotDates[wh]; ok && !d.After(date) {
			total += skus[sku]
			if latest == nil || d.After(*latest) {
				dd := d
				latest = &dd
			}
		}
	}
	return total, latest, nil
}

func (f *fakeStockRepo) EarliestExpiry(ctx context.Context, orgID, sku string, warehouseID *string) (*time.Time, error) {
	if e, ok := f.expiries[sku]; ok {
		return &e, nil
	}
	return nil, nil
}

func (f *fakeStockRepo) UpsertSnapshots(ctx context.Context, snapshots []domain.StockSnapshot) error {
	return nil
}

type fakePORepo struct {
	inbound          map[string]float64
	medians          map[string]float64
	supplierDefaults map[string]float64
	constraints      map[string]domain.OrderConstraints
}

func newFakePORepo() *fakePORepo {
	return &fakePORepo{
		inbound:          map[string]float64{},
		medians:          map[string]float64{},
		supplierDefaults: map[string]float64{},
		constraints:      map[string]domain.OrderConstraints{},
	}
}

func (f *fakePORepo) InboundBySKU(ctx context.Context, orgID string, skus []string) (map[string]float64, error) {
	result := map[string]float64{}
	for _, sku := range skus {
		if q, ok := f.inbound[sku]; ok {
			result[sku] = q
		}
	}
	return result, nil
}

func (f *fakePORepo) Inbound(ctx context.Context, orgID, sku string) (float64, error) {
	return f.inbound[sku], nil
}

func (f *fakePORepo) Constraints(ctx context.Context, orgID, sku string) (*domain.OrderConstraints, error) {
	if c, ok := f.constraints[sku]; ok {
		return &c, nil
	}
	return nil, nil
}

func (f *fakePORepo) MedianLeadTimes(ctx context.Context, orgID string, skus []string) (map[string]float64, error) {
	result := map[string]float64{}
	for _, sku := range skus {
		if m, ok := f.medians[sku]; ok {
			result[sku] = m
		}
	}
	return result, nil
}

func (f *fakePORepo) SupplierDefaults(ctx context.Context, orgID string, skus []string) (map[string]float64, error) {
	result := map[string]float64{}
	for _, sku := range skus {
		if d, ok := f.supplierDefaults[sku]; ok {
			result[sku] = d
		}
	}
	return result, nil
}

func (f *fakePORepo) UpsertOrder(ctx context.Context, order domain.PurchaseOrder, lines []domain.PurchaseOrderLine) error {
	return nil
}

type fakeReferenceRepo struct {
	warehouses map[string]bool
}

func newFakeReferenceRepo(codes ...string) *fakeReferenceRepo {
	f := &fakeReferenceRepo{warehouses: map[string]bool{}}
	for _, c := range codes {
		f.warehouses[c] = true
	}
	return f
}

func (f *fakeReferenceRepo) WarehouseExists(ctx context.Context, orgID, code string) (bool, error) {
	return f.warehouses[code], nil
}

func (f *fakeReferenceRepo) ListWarehouses(ctx context.Context, orgID string) ([]domain.Warehouse, error) {
	return nil, nil
}

func (f *fakeReferenceRepo) ListProducts(ctx context.Context, orgID, search string, limit, offset int) ([]domain.Product, error) {
	return nil, nil
}

type fakeRunRepo struct {
	runs []*domain.RecalcRun
}

func (f *fakeRunRepo) Create(ctx context.Context, run *domain.RecalcRun) error {
	run.ID = int64(len(f.runs) + 1)
	f.runs = append(f.runs, run)
	return nil
}

func (f *fakeRunRepo) Update(ctx context.Context, run *domain.RecalcRun) error {
	return nil
}

func (f *fakeRunRepo) ListByWarehouse(ctx context.Context, orgID, warehouseID string, limit int) ([]domain.RecalcRun, error) {
	var out []domain.RecalcRun
	for _, r := range f.runs {
		if r.WarehouseID == warehouseID {
			out = append(out, *r)
		}
	}
	return out, nil
}
