package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/andresuchdata/bufferboard/internal/domain"
	"github.com/andresuchdata/bufferboard/internal/storage"
)

type fakeObjectStorage struct {
	objects map[string][]byte
}

func newFakeObjectStorage() *fakeObjectStorage {
	return &fakeObjectStorage{objects: map[string][]byte{}}
}

func (f *fakeObjectStorage) ListObjects(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	infos := make([]storage.ObjectInfo, len(keys))
	for i, k := range keys {
		infos[i] = storage.ObjectInfo{Key: k, Size: int64(len(f.objects[k]))}
	}
	return infos, nil
}

func (f *fakeObjectStorage) DownloadObject(ctx context.Context, key, destPath string) error {
	data, ok := f.objects[key]
	if !ok {
		return storage.ErrObjectNotFound
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(destPath, data, 0o644)
}

func (f *fakeObjectStorage) UploadObject(ctx context.Context, key string, data []byte) error {
	f.objects[key] = append([]byte(nil), data...)
	return nil
}

func TestExportRecommendations_WritesCSVAndUploads(t *testing.T) {
	buffers := newFakeBufferRepo()
	buffers.buffers["WH-1"] = map[string]domain.Buffer{
		"SKU-1": {SKU: "SKU-1", WarehouseID: "WH-1", AvgDailyDemand: 10, BufferQty: 100, RedThreshold: 100.0 / 3.0, YellowThreshold: 200.0 / 3.0},
	}
	stock := newFakeStockRepo()
	stock.snapshotDates["WH-1"] = day(2026, 8, 25)
	stock.onHand["WH-1"] = map[string]float64{"SKU-1": 50}

	rec := newTestRecommendationService(buffers, stock, newFakePORepo())
	objects := newFakeObjectStorage()
	svc := NewExportService(rec, objects, t.TempDir())

	path, err := svc.ExportRecommendations(context.Background(), domain.RecommendationFilter{
		OrgID:       "org-1",
		WarehouseID: "WH-1",
		Date:        day(2026, 8, 28),
	})
	if err != nil {
		t.Fatalf("ExportRecommendations failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want header plus one row", len(lines))
	}
	if !strings.HasPrefix(lines[1], "SKU-1,WH-1,yellow") {
		t.Errorf("row = %q, want SKU-1 in the yellow zone", lines[1])
	}

	uploads, err := svc.ListExports(context.Background(), "org-1")
	if err != nil {
		t.Fatalf("ListExports failed: %v", err)
	}
	if len(uploads) != 1 {
		t.Fatalf("uploads = %d, want 1", len(uploads))
	}
	if !strings.HasPrefix(uploads[0].Key, "exports/org-1/recommendations_WH-1_") {
		t.Errorf("Key = %q, want the org-scoped export prefix", uploads[0].Key)
	}
	if uploads[0].Size != int64(len(data)) {
		t.Errorf("Size = %d, want %d", uploads[0].Size, len(data))
	}
}

func TestDownloadExport_RoundTrip(t *testing.T) {
	objects := newFakeObjectStorage()
	objects.objects["exports/org-1/report.csv"] = []byte("sku\nSKU-1\n")
	svc := NewExportService(nil, objects, t.TempDir())

	path, err := svc.DownloadExport(context.Background(), "org-1", "report.csv")
	if err != nil {
		t.Fatalf("DownloadExport failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading download: %v", err)
	}
	if string(data) != "sku\nSKU-1\n" {
		t.Errorf("content = %q, want the uploaded bytes", data)
	}

	if _, err := svc.DownloadExport(context.Background(), "org-1", "missing.csv"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing object: err = %v, want ErrNotFound", err)
	}
	if _, err := svc.DownloadExport(context.Background(), "org-1", "../escape.csv"); !domain.IsValidation(err) {
		t.Errorf("path traversal: err = %v, want ValidationError", err)
	}
}

func TestExports_WithoutObjectStorage(t *testing.T) {
	svc := NewExportService(nil, nil, t.TempDir())

	uploads, err := svc.ListExports(context.Background(), "org-1")
	if err != nil {
		t.Fatalf("ListExports failed: %v", err)
	}
	if len(uploads) != 0 {
		t.Errorf("uploads = %d, want 0 without object storage", len(uploads))
	}

	if _, err := svc.DownloadExport(context.Background(), "org-1", "x.csv"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound without object storage", err)
	}
}
