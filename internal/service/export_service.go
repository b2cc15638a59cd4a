package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/andresuchdata/bufferboard/internal/domain"
	"github.com/andresuchdata/bufferboard/internal/storage"
	"github.com/rs/zerolog/log"
)

// ExportService writes recommendation pages out as CSV, to a local directory
// and optionally to object storage when a client is configured.
type ExportService struct {
	recommendations *RecommendationService
	objects         storage.ObjectStorage
	dir             string
}

func NewExportService(recommendations *RecommendationService, objects storage.ObjectStorage, dir string) *ExportService {
	if dir == "" {
		dir = "data/output"
	}
	return &ExportService{recommendations: recommendations, objects: objects, dir: dir}
}

// ExportRecommendations walks every page of recommendations for a warehouse
// and writes one CSV file. Returns the local path written.
func (s *ExportService) ExportRecommendations(ctx context.Context, filter domain.RecommendationFilter) (string, error) {
	filter.Page = 1
	filter.PageSize = maxPageSize

	var rows []domain.RecommendationRow
	for {
		page, err := s.recommendations.List(ctx, filter)
		if err != nil {
			return "", err
		}
		rows = append(rows, page.Data...)
		if len(rows) >= page.Total || len(page.Data) == 0 {
			break
		}
		filter.Page++
	}

	payload, err := encodeCSV(rows)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("recommendations_%s_%s.csv", filter.WarehouseID, time.Now().UTC().Format("20060102T150405"))
	path := filepath.Join(s.dir, name)
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("writing export file: %w", err)
	}

	if s.objects != nil {
		key := exportPrefix(filter.OrgID) + name
		if err := s.objects.UploadObject(ctx, key, payload); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("export: object upload failed, local copy kept")
		}
	}

	log.Info().Str("path", path).Int("rows", len(rows)).Msg("recommendations exported")
	return path, nil
}

// ListExports returns the export objects uploaded for an org. Deployments
// without object storage simply have none.
func (s *ExportService) ListExports(ctx context.Context, orgID string) ([]storage.ObjectInfo, error) {
	if orgID == "" {
		return nil, domain.NewValidationError("org_id", "must not be empty")
	}
	if s.objects == nil {
		return []storage.ObjectInfo{}, nil
	}
	return s.objects.ListObjects(ctx, exportPrefix(orgID))
}

// DownloadExport fetches one previously uploaded export back into the local
// export directory and returns the local path.
func (s *ExportService) DownloadExport(ctx context.Context, orgID, name string) (string, error) {
	if orgID == "" {
		return "", domain.NewValidationError("org_id", "must not be empty")
	}
	if name == "" || name != filepath.Base(name) {
		return "", domain.NewValidationError("name", "must be a bare file name")
	}
	if s.objects == nil {
		return "", domain.ErrNotFound
	}

	path := filepath.Join(s.dir, name)
	if err := s.objects.DownloadObject(ctx, exportPrefix(orgID)+name, path); err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return path, nil
}

func exportPrefix(orgID string) string {
	return "exports/" + orgID + "/"
}

func encodeCSV(rows []domain.RecommendationRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"sku", "warehouse_id", "zone", "segment",
		"on_hand", "inbound", "stock_position",
		"buffer_qty", "red_threshold", "yellow_threshold",
		"avg_daily_demand", "buffer_penetration",
		"suggested_qty", "overstock", "reason",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, r := range rows {
		penetration := ""
		if r.BufferPenetration != nil {
			penetration = strconv.FormatFloat(*r.BufferPenetration, 'f', 4, 64)
		}
		record := []string{
			r.SKU, r.WarehouseID, string(r.Zone), r.Segment,
			strconv.FormatFloat(r.OnHand, 'f', 2, 64),
			strconv.FormatFloat(r.Inbound, 'f', 2, 64),
			strconv.FormatFloat(r.StockPosition, 'f', 2, 64),
			strconv.FormatFloat(r.BufferQty, 'f', 2, 64),
			strconv.FormatFloat(r.RedThreshold, 'f', 2, 64),
			strconv.FormatFloat(r.YellowThreshold, 'f', 2, 64),
			strconv.FormatFloat(r.AvgDailyDemand, 'f', 4, 64),
			penetration,
			strconv.FormatFloat(r.SuggestedQty, 'f', 0, 64),
			strconv.FormatBool(r.Overstock),
			r.Reason,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
