package ingest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/andresuchdata/bufferboard/internal/domain"
	"github.com/andresuchdata/bufferboard/internal/repository"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

const orgHeader = "X-Org-ID"

// Handler accepts JSON batches from the ingestion collaborator. Every
// endpoint is an idempotent upsert, so collaborators may replay batches
// after a failure.
type Handler struct {
	repo  repository.IngestRepository
	stock repository.StockRepository
	po    repository.PurchaseOrderRepository
}

func NewHandler(repo repository.IngestRepository, stock repository.StockRepository, po repository.PurchaseOrderRepository) *Handler {
	return &Handler{repo: repo, stock: stock, po: po}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/ingest/sales", h.IngestSales).Methods("POST")
	router.HandleFunc("/api/ingest/snapshots", h.IngestSnapshots).Methods("POST")
	router.HandleFunc("/api/ingest/purchase-orders", h.IngestPurchaseOrder).Methods("POST")
	router.HandleFunc("/api/ingest/warehouses", h.IngestWarehouse).Methods("POST")
	router.HandleFunc("/api/ingest/products", h.IngestProduct).Methods("POST")
	router.HandleFunc("/api/ingest/suppliers", h.IngestSupplier).Methods("POST")
	router.HandleFunc("/api/ingest/lead-times", h.IngestLeadTime).Methods("POST")
}

func (h *Handler) IngestSales(w http.ResponseWriter, r *http.Request) {
	org, ok := requestOrg(w, r)
	if !ok {
		return
	}

	var events []domain.SalesEvent
	if err := json.NewDecoder(r.Body).Decode(&events); err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	for i := range events {
		if !claimOrg(w, org, &events[i].OrgID) {
			return
		}
		if events[i].OrderID == "" || events[i].LineID == "" || events[i].SKU == "" {
			http.Error(w, "order_id, line_id and sku are required", http.StatusBadRequest)
			return
		}
	}

	if err := h.repo.UpsertSalesEvents(r.Context(), events); err != nil {
		respondError(w, err)
		return
	}

	respondCount(w, len(events))
}

func (h *Handler) IngestSnapshots(w http.ResponseWriter, r *http.Request) {
	org, ok := requestOrg(w, r)
	if !ok {
		return
	}

	var snapshots []domain.StockSnapshot
	if err := json.NewDecoder(r.Body).Decode(&snapshots); err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	for i := range snapshots {
		if !claimOrg(w, org, &snapshots[i].OrgID) {
			return
		}
		if snapshots[i].SKU == "" || snapshots[i].WarehouseID == "" || snapshots[i].SnapshotDate.IsZero() {
			http.Error(w, "sku, warehouse_id and snapshot_date are required", http.StatusBadRequest)
			return
		}
	}

	if err := h.stock.UpsertSnapshots(r.Context(), snapshots); err != nil {
		respondError(w, err)
		return
	}

	respondCount(w, len(snapshots))
}

type purchaseOrderPayload struct {
	domain.PurchaseOrder
	Lines []domain.PurchaseOrderLine `json:"lines"`
}

func (h *Handler) IngestPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	org, ok := requestOrg(w, r)
	if !ok {
		return
	}

	var payload purchaseOrderPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	if !claimOrg(w, org, &payload.OrgID) {
		return
	}
	if payload.PONumber == "" {
		http.Error(w, "po_number is required", http.StatusBadRequest)
		return
	}
	for i := range payload.Lines {
		payload.Lines[i].OrgID = org
		payload.Lines[i].PONumber = payload.PONumber
		if payload.Lines[i].SKU == "" {
			http.Error(w, "every line needs a sku", http.StatusBadRequest)
			return
		}
	}

	if err := h.po.UpsertOrder(r.Context(), payload.PurchaseOrder, payload.Lines); err != nil {
		respondError(w, err)
		return
	}

	respondCount(w, len(payload.Lines))
}

func (h *Handler) IngestWarehouse(w http.ResponseWriter, r *http.Request) {
	org, ok := requestOrg(w, r)
	if !ok {
		return
	}

	var warehouse domain.Warehouse
	if err := json.NewDecoder(r.Body).Decode(&warehouse); err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	if !claimOrg(w, org, &warehouse.OrgID) {
		return
	}
	if warehouse.Code == "" {
		http.Error(w, "code is required", http.StatusBadRequest)
		return
	}

	if err := h.repo.UpsertWarehouse(r.Context(), &warehouse); err != nil {
		respondError(w, err)
		return
	}

	respondCount(w, 1)
}

func (h *Handler) IngestProduct(w http.ResponseWriter, r *http.Request) {
	org, ok := requestOrg(w, r)
	if !ok {
		return
	}

	var product domain.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	if !claimOrg(w, org, &product.OrgID) {
		return
	}
	if product.SKU == "" {
		http.Error(w, "sku is required", http.StatusBadRequest)
		return
	}

	if err := h.repo.UpsertProduct(r.Context(), &product); err != nil {
		respondError(w, err)
		return
	}

	respondCount(w, 1)
}

func (h *Handler) IngestSupplier(w http.ResponseWriter, r *http.Request) {
	org, ok := requestOrg(w, r)
	if !ok {
		return
	}

	var supplier domain.Supplier
	if err := json.NewDecoder(r.Body).Decode(&supplier); err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	if !claimOrg(w, org, &supplier.OrgID) {
		return
	}
	if supplier.SupplierID == "" {
		http.Error(w, "supplier_id is required", http.StatusBadRequest)
		return
	}

	if err := h.repo.UpsertSupplier(r.Context(), &supplier); err != nil {
		respondError(w, err)
		return
	}

	respondCount(w, 1)
}

func (h *Handler) IngestLeadTime(w http.ResponseWriter, r *http.Request) {
	org, ok := requestOrg(w, r)
	if !ok {
		return
	}

	var stat domain.LeadTimeStat
	if err := json.NewDecoder(r.Body).Decode(&stat); err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	if !claimOrg(w, org, &stat.OrgID) {
		return
	}
	if stat.SKU == "" || stat.ObservedDays <= 0 {
		http.Error(w, "sku and a positive observed_days are required", http.StatusBadRequest)
		return
	}

	if err := h.repo.InsertLeadTimeStat(r.Context(), &stat); err != nil {
		respondError(w, err)
		return
	}

	respondCount(w, 1)
}

func requestOrg(w http.ResponseWriter, r *http.Request) (string, bool) {
	org := strings.TrimSpace(r.Header.Get(orgHeader))
	if org == "" {
		http.Error(w, "X-Org-ID header is required", http.StatusBadRequest)
		return "", false
	}
	return org, true
}

// claimOrg stamps the header org onto a record, rejecting records that
// explicitly claim a different org.
func claimOrg(w http.ResponseWriter, org string, recordOrg *string) bool {
	if *recordOrg != "" && *recordOrg != org {
		http.Error(w, "org mismatch", http.StatusForbidden)
		return false
	}
	*recordOrg = org
	return true
}

func respondError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrStoreUnavailable) {
		http.Error(w, "store unavailable, retry later", http.StatusServiceUnavailable)
		return
	}
	log.Error().Err(err).Msg("ingest request failed")
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func respondCount(w http.ResponseWriter, count int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{"status": "success", "count": count})
}
