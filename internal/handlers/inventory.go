package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/harari-inventory/apiserver/internal/export"
	"github.com/harari-inventory/apiserver/internal/logger"
	"github.com/harari-inventory/apiserver/internal/services"
	"github.com/harari-inventory/apiserver/internal/storage"
	"github.com/harari-inventory/apiserver/types"
)

const (
	msgInventoryLoadFailed = "재고 데이터를 불러오는데 실패했습니다."
	msgCountLoadFailed     = "재고조사 데이터를 불러오는데 실패했습니다."
	msgCountBadFormat      = "데이터 형식이 올바르지 않습니다."
	msgCountUpdated        = "재고가 성공적으로 업데이트되었습니다."
	msgCountUpdatedNoLog   = "재고는 성공적으로 업데이트되었습니다."
	msgCountUpdateFailed   = "재고 업데이트 중 오류가 발생했습니다."
	msgExportFailed        = "재고 내보내기에 실패했습니다."
)

// InventoryHandler serves the inventory and count views and count submission.
type InventoryHandler struct {
	inventory *services.InventoryService
	counts    *services.CountService
	snapshots *services.SnapshotService
	log       *logger.Logger
	now       func() time.Time
}

func NewInventoryHandler(inventory *services.InventoryService, counts *services.CountService, snapshots *services.SnapshotService, log *logger.Logger) *InventoryHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &InventoryHandler{
		inventory: inventory,
		counts:    counts,
		snapshots: snapshots,
		log:       log,
		now:       time.Now,
	}
}

// InventoryRouter registers the inventory routes. guard, when non-nil, is
// applied to every route.
func InventoryRouter(r chi.Router, handler *InventoryHandler, guard func(http.Handler) http.Handler) {
	if guard != nil {
		r = r.With(guard)
	}
	r.Get("/inventory", handler.ListInventory)
	r.Get("/inventory/export", handler.ExportInventory)
	r.Get("/inventory-check", handler.ListCounts)
	r.Post("/inventory-check/update", handler.UpdateCounts)
}

type DataResponse[T any] struct {
	Data []T `json:"data"`
}

// ListInventory returns every row of the inventory sheet.
func (h *InventoryHandler) ListInventory(w http.ResponseWriter, r *http.Request) {
	items, err := h.inventory.Items(r.Context())
	if err != nil {
		h.log.Error(r.Context(), "inventory.list_failed", err)
		writeErrorDetails(w, http.StatusInternalServerError, msgInventoryLoadFailed, err)
		return
	}
	if items == nil {
		items = []types.InventoryItem{}
	}
	writeJSON(w, http.StatusOK, DataResponse[types.InventoryItem]{Data: items})
}

// ListCounts returns every row of the count sheet.
func (h *InventoryHandler) ListCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.inventory.Counts(r.Context())
	if err != nil {
		h.log.Error(r.Context(), "inventory_check.list_failed", err)
		writeErrorDetails(w, http.StatusInternalServerError, msgCountLoadFailed, err)
		return
	}
	if counts == nil {
		counts = []types.CountEntry{}
	}
	writeJSON(w, http.StatusOK, DataResponse[types.CountEntry]{Data: counts})
}

type countItem struct {
	Item     textValue `json:"항목"`
	Quantity textValue `json:"재고"`
}

type UpdateCountsResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Warning string `json:"warning,omitempty"`
}

// UpdateCounts applies a batch of counted quantities.
func (h *InventoryHandler) UpdateCounts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body struct {
		Data json.RawMessage `json:"data"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, msgCountBadFormat)
		return
	}
	raw := bytes.TrimSpace(body.Data)
	if len(raw) == 0 || raw[0] != '[' {
		writeError(w, http.StatusBadRequest, msgCountBadFormat)
		return
	}
	var items []countItem
	if err := json.Unmarshal(raw, &items); err != nil {
		writeError(w, http.StatusBadRequest, msgCountBadFormat)
		return
	}

	sub := services.CountSubmission{Entries: make([]types.CountEntry, 0, len(items))}
	for _, item := range items {
		sub.Entries = append(sub.Entries, types.CountEntry{Item: string(item.Item), Quantity: string(item.Quantity)})
	}
	if user, ok := UserFromContext(ctx); ok {
		sub.SubmittedBy = user.Name
	}

	result, err := h.counts.Submit(ctx, sub)
	if err != nil {
		h.log.Error(ctx, "inventory_check.update_failed", err)
		writeErrorDetails(w, http.StatusInternalServerError, msgCountUpdateFailed, err)
		return
	}

	h.log.Info(h.log.WithFields(ctx, map[string]any{
		"entries":       len(sub.Entries),
		"cells_written": result.CellsWritten,
		"log_written":   result.LogWritten,
	}), "inventory_check.updated")

	if result.Warning != "" {
		writeJSON(w, http.StatusOK, UpdateCountsResponse{
			Success: true,
			Message: msgCountUpdatedNoLog,
			Warning: result.Warning,
		})
		return
	}
	writeJSON(w, http.StatusOK, UpdateCountsResponse{Success: true, Message: msgCountUpdated})
}

// ExportInventory streams an xlsx snapshot of the inventory, count and log sheets.
func (h *InventoryHandler) ExportInventory(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snapshots.Collect(r.Context())
	if err != nil {
		h.log.Error(r.Context(), "inventory.export_failed", err)
		writeErrorDetails(w, http.StatusInternalServerError, msgExportFailed, err)
		return
	}

	data, err := export.Bytes(snap)
	if err != nil {
		h.log.Error(r.Context(), "inventory.export_failed", err)
		writeErrorDetails(w, http.StatusInternalServerError, msgExportFailed, err)
		return
	}

	filename := fmt.Sprintf("inventory-%s.xlsx", h.now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", storage.XLSXContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
