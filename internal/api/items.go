package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/erazemk/dostava/internal/model"
)

// ItemsHandler handles item endpoints.
type ItemsHandler struct {
	Store Store
}

type assignResponse struct {
	Message string      `json:"message"`
	Item    *model.Item `json:"item"`
}

// Create handles POST /items/.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	params, err := readParams(w, r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	name := params.Get("name")
	if name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	workerID, err := paramOptionalID(params, "worker_id")
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.Store.CreateItem(r.Context(), name, workerID)
	if err != nil {
		storeError(w, r, err, "create item")
		return
	}

	attrs := []any{"id", item.ID, "name", item.Name}
	if item.Assigned() {
		attrs = append(attrs, "worker_id", *item.WorkerID)
	}
	slog.Info("item created", attrs...)
	jsonResponse(w, http.StatusCreated, item)
}

// List handles GET /items/.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Store.ListItems(r.Context())
	if err != nil {
		storeError(w, r, err, "list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Get handles GET /items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.Store.GetItem(r.Context(), id)
	if err != nil {
		storeError(w, r, err, "get item")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Assign handles PUT /assign-item/{item_id}/{worker_id}. The worker is not
// looked up; unknown worker IDs are stored as given.
func (h *ItemsHandler) Assign(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "item_id")
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	workerID, err := pathID(r, "worker_id")
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.Store.AssignItem(r.Context(), itemID, workerID)
	if err != nil {
		storeError(w, r, err, "assign item")
		return
	}

	slog.Info("item assigned", "item_id", itemID, "worker_id", workerID)
	jsonResponse(w, http.StatusOK, assignResponse{
		Message: fmt.Sprintf("item %d assigned to worker %d", itemID, workerID),
		Item:    item,
	})
}

// Delete handles DELETE /delete-item/{item_id}/.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "item_id")
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Store.DeleteItem(r.Context(), id); err != nil {
		storeError(w, r, err, "delete item")
		return
	}

	slog.Info("item deleted", "id", id)
	jsonResponse(w, http.StatusOK, messageResponse{Message: "item deleted", ID: id})
}
