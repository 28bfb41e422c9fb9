package api

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/dostava/internal/model"
)

// WorkersHandler handles worker endpoints.
type WorkersHandler struct {
	Store Store
}

// Create handles POST /workers/.
func (h *WorkersHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	onLeave, _, err := paramBool(params, "on_leave")
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	worker, err := h.Store.CreateWorker(r.Context(), name, onLeave)
	if err != nil {
		storeError(w, r, err, "create worker")
		return
	}

	slog.Info("worker created", "id", worker.ID, "name", worker.Name, "on_leave", worker.OnLeave)
	jsonResponse(w, http.StatusCreated, worker)
}

// List handles GET /workers/.
func (h *WorkersHandler) List(w http.ResponseWriter, r *http.Request) {
	workers, err := h.Store.ListWorkers(r.Context())
	if err != nil {
		storeError(w, r, err, "list workers")
		return
	}
	if workers == nil {
		workers = []model.Worker{}
	}
	jsonResponse(w, http.StatusOK, workers)
}

// Get handles GET /workers/{id}.
func (h *WorkersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	worker, err := h.Store.GetWorker(r.Context(), id)
	if err != nil {
		storeError(w, r, err, "get worker")
		return
	}
	jsonResponse(w, http.StatusOK, worker)
}

// Items handles GET /workers/{id}/items.
func (h *WorkersHandler) Items(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := h.Store.ListWorkerItems(r.Context(), id)
	if err != nil {
		storeError(w, r, err, "list worker items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// SetLeave handles PUT /leave-status/{worker_id}/.
func (h *WorkersHandler) SetLeave(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "worker_id")
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	params, err := readParams(w, r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	onLeave, ok, err := paramBool(params, "on_leave")
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !ok {
		jsonError(w, http.StatusBadRequest, "on_leave required")
		return
	}

	worker, err := h.Store.SetWorkerLeave(r.Context(), id, onLeave)
	if err != nil {
		storeError(w, r, err, "update leave status")
		return
	}

	slog.Info("worker leave status updated", "id", worker.ID, "on_leave", worker.OnLeave)
	jsonResponse(w, http.StatusOK, worker)
}

// Delete handles DELETE /delete-worker/{worker_id}/.
func (h *WorkersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "worker_id")
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Store.DeleteWorker(r.Context(), id); err != nil {
		storeError(w, r, err, "delete worker")
		return
	}

	slog.Info("worker deleted", "id", id)
	jsonResponse(w, http.StatusOK, messageResponse{Message: "worker deleted", ID: id})
}
