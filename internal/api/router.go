package api

import "net/http"

// NewRouter creates the API router with all endpoints registered.
func NewRouter(s Store) http.Handler {
	mux := http.NewServeMux()

	workersHandler := &WorkersHandler{Store: s}
	itemsHandler := &ItemsHandler{Store: s}
	healthHandler := &HealthHandler{Store: s}

	mux.HandleFunc("GET /health", healthHandler.Check)

	// Workers.
	handleBoth(mux, "POST /workers", workersHandler.Create)
	handleBoth(mux, "GET /workers", workersHandler.List)
	handleBoth(mux, "GET /workers/{id}", workersHandler.Get)
	handleBoth(mux, "GET /workers/{id}/items", workersHandler.Items)
	handleBoth(mux, "PUT /leave-status/{worker_id}", workersHandler.SetLeave)
	handleBoth(mux, "DELETE /delete-worker/{worker_id}", workersHandler.Delete)

	// Items.
	handleBoth(mux, "POST /items", itemsHandler.Create)
	handleBoth(mux, "GET /items", itemsHandler.List)
	handleBoth(mux, "GET /items/{id}", itemsHandler.Get)
	handleBoth(mux, "PUT /assign-item/{item_id}/{worker_id}", itemsHandler.Assign)
	handleBoth(mux, "DELETE /delete-item/{item_id}", itemsHandler.Delete)

	return mux
}

// handleBoth registers pattern with and without a trailing slash, so
// /workers and /workers/ reach the same handler.
func handleBoth(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, h)
	mux.HandleFunc(pattern+"/{$}", h)
}
