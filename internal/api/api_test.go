package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/erazemk/dostava/internal/db"
	"github.com/erazemk/dostava/internal/model"
	"github.com/erazemk/dostava/internal/store"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	database := db.NewTestDB(t)
	router := NewRouter(store.New(database, db.DriverSQLite))
	server := httptest.NewServer(LoggingMiddleware(router))
	t.Cleanup(server.Close)
	return server
}

// doJSON sends a request with an optional JSON body and decodes the response
// into out when out is non-nil.
func doJSON(t *testing.T, method, url string, body, out any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decoding %s %s response: %v", method, url, err)
		}
	}
	return resp
}

func TestWorkersAPIFlow(t *testing.T) {
	server := setupTestServer(t)

	var created model.Worker
	resp := doJSON(t, "POST", server.URL+"/workers/", map[string]any{"name": "Bob", "on_leave": false}, &created)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if created.ID != 1 || created.Name != "Bob" || created.OnLeave {
		t.Errorf("unexpected worker %+v", created)
	}

	var got model.Worker
	resp = doJSON(t, "GET", server.URL+"/workers/1", nil, &got)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if got.ID != created.ID || got.Name != "Bob" {
		t.Errorf("expected stable worker, got %+v", got)
	}

	var workers []model.Worker
	resp = doJSON(t, "GET", server.URL+"/workers", nil, &workers)
	if resp.StatusCode != http.StatusOK || len(workers) != 1 {
		t.Errorf("expected 1 worker with 200, got %d workers and %d", len(workers), resp.StatusCode)
	}
}

func TestCreateWorkerFromQuery(t *testing.T) {
	server := setupTestServer(t)

	var created model.Worker
	resp := doJSON(t, "POST", server.URL+"/workers/?name=Pepper&on_leave=true", nil, &created)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if created.Name != "Pepper" || !created.OnLeave {
		t.Errorf("expected Pepper on leave, got %+v", created)
	}
}

func TestCreateWorkerBadParams(t *testing.T) {
	server := setupTestServer(t)

	tests := []struct {
		name string
		url  string
		body any
	}{
		{"missing name", "/workers/", map[string]any{"on_leave": true}},
		{"bad on_leave", "/workers/?name=Bob&on_leave=maybe", nil},
		{"nested value", "/workers/", map[string]any{"name": "Bob", "on_leave": []bool{true}}},
	}

	for _, tt := range tests {
		var errResp map[string]string
		resp := doJSON(t, "POST", server.URL+tt.url, tt.body, &errResp)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", tt.name, resp.StatusCode)
		}
		if errResp["error"] == "" {
			t.Errorf("%s: expected error message", tt.name)
		}
	}
}

func TestCreateWorkerTrailingJSON(t *testing.T) {
	server := setupTestServer(t)

	resp, err := http.Post(server.URL+"/workers/", "application/json",
		strings.NewReader(`{"name":"Bob"} {"name":"Eve"}`))
	if err != nil {
		t.Fatalf("POST /workers/: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}

	var workers []model.Worker
	doJSON(t, "GET", server.URL+"/workers/", nil, &workers)
	if len(workers) != 0 {
		t.Errorf("expected no workers created, got %d", len(workers))
	}
}

func TestGetWorkerNotFound(t *testing.T) {
	server := setupTestServer(t)

	var errResp map[string]string
	resp := doJSON(t, "GET", server.URL+"/workers/9999", nil, &errResp)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
	if errResp["error"] != "worker 9999 not found" {
		t.Errorf("unexpected error message %q", errResp["error"])
	}

	resp = doJSON(t, "GET", server.URL+"/workers/abc", nil, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for non-numeric id, got %d", resp.StatusCode)
	}
}

func TestLeaveStatusRoundTrip(t *testing.T) {
	server := setupTestServer(t)

	doJSON(t, "POST", server.URL+"/workers/", map[string]any{"name": "Bob"}, nil)

	var w model.Worker
	resp := doJSON(t, "PUT", server.URL+"/leave-status/1/?on_leave=true", nil, &w)
	if resp.StatusCode != http.StatusOK || !w.OnLeave {
		t.Fatalf("expected on leave with 200, got %+v and %d", w, resp.StatusCode)
	}

	resp = doJSON(t, "PUT", server.URL+"/leave-status/1/", map[string]any{"on_leave": false}, &w)
	if resp.StatusCode != http.StatusOK || w.OnLeave {
		t.Fatalf("expected back from leave with 200, got %+v and %d", w, resp.StatusCode)
	}

	doJSON(t, "GET", server.URL+"/workers/1", nil, &w)
	if w.OnLeave {
		t.Error("expected stored on_leave false")
	}

	resp = doJSON(t, "PUT", server.URL+"/leave-status/1/", nil, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 without on_leave, got %d", resp.StatusCode)
	}

	resp = doJSON(t, "PUT", server.URL+"/leave-status/9999/?on_leave=true", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown worker, got %d", resp.StatusCode)
	}
}

func TestItemsAPIFlow(t *testing.T) {
	server := setupTestServer(t)

	var item model.Item
	resp := doJSON(t, "POST", server.URL+"/items/", map[string]any{"name": "Box", "worker_id": nil}, &item)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if item.ID != 1 || item.WorkerID != nil {
		t.Errorf("unexpected item %+v", item)
	}

	resp = doJSON(t, "POST", server.URL+"/items?name=Bag&worker_id=3", nil, &item)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if item.WorkerID == nil || *item.WorkerID != 3 {
		t.Errorf("expected worker_id 3, got %v", item.WorkerID)
	}

	var items []model.Item
	doJSON(t, "GET", server.URL+"/items/", nil, &items)
	if len(items) != 2 {
		t.Errorf("expected 2 items, got %d", len(items))
	}

	resp = doJSON(t, "POST", server.URL+"/items/?name=Crate&worker_id=first", nil, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for non-numeric worker_id, got %d", resp.StatusCode)
	}
}

func TestAssignItemNotFound(t *testing.T) {
	server := setupTestServer(t)

	resp := doJSON(t, "PUT", server.URL+"/assign-item/9999/1", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestWorkerItems(t *testing.T) {
	server := setupTestServer(t)

	doJSON(t, "POST", server.URL+"/workers/", map[string]any{"name": "Bob"}, nil)
	doJSON(t, "POST", server.URL+"/items/", map[string]any{"name": "Box"}, nil)
	doJSON(t, "POST", server.URL+"/items/", map[string]any{"name": "Bag"}, nil)
	doJSON(t, "PUT", server.URL+"/assign-item/2/1", nil, nil)

	var items []model.Item
	resp := doJSON(t, "GET", server.URL+"/workers/1/items", nil, &items)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if len(items) != 1 || items[0].Name != "Bag" {
		t.Errorf("expected only Bag, got %+v", items)
	}
}

func TestDeleteEndpoints(t *testing.T) {
	server := setupTestServer(t)

	doJSON(t, "POST", server.URL+"/workers/", map[string]any{"name": "Bob"}, nil)
	doJSON(t, "POST", server.URL+"/items/", map[string]any{"name": "Box"}, nil)

	var msg messageResponse
	resp := doJSON(t, "DELETE", server.URL+"/delete-item/1/", nil, &msg)
	if resp.StatusCode != http.StatusOK || msg.ID != 1 || msg.Message != "item deleted" {
		t.Errorf("unexpected delete item response %d %+v", resp.StatusCode, msg)
	}
	resp = doJSON(t, "DELETE", server.URL+"/delete-item/1/", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 deleting item twice, got %d", resp.StatusCode)
	}

	resp = doJSON(t, "DELETE", server.URL+"/delete-worker/1", nil, &msg)
	if resp.StatusCode != http.StatusOK || msg.Message != "worker deleted" {
		t.Errorf("unexpected delete worker response %d %+v", resp.StatusCode, msg)
	}
	resp = doJSON(t, "DELETE", server.URL+"/delete-worker/1/", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 deleting worker twice, got %d", resp.StatusCode)
	}
}

func TestOrphanedReferenceScenario(t *testing.T) {
	server := setupTestServer(t)

	var bob model.Worker
	doJSON(t, "POST", server.URL+"/workers/", map[string]any{"name": "Bob", "on_leave": false}, &bob)
	if bob.ID != 1 {
		t.Fatalf("expected Bob id 1, got %d", bob.ID)
	}

	var box model.Item
	doJSON(t, "POST", server.URL+"/items/", map[string]any{"name": "Box", "worker_id": nil}, &box)
	if box.ID != 1 {
		t.Fatalf("expected Box id 1, got %d", box.ID)
	}

	var assigned assignResponse
	resp := doJSON(t, "PUT", server.URL+"/assign-item/1/1", nil, &assigned)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 assigning, got %d", resp.StatusCode)
	}
	if assigned.Item == nil || assigned.Item.WorkerID == nil || *assigned.Item.WorkerID != 1 {
		t.Fatalf("expected item assigned to worker 1, got %+v", assigned.Item)
	}

	resp = doJSON(t, "DELETE", server.URL+"/delete-worker/1/", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 deleting worker, got %d", resp.StatusCode)
	}

	var item model.Item
	resp = doJSON(t, "GET", server.URL+"/items/1", nil, &item)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 reading item, got %d", resp.StatusCode)
	}
	if item.WorkerID == nil || *item.WorkerID != 1 {
		t.Errorf("expected orphaned worker_id 1, got %v", item.WorkerID)
	}
}

func TestHealth(t *testing.T) {
	server := setupTestServer(t)

	var body map[string]string
	resp := doJSON(t, "GET", server.URL+"/health", nil, &body)
	if resp.StatusCode != http.StatusOK || body["status"] != "ok" {
		t.Errorf("expected healthy, got %d %v", resp.StatusCode, body)
	}
}

func TestRequestIDHeader(t *testing.T) {
	server := setupTestServer(t)

	resp := doJSON(t, "GET", server.URL+"/health", nil, nil)
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Error("expected generated request id")
	}

	req, _ := http.NewRequest("GET", server.URL+"/health", nil)
	req.Header.Set(RequestIDHeader, "trace-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != "trace-123" {
		t.Errorf("expected client request id echoed, got %q", got)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	server := setupTestServer(t)

	resp := doJSON(t, "GET", server.URL+"/delete-worker/1/", nil, nil)
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", resp.StatusCode)
	}
}

// failingStore fails every call it implements. Unimplemented methods panic
// through the nil embedded interface.
type failingStore struct {
	Store
	err error
}

func (f *failingStore) Ping(context.Context) error { return f.err }

func (f *failingStore) GetWorker(context.Context, int64) (*model.Worker, error) {
	return nil, f.err
}

func (f *failingStore) CreateItem(context.Context, string, *int64) (*model.Item, error) {
	return nil, f.err
}

func TestStorageFailures(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"storage failure", errors.New("disk I/O error"), http.StatusInternalServerError},
		{"busy", store.ErrBusy, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		server := httptest.NewServer(NewRouter(&failingStore{err: tt.err}))

		var errResp map[string]string
		resp := doJSON(t, "GET", server.URL+"/workers/1", nil, &errResp)
		if resp.StatusCode != tt.status {
			t.Errorf("%s: get worker expected %d, got %d", tt.name, tt.status, resp.StatusCode)
		}
		if errResp["error"] == "" {
			t.Errorf("%s: expected error message", tt.name)
		}

		resp = doJSON(t, "POST", server.URL+"/items/", map[string]any{"name": "Box"}, nil)
		if resp.StatusCode != tt.status {
			t.Errorf("%s: create item expected %d, got %d", tt.name, tt.status, resp.StatusCode)
		}

		resp = doJSON(t, "GET", server.URL+"/health", nil, nil)
		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Errorf("%s: health expected 503, got %d", tt.name, resp.StatusCode)
		}

		server.Close()
	}
}
