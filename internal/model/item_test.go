package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestItemWorkerIDSerializesNull(t *testing.T) {
	item := Item{ID: 1, Name: "Box"}
	if item.Assigned() {
		t.Error("expected unassigned item")
	}

	data, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), `"worker_id":null`) {
		t.Errorf("expected worker_id null in %s", data)
	}

	workerID := int64(7)
	item.WorkerID = &workerID
	if !item.Assigned() {
		t.Error("expected assigned item")
	}
	data, _ = json.Marshal(item)
	if !strings.Contains(string(data), `"worker_id":7`) {
		t.Errorf("expected worker_id 7 in %s", data)
	}
}
