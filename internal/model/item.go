package model

import "time"

// Item represents a deliverable unit, optionally assigned to one worker.
// WorkerID is not checked against existing workers and may dangle after
// the worker is deleted.
type Item struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	WorkerID  *int64    `json:"worker_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Assigned reports whether the item references a worker.
func (i *Item) Assigned() bool {
	return i.WorkerID != nil
}
