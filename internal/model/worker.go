package model

import "time"

// Worker represents a person who can carry items.
type Worker struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	OnLeave   bool      `json:"on_leave"`
	CreatedAt time.Time `json:"created_at"`
}
