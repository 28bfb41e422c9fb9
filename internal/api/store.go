package api

import (
	"context"

	"github.com/erazemk/dostava/internal/model"
)

// Store is the persistence the handlers depend on. *store.Store implements it.
type Store interface {
	Ping(ctx context.Context) error

	CreateWorker(ctx context.Context, name string, onLeave bool) (*model.Worker, error)
	GetWorker(ctx context.Context, id int64) (*model.Worker, error)
	ListWorkers(ctx context.Context) ([]model.Worker, error)
	SetWorkerLeave(ctx context.Context, id int64, onLeave bool) (*model.Worker, error)
	DeleteWorker(ctx context.Context, id int64) error

	CreateItem(ctx context.Context, name string, workerID *int64) (*model.Item, error)
	GetItem(ctx context.Context, id int64) (*model.Item, error)
	ListItems(ctx context.Context) ([]model.Item, error)
	ListWorkerItems(ctx context.Context, workerID int64) ([]model.Item, error)
	AssignItem(ctx context.Context, itemID, workerID int64) (*model.Item, error)
	DeleteItem(ctx context.Context, id int64) error
}
