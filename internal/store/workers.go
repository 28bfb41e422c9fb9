package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/erazemk/dostava/internal/model"
)

const workerColumns = `id, name, on_leave, created_at`

func scanWorker(row scanner) (*model.Worker, error) {
	w := &model.Worker{}
	if err := row.Scan(&w.ID, &w.Name, &w.OnLeave, &w.CreatedAt); err != nil {
		return nil, err
	}
	return w, nil
}

// CreateWorker creates a new worker and returns it with its assigned ID.
func (s *Store) CreateWorker(ctx context.Context, name string, onLeave bool) (*model.Worker, error) {
	var w *model.Worker
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var id int64
		err := tx.QueryRowContext(ctx,
			s.q(`INSERT INTO workers (name, on_leave) VALUES (?, ?) RETURNING id`),
			name, onLeave,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("creating worker: %w", err)
		}

		w, err = s.getWorker(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

// GetWorker returns a worker by ID.
func (s *Store) GetWorker(ctx context.Context, id int64) (*model.Worker, error) {
	var w *model.Worker
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		w, err = s.getWorker(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (s *Store) getWorker(ctx context.Context, tx *sql.Tx, id int64) (*model.Worker, error) {
	w, err := scanWorker(tx.QueryRowContext(ctx,
		s.q(`SELECT `+workerColumns+` FROM workers WHERE id = ?`), id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Kind: "worker", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("getting worker: %w", err)
	}
	return w, nil
}

// ListWorkers returns all workers ordered by ID.
func (s *Store) ListWorkers(ctx context.Context) ([]model.Worker, error) {
	var workers []model.Worker
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `SELECT `+workerColumns+` FROM workers ORDER BY id`)
		if err != nil {
			return fmt.Errorf("listing workers: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			w, err := scanWorker(rows)
			if err != nil {
				return fmt.Errorf("scanning worker: %w", err)
			}
			workers = append(workers, *w)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return workers, nil
}

// SetWorkerLeave sets a worker's leave status and returns the updated worker.
func (s *Store) SetWorkerLeave(ctx context.Context, id int64, onLeave bool) (*model.Worker, error) {
	var w *model.Worker
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		w, err = s.getWorker(ctx, tx, id)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			s.q(`UPDATE workers SET on_leave = ? WHERE id = ?`), onLeave, id,
		); err != nil {
			return fmt.Errorf("updating worker leave status: %w", err)
		}
		w.OnLeave = onLeave
		return nil
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

// DeleteWorker permanently removes a worker. Items assigned to the worker
// keep their worker_id.
func (s *Store) DeleteWorker(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := s.getWorker(ctx, tx, id); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM workers WHERE id = ?`), id); err != nil {
			return fmt.Errorf("deleting worker: %w", err)
		}
		return nil
	})
}
