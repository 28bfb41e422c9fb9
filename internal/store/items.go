package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/erazemk/dostava/internal/model"
)

const itemColumns = `id, name, worker_id, created_at`

func scanItem(row scanner) (*model.Item, error) {
	item := &model.Item{}
	if err := row.Scan(&item.ID, &item.Name, &item.WorkerID, &item.CreatedAt); err != nil {
		return nil, err
	}
	return item, nil
}

func scanItems(rows *sql.Rows) ([]model.Item, error) {
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// CreateItem creates a new item. workerID may be nil; it is stored without
// checking that the worker exists.
func (s *Store) CreateItem(ctx context.Context, name string, workerID *int64) (*model.Item, error) {
	var item *model.Item
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var id int64
		err := tx.QueryRowContext(ctx,
			s.q(`INSERT INTO items (name, worker_id) VALUES (?, ?) RETURNING id`),
			name, workerID,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("creating item: %w", err)
		}

		item, err = s.getItem(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// GetItem returns an item by ID.
func (s *Store) GetItem(ctx context.Context, id int64) (*model.Item, error) {
	var item *model.Item
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		item, err = s.getItem(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Store) getItem(ctx context.Context, tx *sql.Tx, id int64) (*model.Item, error) {
	item, err := scanItem(tx.QueryRowContext(ctx,
		s.q(`SELECT `+itemColumns+` FROM items WHERE id = ?`), id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Kind: "item", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns all items ordered by ID.
func (s *Store) ListItems(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `SELECT `+itemColumns+` FROM items ORDER BY id`)
		if err != nil {
			return fmt.Errorf("listing items: %w", err)
		}
		items, err = scanItems(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ListWorkerItems returns the items currently assigned to a worker.
func (s *Store) ListWorkerItems(ctx context.Context, workerID int64) ([]model.Item, error) {
	var items []model.Item
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := s.getWorker(ctx, tx, workerID); err != nil {
			return err
		}

		rows, err := tx.QueryContext(ctx,
			s.q(`SELECT `+itemColumns+` FROM items WHERE worker_id = ? ORDER BY id`), workerID,
		)
		if err != nil {
			return fmt.Errorf("listing worker items: %w", err)
		}
		items, err = scanItems(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// AssignItem points an item at a worker, replacing any previous assignment.
// The worker is not required to exist.
func (s *Store) AssignItem(ctx context.Context, itemID, workerID int64) (*model.Item, error) {
	var item *model.Item
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		item, err = s.getItem(ctx, tx, itemID)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			s.q(`UPDATE items SET worker_id = ? WHERE id = ?`), workerID, itemID,
		); err != nil {
			return fmt.Errorf("assigning item: %w", err)
		}
		item.WorkerID = &workerID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem permanently removes an item.
func (s *Store) DeleteItem(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := s.getItem(ctx, tx, id); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM items WHERE id = ?`), id); err != nil {
			return fmt.Errorf("deleting item: %w", err)
		}
		return nil
	})
}
