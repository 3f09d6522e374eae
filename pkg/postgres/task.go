package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/capacity-planner/pkg/core/model"
	"github.com/jakechorley/capacity-planner/pkg/errs"
)

// GetTask retrieves a task by id, with its deadline in the configured zone
func (d *DB) GetTask(ctx context.Context, id string) (*model.Task, error) {
	var t model.Task
	err := d.readOnly(ctx, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, `
			SELECT id, name, worker_id, total_hours, deadline
			FROM task
			WHERE id = $1
		`, id).Scan(&t.ID, &t.Name, &t.WorkerID, &t.TotalHours, &t.Deadline)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.NotFound("task", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query task %s: %w", id, err)
	}
	t.Deadline = t.Deadline.In(d.zone.Location())
	return &t, nil
}
