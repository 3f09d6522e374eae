package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/capacity-planner/pkg/core/model"
	"github.com/jakechorley/capacity-planner/pkg/db"
	"github.com/jakechorley/capacity-planner/pkg/errs"
)

const workerColumns = `id, name, daily_capacity, schedule, active`

func (d *DB) scanWorker(row pgx.Row) (model.Worker, error) {
	var r db.WorkerRecord
	var schedule *string
	if err := row.Scan(&r.ID, &r.Name, &r.DailyCapacity, &schedule, &r.Active); err != nil {
		return model.Worker{}, err
	}
	if schedule != nil {
		r.Schedule = *schedule
	}
	return r.ToModel(d.opts.DefaultSchedule), nil
}

// GetWorker retrieves a worker by id
func (d *DB) GetWorker(ctx context.Context, id string) (*model.Worker, error) {
	var w model.Worker
	err := d.readOnly(ctx, func(tx pgx.Tx) error {
		var err error
		w, err = d.scanWorker(tx.QueryRow(ctx, `SELECT `+workerColumns+` FROM worker WHERE id = $1`, id))
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.NotFound("worker", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query worker %s: %w", id, err)
	}
	return &w, nil
}

// GetActiveWorkers returns up to limit active workers other than excludeID, ordered by id.
// A non-positive limit returns every match.
func (d *DB) GetActiveWorkers(ctx context.Context, excludeID string, limit int) ([]model.Worker, error) {
	var rowLimit *int
	if limit > 0 {
		rowLimit = &limit
	}

	var workers []model.Worker
	err := d.readOnly(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			SELECT `+workerColumns+`
			FROM worker
			WHERE active AND id <> $1
			ORDER BY id
			LIMIT $2
		`, excludeID, rowLimit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			w, err := d.scanWorker(rows)
			if err != nil {
				return fmt.Errorf("failed to scan worker: %w", err)
			}
			workers = append(workers, w)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query active workers: %w", err)
	}
	return workers, nil
}
