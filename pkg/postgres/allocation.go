package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/capacity-planner/pkg/core/model"
	"github.com/jakechorley/capacity-planner/pkg/core/timemodel"
	"github.com/jakechorley/capacity-planner/pkg/db"
	"github.com/jakechorley/capacity-planner/pkg/errs"
)

const allocationColumns = `id, worker_id, day, hours, time_start, time_end, kind, task_id`

func scanAllocation(row pgx.Row) (model.Allocation, error) {
	var a model.Allocation
	var day time.Time
	var timeStart, timeEnd, taskID *string
	var kind string
	if err := row.Scan(&a.ID, &a.WorkerID, &day, &a.Hours, &timeStart, &timeEnd, &kind, &taskID); err != nil {
		return model.Allocation{}, err
	}

	a.Day = timemodel.NewDate(day.Year(), day.Month(), day.Day())
	a.Kind = model.AllocationKind(kind)
	a.Start, a.End = db.ParseTimes(deref(timeStart), deref(timeEnd))
	a.TaskID = deref(taskID)
	return a, nil
}

// GetAllocation retrieves an allocation by id
func (d *DB) GetAllocation(ctx context.Context, id string) (*model.Allocation, error) {
	var a model.Allocation
	err := d.readOnly(ctx, func(tx pgx.Tx) error {
		var err error
		a, err = scanAllocation(tx.QueryRow(ctx, `SELECT `+allocationColumns+` FROM allocation WHERE id = $1`, id))
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.NotFound("allocation", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query allocation %s: %w", id, err)
	}
	return &a, nil
}

// GetAllocationsFor returns the worker's allocations on day ordered by id; an empty kind means every kind
func (d *DB) GetAllocationsFor(ctx context.Context, workerID string, day timemodel.Date, kind model.AllocationKind) ([]model.Allocation, error) {
	var allocations []model.Allocation
	err := d.readOnly(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			SELECT `+allocationColumns+`
			FROM allocation
			WHERE worker_id = $1 AND day = $2 AND ($3 = '' OR kind = $3)
			ORDER BY id
		`, workerID, dateParam(day), string(kind))
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			a, err := scanAllocation(rows)
			if err != nil {
				return fmt.Errorf("failed to scan allocation: %w", err)
			}
			allocations = append(allocations, a)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query allocations for %s on %s: %w", workerID, day, err)
	}
	return allocations, nil
}

// dateParam encodes a calendar date for a DATE column
func dateParam(d timemodel.Date) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
