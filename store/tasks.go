package store

import (
	"context"
	"database/sql"
	"errors"
)

func (s *Store) GoalTasks(ctx context.Context, goalId int64) ([]GoalTask, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, goal_id, title, completed, sort_order, created_at FROM goal_tasks WHERE goal_id = ? ORDER BY sort_order, id", goalId)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var result []GoalTask
	for rows.Next() {
		var t GoalTask
		if err := rows.Scan(&t.Id, &t.GoalId, &t.Title, &t.Completed, &t.SortOrder, &t.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// AddGoalTask appends a task after the goal's existing tasks
func (s *Store) AddGoalTask(ctx context.Context, goalId int64, title string) (int64, error) {
	if _, err := s.Goal(ctx, goalId); err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO goal_tasks (goal_id, title, sort_order)
		VALUES (?, ?, (SELECT COALESCE(MAX(sort_order), -1) + 1 FROM goal_tasks WHERE goal_id = ?))`,
		goalId, title, goalId)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ToggleGoalTask flips completion and returns the new state
func (s *Store) ToggleGoalTask(ctx context.Context, id int64) (bool, error) {
	return s.toggle(ctx, "goal_tasks", id)
}

func (s *Store) DeleteGoalTask(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM goal_tasks WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DailyTasks(ctx context.Context, date string) ([]DailyTask, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, title, date, completed, check_in_id, created_at FROM daily_tasks WHERE date = ? ORDER BY id", date)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var result []DailyTask
	for rows.Next() {
		var (
			t         DailyTask
			checkInId sql.NullInt64
		)
		if err := rows.Scan(&t.Id, &t.Title, &t.Date, &t.Completed, &checkInId, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.CheckInId = nullableInt(checkInId)
		result = append(result, t)
	}
	return result, rows.Err()
}

// AddDailyTask links the task to that day's check-in when one exists
func (s *Store) AddDailyTask(ctx context.Context, title, date string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO daily_tasks (title, date, check_in_id) VALUES (?, ?, (SELECT id FROM check_ins WHERE date = ?))",
		title, date, date)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) ToggleDailyTask(ctx context.Context, id int64) (bool, error) {
	return s.toggle(ctx, "daily_tasks", id)
}

func (s *Store) toggle(ctx context.Context, table string, id int64) (bool, error) {
	var completed bool
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "UPDATE "+table+" SET completed = 1 - completed WHERE id = ?", id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return tx.QueryRowContext(ctx, "SELECT completed FROM "+table+" WHERE id = ?", id).Scan(&completed)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrNotFound
	}
	return completed, err
}
