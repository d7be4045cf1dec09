package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

const goalColumns = "id, title, description, type, quarter, year, status, created_at, updated_at"

func scanGoal(row interface{ Scan(...any) error }) (*Goal, error) {
	var (
		g           Goal
		description sql.NullString
		quarter     sql.NullString
	)
	if err := row.Scan(&g.Id, &g.Title, &description, &g.Type, &quarter, &g.Year, &g.Status, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return nil, err
	}
	g.Description = description.String
	g.Quarter = quarter.String
	return &g, nil
}

func (s *Store) queryGoals(ctx context.Context, query string, args ...any) ([]Goal, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var result []Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *g)
	}
	return result, rows.Err()
}

func (s *Store) Goal(ctx context.Context, id int64) (*Goal, error) {
	g, err := scanGoal(s.db.QueryRowContext(ctx, "SELECT "+goalColumns+" FROM goals WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return g, err
}

// Goals lists every goal, active ones first
func (s *Store) Goals(ctx context.Context) ([]Goal, error) {
	return s.queryGoals(ctx, "SELECT "+goalColumns+" FROM goals ORDER BY status, type, year DESC, quarter")
}

func (s *Store) ActiveGoals(ctx context.Context) ([]Goal, error) {
	return s.queryGoals(ctx, "SELECT "+goalColumns+" FROM goals WHERE status = 'active' ORDER BY type, year, quarter")
}

func (s *Store) ActiveYearlyGoals(ctx context.Context, year int) ([]Goal, error) {
	return s.queryGoals(ctx,
		"SELECT "+goalColumns+" FROM goals WHERE status = 'active' AND type = 'yearly' AND year = ? ORDER BY id", year)
}

func (s *Store) ActiveQuarterlyGoals(ctx context.Context, year int, quarter string) ([]Goal, error) {
	return s.queryGoals(ctx,
		"SELECT "+goalColumns+" FROM goals WHERE status = 'active' AND type = 'quarterly' AND year = ? AND quarter = ? ORDER BY id",
		year, quarter)
}

func (s *Store) CreateGoal(ctx context.Context, g Goal) (int64, error) {
	var quarter any
	if g.Quarter != "" {
		quarter = g.Quarter
	}
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO goals (title, description, type, quarter, year) VALUES (?, ?, ?, ?, ?)",
		g.Title, g.Description, g.Type, quarter, g.Year)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateGoal applies the set fields and bumps updated_at. Nothing is written when no field is set.
func (s *Store) UpdateGoal(ctx context.Context, id int64, c GoalChanges) error {
	var fields []string
	var values []any
	if c.Title != nil {
		fields = append(fields, "title = ?")
		values = append(values, *c.Title)
	}
	if c.Description != nil {
		fields = append(fields, "description = ?")
		values = append(values, *c.Description)
	}
	if c.Status != nil {
		fields = append(fields, "status = ?")
		values = append(values, *c.Status)
	}
	if len(fields) == 0 {
		return nil
	}

	fields = append(fields, "updated_at = datetime('now')")
	values = append(values, id)

	res, err := s.db.ExecContext(ctx, "UPDATE goals SET "+strings.Join(fields, ", ")+" WHERE id = ?", values...)
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

func (s *Store) AddGoalUpdate(ctx context.Context, goalId int64, note string) (int64, error) {
	if _, err := s.Goal(ctx, goalId); err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, "INSERT INTO goal_updates (goal_id, note) VALUES (?, ?)", goalId, note)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) GoalUpdates(ctx context.Context, goalId int64) ([]GoalUpdate, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, goal_id, note, created_at FROM goal_updates WHERE goal_id = ? ORDER BY created_at DESC, id DESC", goalId)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var result []GoalUpdate
	for rows.Next() {
		var (
			u    GoalUpdate
			note sql.NullString
		)
		if err := rows.Scan(&u.Id, &u.GoalId, &note, &u.CreatedAt); err != nil {
			return nil, err
		}
		u.Note = note.String
		result = append(result, u)
	}
	return result, rows.Err()
}
