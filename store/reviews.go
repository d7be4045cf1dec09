package store

import (
	"context"
	"database/sql"
	"errors"
)

const reviewColumns = "id, year, week_number, score, went_well, improve, on_track_goals, priorities_next_week, created_at"

func scanReview(row interface{ Scan(...any) error }) (*WeekReview, error) {
	var (
		r          WeekReview
		score      sql.NullInt64
		onTrack    sql.NullInt64
		wentWell   sql.NullString
		improve    sql.NullString
		priorities sql.NullString
	)
	if err := row.Scan(&r.Id, &r.Year, &r.WeekNumber, &score, &wentWell, &improve, &onTrack, &priorities, &r.CreatedAt); err != nil {
		return nil, err
	}
	r.Score = nullableInt(score)
	r.OnTrackGoals = nullableInt(onTrack)
	r.WentWell = wentWell.String
	r.Improve = improve.String
	r.PrioritiesNextWeek = priorities.String
	return &r, nil
}

// WeekReview returns ErrNotFound when the ISO week has no review
func (s *Store) WeekReview(ctx context.Context, year, week int) (*WeekReview, error) {
	r, err := scanReview(s.db.QueryRowContext(ctx,
		"SELECT "+reviewColumns+" FROM week_reviews WHERE year = ? AND week_number = ?", year, week))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return r, err
}

// LatestWeekReview returns ErrNotFound when there are no reviews at all
func (s *Store) LatestWeekReview(ctx context.Context) (*WeekReview, error) {
	r, err := scanReview(s.db.QueryRowContext(ctx,
		"SELECT "+reviewColumns+" FROM week_reviews ORDER BY year DESC, week_number DESC LIMIT 1"))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return r, err
}

func (s *Store) RecentWeekReviews(ctx context.Context, limit int) ([]WeekReview, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+reviewColumns+" FROM week_reviews ORDER BY year DESC, week_number DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var result []WeekReview
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *r)
	}
	return result, rows.Err()
}

// SaveWeekReview inserts or replaces the review for r.Year and r.WeekNumber
func (s *Store) SaveWeekReview(ctx context.Context, r WeekReview) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO week_reviews (year, week_number, score, went_well, improve, on_track_goals, priorities_next_week)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(year, week_number) DO UPDATE SET
			score = excluded.score,
			went_well = excluded.went_well,
			improve = excluded.improve,
			on_track_goals = excluded.on_track_goals,
			priorities_next_week = excluded.priorities_next_week`,
		r.Year, r.WeekNumber, r.Score, r.WentWell, r.Improve, r.OnTrackGoals, r.PrioritiesNextWeek)
	return err
}
