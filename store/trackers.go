package store

import (
	"context"

	"github.com/shopspring/decimal"
)

// Trackers lists the active trackers in display order
func (s *Store) Trackers(ctx context.Context) ([]Tracker, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, unit, type, active, sort_order, created_at FROM trackers WHERE active = 1 ORDER BY sort_order, id")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var result []Tracker
	for rows.Next() {
		var t Tracker
		if err := rows.Scan(&t.Id, &t.Name, &t.Unit, &t.Type, &t.Active, &t.SortOrder, &t.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func (s *Store) CreateTracker(ctx context.Context, t Tracker) (int64, error) {
	if t.Type == "" {
		t.Type = TrackerNumber
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO trackers (name, unit, type, sort_order)
		VALUES (?, ?, ?, (SELECT COALESCE(MAX(sort_order), -1) + 1 FROM trackers))`,
		t.Name, t.Unit, t.Type)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// SaveTrackerEntry records the value for a tracker on a date, replacing an earlier value
func (s *Store) SaveTrackerEntry(ctx context.Context, trackerId int64, date string, value decimal.Decimal) error {
	var exists int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM trackers WHERE id = ?", trackerId).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return ErrNotFound
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tracker_entries (tracker_id, date, value) VALUES (?, ?, ?)
		ON CONFLICT(tracker_id, date) DO UPDATE SET value = excluded.value`,
		trackerId, date, value.InexactFloat64())
	return err
}

// TrackerEntries lists a tracker's entries on or after since, newest first
func (s *Store) TrackerEntries(ctx context.Context, trackerId int64, since string) ([]TrackerEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, tracker_id, date, value, created_at FROM tracker_entries WHERE tracker_id = ? AND date >= ? ORDER BY date DESC",
		trackerId, since)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var result []TrackerEntry
	for rows.Next() {
		var (
			e     TrackerEntry
			value float64
		)
		if err := rows.Scan(&e.Id, &e.TrackerId, &e.Date, &value, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Value = decimal.NewFromFloat(value)
		result = append(result, e)
	}
	return result, rows.Err()
}

// TrackerPointsSince lists entries of every tracker on or after since, by tracker name then newest first
func (s *Store) TrackerPointsSince(ctx context.Context, since string) ([]TrackerPoint, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.name, t.unit, te.date, te.value
		FROM tracker_entries te
		JOIN trackers t ON te.tracker_id = t.id
		WHERE te.date >= ?
		ORDER BY t.name, te.date DESC`, since)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var result []TrackerPoint
	for rows.Next() {
		var (
			p     TrackerPoint
			value float64
		)
		if err := rows.Scan(&p.Name, &p.Unit, &p.Date, &value); err != nil {
			return nil, err
		}
		p.Value = decimal.NewFromFloat(value)
		result = append(result, p)
	}
	return result, rows.Err()
}
