package store

import "context"

// Questions lists the active questions of a category in insertion order
func (s *Store) Questions(ctx context.Context, category string) ([]Question, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, text, type, category, is_core, active FROM questions WHERE category = ? AND active = 1 ORDER BY id",
		category)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var result []Question
	for rows.Next() {
		var q Question
		if err := rows.Scan(&q.Id, &q.Text, &q.Type, &q.Category, &q.IsCore, &q.Active); err != nil {
			return nil, err
		}
		result = append(result, q)
	}
	return result, rows.Err()
}
