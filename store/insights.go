package store

import "context"

func (s *Store) AddInsight(ctx context.Context, prompt, response, contextType string) (int64, error) {
	if contextType == "" {
		contextType = ContextGeneral
	}
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO insights (prompt, response, context_type) VALUES (?, ?, ?)", prompt, response, contextType)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// RecentInsights lists the newest insights first
func (s *Store) RecentInsights(ctx context.Context, limit int) ([]Insight, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, prompt, response, context_type, created_at FROM insights ORDER BY created_at DESC, id DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var result []Insight
	for rows.Next() {
		var i Insight
		if err := rows.Scan(&i.Id, &i.Prompt, &i.Response, &i.ContextType, &i.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, i)
	}
	return result, rows.Err()
}
