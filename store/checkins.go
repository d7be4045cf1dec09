package store

import (
	"context"
	"database/sql"
	"errors"
)

// CheckInByDate returns ErrNotFound when there is no check-in for date
func (s *Store) CheckInByDate(ctx context.Context, date string) (*CheckIn, error) {
	var c CheckIn
	err := s.db.QueryRowContext(ctx, "SELECT id, date, completed, created_at FROM check_ins WHERE date = ?", date).
		Scan(&c.Id, &c.Date, &c.Completed, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// SaveCheckIn stores the answers for date, replacing any earlier answers, and marks the check-in
// completed. Empty answers are skipped.
func (s *Store) SaveCheckIn(ctx context.Context, date string, answers []Answer) (int64, error) {
	var id int64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, "SELECT id FROM check_ins WHERE date = ?", date).Scan(&id)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			res, err := tx.ExecContext(ctx, "INSERT INTO check_ins (date, completed) VALUES (?, 1)", date)
			if err != nil {
				return err
			}
			if id, err = res.LastInsertId(); err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if _, err := tx.ExecContext(ctx, "DELETE FROM check_in_answers WHERE check_in_id = ?", id); err != nil {
				return err
			}
		}

		for _, a := range answers {
			switch {
			case a.Score != nil:
				_, err = tx.ExecContext(ctx,
					"INSERT INTO check_in_answers (check_in_id, question_id, answer_score) VALUES (?, ?, ?)",
					id, a.QuestionId, *a.Score)
			case a.Text != "":
				_, err = tx.ExecContext(ctx,
					"INSERT INTO check_in_answers (check_in_id, question_id, answer_text) VALUES (?, ?, ?)",
					id, a.QuestionId, a.Text)
			default:
				continue
			}
			if err != nil {
				return err
			}
		}

		_, err = tx.ExecContext(ctx, "UPDATE check_ins SET completed = 1 WHERE id = ?", id)
		return err
	})
	return id, err
}

// CompletedCheckInDates lists the dates of completed check-ins, newest first
func (s *Store) CompletedCheckInDates(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT date FROM check_ins WHERE completed = 1 ORDER BY date DESC")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// CheckInHistory groups every check-in with its answers by date, newest first. Core questions
// come first within a day.
func (s *Store) CheckInHistory(ctx context.Context) ([]HistoryDay, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ci.date, ci.completed, q.text, q.type, q.is_core, ca.answer_text, ca.answer_score
		FROM check_ins ci
		LEFT JOIN check_in_answers ca ON ca.check_in_id = ci.id
		LEFT JOIN questions q ON ca.question_id = q.id
		ORDER BY ci.date DESC, q.is_core DESC, q.id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var days []HistoryDay
	for rows.Next() {
		var (
			date      string
			completed bool
			text      sql.NullString
			qType     sql.NullString
			isCore    sql.NullBool
			ansText   sql.NullString
			ansScore  sql.NullInt64
		)
		if err := rows.Scan(&date, &completed, &text, &qType, &isCore, &ansText, &ansScore); err != nil {
			return nil, err
		}

		if len(days) == 0 || days[len(days)-1].Date != date {
			days = append(days, HistoryDay{Date: date, Completed: completed})
		}
		if !text.Valid || text.String == "" {
			continue
		}
		day := &days[len(days)-1]
		day.Answers = append(day.Answers, AnsweredQuestion{
			Date:        date,
			Text:        text.String,
			Type:        qType.String,
			IsCore:      isCore.Bool,
			AnswerText:  ansText.String,
			AnswerScore: nullableInt(ansScore),
		})
	}
	return days, rows.Err()
}

// AnswersSince lists answers given on or after since, newest date first
func (s *Store) AnswersSince(ctx context.Context, since string) ([]AnsweredQuestion, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ci.date, q.text, q.type, q.is_core, ca.answer_text, ca.answer_score
		FROM check_in_answers ca
		JOIN check_ins ci ON ca.check_in_id = ci.id
		JOIN questions q ON ca.question_id = q.id
		WHERE ci.date >= ?
		ORDER BY ci.date DESC, q.is_core DESC, q.id`, since)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var result []AnsweredQuestion
	for rows.Next() {
		var (
			a        AnsweredQuestion
			ansText  sql.NullString
			ansScore sql.NullInt64
		)
		if err := rows.Scan(&a.Date, &a.Text, &a.Type, &a.IsCore, &ansText, &ansScore); err != nil {
			return nil, err
		}
		a.AnswerText = ansText.String
		a.AnswerScore = nullableInt(ansScore)
		result = append(result, a)
	}
	return result, rows.Err()
}
