package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

// Open creates dir when needed and opens the database file inside it, with WAL journaling and
// foreign keys enforced on every connection
func Open(dir, fileName string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	path := filepath.Join(dir, fileName)
	dsn := "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	log.Info().Msgf("Opened database %s", path)
	return &Store{db: db}, nil
}

func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Init applies the schema and seeds the question set into an empty questions table
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return s.seed(ctx)
}

func (s *Store) seed(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM questions").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, q := range seedQuestions {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO questions (text, type, category, is_core) VALUES (?, ?, ?, ?)",
				q.text, q.qType, q.category, boolInt(q.core)); err != nil {
				return err
			}
		}
		log.Info().Msgf("Seeded %d questions", len(seedQuestions))
		return nil
	})
}

func (s *Store) inTx(ctx context.Context, f func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := f(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func nullableInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	i := v.Int64
	return &i
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
