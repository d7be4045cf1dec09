package health

import (
	"database/sql"

	"github.com/go-chi/chi/v5"
)

type opts struct {
	ChiMux   *chi.Mux
	Database *sql.DB
}

type Opt func(*opts)

func WithChiMux(mux *chi.Mux) Opt {
	return func(o *opts) {
		o.ChiMux = mux
	}
}

// WithDatabase adds a readiness check that pings the database
func WithDatabase(db *sql.DB) Opt {
	return func(o *opts) {
		o.Database = db
	}
}
