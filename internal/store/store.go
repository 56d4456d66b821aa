// Package store implements the persistence interfaces on PostgreSQL.
// All statements target the bifx schema created by database.Migrate.
package store

import (
	"errors"

	"github.com/ozanyurt/bifx/pkg/database"
	"github.com/ozanyurt/bifx/pkg/logger"
)

// ErrNotFound is returned by lookups when nothing has been persisted
// yet, e.g. before the first completed run.
var ErrNotFound = errors.New("store: not found")

// Store bundles the repositories over one shared pool.
type Store struct {
	Runs    *RunRepo
	Index   *IndexRepo
	Reports *ReportRepo
}

func New(db *database.DB, log *logger.Logger) *Store {
	return &Store{
		Runs:    &RunRepo{db: db, log: log},
		Index:   &IndexRepo{db: db, log: log},
		Reports: &ReportRepo{db: db, log: log},
	}
}
