package sqlite

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	sqlitedb "emaktab-snapshot/config/sqlite"
	"emaktab-snapshot/internal/account/repository"
	"emaktab-snapshot/pkg/log"
)

type implRepository struct {
	db  *sqlitedb.DB
	l   log.Logger
	now func() time.Time
	id  func() string
}

// New creates a new SQLite-backed Repository for the account domain.
func New(db *sqlitedb.DB, l log.Logger) repository.Repository {
	if db == nil {
		panic("account/repository/sqlite: db is required")
	}
	return &implRepository{
		db:  db,
		l:   l,
		now: func() time.Time { return time.Now().UTC() },
		id:  func() string { return uuid.NewString() },
	}
}

// dsn is a helper to return a method-scoped context string for logging.
func (r *implRepository) dsn(method string) string {
	return fmt.Sprintf("account/repository/sqlite.%s", method)
}
