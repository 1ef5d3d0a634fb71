package sqlite

import (
	"context"
	"fmt"
	"net/url"
	"testing"

	sqlitedb "emaktab-snapshot/config/sqlite"
	"emaktab-snapshot/internal/account/repository"
	"emaktab-snapshot/pkg/log"
)

// setupTestRepo creates a named shared in-memory database so the writer and
// reader pools see the same data. The name keeps parallel tests isolated.
func setupTestRepo(t *testing.T) (repository.Repository, *sqlitedb.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)", url.PathEscape(t.Name()))

	db, err := sqlitedb.Open(context.Background(), dsn)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := sqlitedb.RunMigrations(db.Writer); err != nil {
		_ = db.Close()
		t.Fatalf("run migrations: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return New(db, log.NewNop()), db
}
