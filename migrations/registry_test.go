package migrations

import (
	"context"
	"database/sql"
	"io/fs"
	"strings"
	"testing"

	quantcast "github.com/JonathanRiche/go-quantcast"
	_ "github.com/mattn/go-sqlite3"
)

func TestFilesystems_ReturnsPostgresAndSQLite(t *testing.T) {
	filesystems, err := Filesystems(nil)
	if err != nil {
		t.Fatalf("filesystems: %v", err)
	}
	if len(filesystems) != 2 {
		t.Fatalf("expected 2 filesystems, got %d", len(filesystems))
	}
	if filesystems[0].Dialect != DialectPostgres || filesystems[1].Dialect != DialectSQLite {
		t.Fatalf("unexpected dialect order: %q %q", filesystems[0].Dialect, filesystems[1].Dialect)
	}
}

func TestRegister_OnlyRequestedDialects(t *testing.T) {
	var calls []string
	err := Register(context.Background(), func(_ context.Context, dialect string, _ fs.FS) error {
		calls = append(calls, dialect)
		return nil
	}, " SQLite ", "sqlite")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(calls) != 1 || calls[0] != DialectSQLite {
		t.Fatalf("expected a single sqlite registration, got %v", calls)
	}
}

func TestRegister_RequiresTargets(t *testing.T) {
	err := Register(context.Background(), func(context.Context, string, fs.FS) error { return nil })
	if err == nil {
		t.Fatalf("expected missing dialects to fail")
	}
}

func TestReportRequestsMigrationPair_ExistsForBothDialects(t *testing.T) {
	root := quantcast.GetMigrationsFS()
	paths := []string{
		"data/sql/migrations/00001_quantcast_report_requests.up.sql",
		"data/sql/migrations/00001_quantcast_report_requests.down.sql",
		"data/sql/migrations/sqlite/00001_quantcast_report_requests.up.sql",
		"data/sql/migrations/sqlite/00001_quantcast_report_requests.down.sql",
	}
	for _, migrationPath := range paths {
		content, err := fs.ReadFile(root, migrationPath)
		if err != nil {
			t.Fatalf("read migration %s: %v", migrationPath, err)
		}
		if strings.TrimSpace(string(content)) == "" {
			t.Fatalf("expected migration %s to have SQL content", migrationPath)
		}
	}
}

func TestSQLiteReportRequestsMigration_ApplyAndRollback(t *testing.T) {
	db, err := sql.Open("sqlite3", "file:migrations-report-requests?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open sqlite db: %v", err)
	}
	defer func() { _ = db.Close() }()

	root := quantcast.GetMigrationsFS()
	exec := func(name string) {
		t.Helper()
		content, err := fs.ReadFile(root, "data/sql/migrations/sqlite/"+name)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if _, err := db.Exec(string(content)); err != nil {
			t.Fatalf("apply %s: %v", name, err)
		}
	}
	tableCount := func() int {
		t.Helper()
		var count int
		if err := db.QueryRow(
			"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'quantcast_report_requests'",
		).Scan(&count); err != nil {
			t.Fatalf("query sqlite master: %v", err)
		}
		return count
	}

	exec("00001_quantcast_report_requests.up.sql")
	if tableCount() != 1 {
		t.Fatalf("expected table after up migration")
	}
	if _, err := db.Exec(
		"INSERT INTO quantcast_report_requests (id, entity_type, entity_id, report_request_id, status) VALUES ('a', 'ACCOUNT', 1, 10, 'IN_PROGRESS')",
	); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := db.Exec(
		"INSERT INTO quantcast_report_requests (id, entity_type, entity_id, report_request_id, status) VALUES ('b', 'ACCOUNT', 1, 10, 'IN_PROGRESS')",
	); err == nil {
		t.Fatalf("expected duplicate report request id to be rejected")
	}
	exec("00001_quantcast_report_requests.down.sql")
	if tableCount() != 0 {
		t.Fatalf("expected table to be dropped after down migration")
	}
}
