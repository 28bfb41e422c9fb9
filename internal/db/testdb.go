package db

import (
	"database/sql"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
)

// EnvTestPostgres names the variable holding a PostgreSQL connection string
// for tests that run against a real server.
const EnvTestPostgres = "DOSTAVA_TEST_POSTGRES"

// NewTestDB creates a fresh in-memory SQLite database with the schema applied.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	if err := EnsureSchema(db, DriverSQLite); err != nil {
		db.Close()
		t.Fatalf("creating test database schema: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	return db
}

// NewTestPostgres opens the database named by DOSTAVA_TEST_POSTGRES and
// applies the schema inside a new PostgreSQL schema that is dropped when the
// test ends. The test is skipped when the variable is unset.
func NewTestPostgres(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv(EnvTestPostgres)
	if dsn == "" {
		t.Skipf("%s not set", EnvTestPostgres)
	}

	admin, err := Open(DriverPostgres, dsn)
	if err != nil {
		t.Fatalf("opening postgres test database: %v", err)
	}
	t.Cleanup(func() { admin.Close() })

	schema := "dostava_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	if _, err := admin.Exec("CREATE SCHEMA " + schema); err != nil {
		t.Fatalf("creating schema %s: %v", schema, err)
	}
	t.Cleanup(func() {
		if _, err := admin.Exec("DROP SCHEMA " + schema + " CASCADE"); err != nil {
			t.Logf("dropping schema %s: %v", schema, err)
		}
	})

	scopedDSN, err := withSearchPath(dsn, schema)
	if err != nil {
		t.Fatalf("scoping %s: %v", EnvTestPostgres, err)
	}
	db, err := Open(DriverPostgres, scopedDSN)
	if err != nil {
		t.Fatalf("opening postgres test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := EnsureSchema(db, DriverPostgres); err != nil {
		t.Fatalf("creating postgres test schema: %v", err)
	}

	return db
}

// withSearchPath sets search_path on every connection opened with dsn. pgx
// passes unknown settings through as runtime parameters, in both URL and
// keyword/value form.
func withSearchPath(dsn, schema string) (string, error) {
	if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
		return dsn + " search_path=" + schema, nil
	}
	u, err := url.Parse(dsn)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("search_path", schema)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
