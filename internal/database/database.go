package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// InitDB opens the database and runs the migrations found in migrationsDir.
// An empty primaryURL opens a local SQLite file at dbPath; a libsql:// or https:// URL opens
// a Turso database and a postgres:// URL opens a Postgres database.
// The returned teardown closes the database.
func InitDB(dbPath, primaryURL, authToken, migrationsDir string) (*sql.DB, func(), error) {
	dialect := DetectDialect(primaryURL)

	db, err := open(dialect, dbPath, primaryURL, authToken)
	if err != nil {
		return nil, nil, err
	}

	if err := migrate(db, dialect, migrationsDir); err != nil {
		db.Close()
		return nil, nil, err
	}

	teardown := func() {
		if err := db.Close(); err != nil {
			log.Warn("Failed to close database", "error", err)
		}
	}
	log.Info("Database initialized successfully", "dialect", dialect)
	return db, teardown, nil
}

func open(dialect Dialect, dbPath, primaryURL, authToken string) (*sql.DB, error) {
	switch dialect {
	case Turso:
		log.Info("Initializing Turso database", "url", primaryURL)
		dsn := primaryURL
		if authToken != "" {
			dsn += "?authToken=" + authToken
		}
		db, err := sql.Open("libsql", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open db %s: %w", primaryURL, err)
		}
		return db, nil
	case Postgres:
		log.Info("Initializing Postgres database")
		db, err := sql.Open("postgres", primaryURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres database: %w", err)
		}
		return db, nil
	default:
		log.Info("Initializing local-only SQLite database", "path", dbPath)
		db, err := sql.Open("sqlite3", sqliteDSN(dbPath))
		if err != nil {
			return nil, fmt.Errorf("failed to open local database: %w", err)
		}
		// Every connection to :memory: gets its own empty database.
		if dbPath == ":memory:" {
			db.SetMaxOpenConns(1)
		}
		return db, nil
	}
}

func sqliteDSN(dbPath string) string {
	if dbPath == ":memory:" {
		return "file::memory:?_foreign_keys=on"
	}
	return "file:" + dbPath + "?_foreign_keys=on"
}

func migrate(db *sql.DB, dialect Dialect, migrationsDir string) error {
	goose.SetLogger(log.Default())
	if err := goose.SetDialect(dialect.gooseDialect()); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("failed to run migrations from %s: %w", migrationsDir, err)
	}
	return nil
}

// Dialect identifies the SQL flavour of the connected database.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Turso    Dialect = "turso"
	Postgres Dialect = "postgres"
)

// DetectDialect picks a dialect from the remote database URL.
func DetectDialect(primaryURL string) Dialect {
	switch {
	case primaryURL == "":
		return SQLite
	case strings.HasPrefix(primaryURL, "postgres://"), strings.HasPrefix(primaryURL, "postgresql://"):
		return Postgres
	default:
		return Turso
	}
}

func (d Dialect) gooseDialect() string {
	switch d {
	case Postgres:
		return "postgres"
	case Turso:
		return "turso"
	default:
		return "sqlite3"
	}
}

// Rebind rewrites ? placeholders into the form the dialect expects.
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
