// Package sqlite implements the repository interfaces using SQLite as
// the storage backend.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which needs a C compiler and makes
// cross-compilation painful. modernc.org/sqlite is a pure Go translation
// of the SQLite sources — works everywhere Go works.
//
// STRUCTURE:
// One *DB value implements every repository interface (user.go,
// project.go, collaboration.go, ... each add methods). All queries go
// through the `q` field, which is either the *sql.DB pool or, inside
// InTx, a *sql.Tx — that's how the same repository code runs both
// standalone and transactionally.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/sakif/studytrack/internal/repository"
)

// compile-time check that *DB implements the full store surface
var _ repository.Store = (*DB)(nil)

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
// Every repository method calls db.q, not db.conn, so the method runs
// against whichever of the two the DB value currently wraps.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// DB wraps a sql.DB connection pool and provides repository methods.
type DB struct {
	conn *sql.DB
	q    querier // conn outside a transaction, *sql.Tx inside InTx
}

// New creates a SQLite database connection and runs migrations.
//
// dbPath examples:
//   - "data/studytrack.db" → file-based database (persistent)
//   - ":memory:"           → in-memory database (tests, lost on close)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL allows concurrent reads while a write is in flight — matters
	// for a web server where multiple requests hit the DB at once.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite. We rely on them for the
	// project-delete cascade, so turn them on.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn, q: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// InTx runs fn against a transactional view of the store.
//
// The view is a copy of DB whose `q` field is the transaction, so fn
// can call the exact same repository methods it would outside a
// transaction. If fn returns an error the transaction rolls back and
// the error propagates; otherwise the transaction commits.
//
// Nested calls: when db is already transactional (db.q is a *sql.Tx),
// fn runs inside the existing transaction rather than opening a new one.
func (db *DB) InTx(ctx context.Context, fn func(repository.Store) error) error {
	if _, already := db.q.(*sql.Tx); already {
		return fn(db)
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}

	txView := &DB{conn: db.conn, q: tx}
	if err := fn(txView); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("sqlite: rolling back after %w: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing transaction: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err is a UNIQUE-constraint failure.
// modernc.org/sqlite surfaces these as *sqlite.Error with the extended
// result codes SQLITE_CONSTRAINT_UNIQUE / SQLITE_CONSTRAINT_PRIMARYKEY.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	code := se.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
		code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}

// migrate creates all tables. CREATE TABLE IF NOT EXISTS keeps this
// idempotent; a schema-versioning tool (golang-migrate) would replace
// this if the schema ever needs destructive changes.
func (db *DB) migrate() error {
	stmts := []struct {
		name string
		sql  string
	}{
		{"users", `
			CREATE TABLE IF NOT EXISTS users (
				id            TEXT PRIMARY KEY,
				email         TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL DEFAULT '',
				github_id     INTEGER,
				name          TEXT NOT NULL DEFAULT '',
				avatar_url    TEXT NOT NULL DEFAULT '',
				created_at    DATETIME NOT NULL,
				updated_at    DATETIME NOT NULL
			);
			CREATE UNIQUE INDEX IF NOT EXISTS idx_users_github_id
				ON users(github_id) WHERE github_id IS NOT NULL;
		`},
		{"projects", `
			CREATE TABLE IF NOT EXISTS projects (
				id          TEXT PRIMARY KEY,
				title       TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				course      TEXT NOT NULL DEFAULT '',
				status      TEXT NOT NULL DEFAULT 'Not Started',
				deadline    DATETIME,
				user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				created_at  DATETIME NOT NULL,
				updated_at  DATETIME NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_projects_user_id ON projects(user_id);
		`},
		{"tasks", `
			CREATE TABLE IF NOT EXISTS tasks (
				id          TEXT PRIMARY KEY,
				project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
				title       TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				status      TEXT NOT NULL DEFAULT 'To Do',
				priority    TEXT NOT NULL DEFAULT 'Medium',
				due_date    DATETIME,
				created_at  DATETIME NOT NULL,
				updated_at  DATETIME NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_tasks_project_id ON tasks(project_id);
		`},
		{"project_notes", `
			CREATE TABLE IF NOT EXISTS project_notes (
				id         TEXT PRIMARY KEY,
				project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
				user_id    TEXT NOT NULL,
				content    TEXT NOT NULL,
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_project_notes_project_id ON project_notes(project_id);
		`},
		{"study_sessions", `
			CREATE TABLE IF NOT EXISTS study_sessions (
				id               TEXT PRIMARY KEY,
				project_id       TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
				user_id          TEXT NOT NULL,
				duration_minutes INTEGER NOT NULL,
				description      TEXT NOT NULL DEFAULT '',
				created_at       DATETIME NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_study_sessions_user_id
				ON study_sessions(user_id, created_at);
		`},
		{"courses", `
			CREATE TABLE IF NOT EXISTS courses (
				id         TEXT PRIMARY KEY,
				user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				name       TEXT NOT NULL,
				code       TEXT NOT NULL DEFAULT '',
				semester   TEXT NOT NULL DEFAULT '',
				year       INTEGER NOT NULL DEFAULT 0,
				instructor TEXT NOT NULL DEFAULT '',
				credits    INTEGER NOT NULL DEFAULT 0,
				created_at DATETIME NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_courses_user_id ON courses(user_id);
		`},
		// UNIQUE(project_id, user_id) is the invariant that serializes
		// concurrent invites: at most one collaboration row per pair.
		{"collaborations", `
			CREATE TABLE IF NOT EXISTS collaborations (
				id          TEXT PRIMARY KEY,
				project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
				user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				role        TEXT NOT NULL,
				status      TEXT NOT NULL DEFAULT 'pending',
				invited_at  DATETIME NOT NULL,
				accepted_at DATETIME,
				UNIQUE(project_id, user_id)
			);
			CREATE INDEX IF NOT EXISTS idx_collaborations_user_status
				ON collaborations(user_id, status);
		`},
		// project_id is ON DELETE SET NULL, not CASCADE: the activity
		// log is append-only and survives project deletion, entries are
		// merely detached from the deleted project.
		{"activity_log", `
			CREATE TABLE IF NOT EXISTS activity_log (
				id          TEXT PRIMARY KEY,
				user_id     TEXT NOT NULL,
				action      TEXT NOT NULL,
				entity_type TEXT NOT NULL,
				entity_id   TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				project_id  TEXT REFERENCES projects(id) ON DELETE SET NULL,
				created_at  DATETIME NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_activity_project
				ON activity_log(project_id, created_at);
			CREATE INDEX IF NOT EXISTS idx_activity_user
				ON activity_log(user_id, created_at);
		`},
		{"project_files", `
			CREATE TABLE IF NOT EXISTS project_files (
				id                TEXT PRIMARY KEY,
				project_id        TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
				filename          TEXT NOT NULL,
				original_filename TEXT NOT NULL,
				file_size         INTEGER NOT NULL,
				file_type         TEXT NOT NULL,
				file_path         TEXT NOT NULL,
				uploaded_by       TEXT NOT NULL,
				uploaded_at       DATETIME NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_project_files_project_id
				ON project_files(project_id);
		`},
	}

	for _, s := range stmts {
		if _, err := db.conn.Exec(s.sql); err != nil {
			return fmt.Errorf("creating %s table: %w", s.name, err)
		}
	}
	return nil
}
