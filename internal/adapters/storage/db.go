package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"log/slog"
	"strings"
)

// migration is one forward-only schema step. Steps run in order inside a transaction.
type migration struct {
	version     int
	description string
	statements  string
}

var migrations = []migration{
	{
		version:     1,
		description: "baseline",
		statements: `
	CREATE TABLE IF NOT EXISTS account (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		created_at TEXT NOT NULL,
		failed_logins INTEGER NOT NULL DEFAULT 0,
		locked_until TEXT
	);

	CREATE TABLE IF NOT EXISTS room (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		price INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS reservation (
		id TEXT PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		room_id TEXT NOT NULL,
		created_at TEXT NOT NULL,
		FOREIGN KEY (room_id) REFERENCES room(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_reservation_room_dates ON reservation(room_id, start_date, end_date);

	CREATE TABLE IF NOT EXISTS inquiry (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		message TEXT NOT NULL,
		type TEXT NOT NULL,
		is_read INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_inquiry_created ON inquiry(created_at);

	CREATE TABLE IF NOT EXISTS content_document (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		path TEXT NOT NULL DEFAULT '',
		content_cs TEXT NOT NULL,
		content_en TEXT NOT NULL,
		last_edited TEXT NOT NULL
	);
	`,
	},
	{
		version:     2,
		description: "room details for the edit page",
		statements: `
	ALTER TABLE room ADD COLUMN capacity INTEGER NOT NULL DEFAULT 0;
	ALTER TABLE room ADD COLUMN description TEXT NOT NULL DEFAULT '';
	ALTER TABLE room ADD COLUMN amenities TEXT NOT NULL DEFAULT '[]';
	ALTER TABLE room ADD COLUMN image_urls TEXT NOT NULL DEFAULT '[]';
	`,
	},
	{
		version:     3,
		description: "outbox for inquiry replies",
		statements: `
	CREATE TABLE IF NOT EXISTS outbox (
		id TEXT PRIMARY KEY,
		action_type TEXT NOT NULL,
		payload TEXT NOT NULL,
		status TEXT NOT NULL,
		attempts INTEGER NOT NULL DEFAULT 0,
		max_attempts INTEGER NOT NULL DEFAULT 5,
		last_attempted_at TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		external_id TEXT NOT NULL DEFAULT '',
		error_message TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_outbox_status ON outbox(status, created_at);
	`,
	},
	{
		version:     4,
		description: "audit trail",
		statements: `
	CREATE TABLE IF NOT EXISTS audit_event (
		id TEXT PRIMARY KEY,
		timestamp TEXT NOT NULL,
		category TEXT NOT NULL,
		action TEXT NOT NULL,
		severity TEXT NOT NULL DEFAULT 'info',
		actor_id TEXT NOT NULL DEFAULT '',
		actor_email TEXT NOT NULL DEFAULT '',
		resource_id TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		ip_address TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_audit_event_timestamp ON audit_event(timestamp);
	CREATE INDEX IF NOT EXISTS idx_audit_event_resource ON audit_event(resource_id);
	`,
	},
}

// LatestSchemaVersion returns the version reached after all migrations.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// InitDB sets the connection pragmas the stores rely on.
// PRE: db is a valid database connection
// POST: WAL mode and foreign keys enabled
func InitDB(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	// Reservations cascade on room delete.
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return nil
}

// SchemaVersion returns the applied schema version, or 0 for an unmigrated database.
func SchemaVersion(db *sql.DB) (int, error) {
	var exists int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&exists)
	if err != nil {
		return 0, err
	}
	if exists == 0 {
		return 0, nil
	}
	var v sql.NullInt64
	if err := db.QueryRow("SELECT MAX(version) FROM schema_version").Scan(&v); err != nil {
		return 0, err
	}
	return int(v.Int64), nil
}

// MigrateDB brings the schema up to LatestSchemaVersion.
// When path names a file and the database is behind, a copy is written to
// path + ".bak-v<N>" before any step runs.
// PRE: db is a valid database connection
// POST: SchemaVersion(db) == LatestSchemaVersion()
func MigrateDB(db *sql.DB, path string) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
	)`); err != nil {
		return fmt.Errorf("failed to create schema_version: %w", err)
	}

	current, err := SchemaVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current >= LatestSchemaVersion() {
		return nil
	}

	if current > 0 && path != "" && !strings.HasPrefix(path, ":memory:") && !strings.HasPrefix(path, "file::memory:") {
		backup := fmt.Sprintf("%s.bak-v%d", path, current)
		if err := Backup(context.Background(), db, backup); err != nil {
			return fmt.Errorf("failed to back up database before migration: %w", err)
		}
		slog.Info("db_backup", "path", backup, "version", current)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := apply(db, m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.description, err)
		}
		slog.Info("db_migrated", "version", m.version, "description", m.description)
	}
	return nil
}

func apply(db *sql.DB, m migration) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(m.statements); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
		return err
	}
	return tx.Commit()
}

// ErrBackupExists is returned when the backup destination is already present.
var ErrBackupExists = errors.New("backup destination already exists")

// Backup writes a consistent copy of the database to dest with VACUUM INTO.
// PRE: dest does not exist
func Backup(ctx context.Context, db SQLDB, dest string) error {
	if _, err := os.Stat(dest); err == nil {
		return fmt.Errorf("%s: %w", dest, ErrBackupExists)
	}
	if _, err := db.ExecContext(ctx, "VACUUM INTO ?", dest); err != nil {
		return err
	}
	return nil
}
