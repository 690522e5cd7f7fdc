// Package journal keeps a local sqlite record of every mutation issued from
// the console.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/thomaskoefod/newsadmin/internal/admin"
	_ "modernc.org/sqlite"
)

type DB struct {
	*sql.DB
	now func() time.Time
}

// Entry is one recorded mutation.
type Entry struct {
	UUID   string
	At     time.Time
	Entity string
	Action admin.Action
	ID     string
	OK     bool
	Error  string
}

// New opens the journal at dbPath, creating the file and schema if needed.
func New(dbPath string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	// the sqlite driver serialises writers anyway
	db.SetMaxOpenConns(1)

	d := &DB{DB: db, now: time.Now}
	if err := d.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return d, nil
}

func (db *DB) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS mutations (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			uuid TEXT NOT NULL UNIQUE,
			at TIMESTAMP NOT NULL,
			entity TEXT NOT NULL,
			action TEXT NOT NULL,
			entity_id TEXT NOT NULL DEFAULT '',
			ok INTEGER NOT NULL,
			error TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_mutations_at ON mutations(at);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	return nil
}

// Record stores a finished mutation. It satisfies admin.Recorder.
func (db *DB) Record(ctx context.Context, m admin.Mutation) error {
	e := Entry{
		UUID:   uuid.NewString(),
		At:     db.now().UTC(),
		Entity: m.Entity,
		Action: m.Action,
		ID:     m.ID.String(),
		OK:     m.Err == nil,
	}
	if m.Err != nil {
		e.Error = m.Err.Error()
	}
	return db.Add(ctx, e)
}
