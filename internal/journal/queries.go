package journal

import (
	"context"
	"fmt"

	"github.com/thomaskoefod/newsadmin/internal/admin"
)

// Add inserts an entry as is.
func (db *DB) Add(ctx context.Context, e Entry) error {
	_, err := db.ExecContext(ctx,
		"INSERT INTO mutations (uuid, at, entity, action, entity_id, ok, error) VALUES (?, ?, ?, ?, ?, ?, ?)",
		e.UUID, e.At, e.Entity, string(e.Action), e.ID, e.OK, e.Error,
	)
	if err != nil {
		return fmt.Errorf("inserting mutation: %w", err)
	}
	return nil
}

// Recent returns up to n entries, newest first.
func (db *DB) Recent(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		return nil, nil
	}

	rows, err := db.QueryContext(ctx,
		"SELECT uuid, at, entity, action, entity_id, ok, error FROM mutations ORDER BY seq DESC LIMIT ?",
		n,
	)
	if err != nil {
		return nil, fmt.Errorf("querying mutations: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var action string
		if err := rows.Scan(&e.UUID, &e.At, &e.Entity, &action, &e.ID, &e.OK, &e.Error); err != nil {
			return nil, fmt.Errorf("scanning mutation: %w", err)
		}
		e.Action = admin.Action(action)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Count returns the number of recorded mutations.
func (db *DB) Count(ctx context.Context) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM mutations").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting mutations: %w", err)
	}
	return n, nil
}
