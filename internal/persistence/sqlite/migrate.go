package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// migrations holds the ordered schema steps. The position in the slice is the
// schema version; PRAGMA user_version tracks how far a database has been
// migrated, and each pending step runs in its own transaction.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS bookings (
		id              TEXT PRIMARY KEY,
		kind            TEXT NOT NULL CHECK (kind IN ('single', 'recurring')),
		class_name      TEXT NOT NULL,
		teacher         TEXT NOT NULL,
		created_by      TEXT NOT NULL,
		start_time      TEXT NOT NULL,
		end_time        TEXT NOT NULL,
		color           TEXT NOT NULL,
		date            TEXT,
		weekday         INTEGER,
		start_date      TEXT,
		end_date        TEXT,
		duration_months INTEGER NOT NULL DEFAULT 0,
		created_seq     INTEGER NOT NULL,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL,
		CHECK (start_time < end_time)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_created_seq ON bookings (created_seq)`,
}

// Migrate applies pending schema steps.
func (s *Store) Migrate(ctx context.Context) error {
	current, err := s.schemaVersion(ctx)
	if err != nil {
		return err
	}

	for version := current; version < len(migrations); version++ {
		step := migrations[version]
		next := version + 1
		err := s.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
			if _, err := tx.Exec(step); err != nil {
				return fmt.Errorf("migration %d failed: %w", next, err)
			}
			// PRAGMA does not accept bound parameters.
			if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", next)); err != nil {
				return fmt.Errorf("failed to record schema version %d: %w", next, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func (s *Store) schemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.pool.DB().QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}
