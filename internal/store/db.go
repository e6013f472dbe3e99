package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"jobscout-engine/internal/domain"
)

const schemaVersion = 1

// DB mirrors the posting store into SQLite. Rows are ordered by seq, which
// preserves insertion order across restarts.
type DB struct {
	Pool *sql.DB
}

func Open(path string) (*DB, error) {
	// modernc sqlite uses DSN like: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)

	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	pool.SetMaxOpenConns(1) // sqlite typically wants 1 writer
	pool.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, err
	}

	d := &DB{Pool: pool}
	if err := d.migrate(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return d, nil
}

func (d *DB) migrate(ctx context.Context) error {
	var v int
	if err := d.Pool.QueryRowContext(ctx, `PRAGMA user_version`).Scan(&v); err != nil {
		return err
	}
	if v >= schemaVersion {
		return nil
	}
	_, err := d.Pool.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS postings (
	seq             INTEGER PRIMARY KEY AUTOINCREMENT,
	url             TEXT NOT NULL UNIQUE,
	facility        TEXT NOT NULL,
	address         TEXT NOT NULL,
	employment_type TEXT NOT NULL,
	source          TEXT NOT NULL,
	posted_at       INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_postings_posted_at ON postings(posted_at);
PRAGMA user_version = 1;`)
	return err
}

// Apply inserts added and deletes removed in one transaction.
func (d *DB) Apply(ctx context.Context, added []domain.Posting, removed []string) (err error) {
	tx, err := d.Pool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if len(added) > 0 {
		ins, err := tx.PrepareContext(ctx, `
INSERT INTO postings (url, facility, address, employment_type, source, posted_at)
VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer ins.Close()
		for _, p := range added {
			if _, err := ins.ExecContext(ctx, p.URL, p.Facility, p.Address, string(p.EmploymentType), string(p.Source), p.PostedAt.UTC().UnixMilli()); err != nil {
				return fmt.Errorf("insert %s: %w", p.URL, err)
			}
		}
	}

	if len(removed) > 0 {
		del, err := tx.PrepareContext(ctx, `DELETE FROM postings WHERE url = ?`)
		if err != nil {
			return err
		}
		defer del.Close()
		for _, u := range removed {
			if _, err := del.ExecContext(ctx, u); err != nil {
				return fmt.Errorf("delete %s: %w", u, err)
			}
		}
	}

	return tx.Commit()
}

// Load returns every row in insertion order.
func (d *DB) Load(ctx context.Context) ([]domain.Posting, error) {
	rows, err := d.Pool.QueryContext(ctx, `
SELECT url, facility, address, employment_type, source, posted_at
FROM postings ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Posting
	for rows.Next() {
		var (
			p        domain.Posting
			emp, src string
			ms       int64
		)
		if err := rows.Scan(&p.URL, &p.Facility, &p.Address, &emp, &src, &ms); err != nil {
			return nil, err
		}
		p.EmploymentType = domain.EmploymentType(emp)
		p.Source = domain.Source(src)
		p.PostedAt = time.UnixMilli(ms).UTC()
		out = append(out, p)
	}
	return out, rows.Err()
}

// Checkpoint flushes the WAL into the main database file.
func (d *DB) Checkpoint(ctx context.Context) error {
	if d == nil || d.Pool == nil {
		return errors.New("db not open")
	}
	_, err := d.Pool.ExecContext(ctx, `PRAGMA wal_checkpoint(TRUNCATE)`)
	return err
}

func (d *DB) Close() error {
	if d == nil || d.Pool == nil {
		return nil
	}
	return d.Pool.Close()
}
