package roster

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const schema = `
	CREATE TABLE IF NOT EXISTS presence (
		id           TEXT PRIMARY KEY,
		secondary_id TEXT NOT NULL,
		name         TEXT NOT NULL,
		arrived_at   INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_presence_name ON presence(name);
`

// SQLiteStore persists the roster in a SQLite database so the roster
// survives restarts and is readable by external tooling while the
// daemon runs.
type SQLiteStore struct {
	pool   *sqlitex.Pool
	logger *slog.Logger
}

// OpenSQLite opens (creating if needed) the roster database at path.
func OpenSQLite(path string, logger *slog.Logger) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("roster: storage path is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	pool, err := sqlitex.NewPool(path, sqlitex.PoolOptions{
		PoolSize: 4,
		PrepareConn: func(conn *sqlite.Conn) error {
			pragmas := []string{
				"PRAGMA journal_mode=WAL",
				"PRAGMA synchronous=NORMAL",
				"PRAGMA busy_timeout=5000",
			}
			for _, pragma := range pragmas {
				if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
					return fmt.Errorf("%s: %w", pragma, err)
				}
			}
			return sqlitex.ExecuteScript(conn, schema, nil)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("roster: opening %s: %w", path, err)
	}

	logger.Info("roster database opened", "path", path)
	return &SQLiteStore{pool: pool, logger: logger}, nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("roster: clear: %w", err)
	}
	defer s.pool.Put(conn)

	if err := sqlitex.Execute(conn, "DELETE FROM presence", nil); err != nil {
		return fmt.Errorf("roster: clear: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Exists(ctx context.Context, name string) (bool, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return false, fmt.Errorf("roster: exists: %w", err)
	}
	defer s.pool.Put(conn)

	found := false
	err = sqlitex.Execute(conn, "SELECT 1 FROM presence WHERE name = ? LIMIT 1", &sqlitex.ExecOptions{
		Args: []any{name},
		ResultFunc: func(*sqlite.Stmt) error {
			found = true
			return nil
		},
	})
	if err != nil {
		return false, fmt.Errorf("roster: exists %q: %w", name, err)
	}
	return found, nil
}

func (s *SQLiteStore) Insert(ctx context.Context, rec Record) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("roster: insert: %w", err)
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn,
		"INSERT INTO presence (id, secondary_id, name, arrived_at) VALUES (?, ?, ?, ?)",
		&sqlitex.ExecOptions{
			Args: []any{rec.ID, rec.SecondaryID, rec.Name, rec.ArrivedAt.UnixMilli()},
		})
	if err != nil {
		return fmt.Errorf("roster: insert %q: %w", rec.Name, err)
	}
	return nil
}

func (s *SQLiteStore) Remove(ctx context.Context, name string) (bool, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return false, fmt.Errorf("roster: remove: %w", err)
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn, "DELETE FROM presence WHERE name = ?", &sqlitex.ExecOptions{
		Args: []any{name},
	})
	if err != nil {
		return false, fmt.Errorf("roster: remove %q: %w", name, err)
	}
	return conn.Changes() > 0, nil
}

func (s *SQLiteStore) Snapshot(ctx context.Context) ([]Record, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("roster: snapshot: %w", err)
	}
	defer s.pool.Put(conn)

	var out []Record
	err = sqlitex.Execute(conn,
		"SELECT id, secondary_id, name, arrived_at FROM presence ORDER BY arrived_at DESC, name ASC",
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				out = append(out, Record{
					ID:          stmt.ColumnText(0),
					SecondaryID: stmt.ColumnText(1),
					Name:        stmt.ColumnText(2),
					ArrivedAt:   time.UnixMilli(stmt.ColumnInt64(3)).UTC(),
				})
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("roster: snapshot: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) Size(ctx context.Context) (int, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return 0, fmt.Errorf("roster: size: %w", err)
	}
	defer s.pool.Put(conn)

	n := 0
	err = sqlitex.Execute(conn, "SELECT COUNT(*) FROM presence", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			n = int(stmt.ColumnInt64(0))
			return nil
		},
	})
	if err != nil {
		return 0, fmt.Errorf("roster: size: %w", err)
	}
	return n, nil
}

// Close closes the connection pool. Blocks until borrowed connections
// are returned.
func (s *SQLiteStore) Close() error {
	if err := s.pool.Close(); err != nil {
		return fmt.Errorf("roster: closing pool: %w", err)
	}
	return nil
}
