package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/promptpix/promptpix/internal/domain"
	"github.com/promptpix/promptpix/internal/repository/sqlite/migrations"
)

// DB wraps a SQLite database and exposes its repositories.
type DB struct {
	SqlDB *sql.DB
}

// New opens a SQLite database at the given path and configures it for use.
// It enables WAL mode and foreign keys.
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	// Enable foreign key enforcement.
	if _, err := db.ExecContext(context.Background(), "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	// Single writer. This also serializes concurrent settle-and-credit
	// attempts at the connection level.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{SqlDB: db}, nil
}

// Migrate applies all unapplied schema migrations.
func (d *DB) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, d.SqlDB)
}

// Close closes the underlying database.
func (d *DB) Close() error {
	return d.SqlDB.Close()
}

// Users returns the user repository.
func (d *DB) Users() domain.UserRepository {
	return &UserRepository{db: d.SqlDB}
}

// Transactions returns the transaction repository.
func (d *DB) Transactions() domain.TransactionRepository {
	return &TransactionRepository{db: d.SqlDB}
}

// Generations returns the generation repository.
func (d *DB) Generations() domain.GenerationRepository {
	return &GenerationRepository{db: d.SqlDB}
}

// FileStore returns the blob store.
func (d *DB) FileStore() domain.FileStore {
	return &fileStore{db: d.SqlDB}
}
