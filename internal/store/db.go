package store

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"

	"github.com/ratemymusic/rmm-api/internal/constants"
)

// dbOps is the query surface shared by *sqlx.DB and *sqlx.Tx
type dbOps interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// DB is the persistence layer. Inside RunInTx the same methods run against
// the open transaction.
type DB struct {
	dbOps
	root   *sqlx.DB
	driver string
}

// Open connects to driver (sqlite or postgres) and applies the schema.
func Open(driver, dsn string) (*DB, error) {
	switch driver {
	case constants.DriverSQLite:
		return NewSQLiteDB(dsn)
	case constants.DriverPostgres:
		return NewPostgresDB(dsn)
	default:
		return nil, fmt.Errorf("unsupported db driver: %s", driver)
	}
}

var (
	registerLowerOnce sync.Once
	registerLowerErr  error
)

// registerUnicodeLower replaces SQLite's ASCII-only lower() for every
// connection opened by the driver.
func registerUnicodeLower() error {
	registerLowerOnce.Do(func() {
		registerLowerErr = sqlite.RegisterDeterministicScalarFunction("lower", 1, sqliteLower)
	})
	return registerLowerErr
}

func sqliteLower(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return foldCase(v), nil
	case []byte:
		return foldCase(string(v)), nil
	default:
		return v, nil
	}
}

func NewSQLiteDB(dsn string) (*DB, error) {
	if err := registerUnicodeLower(); err != nil {
		return nil, fmt.Errorf("failed to register lower(): %w", err)
	}

	db, err := sqlx.Open("sqlite", withConnPragmas(dsn))
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	// Set pragmas for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=30000"); err != nil {
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	out := &DB{dbOps: db, root: db, driver: constants.DriverSQLite}
	if err := out.Migrate(context.Background()); err != nil {
		return nil, err
	}
	return out, nil
}

func NewPostgresDB(dsn string) (*DB, error) {
	db, err := sqlx.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	out := &DB{dbOps: db, root: db, driver: constants.DriverPostgres}
	if err := out.Migrate(context.Background()); err != nil {
		return nil, err
	}
	return out, nil
}

// Migrate applies the schema and seeds the sentinel rater. It is idempotent.
func (db *DB) Migrate(ctx context.Context) error {
	schema := SQLiteSchema
	if db.driver == constants.DriverPostgres {
		schema = PostgresSchema
	}
	if _, err := db.root.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	if _, err := db.root.ExecContext(ctx, seedSentinel); err != nil {
		return fmt.Errorf("failed to seed sentinel rater: %w", err)
	}
	if db.driver == constants.DriverPostgres {
		if _, err := db.root.ExecContext(ctx, postgresResyncSequences); err != nil {
			return fmt.Errorf("failed to resync sequences: %w", err)
		}
	}
	return nil
}

// RunInTx runs fn against a transaction, committing when fn returns nil.
// Nested calls reuse the outer transaction.
func (db *DB) RunInTx(ctx context.Context, fn func(txDB *DB) error) error {
	if _, inTx := db.dbOps.(*sqlx.Tx); inTx {
		return fn(db)
	}

	tx, err := db.root.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	txDB := &DB{
		dbOps:  tx,
		root:   db.root,
		driver: db.driver,
	}

	if err := fn(txDB); err != nil {
		return err
	}
	return tx.Commit()
}

// Driver reports the configured driver name.
func (db *DB) Driver() string {
	return db.driver
}

func (db *DB) Close() error {
	return db.root.Close()
}

// insertReturningID runs a named INSERT ... RETURNING id statement.
func (db *DB) insertReturningID(ctx context.Context, query string, arg interface{}) (int64, error) {
	q, args, err := sqlx.Named(query+" RETURNING id", arg)
	if err != nil {
		return 0, fmt.Errorf("failed to bind named query: %w", err)
	}
	var id int64
	if err := db.QueryRowxContext(ctx, db.Rebind(q), args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// exec rebinds ? placeholders for the active driver.
func (db *DB) exec(ctx context.Context, query string, args ...interface{}) error {
	_, err := db.ExecContext(ctx, db.Rebind(query), args...)
	return err
}

func (db *DB) get(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return db.GetContext(ctx, dest, db.Rebind(query), args...)
}

func (db *DB) sel(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return db.SelectContext(ctx, dest, db.Rebind(query), args...)
}

// withConnPragmas applies per-connection pragmas to every pooled connection.
func withConnPragmas(dsn string) string {
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(30000)"
}
