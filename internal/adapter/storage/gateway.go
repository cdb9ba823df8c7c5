package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pressly/goose"

	"github.com/sm8ta/webike_bike_registry/internal/core/ports"
)

type Options struct {
	Driver        string
	DSN           string
	MigrationsDir string
	// Logger receives migration output. May be nil.
	Logger ports.LoggerPort
}

// Gateway owns the single store connection and the three prepared
// statements every bike operation goes through. It is opened once at
// startup and closed once at shutdown; callers must not use it concurrently.
type Gateway struct {
	db      *sql.DB
	dialect Dialect

	selectStmt *sql.Stmt
	insertStmt *sql.Stmt
	updateStmt *sql.Stmt
}

// Open connects to the store, bootstraps the schema and prepares statements.
func Open(ctx context.Context, opts Options) (*Gateway, error) {
	const op = "storage.Open"

	dialect, err := DialectFor(opts.Driver)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db, err := sql.Open(dialect.Name, opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect to database: %w", op, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: failed to ping database: %w", op, err)
	}

	if opts.MigrationsDir != "" {
		if err := Migrate(db, dialect, resolveMigrationsDir(opts.MigrationsDir), opts.Logger); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	gw, err := New(ctx, db, dialect)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return gw, nil
}

// New prepares the bike statements on an already opened handle.
func New(ctx context.Context, db *sql.DB, dialect Dialect) (*Gateway, error) {
	gw := &Gateway{db: db, dialect: dialect}

	var err error
	if gw.selectStmt, err = db.PrepareContext(ctx, dialect.SelectQuery); err != nil {
		return nil, fmt.Errorf("prepare select: %w", err)
	}
	if gw.insertStmt, err = db.PrepareContext(ctx, dialect.InsertQuery); err != nil {
		gw.closeStatements()
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	if gw.updateStmt, err = db.PrepareContext(ctx, dialect.UpdateQuery); err != nil {
		gw.closeStatements()
		return nil, fmt.Errorf("prepare update: %w", err)
	}

	return gw, nil
}

// Migrate applies the goose migrations found under dir/<dialect>, reporting
// progress to logger.
func Migrate(db *sql.DB, dialect Dialect, dir string, logger ports.LoggerPort) error {
	goose.SetLogger(&migrateLogger{log: logger})

	if err := goose.SetDialect(dialect.Name); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.Up(db, filepath.Join(dir, dialect.Name)); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// resolveMigrationsDir keeps dir when it exists from the working directory
// and otherwise looks for it next to the executable.
func resolveMigrationsDir(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	if _, err := os.Stat(dir); err == nil {
		return dir
	}

	exe, err := os.Executable()
	if err != nil {
		return dir
	}
	candidate := filepath.Join(filepath.Dir(exe), dir)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return dir
}

func (g *Gateway) SelectStatement() *sql.Stmt { return g.selectStmt }

func (g *Gateway) InsertStatement() *sql.Stmt { return g.insertStmt }

func (g *Gateway) UpdateStatement() *sql.Stmt { return g.updateStmt }

func (g *Gateway) Dialect() Dialect { return g.dialect }

func (g *Gateway) DB() *sql.DB { return g.db }

func (g *Gateway) IsUniqueViolation(err error) bool {
	return g.dialect.IsUniqueViolation(err)
}

func (g *Gateway) closeStatements() error {
	var errs []error
	for _, stmt := range []*sql.Stmt{g.selectStmt, g.insertStmt, g.updateStmt} {
		if stmt == nil {
			continue
		}
		if err := stmt.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close releases the statements and the connection.
func (g *Gateway) Close() error {
	return errors.Join(g.closeStatements(), g.db.Close())
}
