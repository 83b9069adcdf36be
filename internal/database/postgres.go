package database

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/seedling-db/seedling/internal/fixture"
)

// Postgres wraps a pgx pool with the schema operations the seeder needs:
// identity introspection, identity toggling, batch inserts and sequence
// resync.
type Postgres struct {
	pool *pgxpool.Pool
	qb   squirrel.StatementBuilderType
}

// Connect opens a pool against url and verifies it with a ping. The pool is
// sized for a CLI run, not a server.
func Connect(ctx context.Context, url string) (*Postgres, error) {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection URL: %w", err)
	}

	config.MaxConns = 2
	config.MinConns = 0
	config.MaxConnLifetime = 15 * time.Minute
	config.MaxConnIdleTime = 3 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Postgres{
		pool: pool,
		qb:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// TableExists reports whether table exists in the public schema.
func (p *Postgres) TableExists(ctx context.Context, table string) (bool, error) {
	var exists bool
	err := p.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = $1 AND table_type = 'BASE TABLE'
		)
	`, table).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", table, err)
	}
	return exists, nil
}

// ColumnIsIdentity reports whether column currently has identity generation
// enabled. A missing row means the table or column does not exist, which is
// a configuration error, not a "no identity" answer.
func (p *Postgres) ColumnIsIdentity(ctx context.Context, table, column string) (bool, error) {
	var isIdentity bool
	err := p.pool.QueryRow(ctx, `
		SELECT is_identity = 'YES'
		FROM information_schema.columns
		WHERE table_schema = 'public' AND table_name = $1 AND column_name = $2
	`, table, column).Scan(&isIdentity)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, fmt.Errorf("table %s has no column %s (does the fixture export match an existing table?)", table, column)
	}
	if err != nil {
		return false, fmt.Errorf("failed to check identity on %s.%s: %w", table, column, err)
	}
	return isIdentity, nil
}

// DropIdentity removes identity generation from table.column so explicit key
// values can be inserted.
func (p *Postgres) DropIdentity(ctx context.Context, table, column string) error {
	if err := checkIdentifiers(table, column); err != nil {
		return err
	}
	query := fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP IDENTITY", table, column)
	if _, err := p.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to drop identity on %s.%s: %w", table, column, err)
	}
	return nil
}

// RestoreIdentity re-adds identity generation as GENERATED ALWAYS. The strict
// variant makes later accidental explicit-id inserts fail loudly instead of
// silently desynchronizing the sequence again.
func (p *Postgres) RestoreIdentity(ctx context.Context, table, column string) error {
	if err := checkIdentifiers(table, column); err != nil {
		return err
	}
	query := fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s ADD GENERATED ALWAYS AS IDENTITY", table, column)
	if _, err := p.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to restore identity on %s.%s: %w", table, column, err)
	}
	return nil
}

// SyncSequence sets the sequence backing table.column to the current maximum
// value, so the next generated key is max+1. Returns the value the sequence
// was set to.
func (p *Postgres) SyncSequence(ctx context.Context, table, column string) (int64, error) {
	if err := checkIdentifiers(table, column); err != nil {
		return 0, err
	}
	query := fmt.Sprintf(
		"SELECT setval(pg_get_serial_sequence('%s', '%s'), (SELECT MAX(%s) FROM %s))",
		table, column, column, table,
	)
	var current int64
	if err := p.pool.QueryRow(ctx, query).Scan(&current); err != nil {
		return 0, fmt.Errorf("failed to sync sequence for %s.%s: %w", table, column, err)
	}
	return current, nil
}

// InsertRows inserts all records in a single multi-row statement and returns
// the number of rows inserted.
func (p *Postgres) InsertRows(ctx context.Context, table string, rows []fixture.Record) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	query, args, err := buildInsert(p.qb, table, rows)
	if err != nil {
		return 0, err
	}

	tag, err := p.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return tag.RowsAffected(), nil
}

// buildInsert builds one parameterized multi-row INSERT. Columns are the
// sorted union of all record keys; a record missing a key contributes NULL.
func buildInsert(qb squirrel.StatementBuilderType, table string, rows []fixture.Record) (string, []any, error) {
	if !fixture.IsValidIdentifier(table) {
		return "", nil, fmt.Errorf("invalid table name: %s", table)
	}

	colSet := make(map[string]struct{})
	for _, row := range rows {
		for col := range row {
			if !fixture.IsValidIdentifier(col) {
				return "", nil, fmt.Errorf("invalid column name in %s: %s", table, col)
			}
			colSet[col] = struct{}{}
		}
	}

	columns := make([]string, 0, len(colSet))
	for col := range colSet {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	builder := qb.Insert(table).Columns(columns...)
	for _, row := range rows {
		values := make([]any, len(columns))
		for i, col := range columns {
			values[i] = row[col]
		}
		builder = builder.Values(values...)
	}

	return builder.ToSql()
}

func checkIdentifiers(names ...string) error {
	for _, name := range names {
		if !fixture.IsValidIdentifier(name) {
			return fmt.Errorf("invalid identifier: %s", name)
		}
	}
	return nil
}
