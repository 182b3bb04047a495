// Package publish copies a finished master list into PostgreSQL.
//
// Every publish replaces the target table's contents inside one transaction:
// readers see either the previous list or the new one, never a mix.
//
// The table is created on first publish. An existing table must already have
// the master list's columns in order; otherwise Publish fails with
// ErrColumnsDiffer and the table has to be dropped so it can be recreated.
package publish

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/MasterList/internal/config"
	"github.com/JonMunkholm/MasterList/internal/logging"
	"github.com/JonMunkholm/MasterList/internal/table"
)

// ErrColumnsDiffer is returned when the existing publish table does not have
// the master list's columns.
var ErrColumnsDiffer = errors.New("publish table columns differ")

// columnsSQL lists a table's columns in the current schema, in order.
const columnsSQL = `SELECT column_name FROM information_schema.columns
WHERE table_schema = current_schema() AND table_name = $1
ORDER BY ordinal_position`

// NewPool parses cfg, opens a connection pool and pings it.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// Postgres publishes into a single table of text columns.
type Postgres struct {
	pool  *pgxpool.Pool
	table string
}

// NewPostgres returns a publisher writing to tableName through pool.
func NewPostgres(pool *pgxpool.Pool, tableName string) *Postgres {
	return &Postgres{pool: pool, table: tableName}
}

// Publish creates the target table when absent, checks its columns, empties
// it and bulk-copies t into it. It returns the number of rows copied.
func (p *Postgres) Publish(ctx context.Context, t *table.Table) (int64, error) {
	columns := ColumnNames(t.Columns())
	log := logging.WithFields(ctx, "table", p.table, "columns", len(columns))
	log.Info("publish started", "rows", t.Len())

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // No-op once committed

	if _, err := tx.Exec(ctx, CreateTableSQL(p.table, columns)); err != nil {
		return 0, fmt.Errorf("create %s: %w", p.table, err)
	}

	rows, err := tx.Query(ctx, columnsSQL, p.table)
	if err != nil {
		return 0, fmt.Errorf("list columns of %s: %w", p.table, err)
	}
	existing, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return 0, fmt.Errorf("list columns of %s: %w", p.table, err)
	}
	if err := CheckColumns(p.table, existing, columns); err != nil {
		log.Warn("publish table out of date", "existing", len(existing))
		return 0, err
	}
	if _, err := tx.Exec(ctx, "TRUNCATE "+pgx.Identifier{p.table}.Sanitize()); err != nil {
		return 0, fmt.Errorf("truncate %s: %w", p.table, err)
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{p.table}, columns, pgx.CopyFromRows(Rows(t)))
	if err != nil {
		return 0, fmt.Errorf("copy into %s: %w", p.table, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	log.Info("publish completed", "rows", n)
	return n, nil
}

// CheckColumns compares an existing table's columns with the columns about to
// be copied. Names and order must match exactly.
func CheckColumns(tableName string, existing, want []string) error {
	if slices.Equal(existing, want) {
		return nil
	}
	for i := 0; i < len(existing) || i < len(want); i++ {
		var have, need string
		if i < len(existing) {
			have = existing[i]
		}
		if i < len(want) {
			need = want[i]
		}
		if have != need {
			return fmt.Errorf("%w: %s column %d is %q, master list has %q; drop the table to recreate it",
				ErrColumnsDiffer, tableName, i+1, have, need)
		}
	}
	return nil
}

// ColumnName converts a publication header to a database column name.
// "Local Code" -> "local_code"
// "short_code" -> "short_code" (no change if already snake_case)
func ColumnName(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
}

// ColumnNames applies ColumnName to every header.
func ColumnNames(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = ColumnName(h)
	}
	return out
}

// CreateTableSQL returns the statement creating tableName with one text
// column per name, in order.
func CreateTableSQL(tableName string, columns []string) string {
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = pgx.Identifier{c}.Sanitize() + " text"
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		pgx.Identifier{tableName}.Sanitize(), strings.Join(defs, ", "))
}

// Rows converts t into copy rows. Null cells become SQL NULL; empty strings
// stay empty strings.
func Rows(t *table.Table) [][]any {
	cols := t.Columns()
	out := make([][]any, t.Len())
	for i := range out {
		row := t.Row(i)
		values := make([]any, len(cols))
		for j, c := range cols {
			if cell := row.Get(c); cell.Valid {
				values[j] = cell.String
			}
		}
		out[i] = values
	}
	return out
}
