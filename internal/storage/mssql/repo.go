// Package mssql implements a Microsoft SQL Server storage.Repository using
// the go-mssqldb bulk copy API.
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"

	"datamorph/internal/storage"
	"datamorph/pkg/rows"
)

// Config holds MSSQL repository configuration.
type Config struct {
	DSN   string
	Table string
}

// Repository is an MSSQL-backed implementation of storage.Repository.
type Repository struct {
	db  *sql.DB
	cfg Config
}

var _ storage.Repository = (*Repository)(nil)

func init() {
	storage.Register("mssql", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return NewRepository(ctx, Config{DSN: cfg.DSN, Table: cfg.Table})
	})
	storage.RegisterDDL("mssql", ensureTable)
}

// NewRepository opens a connection for cfg.DSN.
func NewRepository(ctx context.Context, cfg Config) (*Repository, error) {
	// Validate DSN early to fail fast on obvious mistakes.
	if _, err := msdsn.Parse(cfg.DSN); err != nil {
		return nil, fmt.Errorf("mssql dsn: %w", err)
	}
	db, err := sql.Open("sqlserver", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Repository{db: db, cfg: cfg}, nil
}

// CopyFrom bulk-inserts rows with the driver's bulk copy statement inside
// one transaction.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rowVals [][]any) (int64, error) {
	if len(rowVals) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	rollback := func() { _ = tx.Rollback() }

	stmt, err := tx.PrepareContext(ctx, mssql.CopyIn(r.cfg.Table, mssql.BulkOptions{}, columns...))
	if err != nil {
		rollback()
		return 0, fmt.Errorf("prepare bulk copy: %w", err)
	}

	for i, row := range rowVals {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			_ = stmt.Close()
			rollback()
			return 0, fmt.Errorf("bulk row %d: %w", i, err)
		}
	}

	res, err := stmt.ExecContext(ctx) // flush
	if cerr := stmt.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		rollback()
		return 0, fmt.Errorf("bulk finalize: %w", err)
	}
	inserted, _ := res.RowsAffected()

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

// Exec implements storage.Repository.Exec.
func (r *Repository) Exec(ctx context.Context, sqlText string) error {
	_, err := r.db.ExecContext(ctx, sqlText)
	return err
}

// Close releases the database handle.
func (r *Repository) Close() { _ = r.db.Close() }

func ensureTable(ctx context.Context, repo storage.Repository, cfg storage.Config, sample []*rows.Row) error {
	def, err := storage.InferTable(cfg.Table, sample)
	if err != nil {
		return err
	}
	ddl, err := storage.BuildCreateTableSQL(def, msType, msIdent)
	if err != nil {
		return err
	}
	// MSSQL has no CREATE TABLE IF NOT EXISTS; guard with an object check.
	guarded := fmt.Sprintf(
		"IF OBJECT_ID(N'%s', N'U') IS NULL BEGIN %s END",
		strings.ReplaceAll(cfg.Table, "'", "''"),
		strings.TrimSuffix(strings.Replace(ddl, "CREATE TABLE IF NOT EXISTS", "CREATE TABLE", 1), ";"),
	)
	return repo.Exec(ctx, guarded)
}

// msType maps a value kind onto an MSSQL column type.
func msType(k rows.ValueKind) string {
	switch k {
	case rows.KindBool:
		return "bit"
	case rows.KindInt:
		return "bigint"
	case rows.KindFloat:
		return "float"
	default:
		return "nvarchar(max)"
	}
}

// msIdent quotes a single identifier segment with brackets.
func msIdent(id string) string {
	return "[" + strings.ReplaceAll(id, "]", "]]") + "]"
}
