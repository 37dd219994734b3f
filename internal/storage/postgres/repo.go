// Package postgres implements a Postgres-backed storage.Repository using pgx
// v5, loading rows through the native COPY protocol.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"datamorph/internal/storage"
	"datamorph/pkg/rows"
)

// Config holds Postgres repository configuration.
type Config struct {
	DSN   string // connection string for pgxpool
	Table string // target table name, optionally schema-qualified
}

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	pool *pgxpool.Pool
	cfg  Config
}

var _ storage.Repository = (*Repository)(nil)

func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return NewRepository(ctx, Config{DSN: cfg.DSN, Table: cfg.Table})
	})
	storage.RegisterDDL("postgres", ensureTable)
}

// NewRepository opens a connection pool for cfg.DSN.
func NewRepository(ctx context.Context, cfg Config) (*Repository, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}
	return &Repository{pool: pool, cfg: cfg}, nil
}

// CopyFrom bulk-inserts rows via the COPY protocol.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rowVals [][]any) (int64, error) {
	n, err := r.pool.CopyFrom(ctx, splitFQN(r.cfg.Table), columns, pgx.CopyFromRows(rowVals))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Detail != "" {
			return n, fmt.Errorf("copy into %s: %s (%s)", r.cfg.Table, pgErr.Detail, pgErr.SQLState())
		}
		return n, fmt.Errorf("copy into %s: %w", r.cfg.Table, err)
	}
	return n, nil
}

// Exec implements storage.Repository.Exec.
func (r *Repository) Exec(ctx context.Context, sql string) error {
	_, err := r.pool.Exec(ctx, sql)
	return err
}

// Close releases the pool.
func (r *Repository) Close() { r.pool.Close() }

func ensureTable(ctx context.Context, repo storage.Repository, cfg storage.Config, sample []*rows.Row) error {
	def, err := storage.InferTable(cfg.Table, sample)
	if err != nil {
		return err
	}
	ddl, err := storage.BuildCreateTableSQL(def, pgType, pgIdent)
	if err != nil {
		return err
	}
	return repo.Exec(ctx, ddl)
}

// pgType maps a value kind onto a Postgres column type.
func pgType(k rows.ValueKind) string {
	switch k {
	case rows.KindBool:
		return "boolean"
	case rows.KindInt:
		return "bigint"
	case rows.KindFloat:
		return "double precision"
	default:
		return "text"
	}
}

// pgIdent safely quotes a single identifier segment for Postgres.
func pgIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

// splitFQN converts "schema.table" into a pgx.Identifier {"schema","table"}.
// If no dot is present, returns {"table"}.
func splitFQN(fqn string) pgx.Identifier {
	parts := strings.Split(fqn, ".")
	id := make(pgx.Identifier, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			id = append(id, p)
		}
	}
	return id
}
