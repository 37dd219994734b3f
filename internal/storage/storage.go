// Package storage contains the storage-agnostic contracts for loading parsed
// rows into SQL backends, plus a batched concurrent loader. Concrete
// backends (postgres, mssql, sqlite) live in subpackages and register
// themselves with the factory at init time; importing storage/all enables
// every built-in backend.
package storage

import (
	"context"
	"sync"

	"datamorph/pkg/dataerr"
	"datamorph/pkg/rows"
)

// Config selects and configures a backend.
type Config struct {
	// Kind names the backend: "postgres", "mssql", or "sqlite".
	Kind string

	// DSN is the backend connection string.
	DSN string

	// Table is the destination table, optionally schema-qualified.
	Table string

	// Columns is the ordered list of destination columns. When empty, the
	// loader derives it from the first row's field order.
	Columns []string
}

// Repository is a destination for parsed rows.
type Repository interface {
	// CopyFrom bulk-inserts rows aligned to the given column order and
	// returns the number of rows inserted.
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)

	// Exec runs an arbitrary statement, typically DDL.
	Exec(ctx context.Context, sql string) error

	// Close releases the underlying connections.
	Close()
}

// Factory constructs a Repository for one backend kind.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs (or replaces) the factory for a backend kind. It is
// called from backend packages' init functions.
func Register(kind string, fn Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[kind] = fn
}

// New opens a Repository for cfg.Kind. The caller owns the returned
// repository and must Close it.
func New(ctx context.Context, cfg Config) (Repository, error) {
	regMu.RLock()
	fn, ok := factories[cfg.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, dataerr.Input("no storage backend registered for kind %q", cfg.Kind)
	}
	return fn(ctx, cfg)
}

// ColumnsFor returns cfg.Columns, or the first row's field order when the
// config does not pin a column list.
func ColumnsFor(cfg Config, rs []*rows.Row) []string {
	if len(cfg.Columns) > 0 {
		return cfg.Columns
	}
	if len(rs) == 0 {
		return nil
	}
	return rs[0].Names()
}

// RowValues flattens r into a positional slice aligned to columns. Absent
// fields and Null values become nil so drivers encode SQL NULL.
func RowValues(r *rows.Row, columns []string) []any {
	out := make([]any, len(columns))
	for i, c := range columns {
		v, ok := r.Lookup(c)
		if !ok || v.IsNull() {
			continue
		}
		out[i] = v.Any()
	}
	return out
}
