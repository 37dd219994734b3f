package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"datamorph/pkg/dataerr"
	"datamorph/pkg/rows"
)

// ColumnDef describes one destination column for DDL generation.
type ColumnDef struct {
	Name     string
	Kind     rows.ValueKind
	Nullable bool
}

// TableDef describes a destination table inferred from parsed rows.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// InferTable derives a table definition from a row sample: column order from
// the first-seen field order, column type from the widest value kind observed
// per field, nullability from whether any row lacks the field or holds Null.
func InferTable(fqn string, rs []*rows.Row) (TableDef, error) {
	if strings.TrimSpace(fqn) == "" {
		return TableDef{}, dataerr.Input("table name must not be empty")
	}
	if len(rs) == 0 {
		return TableDef{}, dataerr.Input("cannot infer table %q from zero rows", fqn)
	}

	var order []string
	byName := map[string]*ColumnDef{}
	for _, r := range rs {
		for _, name := range r.Names() {
			col, ok := byName[name]
			if !ok {
				col = &ColumnDef{Name: name}
				byName[name] = col
				order = append(order, name)
			}
			v := r.Get(name)
			if v.IsNull() {
				col.Nullable = true
				continue
			}
			col.Kind = widen(col.Kind, v.Kind())
		}
	}
	// A field absent from some row is nullable.
	for _, name := range order {
		col := byName[name]
		for _, r := range rs {
			if !r.Has(name) {
				col.Nullable = true
				break
			}
		}
	}

	def := TableDef{FQN: fqn, Columns: make([]ColumnDef, 0, len(order))}
	for _, name := range order {
		def.Columns = append(def.Columns, *byName[name])
	}
	return def, nil
}

// widen merges two observed kinds into the narrowest column type holding
// both. Int and Float merge to Float; anything else mixed becomes Text.
func widen(a, b rows.ValueKind) rows.ValueKind {
	if a == rows.KindNull || a == b {
		return b
	}
	if (a == rows.KindInt && b == rows.KindFloat) || (a == rows.KindFloat && b == rows.KindInt) {
		return rows.KindFloat
	}
	return rows.KindText
}

// TypeMapper renders a value kind as a backend SQL type.
type TypeMapper func(rows.ValueKind) string

// BuildCreateTableSQL renders a deterministic CREATE TABLE IF NOT EXISTS
// statement for def, using the backend's type mapper and identifier quoting.
func BuildCreateTableSQL(def TableDef, mapType TypeMapper, quoteIdent func(string) string) (string, error) {
	if len(def.Columns) == 0 {
		return "", dataerr.Input("table %q has no columns", def.FQN)
	}
	cols := make([]string, 0, len(def.Columns))
	for _, c := range def.Columns {
		var sb strings.Builder
		sb.WriteString(quoteIdent(c.Name))
		sb.WriteByte(' ')
		sb.WriteString(mapType(c.Kind))
		if !c.Nullable {
			sb.WriteString(" NOT NULL")
		}
		cols = append(cols, sb.String())
	}
	fqn := quoteFQN(def.FQN, quoteIdent)
	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n  %s\n);",
		fqn, strings.Join(cols, ",\n  "),
	), nil
}

// quoteFQN quotes a possibly schema-qualified name segment by segment.
func quoteFQN(f string, quoteIdent func(string) string) string {
	parts := strings.Split(f, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		out = append(out, quoteIdent(p))
	}
	return strings.Join(out, ".")
}

// DDLBootstrapper infers a table from the row sample and applies the
// appropriate CREATE TABLE via repo.Exec. Backends register theirs at init.
type DDLBootstrapper func(ctx context.Context, repo Repository, cfg Config, sample []*rows.Row) error

var (
	ddlMu  sync.RWMutex
	ddlFns = map[string]DDLBootstrapper{}
)

// RegisterDDL registers (or replaces) a DDLBootstrapper for a backend kind.
func RegisterDDL(kind string, fn DDLBootstrapper) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlFns[kind] = fn
}

// EnsureTable locates the DDLBootstrapper for cfg.Kind and invokes it with a
// row sample, creating the destination table when it does not exist.
func EnsureTable(ctx context.Context, repo Repository, cfg Config, sample []*rows.Row) error {
	ddlMu.RLock()
	fn, ok := ddlFns[cfg.Kind]
	ddlMu.RUnlock()
	if !ok {
		return dataerr.Input("no DDL bootstrapper registered for storage kind %q", cfg.Kind)
	}
	return fn(ctx, repo, cfg, sample)
}
