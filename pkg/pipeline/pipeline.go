// Package pipeline exposes the DataSource abstraction: a fluent chain of
// filter/transform stages over parsed rows, terminated by a single
// materializing call.
//
// Two variants exist. ListSource is eager: every stage applies immediately to
// an in-memory row set, and sources may be forked and reused freely.
// StreamSource is lazy: stages are recorded as deferred steps over a
// single-use input stream, and exactly one fork may ever run the terminal
// ToRows call.
package pipeline

import (
	"datamorph/pkg/rows"
	"datamorph/pkg/transform"
)

// DataSource is the fluent pipeline contract. Filter, TransformFunc, and
// Transform never mutate the receiver; each returns a new DataSource. ToRows
// is the only operation that performs I/O or materialization, and the only
// one that can fail with a parse or state error.
type DataSource interface {
	// Filter keeps only rows for which pred returns true.
	Filter(pred func(*rows.Row) bool) DataSource

	// TransformFunc applies fn to a copy of each row. The copy, after
	// mutation by fn, replaces the original in the resulting source.
	TransformFunc(fn func(*rows.Row)) DataSource

	// Transform applies a structured operation chain to each row.
	Transform(t *transform.Transform) DataSource

	// ToRows materializes the final row sequence.
	ToRows() ([]*rows.Row, error)
}
