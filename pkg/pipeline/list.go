package pipeline

import (
	"datamorph/pkg/rows"
	"datamorph/pkg/transform"
)

// ListSource is the eager DataSource: it wraps a fixed row sequence and every
// stage materializes immediately. ListSources are immutable after
// construction and may be forked into any number of derived pipelines.
type ListSource struct {
	rows []*rows.Row
}

// NewListSource wraps a copy of rs.
func NewListSource(rs []*rows.Row) *ListSource {
	out := make([]*rows.Row, len(rs))
	copy(out, rs)
	return &ListSource{rows: out}
}

// Filter returns a new source holding only the rows matching pred.
func (s *ListSource) Filter(pred func(*rows.Row) bool) DataSource {
	kept := make([]*rows.Row, 0, len(s.rows))
	for _, r := range s.rows {
		if pred(r) {
			kept = append(kept, r)
		}
	}
	return &ListSource{rows: kept}
}

// TransformFunc returns a new source where each row is a mutated copy.
func (s *ListSource) TransformFunc(fn func(*rows.Row)) DataSource {
	out := make([]*rows.Row, len(s.rows))
	for i, r := range s.rows {
		c := r.Copy()
		fn(c)
		out[i] = c
	}
	return &ListSource{rows: out}
}

// Transform returns a new source with t applied to each row.
func (s *ListSource) Transform(t *transform.Transform) DataSource {
	out := make([]*rows.Row, len(s.rows))
	for i, r := range s.rows {
		out[i] = t.Apply(r)
	}
	return &ListSource{rows: out}
}

// ToRows returns a defensive snapshot of the sequence. The returned slice is
// independent of the source; the rows themselves are shared and treated as
// immutable by pipeline stages.
func (s *ListSource) ToRows() ([]*rows.Row, error) {
	out := make([]*rows.Row, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

// Len returns the number of rows currently held.
func (s *ListSource) Len() int { return len(s.rows) }
