// Package transformer provides batch transforms applied to whole row
// sequences between parsing and output. These complement the per-row
// operation chains in pkg/transform: a batch transform can see the entire
// sequence at once, which row-at-a-time operations cannot (deduplication,
// for instance).
package transformer

import "datamorph/pkg/rows"

// Transformer rewrites a row sequence. Implementations may filter, reorder,
// or replace rows but must not mutate the input rows in place.
type Transformer interface {
	Apply(in []*rows.Row) []*rows.Row
}

// Chain is an ordered list of transformers.
type Chain []Transformer

func (c Chain) Apply(in []*rows.Row) []*rows.Row {
	if len(c) == 0 {
		return in
	}

	out := in
	for _, t := range c {
		if t == nil {
			continue
		}
		out = t.Apply(out)
	}
	return out
}
