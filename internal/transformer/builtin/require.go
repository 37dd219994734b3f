// Package builtin holds the stock batch transformers wired up from pipeline
// configuration: required-field filtering, text normalization, and
// deduplication.
package builtin

import "datamorph/pkg/rows"

// Require drops rows missing any of the listed fields. A field counts as
// missing when it is absent, Null, or empty text. With no fields configured
// every row passes.
type Require struct {
	Fields []string
}

func (rq Require) Apply(in []*rows.Row) []*rows.Row {
	if len(rq.Fields) == 0 || len(in) == 0 {
		return in
	}
	out := in[:0]
	for _, r := range in {
		if rq.keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func (rq Require) keep(r *rows.Row) bool {
	for _, f := range rq.Fields {
		v, ok := r.Lookup(f)
		if !ok || v.IsNull() {
			return false
		}
		if v.Kind() == rows.KindText && v.TextVal() == "" {
			return false
		}
	}
	return true
}
