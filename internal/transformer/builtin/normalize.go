package builtin

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"datamorph/pkg/rows"
)

// Normalize rewrites text values to Unicode NFC form. With StripDiacritics
// set, accents are removed on the way (decompose, drop nonspacing marks,
// recompose). Non-text values and fields outside the configured set pass
// through unchanged.
type Normalize struct {
	// Fields limits normalization to the named fields. Empty means all.
	Fields []string

	// StripDiacritics removes accent marks, so "café" becomes "cafe".
	StripDiacritics bool

	// TrimSpace trims leading and trailing whitespace after normalization.
	TrimSpace bool
}

func (n Normalize) Apply(in []*rows.Row) []*rows.Row {
	if len(in) == 0 {
		return in
	}
	t := n.transformer()
	want := make(map[string]bool, len(n.Fields))
	for _, f := range n.Fields {
		want[f] = true
	}
	out := make([]*rows.Row, len(in))
	for i, r := range in {
		out[i] = n.normalizeRow(r, t, want)
	}
	return out
}

func (n Normalize) transformer() transform.Transformer {
	if n.StripDiacritics {
		// Decompose, remove nonspacing marks, recompose.
		return transform.Chain(
			norm.NFD,
			runes.Remove(runes.In(unicode.Mn)),
			norm.NFC,
		)
	}
	return norm.NFC
}

func (n Normalize) normalizeRow(r *rows.Row, t transform.Transformer, want map[string]bool) *rows.Row {
	out := r.Copy()
	for _, name := range out.Names() {
		if len(want) > 0 && !want[name] {
			continue
		}
		v := out.Get(name)
		if v.Kind() != rows.KindText {
			continue
		}
		s, _, err := transform.String(t, v.TextVal())
		if err != nil {
			continue
		}
		if n.TrimSpace {
			s = strings.TrimSpace(s)
		}
		if s != v.TextVal() {
			out.Set(name, rows.Text(s))
		}
	}
	return out
}
