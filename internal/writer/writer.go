// Package writer serializes row sequences back out to delimited text or
// JSON. Output columns follow first-seen order: the order fields appear
// across the input rows, earliest row first.
package writer

import (
	"io"

	"datamorph/pkg/rows"
)

// Writer serializes a row sequence to a stream.
type Writer interface {
	Write(w io.Writer, rs []*rows.Row) error
}

// columnOrder returns the union of field names across rs in first-seen order.
func columnOrder(rs []*rows.Row) []string {
	var cols []string
	seen := make(map[string]bool)
	for _, r := range rs {
		for _, name := range r.Names() {
			if !seen[name] {
				seen[name] = true
				cols = append(cols, name)
			}
		}
	}
	return cols
}
