package builtin

import (
	"github.com/zeebo/xxh3"

	"datamorph/pkg/rows"
)

// DeDup drops duplicate rows, keyed by an xxh3 hash over the listed key
// fields. With no key fields configured the whole row (every field, in
// order) forms the key. KeepLast keeps the final occurrence of each key
// instead of the first; surviving rows stay in input order either way.
type DeDup struct {
	Keys     []string
	KeepLast bool
}

func (d DeDup) Apply(in []*rows.Row) []*rows.Row {
	if len(in) < 2 {
		return in
	}
	if d.KeepLast {
		return d.applyKeepLast(in)
	}
	seen := make(map[uint64]bool, len(in))
	out := in[:0]
	for _, r := range in {
		h := d.hash(r)
		if seen[h] {
			continue
		}
		seen[h] = true
		out = append(out, r)
	}
	return out
}

func (d DeDup) applyKeepLast(in []*rows.Row) []*rows.Row {
	last := make(map[uint64]int, len(in))
	for i, r := range in {
		last[d.hash(r)] = i
	}
	out := make([]*rows.Row, 0, len(last))
	for i, r := range in {
		if last[d.hash(r)] == i {
			out = append(out, r)
		}
	}
	return out
}

// hash folds the key fields into one digest. Field values are separated by
// a 0x1f unit separator and a 0x1e record separator per field, so adjacent
// values cannot collide by concatenation.
func (d DeDup) hash(r *rows.Row) uint64 {
	keys := d.Keys
	if len(keys) == 0 {
		keys = r.Names()
	}
	h := xxh3.New()
	for _, k := range keys {
		v, ok := r.Lookup(k)
		h.WriteString(k)
		h.Write([]byte{0x1f})
		if ok {
			h.WriteString(v.Kind().String())
			h.Write([]byte{0x1f})
			h.WriteString(v.String())
		}
		h.Write([]byte{0x1e})
	}
	return h.Sum64()
}
