package transformer

import (
	"testing"

	"datamorph/pkg/rows"
)

type dropFirst struct{}

func (dropFirst) Apply(in []*rows.Row) []*rows.Row {
	if len(in) == 0 {
		return in
	}
	return in[1:]
}

type tagger struct{ field string }

func (tg tagger) Apply(in []*rows.Row) []*rows.Row {
	out := make([]*rows.Row, len(in))
	for i, r := range in {
		c := r.Copy()
		c.Set(tg.field, rows.Bool(true))
		out[i] = c
	}
	return out
}

func sampleRows(n int) []*rows.Row {
	out := make([]*rows.Row, n)
	for i := range out {
		r := rows.New()
		r.Set("i", rows.Int(int64(i)))
		out[i] = r
	}
	return out
}

func TestChainAppliesInOrder(t *testing.T) {
	in := sampleRows(3)
	out := Chain{dropFirst{}, tagger{field: "seen"}}.Apply(in)
	if len(out) != 2 {
		t.Fatalf("rows = %d; want 2", len(out))
	}
	if v, _ := out[0].Int("i"); v != 1 {
		t.Fatalf("first surviving row = %v", out[0])
	}
	if got, _ := out[0].Bool("seen"); !got {
		t.Fatalf("second transformer did not run after the first")
	}
}

func TestChainSkipsNil(t *testing.T) {
	in := sampleRows(2)
	out := Chain{nil, dropFirst{}, nil}.Apply(in)
	if len(out) != 1 {
		t.Fatalf("rows = %d; want 1", len(out))
	}
}

func TestEmptyChainIdentity(t *testing.T) {
	in := sampleRows(2)
	out := Chain{}.Apply(in)
	if len(out) != 2 || out[0] != in[0] {
		t.Fatalf("empty chain rewrote the input")
	}
}
