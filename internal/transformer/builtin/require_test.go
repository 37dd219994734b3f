package builtin

import (
	"testing"

	"datamorph/pkg/rows"
)

func namedRow(t *testing.T, name string, extra ...rows.Value) *rows.Row {
	t.Helper()
	r := rows.New()
	r.Set("name", rows.Text(name))
	for i, v := range extra {
		r.Set([]string{"a", "b", "c"}[i], v)
	}
	return r
}

func TestRequireDropsIncomplete(t *testing.T) {
	full := namedRow(t, "John", rows.Int(1))
	nullField := namedRow(t, "Jane", rows.Null())
	emptyText := namedRow(t, "Jim", rows.Text(""))
	absent := namedRow(t, "Joe")

	out := Require{Fields: []string{"name", "a"}}.Apply(
		[]*rows.Row{full, nullField, emptyText, absent},
	)
	if len(out) != 1 || out[0] != full {
		t.Fatalf("kept rows = %v; want only the complete one", out)
	}
}

func TestRequireOrderPreserved(t *testing.T) {
	a := namedRow(t, "a", rows.Int(1))
	b := namedRow(t, "b", rows.Null())
	c := namedRow(t, "c", rows.Int(3))

	out := Require{Fields: []string{"a"}}.Apply([]*rows.Row{a, b, c})
	if len(out) != 2 || out[0] != a || out[1] != c {
		t.Fatalf("kept rows out of order: %v", out)
	}
}

func TestRequireNoFieldsKeepsAll(t *testing.T) {
	in := []*rows.Row{namedRow(t, ""), namedRow(t, "x")}
	out := Require{}.Apply(in)
	if len(out) != 2 {
		t.Fatalf("kept %d rows; want all", len(out))
	}
}

func TestRequireZeroValuesPass(t *testing.T) {
	// Present non-null values count, even falsy ones.
	r := rows.New()
	r.Set("n", rows.Int(0))
	r.Set("b", rows.Bool(false))
	out := Require{Fields: []string{"n", "b"}}.Apply([]*rows.Row{r})
	if len(out) != 1 {
		t.Fatalf("zero-valued row dropped")
	}
}
