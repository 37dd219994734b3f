package mapper

import (
	"reflect"
	"testing"

	"datamorph/pkg/rows"
)

type person struct {
	Name    string `row:"name"`
	Age     int    `row:"age"`
	Score   float64
	Active  bool   `row:"active"`
	Secret  string `row:"-"`
	private string
}

func TestToRowFieldOrderAndTags(t *testing.T) {
	p := person{Name: "John", Age: 30, Score: 1.5, Active: true, Secret: "x", private: "y"}
	row, err := ToRow(p)
	if err != nil {
		t.Fatalf("ToRow failed: %v", err)
	}

	want := []string{"name", "age", "Score", "active"}
	if got := row.Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("field order = %v; want %v", got, want)
	}
	if row.Get("name") != rows.Text("John") || row.Get("age") != rows.Int(30) {
		t.Fatalf("row = %v", row)
	}
	if row.Has("Secret") || row.Has("private") {
		t.Fatalf("skipped fields leaked into row: %v", row)
	}
}

func TestToRowPointerInput(t *testing.T) {
	row, err := ToRow(&person{Name: "Jane"})
	if err != nil {
		t.Fatalf("ToRow(&p) failed: %v", err)
	}
	if row.Get("name") != rows.Text("Jane") {
		t.Fatalf("row = %v", row)
	}

	if _, err := ToRow((*person)(nil)); err == nil {
		t.Fatalf("nil pointer did not fail")
	}
	if _, err := ToRow(42); err == nil {
		t.Fatalf("non-struct did not fail")
	}
}

func TestToRowPointerFields(t *testing.T) {
	type rec struct {
		A *int64 `row:"a"`
		B *int64 `row:"b"`
	}
	v := int64(7)
	row, err := ToRow(rec{A: &v})
	if err != nil {
		t.Fatalf("ToRow failed: %v", err)
	}
	if row.Get("a") != rows.Int(7) {
		t.Fatalf("a = %v; want 7", row.Get("a"))
	}
	if !row.Get("b").IsNull() {
		t.Fatalf("nil pointer field = %v; want Null", row.Get("b"))
	}
}

/*
TestFromRowCoercion verifies that struct fields fill through the coercing row
accessors, so text digits satisfy numeric fields.
*/
func TestFromRowCoercion(t *testing.T) {
	row := rows.New()
	row.Set("name", rows.Text("John"))
	row.Set("age", rows.Text("30"))
	row.Set("active", rows.Text("yes"))
	row.Set("Score", rows.Int(2))

	var p person
	if err := FromRow(row, &p); err != nil {
		t.Fatalf("FromRow failed: %v", err)
	}
	if p.Name != "John" || p.Age != 30 || !p.Active || p.Score != 2 {
		t.Fatalf("mapped struct = %+v", p)
	}
}

func TestFromRowMissingAndExtra(t *testing.T) {
	row := rows.New()
	row.Set("name", rows.Text("Jane"))
	row.Set("unmapped", rows.Int(1))

	p := person{Age: 99}
	if err := FromRow(row, &p); err != nil {
		t.Fatalf("FromRow failed: %v", err)
	}
	if p.Name != "Jane" || p.Age != 99 {
		t.Fatalf("mapped struct = %+v", p)
	}
}

func TestFromRowPointerFields(t *testing.T) {
	type rec struct {
		A *int64 `row:"a"`
		B *int64 `row:"b"`
	}
	row := rows.New()
	row.Set("a", rows.Int(7))
	row.Set("b", rows.Null())

	v := int64(1)
	out := rec{B: &v}
	if err := FromRow(row, &out); err != nil {
		t.Fatalf("FromRow failed: %v", err)
	}
	if out.A == nil || *out.A != 7 {
		t.Fatalf("a = %v; want 7", out.A)
	}
	if out.B != nil {
		t.Fatalf("null value left pointer set: %v", *out.B)
	}
}

func TestFromRowErrors(t *testing.T) {
	row := rows.New()
	row.Set("age", rows.Text("abc"))
	var p person
	if err := FromRow(row, &p); err == nil {
		t.Fatalf("uncoercible text did not fail")
	}

	if err := FromRow(row, p); err == nil {
		t.Fatalf("non-pointer destination did not fail")
	}
	if err := FromRow(row, (*person)(nil)); err == nil {
		t.Fatalf("nil destination did not fail")
	}

	type unsigned struct {
		N uint `row:"n"`
	}
	neg := rows.New()
	neg.Set("n", rows.Int(-1))
	var u unsigned
	if err := FromRow(neg, &u); err == nil {
		t.Fatalf("negative value for unsigned field did not fail")
	}
}

func TestRoundTripSlices(t *testing.T) {
	in := []person{
		{Name: "John", Age: 30, Score: 1.5, Active: true},
		{Name: "Jane", Age: 25},
	}
	rs, err := ToRows(in)
	if err != nil {
		t.Fatalf("ToRows failed: %v", err)
	}
	out, err := FromRows[person](rs)
	if err != nil {
		t.Fatalf("FromRows failed: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip changed data: %+v vs %+v", in, out)
	}
}
