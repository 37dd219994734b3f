package transform

import (
	"reflect"
	"testing"

	"datamorph/pkg/rows"
)

func sampleRow() *rows.Row {
	r := rows.New()
	r.Set("emp_name", rows.Text("John"))
	r.Set("age", rows.Int(30))
	r.Set("ssn", rows.Text("123-45-6789"))
	return r
}

/*
TestTransformApplyOrder verifies that operations run in registration order
and that the input row is never mutated.
*/
func TestTransformApplyOrder(t *testing.T) {
	in := sampleRow()
	tr := NewBuilder().
		Rename("emp_name", "name").
		Add("bonus", rows.Int(1000)).
		Remove("ssn").
		Build()

	out := tr.Apply(in)

	want := []string{"age", "name", "bonus"}
	if got := out.Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("result fields = %v; want %v", got, want)
	}
	if got := out.Get("name"); got != rows.Text("John") {
		t.Fatalf("name = %v; want John", got)
	}

	// Input untouched.
	if !in.Has("emp_name") || !in.Has("ssn") || in.Has("bonus") {
		t.Fatalf("input row was mutated: %v", in)
	}
}

func TestTransformEmptyReturnsCopy(t *testing.T) {
	in := sampleRow()
	out := NewBuilder().Build().Apply(in)
	if out == in {
		t.Fatalf("empty transform returned the input instance")
	}
	if !out.Equal(in) {
		t.Fatalf("empty transform changed content: %v", out)
	}
}

func TestRenameAbsentIsNoop(t *testing.T) {
	in := sampleRow()
	out := NewBuilder().Rename("nope", "other").Build().Apply(in)
	if !out.Equal(in) {
		t.Fatalf("rename of absent field changed the row: %v", out)
	}
}

func TestRenameMovesToEnd(t *testing.T) {
	in := sampleRow()
	out := NewBuilder().Rename("emp_name", "name").Build().Apply(in)
	want := []string{"age", "ssn", "name"}
	if got := out.Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("fields after rename = %v; want %v", got, want)
	}
}

func TestAddOverwrites(t *testing.T) {
	in := sampleRow()
	out := NewBuilder().Add("age", rows.Int(31)).Build().Apply(in)
	if got := out.Get("age"); got != rows.Int(31) {
		t.Fatalf("age = %v; want 31", got)
	}
	if in.Get("age") != rows.Int(30) {
		t.Fatalf("input age changed")
	}
}

/*
TestConditional verifies that the action fires only when the predicate
holds, that the predicate sees a copy, and that non-matching rows still come
back as new instances.
*/
func TestConditional(t *testing.T) {
	tr := NewBuilder().
		When(
			func(r *rows.Row) bool {
				age, _ := r.Int("age")
				return age >= 18
			},
			func(r *rows.Row) *rows.Row {
				r.Set("adult", rows.Bool(true))
				return r
			},
		).
		Build()

	adult := sampleRow()
	out := tr.Apply(adult)
	if got, _ := out.Bool("adult"); !got {
		t.Fatalf("matching row missing adult flag: %v", out)
	}

	minor := rows.New()
	minor.Set("age", rows.Int(12))
	out = tr.Apply(minor)
	if out.Has("adult") {
		t.Fatalf("non-matching row gained adult flag")
	}
	if out == minor {
		t.Fatalf("non-matching row returned as same instance")
	}
}

func TestDescriptions(t *testing.T) {
	tr := NewBuilder().
		Rename("a", "b").
		Add("c", rows.Int(1)).
		Remove("d").
		When(func(*rows.Row) bool { return true }, func(r *rows.Row) *rows.Row { return r }).
		Build()

	want := []string{
		"Rename field 'a' to 'b'",
		"Add field 'c' with value '1'",
		"Remove field 'd'",
		"Conditional Transform",
	}
	if got := tr.Descriptions(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Descriptions() = %v; want %v", got, want)
	}
	if tr.Len() != 4 {
		t.Fatalf("Len() = %d; want 4", tr.Len())
	}
}

func TestBuilderReuseAfterBuild(t *testing.T) {
	b := NewBuilder().Remove("x")
	first := b.Build()
	b.Remove("y")
	second := b.Build()

	if first.Len() != 1 {
		t.Fatalf("earlier transform grew after builder reuse: len=%d", first.Len())
	}
	if second.Len() != 2 {
		t.Fatalf("later transform len = %d; want 2", second.Len())
	}
}

func TestCustomNilPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("Custom(nil) did not panic")
		}
	}()
	NewBuilder().Custom(nil)
}
