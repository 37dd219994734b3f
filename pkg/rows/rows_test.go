package rows

import (
	"reflect"
	"testing"
)

/*
TestRowSetOrder verifies that field order is insertion order, that updating
an existing field keeps its position, and that Names returns a defensive
copy.
*/
func TestRowSetOrder(t *testing.T) {
	r := New()
	r.Set("a", Int(1))
	r.Set("b", Text("x"))
	r.Set("c", Bool(true))
	r.Set("a", Int(9)) // update keeps position

	want := []string{"a", "b", "c"}
	if got := r.Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Names() = %v; want %v", got, want)
	}
	if got := r.Get("a"); got != Int(9) {
		t.Fatalf("Get(a) = %v; want 9", got)
	}

	names := r.Names()
	names[0] = "mutated"
	if r.Names()[0] != "a" {
		t.Fatalf("Names() slice is not a copy")
	}
}

func TestRowSetEmptyNamePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("Set with empty name did not panic")
		}
	}()
	New().Set("  ", Int(1))
}

func TestRowRemove(t *testing.T) {
	r := New()
	r.Set("a", Int(1))
	r.Set("b", Int(2))
	r.Set("c", Int(3))

	r.Remove("b")
	if want := []string{"a", "c"}; !reflect.DeepEqual(r.Names(), want) {
		t.Fatalf("Names() = %v; want %v", r.Names(), want)
	}
	if r.Has("b") {
		t.Fatalf("Has(b) = true after Remove")
	}

	// Removing an absent field is a no-op.
	r.Remove("nope")
	if r.Len() != 2 {
		t.Fatalf("Len() = %d; want 2", r.Len())
	}
}

/*
TestRowCopyIndependence verifies that mutating a copy never affects the
original row, in either direction.
*/
func TestRowCopyIndependence(t *testing.T) {
	orig := New()
	orig.Set("name", Text("John"))
	orig.Set("age", Int(30))

	c := orig.Copy()
	c.Set("age", Int(31))
	c.Set("city", Text("Oslo"))
	c.Remove("name")

	if got := orig.Get("age"); got != Int(30) {
		t.Fatalf("original age = %v; want 30", got)
	}
	if orig.Has("city") {
		t.Fatalf("original grew a field from copy mutation")
	}
	if !orig.Has("name") {
		t.Fatalf("original lost a field from copy mutation")
	}
}

func TestRowGetAbsent(t *testing.T) {
	r := New()
	if got := r.Get("missing"); !got.IsNull() {
		t.Fatalf("Get(missing) = %v; want Null", got)
	}
	if _, ok := r.Lookup("missing"); ok {
		t.Fatalf("Lookup(missing) reported present")
	}

	// Present-with-Null is distinguishable from absent via Has.
	r.Set("n", Null())
	if !r.Has("n") {
		t.Fatalf("Has(n) = false for present Null")
	}
}

/*
TestRowTypedAccessors covers the coercion matrix of the typed getters:
native kinds pass through, text parses, floats truncate to int, and
absent/Null fields yield zero values without error.
*/
func TestRowTypedAccessors(t *testing.T) {
	r := New()
	r.Set("i", Int(42))
	r.Set("f", Float(3.9))
	r.Set("itext", Text(" 7 "))
	r.Set("ftext", Text("2.5"))
	r.Set("b", Bool(true))
	r.Set("btext", Text("yes"))
	r.Set("s", Text("hello"))
	r.Set("nul", Null())

	if v, err := r.Int("i"); err != nil || v != 42 {
		t.Fatalf("Int(i) = %d, %v", v, err)
	}
	if v, err := r.Int("f"); err != nil || v != 3 {
		t.Fatalf("Int(f) = %d, %v; want 3 (truncated)", v, err)
	}
	if v, err := r.Int("itext"); err != nil || v != 7 {
		t.Fatalf("Int(itext) = %d, %v", v, err)
	}
	if v, err := r.Float("ftext"); err != nil || v != 2.5 {
		t.Fatalf("Float(ftext) = %g, %v", v, err)
	}
	if v, err := r.Float("i"); err != nil || v != 42 {
		t.Fatalf("Float(i) = %g, %v; want widened 42", v, err)
	}
	if v, err := r.Bool("b"); err != nil || !v {
		t.Fatalf("Bool(b) = %v, %v", v, err)
	}
	if v, err := r.Bool("btext"); err != nil || !v {
		t.Fatalf("Bool(btext) = %v, %v", v, err)
	}
	if v, err := r.Text("s"); err != nil || v != "hello" {
		t.Fatalf("Text(s) = %q, %v", v, err)
	}

	// Absent and Null fields: zero value, no error.
	if v, err := r.Int("missing"); err != nil || v != 0 {
		t.Fatalf("Int(missing) = %d, %v; want 0, nil", v, err)
	}
	if v, err := r.Bool("nul"); err != nil || v {
		t.Fatalf("Bool(nul) = %v, %v; want false, nil", v, err)
	}
	if v, err := r.Text("nul"); err != nil || v != "" {
		t.Fatalf("Text(nul) = %q, %v; want empty, nil", v, err)
	}
}

func TestRowCoercionErrors(t *testing.T) {
	r := New()
	r.Set("s", Text("hello"))
	r.Set("b", Bool(true))

	if _, err := r.Int("s"); err == nil {
		t.Fatalf("Int on non-numeric text did not fail")
	}
	if _, err := r.Float("s"); err == nil {
		t.Fatalf("Float on non-numeric text did not fail")
	}
	if _, err := r.Bool("s"); err == nil {
		t.Fatalf("Bool on unrecognized text did not fail")
	}
	if _, err := r.Int("b"); err == nil {
		t.Fatalf("Int on bool did not fail")
	}
}

func TestRowEqual(t *testing.T) {
	a := New()
	a.Set("x", Int(1))
	a.Set("y", Text("t"))

	b := New()
	b.Set("x", Int(1))
	b.Set("y", Text("t"))

	if !a.Equal(b) {
		t.Fatalf("equal rows reported unequal")
	}

	// Same content, different order: not equal.
	c := New()
	c.Set("y", Text("t"))
	c.Set("x", Int(1))
	if a.Equal(c) {
		t.Fatalf("order-different rows reported equal")
	}
}

func TestRowString(t *testing.T) {
	r := New()
	r.Set("a", Int(1))
	r.Set("b", Text("x"))
	if got, want := r.String(), "Row{a=1, b=x}"; got != want {
		t.Fatalf("String() = %q; want %q", got, want)
	}
}
