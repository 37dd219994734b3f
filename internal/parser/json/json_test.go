package json

import (
	"errors"
	"strings"
	"testing"

	"datamorph/pkg/dataerr"
	"datamorph/pkg/rows"
)

func parseOne(t *testing.T, content string) *rows.Row {
	t.Helper()
	out, err := NewParser().Parse(content)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", content, err)
	}
	if len(out) != 1 {
		t.Fatalf("Parse(%q) = %d rows; want 1", content, len(out))
	}
	return out[0]
}

func TestParseScalars(t *testing.T) {
	r := parseOne(t, `[{"s":"x","i":42,"f":2.5,"b":true,"n":null,"neg":-3}]`)
	cases := []struct {
		field string
		want  rows.Value
	}{
		{"s", rows.Text("x")},
		{"i", rows.Int(42)},
		{"f", rows.Float(2.5)},
		{"b", rows.Bool(true)},
		{"n", rows.Null()},
		{"neg", rows.Int(-3)},
	}
	for _, tc := range cases {
		if got := r.Get(tc.field); got != tc.want {
			t.Fatalf("%s = %v (%v); want %v", tc.field, got, got.Kind(), tc.want)
		}
	}
}

func TestParseEmptyInput(t *testing.T) {
	for _, content := range []string{"", "   ", "[]"} {
		out, err := NewParser().Parse(content)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", content, err)
		}
		if len(out) != 0 {
			t.Fatalf("Parse(%q) = %d rows; want 0", content, len(out))
		}
	}
}

/*
TestParseNestedFlattening verifies dot-path flattening of nested objects and
key-order preservation across nesting levels.
*/
func TestParseNestedFlattening(t *testing.T) {
	r := parseOne(t, `[{"name":"John","address":{"city":"Oslo","geo":{"lat":1.5}},"age":30}]`)
	if got := r.Get("address.city"); got != rows.Text("Oslo") {
		t.Fatalf("address.city = %v", got)
	}
	if got := r.Get("address.geo.lat"); got != rows.Float(1.5) {
		t.Fatalf("address.geo.lat = %v", got)
	}
	want := []string{"name", "address.city", "address.geo.lat", "age"}
	got := r.Names()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("field order = %v; want %v", got, want)
		}
	}
}

/*
TestParseArrayStringification verifies that arrays collapse into a single
rendered text field, including nested arrays, objects, and null elements.
*/
func TestParseArrayStringification(t *testing.T) {
	r := parseOne(t, `[{"tags":["a","b",null,3],"matrix":[[1,2],[3]],"objs":[{"k":1}]}]`)
	if got := r.Get("tags"); got != rows.Text("[a, b, null, 3]") {
		t.Fatalf("tags = %q", got)
	}
	if got := r.Get("matrix"); got != rows.Text("[[1, 2], [3]]") {
		t.Fatalf("matrix = %q", got)
	}
	if got := r.Get("objs"); got != rows.Text("[{k=1}]") {
		t.Fatalf("objs = %q", got)
	}
}

func TestParseStringEscapes(t *testing.T) {
	r := parseOne(t, `[{"s":"a\"b\\c\/d\ne\tf"}]`)
	if got := r.Get("s"); got != rows.Text("a\"b\\c/d\ne\tf") {
		t.Fatalf("escapes = %q", got)
	}

	_, err := NewParser().Parse(`[{"s":"bad\u0041"}]`)
	if err == nil {
		t.Fatalf("unsupported \\u escape did not fail")
	}
}

func TestParseNumberLimits(t *testing.T) {
	// int64 overflow falls back to float.
	r := parseOne(t, `[{"big":99999999999999999999}]`)
	if r.Get("big").Kind() != rows.KindFloat {
		t.Fatalf("overflowing integer kind = %v; want float", r.Get("big").Kind())
	}

	// Exponents are not part of the grammar.
	if _, err := NewParser().Parse(`[{"e":1e5}]`); err == nil {
		t.Fatalf("exponent literal did not fail")
	}
}

func TestParseStructuralErrors(t *testing.T) {
	cases := []string{
		`{"a":1}`,          // top level must be an array
		`[1,2]`,            // elements must be objects
		`[{"a":1}`,         // unterminated array
		`[{"a" 1}]`,        // missing colon
		`[{"a":1} {"b"}]`,  // junk between elements
		`[{"a":"x}]`,       // unterminated string
		`[{"a":tru}]`,      // bad literal
		`[{"a":1}] extra`,  // trailing content
		`[{"a":1,}]`,       // trailing comma in object
		`[{"a":--1}]`,      // bad number
	}
	for _, content := range cases {
		if _, err := NewParser().Parse(content); err == nil {
			t.Fatalf("Parse(%q) did not fail", content)
		} else if !dataerr.IsKind(err, dataerr.KindFormat) && !dataerr.IsKind(err, dataerr.KindInput) {
			t.Fatalf("Parse(%q) error kind: %v", content, err)
		}
	}
}

func TestParseErrorOffset(t *testing.T) {
	_, err := NewParser().Parse(`[{"a":1,"b" 2}]`)
	var de *dataerr.Error
	if !errors.As(err, &de) {
		t.Fatalf("error type = %T", err)
	}
	if de.Offset < 0 {
		t.Fatalf("offset = %d; want position of the stray token", de.Offset)
	}
}

func TestParseDuplicateKeys(t *testing.T) {
	// Last value wins; the key keeps its first position.
	r := parseOne(t, `[{"a":1,"b":2,"a":3}]`)
	if got := r.Get("a"); got != rows.Int(3) {
		t.Fatalf("a = %v; want 3", got)
	}
	if names := r.Names(); names[0] != "a" || len(names) != 2 {
		t.Fatalf("names = %v", names)
	}
}

func TestParseReader(t *testing.T) {
	out, err := NewParser().ParseReader(strings.NewReader(`[{"a":1},{"a":2}]`))
	if err != nil {
		t.Fatalf("ParseReader failed: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("rows = %d; want 2", len(out))
	}
	if _, err := NewParser().ParseReader(nil); err == nil {
		t.Fatalf("nil reader did not fail")
	}
}

func TestParseWhitespaceTolerance(t *testing.T) {
	r := parseOne(t, "\n\t [ { \"a\" :\t1 , \"b\" : \"x\" } ] \n")
	if r.Get("a") != rows.Int(1) || r.Get("b") != rows.Text("x") {
		t.Fatalf("row = %v", r)
	}
}
