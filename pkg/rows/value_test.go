package rows

import "testing"

func TestValueZeroIsNull(t *testing.T) {
	var v Value
	if !v.IsNull() || v.Kind() != KindNull {
		t.Fatalf("zero Value is not Null: kind=%v", v.Kind())
	}
}

func TestValueString(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Null(), ""},
		{Bool(true), "true"},
		{Bool(false), "false"},
		{Int(-42), "-42"},
		{Float(2.5), "2.5"},
		{Text("abc"), "abc"},
		{List("[1, 2]"), "[1, 2]"},
	}
	for _, tc := range cases {
		if got := tc.v.String(); got != tc.want {
			t.Fatalf("String(%v) = %q; want %q", tc.v.Kind(), got, tc.want)
		}
	}
}

func TestListOf(t *testing.T) {
	v := ListOf(Int(1), Text("two"), Null(), Bool(true))
	if v.Kind() != KindList {
		t.Fatalf("ListOf kind = %v; want list", v.Kind())
	}
	if got, want := v.String(), "[1, two, , true]"; got != want {
		t.Fatalf("ListOf rendering = %q; want %q", got, want)
	}
}

func TestAnyRoundTrip(t *testing.T) {
	cases := []Value{Null(), Bool(true), Int(7), Float(1.5), Text("s")}
	for _, v := range cases {
		if got := FromAny(v.Any()); got != v {
			t.Fatalf("FromAny(Any(%v)) = %v; want identity", v, got)
		}
	}
}

func TestFromAnyWidths(t *testing.T) {
	if got := FromAny(int32(5)); got != Int(5) {
		t.Fatalf("FromAny(int32) = %v", got)
	}
	if got := FromAny(float32(2)); got.Kind() != KindFloat {
		t.Fatalf("FromAny(float32) kind = %v", got.Kind())
	}
	if got := FromAny(nil); !got.IsNull() {
		t.Fatalf("FromAny(nil) = %v", got)
	}
}
