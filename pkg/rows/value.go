package rows

import (
	"fmt"
	"strconv"
)

// ValueKind enumerates the closed set of value variants a Row field can hold.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindBool
	KindInt
	KindFloat
	KindText

	// KindList is the stringified-array placeholder: nested arrays are not
	// structurally preserved, only their rendered "[e1, e2]" text form.
	KindList
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindList:
		return "list"
	}
	return "unknown"
}

// Value is a tagged union over {Null, Bool, Int, Float, Text, List}. The zero
// Value is Null. Values are immutable and copied by assignment, which is what
// makes Row.Copy a plain value copy.
type Value struct {
	kind ValueKind
	b    bool
	i    int64
	f    float64
	s    string
}

// Null returns the null Value.
func Null() Value { return Value{} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an integer Value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a floating-point Value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Text returns a text Value.
func Text(s string) Value { return Value{kind: KindText, s: s} }

// List returns a stringified-array Value holding an already-rendered
// "[e1, e2]" form.
func List(rendered string) Value { return Value{kind: KindList, s: rendered} }

// ListOf renders the given elements into a stringified-array Value. The
// rendering is lossy and irreversible.
func ListOf(elems ...Value) Value {
	out := "["
	for i, e := range elems {
		if i > 0 {
			out += ", "
		}
		out += e.text()
	}
	return List(out + "]")
}

// Kind reports the variant held by v.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether v is the null Value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// BoolVal returns the boolean payload; false unless Kind is KindBool.
func (v Value) BoolVal() bool { return v.b }

// IntVal returns the integer payload; 0 unless Kind is KindInt.
func (v Value) IntVal() int64 { return v.i }

// FloatVal returns the float payload; 0 unless Kind is KindFloat.
func (v Value) FloatVal() float64 { return v.f }

// TextVal returns the string payload for KindText and KindList.
func (v Value) TextVal() string { return v.s }

// text renders v for serialization and list joining. Null renders empty.
func (v Value) text() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	default:
		return v.s
	}
}

// String renders v as text. Null renders as the empty string.
func (v Value) String() string { return v.text() }

// Equal reports exact variant and payload equality.
func (v Value) Equal(o Value) bool { return v == o }

// Any unpacks v into a plain Go value: nil, bool, int64, float64, or string.
func (v Value) Any() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	default:
		return v.s
	}
}

// FromAny packs a plain Go value into a Value. Unsupported types render via
// their string form as text.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(t)
	case int:
		return Int(int64(t))
	case int32:
		return Int(int64(t))
	case int64:
		return Int(t)
	case float32:
		return Float(float64(t))
	case float64:
		return Float(t)
	case string:
		return Text(t)
	case Value:
		return t
	default:
		return Text(fmt.Sprintf("%v", t))
	}
}
