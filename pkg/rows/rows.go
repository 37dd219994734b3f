// Package rows defines the row model shared by the parsers, transforms, and
// pipeline: an ordered field-name→Value container with value-copy semantics.
//
// Field order is insertion order and is preserved through Copy and through
// every transform, so serialized output is deterministic. Because Value is a
// closed tagged union of primitives, Copy never needs to traverse arbitrary
// object graphs.
package rows

import (
	"strconv"
	"strings"

	"datamorph/pkg/dataerr"
)

// Row is a single parsed record. The zero value is not usable; construct with
// New. Rows are not safe for concurrent mutation.
type Row struct {
	names  []string
	values map[string]Value
}

// New returns an empty Row.
func New() *Row {
	return &Row{values: make(map[string]Value)}
}

// Set stores v under name, overwriting any prior value. A new name is
// appended to the field order; an existing name keeps its position.
// Set panics on an empty field name, which is always a programming error.
func (r *Row) Set(name string, v Value) {
	if strings.TrimSpace(name) == "" {
		panic("rows: empty field name")
	}
	if _, ok := r.values[name]; !ok {
		r.names = append(r.names, name)
	}
	r.values[name] = v
}

// Remove deletes name from the row. Removing an absent name is a no-op.
func (r *Row) Remove(name string) {
	if _, ok := r.values[name]; !ok {
		return
	}
	delete(r.values, name)
	for i, n := range r.names {
		if n == name {
			r.names = append(r.names[:i], r.names[i+1:]...)
			break
		}
	}
}

// Has reports whether name is present, including present with a Null value.
func (r *Row) Has(name string) bool {
	_, ok := r.values[name]
	return ok
}

// Get returns the value stored under name, or the Null Value when absent.
// Use Has to distinguish "absent" from "present with Null".
func (r *Row) Get(name string) Value {
	return r.values[name]
}

// Lookup returns the value under name and whether it is present.
func (r *Row) Lookup(name string) (Value, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Names returns the field names in insertion order. The slice is a copy.
func (r *Row) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of fields.
func (r *Row) Len() int { return len(r.names) }

// Copy returns an independent Row with value-equal contents. Mutating the
// copy never affects the original.
func (r *Row) Copy() *Row {
	c := &Row{
		names:  make([]string, len(r.names)),
		values: make(map[string]Value, len(r.values)),
	}
	copy(c.names, r.names)
	for k, v := range r.values {
		c.values[k] = v
	}
	return c
}

// Equal reports value equality including field order.
func (r *Row) Equal(o *Row) bool {
	if r == nil || o == nil {
		return r == o
	}
	if len(r.names) != len(o.names) {
		return false
	}
	for i, n := range r.names {
		if o.names[i] != n {
			return false
		}
		if r.values[n] != o.values[n] {
			return false
		}
	}
	return true
}

// Text returns the field rendered as text. An absent field or a Null value
// yields "" with no error.
func (r *Row) Text(name string) (string, error) {
	v, ok := r.values[name]
	if !ok || v.IsNull() {
		return "", nil
	}
	return v.String(), nil
}

// Int returns the field coerced to an integer. Absent or Null yields 0 with
// no error; floats truncate; text is parsed after trimming. Anything else is
// a coercion error.
func (r *Row) Int(name string) (int64, error) {
	v, ok := r.values[name]
	if !ok || v.IsNull() {
		return 0, nil
	}
	switch v.Kind() {
	case KindInt:
		return v.IntVal(), nil
	case KindFloat:
		return int64(v.FloatVal()), nil
	case KindText:
		i, err := strconv.ParseInt(strings.TrimSpace(v.TextVal()), 10, 64)
		if err == nil {
			return i, nil
		}
	}
	return 0, dataerr.Coercion("field %q cannot be converted to int: %s", name, v)
}

// Float returns the field coerced to a float. Absent or Null yields 0 with no
// error; ints widen; text is parsed after trimming.
func (r *Row) Float(name string) (float64, error) {
	v, ok := r.values[name]
	if !ok || v.IsNull() {
		return 0, nil
	}
	switch v.Kind() {
	case KindFloat:
		return v.FloatVal(), nil
	case KindInt:
		return float64(v.IntVal()), nil
	case KindText:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.TextVal()), 64)
		if err == nil {
			return f, nil
		}
	}
	return 0, dataerr.Coercion("field %q cannot be converted to float: %s", name, v)
}

// Bool returns the field coerced to a boolean. Absent or Null yields false
// with no error. Text coerces via the fixed token sets true/1/yes/y and
// false/0/no/n, case-insensitive.
func (r *Row) Bool(name string) (bool, error) {
	v, ok := r.values[name]
	if !ok || v.IsNull() {
		return false, nil
	}
	switch v.Kind() {
	case KindBool:
		return v.BoolVal(), nil
	case KindText:
		switch strings.ToLower(strings.TrimSpace(v.TextVal())) {
		case "true", "1", "yes", "y":
			return true, nil
		case "false", "0", "no", "n":
			return false, nil
		}
	}
	return false, dataerr.Coercion("field %q cannot be converted to bool: %s", name, v)
}

// String renders the row for logs and test failures.
func (r *Row) String() string {
	var b strings.Builder
	b.WriteString("Row{")
	for i, n := range r.names {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(n)
		b.WriteString("=")
		b.WriteString(r.values[n].String())
	}
	b.WriteString("}")
	return b.String()
}
