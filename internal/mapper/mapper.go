// Package mapper converts between rows and plain Go structs using
// reflection. Exported fields map by their `row` tag, or by the field name
// when untagged; fields tagged `row:"-"` and unexported fields are skipped.
package mapper

import (
	"reflect"

	"datamorph/pkg/dataerr"
	"datamorph/pkg/rows"
)

// ToRow converts a struct (or pointer to struct) into a Row. Fields appear in
// declaration order.
func ToRow(v any) (*rows.Row, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, dataerr.Mapping("cannot map nil pointer to row")
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, dataerr.Mapping("cannot map %s to row, need a struct", rv.Kind())
	}
	row := rows.New()
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		name, ok := fieldName(f)
		if !ok {
			continue
		}
		val, err := fieldValue(rv.Field(i))
		if err != nil {
			return nil, dataerr.Mapping("field %q: %s", f.Name, err)
		}
		row.Set(name, val)
	}
	return row, nil
}

// ToRows converts a slice of structs into rows, preserving element order.
func ToRows[T any](items []T) ([]*rows.Row, error) {
	out := make([]*rows.Row, 0, len(items))
	for i := range items {
		row, err := ToRow(items[i])
		if err != nil {
			return nil, dataerr.Mapping("element %d: %s", i, err)
		}
		out = append(out, row)
	}
	return out, nil
}

// FromRow populates the struct pointed to by dest from row. Row fields with
// no matching struct field are ignored; struct fields with no matching row
// field keep their zero value. Values coerce through the Row accessors, so a
// text "30" fills an int field.
func FromRow(row *rows.Row, dest any) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return dataerr.Mapping("destination must be a non-nil pointer to struct")
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return dataerr.Mapping("destination must point to a struct, got %s", rv.Kind())
	}
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		name, ok := fieldName(f)
		if !ok || !row.Has(name) {
			continue
		}
		if err := setField(row, name, rv.Field(i)); err != nil {
			return err
		}
	}
	return nil
}

// FromRows converts a row sequence into a slice of T.
func FromRows[T any](rs []*rows.Row) ([]T, error) {
	out := make([]T, 0, len(rs))
	for i, r := range rs {
		var item T
		if err := FromRow(r, &item); err != nil {
			return nil, dataerr.Mapping("row %d: %s", i, err)
		}
		out = append(out, item)
	}
	return out, nil
}

func fieldName(f reflect.StructField) (string, bool) {
	if f.PkgPath != "" {
		return "", false
	}
	tag := f.Tag.Get("row")
	if tag == "-" {
		return "", false
	}
	if tag != "" {
		return tag, true
	}
	return f.Name, true
}

func fieldValue(fv reflect.Value) (rows.Value, error) {
	switch fv.Kind() {
	case reflect.Bool:
		return rows.Bool(fv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rows.Int(fv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rows.Int(int64(fv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return rows.Float(fv.Float()), nil
	case reflect.String:
		return rows.Text(fv.String()), nil
	case reflect.Pointer:
		if fv.IsNil() {
			return rows.Null(), nil
		}
		return fieldValue(fv.Elem())
	}
	return rows.Null(), dataerr.Mapping("unsupported type %s", fv.Type())
}

func setField(row *rows.Row, name string, fv reflect.Value) error {
	switch fv.Kind() {
	case reflect.Bool:
		b, err := row.Bool(name)
		if err != nil {
			return err
		}
		fv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := row.Int(name)
		if err != nil {
			return err
		}
		fv.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		i, err := row.Int(name)
		if err != nil {
			return err
		}
		if i < 0 {
			return dataerr.Mapping("field %q: negative value %d for unsigned type", name, i)
		}
		fv.SetUint(uint64(i))
	case reflect.Float32, reflect.Float64:
		f, err := row.Float(name)
		if err != nil {
			return err
		}
		fv.SetFloat(f)
	case reflect.String:
		s, err := row.Text(name)
		if err != nil {
			return err
		}
		fv.SetString(s)
	case reflect.Pointer:
		if row.Get(name).IsNull() {
			fv.SetZero()
			return nil
		}
		if fv.IsNil() {
			fv.Set(reflect.New(fv.Type().Elem()))
		}
		return setField(row, name, fv.Elem())
	default:
		return dataerr.Mapping("field %q: unsupported type %s", name, fv.Type())
	}
	return nil
}
