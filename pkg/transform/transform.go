// Package transform provides an ordered, immutable sequence of field
// operations applied to rows.
//
// A Transform is assembled once through a Builder and can then be reused
// across any number of pipelines; applying it never mutates the input row.
//
//	t := transform.NewBuilder().
//		Rename("emp_name", "name").
//		Add("bonus", rows.Int(1000)).
//		Remove("ssn").
//		Build()
package transform

import (
	"fmt"

	"datamorph/pkg/rows"
)

// Predicate decides whether a conditional operation fires. It receives a
// copy, so mutating the row inside a predicate has no effect downstream.
type Predicate func(*rows.Row) bool

// Action produces the transformed row for a conditional operation.
type Action func(*rows.Row) *rows.Row

// Operation is a single row transformation. Apply must return a new row and
// leave its input untouched.
type Operation interface {
	Apply(*rows.Row) *rows.Row
	Description() string
}

// Transform is an immutable, ordered operation chain.
type Transform struct {
	ops []Operation
}

// Apply folds row through every operation in registration order, each
// operation producing the input of the next. The input row is not modified.
func (t *Transform) Apply(row *rows.Row) *rows.Row {
	result := row
	for _, op := range t.ops {
		result = op.Apply(result)
	}
	if result == row {
		// No operations registered; still honor the new-instance contract.
		return row.Copy()
	}
	return result
}

// Descriptions returns the human-readable description of every operation in
// registration order, for introspection and logging.
func (t *Transform) Descriptions() []string {
	out := make([]string, len(t.ops))
	for i, op := range t.ops {
		out[i] = op.Description()
	}
	return out
}

// Len returns the number of operations.
func (t *Transform) Len() int { return len(t.ops) }

// Builder accumulates operations for a Transform.
type Builder struct {
	ops []Operation
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder { return &Builder{} }

// Rename moves the value of oldName to newName. When oldName is absent the
// operation is a no-op.
func (b *Builder) Rename(oldName, newName string) *Builder {
	b.ops = append(b.ops, renameOp{oldName, newName})
	return b
}

// Add sets field to value, overwriting any prior value.
func (b *Builder) Add(field string, value rows.Value) *Builder {
	b.ops = append(b.ops, addOp{field, value})
	return b
}

// Remove deletes field. When field is absent the operation is a no-op.
func (b *Builder) Remove(field string) *Builder {
	b.ops = append(b.ops, removeOp{field})
	return b
}

// When applies action only to rows for which condition holds. The condition
// is evaluated against a copy of the row.
func (b *Builder) When(condition Predicate, action Action) *Builder {
	return b.WhenDescribed(condition, action, "Conditional Transform")
}

// WhenDescribed is When with an explicit description for introspection.
func (b *Builder) WhenDescribed(condition Predicate, action Action, description string) *Builder {
	b.ops = append(b.ops, conditionalOp{condition, action, description})
	return b
}

// Custom appends a caller-provided operation.
func (b *Builder) Custom(op Operation) *Builder {
	if op == nil {
		panic("transform: nil custom operation")
	}
	b.ops = append(b.ops, op)
	return b
}

// Build returns the immutable Transform. The builder may be discarded or
// continue to grow without affecting already-built transforms.
func (b *Builder) Build() *Transform {
	ops := make([]Operation, len(b.ops))
	copy(ops, b.ops)
	return &Transform{ops: ops}
}

type renameOp struct {
	oldName string
	newName string
}

func (o renameOp) Apply(row *rows.Row) *rows.Row {
	out := row.Copy()
	if out.Has(o.oldName) {
		v := out.Get(o.oldName)
		out.Set(o.newName, v)
		out.Remove(o.oldName)
	}
	return out
}

func (o renameOp) Description() string {
	return fmt.Sprintf("Rename field '%s' to '%s'", o.oldName, o.newName)
}

type addOp struct {
	field string
	value rows.Value
}

func (o addOp) Apply(row *rows.Row) *rows.Row {
	out := row.Copy()
	out.Set(o.field, o.value)
	return out
}

func (o addOp) Description() string {
	return fmt.Sprintf("Add field '%s' with value '%s'", o.field, o.value)
}

type removeOp struct {
	field string
}

func (o removeOp) Apply(row *rows.Row) *rows.Row {
	out := row.Copy()
	out.Remove(o.field)
	return out
}

func (o removeOp) Description() string {
	return fmt.Sprintf("Remove field '%s'", o.field)
}

type conditionalOp struct {
	condition   Predicate
	action      Action
	description string
}

func (o conditionalOp) Apply(row *rows.Row) *rows.Row {
	out := row.Copy()
	if o.condition(out) {
		return o.action(out)
	}
	return out
}

func (o conditionalOp) Description() string { return o.description }
