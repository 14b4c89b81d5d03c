// Package typedesc holds the static type descriptions the codec dispatches
// on for described aggregate types: an ordered list of named member
// accessors, plus an optional ordered list of base records whose fields
// logically precede the type's own fields in encoding order.
//
// A description is registered once, at init time, and is fixed for the
// life of the process — it is the single source of truth for a type's
// field order, the Go analogue of the source's compile-time
// TypeDescriptorGen<T> specialization. Binding a member by a closure
// captured over its field index (rather than by a runtime name lookup)
// keeps traversal order-preserving and compatible with unexported fields,
// the same guarantee spec section 4.1 asks for.
package typedesc

import (
	"fmt"
	"reflect"
	"sync"
	"unsafe"
)

// Accessor returns the reflect.Value of one field of v, where v is the
// addressable struct value of the described type (or one of its bases).
type Accessor func(v reflect.Value) reflect.Value

// Member is one (name, accessor) pair for a described type's own field.
type Member struct {
	Name   string
	Access Accessor
}

// Base is one (name, accessor) pair for a base record: an embedded or
// logically-preceding described type whose own members are walked before
// the child's own Members.
type Base struct {
	Name   string
	Access Accessor
}

// Descriptor is the compiled, ordered field list for one described type.
type Descriptor struct {
	typ     reflect.Type
	bases   []Base
	members []Member
}

var (
	registryMu sync.RWMutex
	registry   = map[reflect.Type]*Descriptor{}
)

// Register installs the description for T. It panics if called more than
// once for the same type (a programming error, not a runtime condition) or
// if T is not a struct.
func Register[T any](bases []Base, members []Member) *Descriptor {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil || t.Kind() != reflect.Struct {
		panic(fmt.Sprintf("typedesc: Register[%T]: not a struct type", zero))
	}

	d := &Descriptor{typ: t, bases: bases, members: members}

	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[t]; exists {
		panic(fmt.Sprintf("typedesc: %s already registered", t))
	}
	registry[t] = d
	return d
}

// Lookup returns the descriptor registered for t, if any.
func Lookup(t reflect.Type) (*Descriptor, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	d, ok := registry[t]
	return d, ok
}

// Described reports whether t has a registered descriptor. This is the
// generic codec's compile-time-reflection predicate: it dispatches the
// aggregate shape rule only for types that answer true here.
func Described(t reflect.Type) bool {
	_, ok := Lookup(t)
	return ok
}

// Names returns the field names in encoding order: base record names
// first (each base contributes its own single name, not its members'
// names — callers wanting a flattened field list should walk bases
// recursively), then this type's own member names.
func (d *Descriptor) Names() []string {
	names := make([]string, 0, len(d.bases)+len(d.members))
	for _, b := range d.bases {
		names = append(names, b.Name)
	}
	for _, m := range d.members {
		names = append(names, m.Name)
	}
	return names
}

// Len returns the number of top-level entries (bases + members).
func (d *Descriptor) Len() int {
	return len(d.bases) + len(d.members)
}

// Apply invokes f with the reflect.Value of each base record, then each
// member, of v, in declared order. It stops and returns false as soon as f
// does, matching the shape codec's fail-fast propagation policy.
func (d *Descriptor) Apply(v reflect.Value, f func(reflect.Value) bool) bool {
	for _, b := range d.bases {
		if !f(b.Access(v)) {
			return false
		}
	}
	for _, m := range d.members {
		if !f(m.Access(v)) {
			return false
		}
	}
	return true
}

// NamedEntry pairs a field's declared name with its accessed value.
type NamedEntry struct {
	Name  string
	Value reflect.Value
}

// ApplyNamed is Apply, but f additionally receives the declared name of
// each base/member.
func (d *Descriptor) ApplyNamed(v reflect.Value, f func(NamedEntry) bool) bool {
	for _, b := range d.bases {
		if !f(NamedEntry{Name: b.Name, Value: b.Access(v)}) {
			return false
		}
	}
	for _, m := range d.members {
		if !f(NamedEntry{Name: m.Name, Value: m.Access(v)}) {
			return false
		}
	}
	return true
}

// FieldByIndex is a convenience Accessor constructor for the common case
// of a direct struct field at a fixed index, captured once at
// registration time so no string lookup happens per encode/decode call.
func FieldByIndex(idx int) Accessor {
	return func(v reflect.Value) reflect.Value {
		f := v.Field(idx)
		if f.CanAddr() && !f.CanInterface() {
			// An unexported field (or one reached through an unexported
			// embedded field) is read-only to reflect; rebind it through its
			// address so the codec can inspect and set it like any other.
			f = reflect.NewAt(f.Type(), unsafe.Pointer(f.UnsafeAddr())).Elem()
		}
		return f
	}
}
