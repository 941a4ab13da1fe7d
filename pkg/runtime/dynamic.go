// Package runtime defines the value domain of the interpreter: the
// type-erased Dynamic container, evaluation scopes, script-function
// libraries, and the Module namespace with its native-function
// dispatch tables.
package runtime

import (
	"fmt"
	"reflect"
	"strings"
)

// unit is the empty value. A zero Dynamic holds it.
type unit struct{}

// Dynamic is a type-erased script value. Canonical script types are
// int64, float64, string, bool, []Dynamic, and *Module; arbitrary host
// types may be stored as well and round-trip through Cast.
type Dynamic struct {
	v any
}

// NewDynamic converts a Go value into its dynamic representation.
// Native integer and float widths are widened to the canonical i64/f64
// forms; a Dynamic passes through unchanged; nil becomes unit.
func NewDynamic(v any) Dynamic {
	switch t := v.(type) {
	case nil:
		return Dynamic{v: unit{}}
	case Dynamic:
		return t
	case unit:
		return Dynamic{v: unit{}}
	case int:
		return Dynamic{v: int64(t)}
	case int32:
		return Dynamic{v: int64(t)}
	case int64:
		return Dynamic{v: t}
	case float32:
		return Dynamic{v: float64(t)}
	case float64:
		return Dynamic{v: t}
	default:
		return Dynamic{v: v}
	}
}

// Unit returns the empty value.
func Unit() Dynamic {
	return Dynamic{v: unit{}}
}

// NewInt wraps a canonical script integer.
func NewInt(v int64) Dynamic { return Dynamic{v: v} }

// NewFloat wraps a canonical script float.
func NewFloat(v float64) Dynamic { return Dynamic{v: v} }

// NewString wraps a script string.
func NewString(v string) Dynamic { return Dynamic{v: v} }

// NewBool wraps a script boolean.
func NewBool(v bool) Dynamic { return Dynamic{v: v} }

// NewArray wraps a script array. The slice is stored as-is, not copied.
func NewArray(v []Dynamic) Dynamic { return Dynamic{v: v} }

// NewModuleValue wraps a module so it can live in a scope or variable.
func NewModuleValue(m *Module) Dynamic { return Dynamic{v: m} }

// IsUnit reports whether the value is the empty value.
func (d Dynamic) IsUnit() bool {
	if d.v == nil {
		return true
	}
	_, ok := d.v.(unit)
	return ok
}

// Take moves the value out, leaving unit behind in its place.
func (d *Dynamic) Take() Dynamic {
	out := *d
	d.v = unit{}
	return out
}

// Clone returns a deep copy: arrays copy element-wise and modules are
// cloned recursively. Scalars and unknown host types copy as-is.
func (d Dynamic) Clone() Dynamic {
	switch t := d.v.(type) {
	case []Dynamic:
		out := make([]Dynamic, len(t))
		for i, e := range t {
			out[i] = e.Clone()
		}
		return Dynamic{v: out}
	case *Module:
		return Dynamic{v: t.Clone()}
	default:
		return d
	}
}

// TypeName returns the script-facing name of the value's type, the
// same fingerprint vocabulary used for overload hashing.
func (d Dynamic) TypeName() string {
	switch d.v.(type) {
	case nil, unit:
		return "()"
	case int64:
		return "i64"
	case float64:
		return "f64"
	case string:
		return "string"
	case bool:
		return "bool"
	case []Dynamic:
		return "array"
	case *Module:
		return "module"
	default:
		return reflect.TypeOf(d.v).String()
	}
}

func (d Dynamic) String() string {
	switch t := d.v.(type) {
	case nil, unit:
		return "()"
	case string:
		return t
	case []Dynamic:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *Module:
		return "<module>"
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Cast attempts a checked downcast to a concrete type.
func Cast[T any](d Dynamic) (T, bool) {
	t, ok := d.v.(T)
	return t, ok
}

// MustCast downcasts like Cast but panics on mismatch, for callers
// that have already established the type.
func MustCast[T any](d Dynamic) T {
	t, ok := d.v.(T)
	if !ok {
		panic(fmt.Sprintf("cannot cast %s to %s", d.TypeName(), TypeOf[T]()))
	}
	return t
}

// DynamicTypeName is the wildcard fingerprint of native parameters
// declared as Dynamic. Dispatch widens argument types to it when no
// exact overload matches, so one registration can accept any value.
const DynamicTypeName = "dynamic"

// TypeOf returns the type fingerprint used when registering a native
// parameter of type T.
func TypeOf[T any]() string {
	return typeNameFor(reflect.TypeFor[T]())
}

func typeNameFor(t reflect.Type) string {
	switch t {
	case reflect.TypeFor[int64]():
		return "i64"
	case reflect.TypeFor[float64]():
		return "f64"
	case reflect.TypeFor[string]():
		return "string"
	case reflect.TypeFor[bool]():
		return "bool"
	case reflect.TypeFor[[]Dynamic]():
		return "array"
	case reflect.TypeFor[*Module]():
		return "module"
	case reflect.TypeFor[unit]():
		return "()"
	case reflect.TypeFor[Dynamic]():
		return DynamicTypeName
	}
	return t.String()
}
