package runtime

import (
	"fmt"

	"rhai/interpreter-go/pkg/token"
)

// NativeFn is the uniform invocation signature every registered native
// function is erased to. Arguments arrive as mutable slots so adapters
// can move values out or mutate the receiver in place; pos is the call
// site, used to stamp errors.
type NativeFn func(args []*Dynamic, pos token.Position) (Dynamic, error)

// NativeFunction is a registered native callable. Instances are
// immutable after registration and shared by pointer between modules,
// so copying a module never re-wraps its functions. Method marks
// functions that mutate their first parameter; dispatch passes those
// the live receiver slot and everything else a detached copy.
type NativeFunction struct {
	Name       string
	ParamTypes []string
	Fn         NativeFn
	Method     bool
}

// Arity returns the declared parameter count.
func (f *NativeFunction) Arity() int {
	return len(f.ParamTypes)
}

// DisplayName renders the function as name (t1, t2, ...) for
// diagnostics.
func (f *NativeFunction) DisplayName() string {
	return FnDisplayName(f.Name, f.ParamTypes)
}

// Call invokes the adapted function.
func (f *NativeFunction) Call(args []*Dynamic, pos token.Position) (Dynamic, error) {
	return f.Fn(args, pos)
}

// FnDisplayName renders a function signature for diagnostics.
func FnDisplayName(name string, paramTypes []string) string {
	out := name + " ("
	for i, t := range paramTypes {
		if i > 0 {
			out += ", "
		}
		out += t
	}
	return out + ")"
}

// takeArg moves the argument out of its slot and downcasts it. A
// Dynamic parameter receives the value whole. The dispatcher
// guarantees the types line up by selecting the hash for the actual
// argument types, so a mismatch is a programming error and panics
// rather than returning a recoverable error.
func takeArg[T any](fnName string, idx int, args []*Dynamic) T {
	v := args[idx].Take()
	if t, ok := any(v).(T); ok {
		return t
	}
	t, ok := v.v.(T)
	if !ok {
		panic(fmt.Sprintf("native function %q: argument %d is %s, want %s",
			fnName, idx, v.TypeName(), TypeOf[T]()))
	}
	return t
}

// refArg downcasts the argument without moving it out, for receivers
// that are mutated in place.
func refArg[T any](fnName string, idx int, args []*Dynamic) T {
	if t, ok := any(*args[idx]).(T); ok {
		return t
	}
	t, ok := args[idx].v.(T)
	if !ok {
		panic(fmt.Sprintf("native function %q: argument %d is %s, want %s",
			fnName, idx, args[idx].TypeName(), TypeOf[T]()))
	}
	return t
}

// SetFn0 registers a niladic native function and returns its overload
// hash. The registration helpers are free functions because Go methods
// cannot take type parameters.
func SetFn0[R any](m *Module, name string, f func() (R, error)) uint64 {
	return m.SetFnRaw(name, nil, func(args []*Dynamic, pos token.Position) (Dynamic, error) {
		r, err := f()
		if err != nil {
			return Unit(), Stamp(err, pos)
		}
		return NewDynamic(r), nil
	})
}

// SetFn1 registers a one-parameter native function.
func SetFn1[A, R any](m *Module, name string, f func(A) (R, error)) uint64 {
	params := []string{TypeOf[A]()}
	return m.SetFnRaw(name, params, func(args []*Dynamic, pos token.Position) (Dynamic, error) {
		a := takeArg[A](name, 0, args)
		r, err := f(a)
		if err != nil {
			return Unit(), Stamp(err, pos)
		}
		return NewDynamic(r), nil
	})
}

// SetFn1M registers a one-parameter native whose argument is mutated
// in place. The updated value is written back to the argument slot, so
// the caller observes the mutation.
func SetFn1M[A, R any](m *Module, name string, f func(*A) (R, error)) uint64 {
	params := []string{TypeOf[A]()}
	return m.SetFnRawMethod(name, params, func(args []*Dynamic, pos token.Position) (Dynamic, error) {
		a := refArg[A](name, 0, args)
		r, err := f(&a)
		*args[0] = NewDynamic(a)
		if err != nil {
			return Unit(), Stamp(err, pos)
		}
		return NewDynamic(r), nil
	})
}

// SetFn2 registers a two-parameter native function.
func SetFn2[A, B, R any](m *Module, name string, f func(A, B) (R, error)) uint64 {
	params := []string{TypeOf[A](), TypeOf[B]()}
	return m.SetFnRaw(name, params, func(args []*Dynamic, pos token.Position) (Dynamic, error) {
		a := takeArg[A](name, 0, args)
		b := takeArg[B](name, 1, args)
		r, err := f(a, b)
		if err != nil {
			return Unit(), Stamp(err, pos)
		}
		return NewDynamic(r), nil
	})
}

// SetFn2M registers a two-parameter native mutating its first
// argument. The second argument is moved out before the receiver is
// touched.
func SetFn2M[A, B, R any](m *Module, name string, f func(*A, B) (R, error)) uint64 {
	params := []string{TypeOf[A](), TypeOf[B]()}
	return m.SetFnRawMethod(name, params, func(args []*Dynamic, pos token.Position) (Dynamic, error) {
		b := takeArg[B](name, 1, args)
		a := refArg[A](name, 0, args)
		r, err := f(&a, b)
		*args[0] = NewDynamic(a)
		if err != nil {
			return Unit(), Stamp(err, pos)
		}
		return NewDynamic(r), nil
	})
}

// SetFn3 registers a three-parameter native function.
func SetFn3[A, B, C, R any](m *Module, name string, f func(A, B, C) (R, error)) uint64 {
	params := []string{TypeOf[A](), TypeOf[B](), TypeOf[C]()}
	return m.SetFnRaw(name, params, func(args []*Dynamic, pos token.Position) (Dynamic, error) {
		a := takeArg[A](name, 0, args)
		b := takeArg[B](name, 1, args)
		c := takeArg[C](name, 2, args)
		r, err := f(a, b, c)
		if err != nil {
			return Unit(), Stamp(err, pos)
		}
		return NewDynamic(r), nil
	})
}

// SetFn3M registers a three-parameter native mutating its first
// argument.
func SetFn3M[A, B, C, R any](m *Module, name string, f func(*A, B, C) (R, error)) uint64 {
	params := []string{TypeOf[A](), TypeOf[B](), TypeOf[C]()}
	return m.SetFnRawMethod(name, params, func(args []*Dynamic, pos token.Position) (Dynamic, error) {
		b := takeArg[B](name, 1, args)
		c := takeArg[C](name, 2, args)
		a := refArg[A](name, 0, args)
		r, err := f(&a, b, c)
		*args[0] = NewDynamic(a)
		if err != nil {
			return Unit(), Stamp(err, pos)
		}
		return NewDynamic(r), nil
	})
}
