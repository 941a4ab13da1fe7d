package interpreter

import (
	"errors"

	"rhai/interpreter-go/pkg/ast"
	"rhai/interpreter-go/pkg/runtime"
	"rhai/interpreter-go/pkg/token"
)

func (i *Interp) evaluateCall(call *ast.CallExpr, f *frame) (runtime.Dynamic, error) {
	if qual, ok := call.Target.(*ast.QualifiedRef); ok {
		return i.evaluateQualifiedCall(call, qual, f)
	}
	target := call.Target.(*ast.Ident)

	vals, types, err := i.evalArgs(call.Args, f)
	if err != nil {
		return runtime.Unit(), err
	}

	// Script functions shadow natives of the same name.
	if def, ok := f.lib.Get(target.Name, len(vals)); ok {
		return i.callScriptFn(def, vals, f.lib)
	}
	fn, ok := i.findNative(i.builtins, target.Name, types)
	if !ok {
		return runtime.Unit(), &runtime.FnNotFoundError{
			Name: runtime.FnDisplayName(target.Name, types),
			Pos:  call.Pos,
		}
	}
	return i.callNative(fn, call.Args, vals, f, call.Pos)
}

func (i *Interp) evaluateQualifiedCall(call *ast.CallExpr, target *ast.QualifiedRef, f *frame) (runtime.Dynamic, error) {
	root, err := i.moduleFor(f, target.Path)
	if err != nil {
		return runtime.Unit(), err
	}
	vals, types, err := i.evalArgs(call.Args, f)
	if err != nil {
		return runtime.Unit(), err
	}

	// Script functions first. A found definition runs against its home
	// module's library so it can call its own siblings.
	def, ok, err := root.GetQualifiedFnLib(target.Name, len(vals), target.Path)
	if err != nil {
		return runtime.Unit(), err
	}
	if ok {
		home, err := root.GetQualifiedModule(target.Path)
		if err != nil {
			return runtime.Unit(), err
		}
		return i.callScriptFn(def, vals, home.FnLib())
	}

	var fn *runtime.NativeFunction
	var lookupErr error
	for _, probe := range typeProbes(types) {
		found, err := root.GetQualifiedFn(target.Name, i.hasher.FnHash(target.Name, probe), target.Path, target.Pos)
		if err == nil {
			fn = found
			break
		}
		var notFound *runtime.FnNotFoundError
		if !errors.As(err, &notFound) {
			return runtime.Unit(), err
		}
		if lookupErr == nil {
			lookupErr = err
		}
	}
	if fn == nil {
		return runtime.Unit(), lookupErr
	}
	return i.callNative(fn, call.Args, vals, f, call.Pos)
}

func (i *Interp) evaluateMethodCall(call *ast.MethodCallExpr, f *frame) (runtime.Dynamic, error) {
	recv, err := i.evaluateExpression(call.Recv, f)
	if err != nil {
		return runtime.Unit(), err
	}
	argVals, argTypes, err := i.evalArgs(call.Args, f)
	if err != nil {
		return runtime.Unit(), err
	}

	types := append([]string{recv.TypeName()}, argTypes...)
	fn, ok := i.findNative(i.builtins, call.Name, types)
	if !ok {
		return runtime.Unit(), &runtime.FnNotFoundError{
			Name: runtime.FnDisplayName(call.Name, types),
			Pos:  call.Pos,
		}
	}

	slots := make([]*runtime.Dynamic, 0, len(argVals)+1)
	slots = append(slots, &recv)
	for k := range argVals {
		slots = append(slots, &argVals[k])
	}
	if fn.Method {
		live, err := i.liveSlot(call.Recv, f)
		if err != nil {
			return runtime.Unit(), err
		}
		if live != nil {
			slots[0] = live
		}
	}
	return fn.Call(slots, call.Pos)
}

// callNative builds the argument slots and invokes fn. When fn mutates
// its first parameter and the first argument names a variable, the
// live slot is passed so the mutation lands where the caller can see
// it.
func (i *Interp) callNative(fn *runtime.NativeFunction, argExprs []ast.Expr, vals []runtime.Dynamic, f *frame, pos token.Position) (runtime.Dynamic, error) {
	slots := make([]*runtime.Dynamic, len(vals))
	for k := range vals {
		slots[k] = &vals[k]
	}
	if fn.Method && len(argExprs) > 0 {
		live, err := i.liveSlot(argExprs[0], f)
		if err != nil {
			return runtime.Unit(), err
		}
		if live != nil {
			slots[0] = live
		}
	}
	return fn.Call(slots, pos)
}

// callScriptFn runs a script function in a fresh scope holding only
// its parameters. The body's value is that of its last statement
// unless a return unwinds first.
func (i *Interp) callScriptFn(def *ast.FnDef, args []runtime.Dynamic, lib runtime.FunctionsLib) (runtime.Dynamic, error) {
	scope := runtime.NewScope()
	for k, name := range def.Params {
		scope.Push(name, args[k])
	}
	inner := &frame{scope: scope, lib: lib}
	last := runtime.Unit()
	for _, stmt := range def.Body {
		v, err := i.evaluateStatement(stmt, inner)
		if err != nil {
			if ret, ok := err.(returnSignal); ok {
				return ret.value, nil
			}
			return runtime.Unit(), err
		}
		last = v
	}
	return last, nil
}

func (i *Interp) evalArgs(args []ast.Expr, f *frame) ([]runtime.Dynamic, []string, error) {
	vals := make([]runtime.Dynamic, len(args))
	types := make([]string, len(args))
	for k, arg := range args {
		v, err := i.evaluateExpression(arg, f)
		if err != nil {
			return nil, nil, err
		}
		vals[k] = v
		types[k] = v.TypeName()
	}
	return vals, types, nil
}

// findNative probes a module's hash table for an overload matching the
// argument types, exact first, then widened combinations.
func (i *Interp) findNative(m *runtime.Module, name string, types []string) (*runtime.NativeFunction, bool) {
	for _, probe := range typeProbes(types) {
		if fn, ok := m.GetFn(i.hasher.FnHash(name, probe)); ok {
			return fn, true
		}
	}
	return nil, false
}

// typeProbes returns the parameter-type lists to try when dispatching
// on argument types: the exact types, then every combination with
// positions widened to the dynamic wildcard. Exact overloads therefore
// always win over wildcard ones.
func typeProbes(types []string) [][]string {
	probes := [][]string{types}
	for mask := 1; mask < 1<<len(types); mask++ {
		widened := make([]string, len(types))
		for b := range types {
			if mask>>b&1 == 1 {
				widened[b] = runtime.DynamicTypeName
			} else {
				widened[b] = types[b]
			}
		}
		probes = append(probes, widened)
	}
	return probes
}

// liveSlot returns the mutable slot behind an expression that names a
// variable or a module variable, or nil when the expression is only a
// temporary. Mutating a constant is rejected here.
func (i *Interp) liveSlot(expr ast.Expr, f *frame) (*runtime.Dynamic, error) {
	switch t := expr.(type) {
	case *ast.Ident:
		ref, kind, ok := f.scope.GetRef(t.Name)
		if !ok {
			return nil, &runtime.VarNotFoundError{Name: t.Name, Pos: t.Pos}
		}
		switch kind {
		case runtime.Constant:
			return nil, &runtime.AssignToConstantError{Name: t.Name, Pos: t.Pos}
		case runtime.ModuleEntry:
			return nil, nil
		}
		return ref, nil
	case *ast.QualifiedRef:
		root, err := i.moduleFor(f, t.Path)
		if err != nil {
			return nil, nil
		}
		ref, err := root.GetQualifiedVar(t.Name, t.Path, t.Pos)
		if err != nil {
			return nil, nil
		}
		return ref, nil
	default:
		return nil, nil
	}
}
