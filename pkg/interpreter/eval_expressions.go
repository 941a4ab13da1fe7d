package interpreter

import (
	"fmt"

	"rhai/interpreter-go/pkg/ast"
	"rhai/interpreter-go/pkg/runtime"
	"rhai/interpreter-go/pkg/token"
)

func (i *Interp) evaluateExpression(expr ast.Expr, f *frame) (runtime.Dynamic, error) {
	switch e := expr.(type) {
	case *ast.IntLit:
		return runtime.NewInt(e.Value), nil
	case *ast.FloatLit:
		return runtime.NewFloat(e.Value), nil
	case *ast.StringLit:
		return runtime.NewString(e.Value), nil
	case *ast.BoolLit:
		return runtime.NewBool(e.Value), nil
	case *ast.UnitLit:
		return runtime.Unit(), nil
	case *ast.ArrayLit:
		elems := make([]runtime.Dynamic, len(e.Elems))
		for k, el := range e.Elems {
			v, err := i.evaluateExpression(el, f)
			if err != nil {
				return runtime.Unit(), err
			}
			elems[k] = v
		}
		return runtime.NewArray(elems), nil
	case *ast.Ident:
		v, ok := f.scope.Get(e.Name)
		if !ok {
			return runtime.Unit(), &runtime.VarNotFoundError{Name: e.Name, Pos: e.Pos}
		}
		return v, nil
	case *ast.QualifiedRef:
		root, err := i.moduleFor(f, e.Path)
		if err != nil {
			return runtime.Unit(), err
		}
		ref, err := root.GetQualifiedVar(e.Name, e.Path, e.Pos)
		if err != nil {
			return runtime.Unit(), err
		}
		return ref.Clone(), nil
	case *ast.IndexExpr:
		return i.evaluateIndex(e, f)
	case *ast.UnaryExpr:
		return i.evaluateUnary(e, f)
	case *ast.BinaryExpr:
		return i.evaluateBinary(e, f)
	case *ast.CallExpr:
		return i.evaluateCall(e, f)
	case *ast.MethodCallExpr:
		return i.evaluateMethodCall(e, f)
	default:
		return runtime.Unit(), runtime.Stamp(fmt.Errorf("unsupported expression %T", expr), expr.Position())
	}
}

// moduleFor resolves the head segment of a qualified path to the
// module imported under that alias. The head names the module itself;
// the Module qualified accessors traverse the rest of the path.
func (i *Interp) moduleFor(f *frame, path []ast.PathSegment) (*runtime.Module, error) {
	head := path[0]
	ref, kind, ok := f.scope.GetRef(head.Name)
	if !ok || kind != runtime.ModuleEntry {
		return nil, &runtime.ModuleNotFoundError{Name: head.Name, Pos: head.Pos}
	}
	mod, ok := runtime.Cast[*runtime.Module](*ref)
	if !ok {
		return nil, &runtime.ModuleNotFoundError{Name: head.Name, Pos: head.Pos}
	}
	return mod, nil
}

func (i *Interp) evaluateIndex(e *ast.IndexExpr, f *frame) (runtime.Dynamic, error) {
	recv, err := i.evaluateExpression(e.Recv, f)
	if err != nil {
		return runtime.Unit(), err
	}
	idx, err := i.indexValue(e.Index, f)
	if err != nil {
		return runtime.Unit(), err
	}
	arr, ok := runtime.Cast[[]runtime.Dynamic](recv)
	if !ok {
		return runtime.Unit(), runtime.Stamp(fmt.Errorf("cannot index %s", recv.TypeName()), e.Pos)
	}
	if idx < 0 || idx >= int64(len(arr)) {
		return runtime.Unit(), runtime.Stamp(fmt.Errorf("array index %d out of bounds, length is %d", idx, len(arr)), e.Pos)
	}
	return arr[idx], nil
}

func (i *Interp) indexValue(expr ast.Expr, f *frame) (int64, error) {
	v, err := i.evaluateExpression(expr, f)
	if err != nil {
		return 0, err
	}
	idx, ok := runtime.Cast[int64](v)
	if !ok {
		return 0, runtime.Stamp(fmt.Errorf("array index is not an integer, got %s", v.TypeName()), expr.Position())
	}
	return idx, nil
}

func (i *Interp) evaluateUnary(e *ast.UnaryExpr, f *frame) (runtime.Dynamic, error) {
	operand, err := i.evaluateExpression(e.Operand, f)
	if err != nil {
		return runtime.Unit(), err
	}
	types := []string{operand.TypeName()}
	fn, ok := i.findNative(i.builtins, e.Op.Syntax(), types)
	if !ok {
		return runtime.Unit(), &runtime.FnNotFoundError{
			Name: runtime.FnDisplayName(e.Op.Syntax(), types),
			Pos:  e.Pos,
		}
	}
	return fn.Call([]*runtime.Dynamic{&operand}, e.Pos)
}

func (i *Interp) evaluateBinary(e *ast.BinaryExpr, f *frame) (runtime.Dynamic, error) {
	if e.Op == token.AndAnd || e.Op == token.OrOr {
		return i.evaluateShortCircuit(e, f)
	}

	left, err := i.evaluateExpression(e.Left, f)
	if err != nil {
		return runtime.Unit(), err
	}
	right, err := i.evaluateExpression(e.Right, f)
	if err != nil {
		return runtime.Unit(), err
	}
	types := []string{left.TypeName(), right.TypeName()}
	fn, ok := i.findNative(i.builtins, e.Op.Syntax(), types)
	if !ok {
		return runtime.Unit(), &runtime.FnNotFoundError{
			Name: runtime.FnDisplayName(e.Op.Syntax(), types),
			Pos:  e.Pos,
		}
	}
	return fn.Call([]*runtime.Dynamic{&left, &right}, e.Pos)
}

// evaluateShortCircuit handles the two operators that must not go
// through native dispatch: the right operand only runs when the left
// one does not already decide the result.
func (i *Interp) evaluateShortCircuit(e *ast.BinaryExpr, f *frame) (runtime.Dynamic, error) {
	left, err := i.boolOperand(e.Left, e.Op, f)
	if err != nil {
		return runtime.Unit(), err
	}
	if e.Op == token.AndAnd && !left {
		return runtime.NewBool(false), nil
	}
	if e.Op == token.OrOr && left {
		return runtime.NewBool(true), nil
	}
	right, err := i.boolOperand(e.Right, e.Op, f)
	if err != nil {
		return runtime.Unit(), err
	}
	return runtime.NewBool(right), nil
}

func (i *Interp) boolOperand(expr ast.Expr, op token.Kind, f *frame) (bool, error) {
	v, err := i.evaluateExpression(expr, f)
	if err != nil {
		return false, err
	}
	b, ok := runtime.Cast[bool](v)
	if !ok {
		return false, runtime.Stamp(fmt.Errorf("%s needs boolean operands, got %s", op.Syntax(), v.TypeName()), expr.Position())
	}
	return b, nil
}
