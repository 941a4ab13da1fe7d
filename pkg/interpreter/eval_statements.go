package interpreter

import (
	"fmt"

	"rhai/interpreter-go/pkg/ast"
	"rhai/interpreter-go/pkg/runtime"
)

func (i *Interp) evaluateStatement(stmt ast.Stmt, f *frame) (runtime.Dynamic, error) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		return i.evaluateLet(s, f)
	case *ast.AssignStmt:
		return i.evaluateAssign(s, f)
	case *ast.ImportStmt:
		return i.evaluateImport(s, f)
	case *ast.ExprStmt:
		v, err := i.evaluateExpression(s.Value, f)
		if err != nil {
			return runtime.Unit(), err
		}
		if s.Terminated {
			return runtime.Unit(), nil
		}
		return v, nil
	case *ast.ReturnStmt:
		value := runtime.Unit()
		if s.Value != nil {
			v, err := i.evaluateExpression(s.Value, f)
			if err != nil {
				return runtime.Unit(), err
			}
			value = v
		}
		return runtime.Unit(), returnSignal{value: value}
	case *ast.IfStmt:
		return i.evaluateIf(s, f)
	case *ast.WhileStmt:
		return i.evaluateWhile(s, f)
	case *ast.BreakStmt:
		return runtime.Unit(), breakSignal{}
	default:
		return runtime.Unit(), runtime.Stamp(fmt.Errorf("unsupported statement %T", stmt), stmt.Position())
	}
}

func (i *Interp) evaluateLet(s *ast.LetStmt, f *frame) (runtime.Dynamic, error) {
	value, err := i.evaluateExpression(s.Value, f)
	if err != nil {
		return runtime.Unit(), err
	}
	if s.Const {
		f.scope.PushConstant(s.Name, value)
	} else {
		f.scope.Push(s.Name, value)
	}
	return runtime.Unit(), nil
}

func (i *Interp) evaluateAssign(s *ast.AssignStmt, f *frame) (runtime.Dynamic, error) {
	value, err := i.evaluateExpression(s.Value, f)
	if err != nil {
		return runtime.Unit(), err
	}

	switch target := s.Target.(type) {
	case *ast.Ident:
		ref, kind, ok := f.scope.GetRef(target.Name)
		if !ok {
			return runtime.Unit(), &runtime.VarNotFoundError{Name: target.Name, Pos: target.Pos}
		}
		switch kind {
		case runtime.Constant:
			return runtime.Unit(), &runtime.AssignToConstantError{Name: target.Name, Pos: target.Pos}
		case runtime.ModuleEntry:
			return runtime.Unit(), runtime.Stamp(fmt.Errorf("cannot assign to imported module %s", target.Name), target.Pos)
		}
		*ref = value
		return runtime.Unit(), nil
	case *ast.IndexExpr:
		return i.evaluateIndexAssign(target, value, f)
	case *ast.QualifiedRef:
		root, err := i.moduleFor(f, target.Path)
		if err != nil {
			return runtime.Unit(), err
		}
		ref, err := root.GetQualifiedVar(target.Name, target.Path, target.Pos)
		if err != nil {
			return runtime.Unit(), err
		}
		*ref = value
		return runtime.Unit(), nil
	default:
		return runtime.Unit(), runtime.Stamp(fmt.Errorf("invalid assignment target"), s.Pos)
	}
}

func (i *Interp) evaluateIndexAssign(target *ast.IndexExpr, value runtime.Dynamic, f *frame) (runtime.Dynamic, error) {
	slot, err := i.liveSlot(target.Recv, f)
	if err != nil {
		return runtime.Unit(), err
	}
	if slot == nil {
		return runtime.Unit(), runtime.Stamp(fmt.Errorf("index assignment target must be a variable"), target.Pos)
	}
	idx, err := i.indexValue(target.Index, f)
	if err != nil {
		return runtime.Unit(), err
	}
	arr, ok := runtime.Cast[[]runtime.Dynamic](*slot)
	if !ok {
		return runtime.Unit(), runtime.Stamp(fmt.Errorf("cannot index %s", slot.TypeName()), target.Pos)
	}
	if idx < 0 || idx >= int64(len(arr)) {
		return runtime.Unit(), runtime.Stamp(fmt.Errorf("array index %d out of bounds, length is %d", idx, len(arr)), target.Pos)
	}
	arr[idx] = value
	return runtime.Unit(), nil
}

func (i *Interp) evaluateIf(s *ast.IfStmt, f *frame) (runtime.Dynamic, error) {
	cond, err := i.conditionValue(s.Condition, "if", f)
	if err != nil {
		return runtime.Unit(), err
	}
	if cond {
		return i.evaluateBlock(s.Then, f)
	}
	if s.Else != nil {
		return i.evaluateBlock(s.Else, f)
	}
	return runtime.Unit(), nil
}

func (i *Interp) evaluateWhile(s *ast.WhileStmt, f *frame) (runtime.Dynamic, error) {
	for {
		cond, err := i.conditionValue(s.Condition, "while", f)
		if err != nil {
			return runtime.Unit(), err
		}
		if !cond {
			return runtime.Unit(), nil
		}
		if _, err := i.evaluateBlock(s.Body, f); err != nil {
			if _, ok := err.(breakSignal); ok {
				return runtime.Unit(), nil
			}
			return runtime.Unit(), err
		}
	}
}

// evaluateBlock runs statements against the current frame, rewinding
// the scope afterwards so block-local bindings do not leak. The value
// of the block is the value of its last statement.
func (i *Interp) evaluateBlock(stmts []ast.Stmt, f *frame) (runtime.Dynamic, error) {
	mark := f.scope.Len()
	last := runtime.Unit()
	for _, stmt := range stmts {
		v, err := i.evaluateStatement(stmt, f)
		if err != nil {
			f.scope.Rewind(mark)
			return runtime.Unit(), err
		}
		last = v
	}
	f.scope.Rewind(mark)
	return last, nil
}

func (i *Interp) conditionValue(expr ast.Expr, keyword string, f *frame) (bool, error) {
	v, err := i.evaluateExpression(expr, f)
	if err != nil {
		return false, err
	}
	b, ok := runtime.Cast[bool](v)
	if !ok {
		return false, runtime.Stamp(fmt.Errorf("%s condition is not a boolean, got %s", keyword, v.TypeName()), expr.Position())
	}
	return b, nil
}
