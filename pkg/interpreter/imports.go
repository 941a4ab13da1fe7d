package interpreter

import (
	"fmt"

	"rhai/interpreter-go/pkg/ast"
	"rhai/interpreter-go/pkg/runtime"
)

// evaluateImport resolves the module behind an import statement and
// binds it in the current scope under its alias. The active-import
// stack lives on the interpreter rather than the frame because file
// resolution re-enters EvalProgramWithScope for each nested import; a
// path already on the stack means the chain loops back on itself.
func (i *Interp) evaluateImport(stmt *ast.ImportStmt, f *frame) (runtime.Dynamic, error) {
	if i.resolver == nil {
		return runtime.Unit(), runtime.Stamp(
			fmt.Errorf("cannot resolve module %s, no module resolver configured", stmt.Path), stmt.Pos)
	}

	for _, active := range i.importing {
		if active == stmt.Path {
			chain := make([]string, 0, len(i.importing)+1)
			chain = append(chain, i.importing...)
			chain = append(chain, stmt.Path)
			return runtime.Unit(), &runtime.ImportCycleError{Chain: chain, Pos: stmt.Pos}
		}
	}

	i.importing = append(i.importing, stmt.Path)
	mod, err := i.resolver.Resolve(i, stmt.Path, stmt.Pos)
	i.importing = i.importing[:len(i.importing)-1]
	if err != nil {
		return runtime.Unit(), err
	}

	f.scope.PushModule(stmt.Alias, mod)
	return runtime.Unit(), nil
}
