package runtime

import "rhai/interpreter-go/pkg/ast"

// FnKey identifies a script function by name and parameter count.
type FnKey struct {
	Name  string
	Arity int
}

// FunctionsLib is a library of script-defined functions keyed by name
// and arity. Definitions are shared, not copied.
type FunctionsLib map[FnKey]*ast.FnDef

// NewFunctionsLib returns an empty library.
func NewFunctionsLib() FunctionsLib {
	return make(FunctionsLib)
}

// LibFromFunctions builds a library from hoisted definitions. A later
// definition of the same name and arity wins.
func LibFromFunctions(fns []*ast.FnDef) FunctionsLib {
	lib := make(FunctionsLib, len(fns))
	for _, def := range fns {
		lib.Add(def)
	}
	return lib
}

// Add inserts a definition, replacing any existing one with the same
// name and arity.
func (l FunctionsLib) Add(def *ast.FnDef) {
	l[FnKey{Name: def.Name, Arity: len(def.Params)}] = def
}

// Get looks up a definition by name and arity.
func (l FunctionsLib) Get(name string, arity int) (*ast.FnDef, bool) {
	def, ok := l[FnKey{Name: name, Arity: arity}]
	return def, ok
}

// Merge unions other into the library. On a name+arity collision the
// merged-in definition wins.
func (l FunctionsLib) Merge(other FunctionsLib) {
	for k, def := range other {
		l[k] = def
	}
}

// Len returns the number of definitions.
func (l FunctionsLib) Len() int {
	return len(l)
}
