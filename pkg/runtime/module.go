package runtime

import (
	"strings"

	"rhai/interpreter-go/pkg/ast"
	"rhai/interpreter-go/pkg/token"
)

// Module is a namespace holding variables, nested sub-modules, native
// functions keyed by overload hash, and a library of script-defined
// functions. Variables, sub-modules, and functions are independent
// maps, so a variable and a sub-module may share a name.
type Module struct {
	subModules map[string]*Module
	variables  map[string]*Dynamic
	functions  map[uint64]*NativeFunction
	fnLib      FunctionsLib
	hasher     Hasher
}

// NewModule returns an empty module using the build-wide hash seed.
func NewModule() *Module {
	return NewModuleWithHasher(NewHasher())
}

// NewModuleWithHasher returns an empty module whose function hashes
// are computed with h. The dispatcher querying the module must use a
// hasher with the same seed.
func NewModuleWithHasher(h Hasher) *Module {
	return &Module{
		subModules: make(map[string]*Module),
		variables:  make(map[string]*Dynamic),
		functions:  make(map[uint64]*NativeFunction),
		fnLib:      NewFunctionsLib(),
		hasher:     h,
	}
}

// Hasher returns the hasher the module registers functions with.
func (m *Module) Hasher() Hasher {
	return m.hasher
}

// ContainsVar reports whether a variable is defined.
func (m *Module) ContainsVar(name string) bool {
	_, ok := m.variables[name]
	return ok
}

// GetVar returns a clone of a variable's value.
func (m *Module) GetVar(name string) (Dynamic, bool) {
	if v, ok := m.variables[name]; ok {
		return v.Clone(), true
	}
	return Unit(), false
}

// GetVarRef returns a mutable reference to a variable's value.
func (m *Module) GetVarRef(name string) (*Dynamic, bool) {
	v, ok := m.variables[name]
	return v, ok
}

// SetVar inserts or replaces a variable. The value is converted into
// its dynamic representation.
func (m *Module) SetVar(name string, v any) {
	d := NewDynamic(v)
	m.variables[name] = &d
}

// VarNames returns the defined variable names in no particular order.
func (m *Module) VarNames() []string {
	names := make([]string, 0, len(m.variables))
	for name := range m.variables {
		names = append(names, name)
	}
	return names
}

// ContainsSubModule reports whether a sub-module is present.
func (m *Module) ContainsSubModule(name string) bool {
	_, ok := m.subModules[name]
	return ok
}

// GetSubModule returns a nested module.
func (m *Module) GetSubModule(name string) (*Module, bool) {
	sub, ok := m.subModules[name]
	return sub, ok
}

// SetSubModule inserts or replaces a nested module. The parent takes
// ownership.
func (m *Module) SetSubModule(name string, sub *Module) {
	m.subModules[name] = sub
}

// SubModuleNames returns the nested module names in no particular
// order.
func (m *Module) SubModuleNames() []string {
	names := make([]string, 0, len(m.subModules))
	for name := range m.subModules {
		names = append(names, name)
	}
	return names
}

// ContainsFn reports whether a native function is registered under the
// hash.
func (m *Module) ContainsFn(hash uint64) bool {
	_, ok := m.functions[hash]
	return ok
}

// GetFn returns the native function registered under the hash.
func (m *Module) GetFn(hash uint64) (*NativeFunction, bool) {
	f, ok := m.functions[hash]
	return f, ok
}

// SetFnRaw registers an already-adapted native function and returns
// its overload hash. Registering the same name and parameter types
// again replaces the previous entry. Most callers use the typed SetFnN
// helpers instead.
func (m *Module) SetFnRaw(name string, paramTypes []string, fn NativeFn) uint64 {
	hash := m.hasher.FnHash(name, paramTypes)
	m.functions[hash] = &NativeFunction{Name: name, ParamTypes: paramTypes, Fn: fn}
	return hash
}

// SetFnRawMethod registers a native function that mutates its first
// parameter in place. The SetFnNM helpers register through here.
func (m *Module) SetFnRawMethod(name string, paramTypes []string, fn NativeFn) uint64 {
	hash := m.hasher.FnHash(name, paramTypes)
	m.functions[hash] = &NativeFunction{Name: name, ParamTypes: paramTypes, Fn: fn, Method: true}
	return hash
}

// FnCount returns the number of registered native functions.
func (m *Module) FnCount() int {
	return len(m.functions)
}

// FnLib returns the module's script-function library. The returned map
// is live; merging into it updates the module.
func (m *Module) FnLib() FunctionsLib {
	return m.fnLib
}

// Clone returns a deep copy: variables and sub-modules are cloned,
// while native functions and script definitions are shared by pointer.
func (m *Module) Clone() *Module {
	out := &Module{
		subModules: make(map[string]*Module, len(m.subModules)),
		variables:  make(map[string]*Dynamic, len(m.variables)),
		functions:  make(map[uint64]*NativeFunction, len(m.functions)),
		fnLib:      make(FunctionsLib, len(m.fnLib)),
		hasher:     m.hasher,
	}
	for name, sub := range m.subModules {
		out.subModules[name] = sub.Clone()
	}
	for name, v := range m.variables {
		d := v.Clone()
		out.variables[name] = &d
	}
	for hash, f := range m.functions {
		out.functions[hash] = f
	}
	for key, def := range m.fnLib {
		out.fnLib[key] = def
	}
	return out
}

// GetQualifiedModule resolves a qualified path to the module it names.
// The first segment refers to the module itself and is never
// traversed; each following segment descends one sub-module. A missing
// segment fails with a module-not-found error carrying that segment's
// name and position.
func (m *Module) GetQualifiedModule(path []ast.PathSegment) (*Module, error) {
	if len(path) == 0 {
		return m, nil
	}
	cur := m
	for _, seg := range path[1:] {
		sub, ok := cur.GetSubModule(seg.Name)
		if !ok {
			return nil, &ModuleNotFoundError{Name: seg.Name, Pos: seg.Pos}
		}
		cur = sub
	}
	return cur, nil
}

// GetQualifiedVar resolves the path and returns a mutable reference to
// the named variable in the target module.
func (m *Module) GetQualifiedVar(name string, path []ast.PathSegment, pos token.Position) (*Dynamic, error) {
	target, err := m.GetQualifiedModule(path)
	if err != nil {
		return nil, err
	}
	v, ok := target.GetVarRef(name)
	if !ok {
		return nil, &VarNotFoundError{Name: name, Pos: pos}
	}
	return v, nil
}

// GetQualifiedFn resolves the path and looks up a native function by
// its overload hash. On failure the error names the function in fully
// qualified form, every path segment joined by the namespace
// separator.
func (m *Module) GetQualifiedFn(name string, hash uint64, path []ast.PathSegment, pos token.Position) (*NativeFunction, error) {
	target, err := m.GetQualifiedModule(path)
	if err != nil {
		return nil, err
	}
	f, ok := target.GetFn(hash)
	if !ok {
		return nil, &FnNotFoundError{Name: qualifiedName(name, path), Pos: pos}
	}
	return f, nil
}

// GetQualifiedFnLib resolves the path and queries the target module's
// script-function library by name and arity.
func (m *Module) GetQualifiedFnLib(name string, arity int, path []ast.PathSegment) (*ast.FnDef, bool, error) {
	target, err := m.GetQualifiedModule(path)
	if err != nil {
		return nil, false, err
	}
	def, ok := target.fnLib.Get(name, arity)
	return def, ok, nil
}

func qualifiedName(name string, path []ast.PathSegment) string {
	sep := token.DoubleColon.Syntax()
	var b strings.Builder
	for _, seg := range path {
		b.WriteString(seg.Name)
		b.WriteString(sep)
	}
	b.WriteString(name)
	return b.String()
}
