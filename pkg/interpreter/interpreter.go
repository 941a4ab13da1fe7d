// Package interpreter evaluates parsed programs: scope bindings,
// operator and function dispatch through module hash tables, and
// import resolution through a configured module resolver.
package interpreter

import (
	"fmt"
	"io"
	"os"

	"rhai/interpreter-go/pkg/ast"
	"rhai/interpreter-go/pkg/driver"
	"rhai/interpreter-go/pkg/parser"
	"rhai/interpreter-go/pkg/runtime"
)

// Interp is a script evaluator. It owns the builtins module every
// script dispatches operators and utility calls into, and it acts as
// the compile/eval engine for module resolvers, so imported files run
// under the same hash seed and builtins as the importing script.
type Interp struct {
	hasher    runtime.Hasher
	resolver  driver.ModuleResolver
	builtins  *runtime.Module
	out       io.Writer
	importing []string
}

var _ driver.Engine = (*Interp)(nil)

// New returns an interpreter using the build-wide hash seed.
func New() *Interp {
	return NewWithHasher(runtime.NewHasher())
}

// NewWithHasher returns an interpreter with an explicit overload-hash
// seed. Modules the interpreter dispatches into must be built with the
// same seed.
func NewWithHasher(h runtime.Hasher) *Interp {
	i := &Interp{hasher: h, out: os.Stdout}
	i.builtins = newBuiltins(i)
	return i
}

// SetResolver installs the resolver import statements go through.
// Without one, import fails.
func (i *Interp) SetResolver(r driver.ModuleResolver) {
	i.resolver = r
}

// SetOutput redirects print output, which defaults to standard output.
func (i *Interp) SetOutput(w io.Writer) {
	i.out = w
}

// Builtins returns the module holding the operator and utility
// natives. Hosts register additional functions on it before running
// scripts.
func (i *Interp) Builtins() *runtime.Module {
	return i.builtins
}

// Hasher implements driver.Engine.
func (i *Interp) Hasher() runtime.Hasher {
	return i.hasher
}

// CompileFile implements driver.Engine: read and parse a script file.
func (i *Interp) CompileFile(path string) (*ast.Program, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	prog, err := parser.Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return prog, nil
}

// EvalProgramWithScope implements driver.Engine: run a program's
// statements against the scope. A top-level return stops evaluation
// without error.
func (i *Interp) EvalProgramWithScope(prog *ast.Program, scope *runtime.Scope) error {
	_, err := i.run(prog, scope)
	return err
}

// Eval parses and evaluates source in a fresh scope, returning the
// value of the final unterminated expression.
func (i *Interp) Eval(src string) (runtime.Dynamic, error) {
	return i.EvalWithScope(src, runtime.NewScope())
}

// EvalWithScope parses and evaluates source against an existing scope,
// for hosts that carry bindings between evaluations.
func (i *Interp) EvalWithScope(src string, scope *runtime.Scope) (runtime.Dynamic, error) {
	prog, err := parser.Parse(src)
	if err != nil {
		return runtime.Unit(), err
	}
	return i.run(prog, scope)
}

// RunFile compiles and evaluates a script file in a fresh scope.
func (i *Interp) RunFile(path string) (runtime.Dynamic, error) {
	prog, err := i.CompileFile(path)
	if err != nil {
		return runtime.Unit(), err
	}
	return i.run(prog, runtime.NewScope())
}

func (i *Interp) run(prog *ast.Program, scope *runtime.Scope) (runtime.Dynamic, error) {
	f := &frame{scope: scope, lib: runtime.LibFromFunctions(prog.Functions)}
	last := runtime.Unit()
	for _, stmt := range prog.Stmts {
		v, err := i.evaluateStatement(stmt, f)
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

// frame is one evaluation context: the scope bindings plus the
// script-function library bare calls resolve against.
type frame struct {
	scope *runtime.Scope
	lib   runtime.FunctionsLib
}

// returnSignal unwinds to the enclosing function call or program.
type returnSignal struct {
	value runtime.Dynamic
}

func (returnSignal) Error() string { return "return outside of function" }

// breakSignal unwinds to the enclosing loop.
type breakSignal struct{}

func (breakSignal) Error() string { return "break outside of loop" }
