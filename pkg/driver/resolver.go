// Package driver connects scripts to the modules they import: the
// resolver strategies that turn an import path into a populated
// module, and the project manifest and lockfile that configure where
// modules come from.
package driver

import (
	"errors"

	"rhai/interpreter-go/pkg/ast"
	"rhai/interpreter-go/pkg/runtime"
	"rhai/interpreter-go/pkg/token"
)

// Engine is the slice of the evaluator a resolver needs: compiling a
// script file and running a compiled program against a scope. The
// hasher is exposed so resolver-built modules register functions under
// the same seed the dispatcher queries with.
type Engine interface {
	CompileFile(path string) (*ast.Program, error)
	EvalProgramWithScope(prog *ast.Program, scope *runtime.Scope) error
	Hasher() runtime.Hasher
}

// ModuleResolver turns an import path into a module. pos is the
// import site, used to stamp failures.
type ModuleResolver interface {
	Resolve(eng Engine, path string, pos token.Position) (*runtime.Module, error)
}

// IsModuleNotFound reports whether err is a module-not-found failure,
// the one kind a resolver chain treats as "try the next resolver".
func IsModuleNotFound(err error) bool {
	var notFound *runtime.ModuleNotFoundError
	return errors.As(err, &notFound)
}

// ResolverChain tries resolvers in order. The first success wins;
// module-not-found moves on to the next resolver, while any other
// failure (a compile or evaluation error in a located module) stops
// the chain immediately.
type ResolverChain struct {
	resolvers []ModuleResolver
}

// NewResolverChain builds a chain from the given resolvers, first
// consulted first.
func NewResolverChain(resolvers ...ModuleResolver) *ResolverChain {
	return &ResolverChain{resolvers: resolvers}
}

// Append adds a resolver at the end of the chain.
func (c *ResolverChain) Append(r ModuleResolver) {
	c.resolvers = append(c.resolvers, r)
}

// Len returns the number of resolvers in the chain.
func (c *ResolverChain) Len() int {
	return len(c.resolvers)
}

// Resolve implements ModuleResolver.
func (c *ResolverChain) Resolve(eng Engine, path string, pos token.Position) (*runtime.Module, error) {
	for _, r := range c.resolvers {
		mod, err := r.Resolve(eng, path, pos)
		if err == nil {
			return mod, nil
		}
		if !IsModuleNotFound(err) {
			return nil, err
		}
	}
	return nil, &runtime.ModuleNotFoundError{Name: path, Pos: pos}
}
