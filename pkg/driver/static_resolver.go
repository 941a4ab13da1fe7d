package driver

import (
	"sort"

	"rhai/interpreter-go/pkg/runtime"
	"rhai/interpreter-go/pkg/token"
)

// StaticModuleResolver serves pre-built modules from an in-memory
// registry. Embedders populate it up front; resolution is a lookup
// returning a clone, so callers can mutate what they get without
// touching the registry.
type StaticModuleResolver struct {
	modules map[string]*runtime.Module
}

// NewStaticModuleResolver returns an empty registry.
func NewStaticModuleResolver() *StaticModuleResolver {
	return &StaticModuleResolver{modules: make(map[string]*runtime.Module)}
}

// Insert registers a module under an import path, replacing any
// previous entry.
func (r *StaticModuleResolver) Insert(path string, mod *runtime.Module) {
	r.modules[path] = mod
}

// Remove drops the module registered under path.
func (r *StaticModuleResolver) Remove(path string) {
	delete(r.modules, path)
}

// Get returns the registered module itself, not a clone.
func (r *StaticModuleResolver) Get(path string) (*runtime.Module, bool) {
	mod, ok := r.modules[path]
	return mod, ok
}

// Contains reports whether a module is registered under path.
func (r *StaticModuleResolver) Contains(path string) bool {
	_, ok := r.modules[path]
	return ok
}

// Paths returns the registered import paths in sorted order.
func (r *StaticModuleResolver) Paths() []string {
	paths := make([]string, 0, len(r.modules))
	for path := range r.modules {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Len returns the number of registered modules.
func (r *StaticModuleResolver) Len() int {
	return len(r.modules)
}

// Resolve implements ModuleResolver.
func (r *StaticModuleResolver) Resolve(_ Engine, path string, pos token.Position) (*runtime.Module, error) {
	if mod, ok := r.modules[path]; ok {
		return mod.Clone(), nil
	}
	return nil, &runtime.ModuleNotFoundError{Name: path, Pos: pos}
}
