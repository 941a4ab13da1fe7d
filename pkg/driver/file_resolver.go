package driver

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"rhai/interpreter-go/pkg/runtime"
	"rhai/interpreter-go/pkg/token"
)

// DefaultExtension is the script file extension forced onto resolved
// import paths.
const DefaultExtension = "rhai"

// FileModuleResolver loads modules from script files under a base
// directory. Resolution compiles the file, evaluates it in a fresh
// scope, and harvests the surviving bindings into a module. Nothing is
// cached: resolving the same path twice runs the script twice.
type FileModuleResolver struct {
	BasePath  string
	Extension string
}

// NewFileModuleResolver resolves under base with the default
// extension.
func NewFileModuleResolver(base string) *FileModuleResolver {
	return NewFileModuleResolverWithExtension(base, DefaultExtension)
}

// NewFileModuleResolverWithExtension resolves under base with a custom
// extension (no leading dot).
func NewFileModuleResolverWithExtension(base, extension string) *FileModuleResolver {
	return &FileModuleResolver{BasePath: base, Extension: extension}
}

// FilePath returns the script file an import path maps to: base joined
// with the path, the configured extension replacing any present.
func (r *FileModuleResolver) FilePath(path string) string {
	file := filepath.Join(r.BasePath, filepath.FromSlash(path))
	if ext := filepath.Ext(file); ext != "" {
		file = strings.TrimSuffix(file, ext)
	}
	return file + "." + r.Extension
}

// Resolve implements ModuleResolver. A missing file reports the module
// as not found, which lets a ResolverChain fall through to its next
// resolver. Compile and evaluation failures of a file that does exist
// are hard errors, re-stamped with the import position so diagnostics
// point at the import statement rather than inside the imported file.
func (r *FileModuleResolver) Resolve(eng Engine, path string, pos token.Position) (*runtime.Module, error) {
	prog, err := eng.CompileFile(r.FilePath(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &runtime.ModuleNotFoundError{Name: path, Pos: pos}
		}
		return nil, runtime.Stamp(err, pos)
	}

	scope := runtime.NewScope()
	if err := eng.EvalProgramWithScope(prog, scope); err != nil {
		return nil, runtime.Stamp(err, pos)
	}

	mod := runtime.NewModuleWithHasher(eng.Hasher())
	for _, entry := range scope.Entries() {
		switch entry.Kind {
		case runtime.NormalVar, runtime.Constant:
			mod.SetVar(entry.Name, entry.Value)
		case runtime.ModuleEntry:
			if sub, ok := runtime.Cast[*runtime.Module](entry.Value); ok {
				mod.SetSubModule(entry.Name, sub)
			}
		}
	}
	mod.FnLib().Merge(runtime.LibFromFunctions(prog.Functions))
	return mod, nil
}
