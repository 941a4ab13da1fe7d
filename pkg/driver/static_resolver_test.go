package driver

import (
	"errors"
	"testing"

	"rhai/interpreter-go/pkg/runtime"
	"rhai/interpreter-go/pkg/token"
)

func TestStaticResolverResolveClones(t *testing.T) {
	r := NewStaticModuleResolver()
	mathlib := runtime.NewModule()
	mathlib.SetVar("pi", int64(3))
	r.Insert("mathlib", mathlib)

	got, err := r.Resolve(nil, "mathlib", token.NoPosition)
	if err != nil {
		t.Fatalf("Resolve(mathlib) error: %v", err)
	}
	if got == mathlib {
		t.Fatalf("Resolve returned the registered module, want a clone")
	}
	v, ok := got.GetVar("pi")
	if !ok {
		t.Fatalf("clone lost variable pi")
	}
	if n, _ := runtime.Cast[int64](v); n != 3 {
		t.Fatalf("clone pi = %v, want 3", v)
	}

	// Mutating the resolved clone leaves the registry untouched.
	got.SetVar("pi", int64(99))
	orig, _ := mathlib.GetVar("pi")
	if n, _ := runtime.Cast[int64](orig); n != 3 {
		t.Fatalf("registry module mutated through resolved clone")
	}
}

func TestStaticResolverMissing(t *testing.T) {
	r := NewStaticModuleResolver()
	pos := token.Position{Line: 5, Column: 1}
	_, err := r.Resolve(nil, "missing", pos)
	var notFound *runtime.ModuleNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want ModuleNotFoundError", err)
	}
	if notFound.Name != "missing" {
		t.Fatalf("error names %q, want the import path", notFound.Name)
	}
	if notFound.Pos != pos {
		t.Fatalf("error position = %v, want import site %v", notFound.Pos, pos)
	}
}

func TestStaticResolverMapSurface(t *testing.T) {
	r := NewStaticModuleResolver()
	r.Insert("b", runtime.NewModule())
	r.Insert("a", runtime.NewModule())
	if r.Len() != 2 {
		t.Fatalf("Len = %d, want 2", r.Len())
	}
	if got := r.Paths(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("Paths = %v, want [a b]", got)
	}
	if !r.Contains("a") {
		t.Fatalf("Contains(a) = false")
	}

	replacement := runtime.NewModule()
	replacement.SetVar("which", "second")
	r.Insert("a", replacement)
	if r.Len() != 2 {
		t.Fatalf("Insert should replace, Len = %d", r.Len())
	}
	mod, _ := r.Get("a")
	if mod != replacement {
		t.Fatalf("Get(a) still returns the old module")
	}

	r.Remove("a")
	if r.Contains("a") {
		t.Fatalf("Remove left the entry behind")
	}
}
