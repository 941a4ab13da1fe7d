package runtime

import (
	"errors"
	"testing"

	"rhai/interpreter-go/pkg/ast"
	"rhai/interpreter-go/pkg/token"
)

func seg(name string, line, col int) ast.PathSegment {
	return ast.PathSegment{Name: name, Pos: token.Position{Line: line, Column: col}}
}

func TestSetVarGetVar(t *testing.T) {
	m := NewModule()
	if m.ContainsVar("x") {
		t.Fatalf("ContainsVar(x) = true before SetVar")
	}
	m.SetVar("x", int64(5))
	got, ok := m.GetVar("x")
	if !ok {
		t.Fatalf("GetVar(x) not found")
	}
	if v, _ := Cast[int64](got); v != 5 {
		t.Fatalf("GetVar(x) = %v, want 5", got)
	}

	m.SetVar("x", "hi")
	got, _ = m.GetVar("x")
	if v, _ := Cast[string](got); v != "hi" {
		t.Fatalf("GetVar(x) after replace = %v, want hi", got)
	}
}

func TestGetVarReturnsClone(t *testing.T) {
	m := NewModule()
	m.SetVar("xs", []Dynamic{NewInt(1), NewInt(2)})
	got, _ := m.GetVar("xs")
	arr, _ := Cast[[]Dynamic](got)
	arr[0] = NewInt(99)

	again, _ := m.GetVar("xs")
	arr2, _ := Cast[[]Dynamic](again)
	if v, _ := Cast[int64](arr2[0]); v != 1 {
		t.Fatalf("stored array mutated through GetVar clone: first = %v, want 1", arr2[0])
	}
}

func TestGetVarRefMutates(t *testing.T) {
	m := NewModule()
	m.SetVar("n", int64(1))
	ref, ok := m.GetVarRef("n")
	if !ok {
		t.Fatalf("GetVarRef(n) not found")
	}
	*ref = NewInt(42)
	got, _ := m.GetVar("n")
	if v, _ := Cast[int64](got); v != 42 {
		t.Fatalf("GetVar(n) after ref write = %v, want 42", got)
	}
}

func TestSubModules(t *testing.T) {
	m := NewModule()
	sub := NewModule()
	sub.SetVar("y", int64(7))
	m.SetSubModule("a", sub)

	if !m.ContainsSubModule("a") {
		t.Fatalf("ContainsSubModule(a) = false")
	}
	got, ok := m.GetSubModule("a")
	if !ok {
		t.Fatalf("GetSubModule(a) not found")
	}
	v, ok := got.GetVar("y")
	if !ok {
		t.Fatalf("sub var y not found")
	}
	if n, _ := Cast[int64](v); n != 7 {
		t.Fatalf("sub var y = %v, want 7", v)
	}

	// A variable and a sub-module may share a name.
	m.SetVar("a", int64(1))
	if !m.ContainsSubModule("a") || !m.ContainsVar("a") {
		t.Fatalf("name a should be present as both variable and sub-module")
	}
}

func TestSetFnOverloads(t *testing.T) {
	m := NewModule()
	h1 := SetFn2(m, "add", func(a, b int64) (int64, error) { return a + b, nil })
	h2 := SetFn2(m, "add", func(a, b string) (string, error) { return a + b, nil })
	if h1 == h2 {
		t.Fatalf("overload hashes collide: %d", h1)
	}
	if !m.ContainsFn(h1) || !m.ContainsFn(h2) {
		t.Fatalf("overloads not independently registered")
	}

	f1, _ := m.GetFn(h1)
	args := dynArgs(NewInt(2), NewInt(3))
	got, err := f1.Call(args, token.NoPosition)
	if err != nil {
		t.Fatalf("add(2, 3) error: %v", err)
	}
	if v, _ := Cast[int64](got); v != 5 {
		t.Fatalf("add(2, 3) = %v, want 5", got)
	}

	f2, _ := m.GetFn(h2)
	args = dynArgs(NewString("foo"), NewString("bar"))
	got, err = f2.Call(args, token.NoPosition)
	if err != nil {
		t.Fatalf("add(foo, bar) error: %v", err)
	}
	if v, _ := Cast[string](got); v != "foobar" {
		t.Fatalf("add(foo, bar) = %v, want foobar", got)
	}
}

func TestSetFnReplacesSameSignature(t *testing.T) {
	m := NewModule()
	h1 := SetFn1(m, "answer", func(n int64) (int64, error) { return n, nil })
	before := m.FnCount()
	h2 := SetFn1(m, "answer", func(n int64) (int64, error) { return n * 2, nil })
	if h1 != h2 {
		t.Fatalf("same signature hashed differently: %d vs %d", h1, h2)
	}
	if m.FnCount() != before {
		t.Fatalf("FnCount = %d after re-register, want %d", m.FnCount(), before)
	}

	f, _ := m.GetFn(h2)
	got, err := f.Call(dynArgs(NewInt(21)), token.NoPosition)
	if err != nil {
		t.Fatalf("answer(21) error: %v", err)
	}
	if v, _ := Cast[int64](got); v != 42 {
		t.Fatalf("answer(21) = %v, want 42 from the replacement", got)
	}
}

func TestGetQualifiedVar(t *testing.T) {
	m := NewModule()
	a := NewModule()
	b := NewModule()
	b.SetVar("y", int64(9))
	a.SetSubModule("b", b)
	m.SetSubModule("a", a)

	path := []ast.PathSegment{seg("self", 1, 1), seg("a", 1, 7), seg("b", 1, 10)}
	ref, err := m.GetQualifiedVar("y", path, token.Position{Line: 1, Column: 13})
	if err != nil {
		t.Fatalf("GetQualifiedVar(y) error: %v", err)
	}
	if v, _ := Cast[int64](*ref); v != 9 {
		t.Fatalf("qualified y = %v, want 9", *ref)
	}
}

func TestGetQualifiedVarMissingVar(t *testing.T) {
	m := NewModule()
	a := NewModule()
	a.SetSubModule("b", NewModule())
	m.SetSubModule("a", a)

	path := []ast.PathSegment{seg("self", 1, 1), seg("a", 1, 7), seg("b", 1, 10)}
	pos := token.Position{Line: 2, Column: 4}
	_, err := m.GetQualifiedVar("y", path, pos)
	var notFound *VarNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want VarNotFoundError", err)
	}
	if notFound.Name != "y" {
		t.Fatalf("missing variable name = %q, want y", notFound.Name)
	}
	if notFound.Pos != pos {
		t.Fatalf("error position = %v, want %v", notFound.Pos, pos)
	}
}

func TestGetQualifiedVarMissingModule(t *testing.T) {
	m := NewModule()
	m.SetSubModule("a", NewModule())

	path := []ast.PathSegment{seg("self", 1, 1), seg("a", 1, 7), seg("b", 3, 10)}
	_, err := m.GetQualifiedVar("y", path, token.NoPosition)
	var notFound *ModuleNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want ModuleNotFoundError", err)
	}
	if notFound.Name != "b" {
		t.Fatalf("missing module name = %q, want b", notFound.Name)
	}
	if want := (token.Position{Line: 3, Column: 10}); notFound.Pos != want {
		t.Fatalf("error position = %v, want the missing segment's %v", notFound.Pos, want)
	}
}

func TestGetQualifiedModuleSkipsFirstSegment(t *testing.T) {
	m := NewModule()
	m.SetVar("marker", int64(1))

	// Only one segment: the path names the module itself, whatever the
	// segment is called.
	target, err := m.GetQualifiedModule([]ast.PathSegment{seg("anything", 1, 1)})
	if err != nil {
		t.Fatalf("GetQualifiedModule error: %v", err)
	}
	if target != m {
		t.Fatalf("single-segment path should resolve to the receiver")
	}
}

func TestGetQualifiedFn(t *testing.T) {
	m := NewModule()
	mathMod := NewModuleWithHasher(m.Hasher())
	hash := SetFn2(mathMod, "mul", func(a, b int64) (int64, error) { return a * b, nil })
	m.SetSubModule("math", mathMod)

	path := []ast.PathSegment{seg("self", 1, 1), seg("math", 1, 7)}
	f, err := m.GetQualifiedFn("mul", hash, path, token.NoPosition)
	if err != nil {
		t.Fatalf("GetQualifiedFn(mul) error: %v", err)
	}
	got, err := f.Call(dynArgs(NewInt(6), NewInt(7)), token.NoPosition)
	if err != nil {
		t.Fatalf("mul error: %v", err)
	}
	if v, _ := Cast[int64](got); v != 42 {
		t.Fatalf("mul(6, 7) = %v, want 42", got)
	}
}

func TestGetQualifiedFnNotFoundJoinsName(t *testing.T) {
	m := NewModule()
	inner := NewModule()
	outer := NewModule()
	outer.SetSubModule("b", inner)
	m.SetSubModule("a", outer)

	path := []ast.PathSegment{seg("root", 1, 1), seg("a", 1, 6), seg("b", 1, 9)}
	pos := token.Position{Line: 4, Column: 2}
	_, err := m.GetQualifiedFn("frob", 12345, path, pos)
	var notFound *FnNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want FnNotFoundError", err)
	}
	if want := "root::a::b::frob"; notFound.Name != want {
		t.Fatalf("display name = %q, want %q", notFound.Name, want)
	}
	if notFound.Pos != pos {
		t.Fatalf("error position = %v, want %v", notFound.Pos, pos)
	}
}

func TestGetQualifiedFnLib(t *testing.T) {
	m := NewModule()
	sub := NewModule()
	def := &ast.FnDef{Name: "double", Params: []string{"x"}}
	sub.FnLib().Add(def)
	m.SetSubModule("utils", sub)

	path := []ast.PathSegment{seg("self", 1, 1), seg("utils", 1, 7)}
	got, ok, err := m.GetQualifiedFnLib("double", 1, path)
	if err != nil {
		t.Fatalf("GetQualifiedFnLib error: %v", err)
	}
	if !ok || got != def {
		t.Fatalf("GetQualifiedFnLib(double, 1) = %v, %v; want the registered def", got, ok)
	}

	if _, ok, _ := m.GetQualifiedFnLib("double", 2, path); ok {
		t.Fatalf("arity 2 lookup should miss")
	}
}

func TestCloneSharesFunctionsDeepCopiesVars(t *testing.T) {
	m := NewModule()
	m.SetVar("xs", []Dynamic{NewInt(1)})
	sub := NewModule()
	sub.SetVar("inner", int64(3))
	m.SetSubModule("s", sub)
	hash := SetFn0(m, "zero", func() (int64, error) { return 0, nil })

	c := m.Clone()

	// Mutating the clone's variable must not touch the original.
	ref, _ := c.GetVarRef("xs")
	arr, _ := Cast[[]Dynamic](*ref)
	arr[0] = NewInt(99)
	orig, _ := m.GetVar("xs")
	origArr, _ := Cast[[]Dynamic](orig)
	if v, _ := Cast[int64](origArr[0]); v != 1 {
		t.Fatalf("original mutated through clone: %v, want 1", origArr[0])
	}

	// Sub-modules are independent copies.
	cs, _ := c.GetSubModule("s")
	cs.SetVar("inner", int64(4))
	os, _ := m.GetSubModule("s")
	inner, _ := os.GetVar("inner")
	if n, _ := Cast[int64](inner); n != 3 {
		t.Fatalf("original sub var = %v, want 3", inner)
	}

	// Native functions are shared, not re-wrapped.
	f1, _ := m.GetFn(hash)
	f2, ok := c.GetFn(hash)
	if !ok || f1 != f2 {
		t.Fatalf("clone should share the same *NativeFunction")
	}
}

func dynArgs(vals ...Dynamic) []*Dynamic {
	out := make([]*Dynamic, len(vals))
	for i := range vals {
		out[i] = &vals[i]
	}
	return out
}
