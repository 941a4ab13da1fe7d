package interpreter

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"rhai/interpreter-go/pkg/runtime"
)

func evalString(t *testing.T, src string) runtime.Dynamic {
	t.Helper()
	v, err := New().Eval(src)
	if err != nil {
		t.Fatalf("Eval(%q) error: %v", src, err)
	}
	return v
}

func evalFailure(t *testing.T, src string) error {
	t.Helper()
	_, err := New().Eval(src)
	if err == nil {
		t.Fatalf("Eval(%q) succeeded, want error", src)
	}
	return err
}

func wantInt(t *testing.T, src string, want int64) {
	t.Helper()
	v := evalString(t, src)
	got, ok := runtime.Cast[int64](v)
	if !ok {
		t.Fatalf("Eval(%q) = %v (%s), want i64", src, v, v.TypeName())
	}
	if got != want {
		t.Fatalf("Eval(%q) = %d, want %d", src, got, want)
	}
}

func wantBool(t *testing.T, src string, want bool) {
	t.Helper()
	v := evalString(t, src)
	got, ok := runtime.Cast[bool](v)
	if !ok {
		t.Fatalf("Eval(%q) = %v (%s), want bool", src, v, v.TypeName())
	}
	if got != want {
		t.Fatalf("Eval(%q) = %t, want %t", src, got, want)
	}
}

func wantString(t *testing.T, src string, want string) {
	t.Helper()
	v := evalString(t, src)
	got, ok := runtime.Cast[string](v)
	if !ok {
		t.Fatalf("Eval(%q) = %v (%s), want string", src, v, v.TypeName())
	}
	if got != want {
		t.Fatalf("Eval(%q) = %q, want %q", src, got, want)
	}
}

func TestIntegerArithmetic(t *testing.T) {
	wantInt(t, "1 + 2", 3)
	wantInt(t, "7 - 2 * 3", 1)
	wantInt(t, "(7 - 2) * 3", 15)
	wantInt(t, "10 / 4", 2)
	wantInt(t, "10 % 3", 1)
	wantInt(t, "-5 + 2", -3)
}

func TestFloatArithmetic(t *testing.T) {
	src := "1.5 + 2.25"
	v := evalString(t, src)
	got, ok := runtime.Cast[float64](v)
	if !ok || got != 3.75 {
		t.Fatalf("Eval(%q) = %v, want 3.75", src, v)
	}
	src = "1.0 / 4.0"
	v = evalString(t, src)
	got, ok = runtime.Cast[float64](v)
	if !ok || got != 0.25 {
		t.Fatalf("Eval(%q) = %v, want 0.25", src, v)
	}
}

func TestStringConcat(t *testing.T) {
	wantString(t, `"foo" + "bar"`, "foobar")
}

func TestArrayConcat(t *testing.T) {
	wantInt(t, "len([1] + [2, 3])", 3)
}

func TestComparisons(t *testing.T) {
	wantBool(t, "1 < 2", true)
	wantBool(t, "2 <= 1", false)
	wantBool(t, "2.5 >= 2.5", true)
	wantBool(t, `"a" < "b"`, true)
	wantBool(t, "3 == 3", true)
	wantBool(t, "3 != 3", false)
	wantBool(t, "true == false", false)
	wantBool(t, "!false", true)
}

func TestMixedOperandTypesFailDispatch(t *testing.T) {
	err := evalFailure(t, "1 == 1.0")
	var notFound *runtime.FnNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want FnNotFoundError", err)
	}
	if !strings.Contains(err.Error(), "== (i64, f64)") {
		t.Fatalf("error = %v, want operand types in display name", err)
	}
}

func TestIntegerOverflow(t *testing.T) {
	err := evalFailure(t, "9223372036854775807 + 1")
	if !strings.Contains(err.Error(), "integer overflow") {
		t.Fatalf("error = %v, want integer overflow", err)
	}
}

func TestDivisionByZero(t *testing.T) {
	err := evalFailure(t, "1 / 0")
	if !strings.Contains(err.Error(), "division by zero") {
		t.Fatalf("error = %v, want division by zero", err)
	}
	err = evalFailure(t, "1 % 0")
	if !strings.Contains(err.Error(), "modulo by zero") {
		t.Fatalf("error = %v, want modulo by zero", err)
	}
}

func TestVariables(t *testing.T) {
	wantInt(t, "let x = 3; x = x + 1; x", 4)
	// Redeclaration shadows; the newest binding wins.
	wantInt(t, "let x = 1; let x = 2; x", 2)
}

func TestAssignToConstant(t *testing.T) {
	err := evalFailure(t, "const c = 1; c = 2;")
	var constErr *runtime.AssignToConstantError
	if !errors.As(err, &constErr) {
		t.Fatalf("error = %v, want AssignToConstantError", err)
	}
	if constErr.Name != "c" {
		t.Fatalf("constant name = %q, want c", constErr.Name)
	}
}

func TestUnknownVariable(t *testing.T) {
	err := evalFailure(t, "y + 1")
	var notFound *runtime.VarNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want VarNotFoundError", err)
	}
	if notFound.Name != "y" {
		t.Fatalf("variable name = %q, want y", notFound.Name)
	}
}

func TestIfYieldsBranchValue(t *testing.T) {
	wantInt(t, "if 1 < 2 { 10 } else { 20 }", 10)
	wantInt(t, "if 1 > 2 { 10 } else { 20 }", 20)
	v := evalString(t, "if false { 10 }")
	if !v.IsUnit() {
		t.Fatalf("if without else = %v, want unit", v)
	}
}

func TestNonBooleanCondition(t *testing.T) {
	err := evalFailure(t, "if 1 { 2 }")
	if !strings.Contains(err.Error(), "if condition is not a boolean") {
		t.Fatalf("error = %v, want condition type failure", err)
	}
}

func TestWhileLoop(t *testing.T) {
	wantInt(t, "let n = 0; while n < 5 { n = n + 1; } n", 5)
}

func TestBreakLeavesLoop(t *testing.T) {
	wantInt(t, "let n = 0; while true { n = n + 1; if n == 3 { break; } } n", 3)
}

func TestBlockBindingsDoNotLeak(t *testing.T) {
	wantInt(t, "let x = 1; if true { let x = 2; } x", 1)
}

func TestTopLevelReturn(t *testing.T) {
	wantInt(t, "return 5; 99", 5)
}

func TestScriptFunction(t *testing.T) {
	wantInt(t, "fn double(x) { x * 2 } double(21)", 42)
}

func TestScriptFunctionRecursion(t *testing.T) {
	src := "fn fact(n) { if n <= 1 { return 1; } n * fact(n - 1) } fact(5)"
	wantInt(t, src, 120)
}

func TestScriptFunctionShadowsNative(t *testing.T) {
	wantInt(t, `fn len(x) { 99 } len("abc")`, 99)
}

func TestScriptFunctionTerminatedBody(t *testing.T) {
	v := evalString(t, "fn f() { 5; } f()")
	if !v.IsUnit() {
		t.Fatalf("terminated body value = %v, want unit", v)
	}
}

func TestScriptFunctionParamsAreLocal(t *testing.T) {
	// The callee sees only its parameters, not the caller's bindings.
	err := evalFailure(t, "let hidden = 1; fn peek() { hidden } peek()")
	var notFound *runtime.VarNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want VarNotFoundError", err)
	}
}

func TestWrongArityFallsThroughToDisplayError(t *testing.T) {
	err := evalFailure(t, "fn one(x) { x } one(1, 2)")
	if !strings.Contains(err.Error(), "one (i64, i64)") {
		t.Fatalf("error = %v, want display name with argument types", err)
	}
}

func TestArrayIndexing(t *testing.T) {
	wantInt(t, "let a = [1, 2, 3]; a[1]", 2)
	wantInt(t, "let a = [1, 2, 3]; a[1] = 9; a[1]", 9)
}

func TestArrayIndexOutOfBounds(t *testing.T) {
	err := evalFailure(t, "let a = [1]; a[5]")
	if !strings.Contains(err.Error(), "out of bounds") {
		t.Fatalf("error = %v, want out of bounds", err)
	}
}

func TestArrayIndexNotInteger(t *testing.T) {
	err := evalFailure(t, "let a = [1]; a[true]")
	if !strings.Contains(err.Error(), "array index is not an integer") {
		t.Fatalf("error = %v, want index type failure", err)
	}
}

func TestMethodMutatesReceiver(t *testing.T) {
	wantInt(t, "let a = [1, 2]; a.push(7); len(a)", 3)
	wantInt(t, "let a = [1, 2]; a.pop(); len(a)", 1)
	wantInt(t, "let a = [1, 2]; a.pop()", 2)
	wantInt(t, "let a = [1, 3]; a.insert(1, 2); a[1]", 2)
	wantInt(t, "let a = [1, 2]; a.clear(); len(a)", 0)
	wantString(t, `let s = "hi"; s.clear(); s`, "")
}

func TestFreeCallMutatesFirstArgument(t *testing.T) {
	// push(a, v) and a.push(v) are the same native; both see the live
	// variable.
	wantInt(t, "let a = [1]; push(a, 5); a[1]", 5)
}

func TestMutatingConstantFails(t *testing.T) {
	err := evalFailure(t, "const a = [1]; a.push(2);")
	var constErr *runtime.AssignToConstantError
	if !errors.As(err, &constErr) {
		t.Fatalf("method style error = %v, want AssignToConstantError", err)
	}
	err = evalFailure(t, "const a = [1]; push(a, 2);")
	if !errors.As(err, &constErr) {
		t.Fatalf("free style error = %v, want AssignToConstantError", err)
	}
}

func TestPureMethodWorksOnConstant(t *testing.T) {
	wantInt(t, `const s = "abc"; s.len()`, 3)
}

func TestMethodOnTemporary(t *testing.T) {
	wantInt(t, "[1, 2, 3].len()", 3)
	// Mutating a temporary is allowed; the result is simply discarded.
	v := evalString(t, "[1].push(2)")
	if !v.IsUnit() {
		t.Fatalf("push on temporary = %v, want unit", v)
	}
}

func TestPopEmptyArrayYieldsUnit(t *testing.T) {
	v := evalString(t, "let a = []; a.pop()")
	if !v.IsUnit() {
		t.Fatalf("pop on empty = %v, want unit", v)
	}
}

func TestInsertOutOfBounds(t *testing.T) {
	err := evalFailure(t, "let a = [1]; a.insert(5, 9);")
	if !strings.Contains(err.Error(), "out of bounds") {
		t.Fatalf("error = %v, want out of bounds", err)
	}
}

func TestStringUtilities(t *testing.T) {
	wantBool(t, `"hello".contains("ell")`, true)
	wantBool(t, `contains("hello", "xyz")`, false)
	wantString(t, `"aXa".replace("X", "b")`, "aba")
	wantInt(t, `len("abc")`, 3)
}

func TestAbs(t *testing.T) {
	wantInt(t, "abs(-3)", 3)
	wantInt(t, "abs(2)", 2)
	v := evalString(t, "abs(-2.5)")
	if got, _ := runtime.Cast[float64](v); got != 2.5 {
		t.Fatalf("abs(-2.5) = %v, want 2.5", v)
	}
}

func TestToString(t *testing.T) {
	wantString(t, "to_string(42)", "42")
	wantString(t, "to_string(true)", "true")
	wantString(t, "to_string([1, 2])", "[1, 2]")
}

func TestShortCircuit(t *testing.T) {
	// The zero divide on the right must never run.
	wantBool(t, "let x = 0; false && 1 / x == 0", false)
	wantBool(t, "let x = 0; true || 1 / x == 0", true)
	wantBool(t, "let x = 2; true && x == 2", true)

	err := evalFailure(t, "let x = 0; true && 1 / x == 0")
	if !strings.Contains(err.Error(), "division by zero") {
		t.Fatalf("error = %v, want division by zero from evaluated right side", err)
	}
}

func TestLogicalOperandsMustBeBoolean(t *testing.T) {
	err := evalFailure(t, "1 && true")
	if !strings.Contains(err.Error(), "needs boolean operands") {
		t.Fatalf("error = %v, want operand type failure", err)
	}
}

func TestUnaryDispatchFailure(t *testing.T) {
	err := evalFailure(t, "!1")
	var notFound *runtime.FnNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want FnNotFoundError", err)
	}
	if !strings.Contains(err.Error(), "! (i64)") {
		t.Fatalf("error = %v, want operand type in display name", err)
	}
}

func TestWildcardOverloadLosesToExact(t *testing.T) {
	i := New()
	runtime.SetFn1(i.Builtins(), "kind", func(n int64) (string, error) { return "int", nil })
	runtime.SetFn1(i.Builtins(), "kind", func(v runtime.Dynamic) (string, error) { return "any", nil })

	v, err := i.Eval("kind(1)")
	if err != nil {
		t.Fatalf("kind(1) error: %v", err)
	}
	if got, _ := runtime.Cast[string](v); got != "int" {
		t.Fatalf("kind(1) = %v, want exact overload", v)
	}

	v, err = i.Eval("kind(true)")
	if err != nil {
		t.Fatalf("kind(true) error: %v", err)
	}
	if got, _ := runtime.Cast[string](v); got != "any" {
		t.Fatalf("kind(true) = %v, want wildcard overload", v)
	}
}

func TestPrintOutput(t *testing.T) {
	i := New()
	var buf bytes.Buffer
	i.SetOutput(&buf)
	if _, err := i.Eval(`print("hi"); print(42); print();`); err != nil {
		t.Fatalf("Eval error: %v", err)
	}
	if got, want := buf.String(), "hi\n42\n\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestEvalWithScopeKeepsBindings(t *testing.T) {
	i := New()
	scope := runtime.NewScope()
	if _, err := i.EvalWithScope("let x = 1;", scope); err != nil {
		t.Fatalf("first eval error: %v", err)
	}
	v, err := i.EvalWithScope("x + 1", scope)
	if err != nil {
		t.Fatalf("second eval error: %v", err)
	}
	if got, _ := runtime.Cast[int64](v); got != 2 {
		t.Fatalf("x + 1 = %v, want 2", v)
	}
}

func TestEmptySource(t *testing.T) {
	v := evalString(t, "")
	if !v.IsUnit() {
		t.Fatalf("empty program = %v, want unit", v)
	}
}
