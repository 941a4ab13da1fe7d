package interpreter

import (
	"fmt"
	"math"
	"strings"

	"rhai/interpreter-go/pkg/runtime"
	"rhai/interpreter-go/pkg/token"
)

// newBuiltins registers the operator and utility natives every script
// sees. Operators are ordinary overloaded natives; the evaluator
// reaches them through the same hash lookup scripts use for any other
// call.
func newBuiltins(i *Interp) *runtime.Module {
	m := runtime.NewModuleWithHasher(i.hasher)
	registerArithmetic(m)
	registerComparison(m)
	registerUnary(m)
	registerUtility(m, i)
	return m
}

func registerArithmetic(m *runtime.Module) {
	add := token.Plus.Syntax()
	runtime.SetFn2(m, add, checkedAdd)
	runtime.SetFn2(m, add, func(a, b float64) (float64, error) { return a + b, nil })
	runtime.SetFn2(m, add, func(a, b string) (string, error) { return a + b, nil })
	runtime.SetFn2(m, add, func(a, b []runtime.Dynamic) ([]runtime.Dynamic, error) {
		out := make([]runtime.Dynamic, 0, len(a)+len(b))
		return append(append(out, a...), b...), nil
	})

	sub := token.Minus.Syntax()
	runtime.SetFn2(m, sub, checkedSub)
	runtime.SetFn2(m, sub, func(a, b float64) (float64, error) { return a - b, nil })

	mul := token.Star.Syntax()
	runtime.SetFn2(m, mul, checkedMul)
	runtime.SetFn2(m, mul, func(a, b float64) (float64, error) { return a * b, nil })

	div := token.Slash.Syntax()
	runtime.SetFn2(m, div, checkedDiv)
	runtime.SetFn2(m, div, func(a, b float64) (float64, error) { return a / b, nil })

	mod := token.Percent.Syntax()
	runtime.SetFn2(m, mod, checkedMod)
	runtime.SetFn2(m, mod, func(a, b float64) (float64, error) { return math.Mod(a, b), nil })
}

func registerComparison(m *runtime.Module) {
	eq := token.EqualTo.Syntax()
	runtime.SetFn2(m, eq, func(a, b int64) (bool, error) { return a == b, nil })
	runtime.SetFn2(m, eq, func(a, b float64) (bool, error) { return a == b, nil })
	runtime.SetFn2(m, eq, func(a, b string) (bool, error) { return a == b, nil })
	runtime.SetFn2(m, eq, func(a, b bool) (bool, error) { return a == b, nil })

	ne := token.NotEqualTo.Syntax()
	runtime.SetFn2(m, ne, func(a, b int64) (bool, error) { return a != b, nil })
	runtime.SetFn2(m, ne, func(a, b float64) (bool, error) { return a != b, nil })
	runtime.SetFn2(m, ne, func(a, b string) (bool, error) { return a != b, nil })
	runtime.SetFn2(m, ne, func(a, b bool) (bool, error) { return a != b, nil })

	lt := token.LessThan.Syntax()
	runtime.SetFn2(m, lt, func(a, b int64) (bool, error) { return a < b, nil })
	runtime.SetFn2(m, lt, func(a, b float64) (bool, error) { return a < b, nil })
	runtime.SetFn2(m, lt, func(a, b string) (bool, error) { return a < b, nil })

	le := token.LessThanEqual.Syntax()
	runtime.SetFn2(m, le, func(a, b int64) (bool, error) { return a <= b, nil })
	runtime.SetFn2(m, le, func(a, b float64) (bool, error) { return a <= b, nil })
	runtime.SetFn2(m, le, func(a, b string) (bool, error) { return a <= b, nil })

	gt := token.GreaterThan.Syntax()
	runtime.SetFn2(m, gt, func(a, b int64) (bool, error) { return a > b, nil })
	runtime.SetFn2(m, gt, func(a, b float64) (bool, error) { return a > b, nil })
	runtime.SetFn2(m, gt, func(a, b string) (bool, error) { return a > b, nil })

	ge := token.GreaterThanEqual.Syntax()
	runtime.SetFn2(m, ge, func(a, b int64) (bool, error) { return a >= b, nil })
	runtime.SetFn2(m, ge, func(a, b float64) (bool, error) { return a >= b, nil })
	runtime.SetFn2(m, ge, func(a, b string) (bool, error) { return a >= b, nil })
}

func registerUnary(m *runtime.Module) {
	neg := token.Minus.Syntax()
	runtime.SetFn1(m, neg, func(a int64) (int64, error) {
		if a == math.MinInt64 {
			return 0, fmt.Errorf("integer overflow in -%d", a)
		}
		return -a, nil
	})
	runtime.SetFn1(m, neg, func(a float64) (float64, error) { return -a, nil })
	runtime.SetFn1(m, token.Bang.Syntax(), func(a bool) (bool, error) { return !a, nil })
}

func registerUtility(m *runtime.Module, i *Interp) {
	// print writes one line per call to the interpreter's output. The
	// writer is read at call time so SetOutput works after setup.
	runtime.SetFn0(m, "print", func() (runtime.Dynamic, error) {
		fmt.Fprintln(i.out)
		return runtime.Unit(), nil
	})
	runtime.SetFn1(m, "print", func(v runtime.Dynamic) (runtime.Dynamic, error) {
		fmt.Fprintln(i.out, v.String())
		return runtime.Unit(), nil
	})

	runtime.SetFn1(m, "to_string", func(v runtime.Dynamic) (string, error) {
		return v.String(), nil
	})
	runtime.SetFn1(m, "len", func(a []runtime.Dynamic) (int64, error) { return int64(len(a)), nil })
	runtime.SetFn1(m, "len", func(s string) (int64, error) { return int64(len(s)), nil })
	runtime.SetFn1(m, "abs", func(a int64) (int64, error) {
		if a == math.MinInt64 {
			return 0, fmt.Errorf("integer overflow in abs(%d)", a)
		}
		if a < 0 {
			return -a, nil
		}
		return a, nil
	})
	runtime.SetFn1(m, "abs", func(a float64) (float64, error) { return math.Abs(a), nil })
	runtime.SetFn2(m, "contains", func(s, sub string) (bool, error) {
		return strings.Contains(s, sub), nil
	})
	runtime.SetFn3(m, "replace", func(s, old, new string) (string, error) {
		return strings.ReplaceAll(s, old, new), nil
	})

	// Mutating natives: the receiver slot is written back in place.
	runtime.SetFn2M(m, "push", func(a *[]runtime.Dynamic, v runtime.Dynamic) (runtime.Dynamic, error) {
		*a = append(*a, v)
		return runtime.Unit(), nil
	})
	runtime.SetFn1M(m, "pop", func(a *[]runtime.Dynamic) (runtime.Dynamic, error) {
		if len(*a) == 0 {
			return runtime.Unit(), nil
		}
		last := (*a)[len(*a)-1]
		*a = (*a)[:len(*a)-1]
		return last, nil
	})
	runtime.SetFn1M(m, "clear", func(a *[]runtime.Dynamic) (runtime.Dynamic, error) {
		*a = nil
		return runtime.Unit(), nil
	})
	runtime.SetFn1M(m, "clear", func(s *string) (runtime.Dynamic, error) {
		*s = ""
		return runtime.Unit(), nil
	})
	runtime.SetFn3M(m, "insert", func(a *[]runtime.Dynamic, idx int64, v runtime.Dynamic) (runtime.Dynamic, error) {
		if idx < 0 || idx > int64(len(*a)) {
			return runtime.Unit(), fmt.Errorf("insert index %d out of bounds, length is %d", idx, len(*a))
		}
		out := make([]runtime.Dynamic, 0, len(*a)+1)
		out = append(out, (*a)[:idx]...)
		out = append(out, v)
		out = append(out, (*a)[idx:]...)
		*a = out
		return runtime.Unit(), nil
	})
}

func checkedAdd(a, b int64) (int64, error) {
	sum := a + b
	if (a > 0 && b > 0 && sum < 0) || (a < 0 && b < 0 && sum >= 0) {
		return 0, fmt.Errorf("integer overflow in %d + %d", a, b)
	}
	return sum, nil
}

func checkedSub(a, b int64) (int64, error) {
	diff := a - b
	if (b < 0 && diff < a) || (b > 0 && diff > a) {
		return 0, fmt.Errorf("integer overflow in %d - %d", a, b)
	}
	return diff, nil
}

func checkedMul(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if (a == math.MinInt64 && b == -1) || (b == math.MinInt64 && a == -1) {
		return 0, fmt.Errorf("integer overflow in %d * %d", a, b)
	}
	p := a * b
	if p/b != a {
		return 0, fmt.Errorf("integer overflow in %d * %d", a, b)
	}
	return p, nil
}

func checkedDiv(a, b int64) (int64, error) {
	if b == 0 {
		return 0, fmt.Errorf("division by zero")
	}
	if a == math.MinInt64 && b == -1 {
		return 0, fmt.Errorf("integer overflow in %d / %d", a, b)
	}
	return a / b, nil
}

func checkedMod(a, b int64) (int64, error) {
	if b == 0 {
		return 0, fmt.Errorf("modulo by zero")
	}
	return a % b, nil
}
