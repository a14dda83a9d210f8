package fieldspec

import (
	"math"
	"sort"
)

// Source supplies field values during evaluation.
type Source interface {
	Value(field string) (float64, bool)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(field string) (float64, bool)

// Value implements Source.
func (f SourceFunc) Value(field string) (float64, bool) { return f(field) }

// Eval computes a field. The second result is false when a referenced field
// has no value, a divisor is zero, or a conditional without an else branch
// does not hold.
func Eval(f Field, src Source) (float64, bool) {
	switch v := f.(type) {
	case Simple:
		return src.Value(v.Name)
	case Raw:
		return v.Value, true
	case Ref:
		return Eval(v.Target, src)
	case Add:
		return fold(v.Fields, src, func(a, b float64) float64 { return a + b })
	case Mul:
		return fold(v.Fields, src, func(a, b float64) float64 { return a * b })
	case Min:
		return fold(v.Fields, src, math.Min)
	case Max:
		return fold(v.Fields, src, math.Max)
	case Div:
		n, ok := Eval(v.Numerator, src)
		if !ok {
			return 0, false
		}
		d, ok := Eval(v.Divisor, src)
		if !ok || d == 0 {
			return 0, false
		}
		return n / d, true
	case Negate:
		x, ok := Eval(v.Field, src)
		return -x, ok
	case Abs:
		x, ok := Eval(v.Field, src)
		return math.Abs(x), ok
	case Logical:
		hold, ok := Test(v.Cond, src)
		if !ok {
			return 0, false
		}
		if hold {
			return Eval(v.Then, src)
		}
		if v.Else == nil {
			return 0, false
		}
		return Eval(v.Else, src)
	}
	return 0, false
}

func fold(fields []Field, src Source, op func(a, b float64) float64) (float64, bool) {
	if len(fields) == 0 {
		return 0, false
	}
	acc, ok := Eval(fields[0], src)
	if !ok {
		return 0, false
	}
	for _, f := range fields[1:] {
		x, ok := Eval(f, src)
		if !ok {
			return 0, false
		}
		acc = op(acc, x)
	}
	return acc, true
}

// Test evaluates a condition. The second result is false when an operand has
// no value.
func Test(c Condition, src Source) (bool, bool) {
	switch v := c.(type) {
	case And:
		for _, k := range v.Conds {
			hold, ok := Test(k, src)
			if !ok {
				return false, false
			}
			if !hold {
				return false, true
			}
		}
		return true, true
	case Or:
		for _, k := range v.Conds {
			hold, ok := Test(k, src)
			if !ok {
				return false, false
			}
			if hold {
				return true, true
			}
		}
		return false, true
	case Not:
		hold, ok := Test(v.Cond, src)
		return !hold, ok
	case Compare:
		l, ok := Eval(v.Left, src)
		if !ok {
			return false, false
		}
		r, ok := Eval(v.Right, src)
		if !ok {
			return false, false
		}
		switch v.Cmp {
		case OpGt:
			return l > r, true
		case OpLt:
			return l < r, true
		case OpGte:
			return l >= r, true
		case OpLte:
			return l <= r, true
		}
		return false, false
	case Equal:
		var first float64
		all := true
		for i, f := range v.Operands {
			x, ok := Eval(f, src)
			if !ok {
				return false, false
			}
			if i == 0 {
				first = x
			} else if x != first {
				all = false
			}
		}
		return all != v.Negated, true
	case Truthy:
		x, ok := Eval(v.Field, src)
		return x != 0, ok
	}
	return false, false
}

// Names returns the distinct simple field names a tree depends on, sorted.
func Names(f Field) []string {
	seen := map[string]struct{}{}
	collect(f, seen)
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func collect(f Field, seen map[string]struct{}) {
	switch v := f.(type) {
	case Simple:
		seen[v.Name] = struct{}{}
	case Ref:
		collect(v.Target, seen)
	case Add, Mul, Min, Max:
		for _, k := range children(f) {
			collect(k, seen)
		}
	case Div:
		collect(v.Numerator, seen)
		collect(v.Divisor, seen)
	case Negate:
		collect(v.Field, seen)
	case Abs:
		collect(v.Field, seen)
	case Logical:
		collectCond(v.Cond, seen)
		collect(v.Then, seen)
		if v.Else != nil {
			collect(v.Else, seen)
		}
	}
}

func collectCond(c Condition, seen map[string]struct{}) {
	switch v := c.(type) {
	case And:
		for _, k := range v.Conds {
			collectCond(k, seen)
		}
	case Or:
		for _, k := range v.Conds {
			collectCond(k, seen)
		}
	case Not:
		collectCond(v.Cond, seen)
	case Compare:
		collect(v.Left, seen)
		collect(v.Right, seen)
	case Equal:
		for _, f := range v.Operands {
			collect(f, seen)
		}
	case Truthy:
		collect(v.Field, seen)
	}
}
