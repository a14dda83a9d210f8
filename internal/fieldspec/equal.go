package fieldspec

// SameField reports whether two normalized field trees are structurally equal.
// Refs compare by name.
func SameField(a, b Field) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case Simple:
		return x.Name == b.(Simple).Name
	case Raw:
		return x.Value == b.(Raw).Value
	case Ref:
		return x.Name == b.(Ref).Name
	case Add:
		return sameFields(x.Fields, b.(Add).Fields)
	case Mul:
		return sameFields(x.Fields, b.(Mul).Fields)
	case Min:
		return sameFields(x.Fields, b.(Min).Fields)
	case Max:
		return sameFields(x.Fields, b.(Max).Fields)
	case Div:
		y := b.(Div)
		return SameField(x.Numerator, y.Numerator) && SameField(x.Divisor, y.Divisor)
	case Negate:
		return SameField(x.Field, b.(Negate).Field)
	case Abs:
		return SameField(x.Field, b.(Abs).Field)
	case Logical:
		y := b.(Logical)
		return SameCondition(x.Cond, y.Cond) && SameField(x.Then, y.Then) && SameField(x.Else, y.Else)
	}
	return false
}

func sameFields(a, b []Field) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !SameField(a[i], b[i]) {
			return false
		}
	}
	return true
}

// SameCondition reports whether two normalized condition trees are equal.
func SameCondition(a, b Condition) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Op() != b.Op() {
		return false
	}
	switch x := a.(type) {
	case And:
		return sameConds(x.Conds, b.(And).Conds)
	case Or:
		return sameConds(x.Conds, b.(Or).Conds)
	case Not:
		return SameCondition(x.Cond, b.(Not).Cond)
	case Compare:
		y := b.(Compare)
		return SameField(x.Left, y.Left) && SameField(x.Right, y.Right)
	case Equal:
		return sameFields(x.Operands, b.(Equal).Operands)
	case Truthy:
		return SameField(x.Field, b.(Truthy).Field)
	}
	return false
}

func sameConds(a, b []Condition) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !SameCondition(a[i], b[i]) {
			return false
		}
	}
	return true
}
