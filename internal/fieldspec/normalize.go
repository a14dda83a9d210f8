package fieldspec

// Normalize rewrites a field tree bottom-up into canonical form. Applying it
// twice gives the same tree as applying it once.
func Normalize(f Field) Field {
	switch v := f.(type) {
	case Add:
		return Add{Fields: flatten(KindAdd, v.Fields)}
	case Mul:
		return Mul{Fields: flatten(KindMul, v.Fields)}
	case Min:
		return Min{Fields: flatten(KindMin, v.Fields)}
	case Max:
		return Max{Fields: flatten(KindMax, v.Fields)}
	case Div:
		return Div{Numerator: Normalize(v.Numerator), Divisor: Normalize(v.Divisor)}
	case Negate:
		inner := Normalize(v.Field)
		switch in := inner.(type) {
		case Negate:
			return in.Field
		case Raw:
			return Raw{Value: -in.Value}
		}
		return Negate{Field: inner}
	case Abs:
		inner := Normalize(v.Field)
		switch in := inner.(type) {
		case Abs:
			return in
		case Negate:
			if a, ok := in.Field.(Abs); ok {
				return a
			}
			return Abs{Field: in.Field}
		}
		return Abs{Field: inner}
	case Logical:
		out := Logical{Cond: NormalizeCondition(v.Cond), Then: Normalize(v.Then)}
		if v.Else != nil {
			out.Else = Normalize(v.Else)
		}
		return out
	case Ref:
		return Ref{Name: v.Name, Target: Normalize(v.Target)}
	}
	return f
}

func flatten(kind Kind, fields []Field) []Field {
	out := make([]Field, 0, len(fields))
	for _, f := range fields {
		n := Normalize(f)
		if n.Kind() == kind {
			out = append(out, children(n)...)
			continue
		}
		out = append(out, n)
	}
	return out
}

func children(f Field) []Field {
	switch v := f.(type) {
	case Add:
		return v.Fields
	case Mul:
		return v.Fields
	case Min:
		return v.Fields
	case Max:
		return v.Fields
	}
	return nil
}

// NormalizeCondition rewrites a condition tree bottom-up into canonical form.
func NormalizeCondition(c Condition) Condition {
	switch v := c.(type) {
	case And:
		conds := flattenConds(OpAnd, v.Conds)
		if len(conds) == 1 {
			return conds[0]
		}
		return And{Conds: conds}
	case Or:
		conds := mergeOrEqual(flattenConds(OpOr, v.Conds))
		if len(conds) == 1 {
			return conds[0]
		}
		return Or{Conds: conds}
	case Not:
		inner := NormalizeCondition(v.Cond)
		if n, ok := inner.(Not); ok {
			return n.Cond
		}
		return Not{Cond: inner}
	case Compare:
		return Compare{Cmp: v.Cmp, Left: Normalize(v.Left), Right: Normalize(v.Right)}
	case Equal:
		ops := make([]Field, len(v.Operands))
		for i, f := range v.Operands {
			ops[i] = Normalize(f)
		}
		return Equal{Negated: v.Negated, Operands: ops}
	case Truthy:
		return Truthy{Field: Normalize(v.Field)}
	}
	return c
}

func flattenConds(op Op, conds []Condition) []Condition {
	out := make([]Condition, 0, len(conds))
	for _, c := range conds {
		n := NormalizeCondition(c)
		switch v := n.(type) {
		case And:
			if op == OpAnd {
				out = append(out, v.Conds...)
				continue
			}
		case Or:
			if op == OpOr {
				out = append(out, v.Conds...)
				continue
			}
		}
		out = append(out, n)
	}
	return out
}

// mergeOrEqual folds eq(a, b) || gt(a, b) into gte(a, b), and likewise for lt.
// The merged node takes the position of whichever of the pair came first.
func mergeOrEqual(conds []Condition) []Condition {
	for {
		i, j, merged, ok := findMerge(conds)
		if !ok {
			return conds
		}
		first, second := i, j
		if second < first {
			first, second = second, first
		}
		out := make([]Condition, 0, len(conds)-1)
		for k, c := range conds {
			switch k {
			case first:
				out = append(out, merged)
			case second:
			default:
				out = append(out, c)
			}
		}
		conds = out
	}
}

func findMerge(conds []Condition) (int, int, Condition, bool) {
	for i, c := range conds {
		eq, ok := c.(Equal)
		if !ok || eq.Negated || len(eq.Operands) != 2 {
			continue
		}
		for j, d := range conds {
			cmp, ok := d.(Compare)
			if !ok || (cmp.Cmp != OpGt && cmp.Cmp != OpLt) {
				continue
			}
			same := SameField(eq.Operands[0], cmp.Left) && SameField(eq.Operands[1], cmp.Right)
			swapped := SameField(eq.Operands[0], cmp.Right) && SameField(eq.Operands[1], cmp.Left)
			if !same && !swapped {
				continue
			}
			op := OpGte
			if cmp.Cmp == OpLt {
				op = OpLte
			}
			return i, j, Compare{Cmp: op, Left: cmp.Left, Right: cmp.Right}, true
		}
	}
	return 0, 0, nil, false
}
