package fieldspec

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Encode converts a field tree into its canonical literal form. Simple fields
// become bare names, literals become numbers, and every other node becomes an
// object keyed by "type".
func Encode(f Field) any {
	switch v := f.(type) {
	case Simple:
		return v.Name
	case Raw:
		return v.Value
	case Ref:
		return map[string]any{"type": string(KindRef), "ref": v.Name}
	case Add, Mul, Min, Max:
		kids := children(f)
		out := make([]any, len(kids))
		for i, k := range kids {
			out[i] = Encode(k)
		}
		return map[string]any{"type": string(f.Kind()), "fields": out}
	case Div:
		return map[string]any{
			"type":      string(KindDiv),
			"numerator": Encode(v.Numerator),
			"divisor":   Encode(v.Divisor),
		}
	case Negate:
		return map[string]any{"type": string(KindNegate), "field": Encode(v.Field)}
	case Abs:
		return map[string]any{"type": string(KindAbs), "field": Encode(v.Field)}
	case Logical:
		out := map[string]any{
			"type": string(KindLogical),
			"cond": EncodeCondition(v.Cond),
			"then": Encode(v.Then),
		}
		if v.Else != nil {
			out["else"] = Encode(v.Else)
		}
		return out
	}
	return nil
}

// EncodeCondition converts a condition tree into its canonical literal form.
func EncodeCondition(c Condition) any {
	switch v := c.(type) {
	case And:
		return map[string]any{"op": string(OpAnd), "operands": encodeConds(v.Conds)}
	case Or:
		return map[string]any{"op": string(OpOr), "operands": encodeConds(v.Conds)}
	case Not:
		return map[string]any{"op": string(OpNot), "cond": EncodeCondition(v.Cond)}
	case Compare:
		return map[string]any{"op": string(v.Cmp), "left": Encode(v.Left), "right": Encode(v.Right)}
	case Equal:
		ops := make([]any, len(v.Operands))
		for i, f := range v.Operands {
			ops[i] = Encode(f)
		}
		return map[string]any{"op": string(v.Op()), "operands": ops}
	case Truthy:
		return Encode(v.Field)
	}
	return nil
}

func encodeConds(conds []Condition) []any {
	out := make([]any, len(conds))
	for i, c := range conds {
		out[i] = EncodeCondition(c)
	}
	return out
}

// Marshal renders the canonical form as JSON. Object keys are sorted, so equal
// trees produce identical bytes.
func Marshal(f Field) ([]byte, error) {
	return json.Marshal(Encode(f))
}

func describe(b *strings.Builder, f Field) {
	switch v := f.(type) {
	case Simple:
		b.WriteString(v.Name)
	case Ref:
		b.WriteString(v.Name)
	case Raw:
		b.WriteString(strconv.FormatFloat(v.Value, 'g', -1, 64))
	case Add:
		b.WriteByte('(')
		for i, k := range v.Fields {
			if n, ok := k.(Negate); ok && i > 0 {
				b.WriteString(" - ")
				describe(b, n.Field)
				continue
			}
			if i > 0 {
				b.WriteString(" + ")
			}
			describe(b, k)
		}
		b.WriteByte(')')
	case Mul:
		describeJoin(b, "(", " * ", ")", v.Fields)
	case Min:
		describeJoin(b, "min(", ", ", ")", v.Fields)
	case Max:
		describeJoin(b, "max(", ", ", ")", v.Fields)
	case Div:
		describeJoin(b, "(", " / ", ")", []Field{v.Numerator, v.Divisor})
	case Negate:
		b.WriteByte('-')
		describe(b, v.Field)
	case Abs:
		describeJoin(b, "abs(", "", ")", []Field{v.Field})
	case Logical:
		b.WriteByte('(')
		describeCond(b, v.Cond)
		b.WriteString(" ? ")
		describe(b, v.Then)
		if v.Else != nil {
			b.WriteString(" : ")
			describe(b, v.Else)
		}
		b.WriteByte(')')
	}
}

func describeJoin(b *strings.Builder, open, sep, closing string, fields []Field) {
	b.WriteString(open)
	for i, f := range fields {
		if i > 0 {
			b.WriteString(sep)
		}
		describe(b, f)
	}
	b.WriteString(closing)
}

var opSymbols = map[Op]string{
	OpAnd: " && ",
	OpOr:  " || ",
	OpGt:  " > ",
	OpLt:  " < ",
	OpGte: " >= ",
	OpLte: " <= ",
	OpEq:  " == ",
	OpNeq: " != ",
}

func describeCond(b *strings.Builder, c Condition) {
	switch v := c.(type) {
	case And, Or:
		var conds []Condition
		if a, ok := v.(And); ok {
			conds = a.Conds
		} else {
			conds = v.(Or).Conds
		}
		b.WriteByte('(')
		for i, k := range conds {
			if i > 0 {
				b.WriteString(opSymbols[c.Op()])
			}
			describeCond(b, k)
		}
		b.WriteByte(')')
	case Not:
		b.WriteByte('!')
		describeCond(b, v.Cond)
	case Compare:
		describe(b, v.Left)
		b.WriteString(opSymbols[v.Cmp])
		describe(b, v.Right)
	case Equal:
		for i, f := range v.Operands {
			if i > 0 {
				b.WriteString(opSymbols[v.Op()])
			}
			describe(b, f)
		}
	case Truthy:
		describe(b, v.Field)
	}
}
