package fieldspec

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError reports why a spec was rejected and where.
type ValidationError struct {
	Path string
	Msg  string
}

func (e *ValidationError) Error() string {
	return e.Path + ": " + e.Msg
}

func errAt(path, format string, args ...any) error {
	return &ValidationError{Path: path, Msg: fmt.Sprintf(format, args...)}
}

func index(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}

func member(path, key string) string {
	return path + "." + key
}

// Parser validates specs against a fixed set of declared field names.
type Parser struct {
	fields map[string]struct{}
	refs   map[string]Field
}

// NewParser returns a parser accepting the given field names.
func NewParser(fields []string) *Parser {
	p := &Parser{
		fields: make(map[string]struct{}, len(fields)),
		refs:   map[string]Field{},
	}
	for _, f := range fields {
		p.fields[f] = struct{}{}
	}
	return p
}

// HasField reports whether name is a declared field.
func (p *Parser) HasField(name string) bool {
	_, ok := p.fields[name]
	return ok
}

// HasRef reports whether name is a defined ref.
func (p *Parser) HasRef(name string) bool {
	_, ok := p.refs[name]
	return ok
}

// Fields returns the declared field names, sorted.
func (p *Parser) Fields() []string {
	out := make([]string, 0, len(p.fields))
	for f := range p.fields {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// DefineRef registers a named alias. The alias body may use fields and
// previously defined refs.
func (p *Parser) DefineRef(name string, raw any) error {
	if name == "" {
		return errAt("$", "ref name is empty")
	}
	if p.HasField(name) {
		return errAt("$", "ref %q shadows a field", name)
	}
	if _, dup := p.refs[name]; dup {
		return errAt("$", "ref %q already defined", name)
	}
	f, err := p.Parse(raw)
	if err != nil {
		return fmt.Errorf("ref %q: %w", name, err)
	}
	p.refs[name] = f
	return nil
}

// Parse validates and normalizes a field spec.
func (p *Parser) Parse(raw any) (Field, error) {
	f, err := p.field(raw, "$")
	if err != nil {
		return nil, err
	}
	return Normalize(f), nil
}

// ParseCondition validates and normalizes a condition spec.
func (p *Parser) ParseCondition(raw any) (Condition, error) {
	c, err := p.cond(raw, "$")
	if err != nil {
		return nil, err
	}
	return NormalizeCondition(c), nil
}

// Same reports whether two specs parse to the same canonical tree.
func (p *Parser) Same(a, b any) (bool, error) {
	fa, err := p.Parse(a)
	if err != nil {
		return false, err
	}
	fb, err := p.Parse(b)
	if err != nil {
		return false, err
	}
	return SameField(fa, fb), nil
}

func (p *Parser) field(raw any, path string) (Field, error) {
	switch v := raw.(type) {
	case nil:
		return nil, errAt(path, "missing field spec")
	case Field:
		return p.field(Encode(v), path)
	case string:
		return p.name(v, path)
	case bool:
		return nil, errAt(path, "boolean %v is not a field", v)
	case map[string]any:
		return p.object(v, path)
	}
	if n, ok := toNumber(raw); ok {
		return Raw{Value: n}, nil
	}
	if list, ok := asList(raw); ok {
		return p.tuple(list, path)
	}
	return nil, errAt(path, "unsupported spec of type %T", raw)
}

func (p *Parser) name(name, path string) (Field, error) {
	if p.HasField(name) {
		return Simple{Name: name}, nil
	}
	if target, ok := p.refs[name]; ok {
		return Ref{Name: name, Target: target}, nil
	}
	return nil, errAt(path, "unknown field %q", name)
}

func (p *Parser) tuple(list []any, path string) (Field, error) {
	switch len(list) {
	case 0:
		return nil, errAt(path, "empty tuple")
	case 1:
		return p.field(list[0], index(path, 0))
	}
	if op, ok := list[1].(string); ok && len(list)%2 == 1 {
		if op == "?" {
			return p.ternary(list, path)
		}
		if isInfix(op) {
			return p.infix(list, path)
		}
	}
	if head, ok := list[0].(string); ok && !p.isName(head) {
		if kind, ok := LookupKind(head); ok {
			return p.prefix(kind, list[1:], path)
		}
	}
	return nil, errAt(path, "cannot interpret tuple of %d elements", len(list))
}

func (p *Parser) isName(s string) bool {
	if p.HasField(s) {
		return true
	}
	_, ok := p.refs[s]
	return ok
}

func isInfix(op string) bool {
	if op == "-" || op == "sub" {
		return true
	}
	switch fieldAliases[op] {
	case KindAdd, KindMul, KindDiv, KindMin, KindMax:
		return true
	}
	return false
}

func additive(op string) bool {
	return op == "-" || op == "sub" || fieldAliases[op] == KindAdd
}

func (p *Parser) infix(list []any, path string) (Field, error) {
	first := list[1].(string)
	kind := fieldAliases[first]
	if additive(first) {
		kind = KindAdd
	}
	for i := 3; i < len(list); i += 2 {
		op, ok := list[i].(string)
		if !ok || !isInfix(op) {
			return nil, errAt(index(path, i), "expected operator, got %v", list[i])
		}
		if kind == KindAdd && additive(op) {
			continue
		}
		if fieldAliases[op] != kind {
			return nil, errAt(index(path, i), "operator %q mixed with %q; nest tuples instead", op, first)
		}
	}
	operands := make([]Field, 0, len(list)/2+1)
	for i := 0; i < len(list); i += 2 {
		f, err := p.field(list[i], index(path, i))
		if err != nil {
			return nil, err
		}
		if i > 0 {
			if op := list[i-1].(string); op == "-" || op == "sub" {
				f = Negate{Field: f}
			}
		}
		operands = append(operands, f)
	}
	switch kind {
	case KindAdd:
		return Add{Fields: operands}, nil
	case KindMul:
		return Mul{Fields: operands}, nil
	case KindMin:
		return Min{Fields: operands}, nil
	case KindMax:
		return Max{Fields: operands}, nil
	}
	// Division chains associate to the left.
	acc := operands[0]
	for _, f := range operands[1:] {
		acc = Div{Numerator: acc, Divisor: f}
	}
	return acc, nil
}

func (p *Parser) ternary(list []any, path string) (Field, error) {
	if len(list) != 3 && len(list) != 5 {
		return nil, errAt(path, "conditional tuple needs [cond, \"?\", then] or [cond, \"?\", then, \":\", else]")
	}
	cond, err := p.cond(list[0], index(path, 0))
	if err != nil {
		return nil, err
	}
	then, err := p.field(list[2], index(path, 2))
	if err != nil {
		return nil, err
	}
	out := Logical{Cond: cond, Then: then}
	if len(list) == 5 {
		if sep, ok := list[3].(string); !ok || sep != ":" {
			return nil, errAt(index(path, 3), "expected \":\"")
		}
		if out.Else, err = p.field(list[4], index(path, 4)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (p *Parser) prefix(kind Kind, args []any, path string) (Field, error) {
	argPath := func(i int) string { return index(path, i+1) }
	fields := func() ([]Field, error) {
		out := make([]Field, 0, len(args))
		for i, a := range args {
			f, err := p.field(a, argPath(i))
			if err != nil {
				return nil, err
			}
			out = append(out, f)
		}
		return out, nil
	}
	switch kind {
	case KindAdd, KindMul, KindMin, KindMax:
		if len(args) < 2 {
			return nil, errAt(path, "%s requires at least 2 operands, got %d", kind, len(args))
		}
		fs, err := fields()
		if err != nil {
			return nil, err
		}
		return nary(kind, fs), nil
	case KindDiv:
		if len(args) != 2 {
			return nil, errAt(path, "div requires exactly 2 operands, got %d", len(args))
		}
		fs, err := fields()
		if err != nil {
			return nil, err
		}
		return Div{Numerator: fs[0], Divisor: fs[1]}, nil
	case KindNegate, KindAbs:
		if len(args) != 1 {
			return nil, errAt(path, "%s requires exactly 1 operand, got %d", kind, len(args))
		}
		f, err := p.field(args[0], argPath(0))
		if err != nil {
			return nil, err
		}
		if kind == KindAbs {
			return Abs{Field: f}, nil
		}
		return Negate{Field: f}, nil
	case KindLogical:
		if len(args) != 2 && len(args) != 3 {
			return nil, errAt(path, "logical requires cond, then and optional else")
		}
		cond, err := p.cond(args[0], argPath(0))
		if err != nil {
			return nil, err
		}
		then, err := p.field(args[1], argPath(1))
		if err != nil {
			return nil, err
		}
		out := Logical{Cond: cond, Then: then}
		if len(args) == 3 {
			if out.Else, err = p.field(args[2], argPath(2)); err != nil {
				return nil, err
			}
		}
		return out, nil
	case KindSimple, KindRef:
		if len(args) != 1 {
			return nil, errAt(path, "%s requires exactly 1 name", kind)
		}
		s, ok := args[0].(string)
		if !ok {
			return nil, errAt(argPath(0), "expected a name, got %T", args[0])
		}
		return p.namedKind(kind, s, argPath(0))
	case KindRaw:
		if len(args) != 1 {
			return nil, errAt(path, "raw requires exactly 1 value")
		}
		n, ok := toNumber(args[0])
		if !ok {
			return nil, errAt(argPath(0), "raw value must be a number, got %T", args[0])
		}
		return Raw{Value: n}, nil
	}
	return nil, errAt(path, "unsupported type %q", kind)
}

func (p *Parser) namedKind(kind Kind, name, path string) (Field, error) {
	if kind == KindSimple {
		if !p.HasField(name) {
			return nil, errAt(path, "unknown field %q", name)
		}
		return Simple{Name: name}, nil
	}
	target, ok := p.refs[name]
	if !ok {
		return nil, errAt(path, "unknown ref %q", name)
	}
	return Ref{Name: name, Target: target}, nil
}

func nary(kind Kind, fs []Field) Field {
	switch kind {
	case KindMul:
		return Mul{Fields: fs}
	case KindMin:
		return Min{Fields: fs}
	case KindMax:
		return Max{Fields: fs}
	}
	return Add{Fields: fs}
}

func discriminator(m map[string]any, path string) (string, string, error) {
	for _, key := range []string{"type", "op"} {
		v, ok := m[key]
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return "", "", errAt(member(path, key), "discriminator must be a string, got %T", v)
		}
		return s, key, nil
	}
	return "", "", errAt(path, "object needs a \"type\" or \"op\" discriminator")
}

// pick returns the value stored under the first present key of an alias group.
func pick(m map[string]any, path string, keys ...string) (any, string, error) {
	var found string
	for _, k := range keys {
		if _, ok := m[k]; ok {
			if found != "" {
				return nil, "", errAt(path, "keys %q and %q conflict", found, k)
			}
			found = k
		}
	}
	if found == "" {
		return nil, "", nil
	}
	return m[found], found, nil
}

func checkKeys(m map[string]any, path string, allowed ...string) error {
	for k := range m {
		ok := false
		for _, a := range allowed {
			if k == a {
				ok = true
				break
			}
		}
		if !ok {
			return errAt(member(path, k), "unexpected key %q", k)
		}
	}
	return nil
}

var (
	operandKeys = []string{"fields", "operands", "left", "right"}
	childKeys   = []string{"field", "operand"}
	condKeys    = []string{"cond", "condition", "if"}
	thenKeys    = []string{"then", "true", "ifTrue"}
	elseKeys    = []string{"else", "false", "ifFalse"}
)

// operands collects the operand list of an n-ary object, in either the
// {fields|operands: [...]} or the {left, right} form.
func operands(m map[string]any, path string) ([]any, []string, error) {
	list, key, err := pick(m, path, "fields", "operands")
	if err != nil {
		return nil, nil, err
	}
	_, hasLeft := m["left"]
	_, hasRight := m["right"]
	if key != "" {
		if hasLeft || hasRight {
			return nil, nil, errAt(path, "use either %q or left/right", key)
		}
		items, ok := asList(list)
		if !ok {
			return nil, nil, errAt(member(path, key), "expected a list, got %T", list)
		}
		paths := make([]string, len(items))
		for i := range items {
			paths[i] = index(member(path, key), i)
		}
		return items, paths, nil
	}
	if hasLeft && hasRight {
		return []any{m["left"], m["right"]}, []string{member(path, "left"), member(path, "right")}, nil
	}
	if hasLeft || hasRight {
		return nil, nil, errAt(path, "left and right must both be present")
	}
	return nil, nil, errAt(path, "missing operands")
}

func (p *Parser) object(m map[string]any, path string) (Field, error) {
	disc, discKey, err := discriminator(m, path)
	if err != nil {
		return nil, err
	}
	kind, ok := LookupKind(disc)
	if !ok {
		if _, isCond := LookupOp(disc); isCond {
			return nil, errAt(member(path, discKey), "condition %q cannot be used as a value", disc)
		}
		return nil, errAt(member(path, discKey), "unknown type %q", disc)
	}

	switch kind {
	case KindSimple, KindRef:
		if err := checkKeys(m, path, discKey, "field", "name", "ref"); err != nil {
			return nil, err
		}
		keys := []string{"field", "name"}
		if kind == KindRef {
			keys = []string{"ref", "name"}
		}
		v, key, err := pick(m, path, keys...)
		if err != nil {
			return nil, err
		}
		if key == "" {
			return nil, errAt(path, "%s requires %q", kind, keys[0])
		}
		s, ok := v.(string)
		if !ok {
			return nil, errAt(member(path, key), "expected a name, got %T", v)
		}
		return p.namedKind(kind, s, member(path, key))

	case KindAdd, KindMul, KindMin, KindMax:
		if err := checkKeys(m, path, append([]string{discKey}, operandKeys...)...); err != nil {
			return nil, err
		}
		items, paths, err := operands(m, path)
		if err != nil {
			return nil, err
		}
		if len(items) < 2 {
			return nil, errAt(path, "%s requires at least 2 operands, got %d", kind, len(items))
		}
		fs := make([]Field, 0, len(items))
		for i, it := range items {
			f, err := p.field(it, paths[i])
			if err != nil {
				return nil, err
			}
			fs = append(fs, f)
		}
		return nary(kind, fs), nil

	case KindDiv:
		if err := checkKeys(m, path, discKey, "numerator", "divisor", "denominator", "left", "right"); err != nil {
			return nil, err
		}
		num, numKey, err := pick(m, path, "numerator", "left")
		if err != nil {
			return nil, err
		}
		div, divKey, err := pick(m, path, "divisor", "denominator", "right")
		if err != nil {
			return nil, err
		}
		if numKey == "" || divKey == "" {
			return nil, errAt(path, "div requires numerator and divisor")
		}
		n, err := p.field(num, member(path, numKey))
		if err != nil {
			return nil, err
		}
		d, err := p.field(div, member(path, divKey))
		if err != nil {
			return nil, err
		}
		return Div{Numerator: n, Divisor: d}, nil

	case KindNegate, KindAbs:
		if err := checkKeys(m, path, append([]string{discKey, "operands"}, childKeys...)...); err != nil {
			return nil, err
		}
		child, key, err := pick(m, path, append([]string{"operands"}, childKeys...)...)
		if err != nil {
			return nil, err
		}
		childPath := member(path, key)
		if key == "operands" {
			items, ok := asList(child)
			if !ok || len(items) != 1 {
				return nil, errAt(childPath, "%s requires exactly 1 operand", kind)
			}
			child, childPath = items[0], index(childPath, 0)
		}
		if key == "" {
			return nil, errAt(path, "%s requires exactly 1 operand, got 0", kind)
		}
		f, err := p.field(child, childPath)
		if err != nil {
			return nil, err
		}
		if kind == KindAbs {
			return Abs{Field: f}, nil
		}
		return Negate{Field: f}, nil

	case KindLogical:
		allowed := append([]string{discKey}, condKeys...)
		allowed = append(allowed, thenKeys...)
		allowed = append(allowed, elseKeys...)
		if err := checkKeys(m, path, allowed...); err != nil {
			return nil, err
		}
		c, cKey, err := pick(m, path, condKeys...)
		if err != nil {
			return nil, err
		}
		t, tKey, err := pick(m, path, thenKeys...)
		if err != nil {
			return nil, err
		}
		e, eKey, err := pick(m, path, elseKeys...)
		if err != nil {
			return nil, err
		}
		if cKey == "" || tKey == "" {
			return nil, errAt(path, "logical requires a condition and a then branch")
		}
		cond, err := p.cond(c, member(path, cKey))
		if err != nil {
			return nil, err
		}
		then, err := p.field(t, member(path, tKey))
		if err != nil {
			return nil, err
		}
		out := Logical{Cond: cond, Then: then}
		if eKey != "" {
			if out.Else, err = p.field(e, member(path, eKey)); err != nil {
				return nil, err
			}
		}
		return out, nil

	case KindRaw:
		if err := checkKeys(m, path, discKey, "value"); err != nil {
			return nil, err
		}
		n, ok := toNumber(m["value"])
		if !ok {
			return nil, errAt(member(path, "value"), "raw value must be a number")
		}
		return Raw{Value: n}, nil
	}
	return nil, errAt(path, "unsupported type %q", kind)
}

func (p *Parser) cond(raw any, path string) (Condition, error) {
	switch v := raw.(type) {
	case nil:
		return nil, errAt(path, "missing condition")
	case Condition:
		return p.cond(EncodeCondition(v), path)
	case Field:
		return p.cond(Encode(v), path)
	case string:
		f, err := p.name(v, path)
		if err != nil {
			return nil, err
		}
		return Truthy{Field: f}, nil
	case bool:
		return nil, errAt(path, "boolean %v is not a condition", v)
	case map[string]any:
		disc, discKey, err := discriminator(v, path)
		if err != nil {
			return nil, err
		}
		if op, ok := LookupOp(disc); ok {
			return p.condObject(op, v, discKey, path)
		}
		if _, ok := LookupKind(disc); ok {
			f, err := p.object(v, path)
			if err != nil {
				return nil, err
			}
			return Truthy{Field: f}, nil
		}
		return nil, errAt(member(path, discKey), "unknown op %q", disc)
	}
	if list, ok := asList(raw); ok {
		return p.condTuple(list, path)
	}
	if n, ok := toNumber(raw); ok {
		return Truthy{Field: Raw{Value: n}}, nil
	}
	return nil, errAt(path, "unsupported condition of type %T", raw)
}

func (p *Parser) condTuple(list []any, path string) (Condition, error) {
	switch len(list) {
	case 0:
		return nil, errAt(path, "empty tuple")
	case 1:
		return p.cond(list[0], index(path, 0))
	}
	if sop, ok := list[1].(string); ok && len(list)%2 == 1 {
		if op, ok := LookupOp(sop); ok && op != OpNot {
			for i := 3; i < len(list); i += 2 {
				s, _ := list[i].(string)
				if next, ok := LookupOp(s); !ok || next != op {
					return nil, errAt(index(path, i), "operator %v mixed with %q; nest tuples instead", list[i], sop)
				}
			}
			args := make([]any, 0, len(list)/2+1)
			paths := make([]string, 0, len(list)/2+1)
			for i := 0; i < len(list); i += 2 {
				args = append(args, list[i])
				paths = append(paths, index(path, i))
			}
			return p.condOperands(op, args, paths, path)
		}
	}
	if head, ok := list[0].(string); ok && !p.isName(head) {
		if op, ok := LookupOp(head); ok {
			args := list[1:]
			paths := make([]string, len(args))
			for i := range args {
				paths[i] = index(path, i+1)
			}
			return p.condOperands(op, args, paths, path)
		}
	}
	f, err := p.tuple(list, path)
	if err != nil {
		return nil, err
	}
	return Truthy{Field: f}, nil
}

func (p *Parser) condObject(op Op, v map[string]any, discKey, path string) (Condition, error) {
	if op == OpNot {
		if err := checkKeys(v, path, discKey, "cond", "condition", "operand", "operands"); err != nil {
			return nil, err
		}
		child, key, err := pick(v, path, "cond", "condition", "operand", "operands")
		if err != nil {
			return nil, err
		}
		if key == "" {
			return nil, errAt(path, "not requires exactly 1 operand, got 0")
		}
		childPath := member(path, key)
		if key == "operands" {
			items, ok := asList(child)
			if !ok || len(items) != 1 {
				return nil, errAt(childPath, "not requires exactly 1 operand")
			}
			child, childPath = items[0], index(childPath, 0)
		}
		c, err := p.cond(child, childPath)
		if err != nil {
			return nil, err
		}
		return Not{Cond: c}, nil
	}
	if err := checkKeys(v, path, discKey, "operands", "conditions", "left", "right"); err != nil {
		return nil, err
	}
	probe := v
	if _, ok := v["conditions"]; ok {
		probe = map[string]any{"operands": v["conditions"]}
		if _, dup := v["operands"]; dup {
			return nil, errAt(path, "keys \"operands\" and \"conditions\" conflict")
		}
	}
	items, paths, err := operands(probe, path)
	if err != nil {
		return nil, err
	}
	if _, ok := v["conditions"]; ok {
		for i := range paths {
			paths[i] = index(member(path, "conditions"), i)
		}
	}
	return p.condOperands(op, items, paths, path)
}

func (p *Parser) condOperands(op Op, args []any, paths []string, path string) (Condition, error) {
	switch op {
	case OpNot:
		if len(args) != 1 {
			return nil, errAt(path, "not requires exactly 1 operand, got %d", len(args))
		}
		c, err := p.cond(args[0], paths[0])
		if err != nil {
			return nil, err
		}
		return Not{Cond: c}, nil
	case OpAnd, OpOr:
		if len(args) < 2 {
			return nil, errAt(path, "%s requires at least 2 operands, got %d", op, len(args))
		}
		cs := make([]Condition, 0, len(args))
		for i, a := range args {
			c, err := p.cond(a, paths[i])
			if err != nil {
				return nil, err
			}
			cs = append(cs, c)
		}
		if op == OpAnd {
			return And{Conds: cs}, nil
		}
		return Or{Conds: cs}, nil
	case OpGt, OpLt, OpGte, OpLte:
		if len(args) != 2 {
			return nil, errAt(path, "%s requires exactly 2 operands, got %d", op, len(args))
		}
		l, err := p.field(args[0], paths[0])
		if err != nil {
			return nil, err
		}
		r, err := p.field(args[1], paths[1])
		if err != nil {
			return nil, err
		}
		return Compare{Cmp: op, Left: l, Right: r}, nil
	case OpEq, OpNeq:
		if len(args) < 2 {
			return nil, errAt(path, "%s requires at least 2 operands, got %d", op, len(args))
		}
		fs := make([]Field, 0, len(args))
		for i, a := range args {
			f, err := p.field(a, paths[i])
			if err != nil {
				return nil, err
			}
			fs = append(fs, f)
		}
		return Equal{Negated: op == OpNeq, Operands: fs}, nil
	}
	return nil, errAt(path, "unsupported op %q", op)
}

func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// Describe renders a field as a short infix expression.
func Describe(f Field) string {
	var b strings.Builder
	describe(&b, f)
	return b.String()
}
