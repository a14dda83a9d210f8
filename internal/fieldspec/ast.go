// Package fieldspec implements a small expression language describing derived
// display values over named summary fields.
//
// Specs are JSON/TOML compatible literals. A bare string names a field, tuples
// such as ["cliffs.total", "+", "doubleDoubles.total"] are shorthand for
// operator nodes, and objects such as {"type": "div", "numerator": ...,
// "divisor": ...} spell nodes out. Every successful parse is normalized, so
// equivalent inputs produce identical trees.
package fieldspec

// Kind discriminates field nodes.
type Kind string

const (
	KindSimple  Kind = "simple"
	KindAdd     Kind = "add"
	KindMul     Kind = "mul"
	KindDiv     Kind = "div"
	KindNegate  Kind = "negate"
	KindAbs     Kind = "abs"
	KindLogical Kind = "logical"
	KindMin     Kind = "min"
	KindMax     Kind = "max"
	KindRef     Kind = "ref"
	KindRaw     Kind = "raw"
)

// Op discriminates condition nodes.
type Op string

const (
	OpAnd    Op = "and"
	OpOr     Op = "or"
	OpNot    Op = "not"
	OpGt     Op = "gt"
	OpLt     Op = "lt"
	OpGte    Op = "gte"
	OpLte    Op = "lte"
	OpEq     Op = "eq"
	OpNeq    Op = "neq"
	OpTruthy Op = "truthy"
)

// Field is a numeric expression node.
type Field interface {
	Kind() Kind
}

// Condition is a boolean expression node.
type Condition interface {
	Op() Op
}

// Simple references a declared summary field.
type Simple struct {
	Name string
}

// Add sums its operands.
type Add struct {
	Fields []Field
}

// Mul multiplies its operands.
type Mul struct {
	Fields []Field
}

// Div divides Numerator by Divisor.
type Div struct {
	Numerator Field
	Divisor   Field
}

// Negate flips the sign of its operand.
type Negate struct {
	Field Field
}

// Abs takes the absolute value of its operand.
type Abs struct {
	Field Field
}

// Logical picks Then when Cond holds, otherwise Else. A nil Else yields no value.
type Logical struct {
	Cond Condition
	Then Field
	Else Field
}

// Min is the smallest operand.
type Min struct {
	Fields []Field
}

// Max is the largest operand.
type Max struct {
	Fields []Field
}

// Ref is a named alias resolved at parse time.
type Ref struct {
	Name   string
	Target Field
}

// Raw is a literal number.
type Raw struct {
	Value float64
}

func (Simple) Kind() Kind  { return KindSimple }
func (Add) Kind() Kind     { return KindAdd }
func (Mul) Kind() Kind     { return KindMul }
func (Div) Kind() Kind     { return KindDiv }
func (Negate) Kind() Kind  { return KindNegate }
func (Abs) Kind() Kind     { return KindAbs }
func (Logical) Kind() Kind { return KindLogical }
func (Min) Kind() Kind     { return KindMin }
func (Max) Kind() Kind     { return KindMax }
func (Ref) Kind() Kind     { return KindRef }
func (Raw) Kind() Kind     { return KindRaw }

// And holds when every operand holds.
type And struct {
	Conds []Condition
}

// Or holds when any operand holds.
type Or struct {
	Conds []Condition
}

// Not inverts its operand.
type Not struct {
	Cond Condition
}

// Compare is a binary ordering test (gt, lt, gte, lte).
type Compare struct {
	Cmp   Op
	Left  Field
	Right Field
}

// Equal tests whether all operands are equal; Negated inverts the result.
type Equal struct {
	Negated  bool
	Operands []Field
}

// Truthy holds when a field has a non-zero value.
type Truthy struct {
	Field Field
}

func (And) Op() Op       { return OpAnd }
func (Or) Op() Op        { return OpOr }
func (Not) Op() Op       { return OpNot }
func (c Compare) Op() Op { return c.Cmp }
func (Truthy) Op() Op    { return OpTruthy }

func (e Equal) Op() Op {
	if e.Negated {
		return OpNeq
	}
	return OpEq
}

var fieldAliases = map[string]Kind{
	"simple":  KindSimple,
	"field":   KindSimple,
	"add":     KindAdd,
	"+":       KindAdd,
	"sum":     KindAdd,
	"mul":     KindMul,
	"*":       KindMul,
	"product": KindMul,
	"div":     KindDiv,
	"/":       KindDiv,
	"negate":  KindNegate,
	"neg":     KindNegate,
	"-":       KindNegate,
	"abs":     KindAbs,
	"logical": KindLogical,
	"if":      KindLogical,
	"?":       KindLogical,
	"min":     KindMin,
	"max":     KindMax,
	"ref":     KindRef,
	"raw":     KindRaw,
	"const":   KindRaw,
}

var condAliases = map[string]Op{
	"and": OpAnd,
	"&&":  OpAnd,
	"or":  OpOr,
	"||":  OpOr,
	"not": OpNot,
	"!":   OpNot,
	"gt":  OpGt,
	">":   OpGt,
	"lt":  OpLt,
	"<":   OpLt,
	"gte": OpGte,
	">=":  OpGte,
	"lte": OpLte,
	"<=":  OpLte,
	"eq":  OpEq,
	"==":  OpEq,
	"=":   OpEq,
	"neq": OpNeq,
	"!=":  OpNeq,
}

// LookupKind resolves a field discriminator or alias.
func LookupKind(s string) (Kind, bool) {
	k, ok := fieldAliases[s]
	return k, ok
}

// LookupOp resolves a condition discriminator or alias.
func LookupOp(s string) (Op, bool) {
	op, ok := condAliases[s]
	return op, ok
}
