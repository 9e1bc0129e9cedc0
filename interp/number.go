package interp

import (
	"go/token"

	"github.com/shopspring/decimal"
)

// Number is the arithmetic evaluator's value type. It wraps an exact
// decimal so that positions, sizes, durations and offsets never drift
// through binary floating point, while still behaving like a rational
// number for the small set of operations the DSL needs.
type Number struct {
	d decimal.Decimal
}

// NewInt builds a Number from an integer literal.
func NewInt(v int64) Number { return Number{d: decimal.NewFromInt(v)} }

func (n Number) Add(o Number) Number { return Number{d: n.d.Add(o.d)} }
func (n Number) Sub(o Number) Number { return Number{d: n.d.Sub(o.d)} }
func (n Number) Mul(o Number) Number { return Number{d: n.d.Mul(o.d)} }

// Div divides n by o. Division is carried out at high precision; callers
// that require an integral result call AsInt afterwards.
func (n Number) Div(o Number) (Number, bool) {
	if o.d.IsZero() {
		return Number{}, false
	}
	return Number{d: n.d.DivRound(o.d, 20)}, true
}

func Max(ns ...Number) Number {
	if len(ns) == 0 {
		return Number{}
	}
	max := ns[0]
	for _, n := range ns[1:] {
		if n.d.GreaterThan(max.d) {
			max = n
		}
	}
	return max
}

func (n Number) Cmp(o Number) int          { return n.d.Cmp(o.d) }
func (n Number) IsZero() bool              { return n.d.IsZero() }
func (n Number) LessThan(o Number) bool    { return n.d.LessThan(o.d) }
func (n Number) GreaterThan(o Number) bool { return n.d.GreaterThan(o.d) }
func (n Number) LessOrEqual(o Number) bool { return !n.d.GreaterThan(o.d) }

// IsInteger reports whether n is integral.
func (n Number) IsInteger() bool {
	return n.d.Truncate(0).Equal(n.d)
}

// AsInt returns n's integer value. The caller must have already checked
// IsInteger.
func (n Number) AsInt() int64 { return n.d.IntPart() }

func (n Number) String() string { return n.d.String() }

// RequireInt checks a Number in a context that demands an integer
// (array shapes, loop bounds, dimension indices) and fails NotInteger
// otherwise.
func RequireInt(n Number, pos token.Position) (int64, error) {
	if !n.IsInteger() {
		return 0, newEvalError(pos, ErrNotInteger, "%s is not an integer", n.String())
	}
	return n.AsInt(), nil
}
