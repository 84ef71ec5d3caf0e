package value

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIncomparable reports a comparison between kinds that have no defined
// ordering, e.g. TEXT against INT.
var ErrIncomparable = errors.New("value: incomparable kinds")

// CompareOp is a binary comparison operator as it appears in a predicate.
type CompareOp uint8

const (
	Eq CompareOp = iota
	Ne
	Gt
	Lt
	Ge
	Le
)

func (op CompareOp) String() string {
	switch op {
	case Eq:
		return "="
	case Ne:
		return "!="
	case Gt:
		return ">"
	case Lt:
		return "<"
	case Ge:
		return ">="
	case Le:
		return "<="
	default:
		return fmt.Sprintf("OP(%d)", op)
	}
}

// Compare orders v against o, returning -1, 0 or 1. Ordering is defined only
// between values of the same kind, except that INT and FLOAT compare
// numerically with each other. Any comparison involving NULL or two unrelated
// kinds returns ErrIncomparable.
func (v Value) Compare(o Value) (int, error) {
	switch {
	case v.kind == KindInt && o.kind == KindInt:
		return cmpInt(v.i, o.i), nil
	case v.isNumeric() && o.isNumeric():
		return cmpFloat(v.asFloat(), o.asFloat()), nil
	case v.kind == KindText && o.kind == KindText:
		return strings.Compare(v.s, o.s), nil
	case v.kind == KindBool && o.kind == KindBool:
		return cmpBool(v.b, o.b), nil
	default:
		return 0, fmt.Errorf("value: cannot compare %s with %s: %w", v.kind, o.kind, ErrIncomparable)
	}
}

// Matches evaluates `v op o`. Equality operators are additionally defined when
// either side is NULL: NULL equals only NULL and differs from everything else.
// Ordering operators on NULL, or between unrelated kinds, fail with
// ErrIncomparable.
func (v Value) Matches(op CompareOp, o Value) (bool, error) {
	if v.IsNull() || o.IsNull() {
		switch op {
		case Eq:
			return v.IsNull() && o.IsNull(), nil
		case Ne:
			return !(v.IsNull() && o.IsNull()), nil
		default:
			return false, fmt.Errorf("value: cannot order %s against %s: %w", v.kind, o.kind, ErrIncomparable)
		}
	}
	c, err := v.Compare(o)
	if err != nil {
		return false, err
	}
	switch op {
	case Eq:
		return c == 0, nil
	case Ne:
		return c != 0, nil
	case Gt:
		return c > 0, nil
	case Lt:
		return c < 0, nil
	case Ge:
		return c >= 0, nil
	case Le:
		return c <= 0, nil
	default:
		return false, fmt.Errorf("value: unsupported operator %s", op)
	}
}

// Equal reports whether the two values compare equal under Matches. Unlike
// Matches it cannot fail: values of unrelated kinds simply report false.
func (v Value) Equal(o Value) bool {
	ok, err := v.Matches(Eq, o)
	return err == nil && ok
}

func (v Value) isNumeric() bool { return v.kind == KindInt || v.kind == KindFloat }

func (v Value) asFloat() float64 {
	if v.kind == KindInt {
		return float64(v.i)
	}
	return v.f
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case b:
		return -1
	default:
		return 1
	}
}
