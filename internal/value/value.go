// Package value defines the scalar value model shared by every layer of the
// engine: a closed tagged union over integer, float, text, boolean and NULL,
// with comparison semantics that refuse to order values of unrelated kinds.
package value

import (
	"strconv"
	"strings"
)

// Kind tags the runtime type of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindText
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "NULL"
	case KindInt:
		return "INT"
	case KindFloat:
		return "FLOAT"
	case KindText:
		return "TEXT"
	case KindBool:
		return "BOOL"
	default:
		return "KIND(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is one scalar cell. The zero value is NULL.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
	b    bool
}

func Null() Value               { return Value{} }
func NewInt(v int64) Value      { return Value{kind: KindInt, i: v} }
func NewFloat(v float64) Value  { return Value{kind: KindFloat, f: v} }
func NewText(v string) Value    { return Value{kind: KindText, s: v} }
func NewBool(v bool) Value      { return Value{kind: KindBool, b: v} }

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Int returns the integer payload; the bool reports whether the value holds one.
func (v Value) Int() (int64, bool) { return v.i, v.kind == KindInt }

func (v Value) Float() (float64, bool) { return v.f, v.kind == KindFloat }
func (v Value) Text() (string, bool)   { return v.s, v.kind == KindText }
func (v Value) Bool() (bool, bool)     { return v.b, v.kind == KindBool }

// Any unwraps the payload as a plain Go value (nil for NULL).
func (v Value) Any() any {
	switch v.kind {
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindText:
		return v.s
	case KindBool:
		return v.b
	default:
		return nil
	}
}

// String renders the value as a SQL-ish literal, for logs and error messages.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindText:
		return "'" + strings.ReplaceAll(v.s, "'", "''") + "'"
	case KindBool:
		if v.b {
			return "TRUE"
		}
		return "FALSE"
	default:
		return "NULL"
	}
}
