// Package value defines Value, the tagged union that represents every runtime
// value handled by the compiler and the virtual machine.
package value

import (
	"fmt"
	"math"
	"strconv"
)

// Kind is the tag of a Value.
type Kind uint8

const (
	BoolKind Kind = iota
	NullKind
	NumberKind
	ObjectKind
)

func (k Kind) String() string {
	switch k {
	case BoolKind:
		return "bool"
	case NullKind:
		return "null"
	case NumberKind:
		return "number"
	case ObjectKind:
		return "object"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Object is implemented by every heap-allocated value. Objects compare by
// identity, so implementations must be pointer types.
type Object interface {
	// Type returns the name of the object type, e.g. "string".
	Type() string

	// String returns the printable form of the object.
	String() string
}

// Value is a fixed-size tagged union. The zero Value is false.
type Value struct {
	kind Kind
	num  float64
	obj  Object
}

// Bool returns a boolean Value.
func Bool(b bool) Value {
	if b {
		return Value{kind: BoolKind, num: 1}
	}
	return Value{kind: BoolKind}
}

// Null returns the null Value.
func Null() Value {
	return Value{kind: NullKind}
}

// Number returns a numeric Value.
func Number(n float64) Value {
	return Value{kind: NumberKind, num: n}
}

// FromObject returns a Value referring to obj. A nil obj yields null.
func FromObject(obj Object) Value {
	if obj == nil {
		return Null()
	}
	return Value{kind: ObjectKind, obj: obj}
}

// Kind returns the tag of the value.
func (v Value) Kind() Kind { return v.kind }

func (v Value) IsBool() bool   { return v.kind == BoolKind }
func (v Value) IsNull() bool   { return v.kind == NullKind }
func (v Value) IsNumber() bool { return v.kind == NumberKind }
func (v Value) IsObject() bool { return v.kind == ObjectKind }

// AsBool returns the boolean held by v. It panics if v is not a bool.
func (v Value) AsBool() bool {
	v.mustBe(BoolKind)
	return v.num != 0
}

// AsNumber returns the number held by v. It panics if v is not a number.
func (v Value) AsNumber() float64 {
	v.mustBe(NumberKind)
	return v.num
}

// AsObject returns the object referenced by v. It panics if v is not an
// object.
func (v Value) AsObject() Object {
	v.mustBe(ObjectKind)
	return v.obj
}

func (v Value) mustBe(k Kind) {
	if v.kind != k {
		panic(fmt.Sprintf("value: accessing %s value as %s", v.kind, k))
	}
}

// IsFalsey reports whether v is treated as false by conditionals and the NOT
// operator. Null, false and the number zero are falsey.
func (v Value) IsFalsey() bool {
	switch v.kind {
	case NullKind:
		return true
	case BoolKind, NumberKind:
		return v.num == 0
	default:
		return false
	}
}

// Equal compares two values. Objects are equal only if they are the same
// object.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case NullKind:
		return true
	case ObjectKind:
		return v.obj == other.obj
	default:
		return v.num == other.num
	}
}

// TypeName returns the user-facing type name of v. For objects this is the
// object's own type name.
func (v Value) TypeName() string {
	if v.kind == ObjectKind {
		return v.obj.Type()
	}
	return v.kind.String()
}

func (v Value) String() string {
	switch v.kind {
	case BoolKind:
		if v.num != 0 {
			return "true"
		}
		return "false"
	case NullKind:
		return "null"
	case NumberKind:
		return FormatNumber(v.num)
	case ObjectKind:
		return v.obj.String()
	default:
		return "undefined"
	}
}

// FormatNumber returns the shortest representation of n that parses back to
// the same float64, choosing between fixed and exponent notation.
func FormatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "nan"
	case math.IsInf(n, 1):
		return "inf"
	case math.IsInf(n, -1):
		return "-inf"
	}
	fixed := strconv.FormatFloat(n, 'f', -1, 64)
	exp := strconv.FormatFloat(n, 'e', -1, 64)
	if len(exp) < len(fixed) {
		return exp
	}
	return fixed
}
