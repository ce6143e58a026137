// Package value defines Ember's runtime values: a small tagged union of
// booleans, nil, 32-bit floats and heap objects, plus the intrusively
// linked object list that owns every heap allocation made by the
// compiler and the VM.
package value

import "strconv"

// Kind tags the variant a Value holds.
type Kind int

const (
	KindBool Kind = iota
	KindNil
	KindNumber
	KindObject
)

// Value is a plain copyable runtime value. For KindObject the pointer is
// a non-owning back-reference into the object list; the list itself owns
// the allocation.
type Value struct {
	kind    Kind
	boolean bool
	number  float32
	object  Object
}

// NewBool wraps a boolean.
func NewBool(b bool) Value {
	return Value{kind: KindBool, boolean: b}
}

// NewNil returns the nil value.
func NewNil() Value {
	return Value{kind: KindNil}
}

// NewNumber wraps a number.
func NewNumber(n float32) Value {
	return Value{kind: KindNumber, number: n}
}

// NewObject wraps a non-owning reference to a heap object.
func NewObject(obj Object) Value {
	return Value{kind: KindObject, object: obj}
}

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

func (v Value) IsBool() bool   { return v.kind == KindBool }
func (v Value) IsNil() bool    { return v.kind == KindNil }
func (v Value) IsNumber() bool { return v.kind == KindNumber }
func (v Value) IsObject() bool { return v.kind == KindObject }

// IsString reports whether the value references a string object.
func (v Value) IsString() bool {
	return v.kind == KindObject && v.object.ObjectType() == TypeString
}

// AsBool returns the boolean payload. Only valid for KindBool.
func (v Value) AsBool() bool { return v.boolean }

// AsNumber returns the numeric payload. Only valid for KindNumber.
func (v Value) AsNumber() float32 { return v.number }

// AsObject returns the object reference. Only valid for KindObject.
func (v Value) AsObject() Object { return v.object }

// AsString returns the text of the referenced string object. Only valid
// when IsString.
func (v Value) AsString() string {
	return v.object.(*StringObject).Text
}

// IsFalsey reports whether the value is nil or false. Every other value
// is truthy.
func (v Value) IsFalsey() bool {
	return v.kind == KindNil || (v.kind == KindBool && !v.boolean)
}

// Equal compares two values. Values of different kinds are never equal;
// nil equals nil, numbers and booleans compare by payload, and objects
// compare equal iff both are strings with equal content.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNil:
		return true
	case KindBool:
		return a.boolean == b.boolean
	case KindNumber:
		return a.number == b.number
	case KindObject:
		if a.IsString() && b.IsString() {
			return a.AsString() == b.AsString()
		}
		return false
	default:
		return false
	}
}

// String renders the value the way the VM prints it.
func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		if v.boolean {
			return "true"
		}
		return "false"
	case KindNumber:
		return strconv.FormatFloat(float64(v.number), 'g', -1, 32)
	case KindObject:
		if v.IsString() {
			return v.AsString()
		}
		return "object"
	default:
		return "unknown"
	}
}
