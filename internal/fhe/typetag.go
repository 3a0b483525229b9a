package fhe

import "fmt"

// TypeTag identifies the logical type of an encrypted value.
type TypeTag uint8

const (
	TypeBool TypeTag = iota
	TypeUint4
	TypeUint8
	TypeUint16
	TypeUint32
	TypeUint64
	TypeUint128
	TypeUint160
	TypeUint256
	TypeBytes64
	TypeBytes128
	TypeBytes256

	numTypeTags
)

var typeTagNames = [numTypeTags]string{
	TypeBool:     "ebool",
	TypeUint4:    "euint4",
	TypeUint8:    "euint8",
	TypeUint16:   "euint16",
	TypeUint32:   "euint32",
	TypeUint64:   "euint64",
	TypeUint128:  "euint128",
	TypeUint160:  "eaddress",
	TypeUint256:  "euint256",
	TypeBytes64:  "ebytes64",
	TypeBytes128: "ebytes128",
	TypeBytes256: "ebytes256",
}

// TypeTagFromByte converts a raw tag byte into a TypeTag. Returns false
// for any byte outside the defined range.
func TypeTagFromByte(b byte) (TypeTag, bool) {
	if b >= byte(numTypeTags) {
		return 0, false
	}
	return TypeTag(b), true
}

// Name returns the canonical short name for the tag.
func (t TypeTag) Name() string {
	if t >= numTypeTags {
		return fmt.Sprintf("invalid(%d)", uint8(t))
	}
	return typeTagNames[t]
}

// String implements fmt.Stringer.
func (t TypeTag) String() string {
	return t.Name()
}
