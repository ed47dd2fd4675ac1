// Package kind defines the TagKind enum: the 13 on-wire tag ids and their
// fixed-size properties.
package kind

import "fmt"

// TagKind identifies the type of an NBT tag's payload.
type TagKind uint8

const (
	End TagKind = iota
	Byte
	Short
	Int
	Long
	Float
	Double
	ByteArray
	String
	List
	Compound
	IntArray
	LongArray
)

var names = [...]string{
	End:       "End",
	Byte:      "Byte",
	Short:     "Short",
	Int:       "Int",
	Long:      "Long",
	Float:     "Float",
	Double:    "Double",
	ByteArray: "ByteArray",
	String:    "String",
	List:      "List",
	Compound:  "Compound",
	IntArray:  "IntArray",
	LongArray: "LongArray",
}

// String renders the kind's canonical name, or a hex fallback for values
// outside the known range.
func (k TagKind) String() string {
	if int(k) < len(names) {
		return names[k]
	}

	return fmt.Sprintf("TagKind(0x%02x)", uint8(k))
}

// Valid reports whether k is one of the 13 known tag ids.
func (k TagKind) Valid() bool {
	return k <= LongArray
}

// fixedSizes holds the payload size in bytes for kinds whose payload has a
// constant width. Variable-width kinds (ByteArray, String, List, Compound,
// IntArray, LongArray) are absent and reported as ok=false.
var fixedSizes = map[TagKind]int{
	Byte:   1,
	Short:  2,
	Int:    4,
	Long:   8,
	Float:  4,
	Double: 8,
}

// FixedSize returns the payload's width in bytes and true for kinds whose
// encoded payload length never depends on the data, e.g. Int is always 4
// bytes. It returns false for variable-width kinds.
func (k TagKind) FixedSize() (int, bool) {
	n, ok := fixedSizes[k]
	return n, ok
}

// IsNumeric reports whether k carries a single numeric scalar (as opposed
// to a string, array, or container).
func (k TagKind) IsNumeric() bool {
	switch k {
	case Byte, Short, Int, Long, Float, Double:
		return true
	default:
		return false
	}
}

// IsArray reports whether k is one of the three array kinds.
func (k TagKind) IsArray() bool {
	switch k {
	case ByteArray, IntArray, LongArray:
		return true
	default:
		return false
	}
}

// IsContainer reports whether k can hold nested entries (List or
// Compound).
func (k TagKind) IsContainer() bool {
	return k == List || k == Compound
}

// ElementKind returns the element kind held by an array kind, and true if
// k is in fact an array kind.
func (k TagKind) ElementKind() (TagKind, bool) {
	switch k {
	case ByteArray:
		return Byte, true
	case IntArray:
		return Int, true
	case LongArray:
		return Long, true
	default:
		return End, false
	}
}
