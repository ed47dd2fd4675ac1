// Package errs defines the sentinel errors returned by the codec core.
//
// Every error a caller might want to match against with errors.Is is
// declared here as a package-level var. Wrapper types that carry extra
// context (the tag id that failed to parse, the path at which a kind
// mismatch occurred) implement Unwrap so errors.Is still finds the
// sentinel underneath.
package errs

import "errors"

var (
	// ErrIoFailure wraps any error returned by the underlying io.Reader or
	// io.Writer.
	ErrIoFailure = errors.New("nbt: i/o failure")

	// ErrUnexpectedEnd is returned when a reader runs out of input mid tag,
	// mid list, or mid compound.
	ErrUnexpectedEnd = errors.New("nbt: unexpected end of data")

	// ErrUnexpectedKind is returned when the caller asks for a value of one
	// kind but the stream holds another. See UnexpectedKindError for the
	// kinds involved.
	ErrUnexpectedKind = errors.New("nbt: unexpected tag kind")

	// ErrInvalidTagId is returned when a byte that should be a tag id isn't
	// one of the 13 known values. See InvalidTagIdError for the byte value.
	ErrInvalidTagId = errors.New("nbt: invalid tag id")

	// ErrInvalidUtf8 is returned when a string payload isn't valid modified
	// UTF-8.
	ErrInvalidUtf8 = errors.New("nbt: invalid modified utf-8")

	// ErrNegativeLength is returned when a length prefix (string, list,
	// array) decodes to a negative number.
	ErrNegativeLength = errors.New("nbt: negative length prefix")

	// ErrNameOutOfPlace is returned when a name is requested outside of a
	// compound's named-entry context (root name excepted).
	ErrNameOutOfPlace = errors.New("nbt: name requested out of place")

	// ErrContextMismatch is returned when a caller ends a compound while a
	// list is open, or vice versa, or ends more contexts than were opened.
	ErrContextMismatch = errors.New("nbt: frame context mismatch")

	// ErrIncompleteDocument is returned when a writer is closed while
	// frames remain open, or when a list is ended before its declared
	// number of elements was written.
	ErrIncompleteDocument = errors.New("nbt: incomplete document")

	// ErrNoConstructor is returned by the engine when a type has no
	// registered way to be instantiated (no zero value, no factory).
	ErrNoConstructor = errors.New("nbt: no constructor available for type")

	// ErrInvalidEnumValue is returned when a decoded scalar doesn't match
	// any of an enum adapter's known values.
	ErrInvalidEnumValue = errors.New("nbt: invalid enum value")

	// ErrUnsupportedKeyType is returned when a map type's key isn't
	// representable as an NBT compound entry name (anything other than
	// a string or an enum).
	ErrUnsupportedKeyType = errors.New("nbt: unsupported map key type")

	// ErrCorruptData is returned for structural violations that don't fit
	// a more specific sentinel, for example a non-zero length paired with
	// an End-kind list.
	ErrCorruptData = errors.New("nbt: corrupt data")

	// ErrNoAdapter is returned by the engine when no factory in any
	// registered list produces an adapter for a requested type.
	ErrNoAdapter = errors.New("nbt: no adapter available for type")

	// ErrCyclicType is returned when a type graph cycles through a
	// concrete (non-pointer, non-interface) type with no indirection to
	// break the cycle, making forwarder resolution impossible.
	ErrCyclicType = errors.New("nbt: unresolvable cyclic type graph")
)
