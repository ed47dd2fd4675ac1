// Package stream implements the push/pull state machines that enforce
// structural correctness over the NBT wire format: Reader pulls tokens
// from a big-endian byte source, Writer pushes tokens to a big-endian
// byte sink. Both maintain an explicit stack of frames mirroring the
// Root/Compound/List nesting of the document; neither buffers more of
// the document than the current frame stack.
package stream

import "github.com/arloliu/nbtgo/kind"

type frameContext uint8

const (
	ctxRoot frameContext = iota
	ctxCompound
	ctxList
)

// frame is the reader-side shape of one nesting level (the writer keeps
// its own wframe). Not every field is meaningful in every context; see
// the comments on each field.
type frame struct {
	context frameContext

	// kindSet/kind: the current token's kind, valid in Root and Compound
	// contexts once resolved by a peek. Cleared after each value is
	// consumed.
	kindSet bool
	kind    kind.TagKind

	// nameSet/name: the current token's name, valid in Root and Compound
	// contexts once resolved. Read once, never changes until the next
	// token.
	nameSet bool
	name    string

	// listElemKind/listLen/listRemaining: valid only in List contexts.
	listElemKind  kind.TagKind
	listLen       int32
	listRemaining int32
}

// UnknownName is returned by Name in contexts where a name has no
// meaning: inside a List frame, or when the current token is End.
const UnknownName = "unknown"
