package stream

import (
	"bytes"
	"io"
	"strings"

	"github.com/arloliu/nbtgo/errs"
	"github.com/arloliu/nbtgo/kind"
	"github.com/arloliu/nbtgo/wire"
)

// Reader is a pull-style, big-endian structured decoder over a byte
// source. It is not safe for concurrent use; a single Reader is owned by
// exactly one goroutine for its lifetime.
type Reader struct {
	r       io.Reader
	scratch [8]byte
	frames  []frame
}

// NewReader wraps r. The reader starts with a single pre-existing Root
// frame; Peek on a fresh Reader reads the document's outermost kind
// byte.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		r:      r,
		frames: []frame{{context: ctxRoot}},
	}
}

func (rd *Reader) top() *frame { return &rd.frames[len(rd.frames)-1] }

// Depth reports the number of open nested contexts, not counting the
// root frame.
func (rd *Reader) Depth() int { return len(rd.frames) - 1 }

// Path renders the current position as a diagnostic string, compound
// names joined by '.' and list indices as "[i]".
func (rd *Reader) Path() string {
	var b strings.Builder

	for i, f := range rd.frames {
		if i == 0 {
			continue
		}

		switch f.context {
		case ctxCompound:
			if f.nameSet {
				if b.Len() > 0 {
					b.WriteByte('.')
				}

				b.WriteString(f.name)
			}
		case ctxList:
			b.WriteByte('[')
			b.WriteString(itoa(int(f.listLen - f.listRemaining)))
			b.WriteByte(']')
		}
	}

	if b.Len() == 0 {
		return "$"
	}

	return b.String()
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}

	neg := n < 0
	if neg {
		n = -n
	}

	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}

	if neg {
		i--
		buf[i] = '-'
	}

	return string(buf[i:])
}

// Peek reports the kind of the token at the current position without
// consuming its payload. In Root and Compound contexts it reads exactly
// the one-byte kind id the first time it's called for a given token; in
// List contexts it derives the kind from the list header, consuming no
// bytes.
func (rd *Reader) Peek() (kind.TagKind, error) {
	f := rd.top()

	switch f.context {
	case ctxRoot, ctxCompound:
		if f.kindSet {
			return f.kind, nil
		}

		b, err := wire.ReadRawByte(rd.r, rd.scratch[:])
		if err != nil {
			return 0, err
		}

		k := kind.TagKind(b)
		if !k.Valid() {
			return 0, &errs.InvalidTagIdError{Path: rd.Path(), Id: b}
		}

		f.kind = k
		f.kindSet = true
		f.nameSet = false
		f.name = ""

		return k, nil

	case ctxList:
		if f.listRemaining > 0 {
			return f.listElemKind, nil
		}

		return kind.End, nil
	}

	panic("stream: unreachable frame context")
}

// Name resolves the current token's name, peeking first if the token's
// kind has not been read yet. Valid until the value read that consumes
// the token. Returns UnknownName in a List frame or when the current
// kind is End.
func (rd *Reader) Name() (string, error) {
	f := rd.top()

	if f.context == ctxList {
		return UnknownName, nil
	}

	if !f.kindSet {
		if _, err := rd.Peek(); err != nil {
			return "", err
		}
	}

	if f.kind == kind.End {
		return UnknownName, nil
	}

	if f.nameSet {
		return f.name, nil
	}

	name, err := wire.ReadString(rd.r, rd.scratch[:])
	if err != nil {
		return "", err
	}

	f.name = name
	f.nameSet = true

	return name, nil
}

// expectKind peeks and asserts the result equals want.
func (rd *Reader) expectKind(want kind.TagKind) error {
	k, err := rd.Peek()
	if err != nil {
		return err
	}

	if k != want {
		return &errs.UnexpectedKindError{Path: rd.Path(), Expected: want.String(), Found: k.String()}
	}

	return nil
}

// ensureNameConsumed reads and discards the name if the caller never
// asked for it, so the stream position advances past it before a
// payload read.
func (rd *Reader) ensureNameConsumed() error {
	f := rd.top()
	if f.context == ctxList || f.kind == kind.End || f.nameSet {
		return nil
	}

	_, err := rd.Name()

	return err
}

// advance clears the outer-frame bookkeeping after a value has been
// fully consumed: in Root/Compound, the current kind and name are
// cleared so the next Peek reads a fresh token; in List, the remaining
// count is decremented.
func (rd *Reader) advance() {
	f := rd.top()

	switch f.context {
	case ctxRoot, ctxCompound:
		f.kindSet = false
		f.nameSet = false
		f.name = ""
	case ctxList:
		f.listRemaining--
	}
}

// ReadByte reads the current token as a Byte payload.
func (rd *Reader) ReadByte() (int8, error) {
	if err := rd.expectKind(kind.Byte); err != nil {
		return 0, err
	}

	if err := rd.ensureNameConsumed(); err != nil {
		return 0, err
	}

	v, err := wire.ReadByte(rd.r, rd.scratch[:])
	if err != nil {
		return 0, err
	}

	rd.advance()

	return v, nil
}

// ReadShort reads the current token as a Short payload.
func (rd *Reader) ReadShort() (int16, error) {
	if err := rd.expectKind(kind.Short); err != nil {
		return 0, err
	}

	if err := rd.ensureNameConsumed(); err != nil {
		return 0, err
	}

	v, err := wire.ReadShort(rd.r, rd.scratch[:])
	if err != nil {
		return 0, err
	}

	rd.advance()

	return v, nil
}

// ReadInt reads the current token as an Int payload.
func (rd *Reader) ReadInt() (int32, error) {
	if err := rd.expectKind(kind.Int); err != nil {
		return 0, err
	}

	if err := rd.ensureNameConsumed(); err != nil {
		return 0, err
	}

	v, err := wire.ReadInt(rd.r, rd.scratch[:])
	if err != nil {
		return 0, err
	}

	rd.advance()

	return v, nil
}

// ReadLong reads the current token as a Long payload.
func (rd *Reader) ReadLong() (int64, error) {
	if err := rd.expectKind(kind.Long); err != nil {
		return 0, err
	}

	if err := rd.ensureNameConsumed(); err != nil {
		return 0, err
	}

	v, err := wire.ReadLong(rd.r, rd.scratch[:])
	if err != nil {
		return 0, err
	}

	rd.advance()

	return v, nil
}

// ReadFloat reads the current token as a Float payload.
func (rd *Reader) ReadFloat() (float32, error) {
	if err := rd.expectKind(kind.Float); err != nil {
		return 0, err
	}

	if err := rd.ensureNameConsumed(); err != nil {
		return 0, err
	}

	v, err := wire.ReadFloat(rd.r, rd.scratch[:])
	if err != nil {
		return 0, err
	}

	rd.advance()

	return v, nil
}

// ReadDouble reads the current token as a Double payload.
func (rd *Reader) ReadDouble() (float64, error) {
	if err := rd.expectKind(kind.Double); err != nil {
		return 0, err
	}

	if err := rd.ensureNameConsumed(); err != nil {
		return 0, err
	}

	v, err := wire.ReadDouble(rd.r, rd.scratch[:])
	if err != nil {
		return 0, err
	}

	rd.advance()

	return v, nil
}

// ReadString reads the current token as a String payload.
func (rd *Reader) ReadString() (string, error) {
	if err := rd.expectKind(kind.String); err != nil {
		return "", err
	}

	if err := rd.ensureNameConsumed(); err != nil {
		return "", err
	}

	v, err := wire.ReadString(rd.r, rd.scratch[:])
	if err != nil {
		return "", err
	}

	rd.advance()

	return v, nil
}

func (rd *Reader) readLength() (int32, error) {
	n, err := wire.ReadInt(rd.r, rd.scratch[:])
	if err != nil {
		return 0, err
	}

	if n < 0 {
		return 0, &errs.PathError{Path: rd.Path(), Err: errs.ErrNegativeLength}
	}

	return n, nil
}

// ReadByteArray reads the current token as a ByteArray payload.
func (rd *Reader) ReadByteArray() ([]byte, error) {
	if err := rd.expectKind(kind.ByteArray); err != nil {
		return nil, err
	}

	if err := rd.ensureNameConsumed(); err != nil {
		return nil, err
	}

	n, err := rd.readLength()
	if err != nil {
		return nil, err
	}

	buf := make([]byte, n)
	if n > 0 {
		if _, err := io.ReadFull(rd.r, buf); err != nil {
			return nil, wire.IoError(err)
		}
	}

	rd.advance()

	return buf, nil
}

// ReadIntArray reads the current token as an IntArray payload.
func (rd *Reader) ReadIntArray() ([]int32, error) {
	if err := rd.expectKind(kind.IntArray); err != nil {
		return nil, err
	}

	if err := rd.ensureNameConsumed(); err != nil {
		return nil, err
	}

	n, err := rd.readLength()
	if err != nil {
		return nil, err
	}

	out := make([]int32, n)
	for i := range out {
		v, err := wire.ReadInt(rd.r, rd.scratch[:])
		if err != nil {
			return nil, err
		}

		out[i] = v
	}

	rd.advance()

	return out, nil
}

// ReadLongArray reads the current token as a LongArray payload.
func (rd *Reader) ReadLongArray() ([]int64, error) {
	if err := rd.expectKind(kind.LongArray); err != nil {
		return nil, err
	}

	if err := rd.ensureNameConsumed(); err != nil {
		return nil, err
	}

	n, err := rd.readLength()
	if err != nil {
		return nil, err
	}

	out := make([]int64, n)
	for i := range out {
		v, err := wire.ReadLong(rd.r, rd.scratch[:])
		if err != nil {
			return nil, err
		}

		out[i] = v
	}

	rd.advance()

	return out, nil
}

// BeginCompound enters a nested Compound context. The caller must have
// already confirmed (via Peek) that the current token is Compound.
func (rd *Reader) BeginCompound() error {
	if err := rd.expectKind(kind.Compound); err != nil {
		return err
	}

	if err := rd.ensureNameConsumed(); err != nil {
		return err
	}

	rd.frames = append(rd.frames, frame{context: ctxCompound})

	return nil
}

// EndCompound closes the current Compound context. The current token
// must be End (i.e. the caller has peeked and seen the terminator).
func (rd *Reader) EndCompound() error {
	f := rd.top()
	if f.context != ctxCompound {
		return &errs.PathError{Path: rd.Path(), Err: errs.ErrContextMismatch}
	}

	k, err := rd.Peek()
	if err != nil {
		return err
	}

	if k != kind.End {
		return &errs.UnexpectedKindError{Path: rd.Path(), Expected: kind.End.String(), Found: k.String()}
	}

	rd.frames = rd.frames[:len(rd.frames)-1]
	rd.advance()

	return nil
}

// BeginList enters a nested List context, reading its element-kind byte
// and int32 length header. A declared length of zero always yields an
// effective element kind of End, regardless of the header's element
// kind byte. A nonzero length paired with an End element kind is
// rejected as corrupt.
func (rd *Reader) BeginList() (kind.TagKind, int32, error) {
	if err := rd.expectKind(kind.List); err != nil {
		return 0, 0, err
	}

	if err := rd.ensureNameConsumed(); err != nil {
		return 0, 0, err
	}

	elemID, err := wire.ReadRawByte(rd.r, rd.scratch[:])
	if err != nil {
		return 0, 0, err
	}

	elemKind := kind.TagKind(elemID)
	if !elemKind.Valid() {
		return 0, 0, &errs.InvalidTagIdError{Path: rd.Path(), Id: elemID}
	}

	length, err := rd.readLength()
	if err != nil {
		return 0, 0, err
	}

	switch {
	case length == 0:
		elemKind = kind.End
	case elemKind == kind.End:
		return 0, 0, &errs.PathError{Path: rd.Path(), Err: errs.ErrCorruptData}
	}

	rd.frames = append(rd.frames, frame{
		context:       ctxList,
		listElemKind:  elemKind,
		listLen:       length,
		listRemaining: length,
	})

	return elemKind, length, nil
}

// EndList closes the current List context. All elements must have been
// consumed (remaining == 0).
func (rd *Reader) EndList() error {
	f := rd.top()
	if f.context != ctxList {
		return &errs.PathError{Path: rd.Path(), Err: errs.ErrContextMismatch}
	}

	if f.listRemaining != 0 {
		return &errs.UnexpectedKindError{Path: rd.Path(), Expected: kind.End.String(), Found: f.listElemKind.String()}
	}

	rd.frames = rd.frames[:len(rd.frames)-1]
	rd.advance()

	return nil
}

// ListRemaining reports the number of unread elements in the current
// List context.
func (rd *Reader) ListRemaining() int32 {
	return rd.top().listRemaining
}

// Skip skips exactly one element at the current position, then closes
// depth enclosing contexts (skipping their remaining siblings first).
// Fixed-size scalars and arrays of fixed-size scalars are skipped by
// byte count rather than by decoding each value.
func (rd *Reader) Skip(depth int) error {
	if err := rd.skipOne(); err != nil {
		return err
	}

	for i := 0; i < depth; i++ {
		f := rd.top()

		switch f.context {
		case ctxCompound:
			if err := rd.skipRestOfFrame(); err != nil {
				return err
			}

			if err := rd.EndCompound(); err != nil {
				return err
			}

		case ctxList:
			if err := rd.skipRestOfFrame(); err != nil {
				return err
			}

			if err := rd.EndList(); err != nil {
				return err
			}

		default:
			return &errs.PathError{Path: rd.Path(), Err: errs.ErrContextMismatch}
		}
	}

	return nil
}

func (rd *Reader) skipRestOfFrame() error {
	for {
		k, err := rd.Peek()
		if err != nil {
			return err
		}

		if k == kind.End {
			return nil
		}

		if err := rd.skipOne(); err != nil {
			return err
		}
	}
}

// skipOne skips the single value at the current position without
// touching enclosing contexts.
func (rd *Reader) skipOne() error {
	k, err := rd.Peek()
	if err != nil {
		return err
	}

	if k == kind.End {
		return nil
	}

	if err := rd.ensureNameConsumed(); err != nil {
		return err
	}

	if n, ok := k.FixedSize(); ok {
		if _, err := io.CopyN(io.Discard, rd.r, int64(n)); err != nil {
			return wire.IoError(err)
		}

		rd.advance()

		return nil
	}

	switch k {
	case kind.String:
		if _, err := wire.ReadString(rd.r, rd.scratch[:]); err != nil {
			return err
		}

		rd.advance()

	case kind.ByteArray:
		n, err := rd.readLength()
		if err != nil {
			return err
		}

		if _, err := io.CopyN(io.Discard, rd.r, int64(n)); err != nil {
			return wire.IoError(err)
		}

		rd.advance()

	case kind.IntArray:
		n, err := rd.readLength()
		if err != nil {
			return err
		}

		if _, err := io.CopyN(io.Discard, rd.r, int64(n)*4); err != nil {
			return wire.IoError(err)
		}

		rd.advance()

	case kind.LongArray:
		n, err := rd.readLength()
		if err != nil {
			return err
		}

		if _, err := io.CopyN(io.Discard, rd.r, int64(n)*8); err != nil {
			return wire.IoError(err)
		}

		rd.advance()

	case kind.Compound:
		if err := rd.BeginCompound(); err != nil {
			return err
		}

		if err := rd.skipRestOfFrame(); err != nil {
			return err
		}

		return rd.EndCompound()

	case kind.List:
		elemKind, length, err := rd.BeginList()
		if err != nil {
			return err
		}

		if n, ok := elemKind.FixedSize(); ok {
			if _, err := io.CopyN(io.Discard, rd.r, int64(n)*int64(length)); err != nil {
				return wire.IoError(err)
			}

			rd.top().listRemaining = 0
		} else if err := rd.skipRestOfFrame(); err != nil {
			return err
		}

		return rd.EndList()
	}

	return nil
}

// CaptureRaw returns the exact bytes that reading-then-skipping the
// current element would consume, including a synthesized leading kind
// byte and name (empty, in a List context) so the result can be parsed
// again from a fresh Reader as a standalone value.
func (rd *Reader) CaptureRaw() ([]byte, error) {
	f := rd.top()

	k, err := rd.Peek()
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	buf.WriteByte(byte(k))

	name := ""
	if f.context != ctxList && k != kind.End {
		name, err = rd.Name()
		if err != nil {
			return nil, err
		}
	}

	if err := wire.WriteString(buf, rd.scratch[:], name); err != nil {
		return nil, err
	}

	orig := rd.r
	rd.r = io.TeeReader(orig, buf)
	err = rd.skipOne()
	rd.r = orig

	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
