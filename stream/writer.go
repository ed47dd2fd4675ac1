package stream

import (
	"fmt"
	"io"
	"strings"

	"github.com/arloliu/nbtgo/errs"
	"github.com/arloliu/nbtgo/kind"
	"github.com/arloliu/nbtgo/wire"
)

// wframe is the writer-side nesting level. It tracks the same three
// contexts as the reader's frame but with writer-specific bookkeeping:
// a pending name awaiting its value, and (for List) the deferred header
// state.
type wframe struct {
	context frameContext

	pendingName    string
	pendingNameSet bool

	listElemKind kind.TagKind
	elemKindSet  bool
	listLen      int32
	writtenCount int32
	headerWritten bool
}

// Writer is a push-style, big-endian structured encoder over a byte
// sink. It is not safe for concurrent use.
type Writer struct {
	w       io.Writer
	scratch [8]byte
	frames  []wframe
}

// NewWriter wraps w. The writer starts with a single Root frame.
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		w:      w,
		frames: []wframe{{context: ctxRoot}},
	}
}

func (w *Writer) top() *wframe { return &w.frames[len(w.frames)-1] }

// Path renders the current position as a diagnostic string.
func (w *Writer) Path() string {
	var b strings.Builder

	for i, f := range w.frames {
		if i == 0 {
			continue
		}

		switch f.context {
		case ctxCompound:
			if f.pendingNameSet {
				if b.Len() > 0 {
					b.WriteByte('.')
				}

				b.WriteString(f.pendingName)
			}
		case ctxList:
			b.WriteByte('[')
			b.WriteString(itoa(int(f.writtenCount)))
			b.WriteByte(']')
		}
	}

	if b.Len() == 0 {
		return "$"
	}

	return b.String()
}

// Name sets the name that will be attached to the next value emitted in
// the current Root or Compound context. It is an error to call Name
// inside a List context.
func (w *Writer) Name(s string) error {
	f := w.top()
	if f.context == ctxList {
		return &errs.PathError{Path: w.Path(), Err: errs.ErrNameOutOfPlace}
	}

	f.pendingName = s
	f.pendingNameSet = true

	return nil
}

// beginValue performs the bookkeeping common to every value emission:
// in Root/Compound it writes the kind-id byte and the pending (or
// default-empty, at Root) name; in List it writes or validates the
// deferred list header.
func (w *Writer) beginValue(k kind.TagKind) error {
	f := w.top()

	switch f.context {
	case ctxRoot, ctxCompound:
		if f.context == ctxCompound && !f.pendingNameSet {
			return fmt.Errorf("%w: value emitted in compound at %s without a preceding Name", errs.ErrNameOutOfPlace, w.Path())
		}

		name := f.pendingName

		if err := wire.WriteRawByte(w.w, w.scratch[:], byte(k)); err != nil {
			return err
		}

		if err := wire.WriteString(w.w, w.scratch[:], name); err != nil {
			return err
		}

		f.pendingName = ""
		f.pendingNameSet = false

		return nil

	case ctxList:
		if f.headerWritten {
			if f.listElemKind != k {
				return &errs.UnexpectedKindError{Path: w.Path(), Expected: f.listElemKind.String(), Found: k.String()}
			}

			f.writtenCount++

			return nil
		}

		elemKind := k
		if f.elemKindSet && f.listElemKind != k {
			return &errs.UnexpectedKindError{Path: w.Path(), Expected: f.listElemKind.String(), Found: k.String()}
		}

		if err := wire.WriteRawByte(w.w, w.scratch[:], byte(elemKind)); err != nil {
			return err
		}

		if err := wire.WriteInt(w.w, w.scratch[:], f.listLen); err != nil {
			return err
		}

		f.listElemKind = elemKind
		f.elemKindSet = true
		f.headerWritten = true
		f.writtenCount++

		return nil
	}

	panic("stream: unreachable frame context")
}

// WriteByte emits a Byte value.
func (w *Writer) WriteByte(v int8) error {
	if err := w.beginValue(kind.Byte); err != nil {
		return err
	}

	return wire.WriteByte(w.w, w.scratch[:], v)
}

// WriteShort emits a Short value.
func (w *Writer) WriteShort(v int16) error {
	if err := w.beginValue(kind.Short); err != nil {
		return err
	}

	return wire.WriteShort(w.w, w.scratch[:], v)
}

// WriteInt emits an Int value.
func (w *Writer) WriteInt(v int32) error {
	if err := w.beginValue(kind.Int); err != nil {
		return err
	}

	return wire.WriteInt(w.w, w.scratch[:], v)
}

// WriteLong emits a Long value.
func (w *Writer) WriteLong(v int64) error {
	if err := w.beginValue(kind.Long); err != nil {
		return err
	}

	return wire.WriteLong(w.w, w.scratch[:], v)
}

// WriteFloat emits a Float value.
func (w *Writer) WriteFloat(v float32) error {
	if err := w.beginValue(kind.Float); err != nil {
		return err
	}

	return wire.WriteFloat(w.w, w.scratch[:], v)
}

// WriteDouble emits a Double value.
func (w *Writer) WriteDouble(v float64) error {
	if err := w.beginValue(kind.Double); err != nil {
		return err
	}

	return wire.WriteDouble(w.w, w.scratch[:], v)
}

// WriteString emits a String value.
func (w *Writer) WriteString(v string) error {
	if err := w.beginValue(kind.String); err != nil {
		return err
	}

	return wire.WriteString(w.w, w.scratch[:], v)
}

// WriteByteArray emits a ByteArray value.
func (w *Writer) WriteByteArray(v []byte) error {
	if err := w.beginValue(kind.ByteArray); err != nil {
		return err
	}

	if err := wire.WriteInt(w.w, w.scratch[:], int32(len(v))); err != nil {
		return err
	}

	if len(v) == 0 {
		return nil
	}

	_, err := w.w.Write(v)

	return wire.IoError(err)
}

// WriteIntArray emits an IntArray value.
func (w *Writer) WriteIntArray(v []int32) error {
	if err := w.beginValue(kind.IntArray); err != nil {
		return err
	}

	if err := wire.WriteInt(w.w, w.scratch[:], int32(len(v))); err != nil {
		return err
	}

	for _, n := range v {
		if err := wire.WriteInt(w.w, w.scratch[:], n); err != nil {
			return err
		}
	}

	return nil
}

// WriteLongArray emits a LongArray value.
func (w *Writer) WriteLongArray(v []int64) error {
	if err := w.beginValue(kind.LongArray); err != nil {
		return err
	}

	if err := wire.WriteInt(w.w, w.scratch[:], int32(len(v))); err != nil {
		return err
	}

	for _, n := range v {
		if err := wire.WriteLong(w.w, w.scratch[:], n); err != nil {
			return err
		}
	}

	return nil
}

// BeginCompound opens a nested Compound context.
func (w *Writer) BeginCompound() error {
	if err := w.beginValue(kind.Compound); err != nil {
		return err
	}

	w.frames = append(w.frames, wframe{context: ctxCompound})

	return nil
}

// EndCompound writes the terminating End byte and closes the current
// Compound context.
func (w *Writer) EndCompound() error {
	f := w.top()
	if f.context != ctxCompound {
		return &errs.PathError{Path: w.Path(), Err: errs.ErrContextMismatch}
	}

	if err := wire.WriteRawByte(w.w, w.scratch[:], byte(kind.End)); err != nil {
		return err
	}

	w.frames = w.frames[:len(w.frames)-1]

	return nil
}

// BeginList opens a nested List context with the given declared length.
// elemKind may be nil to defer the element kind to the first value
// written; a nil elemKind with length zero is an error, since there
// would be no value to infer it from.
func (w *Writer) BeginList(length int32, elemKind *kind.TagKind) error {
	if err := w.beginValue(kind.List); err != nil {
		return err
	}

	if length < 0 {
		return &errs.PathError{Path: w.Path(), Err: errs.ErrNegativeLength}
	}

	nf := wframe{context: ctxList, listLen: length}

	switch {
	case elemKind != nil:
		if !elemKind.Valid() || *elemKind == kind.End {
			return fmt.Errorf("%w: invalid explicit list element kind %s", errs.ErrCorruptData, elemKind)
		}

		nf.listElemKind = *elemKind
		nf.elemKindSet = true

		if length == 0 {
			if err := wire.WriteRawByte(w.w, w.scratch[:], byte(*elemKind)); err != nil {
				return err
			}

			if err := wire.WriteInt(w.w, w.scratch[:], 0); err != nil {
				return err
			}

			nf.headerWritten = true
		}

	case length == 0:
		return fmt.Errorf("%w: BeginList(0, nil) requires an explicit element kind", errs.ErrCorruptData)
	}

	w.frames = append(w.frames, nf)

	return nil
}

// EndList closes the current List context. All declared elements must
// have been written; lists carry no terminator, so nothing is emitted
// here beyond popping the frame.
func (w *Writer) EndList() error {
	f := w.top()
	if f.context != ctxList {
		return &errs.PathError{Path: w.Path(), Err: errs.ErrContextMismatch}
	}

	if !f.headerWritten || f.writtenCount != f.listLen {
		return fmt.Errorf("%w: list at %s declared length %d, wrote %d", errs.ErrIncompleteDocument, w.Path(), f.listLen, f.writtenCount)
	}

	w.frames = w.frames[:len(w.frames)-1]

	return nil
}

// Close asserts the document is complete: every opened Compound/List
// context has been closed.
func (w *Writer) Close() error {
	if len(w.frames) != 1 {
		return fmt.Errorf("%w: %d context(s) still open", errs.ErrIncompleteDocument, len(w.frames)-1)
	}

	return nil
}
