// Package wire implements the scalar and string encodings on the NBT
// byte-stream: fixed-width big-endian numbers and modified UTF-8 text,
// each read from an io.Reader and written to an io.Writer without
// buffering a whole document in memory.
package wire

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/arloliu/nbtgo/errs"
)

// ReadByte reads a single signed byte.
func ReadByte(r io.Reader, scratch []byte) (int8, error) {
	if _, err := io.ReadFull(r, scratch[:1]); err != nil {
		return 0, ioErr(err)
	}

	return int8(scratch[0]), nil
}

// WriteByte writes a single signed byte.
func WriteByte(w io.Writer, scratch []byte, v int8) error {
	scratch[0] = byte(v)
	return ioErr(writeAll(w, scratch[:1]))
}

// ReadShort reads a big-endian 16-bit signed integer.
func ReadShort(r io.Reader, scratch []byte) (int16, error) {
	if _, err := io.ReadFull(r, scratch[:2]); err != nil {
		return 0, ioErr(err)
	}

	return int16(binary.BigEndian.Uint16(scratch[:2])), nil
}

// WriteShort writes a big-endian 16-bit signed integer.
func WriteShort(w io.Writer, scratch []byte, v int16) error {
	binary.BigEndian.PutUint16(scratch[:2], uint16(v))
	return ioErr(writeAll(w, scratch[:2]))
}

// ReadInt reads a big-endian 32-bit signed integer.
func ReadInt(r io.Reader, scratch []byte) (int32, error) {
	if _, err := io.ReadFull(r, scratch[:4]); err != nil {
		return 0, ioErr(err)
	}

	return int32(binary.BigEndian.Uint32(scratch[:4])), nil
}

// WriteInt writes a big-endian 32-bit signed integer.
func WriteInt(w io.Writer, scratch []byte, v int32) error {
	binary.BigEndian.PutUint32(scratch[:4], uint32(v))
	return ioErr(writeAll(w, scratch[:4]))
}

// ReadLong reads a big-endian 64-bit signed integer.
func ReadLong(r io.Reader, scratch []byte) (int64, error) {
	if _, err := io.ReadFull(r, scratch[:8]); err != nil {
		return 0, ioErr(err)
	}

	return int64(binary.BigEndian.Uint64(scratch[:8])), nil
}

// WriteLong writes a big-endian 64-bit signed integer.
func WriteLong(w io.Writer, scratch []byte, v int64) error {
	binary.BigEndian.PutUint64(scratch[:8], uint64(v))
	return ioErr(writeAll(w, scratch[:8]))
}

// ReadFloat reads a big-endian IEEE 754 single precision float.
func ReadFloat(r io.Reader, scratch []byte) (float32, error) {
	bits, err := ReadInt(r, scratch)
	if err != nil {
		return 0, err
	}

	return math.Float32frombits(uint32(bits)), nil
}

// WriteFloat writes a big-endian IEEE 754 single precision float.
func WriteFloat(w io.Writer, scratch []byte, v float32) error {
	return WriteInt(w, scratch, int32(math.Float32bits(v)))
}

// ReadDouble reads a big-endian IEEE 754 double precision float.
func ReadDouble(r io.Reader, scratch []byte) (float64, error) {
	bits, err := ReadLong(r, scratch)
	if err != nil {
		return 0, err
	}

	return math.Float64frombits(uint64(bits)), nil
}

// WriteDouble writes a big-endian IEEE 754 double precision float.
func WriteDouble(w io.Writer, scratch []byte, v float64) error {
	return WriteLong(w, scratch, int64(math.Float64bits(v)))
}

// ReadRawByte reads one unsigned byte, used where a byte is a discriminant
// (a tag id) rather than a signed NBT Byte payload.
func ReadRawByte(r io.Reader, scratch []byte) (byte, error) {
	if _, err := io.ReadFull(r, scratch[:1]); err != nil {
		return 0, ioErr(err)
	}

	return scratch[0], nil
}

// WriteRawByte writes one unsigned byte.
func WriteRawByte(w io.Writer, scratch []byte, v byte) error {
	scratch[0] = v
	return ioErr(writeAll(w, scratch[:1]))
}

// IoError wraps err the same way the package's own read/write helpers do,
// for callers in sibling packages that perform their own io.Reader calls
// (bulk array skips, tee-based capture) but want consistent sentinel
// wrapping.
func IoError(err error) error { return ioErr(err) }

func writeAll(w io.Writer, p []byte) error {
	_, err := w.Write(p)
	return err
}

func ioErr(err error) error {
	if err == nil {
		return nil
	}

	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return fmt.Errorf("%w: %v", errs.ErrUnexpectedEnd, err)
	}

	return fmt.Errorf("%w: %v", errs.ErrIoFailure, err)
}
