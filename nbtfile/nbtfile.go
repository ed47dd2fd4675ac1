// Package nbtfile wraps the core stream.Reader/stream.Writer codec
// with the outer compression layer NBT documents are conventionally
// stored under on disk: gzip for world-save files, zlib for region
// file chunk payloads, or neither for an already-decompressed stream.
// The wire format itself (stream, kind, wire) carries no compression;
// this package is the boundary where that's applied.
package nbtfile

import (
	"bufio"
	"compress/zlib"
	"fmt"
	"io"

	"github.com/arloliu/nbtgo/stream"
	"github.com/klauspost/compress/gzip"
)

// Wrapping identifies the outer compression layer an NBT document is
// stored under.
type Wrapping uint8

const (
	WrappingNone Wrapping = iota
	WrappingGzip
	WrappingZlib
)

func (w Wrapping) String() string {
	switch w {
	case WrappingNone:
		return "None"
	case WrappingGzip:
		return "Gzip"
	case WrappingZlib:
		return "Zlib"
	default:
		return "Unknown"
	}
}

const (
	gzipMagic0   = 0x1f
	gzipMagic1   = 0x8b
	zlibMagicLow = 0x78 // CMF byte for zlib's standard 32KiB window, level-independent
)

// DetectWrapping peeks at r's leading bytes to determine whether it's
// gzip-wrapped, zlib-wrapped, or a bare document, returning a
// *bufio.Reader that still has those bytes available to read.
func DetectWrapping(r io.Reader) (Wrapping, *bufio.Reader, error) {
	br := bufio.NewReaderSize(r, 4096)

	peek, err := br.Peek(2)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return WrappingNone, br, nil
		}

		return WrappingNone, br, err
	}

	switch {
	case peek[0] == gzipMagic0 && peek[1] == gzipMagic1:
		return WrappingGzip, br, nil
	case peek[0] == zlibMagicLow:
		return WrappingZlib, br, nil
	default:
		return WrappingNone, br, nil
	}
}

// Open auto-detects r's compression wrapping and returns a
// ready-to-use *stream.Reader over the decompressed bytes, plus a
// close func that releases the decompressor (not r itself, which
// remains the caller's to close).
func Open(r io.Reader) (*stream.Reader, func() error, error) {
	wrapping, br, err := DetectWrapping(r)
	if err != nil {
		return nil, nil, err
	}

	switch wrapping {
	case WrappingGzip:
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, nil, fmt.Errorf("nbtfile: gzip: %w", err)
		}

		return stream.NewReader(gz), gz.Close, nil
	case WrappingZlib:
		zr, err := zlib.NewReader(br)
		if err != nil {
			return nil, nil, fmt.Errorf("nbtfile: zlib: %w", err)
		}

		return stream.NewReader(zr), zr.Close, nil
	default:
		return stream.NewReader(br), func() error { return nil }, nil
	}
}

// Create wraps w for writing under the given Wrapping, returning a
// ready-to-use *stream.Writer and a finish func. finish must be called
// exactly once after the document is fully written: it asserts every
// opened Compound/List context was closed, then flushes and closes any
// compressor (not w itself, which remains the caller's to close).
func Create(w io.Writer, wrapping Wrapping) (*stream.Writer, func() error, error) {
	switch wrapping {
	case WrappingGzip:
		gz := gzip.NewWriter(w)
		sw := stream.NewWriter(gz)

		return sw, func() error {
			if err := sw.Close(); err != nil {
				return err
			}

			return gz.Close()
		}, nil
	case WrappingZlib:
		zw := zlib.NewWriter(w)
		sw := stream.NewWriter(zw)

		return sw, func() error {
			if err := sw.Close(); err != nil {
				return err
			}

			return zw.Close()
		}, nil
	case WrappingNone:
		sw := stream.NewWriter(w)

		return sw, sw.Close, nil
	default:
		return nil, nil, fmt.Errorf("nbtfile: unknown wrapping %d", wrapping)
	}
}
