package compress

import "fmt"

// Algorithm identifies a record cache compression scheme.
type Algorithm uint8

const (
	AlgorithmNone Algorithm = iota + 1
	AlgorithmLZ4
	AlgorithmS2
	AlgorithmZstd
)

func (a Algorithm) String() string {
	switch a {
	case AlgorithmNone:
		return "None"
	case AlgorithmLZ4:
		return "LZ4"
	case AlgorithmS2:
		return "S2"
	case AlgorithmZstd:
		return "Zstd"
	default:
		return "Unknown"
	}
}

// Compressor compresses a byte span produced by a capture.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions of a compression scheme.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[Algorithm]Codec{
	AlgorithmNone: NewNoOpCompressor(),
	AlgorithmLZ4:  NewLZ4Compressor(),
	AlgorithmS2:   NewS2Compressor(),
	AlgorithmZstd: NewZstdCompressor(),
}

// CreateCodec returns the Codec for the given algorithm.
//
// target is a short human-readable description of the caller, included in
// the error message if the algorithm is unrecognized.
func CreateCodec(algorithm Algorithm, target string) (Codec, error) {
	codec, ok := builtinCodecs[algorithm]
	if !ok {
		return nil, fmt.Errorf("invalid %s compression algorithm: %d", target, algorithm)
	}

	return codec, nil
}
