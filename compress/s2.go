package compress

import "github.com/klauspost/compress/s2"

// S2Compressor balances compression ratio against speed; a reasonable
// default for record cache entries whose access pattern isn't known ahead
// of time.
type S2Compressor struct{}

var _ Codec = S2Compressor{}

// NewS2Compressor creates an S2 codec.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

func (c S2Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Decode(nil, data)
}
