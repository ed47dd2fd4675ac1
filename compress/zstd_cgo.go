//go:build cgo

package compress

import "github.com/valyala/gozstd"

// Compress compresses data with the cgo-backed zstd encoder at a moderate
// level; level 3 keeps capture-time latency low while still beating LZ4/S2
// on ratio for typical NBT subtrees (lots of repeated field names).
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, 3), nil
}

// Decompress reverses Compress.
func (c ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.Decompress(nil, data)
}
