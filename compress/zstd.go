package compress

// ZstdCompressor gives the best ratio of the four algorithms, at the cost of
// throughput. Pick it for archival record cache entries that are written
// once and read back rarely, e.g. captured subtrees kept around after a
// batch decode finishes.
//
// Its Compress/Decompress methods live in zstd_cgo.go or zstd_pure.go,
// selected by build tag: gozstd (cgo) when cgo is available, the pure-Go
// klauspost/compress/zstd implementation otherwise.
type ZstdCompressor struct{}

var _ Codec = ZstdCompressor{}

// NewZstdCompressor creates a Zstd codec.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
