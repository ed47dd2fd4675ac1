package capture

import (
	"github.com/arloliu/nbtgo/typeinfo"
	"github.com/cespare/xxhash/v2"
)

// Key identifies one cached entry: the Go type the captured bytes were
// parsed against plus a structural fingerprint of the bytes themselves.
// Two captures of the same type with identical wire bytes collapse to
// the same Key, which is what lets a repeated structural shape (every
// "minecraft:air" block entity in a chunk, say) hit the cache instead
// of decoding again.
type Key struct {
	typeName    string
	fingerprint uint64
}

// Fingerprint hashes a captured byte span with the same xxhash
// algorithm the engine registry uses for its shard lookups.
func Fingerprint(raw []byte) uint64 {
	return xxhash.Sum64(raw)
}

// NewKey builds a Key for a capture of d's type with the given raw
// bytes.
func NewKey(d typeinfo.Descriptor, raw []byte) Key {
	return Key{typeName: d.String(), fingerprint: Fingerprint(raw)}
}
