package typeinfo

import (
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// ShardHash returns the xxhash of a type's string form, used to pick a
// descriptor cache shard in the engine registry.
func ShardHash(d Descriptor) uint64 {
	return xxhash.Sum64String(d.String())
}

// CollisionTracker records which type names have mapped to a given
// shard hash, so the registry can detect (and report) two distinct types
// that happen to hash to the same shard. The shard count itself stays
// fixed.
//
// Collisions are benign for correctness, since each shard's adapter cache
// is itself keyed by reflect.Type, but tracking them lets the registry
// surface a diagnostic when a pathological set of types crowds one
// shard.
type CollisionTracker struct {
	mu            sync.Mutex
	namesByHash   map[uint64]map[string]struct{}
	hasCollisions bool
}

func NewCollisionTracker() *CollisionTracker {
	return &CollisionTracker{
		namesByHash: make(map[uint64]map[string]struct{}),
	}
}

// Track records that typeName hashed to hash, returning true if this is
// the first time this hash has been seen at all (not a collision), and
// false otherwise: either typeName was already tracked under this hash,
// or a different type name already occupies it (a collision).
func (t *CollisionTracker) Track(hash uint64, typeName string) (firstSeen bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	names, ok := t.namesByHash[hash]
	if !ok {
		t.namesByHash[hash] = map[string]struct{}{typeName: {}}
		return true
	}

	if _, ok := names[typeName]; ok {
		return false
	}

	names[typeName] = struct{}{}
	t.hasCollisions = true

	return false
}

// HasCollisions reports whether any shard hash has ever mapped to more
// than one distinct type name.
func (t *CollisionTracker) HasCollisions() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.hasCollisions
}

// CollidingHashes returns the shard hashes that map to more than one
// type name, sorted for deterministic diagnostics.
func (t *CollisionTracker) CollidingHashes() []uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	var hashes []uint64
	for h, names := range t.namesByHash {
		if len(names) > 1 {
			hashes = append(hashes, h)
		}
	}

	sort.Slice(hashes, func(i, j int) bool { return hashes[i] < hashes[j] })

	return hashes
}
