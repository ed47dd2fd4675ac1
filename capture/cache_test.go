package capture_test

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/arloliu/nbtgo/capture"
	"github.com/arloliu/nbtgo/compress"
	"github.com/arloliu/nbtgo/stream"
	"github.com/arloliu/nbtgo/typeinfo"
	"github.com/stretchr/testify/require"
)

type chunkSection struct{}

func writeSample(t *testing.T, name string) []byte {
	t.Helper()

	var buf bytes.Buffer

	w := stream.NewWriter(&buf)
	require.NoError(t, w.BeginCompound())
	require.NoError(t, w.Name("Name"))
	require.NoError(t, w.WriteString(name))
	require.NoError(t, w.Name("Count"))
	require.NoError(t, w.WriteByte(1))
	require.NoError(t, w.EndCompound())

	return buf.Bytes()
}

func captureOne(t *testing.T, wire []byte) []byte {
	t.Helper()

	r := stream.NewReader(bytes.NewReader(wire))
	raw, err := r.CaptureRaw()
	require.NoError(t, err)

	return raw
}

func TestRecordCachePutGetRoundTrip(t *testing.T) {
	cache := capture.NewRecordCache(compress.NewLZ4Compressor(), 0)

	d := typeinfo.OfType(reflect.TypeOf(chunkSection{}))
	raw := captureOne(t, writeSample(t, "minecraft:stone"))

	key, err := cache.Put(d, raw)
	require.NoError(t, err)

	got, ok := cache.Get(key)
	require.True(t, ok)
	require.Equal(t, raw, got)
}

func TestRecordCacheMissReturnsFalse(t *testing.T) {
	cache := capture.NewRecordCache(compress.NewNoOpCompressor(), 0)

	d := typeinfo.OfType(reflect.TypeOf(chunkSection{}))
	raw := captureOne(t, writeSample(t, "minecraft:dirt"))

	missKey := capture.NewKey(d, append(append([]byte(nil), raw...), 0xFF))

	_, ok := cache.Get(missKey)
	require.False(t, ok)
}

func TestRecordCacheDistinctContentGetsDistinctKeys(t *testing.T) {
	d := typeinfo.OfType(reflect.TypeOf(chunkSection{}))

	rawStone := captureOne(t, writeSample(t, "minecraft:stone"))
	rawDirt := captureOne(t, writeSample(t, "minecraft:dirt"))

	require.NotEqual(t, capture.NewKey(d, rawStone), capture.NewKey(d, rawDirt))
}

func TestRecordCacheEvictsLeastRecentlyUsed(t *testing.T) {
	cache := capture.NewRecordCache(compress.NewNoOpCompressor(), 2)

	d := typeinfo.OfType(reflect.TypeOf(chunkSection{}))

	k1, err := cache.Put(d, captureOne(t, writeSample(t, "one")))
	require.NoError(t, err)
	k2, err := cache.Put(d, captureOne(t, writeSample(t, "two")))
	require.NoError(t, err)

	// Touch k1 so it's more recently used than k2.
	_, ok := cache.Get(k1)
	require.True(t, ok)

	k3, err := cache.Put(d, captureOne(t, writeSample(t, "three")))
	require.NoError(t, err)

	require.Equal(t, 2, cache.Len())

	_, ok = cache.Get(k1)
	require.True(t, ok, "recently touched entry should survive eviction")

	_, ok = cache.Get(k2)
	require.False(t, ok, "least recently used entry should be evicted")

	_, ok = cache.Get(k3)
	require.True(t, ok)
}

func TestRecordCachePutOverwritesSameKey(t *testing.T) {
	cache := capture.NewRecordCache(compress.NewS2Compressor(), 0)

	d := typeinfo.OfType(reflect.TypeOf(chunkSection{}))
	raw := captureOne(t, writeSample(t, "minecraft:grass"))

	key1, err := cache.Put(d, raw)
	require.NoError(t, err)
	key2, err := cache.Put(d, raw)
	require.NoError(t, err)

	require.Equal(t, key1, key2)
	require.Equal(t, 1, cache.Len())
}
