// Package nbtgo provides a schema-directed binary codec for NBT (Named
// Binary Tag), the format used by Minecraft for world saves, chunk
// data, and network payloads.
//
// # Core Features
//
//   - Reflective struct (de)serialization driven by `nbt` struct tags
//   - A registry of type adapters, extensible with custom factories
//   - Polymorphic decoding via TypeResolver, for tagged unions like
//     entity or block-entity records
//   - Raw subtree capture and an LRU cache for structurally repeated
//     records (chunk sections, palette entries)
//   - Gzip/zlib file wrapping with magic-byte auto-detection
//   - Optional compression of cached captures (None, LZ4, S2, Zstd)
//
// # Basic Usage
//
// Marshaling a struct to a named root tag:
//
//	import "github.com/arloliu/nbtgo"
//
//	type Player struct {
//	    Name   string `nbt:"Name"`
//	    Health int32  `nbt:"Health"`
//	}
//
//	eng, _ := nbtgo.NewEngine()
//	data, err := nbtgo.Marshal(eng, "Player", Player{Name: "Steve", Health: 20})
//
// Unmarshaling it back:
//
//	var p Player
//	err = nbtgo.Unmarshal(eng, data, &p)
//
// # Package Structure
//
// This package wires the built-in adapter factories (scalar, sequence,
// mapping, array, any) and the reflective struct adapter into a single
// ready-to-use Engine, and provides convenient top-level Marshal/
// Unmarshal wrappers around the engine, stream, and nbtfile packages.
// For fine-grained control — custom adapters, polymorphic resolvers,
// raw capture, file wrapping — use those packages directly.
package nbtgo

import (
	"bytes"
	"fmt"
	"io"
	"reflect"

	"github.com/arloliu/nbtgo/adapter"
	"github.com/arloliu/nbtgo/engine"
	"github.com/arloliu/nbtgo/nbtfile"
	"github.com/arloliu/nbtgo/stream"
	"github.com/arloliu/nbtgo/structadapter"
	"github.com/arloliu/nbtgo/typeinfo"
)

// NewEngine builds an Engine wired with every built-in adapter factory
// (adapter.Factories), the pointer-indirection factory, and the
// reflective struct adapter installed as the fallback so any plain Go
// struct works without a registered adapter of its own.
//
// engine can't import adapter or structadapter directly — both import
// engine — so this constructor is the one place that wiring happens.
// Call it once and reuse the *Engine across Marshal/Unmarshal calls; it
// caches built adapters internally and is safe for concurrent use after
// construction.
func NewEngine(opts ...engine.EngineOption) (*engine.Engine, error) {
	eng, err := engine.New(opts...)
	if err != nil {
		return nil, err
	}

	for _, f := range adapter.Factories() {
		eng.RegisterAdapterFactory(f)
	}

	eng.RegisterAdapterFactory(structadapter.PointerFactory())
	eng.SetFallbackFactory(structadapter.NewFactory(eng))

	return eng, nil
}

// Marshal encodes v as the document's single root tag, named name, and
// returns the resulting bytes. v is typically a struct or pointer to a
// struct; any type with a registered or reflectively-built adapter
// works.
func Marshal(eng *engine.Engine, name string, v any) ([]byte, error) {
	rv := reflect.ValueOf(v)

	ser, err := eng.GetSerializer(typeinfo.OfType(rv.Type()))
	if err != nil {
		return nil, fmt.Errorf("nbtgo: marshal: %w", err)
	}

	var buf bytes.Buffer

	w := stream.NewWriter(&buf)
	if err := w.Name(name); err != nil {
		return nil, fmt.Errorf("nbtgo: marshal: %w", err)
	}

	if err := ser.Encode(w, rv); err != nil {
		return nil, fmt.Errorf("nbtgo: marshal: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("nbtgo: marshal: %w", err)
	}

	return buf.Bytes(), nil
}

// Unmarshal decodes data's root tag into v, which must be a non-nil
// pointer. The root tag's own name is consumed but discarded; callers
// that need it should use stream.Reader directly.
func Unmarshal(eng *engine.Engine, data []byte, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("nbtgo: unmarshal: v must be a non-nil pointer")
	}

	r := stream.NewReader(bytes.NewReader(data))

	elemType := rv.Type().Elem()

	deser, err := eng.GetDeserializer(typeinfo.OfType(elemType))
	if err != nil {
		return fmt.Errorf("nbtgo: unmarshal: %w", err)
	}

	val, err := deser.Decode(r)
	if err != nil {
		return fmt.Errorf("nbtgo: unmarshal: %w", err)
	}

	rv.Elem().Set(val.Convert(elemType))

	return nil
}

// MarshalFile encodes v the same way as Marshal, then wraps the result
// under the given nbtfile.Wrapping and writes it to w.
func MarshalFile(eng *engine.Engine, w io.Writer, wrapping nbtfile.Wrapping, name string, v any) error {
	rv := reflect.ValueOf(v)

	ser, err := eng.GetSerializer(typeinfo.OfType(rv.Type()))
	if err != nil {
		return fmt.Errorf("nbtgo: marshal file: %w", err)
	}

	sw, finish, err := nbtfile.Create(w, wrapping)
	if err != nil {
		return fmt.Errorf("nbtgo: marshal file: %w", err)
	}

	if err := sw.Name(name); err != nil {
		return fmt.Errorf("nbtgo: marshal file: %w", err)
	}

	if err := ser.Encode(sw, rv); err != nil {
		return fmt.Errorf("nbtgo: marshal file: %w", err)
	}

	if err := finish(); err != nil {
		return fmt.Errorf("nbtgo: marshal file: %w", err)
	}

	return nil
}

// UnmarshalFile auto-detects r's compression wrapping (see
// nbtfile.Open) and decodes its root tag into v, which must be a
// non-nil pointer.
func UnmarshalFile(eng *engine.Engine, r io.Reader, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("nbtgo: unmarshal file: v must be a non-nil pointer")
	}

	sr, closeFn, err := nbtfile.Open(r)
	if err != nil {
		return fmt.Errorf("nbtgo: unmarshal file: %w", err)
	}
	defer closeFn()

	elemType := rv.Type().Elem()

	deser, err := eng.GetDeserializer(typeinfo.OfType(elemType))
	if err != nil {
		return fmt.Errorf("nbtgo: unmarshal file: %w", err)
	}

	val, err := deser.Decode(sr)
	if err != nil {
		return fmt.Errorf("nbtgo: unmarshal file: %w", err)
	}

	rv.Elem().Set(val.Convert(elemType))

	return nil
}
