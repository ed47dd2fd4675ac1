// Package engine implements the type-adapter registry: the ordered
// factory chain, the per-descriptor caches, and the placeholder
// mechanism that makes recursive type graphs resolvable without
// infinite regress.
package engine

import (
	"reflect"

	"github.com/arloliu/nbtgo/kind"
	"github.com/arloliu/nbtgo/stream"
	"github.com/arloliu/nbtgo/typeinfo"
)

// Serializer encodes values of one type to a Writer.
type Serializer interface {
	// EncodeKind reports the outermost TagKind this serializer produces.
	EncodeKind() kind.TagKind
	Encode(w *stream.Writer, v reflect.Value) error
}

// Deserializer decodes values of one type from a Reader.
type Deserializer interface {
	Decode(r *stream.Reader) (reflect.Value, error)
}

// Adapter bundles a Serializer and a Deserializer for the same type.
// Most factories produce one of these rather than registering narrower
// serializer-only or deserializer-only factories.
type Adapter interface {
	Serializer
	Deserializer
}

// InstanceCreator produces a fresh, usable zero value of a type for the
// reflective decoder to populate.
type InstanceCreator interface {
	NewInstance(d typeinfo.Descriptor) (reflect.Value, error)
}

// TypeResolver picks a concrete subtype to finish decoding a
// polymorphic value, given the value already parsed as the declared
// base type.
type TypeResolver interface {
	// Resolve returns the descriptor of the concrete type to reparse
	// the captured bytes as.
	Resolve(base reflect.Value) (typeinfo.Descriptor, error)

	// OnException is the sanctioned recovery point: called when parsing
	// the base or the resolved concrete type fails with an error wrapping
	// errs.ErrIoFailure; other errors are returned as-is. It may return a
	// recovered value and nil, or rethrow (optionally wrapped).
	OnException(err error, base reflect.Value) (reflect.Value, error)
}

// SerializerFactory answers "can you build a Serializer for this
// descriptor" for factories that only produce one direction.
type SerializerFactory interface {
	CreateSerializer(d typeinfo.Descriptor, eng *Engine) (Serializer, bool)
}

// DeserializerFactory is the deserializer-only counterpart.
type DeserializerFactory interface {
	CreateDeserializer(d typeinfo.Descriptor, eng *Engine) (Deserializer, bool)
}

// AdapterFactory is the common case: a factory that builds both halves
// at once. RegisterAdapterFactory appends it to both the serializer and
// deserializer factory lists.
type AdapterFactory interface {
	CreateAdapter(d typeinfo.Descriptor, eng *Engine) (Adapter, bool)
}

// InstanceCreatorFactory builds InstanceCreators.
type InstanceCreatorFactory interface {
	CreateInstanceCreator(d typeinfo.Descriptor, eng *Engine) (InstanceCreator, bool)
}

// TypeResolverFactory builds TypeResolvers.
type TypeResolverFactory interface {
	CreateTypeResolver(d typeinfo.Descriptor, eng *Engine) (TypeResolver, bool)
}

type adapterAsSerializerFactory struct{ f AdapterFactory }

func (a adapterAsSerializerFactory) CreateSerializer(d typeinfo.Descriptor, eng *Engine) (Serializer, bool) {
	ad, ok := a.f.CreateAdapter(d, eng)
	if !ok {
		return nil, false
	}

	return ad, true
}

type adapterAsDeserializerFactory struct{ f AdapterFactory }

func (a adapterAsDeserializerFactory) CreateDeserializer(d typeinfo.Descriptor, eng *Engine) (Deserializer, bool) {
	ad, ok := a.f.CreateAdapter(d, eng)
	if !ok {
		return nil, false
	}

	return ad, true
}

// FuncAdapterFactory adapts a plain function to AdapterFactory, for
// factories simple enough not to need their own named type.
type FuncAdapterFactory func(d typeinfo.Descriptor, eng *Engine) (Adapter, bool)

func (f FuncAdapterFactory) CreateAdapter(d typeinfo.Descriptor, eng *Engine) (Adapter, bool) {
	return f(d, eng)
}
