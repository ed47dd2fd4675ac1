package engine

import (
	"reflect"
	"sync/atomic"

	"github.com/arloliu/nbtgo/kind"
	"github.com/arloliu/nbtgo/stream"
	"github.com/arloliu/nbtgo/typeinfo"
)

// serializerPlaceholder is installed in the serializer cache before a
// type's factories run, so a recursive request for the same descriptor
// (a struct field whose type is the struct itself, or mutually
// recursive types) gets a usable forwarder instead of looping forever.
// Its inner pointer is set exactly once, after outer construction
// completes; atomic.Pointer gives the store-then-load pair the
// acquire/release ordering needed for another goroutine to observe a
// fully built Serializer once it sees the pointer as non-nil.
type serializerPlaceholder struct {
	inner atomic.Pointer[Serializer]
}

func (p *serializerPlaceholder) complete(s Serializer) { p.inner.Store(&s) }

func (p *serializerPlaceholder) EncodeKind() kind.TagKind {
	s := p.inner.Load()
	if s == nil {
		panic("engine: serializer placeholder dereferenced before completion")
	}

	return (*s).EncodeKind()
}

func (p *serializerPlaceholder) Encode(w *stream.Writer, v reflect.Value) error {
	s := p.inner.Load()
	if s == nil {
		panic("engine: serializer placeholder dereferenced before completion")
	}

	return (*s).Encode(w, v)
}

// deserializerPlaceholder is the decode-side counterpart.
type deserializerPlaceholder struct {
	inner atomic.Pointer[Deserializer]
}

func (p *deserializerPlaceholder) complete(d Deserializer) { p.inner.Store(&d) }

func (p *deserializerPlaceholder) Decode(r *stream.Reader) (reflect.Value, error) {
	d := p.inner.Load()
	if d == nil {
		panic("engine: deserializer placeholder dereferenced before completion")
	}

	return (*d).Decode(r)
}

// instanceCreatorPlaceholder and typeResolverPlaceholder complete the
// pattern for the other two factory kinds. Recursive construction
// rarely reaches these (instance creation and type resolution don't
// usually recurse through the same descriptor), but the cache slot is
// filled the same way for consistency.
type instanceCreatorPlaceholder struct {
	inner atomic.Pointer[InstanceCreator]
}

func (p *instanceCreatorPlaceholder) complete(c InstanceCreator) { p.inner.Store(&c) }

func (p *instanceCreatorPlaceholder) NewInstance(d typeinfo.Descriptor) (reflect.Value, error) {
	c := p.inner.Load()
	if c == nil {
		panic("engine: instance creator placeholder dereferenced before completion")
	}

	return (*c).NewInstance(d)
}

type typeResolverPlaceholder struct {
	inner atomic.Pointer[TypeResolver]
}

func (p *typeResolverPlaceholder) complete(r TypeResolver) { p.inner.Store(&r) }

func (p *typeResolverPlaceholder) Resolve(base reflect.Value) (typeinfo.Descriptor, error) {
	r := p.inner.Load()
	if r == nil {
		panic("engine: type resolver placeholder dereferenced before completion")
	}

	return (*r).Resolve(base)
}

func (p *typeResolverPlaceholder) OnException(err error, base reflect.Value) (reflect.Value, error) {
	r := p.inner.Load()
	if r == nil {
		panic("engine: type resolver placeholder dereferenced before completion")
	}

	return (*r).OnException(err, base)
}
