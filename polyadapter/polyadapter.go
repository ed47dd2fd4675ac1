// Package polyadapter implements the polymorphic type-resolving
// adapter: a value is first parsed as a declared base type, a
// TypeResolver inspects that base value to name the concrete type that
// actually governs it, and the same bytes are reparsed as that
// concrete type. It exists for NBT shapes where a compound's own
// fields (most often a discriminator like an "id" string) decide which
// Go type should receive the rest of the data, something no static
// struct tag can express on its own.
package polyadapter

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"

	"github.com/arloliu/nbtgo/engine"
	"github.com/arloliu/nbtgo/errs"
	"github.com/arloliu/nbtgo/kind"
	"github.com/arloliu/nbtgo/stream"
	"github.com/arloliu/nbtgo/structadapter"
	"github.com/arloliu/nbtgo/typeinfo"
)

// polyAdapter is pinned to exactly one descriptor (typically an
// interface type or a common base struct), not claimed by a factory,
// since "this Go type is polymorphic" isn't something a kind-based
// claim can express.
type polyAdapter struct {
	baseType reflect.Type
	eng      *engine.Engine
}

// New builds the polymorphic adapter. baseType is parsed first to
// extract whatever discriminator the concrete types share; a
// TypeResolver registered for baseType (via eng.RegisterTypeResolver)
// then names the concrete type to reparse the same bytes as. Callers
// typically pin the result to an interface type the concrete types all
// implement:
//
//	eng.RegisterAdapter(typeinfo.OfType(reflect.TypeOf((*Entity)(nil)).Elem()), polyadapter.New(baseType, eng))
func New(baseType reflect.Type, eng *engine.Engine) engine.Adapter {
	return &polyAdapter{baseType: baseType, eng: eng}
}

func (p *polyAdapter) EncodeKind() kind.TagKind {
	ser, err := p.eng.GetSerializer(typeinfo.OfType(p.baseType))
	if err != nil {
		return kind.Compound
	}

	return ser.EncodeKind()
}

// Encode writes v using the serializer for its own dynamic type, not
// baseType: the concrete value already knows what it is by the time
// it's handed to Encode, so no resolution is needed on the write side.
func (p *polyAdapter) Encode(w *stream.Writer, v reflect.Value) error {
	concrete := v
	if concrete.Kind() == reflect.Interface {
		concrete = concrete.Elem()
	}

	ser, err := p.eng.GetSerializer(typeinfo.OfType(concrete.Type()))
	if err != nil {
		return err
	}

	return ser.Encode(w, concrete)
}

// Decode captures the value's raw bytes once, parses them as baseType,
// asks the registered TypeResolver which concrete type the value
// actually is, and reparses the same captured bytes as that type. If
// no TypeResolver is registered for baseType, or the resolved type has
// no registered adapter of its own, the base-type value already parsed
// is returned rather than treated as an error.
func (p *polyAdapter) Decode(r *stream.Reader) (reflect.Value, error) {
	raw, err := r.CaptureRaw()
	if err != nil {
		return reflect.Value{}, err
	}

	resolver, hasResolver := p.eng.GetTypeResolver(typeinfo.OfType(p.baseType))

	base, err := p.parseAs(p.baseType, raw)
	if err != nil {
		if hasResolver && errors.Is(err, errs.ErrIoFailure) {
			return resolver.OnException(err, reflect.Value{})
		}

		return reflect.Value{}, err
	}

	if !hasResolver {
		return base, nil
	}

	desc, err := resolver.Resolve(base)
	if err != nil {
		return reflect.Value{}, err
	}

	if _, err := p.eng.GetDeserializer(desc); err != nil {
		return base, nil
	}

	concrete, err := p.parseAs(desc.Type(), raw)
	if err != nil {
		if errors.Is(err, errs.ErrIoFailure) {
			return resolver.OnException(err, base)
		}

		return reflect.Value{}, err
	}

	return concrete, nil
}

func (p *polyAdapter) parseAs(t reflect.Type, raw []byte) (reflect.Value, error) {
	deser, err := p.eng.GetDeserializer(typeinfo.OfType(t))
	if err != nil {
		return reflect.Value{}, err
	}

	// Pinned to t itself, the engine hands back p; bind t's struct fields
	// directly rather than recursing into p.
	if self, ok := deser.(*polyAdapter); ok && self == p {
		sa, ok := structadapter.NewFactory(p.eng).CreateAdapter(typeinfo.OfType(t), p.eng)
		if !ok {
			return reflect.Value{}, fmt.Errorf("%w: %s", errs.ErrNoAdapter, t)
		}

		deser = sa
	}

	return deser.Decode(stream.NewReader(bytes.NewReader(raw)))
}
