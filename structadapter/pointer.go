package structadapter

import (
	"reflect"

	"github.com/arloliu/nbtgo/engine"
	"github.com/arloliu/nbtgo/kind"
	"github.com/arloliu/nbtgo/stream"
	"github.com/arloliu/nbtgo/typeinfo"
)

// ptrAdapter indirects through a pointer to the element type's own
// adapter, resolved recursively through the engine. A nil pointer never
// reaches Encode: the enclosing structAdapter skips null-valued fields
// before invoking a field's adapter, matching the write-side "non-null"
// rule for every container kind.
type ptrAdapter struct {
	elemType reflect.Type
	eng      *engine.Engine
}

func (p ptrAdapter) EncodeKind() kind.TagKind {
	ser, err := p.eng.GetSerializer(typeinfo.OfType(p.elemType))
	if err != nil {
		return 0
	}

	return ser.EncodeKind()
}

func (p ptrAdapter) Encode(w *stream.Writer, v reflect.Value) error {
	ser, err := p.eng.GetSerializer(typeinfo.OfType(p.elemType))
	if err != nil {
		return err
	}

	return ser.Encode(w, v.Elem())
}

func (p ptrAdapter) Decode(r *stream.Reader) (reflect.Value, error) {
	deser, err := p.eng.GetDeserializer(typeinfo.OfType(p.elemType))
	if err != nil {
		return reflect.Value{}, err
	}

	val, err := deser.Decode(r)
	if err != nil {
		return reflect.Value{}, err
	}

	out := reflect.New(p.elemType)
	out.Elem().Set(val.Convert(p.elemType))

	return out, nil
}

// PointerFactory claims any Go pointer type, delegating to the pointee
// type's own adapter. Register it alongside the built-in adapter
// factories so pointer-typed struct fields (the idiomatic Go stand-in
// for a nullable value) resolve without special-casing in field
// discovery.
func PointerFactory() engine.AdapterFactory {
	return engine.FuncAdapterFactory(func(d typeinfo.Descriptor, eng *engine.Engine) (engine.Adapter, bool) {
		t := d.Type()
		if t == nil || t.Kind() != reflect.Ptr {
			return nil, false
		}

		return ptrAdapter{elemType: t.Elem(), eng: eng}, true
	})
}
