package adapter

import (
	"reflect"

	"github.com/arloliu/nbtgo/engine"
	"github.com/arloliu/nbtgo/kind"
	"github.com/arloliu/nbtgo/stream"
	"github.com/arloliu/nbtgo/typeinfo"
)

// sequenceAdapter encodes any Go slice type as a List, recursively
// resolving the element type's own serializer/deserializer through the
// engine. It is the fallback for slice types ArrayFactory doesn't claim.
type sequenceAdapter struct {
	goType reflect.Type
	eng    *engine.Engine
}

func (s sequenceAdapter) EncodeKind() kind.TagKind { return kind.List }

func (s sequenceAdapter) Encode(w *stream.Writer, v reflect.Value) error {
	ser, err := s.eng.GetSerializer(typeinfo.OfType(s.goType.Elem()))
	if err != nil {
		return err
	}

	n := int32(v.Len())

	var elemKindPtr *kind.TagKind
	if n == 0 {
		ek := ser.EncodeKind()
		elemKindPtr = &ek
	}

	if err := w.BeginList(n, elemKindPtr); err != nil {
		return err
	}

	for i := 0; i < v.Len(); i++ {
		if err := ser.Encode(w, v.Index(i)); err != nil {
			return err
		}
	}

	return w.EndList()
}

func (s sequenceAdapter) Decode(r *stream.Reader) (reflect.Value, error) {
	deser, err := s.eng.GetDeserializer(typeinfo.OfType(s.goType.Elem()))
	if err != nil {
		return reflect.Value{}, err
	}

	_, length, err := r.BeginList()
	if err != nil {
		return reflect.Value{}, err
	}

	out := reflect.MakeSlice(s.goType, int(length), int(length))

	for i := int32(0); i < length; i++ {
		ev, err := deser.Decode(r)
		if err != nil {
			return reflect.Value{}, err
		}

		out.Index(int(i)).Set(ev.Convert(s.goType.Elem()))
	}

	if err := r.EndList(); err != nil {
		return reflect.Value{}, err
	}

	return out, nil
}

// SequenceFactory claims any Go slice type, binding it to the List tag
// kind with a recursively resolved element adapter.
func SequenceFactory() engine.AdapterFactory {
	return engine.FuncAdapterFactory(func(d typeinfo.Descriptor, eng *engine.Engine) (engine.Adapter, bool) {
		t := d.Type()
		if t == nil || t.Kind() != reflect.Slice {
			return nil, false
		}

		return sequenceAdapter{goType: t, eng: eng}, true
	})
}
