package structadapter

import (
	"fmt"
	"reflect"

	"github.com/arloliu/nbtgo/engine"
	"github.com/arloliu/nbtgo/kind"
	"github.com/arloliu/nbtgo/stream"
	"github.com/arloliu/nbtgo/typeinfo"
)

// structAdapter is the reflective structure adapter for exactly one Go
// struct type, built once from field discovery and replayed on every
// subsequent Encode/Decode.
type structAdapter struct {
	goType     reflect.Type
	write      []*fieldBinding
	readByName map[string]*fieldBinding
	creator    engine.InstanceCreator
	hook       postDeserializeHook
}

func (s *structAdapter) EncodeKind() kind.TagKind { return kind.Compound }

// isNilish reports whether v is a reference-kind value that is
// currently nil, the "non-null" test the write side applies before
// emitting a field.
func isNilish(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return v.IsNil()
	default:
		return false
	}
}

func (s *structAdapter) Encode(w *stream.Writer, v reflect.Value) error {
	if err := w.BeginCompound(); err != nil {
		return err
	}

	for _, fb := range s.write {
		fv := v.FieldByIndex(fb.index)
		if isNilish(fv) {
			continue
		}

		if err := w.Name(fb.primaryName); err != nil {
			return err
		}

		if err := fb.ser.Encode(w, fv); err != nil {
			return err
		}
	}

	return w.EndCompound()
}

func (s *structAdapter) Decode(r *stream.Reader) (reflect.Value, error) {
	instance, err := s.creator.NewInstance(typeinfo.OfType(s.goType))
	if err != nil {
		return reflect.Value{}, err
	}

	if err := r.BeginCompound(); err != nil {
		return reflect.Value{}, err
	}

	for {
		k, err := r.Peek()
		if err != nil {
			return reflect.Value{}, err
		}

		if k == kind.End {
			break
		}

		name, err := r.Name()
		if err != nil {
			return reflect.Value{}, err
		}

		fb, ok := s.readByName[name]
		if !ok {
			if err := r.Skip(0); err != nil {
				return reflect.Value{}, err
			}

			continue
		}

		val, err := fb.deser.Decode(r)
		if err != nil {
			return reflect.Value{}, err
		}

		instance.FieldByIndex(fb.index).Set(val.Convert(fb.fieldType))
	}

	if err := r.EndCompound(); err != nil {
		return reflect.Value{}, err
	}

	if err := s.hook.invoke(instance); err != nil {
		return reflect.Value{}, err
	}

	return instance, nil
}

// resolveFieldAdapter picks the field's serializer and deserializer:
// an `nbtopt` pin if present, otherwise the engine's own lookup for the
// field's static type (which by this point also covers pointers, via
// PointerFactory, and nested structs, via this same factory recursively
// invoked as the engine's fallback).
func resolveFieldAdapter(eng *engine.Engine, fieldType reflect.Type, opts []nbtOption) (engine.Serializer, engine.Deserializer, error) {
	d := typeinfo.OfType(fieldType)

	var (
		ser   engine.Serializer
		deser engine.Deserializer
	)

	for _, opt := range opts {
		switch opt.key {
		case "adapter":
			ctor, err := lookupNamedAdapter(opt.value)
			if err != nil {
				return nil, nil, err
			}

			a, err := ctor(d, eng)
			if err != nil {
				return nil, nil, err
			}

			ser, deser = a, a
		case "serializer":
			ctor, err := lookupNamedAdapter(opt.value)
			if err != nil {
				return nil, nil, err
			}

			a, err := ctor(d, eng)
			if err != nil {
				return nil, nil, err
			}

			ser = a
		case "deserializer":
			ctor, err := lookupNamedAdapter(opt.value)
			if err != nil {
				return nil, nil, err
			}

			a, err := ctor(d, eng)
			if err != nil {
				return nil, nil, err
			}

			deser = a
		}
	}

	if ser == nil {
		s, err := eng.GetSerializer(d)
		if err != nil {
			return nil, nil, err
		}

		ser = s
	}

	if deser == nil {
		ds, err := eng.GetDeserializer(d)
		if err != nil {
			return nil, nil, err
		}

		deser = ds
	}

	return ser, deser, nil
}

func buildStructAdapter(t reflect.Type, eng *engine.Engine) (*structAdapter, error) {
	naming := eng.NamingStrategy()

	fields := discoverFields(t)

	write := make([]*fieldBinding, 0, len(fields))
	readByName := make(map[string]*fieldBinding, len(fields))

	for _, f := range fields {
		tag := parseNBTTag(f.Tag.Get("nbt"))
		opts := parseNBTOpt(f.Tag.Get("nbtopt"))

		var primary string

		aliases := make([]string, 0, 2)

		if tag.present {
			primary = tag.names[0]
			aliases = append(aliases, tag.names...)
		} else {
			primary = naming(f.Name)
			aliases = append(aliases, primary)
		}

		ser, deser, err := resolveFieldAdapter(eng, f.Type, opts)
		if err != nil {
			return nil, fmt.Errorf("field %s of %s: %w", f.Name, t, err)
		}

		fb := &fieldBinding{
			index:       append([]int(nil), f.Index...),
			fieldType:   f.Type,
			primaryName: primary,
			ser:         ser,
			deser:       deser,
		}

		write = append(write, fb)

		for _, alias := range aliases {
			readByName[alias] = fb
		}

		// Reads also accept the naming-strategy-derived name even when an
		// explicit tag set a different primary name, per distilled-spec
		// §4.6's "first check exact aliases then, for reads only, also
		// check the NamingStrategy-derived name".
		derived := naming(f.Name)
		if _, exists := readByName[derived]; !exists {
			readByName[derived] = fb
		}
	}

	creator, err := eng.GetInstanceCreator(typeinfo.OfType(t))
	if err != nil {
		return nil, err
	}

	return &structAdapter{
		goType:     t,
		write:      write,
		readByName: readByName,
		creator:    creator,
		hook:       detectPostDeserializeHook(t),
	}, nil
}

// NewFactory builds the reflective structure adapter factory: it claims
// any Go struct type, building and caching field bindings the first time
// a given type is requested. Install it with eng.SetFallbackFactory so it
// only fires when no built-in adapter (scalar, sequence, mapping, array,
// any, pointer) already claims the descriptor.
func NewFactory(eng *engine.Engine) engine.AdapterFactory {
	return engine.FuncAdapterFactory(func(d typeinfo.Descriptor, e *engine.Engine) (engine.Adapter, bool) {
		t := d.Type()
		if t == nil || t.Kind() != reflect.Struct {
			return nil, false
		}

		sa, err := buildStructAdapter(t, e)
		if err != nil {
			return nil, false
		}

		return sa, true
	})
}
