package adapter

import (
	"fmt"
	"reflect"

	"github.com/arloliu/nbtgo/engine"
	"github.com/arloliu/nbtgo/errs"
	"github.com/arloliu/nbtgo/kind"
	"github.com/arloliu/nbtgo/stream"
	"github.com/arloliu/nbtgo/typeinfo"
)

// mappingAdapter encodes a Go map as a Compound, one entry per key. Keys
// must be strings or, via EnumNamer, enums; any other key type is
// rejected at encode/decode time with ErrUnsupportedKeyType.
//
// Go's native map has no recorded insertion order — its iteration order
// is randomized on every run regardless of how the map was built — so
// binding Mapping to map[K]V can never satisfy the "writes preserve
// insertion order" requirement: the order entries are written in here is
// unspecified even when the source map was built one key at a time.
// Decoding into a native map is unaffected, since reads accept keys in
// any order; it's only a re-encode of a decoded map that can't reproduce
// the original byte order. Callers that need that guarantee should use
// OrderedMap[V] instead of a native map for the field in question; see
// orderedMappingAdapter below.
type mappingAdapter struct {
	goType reflect.Type
	eng    *engine.Engine
}

func (m mappingAdapter) EncodeKind() kind.TagKind { return kind.Compound }

func (m mappingAdapter) keyToName(k reflect.Value) (string, error) {
	if k.Kind() == reflect.String {
		return k.String(), nil
	}

	ser, err := m.eng.GetSerializer(typeinfo.OfType(k.Type()))
	if err != nil {
		return "", err
	}

	if namer, ok := ser.(EnumNamer); ok {
		return namer.Name(k)
	}

	return "", fmt.Errorf("%w: %s", errs.ErrUnsupportedKeyType, k.Type())
}

func (m mappingAdapter) nameToKey(keyType reflect.Type, name string) (reflect.Value, error) {
	if keyType.Kind() == reflect.String {
		return reflect.ValueOf(name).Convert(keyType), nil
	}

	deser, err := m.eng.GetDeserializer(typeinfo.OfType(keyType))
	if err != nil {
		return reflect.Value{}, err
	}

	if namer, ok := deser.(EnumNamer); ok {
		return namer.ByName(name)
	}

	return reflect.Value{}, fmt.Errorf("%w: %s", errs.ErrUnsupportedKeyType, keyType)
}

func (m mappingAdapter) Encode(w *stream.Writer, v reflect.Value) error {
	valSer, err := m.eng.GetSerializer(typeinfo.OfType(m.goType.Elem()))
	if err != nil {
		return err
	}

	if err := w.BeginCompound(); err != nil {
		return err
	}

	iter := v.MapRange()
	for iter.Next() {
		name, err := m.keyToName(iter.Key())
		if err != nil {
			return err
		}

		if err := w.Name(name); err != nil {
			return err
		}

		if err := valSer.Encode(w, iter.Value()); err != nil {
			return err
		}
	}

	return w.EndCompound()
}

func (m mappingAdapter) Decode(r *stream.Reader) (reflect.Value, error) {
	valDeser, err := m.eng.GetDeserializer(typeinfo.OfType(m.goType.Elem()))
	if err != nil {
		return reflect.Value{}, err
	}

	if err := r.BeginCompound(); err != nil {
		return reflect.Value{}, err
	}

	out := reflect.MakeMap(m.goType)

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

		val, err := valDeser.Decode(r)
		if err != nil {
			return reflect.Value{}, err
		}

		key, err := m.nameToKey(m.goType.Key(), name)
		if err != nil {
			return reflect.Value{}, err
		}

		out.SetMapIndex(key, val.Convert(m.goType.Elem()))
	}

	if err := r.EndCompound(); err != nil {
		return reflect.Value{}, err
	}

	return out, nil
}

// OrderedMap is an insertion-order-preserving alternative to Go's native
// map, for Mapping fields where spec.md's "iteration order is insertion
// order for writes" requirement must actually hold — including across a
// decode-then-re-encode round trip, which a native map can never
// reproduce byte-for-byte. Keys and values are held in two parallel
// slices rather than a map, so the order entries were added in (by Set,
// or by decoding a wire Compound) is exactly the order Encode writes
// them back out in.
//
// MappingFactory recognizes any OrderedMap[V] instantiation structurally
// (an exported Keys []string field alongside an exported Values []V
// field), so the zero value is immediately usable and no constructor is
// required.
type OrderedMap[V any] struct {
	Keys   []string
	Values []V
}

// Set appends key/value if key is new, or overwrites the value in place
// (keeping its existing position) if key is already present.
func (m *OrderedMap[V]) Set(key string, value V) {
	for i, k := range m.Keys {
		if k == key {
			m.Values[i] = value

			return
		}
	}

	m.Keys = append(m.Keys, key)
	m.Values = append(m.Values, value)
}

// Get looks up key, reporting whether it was present.
func (m *OrderedMap[V]) Get(key string) (V, bool) {
	for i, k := range m.Keys {
		if k == key {
			return m.Values[i], true
		}
	}

	var zero V

	return zero, false
}

// Len reports the number of entries.
func (m *OrderedMap[V]) Len() int { return len(m.Keys) }

var stringSliceType = reflect.TypeOf([]string(nil))

// orderedMapShape reports whether t is some OrderedMap[V] instantiation,
// identified structurally (an exported Keys []string field paired with
// an exported Values []V field) rather than through an interface, so
// the check works directly against the value type with no pointer
// indirection required.
func orderedMapShape(t reflect.Type) (valueType reflect.Type, ok bool) {
	if t == nil || t.Kind() != reflect.Struct || t.NumField() != 2 {
		return nil, false
	}

	keysField, hasKeys := t.FieldByName("Keys")
	if !hasKeys || keysField.Type != stringSliceType {
		return nil, false
	}

	valuesField, hasValues := t.FieldByName("Values")
	if !hasValues || valuesField.Type.Kind() != reflect.Slice {
		return nil, false
	}

	return valuesField.Type.Elem(), true
}

// orderedMappingAdapter is the Compound binding for OrderedMap[V]. Keys
// are always plain strings here (OrderedMap doesn't support enum keys,
// since its point is write-order fidelity, not key-type flexibility);
// Encode walks the parallel slices directly, and Decode appends to them
// in wire order, so a decode immediately followed by an encode
// reproduces the original bytes.
type orderedMappingAdapter struct {
	goType    reflect.Type
	valueType reflect.Type
	eng       *engine.Engine
}

func (m orderedMappingAdapter) EncodeKind() kind.TagKind { return kind.Compound }

func (m orderedMappingAdapter) Encode(w *stream.Writer, v reflect.Value) error {
	valSer, err := m.eng.GetSerializer(typeinfo.OfType(m.valueType))
	if err != nil {
		return err
	}

	if err := w.BeginCompound(); err != nil {
		return err
	}

	keys := v.FieldByName("Keys")
	values := v.FieldByName("Values")

	for i := 0; i < keys.Len(); i++ {
		if err := w.Name(keys.Index(i).String()); err != nil {
			return err
		}

		if err := valSer.Encode(w, values.Index(i)); err != nil {
			return err
		}
	}

	return w.EndCompound()
}

func (m orderedMappingAdapter) Decode(r *stream.Reader) (reflect.Value, error) {
	valDeser, err := m.eng.GetDeserializer(typeinfo.OfType(m.valueType))
	if err != nil {
		return reflect.Value{}, err
	}

	if err := r.BeginCompound(); err != nil {
		return reflect.Value{}, err
	}

	keys := reflect.MakeSlice(stringSliceType, 0, 0)
	values := reflect.MakeSlice(reflect.SliceOf(m.valueType), 0, 0)

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

		val, err := valDeser.Decode(r)
		if err != nil {
			return reflect.Value{}, err
		}

		keys = reflect.Append(keys, reflect.ValueOf(name))
		values = reflect.Append(values, val.Convert(m.valueType))
	}

	if err := r.EndCompound(); err != nil {
		return reflect.Value{}, err
	}

	out := reflect.New(m.goType).Elem()
	out.FieldByName("Keys").Set(keys)
	out.FieldByName("Values").Set(values)

	return out, nil
}

// MappingFactory claims any Go map type, binding it to the Compound tag
// kind with a recursively resolved value adapter. It also claims
// OrderedMap[V] instantiations, binding them to the same Compound shape
// but with write order preserved; see OrderedMap's doc comment.
func MappingFactory() engine.AdapterFactory {
	return engine.FuncAdapterFactory(func(d typeinfo.Descriptor, eng *engine.Engine) (engine.Adapter, bool) {
		t := d.Type()
		if t == nil {
			return nil, false
		}

		if valueType, ok := orderedMapShape(t); ok {
			return orderedMappingAdapter{goType: t, valueType: valueType, eng: eng}, true
		}

		if t.Kind() != reflect.Map {
			return nil, false
		}

		return mappingAdapter{goType: t, eng: eng}, true
	})
}
