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

// anyType is the reflect.Type of the empty interface, the only type
// anyAdapter claims.
var anyType = reflect.TypeOf((*any)(nil)).Elem()

// anyAdapter decodes an arbitrary subtree into a generic Go tree:
// map[string]any for Compound, []any for List, and the narrowest native
// Go type for each scalar (int8, int16, int32, int64, float32, float64,
// string, []byte, []int32, []int64). Encoding walks the same shapes back
// out, dispatching per element on its dynamic type rather than on a
// single fixed EncodeKind, since the whole point of this adapter is that
// no single kind is known ahead of time.
type anyAdapter struct{ eng *engine.Engine }

// EncodeKind reports Compound as a best-effort default; it only matters
// when an empty []any list needs a declared element kind with nothing to
// infer it from, a genuinely ambiguous case for a dynamically typed
// element.
func (a anyAdapter) EncodeKind() kind.TagKind { return kind.Compound }

func (a anyAdapter) Encode(w *stream.Writer, v reflect.Value) error {
	if v.Kind() == reflect.Interface {
		v = v.Elem()
	}

	if !v.IsValid() {
		return w.WriteByte(0)
	}

	switch x := v.Interface().(type) {
	case map[string]any:
		return a.encodeCompound(w, x)
	case []any:
		return a.encodeList(w, x)
	case string:
		return w.WriteString(x)
	case bool:
		if x {
			return w.WriteByte(1)
		}

		return w.WriteByte(0)
	case int8:
		return w.WriteByte(x)
	case int16:
		return w.WriteShort(x)
	case int32:
		return w.WriteInt(x)
	case int64:
		return w.WriteLong(x)
	case float32:
		return w.WriteFloat(x)
	case float64:
		return w.WriteDouble(x)
	case []byte:
		return w.WriteByteArray(x)
	case []int32:
		return w.WriteIntArray(x)
	case []int64:
		return w.WriteLongArray(x)
	default:
		return fmt.Errorf("%w: unsupported dynamic value type %T", errs.ErrCorruptData, x)
	}
}

func (a anyAdapter) encodeCompound(w *stream.Writer, m map[string]any) error {
	if err := w.BeginCompound(); err != nil {
		return err
	}

	for k, v := range m {
		if err := w.Name(k); err != nil {
			return err
		}

		if err := a.Encode(w, reflect.ValueOf(v)); err != nil {
			return err
		}
	}

	return w.EndCompound()
}

func (a anyAdapter) encodeList(w *stream.Writer, items []any) error {
	n := int32(len(items))
	if n == 0 {
		ek := kind.Compound
		if err := w.BeginList(0, &ek); err != nil {
			return err
		}

		return w.EndList()
	}

	if err := w.BeginList(n, nil); err != nil {
		return err
	}

	for _, el := range items {
		if err := a.Encode(w, reflect.ValueOf(el)); err != nil {
			return err
		}
	}

	return w.EndList()
}

func (a anyAdapter) Decode(r *stream.Reader) (reflect.Value, error) {
	k, err := r.Peek()
	if err != nil {
		return reflect.Value{}, err
	}

	switch k {
	case kind.Byte:
		v, err := r.ReadByte()
		return reflect.ValueOf(v), err
	case kind.Short:
		v, err := r.ReadShort()
		return reflect.ValueOf(v), err
	case kind.Int:
		v, err := r.ReadInt()
		return reflect.ValueOf(v), err
	case kind.Long:
		v, err := r.ReadLong()
		return reflect.ValueOf(v), err
	case kind.Float:
		v, err := r.ReadFloat()
		return reflect.ValueOf(v), err
	case kind.Double:
		v, err := r.ReadDouble()
		return reflect.ValueOf(v), err
	case kind.String:
		v, err := r.ReadString()
		return reflect.ValueOf(v), err
	case kind.ByteArray:
		v, err := r.ReadByteArray()
		return reflect.ValueOf(v), err
	case kind.IntArray:
		v, err := r.ReadIntArray()
		return reflect.ValueOf(v), err
	case kind.LongArray:
		v, err := r.ReadLongArray()
		return reflect.ValueOf(v), err
	case kind.List:
		return a.decodeList(r)
	case kind.Compound:
		return a.decodeCompound(r)
	default:
		return reflect.Value{}, &errs.UnexpectedKindError{Path: r.Path(), Expected: "any", Found: k.String()}
	}
}

func (a anyAdapter) decodeList(r *stream.Reader) (reflect.Value, error) {
	_, length, err := r.BeginList()
	if err != nil {
		return reflect.Value{}, err
	}

	out := make([]any, 0, length)

	for i := int32(0); i < length; i++ {
		ev, err := a.Decode(r)
		if err != nil {
			return reflect.Value{}, err
		}

		out = append(out, ev.Interface())
	}

	if err := r.EndList(); err != nil {
		return reflect.Value{}, err
	}

	return reflect.ValueOf(out), nil
}

func (a anyAdapter) decodeCompound(r *stream.Reader) (reflect.Value, error) {
	if err := r.BeginCompound(); err != nil {
		return reflect.Value{}, err
	}

	out := make(map[string]any)

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

		ev, err := a.Decode(r)
		if err != nil {
			return reflect.Value{}, err
		}

		out[name] = ev.Interface()
	}

	if err := r.EndCompound(); err != nil {
		return reflect.Value{}, err
	}

	return reflect.ValueOf(out), nil
}

// AnyFactory claims exactly the empty interface type, producing a
// recursive dynamic-tree adapter (map[string]any / []any / boxed
// scalars) for fields and container elements declared as `any`.
func AnyFactory() engine.AdapterFactory {
	return engine.FuncAdapterFactory(func(d typeinfo.Descriptor, eng *engine.Engine) (engine.Adapter, bool) {
		if d.Type() != anyType {
			return nil, false
		}

		return anyAdapter{eng: eng}, true
	})
}
