package adapter

import (
	"reflect"

	"github.com/arloliu/nbtgo/engine"
	"github.com/arloliu/nbtgo/errs"
	"github.com/arloliu/nbtgo/kind"
	"github.com/arloliu/nbtgo/stream"
	"github.com/arloliu/nbtgo/typeinfo"
)

// scalarAdapter binds one Go scalar or string type to its fixed produce
// kind for encoding, while decoding leniently: any numeric kind on the
// wire narrows or widens into goType, and a String payload parses as a
// number when goType itself isn't a string (and vice versa).
type scalarAdapter struct {
	produce kind.TagKind
	goType  reflect.Type
}

func (s scalarAdapter) EncodeKind() kind.TagKind { return s.produce }

func (s scalarAdapter) Encode(w *stream.Writer, v reflect.Value) error {
	switch s.produce {
	case kind.Byte:
		return w.WriteByte(int8(numericToInt64(v)))
	case kind.Short:
		return w.WriteShort(int16(numericToInt64(v)))
	case kind.Int:
		return w.WriteInt(int32(numericToInt64(v)))
	case kind.Long:
		return w.WriteLong(numericToInt64(v))
	case kind.Float:
		return w.WriteFloat(float32(numericToFloat64(v)))
	case kind.Double:
		return w.WriteDouble(numericToFloat64(v))
	case kind.String:
		return w.WriteString(v.String())
	default:
		return &errs.UnexpectedKindError{Path: w.Path(), Expected: "scalar", Found: s.produce.String()}
	}
}

func (s scalarAdapter) Decode(r *stream.Reader) (reflect.Value, error) {
	k, err := r.Peek()
	if err != nil {
		return reflect.Value{}, err
	}

	if s.goType.Kind() == reflect.String {
		switch {
		case k == kind.String:
			str, err := r.ReadString()
			if err != nil {
				return reflect.Value{}, err
			}

			return reflect.ValueOf(str).Convert(s.goType), nil
		case k.IsNumeric():
			n, f, err := readNumeric(r, k)
			if err != nil {
				return reflect.Value{}, err
			}

			return reflect.ValueOf(formatNumeric(k, n, f)).Convert(s.goType), nil
		default:
			return reflect.Value{}, &errs.UnexpectedKindError{Path: r.Path(), Expected: "String or numeric", Found: k.String()}
		}
	}

	switch {
	case k.IsNumeric():
		n, f, err := readNumeric(r, k)
		if err != nil {
			return reflect.Value{}, err
		}

		return coerceNumeric(s.goType, n, f), nil
	case k == kind.String:
		str, err := r.ReadString()
		if err != nil {
			return reflect.Value{}, err
		}

		return parseNumericString(s.goType, str)
	default:
		return reflect.Value{}, &errs.UnexpectedKindError{Path: r.Path(), Expected: "numeric or String", Found: k.String()}
	}
}

func produceKindFor(k reflect.Kind) (kind.TagKind, bool) {
	switch k {
	case reflect.Bool, reflect.Int8, reflect.Uint8:
		return kind.Byte, true
	case reflect.Int16, reflect.Uint16:
		return kind.Short, true
	case reflect.Int32, reflect.Uint32:
		return kind.Int, true
	case reflect.Int64, reflect.Uint64, reflect.Int, reflect.Uint:
		return kind.Long, true
	case reflect.Float32:
		return kind.Float, true
	case reflect.Float64:
		return kind.Double, true
	case reflect.String:
		return kind.String, true
	default:
		return 0, false
	}
}

// ScalarFactory claims every Go bool, integer, float, and string type,
// binding each to its fixed NBT kind; complex and uintptr kinds are not
// claimed.
func ScalarFactory() engine.AdapterFactory {
	return engine.FuncAdapterFactory(func(d typeinfo.Descriptor, _ *engine.Engine) (engine.Adapter, bool) {
		t := d.Type()
		if t == nil {
			return nil, false
		}

		produce, ok := produceKindFor(t.Kind())
		if !ok {
			return nil, false
		}

		return scalarAdapter{produce: produce, goType: t}, true
	})
}
