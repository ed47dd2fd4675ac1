package adapter

import (
	"reflect"

	"github.com/arloliu/nbtgo/engine"
	"github.com/arloliu/nbtgo/errs"
	"github.com/arloliu/nbtgo/kind"
	"github.com/arloliu/nbtgo/stream"
	"github.com/arloliu/nbtgo/typeinfo"
)

func elemToByte(v reflect.Value) byte {
	if v.Kind() == reflect.Uint8 {
		return byte(v.Uint())
	}

	return byte(v.Int())
}

func setByteElem(v reflect.Value, b byte) {
	if v.Kind() == reflect.Uint8 {
		v.SetUint(uint64(b))
	} else {
		v.SetInt(int64(int8(b)))
	}
}

// byteArrayAdapter binds a []byte or []int8 (or any named type sharing
// one of those underlying kinds) to the ByteArray tag kind. It also
// accepts a List<Byte> on decode, for documents that encoded the same
// data as a generic list.
type byteArrayAdapter struct{ goType reflect.Type }

func (byteArrayAdapter) EncodeKind() kind.TagKind { return kind.ByteArray }

func (a byteArrayAdapter) Encode(w *stream.Writer, v reflect.Value) error {
	buf := make([]byte, v.Len())
	for i := range buf {
		buf[i] = elemToByte(v.Index(i))
	}

	return w.WriteByteArray(buf)
}

func (a byteArrayAdapter) Decode(r *stream.Reader) (reflect.Value, error) {
	k, err := r.Peek()
	if err != nil {
		return reflect.Value{}, err
	}

	var raw []byte

	switch k {
	case kind.ByteArray:
		raw, err = r.ReadByteArray()
		if err != nil {
			return reflect.Value{}, err
		}
	case kind.List:
		elemKind, length, err := r.BeginList()
		if err != nil {
			return reflect.Value{}, err
		}

		if elemKind != kind.Byte && elemKind != kind.End {
			return reflect.Value{}, &errs.UnexpectedKindError{Path: r.Path(), Expected: "ByteArray or List<Byte>", Found: elemKind.String()}
		}

		raw = make([]byte, length)

		for i := int32(0); i < length; i++ {
			b, err := r.ReadByte()
			if err != nil {
				return reflect.Value{}, err
			}

			raw[i] = byte(b)
		}

		if err := r.EndList(); err != nil {
			return reflect.Value{}, err
		}
	default:
		return reflect.Value{}, &errs.UnexpectedKindError{Path: r.Path(), Expected: "ByteArray", Found: k.String()}
	}

	out := reflect.MakeSlice(a.goType, len(raw), len(raw))
	for i, b := range raw {
		setByteElem(out.Index(i), b)
	}

	return out, nil
}

// intArrayAdapter binds a []int32 to the IntArray tag kind.
type intArrayAdapter struct{ goType reflect.Type }

func (intArrayAdapter) EncodeKind() kind.TagKind { return kind.IntArray }

func (a intArrayAdapter) Encode(w *stream.Writer, v reflect.Value) error {
	buf := make([]int32, v.Len())
	for i := range buf {
		buf[i] = int32(v.Index(i).Int())
	}

	return w.WriteIntArray(buf)
}

func (a intArrayAdapter) Decode(r *stream.Reader) (reflect.Value, error) {
	raw, err := r.ReadIntArray()
	if err != nil {
		return reflect.Value{}, err
	}

	out := reflect.MakeSlice(a.goType, len(raw), len(raw))
	for i, n := range raw {
		out.Index(i).SetInt(int64(n))
	}

	return out, nil
}

// longArrayAdapter binds a []int64 to the LongArray tag kind.
type longArrayAdapter struct{ goType reflect.Type }

func (longArrayAdapter) EncodeKind() kind.TagKind { return kind.LongArray }

func (a longArrayAdapter) Encode(w *stream.Writer, v reflect.Value) error {
	buf := make([]int64, v.Len())
	for i := range buf {
		buf[i] = v.Index(i).Int()
	}

	return w.WriteLongArray(buf)
}

func (a longArrayAdapter) Decode(r *stream.Reader) (reflect.Value, error) {
	raw, err := r.ReadLongArray()
	if err != nil {
		return reflect.Value{}, err
	}

	out := reflect.MakeSlice(a.goType, len(raw), len(raw))
	for i, n := range raw {
		out.Index(i).SetInt(n)
	}

	return out, nil
}

// ArrayFactory claims []byte, []int8, []int32, and []int64 (and named
// types sharing those element kinds), routing them to the three fixed
// NBT array kinds rather than a generic List. Register it after
// SequenceFactory so it takes precedence for these element types.
func ArrayFactory() engine.AdapterFactory {
	return engine.FuncAdapterFactory(func(d typeinfo.Descriptor, _ *engine.Engine) (engine.Adapter, bool) {
		t := d.Type()
		if t == nil || t.Kind() != reflect.Slice {
			return nil, false
		}

		switch t.Elem().Kind() {
		case reflect.Uint8, reflect.Int8:
			return byteArrayAdapter{goType: t}, true
		case reflect.Int32:
			return intArrayAdapter{goType: t}, true
		case reflect.Int64:
			return longArrayAdapter{goType: t}, true
		default:
			return nil, false
		}
	})
}
