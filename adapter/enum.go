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

// EnumNamer is implemented by adapters that can translate between a
// value and a symbolic name outside of the normal tag framing. The
// mapping adapter type-asserts for it to support enum-keyed maps, whose
// keys must become compound entry names rather than nested values.
type EnumNamer interface {
	Name(v reflect.Value) (string, error)
	ByName(name string) (reflect.Value, error)
}

// enumAdapter encodes by symbolic name and decodes leniently: either a
// matching name or an in-range ordinal. Go has no runtime reflection
// over a named integer type's declared constants, so the case set is
// supplied explicitly by RegisterEnum rather than discovered.
type enumAdapter struct {
	goType    reflect.Type
	nameByOrd []string
	ordByName map[string]int
	values    []reflect.Value
}

func (e *enumAdapter) EncodeKind() kind.TagKind { return kind.String }

func (e *enumAdapter) indexOf(v reflect.Value) (int, bool) {
	for i, val := range e.values {
		if val.Interface() == v.Interface() {
			return i, true
		}
	}

	return 0, false
}

func (e *enumAdapter) Encode(w *stream.Writer, v reflect.Value) error {
	name, err := e.Name(v)
	if err != nil {
		return err
	}

	return w.WriteString(name)
}

func (e *enumAdapter) Decode(r *stream.Reader) (reflect.Value, error) {
	k, err := r.Peek()
	if err != nil {
		return reflect.Value{}, err
	}

	switch {
	case k == kind.String:
		name, err := r.ReadString()
		if err != nil {
			return reflect.Value{}, err
		}

		return e.ByName(name)
	case k.IsNumeric():
		n, _, err := readNumeric(r, k)
		if err != nil {
			return reflect.Value{}, err
		}

		if n < 0 || int(n) >= len(e.values) {
			return reflect.Value{}, fmt.Errorf("%w: ordinal %d out of range for %s", errs.ErrInvalidEnumValue, n, e.goType)
		}

		return e.values[n], nil
	default:
		return reflect.Value{}, &errs.UnexpectedKindError{Path: r.Path(), Expected: "String or numeric", Found: k.String()}
	}
}

func (e *enumAdapter) Name(v reflect.Value) (string, error) {
	i, ok := e.indexOf(v)
	if !ok {
		return "", fmt.Errorf("%w: %v is not a declared %s value", errs.ErrInvalidEnumValue, v.Interface(), e.goType)
	}

	return e.nameByOrd[i], nil
}

func (e *enumAdapter) ByName(name string) (reflect.Value, error) {
	ord, ok := e.ordByName[name]
	if !ok {
		return reflect.Value{}, fmt.Errorf("%w: unknown %s name %q", errs.ErrInvalidEnumValue, e.goType, name)
	}

	return e.values[ord], nil
}

// RegisterEnum tells eng the full declaration-order case set of an enum
// type T: names[i] is the symbolic name for values[i]. Encoding always
// writes the name; decoding accepts either the name or the matching
// ordinal position in values.
func RegisterEnum[T comparable](eng *engine.Engine, names []string, values []T) error {
	if len(names) != len(values) {
		return fmt.Errorf("%w: %d names for %d values", errs.ErrCorruptData, len(names), len(values))
	}

	if len(values) == 0 {
		return fmt.Errorf("%w: no enum values given", errs.ErrCorruptData)
	}

	ea := &enumAdapter{
		goType:    reflect.TypeOf(values[0]),
		nameByOrd: append([]string(nil), names...),
		ordByName: make(map[string]int, len(names)),
		values:    make([]reflect.Value, len(values)),
	}

	for i, n := range names {
		ea.ordByName[n] = i
	}

	for i, v := range values {
		ea.values[i] = reflect.ValueOf(v)
	}

	eng.RegisterAdapter(typeinfo.Of(values[0]), ea)

	return nil
}
