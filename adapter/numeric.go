// Package adapter implements the built-in adapters: scalar and string
// conversions, the three fixed-width array kinds, generic sequences and
// mappings, enumerations, and the dynamic "any" tree decoder. Each is
// exposed as an engine.AdapterFactory via a constructor function;
// Factories returns the default set in the order a caller typically
// registers them.
package adapter

import (
	"reflect"
	"strconv"

	"github.com/arloliu/nbtgo/errs"
	"github.com/arloliu/nbtgo/kind"
	"github.com/arloliu/nbtgo/stream"
	"fmt"
)

func numericToInt64(v reflect.Value) int64 {
	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			return 1
		}

		return 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return int64(v.Float())
	default:
		return 0
	}
}

func numericToFloat64(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	case reflect.Bool:
		if v.Bool() {
			return 1
		}

		return 0
	default:
		return 0
	}
}

// readNumeric reads whichever numeric kind is actually present on the
// wire (k, already peeked), independent of the target Go type; this is
// the mechanism behind the lenient numeric decode the built-in scalar
// adapter offers.
func readNumeric(r *stream.Reader, k kind.TagKind) (int64, float64, error) {
	switch k {
	case kind.Byte:
		v, err := r.ReadByte()
		return int64(v), float64(v), err
	case kind.Short:
		v, err := r.ReadShort()
		return int64(v), float64(v), err
	case kind.Int:
		v, err := r.ReadInt()
		return int64(v), float64(v), err
	case kind.Long:
		v, err := r.ReadLong()
		return v, float64(v), err
	case kind.Float:
		v, err := r.ReadFloat()
		return int64(v), float64(v), err
	case kind.Double:
		v, err := r.ReadDouble()
		return int64(v), v, err
	default:
		return 0, 0, fmt.Errorf("%w: %s is not numeric", errs.ErrUnexpectedKind, k)
	}
}

func coerceNumeric(t reflect.Type, n int64, f float64) reflect.Value {
	switch t.Kind() {
	case reflect.Bool:
		return reflect.ValueOf(n != 0)
	case reflect.Int8:
		return reflect.ValueOf(int8(n))
	case reflect.Int16:
		return reflect.ValueOf(int16(n))
	case reflect.Int32:
		return reflect.ValueOf(int32(n))
	case reflect.Int64:
		return reflect.ValueOf(n)
	case reflect.Int:
		return reflect.ValueOf(int(n))
	case reflect.Uint8:
		return reflect.ValueOf(uint8(n))
	case reflect.Uint16:
		return reflect.ValueOf(uint16(n))
	case reflect.Uint32:
		return reflect.ValueOf(uint32(n))
	case reflect.Uint64:
		return reflect.ValueOf(uint64(n))
	case reflect.Uint:
		return reflect.ValueOf(uint(n))
	case reflect.Float32:
		return reflect.ValueOf(float32(f))
	case reflect.Float64:
		return reflect.ValueOf(f)
	default:
		return reflect.Zero(t)
	}
}

func formatNumeric(k kind.TagKind, n int64, f float64) string {
	switch k {
	case kind.Float:
		return strconv.FormatFloat(f, 'g', -1, 32)
	case kind.Double:
		return strconv.FormatFloat(f, 'g', -1, 64)
	default:
		return strconv.FormatInt(n, 10)
	}
}

func parseNumericString(t reflect.Type, s string) (reflect.Value, error) {
	switch t.Kind() {
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w: %v", errs.ErrCorruptData, err)
		}

		return coerceNumeric(t, int64(f), f), nil
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w: %v", errs.ErrCorruptData, err)
		}

		return reflect.ValueOf(b), nil
	default:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w: %v", errs.ErrCorruptData, err)
		}

		return coerceNumeric(t, n, float64(n)), nil
	}
}
