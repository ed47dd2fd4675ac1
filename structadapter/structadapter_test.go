package structadapter_test

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/arloliu/nbtgo/adapter"
	"github.com/arloliu/nbtgo/engine"
	"github.com/arloliu/nbtgo/stream"
	"github.com/arloliu/nbtgo/structadapter"
	"github.com/arloliu/nbtgo/typeinfo"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) *engine.Engine {
	t.Helper()

	eng, err := engine.New()
	require.NoError(t, err)

	for _, f := range adapter.Factories() {
		eng.RegisterAdapterFactory(f)
	}

	eng.RegisterAdapterFactory(structadapter.PointerFactory())
	eng.SetFallbackFactory(structadapter.NewFactory(eng))

	return eng
}

type Address struct {
	City string `nbt:"city"`
	Zip  string `nbt:"zip,postal_code"`
}

type Player struct {
	Name    string   `nbt:"Name"`
	Health  int32    `nbt:"Health"`
	Address Address  `nbt:"Address"`
	Tags    []string `nbt:"Tags"`
	Nick    *string  `nbt:"Nick"`
	unexported int
}

func roundTrip(t *testing.T, eng *engine.Engine, typ reflect.Type, v reflect.Value) reflect.Value {
	t.Helper()

	ser, err := eng.GetSerializer(typeinfo.OfType(typ))
	require.NoError(t, err)

	var buf bytes.Buffer

	w := stream.NewWriter(&buf)
	require.NoError(t, ser.Encode(w, v))

	deser, err := eng.GetDeserializer(typeinfo.OfType(typ))
	require.NoError(t, err)

	r := stream.NewReader(&buf)
	out, err := deser.Decode(r)
	require.NoError(t, err)

	return out
}

func TestStructRoundTripNestedFieldsAndAliases(t *testing.T) {
	eng := newEngine(t)

	nick := "Miner"
	p := Player{
		Name:   "Steve",
		Health: 18,
		Address: Address{
			City: "Beacontown",
			Zip:  "99999",
		},
		Tags: []string{"builder", "explorer"},
		Nick: &nick,
	}

	out := roundTrip(t, eng, reflect.TypeOf(Player{}), reflect.ValueOf(p))
	got := out.Interface().(Player)

	require.Equal(t, p.Name, got.Name)
	require.Equal(t, p.Health, got.Health)
	require.Equal(t, p.Address, got.Address)
	require.Equal(t, p.Tags, got.Tags)
	require.NotNil(t, got.Nick)
	require.Equal(t, *p.Nick, *got.Nick)
}

func TestStructReadAcceptsAlias(t *testing.T) {
	eng := newEngine(t)

	var buf bytes.Buffer

	w := stream.NewWriter(&buf)
	require.NoError(t, w.BeginCompound())
	require.NoError(t, w.Name("city"))
	require.NoError(t, w.WriteString("Stonewood"))
	require.NoError(t, w.Name("postal_code"))
	require.NoError(t, w.WriteString("10101"))
	require.NoError(t, w.EndCompound())

	deser, err := eng.GetDeserializer(typeinfo.OfType(reflect.TypeOf(Address{})))
	require.NoError(t, err)

	r := stream.NewReader(&buf)
	v, err := deser.Decode(r)
	require.NoError(t, err)

	got := v.Interface().(Address)
	require.Equal(t, "Stonewood", got.City)
	require.Equal(t, "10101", got.Zip)
}

// Untagged fits a default CamelCase-as-is naming strategy: the field's Go
// name is used directly, so a struct with no tags still round-trips.
type Untagged struct {
	Score int32
}

func TestStructFieldWithoutTagUsesNamingStrategy(t *testing.T) {
	eng := newEngine(t)

	out := roundTrip(t, eng, reflect.TypeOf(Untagged{}), reflect.ValueOf(Untagged{Score: 7}))
	require.Equal(t, int32(7), out.Interface().(Untagged).Score)
}

// Legacy has one field fewer than the wire data a newer writer produced;
// decoding must skip the surplus field rather than fail.
type Legacy struct {
	Name string `nbt:"Name"`
}

type Modern struct {
	Name    string `nbt:"Name"`
	Version int32  `nbt:"Version"`
}

func TestStructDecodeSkipsSurplusWireFields(t *testing.T) {
	eng := newEngine(t)

	modernSer, err := eng.GetSerializer(typeinfo.OfType(reflect.TypeOf(Modern{})))
	require.NoError(t, err)

	var buf bytes.Buffer

	w := stream.NewWriter(&buf)
	require.NoError(t, modernSer.Encode(w, reflect.ValueOf(Modern{Name: "village", Version: 3})))

	legacyDeser, err := eng.GetDeserializer(typeinfo.OfType(reflect.TypeOf(Legacy{})))
	require.NoError(t, err)

	r := stream.NewReader(&buf)
	v, err := legacyDeser.Decode(r)
	require.NoError(t, err)
	require.Equal(t, "village", v.Interface().(Legacy).Name)
}

func TestStructEncodeSkipsNilPointerField(t *testing.T) {
	eng := newEngine(t)

	p := Player{Name: "Alex", Health: 20, Tags: nil, Nick: nil}

	ser, err := eng.GetSerializer(typeinfo.OfType(reflect.TypeOf(Player{})))
	require.NoError(t, err)

	var buf bytes.Buffer

	w := stream.NewWriter(&buf)
	require.NoError(t, ser.Encode(w, reflect.ValueOf(p)))

	deser, err := eng.GetDeserializer(typeinfo.OfType(reflect.TypeOf(Player{})))
	require.NoError(t, err)

	r := stream.NewReader(&buf)
	v, err := deser.Decode(r)
	require.NoError(t, err)

	got := v.Interface().(Player)
	require.Nil(t, got.Nick)
	require.Empty(t, got.Tags)
}

// Stamped records whether PostDeserialize ran, in the no-error-return
// form of the hook.
type Stamped struct {
	Value    int32 `nbt:"Value"`
	stamped  bool
}

func (s *Stamped) PostDeserialize() {
	s.stamped = true
}

func TestStructPostDeserializeHookRuns(t *testing.T) {
	eng := newEngine(t)

	out := roundTrip(t, eng, reflect.TypeOf(Stamped{}), reflect.ValueOf(Stamped{Value: 9}))
	got := out.Interface().(Stamped)
	require.True(t, got.stamped)
}

// Guarded fails PostDeserialize for any negative value, exercising the
// error-returning form of the hook.
type Guarded struct {
	Value int32 `nbt:"Value"`
}

func (g *Guarded) PostDeserialize() error {
	if g.Value < 0 {
		return errNegativeValue
	}

	return nil
}

var errNegativeValue = errGuard{}

type errGuard struct{}

func (errGuard) Error() string { return "negative value not allowed" }

func TestStructPostDeserializeHookPropagatesError(t *testing.T) {
	eng := newEngine(t)

	ser, err := eng.GetSerializer(typeinfo.OfType(reflect.TypeOf(Guarded{})))
	require.NoError(t, err)

	var buf bytes.Buffer

	w := stream.NewWriter(&buf)
	require.NoError(t, ser.Encode(w, reflect.ValueOf(Guarded{Value: -1})))

	deser, err := eng.GetDeserializer(typeinfo.OfType(reflect.TypeOf(Guarded{})))
	require.NoError(t, err)

	r := stream.NewReader(&buf)
	_, err = deser.Decode(r)
	require.ErrorIs(t, err, errNegativeValue)
}

// Pinned exercises the nbtopt adapter pin via a named adapter registered
// independently of field discovery.
type Pinned struct {
	Code string `nbt:"Code" nbtopt:"adapter=testUpperString"`
}

func TestStructFieldAdapterPin(t *testing.T) {
	eng := newEngine(t)

	plainSer, err := eng.GetSerializer(typeinfo.OfType(reflect.TypeOf("")))
	require.NoError(t, err)

	structadapter.RegisterNamedAdapter("testUpperString", func(d typeinfo.Descriptor, e *engine.Engine) (engine.Adapter, error) {
		return plainSer.(engine.Adapter), nil
	})

	out := roundTrip(t, eng, reflect.TypeOf(Pinned{}), reflect.ValueOf(Pinned{Code: "abc"}))
	require.Equal(t, "abc", out.Interface().(Pinned).Code)
}
