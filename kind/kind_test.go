package kind_test

import (
	"testing"

	"github.com/arloliu/nbtgo/kind"
	"github.com/stretchr/testify/require"
)

func TestStringAndValid(t *testing.T) {
	cases := []struct {
		k    kind.TagKind
		name string
	}{
		{kind.End, "End"},
		{kind.Byte, "Byte"},
		{kind.Compound, "Compound"},
		{kind.LongArray, "LongArray"},
	}

	for _, c := range cases {
		require.Equal(t, c.name, c.k.String())
		require.True(t, c.k.Valid())
	}

	require.False(t, kind.TagKind(13).Valid())
	require.Contains(t, kind.TagKind(200).String(), "0xc8")
}

func TestFixedSize(t *testing.T) {
	n, ok := kind.Int.FixedSize()
	require.True(t, ok)
	require.Equal(t, 4, n)

	_, ok = kind.String.FixedSize()
	require.False(t, ok)
}

func TestElementKind(t *testing.T) {
	e, ok := kind.IntArray.ElementKind()
	require.True(t, ok)
	require.Equal(t, kind.Int, e)

	_, ok = kind.Compound.ElementKind()
	require.False(t, ok)
}

func TestClassification(t *testing.T) {
	require.True(t, kind.Double.IsNumeric())
	require.False(t, kind.String.IsNumeric())
	require.True(t, kind.ByteArray.IsArray())
	require.True(t, kind.List.IsContainer())
	require.True(t, kind.Compound.IsContainer())
	require.False(t, kind.Int.IsContainer())
}
