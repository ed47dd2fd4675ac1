package errs_test

import (
	"errors"
	"testing"

	"github.com/arloliu/nbtgo/errs"
	"github.com/stretchr/testify/require"
)

func TestUnexpectedKindErrorUnwraps(t *testing.T) {
	var err error = &errs.UnexpectedKindError{Path: "$.foo", Expected: "Int", Found: "String"}
	require.True(t, errors.Is(err, errs.ErrUnexpectedKind))
	require.Contains(t, err.Error(), "$.foo")
}

func TestInvalidTagIdErrorUnwraps(t *testing.T) {
	var err error = &errs.InvalidTagIdError{Path: "$", Id: 0xFE}
	require.True(t, errors.Is(err, errs.ErrInvalidTagId))
}

func TestIoErrorIs(t *testing.T) {
	var err error = &errs.IoError{Path: "$", Err: errors.New("closed pipe")}
	require.True(t, errors.Is(err, errs.ErrIoFailure))
}

func TestPathError(t *testing.T) {
	var err error = &errs.PathError{Path: "$.a[3]", Err: errs.ErrCorruptData}
	require.True(t, errors.Is(err, errs.ErrCorruptData))
	require.Contains(t, err.Error(), "$.a[3]")
}
