package errs

import "fmt"

// UnexpectedKindError reports a mismatch between the kind a caller
// expected and the kind actually present at path.
type UnexpectedKindError struct {
	Path     string
	Expected string
	Found    string
}

func (e *UnexpectedKindError) Error() string {
	return fmt.Sprintf("nbt: at %s: expected %s, found %s", e.Path, e.Expected, e.Found)
}

func (e *UnexpectedKindError) Unwrap() error { return ErrUnexpectedKind }

// InvalidTagIdError reports a byte that doesn't decode to a known tag id.
type InvalidTagIdError struct {
	Path string
	Id   byte
}

func (e *InvalidTagIdError) Error() string {
	return fmt.Sprintf("nbt: at %s: invalid tag id 0x%02x", e.Path, e.Id)
}

func (e *InvalidTagIdError) Unwrap() error { return ErrInvalidTagId }

// IoError wraps an underlying io.Reader/io.Writer failure with the path at
// which it occurred.
type IoError struct {
	Path string
	Err  error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("nbt: at %s: i/o failure: %v", e.Path, e.Err)
}

func (e *IoError) Unwrap() error { return e.Err }

// Is allows errors.Is(err, ErrIoFailure) to match IoError regardless of
// the wrapped error's own identity.
func (e *IoError) Is(target error) bool { return target == ErrIoFailure }

// PathError reports a sentinel error paired with the path it occurred at,
// for sentinels that don't need more structured context than a location.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("nbt: at %s: %v", e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }
