// Package typeinfo describes the Go-side shape the engine needs to pick
// and cache adapters: a Descriptor wraps a reflect.Type (whose own
// element and key types already distinguish a slice from a map from a
// scalar), and a CollisionTracker detects hash
// collisions in the engine's descriptor cache shards.
package typeinfo

import (
	"fmt"
	"reflect"
)

// Descriptor identifies a Go type for adapter lookup purposes. Two
// descriptors built from the same reflect.Type compare equal and hash
// the same, making Descriptor safe to use as a map key or a cache key.
type Descriptor struct {
	rtype reflect.Type
}

// Of builds a Descriptor from a value's concrete type. Passing a nil
// interface produces the zero Descriptor.
func Of(v any) Descriptor {
	if v == nil {
		return Descriptor{}
	}

	return Descriptor{rtype: reflect.TypeOf(v)}
}

// OfType builds a Descriptor directly from a reflect.Type, for callers
// that already have one (field types discovered during struct
// introspection, element types discovered while unwrapping a slice).
func OfType(t reflect.Type) Descriptor {
	return Descriptor{rtype: t}
}

// Type returns the underlying reflect.Type.
func (d Descriptor) Type() reflect.Type { return d.rtype }

// Kind returns the underlying reflect.Kind, or reflect.Invalid for the
// zero Descriptor.
func (d Descriptor) Kind() reflect.Kind {
	if d.rtype == nil {
		return reflect.Invalid
	}

	return d.rtype.Kind()
}

// Elem returns the Descriptor of the type's element (slice/array/map
// value/pointer target), panicking if the type has no element as
// reflect.Type.Elem does.
func (d Descriptor) Elem() Descriptor {
	return Descriptor{rtype: d.rtype.Elem()}
}

// Key returns the Descriptor of a map type's key.
func (d Descriptor) Key() Descriptor {
	return Descriptor{rtype: d.rtype.Key()}
}

// String renders the type's package-qualified name, for log and error
// messages.
func (d Descriptor) String() string {
	if d.rtype == nil {
		return "<nil>"
	}

	return d.rtype.String()
}

// CacheKey returns a comparable value suitable for use as a map key in a
// fast-path adapter cache. reflect.Type values are themselves comparable
// and uniqued by the runtime, so the type itself is the key.
func (d Descriptor) CacheKey() reflect.Type { return d.rtype }

// GoString implements fmt.GoStringer for debugging.
func (d Descriptor) GoString() string {
	return fmt.Sprintf("typeinfo.Descriptor{%s}", d.String())
}
