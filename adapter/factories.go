package adapter

import "github.com/arloliu/nbtgo/engine"

// Factories returns the built-in adapter factories in the order they're
// typically registered: scalar and string conversions first, generic
// sequences and mappings next (so they're shadowed by the more specific
// array factory registered after them, since lookups favor the most
// recently registered match), then the three fixed-width array kinds,
// then the dynamic any-tree decoder. Enum types aren't included here;
// register each with RegisterEnum, since Go can't discover a named
// integer type's declared case set by reflection alone.
func Factories() []engine.AdapterFactory {
	return []engine.AdapterFactory{
		ScalarFactory(),
		SequenceFactory(),
		MappingFactory(),
		ArrayFactory(),
		AnyFactory(),
	}
}
