// Package structadapter implements the reflective structure adapter: it
// discovers a struct type's fields once at adapter-build time, binds
// each to an NBT name and a recursively resolved adapter, and replays
// that binding on every subsequent encode/decode without parsing tags or
// resolving field adapters again. The post-deserialize hook is still
// looked up by method name on each decode of a type that has one.
package structadapter

import (
	"fmt"
	"sync"

	"github.com/arloliu/nbtgo/engine"
	"github.com/arloliu/nbtgo/errs"
	"github.com/arloliu/nbtgo/typeinfo"
)

// NamedAdapterCtor builds an Adapter for d. It mirrors the shape the
// engine's own AdapterFactory.CreateAdapter uses, minus the ok-bool:
// a pinned adapter is always expected to succeed or report why not.
type NamedAdapterCtor func(d typeinfo.Descriptor, eng *engine.Engine) (engine.Adapter, error)

var (
	namedAdaptersMu sync.RWMutex
	namedAdapters   = map[string]NamedAdapterCtor{}
)

// RegisterNamedAdapter makes ctor available to the `nbtopt:"adapter=name"`
// (or `serializer=name`/`deserializer=name`) struct tag pin. Go has no
// runtime facility to instantiate a type from a string class name the
// way the distilled spec's "adapter pin" assumes, so a field can only
// pin an adapter that its package has registered here by name, typically
// from an init function alongside the type it adapts.
func RegisterNamedAdapter(name string, ctor NamedAdapterCtor) {
	namedAdaptersMu.Lock()
	defer namedAdaptersMu.Unlock()

	namedAdapters[name] = ctor
}

func lookupNamedAdapter(name string) (NamedAdapterCtor, error) {
	namedAdaptersMu.RLock()
	defer namedAdaptersMu.RUnlock()

	ctor, ok := namedAdapters[name]
	if !ok {
		return nil, fmt.Errorf("%w: no adapter registered under name %q", errs.ErrNoAdapter, name)
	}

	return ctor, nil
}
