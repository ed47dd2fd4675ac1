package engine

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/arloliu/nbtgo/errs"
	"github.com/arloliu/nbtgo/typeinfo"
)

// shardCount is the number of independent cache shards the registry
// splits across. Splitting reduces lock contention under concurrent
// lookups from many goroutines sharing one Engine; xxhash.Sum64String
// of the type's name picks the shard.
const shardCount = 16

// shard holds one slice of the four descriptor caches, each guarded by
// its own lock so unrelated types don't contend.
type shard struct {
	mu sync.RWMutex

	serializers      map[reflect.Type]Serializer
	deserializers    map[reflect.Type]Deserializer
	creators         map[reflect.Type]InstanceCreator
	resolvers        map[reflect.Type]TypeResolver
	resolversChecked map[reflect.Type]bool
}

func newShard() *shard {
	return &shard{
		serializers:      make(map[reflect.Type]Serializer),
		deserializers:    make(map[reflect.Type]Deserializer),
		creators:         make(map[reflect.Type]InstanceCreator),
		resolvers:        make(map[reflect.Type]TypeResolver),
		resolversChecked: make(map[reflect.Type]bool),
	}
}

// Engine is the adapter registry and lookup facade: it holds the
// ordered factory lists, the sharded per-descriptor caches, and the
// naming strategy used by the reflective structure adapter. An Engine
// is safe for concurrent use once constructed; lookups of a completed
// cache entry take no lock beyond a shard's RWMutex read lock.
type Engine struct {
	shards [shardCount]*shard

	collisions *typeinfo.CollisionTracker

	factoryMu                sync.RWMutex
	serializerFactories      []SerializerFactory
	deserializerFactories    []DeserializerFactory
	instanceCreatorFactories []InstanceCreatorFactory
	typeResolverFactories    []TypeResolverFactory

	namingStrategy         NamingStrategy
	fallback               AdapterFactory
	defaultInstanceCreator InstanceCreator
}

// New constructs an Engine with no registered factories beyond the
// default reflect-based instance creator. Callers typically layer
// built-in scalar/array/sequence/mapping/enum/any adapters and a
// reflective structure adapter fallback on top via RegisterAdapterFactory
// and SetFallbackFactory; see the top-level package constructor for the
// batteries-included wiring.
func New(opts ...EngineOption) (*Engine, error) {
	cfg := &config{namingStrategy: FieldNameStrategy}
	if err := applyOptions(cfg, opts...); err != nil {
		return nil, err
	}

	e := &Engine{
		collisions:             typeinfo.NewCollisionTracker(),
		namingStrategy:         cfg.namingStrategy,
		defaultInstanceCreator: reflectInstanceCreator{},
	}

	for i := range e.shards {
		e.shards[i] = newShard()
	}

	return e, nil
}

// NamingStrategy returns the strategy snapshotted at construction (or
// the last WithNamingStrategy option applied to New). Adapters built
// before a later change keep using the strategy active at their build
// time, since field bindings are resolved once and cached.
func (e *Engine) NamingStrategy() NamingStrategy { return e.namingStrategy }

// Collisions exposes the shard-assignment collision tracker for
// diagnostics.
func (e *Engine) Collisions() *typeinfo.CollisionTracker { return e.collisions }

// SetFallbackFactory installs the factory consulted when no registered
// serializer/deserializer factory claims a descriptor. In practice this
// is the reflective structure adapter factory; it is wired by the
// caller rather than imported here to avoid a package cycle (the
// structure adapter itself depends on Engine to resolve field types).
func (e *Engine) SetFallbackFactory(f AdapterFactory) {
	e.factoryMu.Lock()
	e.fallback = f
	e.factoryMu.Unlock()

	e.clearAdapterCaches()
}

func (e *Engine) shardFor(d typeinfo.Descriptor) *shard {
	idx := typeinfo.ShardHash(d) % uint64(shardCount)
	return e.shards[idx]
}

func (e *Engine) trackShard(d typeinfo.Descriptor) {
	idx := typeinfo.ShardHash(d) % uint64(shardCount)
	e.collisions.Track(idx, d.String())
}

// clearAdapterCaches drops every cached Serializer and Deserializer.
// Called when a new adapter factory is registered, since a later
// registration can supersede what an earlier lookup already resolved
// for some descriptor.
func (e *Engine) clearAdapterCaches() {
	for _, sh := range e.shards {
		sh.mu.Lock()
		sh.serializers = make(map[reflect.Type]Serializer)
		sh.deserializers = make(map[reflect.Type]Deserializer)
		sh.mu.Unlock()
	}
}

// RegisterAdapterFactory appends f to both the serializer and
// deserializer factory lists. Later registrations take precedence:
// lookups iterate in reverse registration order.
func (e *Engine) RegisterAdapterFactory(f AdapterFactory) {
	e.factoryMu.Lock()
	e.serializerFactories = append(e.serializerFactories, adapterAsSerializerFactory{f})
	e.deserializerFactories = append(e.deserializerFactories, adapterAsDeserializerFactory{f})
	e.factoryMu.Unlock()

	e.clearAdapterCaches()
}

// RegisterSerializerFactory appends a serializer-only factory.
func (e *Engine) RegisterSerializerFactory(f SerializerFactory) {
	e.factoryMu.Lock()
	e.serializerFactories = append(e.serializerFactories, f)
	e.factoryMu.Unlock()

	e.clearAdapterCaches()
}

// RegisterDeserializerFactory appends a deserializer-only factory.
func (e *Engine) RegisterDeserializerFactory(f DeserializerFactory) {
	e.factoryMu.Lock()
	e.deserializerFactories = append(e.deserializerFactories, f)
	e.factoryMu.Unlock()

	e.clearAdapterCaches()
}

// RegisterInstanceCreatorFactory appends an instance-creator factory.
func (e *Engine) RegisterInstanceCreatorFactory(f InstanceCreatorFactory) {
	e.factoryMu.Lock()
	e.instanceCreatorFactories = append(e.instanceCreatorFactories, f)
	e.factoryMu.Unlock()
}

// RegisterTypeResolverFactory appends a type-resolver factory.
func (e *Engine) RegisterTypeResolverFactory(f TypeResolverFactory) {
	e.factoryMu.Lock()
	e.typeResolverFactories = append(e.typeResolverFactories, f)
	e.factoryMu.Unlock()
}

// RegisterAdapter pins a to exactly the descriptor d, implemented as an
// inline factory matching by CacheKey equality.
func (e *Engine) RegisterAdapter(d typeinfo.Descriptor, a Adapter) {
	key := d.CacheKey()
	e.RegisterAdapterFactory(FuncAdapterFactory(func(cd typeinfo.Descriptor, _ *Engine) (Adapter, bool) {
		if cd.CacheKey() == key {
			return a, true
		}

		return nil, false
	}))
}

type instanceCreatorFuncFactory func(d typeinfo.Descriptor, eng *Engine) (InstanceCreator, bool)

func (f instanceCreatorFuncFactory) CreateInstanceCreator(d typeinfo.Descriptor, eng *Engine) (InstanceCreator, bool) {
	return f(d, eng)
}

// RegisterInstanceCreator pins c to exactly the descriptor d.
func (e *Engine) RegisterInstanceCreator(d typeinfo.Descriptor, c InstanceCreator) {
	key := d.CacheKey()
	e.RegisterInstanceCreatorFactory(instanceCreatorFuncFactory(func(cd typeinfo.Descriptor, _ *Engine) (InstanceCreator, bool) {
		if cd.CacheKey() == key {
			return c, true
		}

		return nil, false
	}))
}

type typeResolverFuncFactory func(d typeinfo.Descriptor, eng *Engine) (TypeResolver, bool)

func (f typeResolverFuncFactory) CreateTypeResolver(d typeinfo.Descriptor, eng *Engine) (TypeResolver, bool) {
	return f(d, eng)
}

// RegisterTypeResolver pins r to exactly the descriptor d.
func (e *Engine) RegisterTypeResolver(d typeinfo.Descriptor, r TypeResolver) {
	key := d.CacheKey()
	e.RegisterTypeResolverFactory(typeResolverFuncFactory(func(cd typeinfo.Descriptor, _ *Engine) (TypeResolver, bool) {
		if cd.CacheKey() == key {
			return r, true
		}

		return nil, false
	}))
}

// GetSerializer resolves (building and caching if necessary) the
// Serializer for d. A placeholder is published before factories run so
// a recursive request for the same descriptor during construction
// (a self-referential or mutually recursive type) resolves to a
// forwarder rather than recursing without end.
func (e *Engine) GetSerializer(d typeinfo.Descriptor) (Serializer, error) {
	sh := e.shardFor(d)
	key := d.CacheKey()

	sh.mu.RLock()
	if s, ok := sh.serializers[key]; ok {
		sh.mu.RUnlock()
		return s, nil
	}
	sh.mu.RUnlock()

	sh.mu.Lock()
	if s, ok := sh.serializers[key]; ok {
		sh.mu.Unlock()
		return s, nil
	}

	ph := &serializerPlaceholder{}
	sh.serializers[key] = ph
	sh.mu.Unlock()

	e.trackShard(d)

	resolved, err := e.buildSerializer(d)
	if err != nil {
		sh.mu.Lock()
		if _, ok := sh.serializers[key]; ok {
			delete(sh.serializers, key)
		}
		sh.mu.Unlock()

		return nil, err
	}

	ph.complete(resolved)

	sh.mu.Lock()
	sh.serializers[key] = resolved
	sh.mu.Unlock()

	return resolved, nil
}

func (e *Engine) buildSerializer(d typeinfo.Descriptor) (Serializer, error) {
	e.factoryMu.RLock()
	factories := e.serializerFactories
	e.factoryMu.RUnlock()

	for i := len(factories) - 1; i >= 0; i-- {
		if s, ok := factories[i].CreateSerializer(d, e); ok {
			return s, nil
		}
	}

	e.factoryMu.RLock()
	fallback := e.fallback
	e.factoryMu.RUnlock()

	if fallback != nil {
		if a, ok := fallback.CreateAdapter(d, e); ok {
			return a, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrNoAdapter, d.String())
}

// GetDeserializer is GetSerializer's decode-side counterpart.
func (e *Engine) GetDeserializer(d typeinfo.Descriptor) (Deserializer, error) {
	sh := e.shardFor(d)
	key := d.CacheKey()

	sh.mu.RLock()
	if ds, ok := sh.deserializers[key]; ok {
		sh.mu.RUnlock()
		return ds, nil
	}
	sh.mu.RUnlock()

	sh.mu.Lock()
	if ds, ok := sh.deserializers[key]; ok {
		sh.mu.Unlock()
		return ds, nil
	}

	ph := &deserializerPlaceholder{}
	sh.deserializers[key] = ph
	sh.mu.Unlock()

	e.trackShard(d)

	resolved, err := e.buildDeserializer(d)
	if err != nil {
		sh.mu.Lock()
		if _, ok := sh.deserializers[key]; ok {
			delete(sh.deserializers, key)
		}
		sh.mu.Unlock()

		return nil, err
	}

	ph.complete(resolved)

	sh.mu.Lock()
	sh.deserializers[key] = resolved
	sh.mu.Unlock()

	return resolved, nil
}

func (e *Engine) buildDeserializer(d typeinfo.Descriptor) (Deserializer, error) {
	e.factoryMu.RLock()
	factories := e.deserializerFactories
	e.factoryMu.RUnlock()

	for i := len(factories) - 1; i >= 0; i-- {
		if ds, ok := factories[i].CreateDeserializer(d, e); ok {
			return ds, nil
		}
	}

	e.factoryMu.RLock()
	fallback := e.fallback
	e.factoryMu.RUnlock()

	if fallback != nil {
		if a, ok := fallback.CreateAdapter(d, e); ok {
			return a, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrNoAdapter, d.String())
}

// reflectInstanceCreator is the built-in default instance creator: a
// bare reflect.New/MakeMap/MakeSlice, which Go's reflect package always
// permits regardless of a type's constructors (there is no Go analogue
// to a private/inaccessible constructor blocking this).
type reflectInstanceCreator struct{}

func (reflectInstanceCreator) NewInstance(d typeinfo.Descriptor) (reflect.Value, error) {
	t := d.Type()
	if t == nil {
		return reflect.Value{}, fmt.Errorf("%w: nil type", errs.ErrNoConstructor)
	}

	switch t.Kind() {
	case reflect.Map:
		return reflect.MakeMap(t), nil
	case reflect.Slice:
		return reflect.MakeSlice(t, 0, 0), nil
	case reflect.Ptr:
		return reflect.New(t.Elem()), nil
	default:
		return reflect.New(t).Elem(), nil
	}
}

// GetInstanceCreator resolves the InstanceCreator for d, falling back
// to the reflect-based default when no registered factory claims it.
func (e *Engine) GetInstanceCreator(d typeinfo.Descriptor) (InstanceCreator, error) {
	sh := e.shardFor(d)
	key := d.CacheKey()

	sh.mu.RLock()
	if c, ok := sh.creators[key]; ok {
		sh.mu.RUnlock()
		return c, nil
	}
	sh.mu.RUnlock()

	sh.mu.Lock()
	if c, ok := sh.creators[key]; ok {
		sh.mu.Unlock()
		return c, nil
	}

	ph := &instanceCreatorPlaceholder{}
	sh.creators[key] = ph
	sh.mu.Unlock()

	e.trackShard(d)

	e.factoryMu.RLock()
	factories := e.instanceCreatorFactories
	e.factoryMu.RUnlock()

	var resolved InstanceCreator
	for i := len(factories) - 1; i >= 0; i-- {
		if c, ok := factories[i].CreateInstanceCreator(d, e); ok {
			resolved = c
			break
		}
	}

	if resolved == nil {
		resolved = e.defaultInstanceCreator
	}

	ph.complete(resolved)

	sh.mu.Lock()
	sh.creators[key] = resolved
	sh.mu.Unlock()

	return resolved, nil
}

// GetTypeResolver reports the TypeResolver registered for d, if any.
// Unlike the other three lookups this one is opt-in: ok is false when
// no factory and no pinned resolver claims the descriptor, which simply
// means d isn't polymorphic.
func (e *Engine) GetTypeResolver(d typeinfo.Descriptor) (TypeResolver, bool) {
	sh := e.shardFor(d)
	key := d.CacheKey()

	sh.mu.RLock()
	if r, ok := sh.resolvers[key]; ok {
		sh.mu.RUnlock()
		return r, true
	}

	if sh.resolversChecked[key] {
		sh.mu.RUnlock()
		return nil, false
	}
	sh.mu.RUnlock()

	sh.mu.Lock()
	if r, ok := sh.resolvers[key]; ok {
		sh.mu.Unlock()
		return r, true
	}

	if sh.resolversChecked[key] {
		sh.mu.Unlock()
		return nil, false
	}

	ph := &typeResolverPlaceholder{}
	sh.resolvers[key] = ph
	sh.mu.Unlock()

	e.factoryMu.RLock()
	factories := e.typeResolverFactories
	e.factoryMu.RUnlock()

	var resolved TypeResolver
	for i := len(factories) - 1; i >= 0; i-- {
		if r, ok := factories[i].CreateTypeResolver(d, e); ok {
			resolved = r
			break
		}
	}

	sh.mu.Lock()
	if resolved == nil {
		delete(sh.resolvers, key)
		sh.resolversChecked[key] = true
		sh.mu.Unlock()

		return nil, false
	}
	sh.mu.Unlock()

	ph.complete(resolved)

	sh.mu.Lock()
	sh.resolvers[key] = resolved
	sh.mu.Unlock()

	return resolved, true
}
