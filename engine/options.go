package engine

import "github.com/arloliu/nbtgo/internal/options"

// config holds the engine's construction-time settings. It is built up
// by applying a chain of EngineOption values, using the same generic
// Option[T]/Func[T]/Apply triad every configurable constructor in the
// module reuses rather than hand-rolling its own copy.
type config struct {
	namingStrategy NamingStrategy
}

// EngineOption configures an Engine at construction time.
type EngineOption = options.Option[*config]

func applyOptions(c *config, opts ...EngineOption) error {
	return options.Apply(c, opts...)
}

// WithNamingStrategy overrides the strategy used by the reflective
// structure adapter to derive NBT names from Go field names when no
// `nbt:"..."` tag is present. Default is FieldNameStrategy.
func WithNamingStrategy(s NamingStrategy) EngineOption {
	return options.NoError(func(c *config) {
		c.namingStrategy = s
	})
}
