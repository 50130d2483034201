package cbor

// DefaultMaxDepth is the default nesting limit for arrays, maps and tags.
const DefaultMaxDepth = 512

// Config holds the limits of an encode or decode call. The zero value uses the
// defaults.
type Config struct {
	// MaxDepth is the maximum nesting depth of containers and tags. A
	// top-level array has depth 1. Exceeding the limit fails with an
	// "exhausted" error.
	MaxDepth int `json:"max_depth"`
}

// NewConfig returns a Config with default values.
func NewConfig() Config {
	return Config{
		MaxDepth: DefaultMaxDepth,
	}
}

func (c Config) maxDepth() int {
	if c.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return c.MaxDepth
}
