package memo

const defaultMaxSize = 10000

type config struct {
	maxSize int
}

// Option applies a configuration option to a cache.
type Option func(*config)

// WithMaxSize sets the maximum number of entries.
// If maxSize > 0: bounded mode with least-recently-used eviction.
// If maxSize <= 0: unbounded mode.
func WithMaxSize(maxSize int) Option {
	return func(c *config) {
		c.maxSize = maxSize
	}
}
