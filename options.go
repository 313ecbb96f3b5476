package ofxparse

// Option configures a parse call.
type Option func(*config)

type config struct {
	failFast bool
	builder  Builder
}

func newConfig(opts []Option) config {
	c := config{failFast: true, builder: GetBuilder()}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithFailFast selects the error policy. When true (the default) the first transaction or
// statement field that fails to decode aborts the parse. When false failing records are kept
// in Statement.DiscardedEntries and failing statement fields in the Warnings.
func WithFailFast(failFast bool) Option {
	return func(c *config) {
		c.failFast = failFast
	}
}

// WithBuilder replaces the tree builder.
func WithBuilder(b Builder) Option {
	return func(c *config) {
		if b != nil {
			c.builder = b
		}
	}
}
