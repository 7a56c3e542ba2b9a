package scapegoat

import "fmt"

// DefaultAlpha is the balance factor used by clients without specific
// balancing requirements.
const DefaultAlpha = 0.75

// config holds the effective configuration of a tree.
type config struct {
	alpha        float64
	freeListSize int
}

// Option configures a tree using the functional options pattern.
type Option func(*config)

// WithFreeListSize sets the number of released nodes a tree will keep for
// re-use during rebuilds. A size of 0 disables node recycling.
func WithFreeListSize(n int) Option {
	return func(cfg *config) {
		cfg.freeListSize = n
	}
}

func newConfig(alpha float64, opts []Option) config {
	cfg := config{
		alpha:        alpha,
		freeListSize: DefaultFreeListSize,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

func (cfg config) validate() error {
	if !(cfg.alpha > 0.5 && cfg.alpha < 1) {
		return fmt.Errorf("%w: got %g", ErrInvalidAlpha, cfg.alpha)
	}
	if cfg.freeListSize < 0 {
		return fmt.Errorf("%w: negative free list size %d", ErrIllegalArguments, cfg.freeListSize)
	}
	return nil
}
