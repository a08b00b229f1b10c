package simulator

import (
	"github.com/charmbracelet/log"

	"github.com/ilpincy/argos3-sub001/internal/profiler"
	"github.com/ilpincy/argos3-sub001/internal/random"
)

type Option func(*Simulator)

func WithLogger(l *log.Logger) Option {
	return func(s *Simulator) { s.logger = l }
}

func WithRegistry(r *Registry) Option {
	return func(s *Simulator) { s.registry = r }
}

// WithRNGRegistry makes the simulator use r instead of a private registry.
// Only one simulator at a time may be initialized on r: Init fails with
// ErrCategoryInUse while another simulator holds the argos category.
func WithRNGRegistry(r *random.Registry) Option {
	return func(s *Simulator) { s.rngs = r }
}

func WithMetrics(m *profiler.Metrics) Option {
	return func(s *Simulator) { s.metrics = m }
}

// WithThreading overrides the <system> element. An empty method keeps the
// configured one.
func WithThreading(threads int, method string) Option {
	return func(s *Simulator) {
		s.threads = &threads
		s.method = method
	}
}

// WithThreadingMethod overrides only the method of <system>, keeping the
// configured thread count.
func WithThreadingMethod(method string) Option {
	return func(s *Simulator) { s.method = method }
}

// WithSeed sets an explicit seed that takes precedence over random_seed.
func WithSeed(seed uint32) Option {
	return func(s *Simulator) { s.SetRandomSeed(seed) }
}
