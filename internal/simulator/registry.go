package simulator

import (
	"fmt"
	"sort"

	"github.com/ilpincy/argos3-sub001/internal/controllers"
	"github.com/ilpincy/argos3-sub001/internal/entity"
	"github.com/ilpincy/argos3-sub001/internal/physics"
	"github.com/ilpincy/argos3-sub001/internal/viz"
)

type factories[T any] struct {
	kind string
	m    map[string]func() T
}

func newFactories[T any](kind string) factories[T] {
	return factories[T]{kind: kind, m: make(map[string]func() T)}
}

func (f factories[T]) build(name string) (T, error) {
	fn, ok := f.m[name]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s %q (available: %v)", ErrUnknownType, f.kind, name, f.names())
	}
	return fn(), nil
}

func (f factories[T]) names() []string {
	names := make([]string, 0, len(f.m))
	for name := range f.m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Registry maps configuration element names to constructors.
type Registry struct {
	engines        factories[physics.Engine]
	entities       factories[entity.Entity]
	controllers    factories[controllers.Controller]
	loopFunctions  factories[LoopFunctions]
	visualizations factories[viz.Visualization]
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		engines:        newFactories[physics.Engine]("physics engine"),
		entities:       newFactories[entity.Entity]("entity"),
		controllers:    newFactories[controllers.Controller]("controller"),
		loopFunctions:  newFactories[LoopFunctions]("loop functions"),
		visualizations: newFactories[viz.Visualization]("visualization"),
	}
}

// DefaultRegistry returns a registry holding every built-in type.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.RegisterEngine("pointmass", func() physics.Engine { return physics.NewPointMass() })

	r.RegisterEntity("box", func() entity.Entity { return entity.NewBox() })
	r.RegisterEntity("robot", func() entity.Entity { return entity.NewRobot() })

	r.RegisterController("none", func() controllers.Controller { return controllers.NewNone() })
	r.RegisterController("pid", func() controllers.Controller {
		return controllers.NewPID(controllers.DefaultKp, controllers.DefaultKi, controllers.DefaultKd)
	})
	r.RegisterController("lqr", func() controllers.Controller {
		return controllers.NewLQR(controllers.DoubleIntegratorGains(), nil)
	})
	r.RegisterController("random_walk", func() controllers.Controller { return controllers.NewRandomWalk() })

	r.RegisterLoopFunctions("default", func() LoopFunctions { return DefaultLoopFunctions{} })

	r.RegisterVisualization("default", func() viz.Visualization { return viz.NewDefault() })
	r.RegisterVisualization("text", func() viz.Visualization { return viz.NewText() })
	r.RegisterVisualization("tui", func() viz.Visualization { return viz.NewTUI() })

	return r
}

func (r *Registry) RegisterEngine(name string, fn func() physics.Engine) { r.engines.m[name] = fn }

func (r *Registry) RegisterEntity(name string, fn func() entity.Entity) { r.entities.m[name] = fn }

func (r *Registry) RegisterController(name string, fn func() controllers.Controller) {
	r.controllers.m[name] = fn
}

func (r *Registry) RegisterLoopFunctions(label string, fn func() LoopFunctions) {
	r.loopFunctions.m[label] = fn
}

func (r *Registry) RegisterVisualization(name string, fn func() viz.Visualization) {
	r.visualizations.m[name] = fn
}

func (r *Registry) NewEngine(name string) (physics.Engine, error) { return r.engines.build(name) }

// NewEntity has the shape of space.EntityFactory.
func (r *Registry) NewEntity(name string) (entity.Entity, error) { return r.entities.build(name) }

func (r *Registry) NewController(name string) (controllers.Controller, error) {
	return r.controllers.build(name)
}

func (r *Registry) NewLoopFunctions(label string) (LoopFunctions, error) {
	return r.loopFunctions.build(label)
}

func (r *Registry) NewVisualization(name string) (viz.Visualization, error) {
	return r.visualizations.build(name)
}

// Names lists the registered names per kind.
func (r *Registry) Names() map[string][]string {
	return map[string][]string{
		r.engines.kind:        r.engines.names(),
		r.entities.kind:       r.entities.names(),
		r.controllers.kind:    r.controllers.names(),
		r.loopFunctions.kind:  r.loopFunctions.names(),
		r.visualizations.kind: r.visualizations.names(),
	}
}
