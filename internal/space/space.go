package space

import (
	"fmt"
	"regexp"

	"github.com/ilpincy/argos3-sub001/internal/config"
	"github.com/ilpincy/argos3-sub001/internal/entity"
	"github.com/ilpincy/argos3-sub001/internal/physics"
	"github.com/ilpincy/argos3-sub001/internal/random"
)

// Hooks are called once per tick around the sense+step phase.
type Hooks interface {
	PreStep()
	PostStep()
}

// StepGuard is told when a parallel phase starts and ends.
// *random.Registry satisfies it.
type StepGuard interface {
	BeginStep()
	EndStep()
}

// EntityFactory builds an uninitialized entity from its type tag.
type EntityFactory func(typ string) (entity.Entity, error)

type Space struct {
	strategy   Strategy
	guard      StepGuard
	tickLength float64
	clock      uint64

	center, size [3]float64

	entities      []entity.Entity
	byID          map[string]entity.Entity
	controllables []entity.Controllable
	engines       []physics.Engine
}

func New(strategy Strategy, tickLength float64) *Space {
	return &Space{
		strategy:   strategy,
		tickLength: tickLength,
		byID:       make(map[string]entity.Entity),
	}
}

// SetStepGuard installs the guard notified around parallel phases.
func (s *Space) SetStepGuard(g StepGuard) { s.guard = g }

func (s *Space) Strategy() Strategy { return s.strategy }

// Init reads <arena>: size is mandatory, center defaults to the origin.
// Explicit entities are added first, then every <distribute> block in
// document order, drawing positions from rng.
func (s *Space) Init(arena *config.Node, newEntity EntityFactory, rng *random.RNG) error {
	var err error
	if s.size, err = vec3(arena, "size"); err != nil {
		return err
	}
	if arena.HasAttr("center") {
		if s.center, err = vec3(arena, "center"); err != nil {
			return err
		}
	}
	for _, item := range arena.Children {
		if item.Name == "distribute" {
			continue
		}
		e, err := newEntity(item.Name)
		if err != nil {
			return err
		}
		if err := e.Init(item); err != nil {
			return fmt.Errorf("initializing <%s>: %w", item.Name, err)
		}
		if err := s.AddEntity(e); err != nil {
			return err
		}
	}
	for _, item := range arena.ChildrenNamed("distribute") {
		if err := s.distribute(item, newEntity, rng); err != nil {
			return fmt.Errorf("%w: %w", ErrDistribute, err)
		}
	}
	return nil
}

// ArenaLimits returns the lower and upper corners of the arena.
func (s *Space) ArenaLimits() (lo, hi [3]float64) {
	for i := range lo {
		lo[i] = s.center[i] - s.size[i]/2
		hi[i] = s.center[i] + s.size[i]/2
	}
	return lo, hi
}

func (s *Space) AddEntity(e entity.Entity) error {
	if _, ok := s.byID[e.ID()]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateEntity, e.ID())
	}
	s.entities = append(s.entities, e)
	s.byID[e.ID()] = e
	if c, ok := entity.AsControllable(e); ok {
		s.controllables = append(s.controllables, c)
	}
	return nil
}

// RemoveEntity detaches the entity from the space and from every engine and
// destroys it.
func (s *Space) RemoveEntity(id string) bool {
	e, ok := s.byID[id]
	if !ok {
		return false
	}
	for _, eng := range s.engines {
		eng.RemoveEntity(id)
	}
	delete(s.byID, id)
	s.entities = removeFirst(s.entities, func(x entity.Entity) bool { return x.ID() == id })
	s.controllables = removeFirst(s.controllables, func(x entity.Controllable) bool { return x.ID() == id })
	e.Destroy()
	return true
}

func removeFirst[T any](s []T, match func(T) bool) []T {
	for i, x := range s {
		if match(x) {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}

func (s *Space) Entity(id string) (entity.Entity, bool) {
	e, ok := s.byID[id]
	return e, ok
}

// Entities returns every entity in insertion order.
func (s *Space) Entities() []entity.Entity {
	out := make([]entity.Entity, len(s.entities))
	copy(out, s.entities)
	return out
}

func (s *Space) Controllables() []entity.Controllable {
	out := make([]entity.Controllable, len(s.controllables))
	copy(out, s.controllables)
	return out
}

// EntitiesMatching returns, in insertion order, the entities whose whole id
// matches pattern.
func (s *Space) EntitiesMatching(pattern string) ([]entity.Entity, error) {
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return nil, fmt.Errorf("bad entity pattern %q: %w", pattern, err)
	}
	var out []entity.Entity
	for _, e := range s.entities {
		if re.MatchString(e.ID()) {
			out = append(out, e)
		}
	}
	return out, nil
}

// SetPhysicsEngines publishes the engines in stepping order.
func (s *Space) SetPhysicsEngines(engines []physics.Engine) {
	s.engines = append([]physics.Engine(nil), engines...)
}

func (s *Space) PhysicsEngines() []physics.Engine {
	return append([]physics.Engine(nil), s.engines...)
}

func (s *Space) Clock() uint64 { return s.clock }

// Update runs one tick. A failing phase stops the tick and its error is
// returned; the clock has already advanced.
func (s *Space) Update(hooks Hooks) error {
	s.clock++
	t := float64(s.clock) * s.tickLength

	if err := s.parallel(len(s.controllables), func(i int) error {
		s.controllables[i].Act()
		return nil
	}); err != nil {
		return err
	}
	if err := s.parallel(len(s.engines), func(i int) error {
		return s.engines[i].Update()
	}); err != nil {
		return err
	}
	hooks.PreStep()
	if err := s.parallel(len(s.controllables), func(i int) error {
		s.controllables[i].SenseStep(t)
		return nil
	}); err != nil {
		return err
	}
	hooks.PostStep()
	return nil
}

func (s *Space) parallel(n int, task func(i int) error) error {
	if s.guard != nil {
		s.guard.BeginStep()
		defer s.guard.EndStep()
	}
	return s.strategy.Run(n, task)
}

// Reset rewinds the clock and every entity to its configured state.
func (s *Space) Reset() {
	s.clock = 0
	for _, e := range s.entities {
		e.Reset()
	}
}

// Destroy removes every entity, last added first, and stops the strategy.
func (s *Space) Destroy() {
	for len(s.entities) > 0 {
		s.RemoveEntity(s.entities[len(s.entities)-1].ID())
	}
	s.engines = nil
	if s.strategy != nil {
		s.strategy.Close()
	}
}

func vec3(n *config.Node, name string) ([3]float64, error) {
	var out [3]float64
	v, err := config.Floats(n, name)
	if err != nil {
		return out, err
	}
	if len(v) < 2 || len(v) > 3 {
		return out, fmt.Errorf("%w: %q in <%s> needs 2 or 3 components", config.ErrBadAttr, name, n.Name)
	}
	copy(out[:], v)
	return out, nil
}
