package simulator

import (
	"fmt"
	"time"

	"github.com/ilpincy/argos3-sub001/internal/config"
	"github.com/ilpincy/argos3-sub001/internal/entity"
	"github.com/ilpincy/argos3-sub001/internal/profiler"
	"github.com/ilpincy/argos3-sub001/internal/space"
	"github.com/ilpincy/argos3-sub001/internal/viz"
)

func (s *Simulator) root() *config.Node { return s.doc.Root }

// InitFramework reads <framework>, creates the argos category and selects
// the threading strategy used later by the space.
func (s *Simulator) InitFramework() error {
	fw, err := config.ParseFramework(s.root())
	if err != nil {
		return fmt.Errorf("failed to initialize the simulator: parse error inside the <framework> tag: %w", err)
	}
	if s.threads != nil {
		fw.System.Threads = *s.threads
	}
	if s.method != "" {
		fw.System.Method = s.method
	}
	s.framework = fw

	if !s.seedSet && fw.Experiment.RandomSeed != 0 {
		s.SetRandomSeed(fw.Experiment.RandomSeed)
	}
	if !s.seedSet {
		s.seed = wallClockSeed()
		s.logger.Info("Using random seed", "seed", s.seed)
	}
	if !s.rngs.CreateCategory(Category, s.seed) {
		return fmt.Errorf("failed to initialize the simulator: %w", ErrCategoryInUse)
	}
	s.ownsCategory = true
	if s.rng, err = s.rngs.CreateRNG(Category, ""); err != nil {
		return fmt.Errorf("failed to initialize the simulator: %w", err)
	}

	s.maxTicks = fw.MaxTicks()
	if s.maxTicks > 0 {
		s.logger.Info("Total experiment length in clock ticks", "ticks", s.maxTicks)
	} else {
		s.logger.Info("Total experiment length in clock ticks", "ticks", "unlimited")
	}

	if fw.System.Threads == 0 {
		s.logger.Info("Not using threads")
	} else {
		s.logger.Info("Using threads", "threads", fw.System.Threads, "method", fw.System.Method)
	}

	if p := fw.Profiling; p != nil {
		if s.profiler, err = profiler.New(p.File, p.TruncateFile); err != nil {
			return fmt.Errorf("failed to initialize the simulator: %w", err)
		}
	}
	return nil
}

// InitControllers indexes the <controllers> definitions by id. The section
// is optional.
func (s *Simulator) InitControllers() error {
	s.controllerDefs = make(map[string]*config.Node)
	node, err := s.root().Child("controllers")
	if err != nil {
		return nil
	}
	for _, def := range node.Children {
		id, ok := def.Attrs["id"]
		if !ok || id == "" {
			return fmt.Errorf("%w: controller type %q has no assigned id", ErrControllerConfig, def.Name)
		}
		if _, dup := s.controllerDefs[id]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateController, id)
		}
		s.controllerDefs[id] = def
	}
	return nil
}

func (s *Simulator) createLoopFunctions() error {
	node, err := s.root().Child("loop_functions")
	if err != nil {
		s.loop = DefaultLoopFunctions{}
		return nil
	}
	label, err := config.Attr[string](node, "label")
	if err != nil {
		return fmt.Errorf("error initializing loop functions: %w", err)
	}
	if s.loop, err = s.registry.NewLoopFunctions(label); err != nil {
		return fmt.Errorf("error initializing loop functions: %w", err)
	}
	return nil
}

// InitSpace builds the space with the selected strategy and populates it
// from <arena>.
func (s *Simulator) InitSpace() error {
	strategy, err := space.NewStrategy(s.framework.System.Method, s.framework.System.Threads)
	if err != nil {
		return fmt.Errorf("failed to initialize the space: %w", err)
	}
	s.space = space.New(strategy, s.framework.TickLength())
	s.space.SetStepGuard(s.rngs)

	arena, err := s.root().Child("arena")
	if err != nil {
		return fmt.Errorf("failed to initialize the space: %w", err)
	}
	// Arena placement has its own generator so GetRNG is untouched by Init.
	placement, err := s.rngs.CreateRNG(Category, "")
	if err != nil {
		return fmt.Errorf("failed to initialize the space: %w", err)
	}
	if err := s.space.Init(arena, s.registry.NewEntity, placement); err != nil {
		return fmt.Errorf("failed to initialize the space: %w", err)
	}
	if s.metrics != nil {
		s.metrics.SetEntities(len(s.space.Entities()))
	}
	return nil
}

// InitPhysics creates one engine per child of <physics_engines>. An engine
// that fails to initialize is destroyed before the error is returned.
func (s *Simulator) InitPhysics() error {
	node, err := s.root().Child("physics_engines")
	if err == nil {
		for _, child := range node.Children {
			if err = s.addEngine(child); err != nil {
				break
			}
		}
	}
	if err != nil {
		return fmt.Errorf("failed to initialize the physics engines: parse error in the <physics_engines> subtree: %w", err)
	}
	return nil
}

func (s *Simulator) addEngine(node *config.Node) error {
	e, err := s.registry.NewEngine(node.Name)
	if err != nil {
		return err
	}
	if err := e.Init(node, s.framework.TickLength()); err != nil {
		e.Destroy()
		return fmt.Errorf("error initializing physics engine type %q: %w", node.Name, err)
	}
	if _, dup := s.engineByID[e.ID()]; dup {
		e.Destroy()
		return fmt.Errorf("%w: %q", ErrDuplicateEngine, e.ID())
	}
	s.engineByID[e.ID()] = e
	s.engines = append(s.engines, e)
	return nil
}

// InitPhysicsEntitiesMapping attaches entities to engines following
// <arena_physics>, resolves the controllers of the attached controllable
// entities, then hands the engine list to the space.
func (s *Simulator) InitPhysicsEntitiesMapping() error {
	node, err := s.root().Child("arena_physics")
	if err != nil {
		return fmt.Errorf("failed to initialize the entity-engine mapping: %w", err)
	}
	for _, eng := range node.ChildrenNamed("engine") {
		if err := s.mapEngine(eng); err != nil {
			return fmt.Errorf("failed to initialize the entity-engine mapping: %w", err)
		}
	}
	s.space.SetPhysicsEngines(s.engines)
	if s.metrics != nil {
		for _, e := range s.engines {
			s.metrics.SetEngineEntities(e.ID(), e.NumEntities())
		}
	}
	return nil
}

func (s *Simulator) mapEngine(node *config.Node) error {
	id, err := config.Attr[string](node, "id")
	if err != nil {
		return err
	}
	engine, err := s.PhysicsEngine(id)
	if err != nil {
		return err
	}
	for _, sel := range node.ChildrenNamed("entity") {
		pattern, err := config.Attr[string](sel, "id")
		if err != nil {
			return err
		}
		matches, err := s.space.EntitiesMatching(pattern)
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			return fmt.Errorf("%w: %q (engine %q)", ErrNoMatchingEntity, pattern, id)
		}
		for _, e := range matches {
			if err := engine.AddEntity(e); err != nil {
				return fmt.Errorf("engine %q: %w", id, err)
			}
			if c, ok := entity.AsControllable(e); ok {
				if err := s.initController(c); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// initController resolves and attaches the controller of c. A <params>
// child of the entity's <controller> element makes it local; the type then
// comes from its type attribute or from the definition named by config.
// Otherwise config must name an entry of <controllers>.
func (s *Simulator) initController(c entity.Controllable) error {
	if c.Controller() != nil {
		return nil
	}
	node := c.ControllerNode()
	if node == nil {
		return fmt.Errorf("%w: entity %q has no <controller>", ErrControllerConfig, c.ID())
	}
	def := s.controllerDefs[node.Attrs["config"]]

	var typ string
	params, err := node.Child("params")
	switch {
	case err == nil:
		typ = node.Attrs["type"]
		if typ == "" && def != nil {
			typ = def.Name
		}
		if typ == "" {
			return fmt.Errorf("%w: local controller of entity %q has no type", ErrControllerConfig, c.ID())
		}
	case def != nil:
		typ = def.Name
		if params, err = def.Child("params"); err != nil {
			params = config.NewNode("params")
		}
	default:
		return fmt.Errorf("%w: entity %q: controller %q is neither local nor defined in <controllers>",
			ErrControllerConfig, c.ID(), node.Attrs["config"])
	}

	ctrl, err := s.registry.NewController(typ)
	if err != nil {
		return fmt.Errorf("entity %q: %w", c.ID(), err)
	}
	cat, err := s.rngs.Category(Category)
	if err != nil {
		return err
	}
	if err := ctrl.Init(params, cat); err != nil {
		ctrl.Destroy()
		return fmt.Errorf("entity %q: initializing controller %q: %w", c.ID(), typ, err)
	}
	c.SetController(ctrl)
	return nil
}

// InitLoopFunctions runs the loop functions' Init now that every entity is
// wired.
func (s *Simulator) InitLoopFunctions() error {
	node, err := s.root().Child("loop_functions")
	if err != nil {
		node = config.NewNode("loop_functions")
	}
	if err := s.loop.Init(node, s); err != nil {
		return fmt.Errorf("error initializing loop functions: %w", err)
	}
	return nil
}

// InitVisualization creates the first child of <visualization>, or the
// default one when the section is absent or empty.
func (s *Simulator) InitVisualization() error {
	var node *config.Node
	if v, err := s.root().Child("visualization"); err == nil && len(v.Children) > 0 {
		node = v.Children[0]
	}
	var err error
	if node == nil {
		s.logger.Warn("No visualization selected")
		s.vis = viz.NewDefault()
	} else if s.vis, err = s.registry.NewVisualization(node.Name); err != nil {
		return fmt.Errorf("failed to initialize the visualization: %w", err)
	}
	settings := viz.Settings{
		TickLength: time.Duration(s.framework.TickLength() * float64(time.Second)),
		RealTime:   s.framework.Experiment.RealTime,
		Logger:     s.logger,
	}
	if err := s.vis.Init(node, settings); err != nil {
		return fmt.Errorf("failed to initialize the visualization: %w", err)
	}
	return nil
}
