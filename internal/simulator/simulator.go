package simulator

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ilpincy/argos3-sub001/internal/config"
	"github.com/ilpincy/argos3-sub001/internal/physics"
	"github.com/ilpincy/argos3-sub001/internal/profiler"
	"github.com/ilpincy/argos3-sub001/internal/random"
	"github.com/ilpincy/argos3-sub001/internal/space"
	"github.com/ilpincy/argos3-sub001/internal/viz"
)

// Category is the id of the random category owned by the simulator.
const Category = "argos"

type Simulator struct {
	logger   *log.Logger
	registry *Registry
	rngs     *random.Registry
	metrics  *profiler.Metrics
	threads  *int
	method   string

	doc       *config.Document
	framework config.Framework
	maxTicks  uint64

	seed         uint32
	seedSet      bool
	rng          *random.RNG
	ownsCategory bool

	controllerDefs map[string]*config.Node
	space          *space.Space
	engines        []physics.Engine
	engineByID     map[string]physics.Engine
	loop           LoopFunctions
	vis            viz.Visualization
	profiler       *profiler.Profiler

	terminated bool
}

func New(opts ...Option) *Simulator {
	s := &Simulator{
		logger:     log.NewWithOptions(os.Stderr, log.Options{Prefix: "argos"}),
		registry:   DefaultRegistry(),
		rngs:       random.NewRegistry(),
		engineByID: make(map[string]physics.Engine),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load keeps doc for Init and later lookups.
func (s *Simulator) Load(doc *config.Document) { s.doc = doc }

// LoadExperiment reads the configuration file at path and initializes the
// experiment from it.
func (s *Simulator) LoadExperiment(path string) error {
	doc, err := config.LoadFile(path)
	if err != nil {
		return fmt.Errorf("loading experiment: %w", err)
	}
	s.Load(doc)
	return s.Init()
}

// Init builds the experiment from the loaded document.
func (s *Simulator) Init() error {
	if s.doc == nil {
		return ErrNotLoaded
	}
	steps := []func() error{
		s.InitFramework,
		s.InitControllers,
		s.createLoopFunctions,
		s.InitSpace,
		s.InitPhysics,
		s.InitPhysicsEntitiesMapping,
		s.InitLoopFunctions,
		s.InitVisualization,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	if s.profiler != nil {
		if err := s.profiler.Start(); err != nil {
			return err
		}
	}
	return nil
}

// SetRandomSeed makes seed the explicit seed of the argos category. It is
// used by every later Reset until another explicit seed replaces it.
func (s *Simulator) SetRandomSeed(seed uint32) {
	s.seed = seed
	s.seedSet = true
}

func (s *Simulator) RandomSeed() uint32 { return s.seed }

// Reset rewinds the experiment to its state right after Init. Without an
// explicit seed a new one is drawn from the wall clock.
func (s *Simulator) Reset() error {
	if s.space == nil {
		return ErrNotInitialized
	}
	s.terminated = false
	if !s.seedSet {
		s.seed = wallClockSeed()
		s.logger.Info("Using random seed", "seed", s.seed)
	}
	cat, err := s.rngs.Category(Category)
	if err != nil {
		return err
	}
	cat.SetSeed(s.seed)
	cat.ResetRNGs()
	s.space.Reset()
	for _, e := range s.engines {
		e.Reset()
	}
	s.loop.Reset()
	if s.metrics != nil {
		s.metrics.ObserveReset()
	}
	return nil
}

// ResetWithSeed sets an explicit seed then resets.
func (s *Simulator) ResetWithSeed(seed uint32) error {
	s.SetRandomSeed(seed)
	return s.Reset()
}

// Destroy tears down whatever Init managed to build. It is safe after a
// failed Init and after a previous Destroy.
func (s *Simulator) Destroy() {
	if s.loop != nil {
		s.loop.Destroy()
		s.loop = nil
	}
	if s.vis != nil {
		s.vis.Destroy()
		s.vis = nil
	}
	for _, e := range s.engines {
		e.Destroy()
	}
	s.engines = nil
	s.engineByID = make(map[string]physics.Engine)
	if s.space != nil {
		s.space.SetPhysicsEngines(nil)
		s.space.Destroy()
		s.space = nil
	}
	if s.ownsCategory {
		_ = s.rngs.RemoveCategory(Category)
		s.ownsCategory = false
	}
	s.rng = nil
	s.controllerDefs = nil
	if s.profiler != nil {
		s.flushProfile()
		s.profiler = nil
	}
}

func (s *Simulator) flushProfile() {
	if err := s.profiler.Stop(); err != nil {
		s.logger.Warn("profiler", "err", err)
		return
	}
	human := s.framework.Profiling.Format == config.ProfileHumanReadable
	if err := s.profiler.Flush(human); err != nil {
		s.logger.Warn("profiler", "err", err)
		return
	}
	s.logger.Info("Profile written", "file", s.profiler.File())
}

// UpdateSpace runs one tick. Errors from engines are returned as is.
func (s *Simulator) UpdateSpace() error {
	if s.space == nil {
		return ErrNotInitialized
	}
	start := time.Now()
	err := s.space.Update(s.loop)
	took := time.Since(start)
	if s.profiler != nil {
		s.profiler.Tick(took)
	}
	if s.metrics != nil {
		s.metrics.ObserveTick(took)
	}
	return err
}

// IsExperimentFinished reports whether Terminate was called, the tick bound
// was reached or the loop functions ask to stop.
func (s *Simulator) IsExperimentFinished() bool {
	if s.terminated {
		return true
	}
	if s.maxTicks > 0 && s.Clock() >= s.maxTicks {
		return true
	}
	return s.loop != nil && s.loop.IsExperimentFinished()
}

func (s *Simulator) Terminate() { s.terminated = true }

// Execute hands the main loop to the visualization, then runs the loop
// functions' PostExperiment.
func (s *Simulator) Execute(ctx context.Context) error {
	if s.vis == nil {
		return ErrNotInitialized
	}
	err := s.vis.Execute(ctx, s)
	s.loop.PostExperiment()
	return err
}

func (s *Simulator) Clock() uint64 {
	if s.space == nil {
		return 0
	}
	return s.space.Clock()
}

func (s *Simulator) MaxTicks() uint64 { return s.maxTicks }

func (s *Simulator) Space() *space.Space { return s.space }

// GetRNG returns the simulator's own generator in the argos category.
func (s *Simulator) GetRNG() *random.RNG { return s.rng }

func (s *Simulator) RNGRegistry() *random.Registry { return s.rngs }

func (s *Simulator) Logger() *log.Logger { return s.logger }

func (s *Simulator) Framework() config.Framework { return s.framework }

func (s *Simulator) Document() *config.Document { return s.doc }

func (s *Simulator) Visualization() viz.Visualization { return s.vis }

func (s *Simulator) LoopFunctions() LoopFunctions { return s.loop }

// PhysicsEngines returns the engines in registration order.
func (s *Simulator) PhysicsEngines() []physics.Engine {
	out := make([]physics.Engine, len(s.engines))
	copy(out, s.engines)
	return out
}

func (s *Simulator) PhysicsEngine(id string) (physics.Engine, error) {
	e, ok := s.engineByID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, id)
	}
	return e, nil
}

// GetConfigForController returns the <controllers> definition with the
// given id.
func (s *Simulator) GetConfigForController(id string) (*config.Node, error) {
	def, ok := s.controllerDefs[id]
	if !ok {
		return nil, fmt.Errorf("%w: no controller with id %q", ErrControllerConfig, id)
	}
	return def, nil
}

// SaveRNGState serializes the whole random registry.
func (s *Simulator) SaveRNGState() ([]byte, error) { return s.rngs.SaveState() }

// LoadRNGState restores a SaveRNGState buffer. Generators already handed
// out keep their identity and follow the restored state.
func (s *Simulator) LoadRNGState(data []byte) error {
	if err := s.rngs.LoadState(data); err != nil {
		return err
	}
	if cat, err := s.rngs.Category(Category); err == nil {
		s.seed = cat.Seed()
	}
	return nil
}

func wallClockSeed() uint32 {
	return uint32(time.Now().UnixMicro())
}
