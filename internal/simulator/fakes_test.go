package simulator_test

import (
	"errors"

	"github.com/ilpincy/argos3-sub001/internal/config"
	"github.com/ilpincy/argos3-sub001/internal/entity"
	"github.com/ilpincy/argos3-sub001/internal/physics"
	"github.com/ilpincy/argos3-sub001/internal/simulator"
)

// fakeEngine counts calls and houses any entity.
type fakeEngine struct {
	id        string
	updates   int
	resets    int
	destroyed bool
	entities  []string
	onUpdate  func() error
}

func (f *fakeEngine) ID() string { return f.id }

func (f *fakeEngine) Init(node *config.Node, _ float64) error {
	id, err := config.Attr[string](node, "id")
	if err != nil {
		return err
	}
	f.id = id
	if fail, _ := config.AttrOrDefault(node, "fail", false); fail {
		return errors.New("engine refused to start")
	}
	return nil
}

func (f *fakeEngine) Reset()   { f.resets++ }
func (f *fakeEngine) Destroy() { f.destroyed = true }

func (f *fakeEngine) Update() error {
	f.updates++
	if f.onUpdate != nil {
		return f.onUpdate()
	}
	return nil
}

func (f *fakeEngine) AddEntity(e entity.Entity) error {
	f.entities = append(f.entities, e.ID())
	return nil
}

func (f *fakeEngine) RemoveEntity(string) bool { return false }
func (f *fakeEngine) NumEntities() int         { return len(f.entities) }

// fakeRegistry returns the default registry plus a "fake" engine type whose
// instances are appended to created.
func fakeRegistry(created *[]*fakeEngine) *simulator.Registry {
	r := simulator.DefaultRegistry()
	r.RegisterEngine("fake", func() physics.Engine {
		e := &fakeEngine{}
		*created = append(*created, e)
		return e
	})
	return r
}

// countingLoop records hook calls.
type countingLoop struct {
	simulator.DefaultLoopFunctions
	sim               *simulator.Simulator
	pre, post, resets int
	postExperiment    int
	destroyed         bool
	stopAt            uint64
}

func (l *countingLoop) Init(_ *config.Node, sim *simulator.Simulator) error {
	l.sim = sim
	return nil
}

func (l *countingLoop) PreStep()        { l.pre++ }
func (l *countingLoop) PostStep()       { l.post++ }
func (l *countingLoop) Reset()          { l.resets++ }
func (l *countingLoop) Destroy()        { l.destroyed = true }
func (l *countingLoop) PostExperiment() { l.postExperiment++ }

func (l *countingLoop) IsExperimentFinished() bool {
	return l.stopAt > 0 && l.sim.Clock() >= l.stopAt
}
