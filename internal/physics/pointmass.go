package physics

import (
	"fmt"

	"github.com/ilpincy/argos3-sub001/internal/config"
	"github.com/ilpincy/argos3-sub001/internal/entity"
	"github.com/ilpincy/argos3-sub001/internal/integrators"
)

type pointMassSystem struct {
	mass    float64
	damping float64
}

func (p pointMassSystem) Derive(x integrators.State, u integrators.Control, t float64, dx integrators.State) {
	half := len(x) / 2
	for i := 0; i < half; i++ {
		dx[i] = x[half+i]
		f := -p.damping * x[half+i]
		if i < len(u) {
			f += u[i]
		}
		dx[half+i] = f / p.mass
	}
}

type housed struct {
	id   string
	body *entity.Body
}

// PointMass integrates frictionless discs without collisions.
type PointMass struct {
	id         string
	integrator integrators.Integrator
	iterations int
	damping    float64
	tick       float64
	elapsed    float64
	bodies     []housed
}

func NewPointMass() *PointMass {
	return &PointMass{}
}

func (p *PointMass) ID() string { return p.id }

func (p *PointMass) Init(node *config.Node, tickLength float64) error {
	var err error
	if p.id, err = config.Attr[string](node, "id"); err != nil {
		return err
	}
	name, err := config.AttrOrDefault(node, "integrator", "rk4")
	if err != nil {
		return err
	}
	if p.integrator, err = integrators.New(name); err != nil {
		return fmt.Errorf("engine %q: %w", p.id, err)
	}
	if p.iterations, err = config.AttrOrDefault(node, "iterations", 1); err != nil {
		return err
	}
	if p.iterations < 1 {
		return fmt.Errorf("%w: engine %q: iterations must be at least 1", config.ErrBadAttr, p.id)
	}
	if p.damping, err = config.AttrOrDefault(node, "damping", 0.0); err != nil {
		return err
	}
	p.tick = tickLength
	return nil
}

func (p *PointMass) Reset() {
	p.elapsed = 0
}

// Destroy releases every housed body.
func (p *PointMass) Destroy() {
	for _, h := range p.bodies {
		if h.body.Engine == p.id {
			h.body.Engine = ""
		}
	}
	p.bodies = nil
}

func (p *PointMass) Update() error {
	dt := p.tick / float64(p.iterations)
	for _, h := range p.bodies {
		if !h.body.Movable {
			continue
		}
		sys := pointMassSystem{mass: h.body.Mass, damping: p.damping}
		t := p.elapsed
		for k := 0; k < p.iterations; k++ {
			p.integrator.Step(sys, h.body.State, h.body.Command, t, dt)
			t += dt
		}
		if !h.body.State.IsValid() {
			return fmt.Errorf("%w: engine %q, entity %q", ErrUnstable, p.id, h.id)
		}
	}
	p.elapsed += p.tick
	return nil
}

// AddEntity houses an embodied entity. A movable body belongs to at most one
// engine; static bodies may be shared.
func (p *PointMass) AddEntity(e entity.Entity) error {
	body, ok := entity.AsEmbodied(e)
	if !ok {
		return fmt.Errorf("%w: %q is not embodied", ErrCannotHouse, e.ID())
	}
	for _, h := range p.bodies {
		if h.id == e.ID() {
			return nil
		}
	}
	if body.Movable {
		if body.Engine != "" && body.Engine != p.id {
			return fmt.Errorf("%w: %q is already housed by engine %q", ErrCannotHouse, e.ID(), body.Engine)
		}
		body.Engine = p.id
	}
	p.bodies = append(p.bodies, housed{id: e.ID(), body: body})
	return nil
}

func (p *PointMass) RemoveEntity(id string) bool {
	for i, h := range p.bodies {
		if h.id == id {
			if h.body.Engine == p.id {
				h.body.Engine = ""
			}
			p.bodies = append(p.bodies[:i], p.bodies[i+1:]...)
			return true
		}
	}
	return false
}

func (p *PointMass) NumEntities() int { return len(p.bodies) }

// Elapsed returns the simulated time since the last reset.
func (p *PointMass) Elapsed() float64 { return p.elapsed }
