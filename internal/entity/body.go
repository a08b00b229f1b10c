package entity

import (
	"fmt"
	"math"

	"github.com/ilpincy/argos3-sub001/internal/config"
	"github.com/ilpincy/argos3-sub001/internal/integrators"
)

// Body is the physical part of an embodied entity. State is laid out as
// [x, y, vx, vy] so the integrators can treat the first half as positions.
type Body struct {
	Movable bool
	Radius  float64
	Mass    float64
	// Orientation is the yaw in radians.
	Orientation float64
	State       integrators.State
	Command     integrators.Control
	// Engine is the id of the physics engine housing the body, "" if none.
	Engine string

	initState       integrators.State
	initOrientation float64
}

func newBody(movable bool) *Body {
	return &Body{
		Movable: movable,
		Radius:  0.05,
		Mass:    1,
		State:   make(integrators.State, 4),
		Command: make(integrators.Control, 2),
	}
}

// parse reads the <body> element: position "x,y[,z]", orientation in
// degrees "yaw[,pitch,roll]" and an optional velocity "vx,vy".
func (b *Body) parse(node *config.Node) error {
	pos, err := config.Floats(node, "position")
	if err != nil {
		return err
	}
	if len(pos) < 2 {
		return fmt.Errorf("%w: position needs at least x,y", config.ErrBadAttr)
	}
	b.State[0], b.State[1] = pos[0], pos[1]

	if node.HasAttr("orientation") {
		o, err := config.Floats(node, "orientation")
		if err != nil {
			return err
		}
		b.Orientation = o[0] * math.Pi / 180
	}
	if node.HasAttr("velocity") {
		v, err := config.Floats(node, "velocity")
		if err != nil {
			return err
		}
		if len(v) < 2 {
			return fmt.Errorf("%w: velocity needs vx,vy", config.ErrBadAttr)
		}
		b.State[2], b.State[3] = v[0], v[1]
	}
	b.initState = b.State.Clone()
	b.initOrientation = b.Orientation
	return nil
}

func (b *Body) parseShape(node *config.Node) error {
	var err error
	if b.Radius, err = config.AttrOrDefault(node, "radius", b.Radius); err != nil {
		return err
	}
	if b.Mass, err = config.AttrOrDefault(node, "mass", b.Mass); err != nil {
		return err
	}
	if b.Radius <= 0 || b.Mass <= 0 {
		return fmt.Errorf("%w: radius and mass must be positive", config.ErrBadAttr)
	}
	return nil
}

func (b *Body) Position() (x, y float64) { return b.State[0], b.State[1] }

func (b *Body) Velocity() (vx, vy float64) { return b.State[2], b.State[3] }

// Overlaps reports whether the two discs intersect.
func (b *Body) Overlaps(o *Body) bool {
	dx := b.State[0] - o.State[0]
	dy := b.State[1] - o.State[1]
	r := b.Radius + o.Radius
	return dx*dx+dy*dy < r*r
}

// Reset restores the configured pose and clears the command.
func (b *Body) Reset() {
	copy(b.State, b.initState)
	b.Orientation = b.initOrientation
	for i := range b.Command {
		b.Command[i] = 0
	}
}
