package entity

import (
	"errors"
	"fmt"

	"github.com/ilpincy/argos3-sub001/internal/config"
	"github.com/ilpincy/argos3-sub001/internal/controllers"
)

var ErrMissingID = errors.New("entity: missing id")

type Entity interface {
	ID() string
	Type() string
	Init(node *config.Node) error
	Reset()
	Destroy()
}

// Embodied entities occupy space and can be attached to a physics engine.
type Embodied interface {
	Entity
	Body() *Body
}

// Controllable entities carry a controller slot. The controller is resolved
// and attached by the simulator, not by the entity.
type Controllable interface {
	Entity
	// ControllerNode returns the <controller> element of the entity, or nil.
	ControllerNode() *config.Node
	SetController(c controllers.Controller)
	Controller() controllers.Controller
	// Act hands the last computed command to the body.
	Act()
	// SenseStep reads the body and computes the next command.
	SenseStep(t float64)
}

func AsEmbodied(e Entity) (*Body, bool) {
	if em, ok := e.(Embodied); ok {
		return em.Body(), true
	}
	return nil, false
}

func AsControllable(e Entity) (Controllable, bool) {
	c, ok := e.(Controllable)
	return c, ok
}

type base struct {
	id  string
	typ string
}

func (b *base) ID() string   { return b.id }
func (b *base) Type() string { return b.typ }

func (b *base) init(node *config.Node) error {
	id, err := config.Attr[string](node, "id")
	if err != nil {
		return fmt.Errorf("%w: <%s>: %v", ErrMissingID, node.Name, err)
	}
	if id == "" {
		return fmt.Errorf("%w: <%s> has an empty id", ErrMissingID, node.Name)
	}
	b.id = id
	return nil
}
