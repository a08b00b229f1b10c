package entity

import (
	"github.com/ilpincy/argos3-sub001/internal/config"
	"github.com/ilpincy/argos3-sub001/internal/controllers"
	"github.com/ilpincy/argos3-sub001/internal/integrators"
)

// Robot is a movable body driven by a controller.
//
//	robot:
//	  id: fb0
//	  body: {position: "0,0", orientation: "90"}
//	  controller: {config: walker}
type Robot struct {
	base
	body       *Body
	ctrlNode   *config.Node
	controller controllers.Controller
	pending    integrators.Control
}

func NewRobot() *Robot {
	return &Robot{
		base:    base{typ: "robot"},
		body:    newBody(true),
		pending: make(integrators.Control, controllers.ControlDim),
	}
}

func (r *Robot) Init(node *config.Node) error {
	if err := r.base.init(node); err != nil {
		return err
	}
	if err := r.body.parseShape(node); err != nil {
		return err
	}
	bodyNode, err := node.Child("body")
	if err != nil {
		return err
	}
	if err := r.body.parse(bodyNode); err != nil {
		return err
	}
	if c, err := node.Child("controller"); err == nil {
		r.ctrlNode = c
	}
	return nil
}

func (r *Robot) Body() *Body { return r.body }

func (r *Robot) ControllerNode() *config.Node { return r.ctrlNode }

func (r *Robot) SetController(c controllers.Controller) { r.controller = c }

func (r *Robot) Controller() controllers.Controller { return r.controller }

func (r *Robot) Act() {
	copy(r.body.Command, r.pending)
}

func (r *Robot) SenseStep(t float64) {
	if r.controller == nil {
		return
	}
	u := r.controller.ControlStep(r.body.State.Clone(), t)
	copy(r.pending, u)
}

func (r *Robot) Reset() {
	r.body.Reset()
	for i := range r.pending {
		r.pending[i] = 0
	}
	if r.controller != nil {
		r.controller.Reset()
	}
}

func (r *Robot) Destroy() {
	if r.controller != nil {
		r.controller.Destroy()
		r.controller = nil
	}
}
