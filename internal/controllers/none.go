package controllers

import (
	"github.com/ilpincy/argos3-sub001/internal/config"
	"github.com/ilpincy/argos3-sub001/internal/integrators"
)

// None never pushes the body.
type None struct{}

func NewNone() *None {
	return &None{}
}

func (n *None) Init(*config.Node, RNGSource) error { return nil }

func (n *None) ControlStep(x integrators.State, t float64) integrators.Control {
	return make(integrators.Control, ControlDim)
}

func (n *None) Reset()   {}
func (n *None) Destroy() {}
