package controllers

import (
	"fmt"

	"github.com/ilpincy/argos3-sub001/internal/config"
	"github.com/ilpincy/argos3-sub001/internal/integrators"
	"github.com/ilpincy/argos3-sub001/internal/random"
)

// ControlDim is the size of the command vector.
const ControlDim = 2

// RNGSource hands out generators. *random.Category satisfies it.
type RNGSource interface {
	CreateRNG(typ string) (*random.RNG, error)
}

type Controller interface {
	// Init configures the controller from its <params> node, which may be
	// empty but is never nil.
	Init(params *config.Node, rngs RNGSource) error
	ControlStep(x integrators.State, t float64) integrators.Control
	Reset()
	Destroy()
}

func target(params *config.Node) ([ControlDim]float64, error) {
	var out [ControlDim]float64
	if !params.HasAttr("target") {
		return out, nil
	}
	v, err := config.Floats(params, "target")
	if err != nil {
		return out, err
	}
	if len(v) < ControlDim {
		return out, fmt.Errorf("%w: target needs %d components", config.ErrBadAttr, ControlDim)
	}
	copy(out[:], v)
	return out, nil
}
