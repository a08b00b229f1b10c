package controllers

import (
	"math"

	"github.com/ilpincy/argos3-sub001/internal/config"
	"github.com/ilpincy/argos3-sub001/internal/integrators"
	"github.com/ilpincy/argos3-sub001/internal/random"
)

var fullTurn = random.Range[random.Radians]{Min: -math.Pi, Max: math.Pi}

// RandomWalk cruises at a fixed speed and picks a new heading with a fixed
// probability every tick.
type RandomWalk struct {
	Speed    float64
	TurnProb float64
	Gain     float64

	rng     *random.RNG
	heading random.Radians
}

func NewRandomWalk() *RandomWalk {
	return &RandomWalk{Speed: 0.1, TurnProb: 0.05, Gain: 1}
}

func (w *RandomWalk) Init(params *config.Node, rngs RNGSource) error {
	var err error
	if w.Speed, err = config.AttrOrDefault(params, "speed", w.Speed); err != nil {
		return err
	}
	if w.TurnProb, err = config.AttrOrDefault(params, "turn_probability", w.TurnProb); err != nil {
		return err
	}
	if w.Gain, err = config.AttrOrDefault(params, "gain", w.Gain); err != nil {
		return err
	}
	typ, err := config.AttrOrDefault(params, "rng", "")
	if err != nil {
		return err
	}
	if w.rng, err = rngs.CreateRNG(typ); err != nil {
		return err
	}
	w.Reset()
	return nil
}

func (w *RandomWalk) ControlStep(x integrators.State, t float64) integrators.Control {
	if w.rng.Bernoulli(w.TurnProb) {
		w.heading = w.rng.UniformRadians(fullTurn)
	}
	u := make(integrators.Control, ControlDim)
	if len(x) < 2*ControlDim {
		return u
	}
	h := float64(w.heading)
	u[0] = w.Gain * (w.Speed*math.Cos(h) - x[2])
	u[1] = w.Gain * (w.Speed*math.Sin(h) - x[3])
	return u
}

// Reset draws the initial heading. The generator itself is rewound by its
// category.
func (w *RandomWalk) Reset() {
	w.heading = w.rng.UniformRadians(fullTurn)
}

func (w *RandomWalk) Destroy() {}

func (w *RandomWalk) Heading() random.Radians { return w.heading }
