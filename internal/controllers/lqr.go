package controllers

import (
	"fmt"
	"math"

	"github.com/ilpincy/argos3-sub001/internal/config"
	"github.com/ilpincy/argos3-sub001/internal/integrators"
)

// LQR is linear state feedback u = -K (x - target) on the [x, y, vx, vy]
// body state.
type LQR struct {
	K      [][]float64
	Target integrators.State
}

func NewLQR(k [][]float64, target integrators.State) *LQR {
	return &LQR{K: k, Target: target}
}

// DoubleIntegratorGains is the LQR solution for a unit-mass point with
// Q = I and R = I on each axis.
func DoubleIntegratorGains() [][]float64 {
	kd := math.Sqrt(3)
	return [][]float64{
		{1, 0, kd, 0},
		{0, 1, 0, kd},
	}
}

func (l *LQR) Init(params *config.Node, _ RNGSource) error {
	if params.HasAttr("gains") {
		g, err := config.Floats(params, "gains")
		if err != nil {
			return err
		}
		if len(g) != 2*4 {
			return fmt.Errorf("%w: gains needs 8 values, got %d", config.ErrBadAttr, len(g))
		}
		l.K = [][]float64{g[:4], g[4:]}
	}
	if l.K == nil {
		l.K = DoubleIntegratorGains()
	}
	tgt, err := target(params)
	if err != nil {
		return err
	}
	l.Target = integrators.State{tgt[0], tgt[1], 0, 0}
	return nil
}

func (l *LQR) ControlStep(x integrators.State, t float64) integrators.Control {
	u := make(integrators.Control, len(l.K))
	for i := range u {
		for j := range x {
			if j >= len(l.K[i]) {
				break
			}
			ref := 0.0
			if j < len(l.Target) {
				ref = l.Target[j]
			}
			u[i] -= l.K[i][j] * (x[j] - ref)
		}
	}
	return u
}

func (l *LQR) Reset()   {}
func (l *LQR) Destroy() {}
