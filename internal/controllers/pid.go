package controllers

import (
	"github.com/ilpincy/argos3-sub001/internal/config"
	"github.com/ilpincy/argos3-sub001/internal/integrators"
)

const (
	DefaultKp = 10.0
	DefaultKi = 0.1
	DefaultKd = 5.0
)

// PID drives the body position towards Target, one loop per axis.
type PID struct {
	Kp       float64
	Ki       float64
	Kd       float64
	Target   [ControlDim]float64
	integral [ControlDim]float64
	prevErr  [ControlDim]float64
	prevT    float64
	first    bool
}

func NewPID(kp, ki, kd float64) *PID {
	return &PID{
		Kp:    kp,
		Ki:    ki,
		Kd:    kd,
		first: true,
	}
}

func (p *PID) Init(params *config.Node, _ RNGSource) error {
	var err error
	if p.Kp, err = config.AttrOrDefault(params, "kp", p.Kp); err != nil {
		return err
	}
	if p.Ki, err = config.AttrOrDefault(params, "ki", p.Ki); err != nil {
		return err
	}
	if p.Kd, err = config.AttrOrDefault(params, "kd", p.Kd); err != nil {
		return err
	}
	if p.Target, err = target(params); err != nil {
		return err
	}
	p.Reset()
	return nil
}

func (p *PID) ControlStep(x integrators.State, t float64) integrators.Control {
	u := make(integrators.Control, ControlDim)
	if len(x) < ControlDim {
		return u
	}

	var e [ControlDim]float64
	for i := range e {
		e[i] = p.Target[i] - x[i]
	}

	if p.first {
		p.prevErr = e
		p.prevT = t
		p.first = false
		for i := range u {
			u[i] = p.Kp * e[i]
		}
		return u
	}

	dt := t - p.prevT
	for i := range u {
		u[i] = p.Kp * e[i]
		if dt > 0 {
			p.integral[i] += e[i] * dt
			u[i] += p.Ki*p.integral[i] + p.Kd*(e[i]-p.prevErr[i])/dt
		}
	}
	if dt > 0 {
		p.prevErr = e
		p.prevT = t
	}
	return u
}

func (p *PID) Reset() {
	p.integral = [ControlDim]float64{}
	p.prevErr = [ControlDim]float64{}
	p.prevT = 0
	p.first = true
}

func (p *PID) Destroy() {}

// GetParams exposes the gains, as shown by the text visualization.
func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{"kp": p.Kp, "ki": p.Ki, "kd": p.Kd}
}
