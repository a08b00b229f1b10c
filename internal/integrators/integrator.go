package integrators

import (
	"fmt"
	"math"
	"sort"
)

// State is a flat vector of generalized coordinates followed by their
// velocities.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

// IsValid reports whether every component is finite.
func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

type Control []float64

// System computes dx/dt into dx.
type System interface {
	Derive(x State, u Control, t float64, dx State)
}

// Integrator advances x by dt in place.
type Integrator interface {
	Step(sys System, x State, u Control, t, dt float64)
}

var factories = map[string]func() Integrator{
	"euler":  func() Integrator { return NewEuler() },
	"rk4":    func() Integrator { return NewRK4() },
	"verlet": func() Integrator { return NewVerlet() },
}

func New(name string) (Integrator, error) {
	fn, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
