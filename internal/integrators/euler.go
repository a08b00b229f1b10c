package integrators

type Euler struct {
	dx State
}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys System, x State, u Control, t, dt float64) {
	if len(e.dx) != len(x) {
		e.dx = make(State, len(x))
	}
	sys.Derive(x, u, t, e.dx)
	for i := range x {
		x[i] += dt * e.dx[i]
	}
}
