package integrators

// Verlet is velocity Verlet. It expects x laid out as positions followed by
// velocities of the same length.
type Verlet struct {
	dx, dxNew State
	scratch   State
}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Step(sys System, x State, u Control, t, dt float64) {
	n := len(x)
	half := n / 2
	if len(v.scratch) != n {
		v.dx = make(State, n)
		v.dxNew = make(State, n)
		v.scratch = make(State, n)
	}

	sys.Derive(x, u, t, v.dx)
	dt2 := dt * dt
	for i := 0; i < half; i++ {
		v.scratch[i] = x[i] + x[half+i]*dt + 0.5*v.dx[half+i]*dt2
		v.scratch[half+i] = x[half+i]
	}

	sys.Derive(v.scratch, u, t+dt, v.dxNew)
	halfDt := 0.5 * dt
	for i := 0; i < half; i++ {
		x[i] = v.scratch[i]
		x[half+i] += (v.dx[half+i] + v.dxNew[half+i]) * halfDt
	}
}
