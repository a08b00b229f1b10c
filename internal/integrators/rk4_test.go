package integrators

import (
	"math"
	"testing"
)

type oscillator struct{}

func (oscillator) Derive(x State, u Control, t float64, dx State) {
	dx[0] = x[1]
	dx[1] = -x[0]
}

type pushed struct{}

// x'' = u[0]
func (pushed) Derive(x State, u Control, t float64, dx State) {
	dx[0] = x[1]
	dx[1] = u[0]
}

func TestRK4Accuracy(t *testing.T) {
	integ := NewRK4()
	x := State{1.0, 0.0}
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		integ.Step(oscillator{}, x, nil, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}
	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestConstantAcceleration(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			integ, err := New(name)
			if err != nil {
				t.Fatal(err)
			}
			x := State{0, 0}
			u := Control{2}
			dt := 0.001
			for i := 0; i < 1000; i++ {
				integ.Step(pushed{}, x, u, float64(i)*dt, dt)
			}
			// x = a t^2 / 2, v = a t
			if math.Abs(x[1]-2) > 1e-9 {
				t.Errorf("velocity: got %f, want 2", x[1])
			}
			if math.Abs(x[0]-1) > 1e-2 {
				t.Errorf("position: got %f, want 1", x[0])
			}
		})
	}
}

func TestUnknownIntegrator(t *testing.T) {
	if _, err := New("midpoint"); err == nil {
		t.Error("expected error for unknown integrator")
	}
}

func TestStateIsValid(t *testing.T) {
	if !(State{1, 2}).IsValid() {
		t.Error("finite state reported invalid")
	}
	if (State{1, math.NaN()}).IsValid() {
		t.Error("NaN state reported valid")
	}
}
