package controllers

import (
	"testing"

	"github.com/ilpincy/argos3-sub001/internal/config"
	"github.com/ilpincy/argos3-sub001/internal/integrators"
	"github.com/ilpincy/argos3-sub001/internal/random"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func params(attrs map[string]string) *config.Node {
	n := config.NewNode("params")
	for k, v := range attrs {
		n.SetAttr(k, v)
	}
	return n
}

func TestNone(t *testing.T) {
	ctrl := NewNone()
	require.NoError(t, ctrl.Init(params(nil), nil))
	u := ctrl.ControlStep(integrators.State{1, 2, 3, 4}, 0)

	assert.Len(t, u, ControlDim)
	for i, v := range u {
		assert.Zero(t, v, "control[%d]", i)
	}
}

func TestPID(t *testing.T) {
	ctrl := NewPID(DefaultKp, DefaultKi, DefaultKd)
	require.NoError(t, ctrl.Init(params(map[string]string{"target": "0,0", "kp": "2", "kd": "0"}), nil))
	assert.Equal(t, 2.0, ctrl.Kp)

	u := ctrl.ControlStep(integrators.State{1, -1, 0, 0}, 0)
	require.Len(t, u, ControlDim)
	assert.Less(t, u[0], 0.0, "positive error on x must push back")
	assert.Greater(t, u[1], 0.0)

	u = ctrl.ControlStep(integrators.State{0.5, -0.5, 0, 0}, 0.1)
	assert.Less(t, u[0], 0.0)
}

func TestPIDBadParams(t *testing.T) {
	ctrl := NewPID(1, 0, 0)
	assert.ErrorIs(t, ctrl.Init(params(map[string]string{"kp": "fast"}), nil), config.ErrBadAttr)
	assert.Error(t, ctrl.Init(params(map[string]string{"target": "1"}), nil))
}

func TestLQR(t *testing.T) {
	ctrl := NewLQR(nil, nil)
	require.NoError(t, ctrl.Init(params(map[string]string{"target": "1,1"}), nil))

	u := ctrl.ControlStep(integrators.State{1, 1, 0, 0}, 0)
	assert.Equal(t, integrators.Control{0, 0}, u, "zero control at target")

	u = ctrl.ControlStep(integrators.State{0, 1, 0, 0}, 0)
	assert.Greater(t, u[0], 0.0)

	custom := NewLQR(nil, nil)
	require.NoError(t, custom.Init(params(map[string]string{"gains": "1,0,0,0,0,1,0,0"}), nil))
	assert.Equal(t, integrators.Control{-2, -3}, custom.ControlStep(integrators.State{2, 3, 5, 5}, 0))

	assert.Error(t, NewLQR(nil, nil).Init(params(map[string]string{"gains": "1,2"}), nil))
}

func TestRandomWalkIsReproducible(t *testing.T) {
	run := func() []float64 {
		cat, err := random.NewCategory("argos", 42)
		require.NoError(t, err)
		w := NewRandomWalk()
		require.NoError(t, w.Init(params(map[string]string{"turn_probability": "0.5"}), cat))
		var out []float64
		x := integrators.State{0, 0, 0, 0}
		for i := 0; i < 50; i++ {
			u := w.ControlStep(x, float64(i))
			out = append(out, u...)
		}
		return out
	}
	assert.Equal(t, run(), run())
}

func TestRandomWalkResetReplays(t *testing.T) {
	cat, err := random.NewCategory("argos", 7)
	require.NoError(t, err)
	w := NewRandomWalk()
	require.NoError(t, w.Init(params(map[string]string{"turn_probability": "0.3"}), cat))

	steps := func() []float64 {
		var out []float64
		for i := 0; i < 20; i++ {
			out = append(out, w.ControlStep(integrators.State{0, 0, 0, 0}, 0)...)
		}
		return out
	}
	first := steps()
	cat.ResetRNGs()
	w.Reset()
	assert.Equal(t, first, steps())
}
