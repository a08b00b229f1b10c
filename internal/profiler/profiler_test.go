package profiler

import (
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, file string, truncate bool, ticks ...time.Duration) *Profiler {
	t.Helper()
	p, err := New(file, truncate)
	require.NoError(t, err)
	require.NoError(t, p.Start())
	for _, d := range ticks {
		p.Tick(d)
	}
	require.NoError(t, p.Stop())
	return p
}

func TestProfilerSamples(t *testing.T) {
	p := run(t, filepath.Join(t.TempDir(), "p.txt"), true,
		time.Millisecond, 3*time.Millisecond)
	s := p.Samples()
	require.Len(t, s, 3)
	assert.Equal(t, []string{"start", "stop", "delta"}, []string{s[0].Label, s[1].Label, s[2].Label})
	assert.Equal(t, 0, s[0].Ticks)
	assert.Equal(t, 2, s[1].Ticks)
	assert.Equal(t, int64(2000), s[1].AvgTickUS)
	assert.Equal(t, int64(3000), s[1].MaxTickUS)
	assert.GreaterOrEqual(t, s[2].WallSeconds, 0.0)
	assert.Positive(t, s[1].RSSBytes)
}

func TestProfilerLifecycleErrors(t *testing.T) {
	p, err := New(filepath.Join(t.TempDir(), "p.txt"), true)
	require.NoError(t, err)
	assert.ErrorIs(t, p.Stop(), ErrNotStarted)
	assert.ErrorIs(t, p.Flush(true), ErrNotStarted)
	require.NoError(t, p.Start())
	assert.ErrorIs(t, p.Start(), ErrRunning)
	assert.ErrorIs(t, p.Flush(true), ErrRunning)
}

func TestFlushHumanReadable(t *testing.T) {
	file := filepath.Join(t.TempDir(), "p.txt")
	p := run(t, file, true, 1500*time.Microsecond)
	require.NoError(t, p.Flush(true))
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	out := string(data)
	for _, label := range []string{"[start]", "[stop]", "[delta]"} {
		assert.Contains(t, out, label)
	}
	assert.Contains(t, out, "ticks:     1 (avg 1.5ms, max 1.5ms)")
}

func TestFlushTableAppends(t *testing.T) {
	file := filepath.Join(t.TempDir(), "p.csv")
	require.NoError(t, run(t, file, false, time.Millisecond).Flush(false))
	require.NoError(t, run(t, file, false, time.Millisecond).Flush(false))

	f, err := os.Open(file)
	require.NoError(t, err)
	defer f.Close()
	var rows []Sample
	require.NoError(t, gocsv.UnmarshalFile(f, &rows))
	assert.Len(t, rows, 6)

	_, err = f.Seek(0, io.SeekStart)
	require.NoError(t, err)
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "label,"))
}

func TestFlushTruncates(t *testing.T) {
	file := filepath.Join(t.TempDir(), "p.csv")
	require.NoError(t, os.WriteFile(file, []byte("stale\n"), 0o644))
	require.NoError(t, run(t, file, true).Flush(false))
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "label,"))
	assert.NotContains(t, string(data), "stale")
}

func TestTickStats(t *testing.T) {
	var s TickStats
	assert.Zero(t, s.Mean())
	s.Observe(2 * time.Millisecond)
	s.Observe(4 * time.Millisecond)
	assert.Equal(t, 2, s.Count())
	assert.Equal(t, 3*time.Millisecond, s.Mean())
	assert.Equal(t, 4*time.Millisecond, s.Max())
	assert.Equal(t, 6*time.Millisecond, s.Total())
	s.Reset()
	assert.Zero(t, s.Count())
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	m.ObserveTick(time.Millisecond)
	m.ObserveTick(time.Millisecond)
	m.ObserveReset()
	m.SetEntities(7)
	m.SetEngineEntities("pm", 3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	for _, line := range []string{
		"argos_simulator_ticks_total 2",
		"argos_simulator_resets_total 1",
		"argos_simulator_tick_duration_seconds_count 2",
		"argos_space_entities 7",
		`argos_physics_engine_entities{engine="pm"} 3`,
	} {
		assert.Contains(t, body, line)
	}
}
