package viz

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ilpincy/argos3-sub001/internal/config"
	"github.com/ilpincy/argos3-sub001/internal/space"
)

// Runner is the view of the simulator a visualization needs.
type Runner interface {
	UpdateSpace() error
	IsExperimentFinished() bool
	Terminate()
	Clock() uint64
	// MaxTicks returns the tick bound, 0 when unbounded.
	MaxTicks() uint64
	Space() *space.Space
}

// Settings carries the framework options a visualization may honor.
type Settings struct {
	TickLength time.Duration
	RealTime   bool
	Logger     *log.Logger
	Out        io.Writer
}

type Visualization interface {
	Init(node *config.Node, s Settings) error
	Execute(ctx context.Context, r Runner) error
	Reset()
	Destroy()
}

// pacer sleeps out the remainder of a tick in real-time mode.
type pacer struct {
	settings Settings
	start    time.Time
}

func (p *pacer) begin() { p.start = time.Now() }

// end returns how long the tick took before any sleeping.
func (p *pacer) end() time.Duration {
	took := time.Since(p.start)
	if !p.settings.RealTime {
		return took
	}
	if left := p.settings.TickLength - took; left > 0 {
		time.Sleep(left)
	} else if p.settings.Logger != nil {
		p.settings.Logger.Warn("clock tick took longer than expected",
			"took", took, "expected", p.settings.TickLength)
	}
	return took
}

// loop runs ticks until the runner is finished or ctx is done. onTick is
// called after every tick with its duration.
func loop(ctx context.Context, r Runner, p *pacer, onTick func(time.Duration)) error {
	for !r.IsExperimentFinished() {
		select {
		case <-ctx.Done():
			r.Terminate()
			return ctx.Err()
		default:
		}
		p.begin()
		if err := r.UpdateSpace(); err != nil {
			return err
		}
		took := p.end()
		if onTick != nil {
			onTick(took)
		}
	}
	return nil
}
