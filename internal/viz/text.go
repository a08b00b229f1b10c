package viz

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/guptarohit/asciigraph"

	"github.com/ilpincy/argos3-sub001/internal/config"
)

// Text prints a status line every few ticks and, once the experiment is
// over, a chart of tick durations.
type Text struct {
	pacer     pacer
	out       io.Writer
	every     uint64
	chart     bool
	durations []float64
}

func NewText() *Text {
	return &Text{}
}

// Init reads the optional attributes every (status period in ticks,
// default 10) and chart (default true).
func (v *Text) Init(node *config.Node, s Settings) error {
	v.pacer.settings = s
	v.out = s.Out
	if v.out == nil {
		v.out = os.Stdout
	}
	v.every, v.chart = 10, true
	if node == nil {
		return nil
	}
	var err error
	if v.every, err = config.AttrOrDefault(node, "every", uint64(10)); err != nil {
		return err
	}
	if v.every == 0 {
		return fmt.Errorf("%w: every must be positive", config.ErrBadAttr)
	}
	v.chart, err = config.AttrOrDefault(node, "chart", true)
	return err
}

func (v *Text) Execute(ctx context.Context, r Runner) error {
	start := time.Now()
	err := loop(ctx, r, &v.pacer, func(took time.Duration) {
		v.durations = append(v.durations, float64(took.Microseconds())/1000)
		if clock := r.Clock(); clock%v.every == 0 {
			fmt.Fprintln(v.out, v.status(r, took))
		}
	})
	fmt.Fprintf(v.out, "%s %s\n", StatusDone.Render("done"),
		metric("ticks", fmt.Sprint(r.Clock()))+"  "+metric("wall", time.Since(start).Round(time.Millisecond).String()))
	if v.chart && len(v.durations) > 1 {
		fmt.Fprintln(v.out, asciigraph.Plot(v.durations,
			asciigraph.Height(6),
			asciigraph.Width(60),
			asciigraph.Caption("tick duration (ms)")))
	}
	return err
}

func (v *Text) status(r Runner, took time.Duration) string {
	line := metric("tick", fmt.Sprint(r.Clock()))
	if maxTicks := r.MaxTicks(); maxTicks > 0 {
		line += " " + ProgressBar(float64(r.Clock())/float64(maxTicks), 20)
	}
	line += "  " + metric("entities", fmt.Sprint(len(r.Space().Entities())))
	line += "  " + metric("step", took.String())
	return line
}

// Durations returns the recorded tick durations in milliseconds.
func (v *Text) Durations() []float64 { return v.durations }

func (v *Text) Reset() { v.durations = v.durations[:0] }

func (v *Text) Destroy() {}
