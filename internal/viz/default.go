package viz

import (
	"context"

	"github.com/ilpincy/argos3-sub001/internal/config"
)

// Default runs the experiment without any output.
type Default struct {
	pacer pacer
}

func NewDefault() *Default {
	return &Default{}
}

func (d *Default) Init(_ *config.Node, s Settings) error {
	d.pacer.settings = s
	return nil
}

func (d *Default) Execute(ctx context.Context, r Runner) error {
	return loop(ctx, r, &d.pacer, nil)
}

func (d *Default) Reset()   {}
func (d *Default) Destroy() {}
