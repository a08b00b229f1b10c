package viz

import (
	"fmt"
	"io"
	"strings"

	"github.com/ilpincy/argos3-sub001/internal/entity"
	"github.com/ilpincy/argos3-sub001/internal/space"
)

// drawArena renders the arena outline and every embodied entity onto c.
func drawArena(c *Canvas, s *space.Space) {
	c.Clear()
	lo, hi := s.ArenaLimits()
	c.SetBounds(lo[0], lo[1], hi[0], hi[1])
	c.Rect(lo[0], lo[1], hi[0], hi[1])
	for _, e := range s.Entities() {
		b, ok := entity.AsEmbodied(e)
		if !ok {
			continue
		}
		x, y := b.Position()
		c.Circle(x, y, b.Radius)
	}
}

// SVG renders every set dot as a circle, scale pixels apart.
func (c *Canvas) SVG(scale float64) string {
	wd, hd := c.dots()
	width, height := float64(wd)*scale, float64(hd)*scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height)

	r := scale * 0.4
	for y := range hd {
		for x := range wd {
			if !c.IsSet(x, y) {
				continue
			}
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
				float64(x)*scale+scale/2, float64(y)*scale+scale/2, r)
		}
	}
	sb.WriteString("</g>\n</svg>\n")
	return sb.String()
}

// WriteArenaSVG draws a snapshot of the space on a cols x rows canvas and
// writes it as SVG.
func WriteArenaSVG(w io.Writer, s *space.Space, cols, rows int, scale float64) error {
	c := NewCanvas(cols, rows)
	drawArena(c, s)
	_, err := io.WriteString(w, c.SVG(scale))
	return err
}
