package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/botlink/internal/world"
)

const (
	svgWidth  = 800
	svgMargin = 0.5
)

type frame struct {
	minX, minY, scale float64
	width, height     float64
}

func frameFor(points []world.Vec, pad float64) frame {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	minX, maxX = minX-pad, maxX+pad
	minY, maxY = minY-pad, maxY+pad

	scale := svgWidth / (maxX - minX)
	return frame{
		minX:   minX,
		minY:   minY,
		scale:  scale,
		width:  svgWidth,
		height: math.Ceil((maxY - minY) * scale),
	}
}

// point maps meters to SVG user units, y up.
func (f frame) point(x, y float64) (float64, float64) {
	return (x - f.minX) * f.scale, f.height - (y-f.minY)*f.scale
}

// FieldSVG draws the final snapshot with the ball trail taken from the
// recorded snapshots.
func FieldSVG(w io.Writer, snaps []world.Snapshot, params world.Params) error {
	if len(snaps) == 0 {
		return fmt.Errorf("no snapshots to draw")
	}
	final := snaps[len(snaps)-1]

	points := make([]world.Vec, 0, len(snaps)+len(final.Bodies))
	var trail []world.Vec
	for _, s := range snaps {
		for _, b := range s.Bodies {
			if b.Kind == world.Ball {
				trail = append(trail, world.Vec{X: b.X, Y: b.Y})
			}
		}
	}
	points = append(points, trail...)
	for _, b := range final.Bodies {
		points = append(points, world.Vec{X: b.X, Y: b.Y})
	}
	f := frameFor(points, params.RobotRadius+svgMargin)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, f.width, f.height, f.width, f.height)

	if len(trail) > 1 {
		sb.WriteString(`<path fill="none" stroke="#ffcc00" stroke-width="1.5" d="M`)
		for i, p := range trail {
			x, y := f.point(p.X, p.Y)
			if i > 0 {
				sb.WriteString(" L")
			}
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		}
		sb.WriteString("\"/>\n")
	}

	for _, b := range final.Bodies {
		cx, cy := f.point(b.X, b.Y)
		switch b.Kind {
		case world.Ball:
			fmt.Fprintf(&sb, `<circle class="ball" cx="%.1f" cy="%.1f" r="%.1f" fill="#ff8800"/>`+"\n",
				cx, cy, params.BallRadius*f.scale)
		default:
			hx, hy := f.point(b.X+params.RobotRadius*math.Cos(b.Angle), b.Y+params.RobotRadius*math.Sin(b.Angle))
			fmt.Fprintf(&sb, `<circle class="robot" cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="#00ff88" stroke-width="2"/>`+"\n",
				cx, cy, params.RobotRadius*f.scale)
			fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#00ff88" stroke-width="2"/>`+"\n",
				cx, cy, hx, hy)
		}
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
