package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/fizz/internal/base"
	"github.com/san-kum/fizz/internal/sph"
	"github.com/san-kum/fizz/internal/viz"
)

// SnapshotOptions controls SnapshotSVG.
type SnapshotOptions struct {
	// Width of the image in pixels; the height follows the domain aspect.
	Width int
	// GridLines draws the neighbor grid.
	GridLines bool
	// Velocity, when set, draws one tick per face scaled by TickScale.
	Velocity  *base.FaceArray[float64]
	TickScale float64
}

// SnapshotSVG draws particles over the grid, viewed along every axis past
// the second. In 3d only faces in the middle cell layer get ticks.
func SnapshotSVG(g base.Grid, p *sph.Particles, opts SnapshotOptions) string {
	if opts.Width <= 0 {
		opts.Width = 600
	}
	if opts.TickScale == 0 {
		opts.TickScale = 0.1
	}
	size := g.Domain.Size()
	scale := float64(opts.Width) / size[0]
	width := float64(opts.Width)
	height := math.Ceil(size[1] * scale)

	toScreen := func(x base.Vec) (float64, float64) {
		return (x[0] - g.Domain.Min[0]) * scale, height - (x[1]-g.Domain.Min[1])*scale
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	if opts.GridLines {
		sb.WriteString(`<g stroke="#222" stroke-width="0.5">` + "\n")
		for i := 0; i <= g.Cells[0]; i++ {
			x, _ := toScreen(g.NodeX(base.IAxis(0, i)))
			sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="0" x2="%.1f" y2="%.0f"/>`+"\n", x, x, height))
		}
		for j := 0; j <= g.Cells[1]; j++ {
			_, y := toScreen(g.NodeX(base.IAxis(1, j)))
			sb.WriteString(fmt.Sprintf(`<line x1="0" y1="%.1f" x2="%.0f" y2="%.1f"/>`+"\n", y, width, y))
		}
		sb.WriteString("</g>\n")
	}

	if opts.Velocity != nil {
		sb.WriteString(`<g stroke="#ff8800" stroke-width="1">` + "\n")
		for fi := range g.Faces().All() {
			if fi.Axis > 1 || !inMiddleLayer(g, fi.Cell) {
				continue
			}
			u := opts.Velocity.At(fi)
			if u == 0 {
				continue
			}
			x0 := g.FaceX(fi)
			x1 := x0
			x1[fi.Axis] += u * opts.TickScale
			sx0, sy0 := toScreen(x0)
			sx1, sy1 := toScreen(x1)
			sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n", sx0, sy0, sx1, sy1))
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString(`<g fill="#3399ff" fill-opacity="0.8">` + "\n")
	for _, x := range p.Position {
		cx, cy := toScreen(x)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="1.5"/>`+"\n", cx, cy))
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

func inMiddleLayer(g base.Grid, cell base.IVec) bool {
	for a := 2; a < base.Dim; a++ {
		if cell[a] != g.Cells[a]/2 {
			return false
		}
	}
	return true
}

// CanvasToSVG converts a braille canvas to SVG, one dot per set sub-pixel.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#3399ff">
`, width, height, width, height))

	dotRadius := scale * 0.4
	for y := 0; y < canvas.Height*4; y++ {
		for x := 0; x < canvas.Width*2; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n",
				float64(x)*scale+scale/2, float64(y)*scale+scale/2, dotRadius))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SeriesToSVG plots ys against xs as a polyline.
func SeriesToSVG(xs, ys []float64, width, height int, strokeColor string) string {
	n := min(len(xs), len(ys))
	if n < 2 {
		return ""
	}

	minX, maxX := xs[0], xs[0]
	minY, maxY := ys[0], ys[0]
	for i := 0; i < n; i++ {
		minX, maxX = math.Min(minX, xs[i]), math.Max(maxX, xs[i])
		minY, maxY = math.Min(minY, ys[i]), math.Max(maxY, ys[i])
	}

	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i := 0; i < n; i++ {
		x := (xs[i] - minX) / rangeX * float64(width)
		y := float64(height) - (ys[i]-minY)/rangeY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
