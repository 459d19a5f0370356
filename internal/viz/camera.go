package viz

import (
	"math"

	"github.com/san-kum/fizz/internal/base"
)

// Camera maps world positions to canvas sub-pixels: screen = world*Scale +
// Offset, with y flipped so world up is screen up. Only the first two axes
// are drawn; in 3d the point is first rotated about the domain centre.
type Camera struct {
	Scale      float64
	Offset     [2]float64
	RotX, RotY float64

	centre base.Vec
}

// NewCamera fits domain into a sw x sh sub-pixel canvas with a small margin.
func NewCamera(domain base.Range[base.Vec], sw, sh int) *Camera {
	c := &Camera{}
	c.Fit(domain, sw, sh)
	return c
}

func (c *Camera) Fit(domain base.Range[base.Vec], sw, sh int) {
	size := domain.Size()
	c.centre = domain.Min.Add(size.Scale(0.5))
	c.Scale = 0.9 * math.Min(float64(sw)/size[0], float64(sh)/size[1])
	c.Offset = [2]float64{
		float64(sw)/2 - c.centre[0]*c.Scale,
		float64(sh)/2 + c.centre[1]*c.Scale,
	}
	c.RotX, c.RotY = 0, 0
}

// view returns the first two axes of x after the 3d rotation.
func (c *Camera) view(x base.Vec) (float64, float64) {
	px, py := x[0], x[1]
	var z float64
	for a := 2; a < base.Dim; a++ {
		z = x[a] - c.centre[a]
	}
	if c.RotX == 0 && c.RotY == 0 {
		return px, py
	}

	px, py = px-c.centre[0], py-c.centre[1]
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	py, z = py*cx-z*sx, py*sx+z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	px = px*cy + z*sy
	return px + c.centre[0], py + c.centre[1]
}

// WorldToScreen projects x to sub-pixel coordinates.
func (c *Camera) WorldToScreen(x base.Vec) (int, int) {
	px, py := c.view(x)
	return int(math.Round(px*c.Scale + c.Offset[0])), int(math.Round(c.Offset[1] - py*c.Scale))
}

// Pan moves the view by (dx, dy) sub-pixels.
func (c *Camera) Pan(dx, dy float64) {
	c.Offset[0] += dx
	c.Offset[1] += dy
}

// Zoom scales the view by fact, keeping the sub-pixel (px, py) fixed.
func (c *Camera) Zoom(fact, px, py float64) {
	c.Scale *= fact
	c.Offset[0] = px + fact*(c.Offset[0]-px)
	c.Offset[1] = py + fact*(c.Offset[1]-py)
}

func (c *Camera) Rotate(dx, dy float64) {
	if base.Dim < 3 {
		return
	}
	c.RotX += dx
	c.RotY += dy
}
