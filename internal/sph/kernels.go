package sph

import (
	"math"

	"github.com/san-kum/fizz/internal/base"
)

// Kernel selects one of the smoothing kernels. All of them vanish for
// |r| > h; the support boundary |r| == h is inside.
type Kernel int

const (
	// Poly6 is used for density estimation.
	Poly6 Kernel = iota
	// Spiky is used for the pressure gradient. Its gradient stays steep near
	// r = 0, where the Poly6 gradient vanishes and lets particles clump.
	Spiky
	// Viscosity is used for its laplacian, which stays positive everywhere
	// inside the support.
	Viscosity
)

type kernelFuncs struct {
	name        string
	value       func(r base.Vec, h float64) float64
	gradientMag func(r base.Vec, h float64) float64
	laplacian   func(r base.Vec, h float64) float64
}

// Missing entries are kernels that do not define that quantity; they read as 0.
var kernels = [...]kernelFuncs{
	Poly6:     {name: "poly6", value: poly6Value, gradientMag: poly6GradientMag},
	Spiky:     {name: "spiky", value: spikyValue, gradientMag: spikyGradientMag},
	Viscosity: {name: "viscosity", laplacian: viscosityLaplacian},
}

func (k Kernel) String() string { return kernels[k].name }

func (k Kernel) Value(r base.Vec, h float64) float64 {
	if f := kernels[k].value; f != nil {
		return f(r, h)
	}
	return 0
}

func (k Kernel) GradientMag(r base.Vec, h float64) float64 {
	if f := kernels[k].gradientMag; f != nil {
		return f(r, h)
	}
	return 0
}

// Gradient is normalize(r) * GradientMag. It is the zero vector at r = 0.
func (k Kernel) Gradient(r base.Vec, h float64) base.Vec {
	mag := r.Norm()
	if mag == 0 {
		return base.Vec{}
	}
	return r.Scale(k.GradientMag(r, h) / mag)
}

func (k Kernel) Laplacian(r base.Vec, h float64) float64 {
	if f := kernels[k].laplacian; f != nil {
		return f(r, h)
	}
	return 0
}

func pow6(h float64) float64 {
	h3 := h * h * h
	return h3 * h3
}

func poly6Coeff(h float64) float64 {
	return 315 / (64 * math.Pi * pow6(h) * h * h * h)
}

func poly6Value(r base.Vec, h float64) float64 {
	mag2 := r.NormSquared()
	if mag2 > h*h {
		return 0
	}
	d := h*h - mag2
	return poly6Coeff(h) * d * d * d
}

func poly6GradientMag(r base.Vec, h float64) float64 {
	mag2 := r.NormSquared()
	if mag2 > h*h || mag2 == 0 {
		return 0
	}
	d := h*h - mag2
	return poly6Coeff(h) * -6 * math.Sqrt(mag2) * d * d
}

func spikyValue(r base.Vec, h float64) float64 {
	mag := r.Norm()
	if mag > h {
		return 0
	}
	d := h - mag
	return 15 / (math.Pi * pow6(h)) * d * d * d
}

func spikyGradientMag(r base.Vec, h float64) float64 {
	mag := r.Norm()
	if mag > h {
		return 0
	}
	d := h - mag
	return -45 / (math.Pi * pow6(h)) * d * d
}

func viscosityLaplacian(r base.Vec, h float64) float64 {
	mag := r.Norm()
	if mag > h {
		return 0
	}
	return 45 / (math.Pi * pow6(h)) * (h - mag)
}
