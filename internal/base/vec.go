package base

import "math"

// Vec is a world-space vector.
type Vec [Dim]float64

// IVec is an integer index vector. Components may be negative.
type IVec [Dim]int

// Splat returns a Vec with every component set to v.
func Splat(v float64) Vec {
	var r Vec
	for i := range r {
		r[i] = v
	}
	return r
}

// ISplat returns an IVec with every component set to n.
func ISplat(n int) IVec {
	var r IVec
	for i := range r {
		r[i] = n
	}
	return r
}

// Axis returns the vector with v on the given axis and zero elsewhere.
func Axis(axis int, v float64) Vec {
	var r Vec
	r[axis] = v
	return r
}

// IAxis returns the index vector with n on the given axis and zero elsewhere.
func IAxis(axis int, n int) IVec {
	var r IVec
	r[axis] = n
	return r
}

func (a Vec) Add(b Vec) Vec {
	for i := range a {
		a[i] += b[i]
	}
	return a
}

func (a Vec) Sub(b Vec) Vec {
	for i := range a {
		a[i] -= b[i]
	}
	return a
}

func (a Vec) Scale(s float64) Vec {
	for i := range a {
		a[i] *= s
	}
	return a
}

// Mul is the componentwise product.
func (a Vec) Mul(b Vec) Vec {
	for i := range a {
		a[i] *= b[i]
	}
	return a
}

// Div is the componentwise quotient.
func (a Vec) Div(b Vec) Vec {
	for i := range a {
		a[i] /= b[i]
	}
	return a
}

func (a Vec) Dot(b Vec) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func (a Vec) NormSquared() float64 { return a.Dot(a) }

func (a Vec) Norm() float64 { return math.Sqrt(a.Dot(a)) }

// Normalize returns a unit vector. The zero vector is returned unchanged.
func (a Vec) Normalize() Vec {
	n := a.Norm()
	if n == 0 {
		return a
	}
	return a.Scale(1 / n)
}

// Product multiplies the components together.
func (a Vec) Product() float64 {
	p := 1.0
	for _, v := range a {
		p *= v
	}
	return p
}

// Shift adds n to every component.
func (a Vec) Shift(n int) Vec {
	for i := range a {
		a[i] += float64(n)
	}
	return a
}

// Floor truncates every component towards negative infinity.
func (a Vec) Floor() IVec {
	var r IVec
	for i, v := range a {
		r[i] = int(math.Floor(v))
	}
	return r
}

// IsFinite reports whether no component is NaN or infinite.
func (a Vec) IsFinite() bool {
	for _, v := range a {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (a Vec) AllLT(b Vec) bool {
	for i := range a {
		if !(a[i] < b[i]) {
			return false
		}
	}
	return true
}

func (a Vec) AllGT(b Vec) bool { return b.AllLT(a) }

func (a Vec) AllLE(b Vec) bool {
	for i := range a {
		if !(a[i] <= b[i]) {
			return false
		}
	}
	return true
}

func (a Vec) AllGE(b Vec) bool { return b.AllLE(a) }

func (a Vec) ComponentMin(b Vec) Vec {
	for i := range a {
		a[i] = math.Min(a[i], b[i])
	}
	return a
}

func (a Vec) ComponentMax(b Vec) Vec {
	for i := range a {
		a[i] = math.Max(a[i], b[i])
	}
	return a
}

// Components exposes the components for in-place editing.
func (a *Vec) Components() []*float64 {
	out := make([]*float64, Dim)
	for i := range a {
		out[i] = &a[i]
	}
	return out
}

func (a IVec) Add(b IVec) IVec {
	for i := range a {
		a[i] += b[i]
	}
	return a
}

func (a IVec) Sub(b IVec) IVec {
	for i := range a {
		a[i] -= b[i]
	}
	return a
}

func (a IVec) Dot(b IVec) int {
	s := 0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func (a IVec) Product() int {
	p := 1
	for _, v := range a {
		p *= v
	}
	return p
}

func (a IVec) Shift(n int) IVec {
	for i := range a {
		a[i] += n
	}
	return a
}

// Vec converts to floating point.
func (a IVec) Vec() Vec {
	var r Vec
	for i, v := range a {
		r[i] = float64(v)
	}
	return r
}

func (a IVec) AllLT(b IVec) bool {
	for i := range a {
		if a[i] >= b[i] {
			return false
		}
	}
	return true
}

func (a IVec) AllGT(b IVec) bool { return b.AllLT(a) }

func (a IVec) AllLE(b IVec) bool {
	for i := range a {
		if a[i] > b[i] {
			return false
		}
	}
	return true
}

func (a IVec) AllGE(b IVec) bool { return b.AllLE(a) }

func (a IVec) ComponentMin(b IVec) IVec {
	for i := range a {
		a[i] = min(a[i], b[i])
	}
	return a
}

func (a IVec) ComponentMax(b IVec) IVec {
	for i := range a {
		a[i] = max(a[i], b[i])
	}
	return a
}
