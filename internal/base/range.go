package base

import "fmt"

// Vector is the capability a type needs to be the corner of a [Range].
// Both [Vec] and [IVec] satisfy it.
type Vector[V any] interface {
	Sub(V) V
	AllLE(V) bool
	AllLT(V) bool
	Shift(n int) V
}

// Range is a box described by its minimum and maximum corners.
//
// min <= max componentwise is expected but not enforced.
type Range[V Vector[V]] struct {
	Min V `yaml:"min" json:"min"`
	Max V `yaml:"max" json:"max"`
}

func NewRange[V Vector[V]](min, max V) Range[V] {
	return Range[V]{Min: min, Max: max}
}

// Size is max - min.
func (r Range[V]) Size() V { return r.Max.Sub(r.Min) }

// Contains reports whether x lies in the box, endpoints included.
func (r Range[V]) Contains(x V) bool {
	return r.Min.AllLE(x) && x.AllLE(r.Max)
}

// ContainsHalfOpen treats the box as [min, max) on every axis. This is the
// test for a valid array index.
func (r Range[V]) ContainsHalfOpen(x V) bool {
	return r.Min.AllLE(x) && x.AllLT(r.Max)
}

// Empty reports whether some axis has max <= min.
func (r Range[V]) Empty() bool { return !r.Min.AllLT(r.Max) }

// Thickened grows the box outwards by n on every axis.
func (r Range[V]) Thickened(n int) Range[V] {
	return Range[V]{Min: r.Min.Shift(-n), Max: r.Max.Shift(n)}
}

func (r Range[V]) String() string {
	return fmt.Sprintf("%v..%v", r.Min, r.Max)
}
