// Package field transfers particle quantities onto a staggered grid so the
// fluid can be inspected as a velocity field.
package field

import (
	"math"

	"github.com/san-kum/fizz/internal/base"
	"github.com/san-kum/fizz/internal/sph"
)

// Sampler splats particle velocities onto grid faces. Face values are the
// Poly6-weighted mean of the matching velocity component of every particle
// within h of the face centre; faces with no such particle read 0.
type Sampler struct {
	Grid     base.Grid
	H        float64
	Velocity base.FaceArray[float64]

	weight base.FaceArray[float64]
	reach  base.IVec
}

func NewSampler(grid base.Grid, h float64) (*Sampler, error) {
	vel, err := base.NewFaceArray[float64](grid.Cells)
	if err != nil {
		return nil, err
	}
	w, err := base.NewFaceArray[float64](grid.Cells)
	if err != nil {
		return nil, err
	}
	var reach base.IVec
	for a := range reach {
		reach[a] = 1 + int(math.Ceil(h*grid.OneOverDx[a]))
	}
	return &Sampler{Grid: grid, H: h, Velocity: vel, weight: w, reach: reach}, nil
}

// Sample overwrites Velocity from the current particle state.
func (s *Sampler) Sample(p *sph.Particles) {
	s.Velocity.Fill(0)
	s.weight.Fill(0)
	h2 := s.H * s.H

	for i, x := range p.Position {
		c := s.Grid.CellIndex(x)
		window := base.NewRange(c.Sub(s.reach), c.Add(s.reach).Shift(1))
		for axis := 0; axis < base.Dim; axis++ {
			it := base.NewRangeIterator(window)
			for cell, ok := it.Next(); ok; cell, ok = it.Next() {
				if _, in := s.weight[axis].Get(cell); !in {
					continue
				}
				fi := base.NewFaceIndex(cell, axis)
				r := x.Sub(s.Grid.FaceX(fi))
				if r.NormSquared() > h2 {
					continue
				}
				w := p.Mass[i] * sph.Poly6.Value(r, s.H)
				*s.weight.Ptr(fi) += w
				*s.Velocity.Ptr(fi) += w * p.Velocity[i][axis]
			}
		}
	}

	for axis := 0; axis < base.Dim; axis++ {
		u, w := s.Velocity[axis], s.weight[axis]
		for idx := range u.Indices().All() {
			if wt := w.At(idx); wt > 0 {
				*u.Ptr(idx) /= wt
			}
		}
	}
}

// Weight is the accumulated kernel weight on a face after Sample.
func (s *Sampler) Weight(fi base.FaceIndex) float64 { return s.weight.At(fi) }
