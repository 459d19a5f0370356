package sph_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fizz/internal/base"
	"github.com/san-kum/fizz/internal/sph"
)

func quietParams() sph.Parameters {
	p := sph.DefaultParameters()
	p.H = 0.1
	p.Gravity = base.Vec{}
	p.Mu = 0
	p.Domain = base.NewRange(base.Splat(0), base.Splat(1))
	return p
}

func single(p sph.Parameters, pos, vel base.Vec) *sph.Simulation {
	parts := sph.NewParticles(0)
	parts.Add(1, pos, vel)
	p.NumParticles = 1
	s, err := sph.NewSimulation(p, parts)
	Expect(err).NotTo(HaveOccurred())
	return s
}

// block lays n^Dim particles on a lattice starting at origin.
func block(p *sph.Parameters, n int, origin base.Vec, spacing float64) *sph.Particles {
	parts := sph.NewParticles(0)
	mass := p.RestDensity * base.Splat(spacing).Product()
	it := base.NewRangeIterator(base.NewRange(base.IVec{}, base.ISplat(n)))
	for idx := range it.All() {
		parts.Add(mass, origin.Add(idx.Vec().Scale(spacing)), base.Vec{})
	}
	p.NumParticles = parts.Len()
	return parts
}

// parallelSide is the smallest block side whose particle count gives four
// workers a full chunk each.
func parallelSide() int {
	n := 2
	for math.Pow(float64(n), base.Dim) < 4*sph.MinChunk {
		n++
	}
	return n
}

var _ = Describe("Simulation", func() {
	Describe("construction", func() {
		It("rejects a non-positive smoothing radius", func() {
			p := quietParams()
			p.H = 0
			_, err := sph.NewSimulation(p, nil)
			Expect(errors.Is(err, sph.ErrInvalidParameters)).To(BeTrue())
		})

		It("rejects a non-positive timestep", func() {
			p := quietParams()
			p.DeltaTime = -1
			_, err := sph.NewSimulation(p, nil)
			Expect(err).To(MatchError(sph.ErrInvalidParameters))
		})

		It("rejects a degenerate domain", func() {
			p := quietParams()
			p.Domain = base.NewRange(base.Splat(1), base.Splat(1))
			_, err := sph.NewSimulation(p, nil)
			Expect(err).To(MatchError(sph.ErrInvalidParameters))
		})

		It("rejects a particle count that disagrees with the parameters", func() {
			p := quietParams()
			p.NumParticles = 3
			_, err := sph.NewSimulation(p, sph.NewParticles(2))
			Expect(err).To(MatchError(sph.ErrParticleCount))
		})

		It("rejects particle slices of different lengths", func() {
			p := quietParams()
			parts := sph.NewParticles(2)
			parts.Velocity = parts.Velocity[:1]
			p.NumParticles = 2
			_, err := sph.NewSimulation(p, parts)
			Expect(err).To(MatchError(sph.ErrParticleCount))
		})

		It("rejects a particle outside the domain", func() {
			p := quietParams()
			parts := sph.NewParticles(0)
			parts.Add(1, base.Splat(2), base.Vec{})
			p.NumParticles = 1
			_, err := sph.NewSimulation(p, parts)
			Expect(err).To(MatchError(sph.ErrParticleOutsideDomain))
		})

		It("builds cells no narrower than h", func() {
			p := quietParams()
			p.H = 0.3
			s, err := sph.NewSimulation(p, nil)
			Expect(err).NotTo(HaveOccurred())
			g := s.Grid()
			Expect(g.Cells).To(Equal(base.ISplat(3)))
			for _, dx := range g.Dx {
				Expect(dx).To(BeNumerically(">=", p.H))
			}
		})

		It("stretches cells to h when h exceeds the domain", func() {
			p := quietParams()
			p.H = 5
			s, err := sph.NewSimulation(p, nil)
			Expect(err).NotTo(HaveOccurred())
			g := s.Grid()
			Expect(g.Cells).To(Equal(base.ISplat(1)))
			for _, dx := range g.Dx {
				Expect(dx).To(BeNumerically(">=", p.H))
			}
		})

		It("pairs particles in opposite tolerance bands of a domain narrower than h", func() {
			p := quietParams()
			p.H = 0.3003
			p.Domain = base.NewRange(base.Splat(0), base.Splat(0.3))
			lo, hi := base.Splat(0.15), base.Splat(0.15)
			lo[0], hi[0] = -0.0001, 0.3

			parts := sph.NewParticles(0)
			parts.Add(1, lo, base.Vec{})
			parts.Add(1, hi, base.Vec{})
			p.NumParticles = 2
			s, err := sph.NewSimulation(p, parts)
			Expect(err).NotTo(HaveOccurred())
			for _, dx := range s.Grid().Dx {
				Expect(dx).To(BeNumerically(">=", p.H))
			}

			s.AdvanceTimestep()
			want := sph.Poly6.Value(base.Vec{}, p.H) + sph.Poly6.Value(hi.Sub(lo), p.H)
			Expect(s.Particles.Density[0]).To(BeNumerically("~", want, 1e-12))
			Expect(s.Particles.Density[1]).To(BeNumerically("~", want, 1e-12))
			Expect(s.Particles.Density[0]).To(BeNumerically(">", sph.Poly6.Value(base.Vec{}, p.H)))
		})
	})

	It("resumes the clock it is given", func() {
		s, err := sph.NewSimulation(quietParams(), nil, sph.WithClock(0.25, 7))
		Expect(err).NotTo(HaveOccurred())
		s.AdvanceTimestep()
		Expect(s.Steps()).To(Equal(8))
		Expect(s.Time).To(BeNumerically("~", 0.25+quietParams().DeltaTime, 1e-12))
	})

	It("leaves a lone particle untouched without gravity or viscosity", func() {
		x := base.Splat(0.5)
		s := single(quietParams(), x, base.Vec{})
		for range 10 {
			s.AdvanceTimestep()
		}
		Expect(s.Particles.Position[0]).To(Equal(x))
		Expect(s.Particles.Velocity[0]).To(Equal(base.Vec{}))
		Expect(s.Steps()).To(Equal(10))
		Expect(s.Time).To(BeNumerically("~", 0.1, 1e-12))
	})

	It("reflects and damps a particle leaving through the upper wall", func() {
		p := quietParams()
		p.DeltaTime = 0.01
		x := base.Splat(0.5)
		x[0] = p.Domain.Max[0] - 0.001
		s := single(p, x, base.Axis(0, 5))

		s.AdvanceTimestep()

		Expect(s.Particles.Velocity[0][0]).To(BeNumerically("~", -0.8*5, 1e-12))
		Expect(s.Particles.Position[0][0]).To(Equal(p.Domain.Max[0]))
		for a := 1; a < base.Dim; a++ {
			Expect(s.Particles.Position[0][a]).To(Equal(0.5))
		}
	})

	It("reflects and damps a particle leaving through the lower wall", func() {
		p := quietParams()
		x := base.Splat(0.5)
		x[base.Dim-1] = 0.001
		s := single(p, x, base.Axis(base.Dim-1, -3))

		s.AdvanceTimestep()

		Expect(s.Particles.Velocity[0][base.Dim-1]).To(BeNumerically("~", 0.8*3, 1e-12))
		Expect(s.Particles.Position[0][base.Dim-1]).To(Equal(p.Domain.Min[base.Dim-1]))
	})

	It("lets a particle drift inside the tolerance band", func() {
		p := quietParams()
		x := base.Splat(0.5)
		x[0] = p.Domain.Max[0]
		s := single(p, x, base.Axis(0, 0.8))

		s.AdvanceTimestep()

		Expect(s.Particles.Position[0][0]).To(BeNumerically("~", 1.008, 1e-12))
		Expect(s.Particles.Velocity[0][0]).To(Equal(0.8))

		s.AdvanceTimestep()
		Expect(s.Particles.Position[0][0]).To(Equal(p.Domain.Max[0]))
	})

	It("finds neighbors in the next cell up", func() {
		p := quietParams()
		p.NumParticles = 2
		parts := sph.NewParticles(0)
		a, b := base.Splat(0.5), base.Splat(0.5)
		a[0], b[0] = 0.39, 0.41
		parts.Add(1, a, base.Vec{})
		parts.Add(1, b, base.Vec{})
		s, err := sph.NewSimulation(p, parts)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Grid().CellIndex(a)[0]).To(Equal(3))
		Expect(s.Grid().CellIndex(b)[0]).To(Equal(4))

		s.AdvanceTimestep()

		want := sph.Poly6.Value(base.Vec{}, p.H) + sph.Poly6.Value(a.Sub(b), p.H)
		Expect(s.Particles.Density[0]).To(BeNumerically("~", want, 1e-9))
		Expect(s.Particles.Density[1]).To(BeNumerically("~", want, 1e-9))
		Expect(s.CellParticles(s.Grid().CellIndex(a))).To(ConsistOf(0))
	})

	It("bins a particle sitting on the upper domain corner", func() {
		p := quietParams()
		s := single(p, p.Domain.Max, base.Vec{})
		Expect(s.AdvanceTimestep).NotTo(Panic())
		Expect(s.CellParticles(s.Grid().Cells)).To(ConsistOf(0))
	})

	Describe("determinism", func() {
		run := func(workers int) *sph.Particles {
			p := sph.DefaultParameters()
			p.H = 0.05
			p.DeltaTime = 1e-3
			p.K = 1e-3
			p.Mu = 0.01
			p.Domain = base.NewRange(base.Splat(0), base.Splat(1))
			p.Workers = workers
			parts := block(&p, parallelSide(), base.Splat(0.3), 0.03)
			Expect(parts.Len()).To(BeNumerically(">=", 4*sph.MinChunk))
			s, err := sph.NewSimulation(p, parts)
			Expect(err).NotTo(HaveOccurred())
			for range 25 {
				s.AdvanceTimestep()
			}
			return s.Particles
		}

		It("produces identical states from identical inputs", func() {
			Expect(run(1)).To(Equal(run(1)))
		})

		It("does not depend on the number of workers", func() {
			Expect(run(4)).To(Equal(run(1)))
		})

		It("keeps every particle inside the tolerance band", func() {
			ps := run(1)
			for _, x := range ps.Position {
				Expect(x.IsFinite()).To(BeTrue())
				Expect(x.AllGE(base.Splat(-0.01))).To(BeTrue())
				Expect(x.AllLE(base.Splat(1.01))).To(BeTrue())
			}
		})
	})
})
