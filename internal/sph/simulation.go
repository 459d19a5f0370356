package sph

import (
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"
	"github.com/san-kum/fizz/internal/base"
)

// boundaryTolerance is how far a particle may leave the domain before it is
// clamped back and its velocity reflected.
const boundaryTolerance = 0.01

// Simulation holds everything needed to advance an SPH fluid.
type Simulation struct {
	Particles *Particles
	Params    Parameters
	Time      float64

	// grid bins particles for neighbor search. Its cells are at least h wide,
	// so every neighbor of a particle sits in the 3^Dim block around its cell.
	grid base.Grid
	// cells holds the indices of the particles in each cell. Its domain has a
	// ghost ring wide enough to hold the boundary tolerance band.
	cells *base.ArrayNd[[]int]

	steps  int
	logger *log.Logger
}

type Option func(*Simulation)

// WithLogger routes debug records to l. Without it the simulation is silent.
func WithLogger(l *log.Logger) Option {
	return func(s *Simulation) { s.logger = l }
}

// WithClock starts the simulation at time t with steps already completed,
// for a simulation rebuilt in the middle of a run.
func WithClock(t float64, steps int) Option {
	return func(s *Simulation) {
		s.Time = t
		s.steps = steps
	}
}

// NewSimulation validates params and particles and builds the neighbor grid.
// The particles are owned by the simulation afterwards.
func NewSimulation(params Parameters, particles *Particles, opts ...Option) (*Simulation, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if particles == nil {
		particles = NewParticles(0)
	}
	if err := particles.Validate(); err != nil {
		return nil, err
	}
	if particles.Len() != params.NumParticles {
		return nil, fmt.Errorf("%w: have %d particles, parameters say %d",
			ErrParticleCount, particles.Len(), params.NumParticles)
	}

	band := base.NewRange(
		params.Domain.Min.Sub(base.Splat(boundaryTolerance)),
		params.Domain.Max.Add(base.Splat(boundaryTolerance)))
	for i, x := range particles.Position {
		if !x.IsFinite() || !band.Contains(x) {
			return nil, fmt.Errorf("%w: particle %d at %v, domain %v",
				ErrParticleOutsideDomain, i, x, params.Domain)
		}
	}

	s := &Simulation{
		Particles: particles,
		Params:    params,
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.buildGrid(); err != nil {
		return nil, err
	}
	s.logger.Debug("simulation created",
		"particles", particles.Len(),
		"cells", s.grid.Cells,
		"dx", s.grid.Dx,
		"h", params.H)
	return s, nil
}

func (s *Simulation) buildGrid() error {
	// Axes shorter than h are stretched to one cell of width h so the
	// neighbor window still spans h on every side.
	hash := s.Params.Domain
	size := hash.Size()
	var cells base.IVec
	for a := range cells {
		if size[a] < s.Params.H {
			hash.Max[a] = hash.Min[a] + s.Params.H
			for hash.Max[a]-hash.Min[a] < s.Params.H {
				hash.Max[a] = math.Nextafter(hash.Max[a], math.Inf(1))
			}
			cells[a] = 1
			continue
		}
		cells[a] = max(1, int(math.Floor(size[a]/s.Params.H)))
		for cells[a] > 1 && size[a]/float64(cells[a]) < s.Params.H {
			cells[a]--
		}
	}
	s.grid = base.NewGrid(cells, hash)

	minDx := s.grid.Dx[0]
	for _, d := range s.grid.Dx {
		minDx = min(minDx, d)
	}
	ghost := 1 + int(math.Ceil(boundaryTolerance/minDx))

	arr, err := base.Zeros[[]int](base.NewRange(base.ISplat(-ghost), cells.Shift(ghost)))
	if err != nil {
		return fmt.Errorf("sph: neighbor grid: %w", err)
	}
	s.cells = arr
	return nil
}

// Grid is the neighbor-search grid. It covers Params.Domain, extended to
// a width of h along any axis shorter than that.
func (s *Simulation) Grid() base.Grid { return s.grid }

// CellParticles lists the particles binned into cell idx during the last
// step. The slice is reused by the next step and must not be modified.
func (s *Simulation) CellParticles(idx base.IVec) []int {
	ps, _ := s.cells.Get(idx)
	return ps
}

// Steps is the number of completed timesteps.
func (s *Simulation) Steps() int { return s.steps }

// AdvanceTimestep moves the simulation forward by Params.DeltaTime.
func (s *Simulation) AdvanceTimestep() {
	s.clearArrays()
	s.fillCells()
	s.calculateDensities()
	s.calculatePressure()
	s.applyPressureForce()
	s.applyViscosityForce()
	s.applyGravity()
	s.moveParticles()
	s.enforceBoundaries()

	s.Time += s.Params.DeltaTime
	s.steps++
	s.logger.Debug("step", "n", s.steps, "time", s.Time)
}

func (s *Simulation) clearArrays() {
	p := s.Particles
	for i := range p.Density {
		p.Density[i] = 0
		p.Force[i] = base.Vec{}
	}
	s.cells.Apply(func(c *[]int) { *c = (*c)[:0] })
}

func (s *Simulation) fillCells() {
	dom := s.cells.Domain()
	for i, x := range s.Particles.Position {
		idx := s.grid.CellIndex(x)
		// Boundary enforcement keeps every particle inside the ghost ring;
		// only a non-finite position can land here.
		if !dom.ContainsHalfOpen(idx) {
			idx = idx.ComponentMax(dom.Min).ComponentMin(dom.Max.Shift(-1))
		}
		c := s.cells.Ptr(idx)
		*c = append(*c, i)
	}
}

// forEachNeighbor calls fn for every particle j with |x - x_j|^2 < h^2,
// including the particle at x itself.
func (s *Simulation) forEachNeighbor(x base.Vec, fn func(j int)) {
	idx := s.grid.CellIndex(x)
	window := base.NewRange(idx, idx.Shift(1)).Thickened(1)
	h2 := s.Params.H * s.Params.H
	pos := s.Particles.Position

	it := base.NewRangeIterator(window)
	for c, ok := it.Next(); ok; c, ok = it.Next() {
		cell, ok := s.cells.Get(c)
		if !ok {
			continue
		}
		for _, j := range cell {
			if x.Sub(pos[j]).NormSquared() < h2 {
				fn(j)
			}
		}
	}
}

func (s *Simulation) calculateDensities() {
	p := s.Particles
	h := s.Params.H
	s.each(func(i int) {
		x := p.Position[i]
		var rho float64
		s.forEachNeighbor(x, func(j int) {
			rho += p.Mass[j] * Poly6.Value(x.Sub(p.Position[j]), h)
		})
		p.Density[i] = rho
	})
}

func (s *Simulation) calculatePressure() {
	p := s.Particles
	s.each(func(i int) {
		p.Pressure[i] = s.Params.K * (p.Density[i] - s.Params.RestDensity)
	})
}

func (s *Simulation) applyPressureForce() {
	p := s.Particles
	h := s.Params.H
	s.each(func(i int) {
		x := p.Position[i]
		var f base.Vec
		s.forEachNeighbor(x, func(j int) {
			if i == j {
				return
			}
			c := p.Mass[j] * (p.Pressure[i] + p.Pressure[j]) / (2 * p.Density[j])
			f = f.Add(Spiky.Gradient(x.Sub(p.Position[j]), h).Scale(c))
		})
		p.Force[i] = p.Force[i].Sub(f)
	})
}

func (s *Simulation) applyViscosityForce() {
	p := s.Particles
	h := s.Params.H
	s.each(func(i int) {
		x := p.Position[i]
		var f base.Vec
		s.forEachNeighbor(x, func(j int) {
			if i == j {
				return
			}
			vdiff := p.Velocity[j].Sub(p.Velocity[i])
			lap := Viscosity.Laplacian(x.Sub(p.Position[j]), h)
			f = f.Add(vdiff.Scale(p.Mass[j] / p.Density[j] * lap))
		})
		p.Force[i] = p.Force[i].Add(f.Scale(s.Params.Mu))
	})
}

func (s *Simulation) applyGravity() {
	p := s.Particles
	s.each(func(i int) {
		p.Force[i] = p.Force[i].Add(s.Params.Gravity.Scale(p.Density[i]))
	})
}

// moveParticles is a symplectic Euler step: velocity first, then position
// with the new velocity.
func (s *Simulation) moveParticles() {
	p := s.Particles
	dt := s.Params.DeltaTime
	s.each(func(i int) {
		p.Velocity[i] = p.Velocity[i].Add(p.Force[i].Scale(dt / p.Mass[i]))
		p.Position[i] = p.Position[i].Add(p.Velocity[i].Scale(dt))
	})
}

func (s *Simulation) enforceBoundaries() {
	p := s.Particles
	dom := s.Params.Domain
	damping := s.Params.VelocityDamping
	for i := range p.Position {
		pos := &p.Position[i]
		vel := &p.Velocity[i]
		for a := 0; a < base.Dim; a++ {
			if pos[a] < dom.Min[a]-boundaryTolerance {
				vel[a] *= -damping
				pos[a] = dom.Min[a]
			}
			if pos[a] > dom.Max[a]+boundaryTolerance {
				vel[a] *= -damping
				pos[a] = dom.Max[a]
			}
		}
	}
}

// each runs fn for every particle index, split across Params.Workers.
func (s *Simulation) each(fn func(i int)) {
	parallelFor(s.Params.Workers, s.Particles.Len(), func(start, end int) {
		for i := start; i < end; i++ {
			fn(i)
		}
	})
}
