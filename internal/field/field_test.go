package field

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/san-kum/fizz/internal/base"
	"github.com/san-kum/fizz/internal/sph"
)

func unitGrid(n int) base.Grid {
	return base.NewGrid(base.ISplat(n), base.NewRange(base.Splat(0), base.Splat(1)))
}

func TestDivergenceOfUniformFlowIsZero(t *testing.T) {
	g := unitGrid(4)
	u, err := base.NewFaceArray[float64](g.Cells)
	require.NoError(t, err)
	u.Fill(3)

	div, err := Divergence(u, g)
	require.NoError(t, err)
	require.Equal(t, g.Cells.Product(), div.Len())
	require.Zero(t, MaxAbs(div))
}

func TestDivergenceOfLinearFlow(t *testing.T) {
	g := unitGrid(5)
	u, err := base.NewFaceArray[float64](g.Cells)
	require.NoError(t, err)
	// u_0 = 2x has divergence 2 everywhere.
	for idx := range u[0].Indices().All() {
		fi := base.NewFaceIndex(idx, 0)
		u.Set(fi, 2*g.FaceX(fi)[0])
	}

	div, err := Divergence(u, g)
	require.NoError(t, err)
	for c := range div.Indices().All() {
		require.InDelta(t, 2, div.At(c), 1e-12, "cell %v", c)
	}
}

func TestSamplerReproducesUniformVelocity(t *testing.T) {
	g := unitGrid(10)
	s, err := NewSampler(g, 0.1)
	require.NoError(t, err)

	p := sph.NewParticles(0)
	v := base.Splat(0.25)
	it := base.NewRangeIterator(base.NewRange(base.ISplat(3), base.ISplat(7)))
	for idx := range it.All() {
		p.Add(1, idx.Vec().Scale(0.1).Add(base.Splat(0.05)), v)
	}
	s.Sample(p)

	centre := base.NewFaceIndex(base.ISplat(5), 0)
	require.Positive(t, s.Weight(centre))
	require.InDelta(t, 0.25, s.Velocity.At(centre), 1e-12)

	far := base.NewFaceIndex(base.IVec{}, 0)
	require.Zero(t, s.Weight(far))
	require.Zero(t, s.Velocity.At(far))
}

func TestSamplerResetsBetweenCalls(t *testing.T) {
	g := unitGrid(4)
	s, err := NewSampler(g, 0.3)
	require.NoError(t, err)

	p := sph.NewParticles(0)
	p.Add(1, base.Splat(0.5), base.Axis(0, 1))
	s.Sample(p)
	first := s.Velocity.At(base.NewFaceIndex(base.ISplat(2), 0))

	s.Sample(p)
	require.Equal(t, first, s.Velocity.At(base.NewFaceIndex(base.ISplat(2), 0)))
	require.InDelta(t, 1, first, 1e-12)
}
