package field

import (
	"math"

	"github.com/san-kum/fizz/internal/base"
)

// Divergence is the cell-centred divergence of a face velocity field:
// the sum over axes of (u[c+e_a] - u[c]) / dx_a.
func Divergence(u base.FaceArray[float64], grid base.Grid) (*base.ArrayNd[float64], error) {
	div, err := base.Zeros[float64](base.NewRange(base.IVec{}, grid.Cells))
	if err != nil {
		return nil, err
	}
	for c := range div.Indices().All() {
		var d float64
		for a := 0; a < base.Dim; a++ {
			hi := u[a].At(c.Add(base.IAxis(a, 1)))
			lo := u[a].At(c)
			d += (hi - lo) * grid.OneOverDx[a]
		}
		div.Set(c, d)
	}
	return div, nil
}

// MaxAbs is the largest magnitude in a.
func MaxAbs(a *base.ArrayNd[float64]) float64 {
	var m float64
	a.Apply(func(v *float64) { m = math.Max(m, math.Abs(*v)) })
	return m
}
