package base

import (
	"encoding/json"
	"iter"

	"gopkg.in/yaml.v3"
)

// Grid is a uniform grid laid over a world-space box. It can be read as
// co-located (cells and nodes) or staggered (faces).
type Grid struct {
	// Domain is the world-space box covered by the grid.
	Domain Range[Vec] `yaml:"domain" json:"domain"`
	// Cells is the number of cells along each axis.
	Cells IVec `yaml:"cells" json:"cells"`

	// Dx is the size of one cell. Derived from Domain and Cells; never
	// serialized and rebuilt by RecalculateDx.
	Dx Vec `yaml:"-" json:"-"`
	// OneOverDx is the componentwise reciprocal of Dx.
	OneOverDx Vec `yaml:"-" json:"-"`
}

func NewGrid(cells IVec, domain Range[Vec]) Grid {
	g := Grid{Domain: domain, Cells: cells}
	g.RecalculateDx()
	return g
}

// RecalculateDx refreshes Dx and OneOverDx after Domain or Cells changed.
func (g *Grid) RecalculateDx() {
	g.Dx = g.Domain.Size().Div(g.Cells.Vec())
	g.OneOverDx = Splat(1).Div(g.Dx)
}

// NumNodes is one more than the number of cells on every axis.
func (g Grid) NumNodes() IVec { return g.Cells.Shift(1) }

func (g Grid) NumCells() IVec { return g.Cells }

// CellSize is the area (2d) or volume (3d) of one cell.
func (g Grid) CellSize() float64 { return g.Dx.Product() }

// FaceAreas is the face length (2d) or area (3d) normal to each axis.
func (g Grid) FaceAreas() Vec { return g.OneOverDx.Scale(g.CellSize()) }

func (g Grid) FaceArea(axis int) float64 { return g.CellSize() * g.OneOverDx[axis] }

// CellIndex is the index of the cell containing x.
func (g Grid) CellIndex(x Vec) IVec {
	if debugChecks && !x.IsFinite() {
		panic("base: cell index of a non-finite position")
	}
	return x.Sub(g.Domain.Min).Mul(g.OneOverDx).Floor()
}

// NodeLower is the node at the lower corner of the cell containing x.
func (g Grid) NodeLower(x Vec) IVec { return g.CellIndex(x) }

// NodeX is the world position of a node.
func (g Grid) NodeX(node IVec) Vec {
	return g.Domain.Min.Add(node.Vec().Mul(g.Dx))
}

// CellX is the world position of a cell centre.
func (g Grid) CellX(cell IVec) Vec {
	return g.Domain.Min.Add(cell.Vec().Add(Splat(0.5)).Mul(g.Dx))
}

// CellCenter is an alias of CellX.
func (g Grid) CellCenter(cell IVec) Vec { return g.CellX(cell) }

// FaceX is the world position of the centre of a face.
func (g Grid) FaceX(fi FaceIndex) Vec {
	x := g.CellX(fi.Cell)
	x[fi.Axis] -= 0.5 * g.Dx[fi.Axis]
	return x
}

// Nodes iterates over every node of the grid.
func (g Grid) Nodes() *RangeIterator {
	return NewRangeIterator(NewRange(IVec{}, g.NumNodes()))
}

// CellIndices iterates over every cell of the grid.
func (g Grid) CellIndices() *RangeIterator {
	return NewRangeIterator(NewRange(IVec{}, g.NumCells()))
}

// Faces iterates over every face, axis 0 first, then axis 1, and so on.
func (g Grid) Faces() *FaceIterator {
	return &FaceIterator{cells: g.Cells}
}

// FaceIterator walks the faces of a grid one axis at a time. Each axis range
// is one longer along that axis so the closing face is included.
type FaceIterator struct {
	cells IVec
	axis  int
	it    *RangeIterator
}

func (f *FaceIterator) Next() (FaceIndex, bool) {
	for f.axis < Dim {
		if f.it == nil {
			f.it = NewRangeIterator(NewRange(IVec{}, f.cells.Add(IAxis(f.axis, 1))))
		}
		if cell, ok := f.it.Next(); ok {
			return FaceIndex{Cell: cell, Axis: f.axis}, true
		}
		f.axis++
		f.it = nil
	}
	return FaceIndex{}, false
}

func (f *FaceIterator) All() iter.Seq[FaceIndex] {
	return func(yield func(FaceIndex) bool) {
		for fi, ok := f.Next(); ok; fi, ok = f.Next() {
			if !yield(fi) {
				return
			}
		}
	}
}

// gridFields is the persisted form of a Grid.
type gridFields struct {
	Domain Range[Vec] `yaml:"domain" json:"domain"`
	Cells  IVec       `yaml:"cells" json:"cells"`
}

func (g *Grid) UnmarshalYAML(node *yaml.Node) error {
	var f gridFields
	if err := node.Decode(&f); err != nil {
		return err
	}
	*g = NewGrid(f.Cells, f.Domain)
	return nil
}

func (g *Grid) UnmarshalJSON(data []byte) error {
	var f gridFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*g = NewGrid(f.Cells, f.Domain)
	return nil
}
