package base

// FaceArray stores data on the faces of a grid, one array per axis.
//
// This is the staggered "marker-and-cell" layout of Harlow and Welch: the
// axis-a component of a vector field lives on the faces normal to axis a, so
// centred differences of face values land on cell centres and vice versa.
type FaceArray[T any] [Dim]*ArrayNd[T]

// FaceIndex names the lower face of Cell along Axis.
type FaceIndex struct {
	Cell IVec
	Axis int
}

func NewFaceIndex(cell IVec, axis int) FaceIndex {
	return FaceIndex{Cell: cell, Axis: axis}
}

// NewFaceArray allocates face storage for a grid with the given cell counts.
// Axis a holds cells[a]+1 faces along a, including the closing face.
func NewFaceArray[T any](cells IVec) (FaceArray[T], error) {
	var f FaceArray[T]
	for axis := 0; axis < Dim; axis++ {
		arr, err := Zeros[T](NewRange(IVec{}, cells.Add(IAxis(axis, 1))))
		if err != nil {
			return FaceArray[T]{}, err
		}
		f[axis] = arr
	}
	return f, nil
}

func (f FaceArray[T]) At(fi FaceIndex) T { return f[fi.Axis].At(fi.Cell) }

func (f FaceArray[T]) Set(fi FaceIndex, v T) { f[fi.Axis].Set(fi.Cell, v) }

func (f FaceArray[T]) Ptr(fi FaceIndex) *T { return f[fi.Axis].Ptr(fi.Cell) }

// Fill sets every face on every axis to v.
func (f FaceArray[T]) Fill(v T) {
	for _, arr := range f {
		arr.Fill(v)
	}
}
