// Package base provides the spatial discretization primitives used by the
// simulators:
//
//   - [Range]: a min/max box over any vector type
//   - [RangeIterator]: row-major enumeration of the integer points of a box
//   - [ArrayNd]: a dense array over an arbitrary (possibly negative) index domain
//   - [FaceArray]: staggered (MAC) storage, one [ArrayNd] per axis
//   - [Grid]: a uniform grid mapping world positions to cell, node and face indices
//
// The number of dimensions is fixed at compile time by [Dim]. Build with the
// fizz3d tag for three dimensions. Building with the fizzdebug tag turns on
// domain assertions in the array accessors.
package base
