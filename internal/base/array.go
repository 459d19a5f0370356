package base

import (
	"fmt"
	"math"
	"unsafe"
)

// maxArrayBytes caps a single allocation well below the runtime limit so an
// absurd domain is reported as an error instead of crashing in make.
const maxArrayBytes = math.MaxInt >> 17

// ArrayNd is a dense multi-dimensional array.
//
// The index space is an arbitrary [Range] rather than a size, so indices may
// be negative. Boundary code can then read "ghost cells" outside the physical
// domain without special cases, provided the array was allocated with a
// domain large enough to hold them.
type ArrayNd[T any] struct {
	data   []T
	domain Range[IVec]
	stride IVec
	offset int
}

// Zeros allocates an array of zero values over domain.
//
// It fails with a *DomainError if some axis has negative extent or the element
// count does not fit in addressable memory.
func Zeros[T any](domain Range[IVec]) (*ArrayNd[T], error) {
	size := domain.Size()
	count := 1
	for _, n := range size {
		if n < 0 {
			return nil, &DomainError{Domain: domain, Reason: "negative extent"}
		}
		if n != 0 && count > math.MaxInt/n {
			return nil, &DomainError{Domain: domain, Reason: "element count overflows int"}
		}
		count *= n
	}

	var zero T
	if elem := int(unsafe.Sizeof(zero)); elem > 0 && count > maxArrayBytes/elem {
		return nil, &DomainError{Domain: domain, Reason: fmt.Sprintf("%d elements exceed the allocation limit", count)}
	}

	stride := calculateStrides(size)
	return &ArrayNd[T]{
		data:   make([]T, count),
		domain: domain,
		stride: stride,
		offset: -domain.Min.Dot(stride),
	}, nil
}

// ZerosLike allocates a zeroed array with the same domain as other.
func ZerosLike[T, U any](other *ArrayNd[U]) *ArrayNd[T] {
	return &ArrayNd[T]{
		data:   make([]T, len(other.data)),
		domain: other.domain,
		stride: other.stride,
		offset: other.offset,
	}
}

// calculateStrides returns the row-major strides for an array of the given
// extent, so that dot(idx, stride) walks the last axis fastest. In 2d this
// is the familiar x*height + y.
func calculateStrides(size IVec) IVec {
	var stride IVec
	stride[Dim-1] = 1
	for i := Dim - 1; i > 0; i-- {
		stride[i-1] = stride[i] * size[i]
	}
	return stride
}

func (a *ArrayNd[T]) flatten(idx IVec) int {
	if debugChecks && !a.domain.ContainsHalfOpen(idx) {
		panic(fmt.Sprintf("base: index %v outside array domain %v", idx, a.domain))
	}
	return idx.Dot(a.stride) + a.offset
}

// At returns the element at idx. The caller guarantees idx is in the domain.
func (a *ArrayNd[T]) At(idx IVec) T { return a.data[a.flatten(idx)] }

// Set stores v at idx. The caller guarantees idx is in the domain.
func (a *ArrayNd[T]) Set(idx IVec, v T) { a.data[a.flatten(idx)] = v }

// Ptr returns a pointer to the element at idx for in-place updates.
func (a *ArrayNd[T]) Ptr(idx IVec) *T { return &a.data[a.flatten(idx)] }

// Get is the checked accessor: ok is false when idx is outside the domain.
func (a *ArrayNd[T]) Get(idx IVec) (v T, ok bool) {
	if !a.domain.ContainsHalfOpen(idx) {
		return v, false
	}
	return a.data[idx.Dot(a.stride)+a.offset], true
}

// Fill sets every element to v.
func (a *ArrayNd[T]) Fill(v T) {
	for i := range a.data {
		a.data[i] = v
	}
}

// Apply calls fn on every element in storage order.
func (a *ArrayNd[T]) Apply(fn func(*T)) {
	for i := range a.data {
		fn(&a.data[i])
	}
}

func (a *ArrayNd[T]) Domain() Range[IVec] { return a.domain }

// Len is the number of elements.
func (a *ArrayNd[T]) Len() int { return len(a.data) }

// Indices iterates over the domain in storage order.
func (a *ArrayNd[T]) Indices() *RangeIterator { return NewRangeIterator(a.domain) }
