package base

import "iter"

// RangeIterator walks every integer coordinate in [min, max) of a range in
// row-major order (the last axis varies fastest). It is single pass.
type RangeIterator struct {
	index IVec
	r     Range[IVec]
	done  bool
}

func NewRangeIterator(r Range[IVec]) *RangeIterator {
	return &RangeIterator{index: r.Min, r: r, done: r.Empty()}
}

// Next returns the next coordinate, or false once the range is exhausted.
func (it *RangeIterator) Next() (IVec, bool) {
	if it.done {
		return IVec{}, false
	}

	result := it.index
	for i := Dim - 1; ; i-- {
		it.index[i]++
		if it.index[i] < it.r.Max[i] {
			break
		}
		it.index[i] = it.r.Min[i]
		if i == 0 {
			it.done = true
			break
		}
	}
	return result, true
}

// All adapts the remaining coordinates to a range-over-func sequence.
func (it *RangeIterator) All() iter.Seq[IVec] {
	return func(yield func(IVec) bool) {
		for idx, ok := it.Next(); ok; idx, ok = it.Next() {
			if !yield(idx) {
				return
			}
		}
	}
}

// Collect drains the iterator into a slice.
func (it *RangeIterator) Collect() []IVec {
	var out []IVec
	for idx := range it.All() {
		out = append(out, idx)
	}
	return out
}
