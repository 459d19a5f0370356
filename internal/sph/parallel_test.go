package sph_test

import (
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fizz/internal/sph"
)

var _ = Describe("ParallelFor", func() {
	chunks := func(workers, n int) ([][2]int, []int) {
		var mu sync.Mutex
		var got [][2]int
		hits := make([]int, n)
		sph.ParallelFor(workers, n, func(start, end int) {
			mu.Lock()
			got = append(got, [2]int{start, end})
			mu.Unlock()
			for i := start; i < end; i++ {
				hits[i]++
			}
		})
		return got, hits
	}

	It("splits a large range across every worker", func() {
		got, hits := chunks(4, 4*sph.MinChunk)
		Expect(got).To(HaveLen(4))
		for i, h := range hits {
			Expect(h).To(Equal(1), "index %d", i)
		}
	})

	It("runs small ranges in one call", func() {
		got, hits := chunks(4, sph.MinChunk)
		Expect(got).To(ConsistOf([2]int{0, sph.MinChunk}))
		Expect(hits).To(HaveEach(1))
	})

	It("caps workers so no chunk is smaller than the minimum", func() {
		got, _ := chunks(8, 2*sph.MinChunk+1)
		Expect(got).To(HaveLen(2))
	})
})
