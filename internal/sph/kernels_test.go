package sph_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fizz/internal/base"
	"github.com/san-kum/fizz/internal/sph"
)

var _ = Describe("Kernels", func() {
	const h = 0.04

	DescribeTable("vanish outside the support radius",
		func(k sph.Kernel) {
			for _, d := range []float64{h * 1.0001, 2 * h, 10} {
				r := base.Axis(0, d)
				Expect(k.Value(r, h)).To(BeZero())
				Expect(k.GradientMag(r, h)).To(BeZero())
				Expect(k.Gradient(r, h)).To(Equal(base.Vec{}))
				Expect(k.Laplacian(r, h)).To(BeZero())
			}
		},
		Entry("poly6", sph.Poly6),
		Entry("spiky", sph.Spiky),
		Entry("viscosity", sph.Viscosity),
	)

	DescribeTable("stay finite inside the support radius",
		func(k sph.Kernel) {
			for i := 0; i <= 10; i++ {
				r := base.Splat(1).Normalize().Scale(h * float64(i) / 10)
				for _, v := range []float64{k.Value(r, h), k.GradientMag(r, h), k.Laplacian(r, h)} {
					Expect(math.IsNaN(v) || math.IsInf(v, 0)).To(BeFalse(), "at |r| = %g", r.Norm())
				}
				Expect(k.Gradient(r, h).IsFinite()).To(BeTrue())
			}
		},
		Entry("poly6", sph.Poly6),
		Entry("spiky", sph.Spiky),
		Entry("viscosity", sph.Viscosity),
	)

	It("peaks poly6 at the origin", func() {
		w0 := sph.Poly6.Value(base.Vec{}, h)
		Expect(w0).To(BeNumerically(">", 0))
		Expect(sph.Poly6.Value(base.Axis(0, h/2), h)).To(BeNumerically("<", w0))
		Expect(sph.Poly6.Value(base.Axis(0, h), h)).To(BeZero())
	})

	It("has a zero gradient at the origin", func() {
		Expect(sph.Spiky.Gradient(base.Vec{}, h)).To(Equal(base.Vec{}))
		Expect(sph.Poly6.Gradient(base.Vec{}, h)).To(Equal(base.Vec{}))
	})

	It("points the spiky gradient back toward the origin", func() {
		g := sph.Spiky.Gradient(base.Axis(0, h/2), h)
		Expect(g[0]).To(BeNumerically("<", 0))
	})

	It("names kernels", func() {
		Expect(sph.Poly6.String()).To(Equal("poly6"))
		Expect(sph.Viscosity.String()).To(Equal("viscosity"))
	})
})
