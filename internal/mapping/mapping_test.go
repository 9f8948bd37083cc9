package mapping_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/mcwalk/internal/geom"
	"github.com/san-kum/mcwalk/internal/mapping"
)

var _ = Describe("Identity", func() {
	It("returns points unchanged in both directions", func() {
		m := mapping.Identity{}
		p := geom.V(1.25, -3.5)
		Expect(m.Forward(p)).To(Equal(p))
		Expect(m.Inverse(p)).To(Equal(p))
		Expect(m.TransformDrift(p, geom.V(0.1, 0.2))).To(Equal(geom.V(0.1, 0.2)))
		Expect(m.Scale(p)).To(Equal(1.0))
	})
})

var _ = Describe("Wedge", func() {
	var w *mapping.Wedge

	BeforeEach(func() {
		var err error
		w, err = mapping.NewWedge(math.Pi / 3)
		Expect(err).NotTo(HaveOccurred())
	})

	It("rejects angles outside (0, pi)", func() {
		_, err := mapping.NewWedge(0)
		Expect(err).To(HaveOccurred())
		_, err = mapping.NewWedge(math.Pi)
		Expect(err).To(HaveOccurred())
	})

	It("maps the wedge edges onto the real axis", func() {
		onAxis := w.Forward(geom.V(2, 0))
		Expect(onAxis.Y).To(BeNumerically("~", 0, 1e-12))

		edge := geom.V(0.5*math.Cos(math.Pi/3), 0.5*math.Sin(math.Pi/3))
		img := w.Forward(edge)
		Expect(img.Y).To(BeNumerically("~", 0, 1e-12))
		Expect(img.X).To(BeNumerically("~", -0.125, 1e-12))
	})

	It("sends the bisector to the positive imaginary axis", func() {
		p := geom.V(math.Cos(math.Pi/6), math.Sin(math.Pi/6))
		img := w.Forward(p)
		Expect(img.X).To(BeNumerically("~", 0, 1e-12))
		Expect(img.Y).To(BeNumerically("~", 1, 1e-12))
	})

	It("round-trips interior points within tolerance", func() {
		pts := []geom.Vec{}
		for _, r := range []float64{0.01, 0.5, 1, 10} {
			for _, f := range []float64{0.1, 0.3, 0.5, 0.7, 0.9} {
				phi := f * math.Pi / 3
				pts = append(pts, geom.V(r*math.Cos(phi), r*math.Sin(phi)))
			}
		}
		Expect(mapping.RoundTrip(w, pts, 1e-9)).To(Succeed())

		for _, p := range pts {
			q := w.Forward(p)
			Expect(geom.Dist(w.Forward(w.Inverse(q)), q)).To(BeNumerically("<", 1e-9))
		}
	})

	It("transforms drift consistently with finite differences", func() {
		p := geom.V(0.8, 0.3)
		mu := geom.V(0.2, -0.1)

		got := w.TransformDrift(p, mu)

		// Directional derivative of Forward along mu.
		h := 1e-7
		fd := w.Forward(p.Add(mu.Scale(h))).Sub(w.Forward(p)).Scale(1 / h)

		Expect(got.X).To(BeNumerically("~", fd.X, 1e-5))
		Expect(got.Y).To(BeNumerically("~", fd.Y, 1e-5))
	})

	It("reports the local magnification as the drift of a unit vector", func() {
		p := geom.V(1.2, 0.4)
		stretched := w.TransformDrift(p, geom.V(1, 0))
		Expect(w.Scale(p)).To(BeNumerically("~", stretched.Norm(), 1e-12))
	})
})

var _ = Describe("RoundTrip", func() {
	It("fails with ErrInversion for a broken map", func() {
		err := mapping.RoundTrip(lossy{}, []geom.Vec{geom.V(1, 1)}, 1e-12)
		Expect(err).To(MatchError(mapping.ErrInversion))
	})
})

// lossy violates invertibility on purpose.
type lossy struct{ mapping.Identity }

func (lossy) Inverse(q geom.Vec) geom.Vec { return q.Add(geom.V(0.1, 0)) }
