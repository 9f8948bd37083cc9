package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Reference is an analytic solution evaluated pointwise, supplied by the
// caller for validation. The solver itself never needs one.
type Reference func(x, y float64) float64

// Comparison summarizes the mismatch between an estimated density and a
// reference solution on the same grid.
type Comparison struct {
	L2          float64
	RMSE        float64
	MaxAbs      float64
	Correlation float64
}

// Compare evaluates ref at every bin center and measures the error of the
// estimated density against it.
func Compare(r *Result, ref Reference) Comparison {
	n := r.Grid.NumBins()
	want := make([]float64, n)
	for i := 0; i < n; i++ {
		c := r.Grid.Center(i)
		want[i] = ref(c.X, c.Y)
	}

	resid := make([]float64, n)
	copy(resid, r.Density)
	floats.Sub(resid, want)

	maxAbs := 0.0
	for _, v := range resid {
		if a := math.Abs(v); a > maxAbs {
			maxAbs = a
		}
	}

	l2 := floats.Norm(resid, 2) * math.Sqrt(r.Grid.BinArea())

	// Correlation is undefined against a constant reference (zero
	// variance); report 0 rather than NaN.
	corr := 0.0
	if stat.Variance(want, nil) > 0 && stat.Variance(r.Density, nil) > 0 {
		corr = stat.Correlation(r.Density, want, nil)
	}

	return Comparison{
		L2:          l2,
		RMSE:        floats.Norm(resid, 2) / math.Sqrt(float64(n)),
		MaxAbs:      maxAbs,
		Correlation: corr,
	}
}
