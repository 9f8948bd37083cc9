package stats

import "math"

// HeatKernel is the free-space solution to the diffusion equation with a
// delta initial condition at (x0, y0): a Gaussian of variance 2*D*t per
// axis.
func HeatKernel(x0, y0, d, t float64) Reference {
	return func(x, y float64) float64 {
		if d <= 0 || t <= 0 {
			return 0
		}
		v := 2 * d * t
		dx, dy := x-x0, y-y0
		return math.Exp(-(dx*dx+dy*dy)/(2*v)) / (2 * math.Pi * v)
	}
}

// HalfPlaneHeatKernel solves diffusion on y >= 0 with a reflecting wall
// at y = 0 by the method of images: the free kernel plus its mirror
// charge below the axis.
func HalfPlaneHeatKernel(x0, y0, d, t float64) Reference {
	direct := HeatKernel(x0, y0, d, t)
	image := HeatKernel(x0, -y0, d, t)
	return func(x, y float64) float64 {
		if y < 0 {
			return 0
		}
		return direct(x, y) + image(x, y)
	}
}

// Uniform is the long-time equilibrium of zero-drift diffusion in a
// bounded reflecting domain of the given area.
func Uniform(area float64) Reference {
	return func(x, y float64) float64 {
		return 1 / area
	}
}
