package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/san-kum/mcwalk/internal/stats"
)

// DensityToSVG renders the estimated density as a heatmap, one rect per
// grid bin, dark background with green intensity scaled to the peak bin.
func DensityToSVG(r *stats.Result, scale float64) string {
	g := r.Grid
	width := float64(g.Nx) * scale
	height := float64(g.Ny) * scale

	peak := 0.0
	for _, v := range r.Density {
		if v > peak {
			peak = v
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	if peak > 0 {
		for i, v := range r.Density {
			if v <= 0 {
				continue
			}
			ix := i % g.Nx
			iy := i / g.Nx
			// SVG y grows downward, grid y grows upward.
			x := float64(ix) * scale
			y := float64(g.Ny-1-iy) * scale
			intensity := int(255 * v / peak)
			if intensity > 255 {
				intensity = 255
			}
			sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#00%02x00"/>
`, x, y, scale, scale, intensity))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func SaveDensitySVG(path string, r *stats.Result, scale float64) error {
	return os.WriteFile(path, []byte(DensityToSVG(r, scale)), 0644)
}
