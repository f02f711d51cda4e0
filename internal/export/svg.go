// Package export renders saved simulation snapshots to standalone files.
package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/sgshea/fluidsim/internal/viz"
)

// DyeToSVG converts a flat row-major dye field into an SVG heatmap using
// the scientific color ramp. Grid row 0 is the bottom of the domain, so
// rows are flipped into screen space.
func DyeToSVG(data []float64, width, height int, scale float64) string {
	if width <= 0 || height <= 0 || len(data) < width*height {
		return ""
	}

	w := float64(width) * scale
	h := float64(height) * scale

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, w, h, w, h))

	for y := 0; y < height; y++ {
		screenY := float64(height-1-y) * scale
		for x := 0; x < width; x++ {
			val := data[y*width+x]
			if val <= 0.01 {
				continue
			}
			r, g, b := viz.SciColor(val, 0, 1)
			sb.WriteString(fmt.Sprintf(
				`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#%02x%02x%02x"/>`+"\n",
				float64(x)*scale, screenY, scale, scale, r, g, b))
		}
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// WriteDyeSVG renders a dye field and writes it to path.
func WriteDyeSVG(path string, data []float64, width, height int, scale float64) error {
	svg := DyeToSVG(data, width, height, scale)
	if svg == "" {
		return fmt.Errorf("empty dye field, nothing to export")
	}
	return os.WriteFile(path, []byte(svg), 0644)
}
