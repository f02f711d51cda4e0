package viz

import (
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"
)

// SciColor maps a value in [min, max] onto the blue-cyan-green-yellow-red
// scientific ramp. Returns 8-bit RGB components.
func SciColor(val, min, max float64) (r, g, b uint8) {
	if max-min == 0 {
		return 0, 0, 255
	}
	val = math.Min(math.Max(val, min), max-0.0001)
	d := max - min
	val = (val - min) / d

	const m = 0.25
	num := math.Floor(val / m)
	s := (val - num*m) / m

	var fr, fg, fb float64
	switch int(num) {
	case 0:
		fr, fg, fb = 0, s, 1
	case 1:
		fr, fg, fb = 0, 1, 1-s
	case 2:
		fr, fg, fb = s, 1, 0
	default:
		fr, fg, fb = 1, 1-s, 0
	}
	return uint8(fr * 255), uint8(fg * 255), uint8(fb * 255)
}

// SciStyle returns a lipgloss foreground style for the ramp color.
func SciStyle(val, min, max float64) lipgloss.Style {
	r, g, b := SciColor(val, min, max)
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r, g, b)))
}

// GrayLevel maps a dye value in [0, 1] to a terminal grayscale color.
func GrayLevel(val float64) lipgloss.Color {
	if val < 0 {
		val = 0
	}
	if val > 1 {
		val = 1
	}
	level := 232 + int(val*23)
	return lipgloss.Color(fmt.Sprintf("%d", level))
}
