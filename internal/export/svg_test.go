package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDyeToSVGStructure(t *testing.T) {
	data := []float64{
		0, 0, 0,
		0, 1, 0,
	}
	svg := DyeToSVG(data, 3, 2, 10)

	if !strings.HasPrefix(svg, `<?xml`) {
		t.Error("missing XML header")
	}
	if !strings.Contains(svg, "<svg") || !strings.Contains(svg, "</svg>") {
		t.Error("missing svg element")
	}
	// one background rect plus exactly one dye cell
	if got := strings.Count(svg, "<rect"); got != 2 {
		t.Errorf("expected 2 rects, got %d", got)
	}
	// grid row 1 of 2 flips to screen row 0
	if !strings.Contains(svg, `y="0.0"`) {
		t.Error("dye cell should be flipped to the top screen row")
	}
}

func TestDyeToSVGRejectsBadInput(t *testing.T) {
	if DyeToSVG(nil, 0, 0, 10) != "" {
		t.Error("expected empty output for empty field")
	}
	if DyeToSVG([]float64{1}, 2, 2, 10) != "" {
		t.Error("expected empty output for short data")
	}
}

func TestWriteDyeSVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dye.svg")
	data := []float64{0.5, 0.5, 0.5, 0.5}
	if err := WriteDyeSVG(path, data, 2, 2, 8); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), "</svg>") {
		t.Error("written file is not a complete SVG")
	}
}
