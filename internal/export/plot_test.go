package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/balancesim/internal/dynamo"
)

func sampleFrames() []dynamo.Frame {
	frames := make([]dynamo.Frame, 50)
	for i := range frames {
		t := float64(i) * 0.01
		frames[i] = dynamo.Frame{Time: t, Position: 0.5 * t * t, Angle: 0.234 - t}
	}
	return frames
}

func TestSaveChartsPNG(t *testing.T) {
	dir := t.TempDir()

	paths, err := SaveCharts(dir, sampleFrames(), FormatPNG)
	if err != nil {
		t.Fatalf("save charts: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("expected 3 charts, got %d", len(paths))
	}

	pngMagic := []byte("\x89PNG")
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("read %s: %v", p, err)
		}
		if !bytes.HasPrefix(data, pngMagic) {
			t.Errorf("%s is not a png", filepath.Base(p))
		}
	}
}

func TestSaveChartsSVG(t *testing.T) {
	dir := t.TempDir()

	paths, err := SaveCharts(dir, sampleFrames(), FormatSVG)
	if err != nil {
		t.Fatalf("save charts: %v", err)
	}

	data, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Error("expected svg output")
	}
}

func TestSaveChartsErrors(t *testing.T) {
	if _, err := SaveCharts(t.TempDir(), nil, FormatPNG); err == nil {
		t.Error("expected error for empty frames")
	}
	if _, err := SaveCharts(t.TempDir(), sampleFrames(), "gif"); err == nil {
		t.Error("expected error for unknown format")
	}
}
