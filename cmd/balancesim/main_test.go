package main

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/san-kum/balancesim/internal/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

var runIDPattern = regexp.MustCompile(`run id: (\S+)`)

func runPreset(t *testing.T, data string, extra ...string) string {
	t.Helper()
	args := append([]string{"run", "--data", data, "--preset", "original"}, extra...)
	out, err := execute(t, args...)
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	m := runIDPattern.FindStringSubmatch(out)
	if m == nil {
		t.Fatalf("no run id in output:\n%s", out)
	}
	return m[1]
}

func TestRunAndExportCSV(t *testing.T) {
	data := t.TempDir()
	runID := runPreset(t, data)

	if !strings.HasPrefix(runID, "original_") {
		t.Errorf("unexpected run id %s", runID)
	}

	out, err := execute(t, "export-csv", "--data", data, runID)
	if err != nil {
		t.Fatalf("export-csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if lines[0] != "time,position,angle" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if len(lines) != 1002 {
		t.Errorf("expected 1001 frames, got %d", len(lines)-1)
	}

	path := filepath.Join(t.TempDir(), "frames.csv")
	if _, err := execute(t, "export-csv", "--data", data, "--out", path, runID); err != nil {
		t.Fatalf("export-csv to file: %v", err)
	}
	written, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(written) != out {
		t.Error("file export differs from stdout export")
	}
}

func TestRunFlagOverrides(t *testing.T) {
	data := t.TempDir()
	runPreset(t, data, "--time", "1", "--name", "short")

	out, err := execute(t, "list", "--data", data)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "short_") || !strings.Contains(out, "1.00s") {
		t.Errorf("list does not show the overridden run:\n%s", out)
	}
}

func TestRunFromConfigFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Name = "fromfile"
	cfg.Duration = 0.5
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := config.Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "run", "--data", t.TempDir(), "--config", path)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "run id: fromfile_") || !strings.Contains(out, "steps: 51") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestRunErrors(t *testing.T) {
	if _, err := execute(t, "run", "--data", t.TempDir(), "--preset", "nope"); err == nil {
		t.Error("expected error for unknown preset")
	}
	if _, err := execute(t, "run", "--data", t.TempDir(), "--dt", "0"); err == nil {
		t.Error("expected error for zero dt")
	}
	if _, err := execute(t, "export-csv", "--data", t.TempDir(), "missing"); err == nil {
		t.Error("expected error for missing run")
	}
}

func TestListEmpty(t *testing.T) {
	out, err := execute(t, "list", "--data", filepath.Join(t.TempDir(), "none"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "no runs found") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestExportCAN(t *testing.T) {
	data := t.TempDir()
	runID := runPreset(t, data, "--time", "0.1")

	out, err := execute(t, "export-can", "--data", data, runID)
	if err != nil {
		t.Fatalf("export-can: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 11 {
		t.Errorf("expected 11 frames, got %d", len(lines))
	}
	if !strings.Contains(lines[0], " vcan0 120#") {
		t.Errorf("unexpected line %q", lines[0])
	}
}

func TestAnalyzeAndPlot(t *testing.T) {
	data := t.TempDir()
	runID := runPreset(t, data)

	out, err := execute(t, "analyze", "--data", data, runID)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !strings.Contains(out, "dominant frequency") {
		t.Errorf("analyze output missing frequency:\n%s", out)
	}

	out, err = execute(t, "plot", "--data", data, runID)
	if err != nil {
		t.Fatalf("plot: %v", err)
	}
	if !strings.Contains(out, "station angle") {
		t.Errorf("plot output missing caption:\n%s", out)
	}

	out, err = execute(t, "phase", "--data", data, runID)
	if err != nil {
		t.Fatalf("phase: %v", err)
	}
	if !strings.Contains(out, "•") {
		t.Errorf("phase output has no points:\n%s", out)
	}
}

func TestTune(t *testing.T) {
	path := filepath.Join(t.TempDir(), "best.yaml")
	out, err := execute(t, "tune", "--preset", "balance", "--time", "1",
		"--grid", "kp=1,2", "--grid", "kd=0:0.2:2", "--out", path)
	if err != nil {
		t.Fatalf("tune: %v\n%s", err, out)
	}
	if !strings.Contains(out, "evaluated 4 configurations") {
		t.Errorf("unexpected output:\n%s", out)
	}

	best, err := config.Load(path)
	if err != nil {
		t.Fatalf("load tuned config: %v", err)
	}
	if best.Controller.Kp != 1 && best.Controller.Kp != 2 {
		t.Errorf("tuned kp %f not from the grid", best.Controller.Kp)
	}
}

func TestParseGrid(t *testing.T) {
	names, ranges, err := parseGrid([]string{"kp=0:1:3", "ki=0.1,0.2"})
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "kp" || names[1] != "ki" {
		t.Errorf("unexpected names %v", names)
	}
	if len(ranges[0]) != 3 || ranges[0][1] != 0.5 {
		t.Errorf("unexpected kp range %v", ranges[0])
	}
	if len(ranges[1]) != 2 || ranges[1][1] != 0.2 {
		t.Errorf("unexpected ki range %v", ranges[1])
	}

	for _, bad := range []string{"kp", "kp=", "kp=a:b:c", "kp=0:1:0", "kp=1,x"} {
		if _, _, err := parseGrid([]string{bad}); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestComparePresets(t *testing.T) {
	out, err := execute(t, "compare", "original", "light")
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if !strings.Contains(out, "ANGLE_RMS") || !strings.Contains(out, "light") {
		t.Errorf("unexpected output:\n%s", out)
	}

	if _, err := execute(t, "compare", "nope"); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestPresets(t *testing.T) {
	out, err := execute(t, "presets")
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range config.ListPresets() {
		if !strings.Contains(out, p) {
			t.Errorf("preset %s missing from output", p)
		}
	}
}
