package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/balancesim/internal/dynamo"
)

func TestFFTImpulse(t *testing.T) {
	out := FFT([]float64{1, 0, 0, 0})
	for i, c := range out {
		if math.Abs(real(c)-1) > 1e-12 || math.Abs(imag(c)) > 1e-12 {
			t.Errorf("bin %d: expected 1, got %v", i, c)
		}
	}
}

func TestPad(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{1, 1},
		{3, 4},
		{8, 8},
		{1001, 1024},
	}
	for _, tt := range tests {
		if got := len(Pad(make([]float64, tt.in))); got != tt.want {
			t.Errorf("Pad(%d): expected %d, got %d", tt.in, tt.want, got)
		}
	}
}

func TestDominantFrequency(t *testing.T) {
	dt := 0.01
	samples := make([]float64, 1024)
	for i := range samples {
		samples[i] = 0.1 + math.Sin(2*math.Pi*2.0*float64(i)*dt)
	}

	freq, mag := DominantFrequency(samples, dt)
	binWidth := 1 / (1024 * dt)
	if math.Abs(freq-2.0) > binWidth {
		t.Errorf("expected ~2 Hz, got %f", freq)
	}
	if mag <= 0 {
		t.Errorf("expected positive magnitude, got %f", mag)
	}

	if f, m := DominantFrequency([]float64{1}, dt); f != 0 || m != 0 {
		t.Errorf("expected zero for a single sample, got %f %f", f, m)
	}
}

func TestCrossings(t *testing.T) {
	times := []float64{0, 1, 2, 3, 4}
	values := []float64{-1, 1, -1, -0.5, 0.5}

	got := Crossings(times, values, 0)
	want := []float64{0.5, 3.5}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("crossing %d: expected %f, got %f", i, want[i], got[i])
		}
	}
}

func TestPhasePortraitToASCII(t *testing.T) {
	frames := []dynamo.Frame{
		{Time: 0, Position: 0, Angle: 0.2},
		{Time: 1, Position: 1, Angle: 0},
		{Time: 2, Position: 2, Angle: -0.2},
	}
	art := PhasePortraitToASCII(NewPhasePortrait(frames), 20, 10)

	lines := strings.Split(strings.TrimSuffix(art, "\n"), "\n")
	if len(lines) != 10 {
		t.Fatalf("expected 10 rows, got %d", len(lines))
	}
	if n := strings.Count(art, "•"); n != 3 {
		t.Errorf("expected 3 points, got %d", n)
	}
	if !strings.Contains(art, "─") {
		t.Error("expected level line")
	}

	if PhasePortraitToASCII(nil, 20, 10) != "" {
		t.Error("expected empty output for nil portrait")
	}
}
