package optim

import (
	"context"
	"testing"

	"github.com/san-kum/balancesim/internal/config"
)

func TestLinspace(t *testing.T) {
	got := Linspace(0, 1, 5)
	want := []float64{0, 0.25, 0.5, 0.75, 1}
	if len(got) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: expected %f, got %f", i, want[i], got[i])
		}
	}
	if v := Linspace(3, 9, 1); len(v) != 1 || v[0] != 3 {
		t.Errorf("single point should be lo, got %v", v)
	}
}

func TestNewGridSearchValidation(t *testing.T) {
	if _, err := NewGridSearch([]string{"kp"}, nil, 1, nil); err == nil {
		t.Error("expected error for mismatched ranges")
	}
	if _, err := NewGridSearch([]string{"kp"}, [][]float64{{}}, 1, nil); err == nil {
		t.Error("expected error for empty range")
	}
}

func TestGridSearchConstantPower(t *testing.T) {
	base := config.GetPreset("original")
	base.Duration = 1.0

	gs, err := NewGridSearch([]string{"power"}, [][]float64{{0.5, 0.1, 0.9, 2.0}}, 2, nil)
	if err != nil {
		t.Fatalf("new grid search: %v", err)
	}

	res, err := gs.Search(context.Background(), base, "control_effort")
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if res.Params["power"] != 0.1 {
		t.Errorf("expected best power 0.1, got %v", res.Params)
	}
	if res.Evaluated != 3 || res.Skipped != 1 {
		t.Errorf("expected 3 evaluated and 1 skipped, got %d and %d", res.Evaluated, res.Skipped)
	}
}

func TestGridSearchGains(t *testing.T) {
	base := config.DefaultConfig()
	base.Duration = 2.0

	gs, err := NewGridSearch(
		[]string{"kp", "kd"},
		[][]float64{{0.5, 1, 2}, {-0.1, 0, 0.1}},
		0, nil,
	)
	if err != nil {
		t.Fatalf("new grid search: %v", err)
	}

	res, err := gs.Search(context.Background(), base, "angle_rms")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if res.Evaluated != 6 || res.Skipped != 3 {
		t.Errorf("expected 6 evaluated and 3 skipped, got %d and %d", res.Evaluated, res.Skipped)
	}
	if _, ok := res.Params["kp"]; !ok {
		t.Errorf("best params missing kp: %v", res.Params)
	}

	if _, err := gs.Search(context.Background(), base, "nope"); err == nil {
		t.Error("expected error for unknown metric")
	}
}
