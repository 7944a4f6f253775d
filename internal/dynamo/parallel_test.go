package dynamo

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/goleak"
)

func TestEnsembleMatchesSequential(t *testing.T) {
	defer goleak.VerifyNone(t)

	// gains above 1 drive the output past the power limit
	cfg := Config{Dt: 0.01, Duration: 2.0, Saturate: true}
	gains := []float64{0, 0.5, 1, 2, 4, 8}

	plants := make([]*testPlant, len(gains))
	jobs := make([]Job, len(gains))
	for i, g := range gains {
		plants[i] = &testPlant{angle: 1}
		jobs[i] = Job{
			Name:       fmt.Sprintf("gain-%g", g),
			Plant:      plants[i],
			Controller: &testController{gain: g},
			Metrics:    []Metric{&testMetric{}},
		}
	}

	results, err := NewEnsemble(3).Run(context.Background(), jobs, cfg)
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}

	for i, g := range gains {
		seq, err := New(&testPlant{angle: 1}, &testController{gain: g}).Run(context.Background(), cfg)
		if err != nil {
			t.Fatalf("sequential run failed: %v", err)
		}
		if results[i].Final() != seq.Final() {
			t.Errorf("job %d: ensemble %+v != sequential %+v", i, results[i].Final(), seq.Final())
		}
		if len(results[i].Frames) != len(seq.Frames) || results[i].StepsTaken != 201 {
			t.Errorf("job %d: %d frames in %d steps, sequential %d frames",
				i, len(results[i].Frames), results[i].StepsTaken, len(seq.Frames))
		}
		if _, ok := results[i].Metrics["test"]; !ok {
			t.Errorf("job %d: metric missing", i)
		}
	}

	if got := plants[len(plants)-1].powers[0]; got != -1 {
		t.Errorf("expected the first output of gain 8 to saturate at -1, got %f", got)
	}
}

func TestEnsembleFailure(t *testing.T) {
	defer goleak.VerifyNone(t)

	jobs := []Job{
		{Plant: &testPlant{}, Controller: &testController{}},
		{Plant: &nanPlant{}, Controller: &testController{}},
	}
	cfg := Config{Dt: 0.01, Duration: 1.0, ValidateState: true}

	_, err := NewEnsemble(0).Run(context.Background(), jobs, cfg)
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
}

func TestEnsembleJobConfig(t *testing.T) {
	defer goleak.VerifyNone(t)

	short := Config{Dt: 0.1, Duration: 0.5}
	jobs := []Job{
		{Plant: &testPlant{}, Controller: &testController{}},
		{Plant: &testPlant{}, Controller: &testController{}, Config: &short},
	}

	results, err := NewEnsemble(2).Run(context.Background(), jobs, Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if results[0].StepsTaken != 11 {
		t.Errorf("expected 11 steps with the ensemble config, got %d", results[0].StepsTaken)
	}
	if results[1].StepsTaken != 6 {
		t.Errorf("expected 6 steps with the job config, got %d", results[1].StepsTaken)
	}
}
