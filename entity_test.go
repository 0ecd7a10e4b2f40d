package hanami

import (
	"testing"
	"time"
)

// linear is a timing curve equal to the identity on [0, 1].
var linear = Cubic{0, 1.0 / 3, 2.0 / 3, 1}

// countingPlanner hands out plans whose landing x is the call number.
type countingPlanner struct{ calls int }

func (p *countingPlanner) Plan() FlightPlan {
	p.calls++
	return FlightPlan{
		Path:   Path{X: Cubic{0, 0, 0, float64(p.calls)}},
		Timing: linear,
	}
}

func newEntity(d time.Duration) Entity {
	return Entity{
		Plan: FlightPlan{
			Path:   Path{X: Cubic{0, 100.0 / 3, 200.0 / 3, 100}, Y: Cubic{0, 0, 0, 0}},
			Timing: linear,
		},
		Duration: d,
		State:    StatePending,
	}
}

func TestTickLifecycle(t *testing.T) {
	e := newEntity(time.Second)
	steps := []struct {
		now     time.Duration
		elapsed float64
		step    Step
	}{
		{0, 0, StepContinue},
		{500 * time.Millisecond, 0.5, StepContinue},
		{1000 * time.Millisecond, 1, StepComplete},
		{1500 * time.Millisecond, 1, StepHalted},
	}
	for _, s := range steps {
		var f Frame
		var step Step
		e, f, step = Tick(e, s.now, nil)
		if step != s.step {
			t.Fatalf("at %v: step = %v, want %v", s.now, step, s.step)
		}
		if !approxEqual(f.Elapsed, s.elapsed, epsilon) {
			t.Fatalf("at %v: elapsed = %v, want %v", s.now, f.Elapsed, s.elapsed)
		}
	}
	if e.State != StateComplete {
		t.Errorf("State = %v, want complete", e.State)
	}
}

func TestTickFramePosition(t *testing.T) {
	e := newEntity(time.Second)
	e, _, _ = Tick(e, 0, nil)
	_, f, _ := Tick(e, 500*time.Millisecond, nil)
	if !approxEqual(f.X, 50, 1e-6) {
		t.Errorf("X = %v, want 50", f.X)
	}
	if !approxEqual(f.Progress, 0.5, 1e-6) {
		t.Errorf("Progress = %v, want 0.5", f.Progress)
	}
}

func TestTickRotationInDegrees(t *testing.T) {
	e := newEntity(time.Second)
	e.Plan.Rotation = Cubic{0, 0, 0, 2}
	e, _, _ = Tick(e, 0, nil)
	_, f, _ := Tick(e, time.Second, nil)
	if !approxEqual(f.Rotation, 720, epsilon) {
		t.Errorf("Rotation = %v, want 720", f.Rotation)
	}
}

func TestTickWaitsForDelay(t *testing.T) {
	e := newEntity(time.Second)
	e.NotBefore = 300 * time.Millisecond

	e, _, step := Tick(e, 100*time.Millisecond, nil)
	if step != StepWait || e.State != StatePending {
		t.Fatalf("before delay: step %v state %v", step, e.State)
	}
	e, f, step := Tick(e, 300*time.Millisecond, nil)
	if step != StepContinue || f.Elapsed != 0 {
		t.Fatalf("at delay: step %v elapsed %v", step, f.Elapsed)
	}
	if e.Start != 300*time.Millisecond {
		t.Errorf("Start = %v, want 300ms", e.Start)
	}
}

func TestTickEntryPhase(t *testing.T) {
	e := newEntity(time.Second)
	e.Entry = 200 * time.Millisecond

	e, _, step := Tick(e, 0, nil)
	if step != StepWait || e.State != StateEntering {
		t.Fatalf("tick 0: step %v state %v", step, e.State)
	}
	e, _, step = Tick(e, 100*time.Millisecond, nil)
	if step != StepWait {
		t.Fatalf("tick 100ms: step %v", step)
	}
	e, f, step := Tick(e, 200*time.Millisecond, nil)
	if step != StepContinue || e.State != StateRunning || f.Elapsed != 0 {
		t.Fatalf("tick 200ms: step %v state %v elapsed %v", step, e.State, f.Elapsed)
	}
	_, f, _ = Tick(e, 700*time.Millisecond, nil)
	if !approxEqual(f.Elapsed, 0.5, epsilon) {
		t.Errorf("elapsed after entry = %v, want 0.5", f.Elapsed)
	}
}

func TestTickZeroDurationCompletesImmediately(t *testing.T) {
	e := newEntity(0)
	e, f, step := Tick(e, 0, nil)
	if step != StepComplete || f.Elapsed != 1 {
		t.Errorf("step %v elapsed %v, want complete at 1", step, f.Elapsed)
	}
	if e.State != StateComplete {
		t.Errorf("State = %v", e.State)
	}
}

func TestTickElapsedNeverDecreases(t *testing.T) {
	e := newEntity(time.Second)
	e, _, _ = Tick(e, 0, nil)
	e, _, _ = Tick(e, 600*time.Millisecond, nil)
	_, f, _ := Tick(e, 400*time.Millisecond, nil)
	if !approxEqual(f.Elapsed, 0.6, epsilon) {
		t.Errorf("elapsed = %v after clock went back, want 0.6", f.Elapsed)
	}
}

func TestTickLoopRegeneratesPlan(t *testing.T) {
	planner := &countingPlanner{}
	e := newEntity(time.Second)
	e.Loop = true

	e, _, _ = Tick(e, 0, planner)
	e, f, step := Tick(e, time.Second, planner)
	if step != StepLoop {
		t.Fatalf("step = %v, want loop", step)
	}
	if f.Elapsed != 1 || f.Epoch != 0 {
		t.Errorf("loop frame elapsed %v epoch %v, want 1 and 0", f.Elapsed, f.Epoch)
	}
	if e.Epoch != 1 || e.Elapsed != 0 || e.Progress != 0 {
		t.Errorf("after loop: epoch %d elapsed %v progress %v", e.Epoch, e.Elapsed, e.Progress)
	}
	if planner.calls != 1 || e.Plan.Path.X[3] != 1 {
		t.Errorf("planner calls %d, landing x %v", planner.calls, e.Plan.Path.X[3])
	}

	_, f, step = Tick(e, 1500*time.Millisecond, planner)
	if step != StepContinue || !approxEqual(f.Elapsed, 0.5, epsilon) {
		t.Errorf("second epoch: step %v elapsed %v", step, f.Elapsed)
	}
}

func TestTickLoopWithoutPlannerKeepsPlan(t *testing.T) {
	e := newEntity(time.Second)
	e.Loop = true
	plan := e.Plan
	e, _, _ = Tick(e, 0, nil)
	e, _, _ = Tick(e, time.Second, nil)
	if e.Plan != plan {
		t.Error("plan changed without a planner")
	}
}

func TestTickCancelledHalts(t *testing.T) {
	e := newEntity(time.Second)
	e.State = StateCancelled
	_, _, step := Tick(e, 0, nil)
	if step != StepHalted {
		t.Errorf("step = %v, want halted", step)
	}
}

func TestTickEaseOverridesPlanTiming(t *testing.T) {
	e := newEntity(time.Second)
	e.Plan.Timing = Cubic{}
	e.Ease = EaseTiming{}
	e, _, _ = Tick(e, 0, nil)
	_, f, _ := Tick(e, 250*time.Millisecond, nil)
	if !approxEqual(f.Progress, 0.25, 1e-6) {
		t.Errorf("Progress = %v, want 0.25", f.Progress)
	}
}

func TestStateString(t *testing.T) {
	if StateRunning.String() != "running" {
		t.Errorf("StateRunning = %q", StateRunning.String())
	}
	if State(42).String() != "unknown" {
		t.Errorf("State(42) = %q", State(42).String())
	}
}
