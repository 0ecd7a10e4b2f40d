package hanami

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// ScriptStep is a single action in a scenario script.
type ScriptStep struct {
	Action string `json:"action"`
	Kind   Kind   `json:"kind,omitempty"`
	Kinds  []Kind `json:"kinds,omitempty"`
	Count  int    `json:"count,omitempty"`
	Batch  int    `json:"batch,omitempty"`
	Ms     int    `json:"ms,omitempty"`
	Frames int    `json:"frames,omitempty"`
	Label  string `json:"label,omitempty"`
}

// Script is the top-level JSON structure of a scenario.
type Script struct {
	Steps []ScriptStep `json:"steps"`
}

var scriptActions = map[string]bool{
	"spawn": true, "advance": true, "wait": true, "teardown": true,
	"continuous": true, "stop": true, "screenshot": true,
}

// LoadScript parses a JSON scenario script.
func LoadScript(data []byte) (*Script, error) {
	var s Script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("parse script: %w", ErrEmptyScript)
	}
	for i, st := range s.Steps {
		if !scriptActions[st.Action] {
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &s, nil
}

// LoadScriptFile reads and parses a scenario script from disk.
func LoadScriptFile(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadScript(data)
}

// ScriptReport summarizes a finished or running scenario.
type ScriptReport struct {
	Frames    int           `json:"frames"`
	Elapsed   time.Duration `json:"elapsed"`
	Batches   int           `json:"batches"`
	Spawned   int           `json:"spawned"`
	Completed int           `json:"completed"`
	Removed   int           `json:"removed"`
	Live      int           `json:"live"`
}

// ScriptRunner plays a script against an engine, one frame per Step, with
// time supplied by a manual clock.
type ScriptRunner struct {
	script   *Script
	engine   *Engine
	clock    *ManualClock
	frameDur time.Duration

	// OnScreenshot handles "screenshot" steps. Nil ignores them.
	OnScreenshot func(label string)

	cursor    int
	remaining int
	dt        time.Duration
	frames    int
	done      bool
}

// NewScriptRunner prepares s to drive e. The frame duration of "wait" steps
// follows the engine's configured FPS.
func NewScriptRunner(s *Script, e *Engine, clock *ManualClock) *ScriptRunner {
	fps := e.Config.Window.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &ScriptRunner{
		script:   s,
		engine:   e,
		clock:    clock,
		frameDur: time.Second / time.Duration(fps),
	}
}

// Done reports whether all steps have been executed.
func (r *ScriptRunner) Done() bool { return r.done }

// Step runs one frame. Instant actions (spawn, teardown, continuous, stop,
// screenshot) advance the engine without moving the clock; advance and wait
// move the clock once per frame for their frame count.
func (r *ScriptRunner) Step() {
	if r.done {
		return
	}
	if r.remaining > 0 {
		r.remaining--
		r.tick(r.dt)
		r.finishIfDone()
		return
	}
	if r.cursor >= len(r.script.Steps) {
		r.done = true
		return
	}

	st := r.script.Steps[r.cursor]
	r.cursor++
	now := r.clock.Now()
	sp := r.engine.Spawner

	switch st.Action {
	case "spawn":
		kind := st.Kind
		if kind == "" {
			kind = KindPetal
		}
		sp.SpawnBatch(now, kind, st.Count)
		r.tick(0)
	case "teardown":
		if st.Batch > 0 {
			sp.Teardown(BatchID(st.Batch))
		} else {
			sp.TeardownAll()
		}
		r.tick(0)
	case "continuous":
		kinds := st.Kinds
		if len(kinds) == 0 {
			kinds = r.engine.Config.Spawn.Kinds
		}
		sp.RunContinuously(time.Duration(st.Ms)*time.Millisecond, kinds...)
		r.tick(0)
	case "stop":
		sp.Stop()
		r.tick(0)
	case "screenshot":
		if r.OnScreenshot != nil {
			r.OnScreenshot(st.Label)
		}
		r.tick(0)
	case "advance":
		frames := max(st.Frames, 1)
		r.dt = time.Duration(st.Ms) * time.Millisecond / time.Duration(frames)
		r.remaining = frames - 1
		r.tick(r.dt)
	case "wait":
		frames := max(st.Frames, 1)
		r.dt = r.frameDur
		r.remaining = frames - 1
		r.tick(r.dt)
	}
	r.finishIfDone()
}

// Run steps until the script is done and returns the final report.
func (r *ScriptRunner) Run() ScriptReport {
	for !r.done {
		r.Step()
	}
	return r.Report()
}

// Report returns the current counters.
func (r *ScriptRunner) Report() ScriptReport {
	st := r.engine.Spawner.Stats()
	return ScriptReport{
		Frames:    r.frames,
		Elapsed:   r.clock.Now(),
		Batches:   st.Batches,
		Spawned:   st.Spawned,
		Completed: st.Completed,
		Removed:   st.Removed,
		Live:      r.engine.Live(),
	}
}

func (r *ScriptRunner) tick(dt time.Duration) {
	r.engine.Advance(r.clock.Advance(dt))
	r.frames++
}

func (r *ScriptRunner) finishIfDone() {
	if r.cursor >= len(r.script.Steps) && r.remaining == 0 {
		r.done = true
	}
}
