package hanami

import "time"

// EntityID identifies an entity within one Scheduler.
type EntityID uint32

// Kind names the visual family an entity belongs to.
type Kind string

const (
	KindPetal  Kind = "petal"  // small falling petal
	KindFlower Kind = "flower" // whole blossom
	KindHaiku  Kind = "haiku"  // typewriter line
)

// State is an entity's position in its lifecycle.
type State uint8

const (
	StatePending   State = iota // registered, waiting for its stagger delay
	StateEntering               // entry timer running, nothing rendered yet
	StateRunning                // traveling along its plan
	StateComplete               // rendered at elapsed 1, never ticked again
	StateCancelled              // removed externally or its target vanished
)

var stateNames = [...]string{"pending", "entering", "running", "complete", "cancelled"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Entity is one animated object: its plan, its clock and its lifecycle.
// Entities are values; Tick returns an updated copy.
type Entity struct {
	ID   EntityID
	Kind Kind
	Plan FlightPlan

	// Ease, when non-nil, replaces Plan.Timing as the elapsed-to-progress remap.
	Ease Timing

	Duration time.Duration
	Loop     bool

	// Delay postpones the first tick after registration (batch stagger).
	Delay time.Duration
	// Entry runs a timer of this length before the main phase starts.
	Entry time.Duration

	State     State
	NotBefore time.Duration // absolute time the entity may start
	Start     time.Duration // start of the current phase
	Elapsed   float64       // clamped elapsed fraction of the current epoch
	Progress  float64       // Elapsed remapped through the timing curve
	Epoch     int           // number of completed loops
}

// Frame is what a Sink receives on every rendered tick.
type Frame struct {
	X, Y     float64
	Rotation float64 // degrees; may exceed one turn or be negative
	Elapsed  float64
	Progress float64
	Epoch    int
}

// Step tells the scheduler what to do after a tick.
type Step uint8

const (
	StepWait     Step = iota // nothing rendered, keep ticking
	StepContinue             // frame rendered, keep ticking
	StepLoop                 // frame rendered, a new epoch began
	StepComplete             // final frame rendered, notify completion and stop
	StepHalted               // entity already finished; stop without rendering
)

func (e Entity) timing() Timing {
	if e.Ease != nil {
		return e.Ease
	}
	return e.Plan.Timing
}

// fraction returns d/total clamped to [0, 1]. A non-positive total counts as
// already elapsed.
func fraction(d, total time.Duration) float64 {
	if total <= 0 {
		return 1
	}
	return clamp01(float64(d) / float64(total))
}

// Tick advances e to timestamp now and returns the updated entity, the frame
// to render and the follow-up step. planner supplies a fresh plan when a
// looping entity crosses its loop boundary; nil keeps the current plan.
func Tick(e Entity, now time.Duration, planner Planner) (Entity, Frame, Step) {
	switch e.State {
	case StateComplete, StateCancelled:
		return e, Frame{Elapsed: e.Elapsed, Progress: e.Progress, Epoch: e.Epoch}, StepHalted
	case StatePending:
		if now < e.NotBefore {
			return e, Frame{}, StepWait
		}
		e.Start = now
		if e.Entry > 0 {
			e.State = StateEntering
			return e, Frame{}, StepWait
		}
		e.State = StateRunning
	case StateEntering:
		if fraction(now-e.Start, e.Entry) < 1 {
			return e, Frame{}, StepWait
		}
		e.State = StateRunning
		e.Start = now
	}

	elapsed := fraction(now-e.Start, e.Duration)
	if elapsed < e.Elapsed {
		// Hosts with a non-monotonic clock must not move an entity backwards.
		elapsed = e.Elapsed
	}
	e.Elapsed = elapsed
	e.Progress = e.timing().At(elapsed)

	pos := e.Plan.Path.At(e.Progress)
	f := Frame{
		X:        pos.X,
		Y:        pos.Y,
		Rotation: e.Plan.Rotation.At(elapsed) * 360,
		Elapsed:  elapsed,
		Progress: e.Progress,
		Epoch:    e.Epoch,
	}

	if elapsed < 1 {
		return e, f, StepContinue
	}
	if e.Loop {
		if planner != nil {
			e.Plan = planner.Plan()
		}
		e.Start = now
		e.Elapsed = 0
		e.Progress = 0
		e.Epoch++
		return e, f, StepLoop
	}
	e.State = StateComplete
	return e, f, StepComplete
}
