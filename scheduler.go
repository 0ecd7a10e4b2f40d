package hanami

import (
	"errors"
	"time"
)

// Sink receives the frames of one entity. It stands in for the visual element
// the entity drives: a scene node, a terminal glyph, a websocket element.
type Sink interface {
	// Render applies a frame. Returning an error cancels the entity;
	// ErrTargetGone is the expected signal for a vanished element.
	Render(f Frame) error
	// Complete is called exactly once, after the final frame of a
	// non-looping entity. It is not called for cancelled entities.
	Complete()
}

// SinkFunc adapts a render function to Sink. Complete is a no-op.
type SinkFunc func(Frame) error

// Render calls f.
func (f SinkFunc) Render(fr Frame) error { return f(fr) }

// Complete does nothing.
func (SinkFunc) Complete() {}

type slot struct {
	entity    Entity
	sink      Sink
	cancelled bool
}

// Scheduler drives registered entities through their lifecycle. Hosts call
// Step once per frame. All methods must run on the frame pump goroutine.
type Scheduler struct {
	planner Planner
	slots   map[EntityID]*slot
	order   []EntityID
	nextID  EntityID
}

// NewScheduler creates a scheduler. planner supplies new plans to looping
// entities at each loop boundary and may be nil.
func NewScheduler(planner Planner) *Scheduler {
	return &Scheduler{
		planner: planner,
		slots:   make(map[EntityID]*slot),
	}
}

// Add registers e with its sink and returns the assigned ID. The entity may
// start once now+e.Delay has passed.
func (s *Scheduler) Add(now time.Duration, e Entity, sink Sink) EntityID {
	s.nextID++
	e.ID = s.nextID
	e.State = StatePending
	e.NotBefore = now + e.Delay
	s.slots[e.ID] = &slot{entity: e, sink: sink}
	s.order = append(s.order, e.ID)
	return e.ID
}

// Cancel stops an entity. No further frames are rendered and Complete is
// never called. Safe to call from inside a Sink. Returns false if the entity
// was not registered.
func (s *Scheduler) Cancel(id EntityID) bool {
	sl, ok := s.slots[id]
	if !ok {
		return false
	}
	sl.cancelled = true
	sl.entity.State = StateCancelled
	delete(s.slots, id)
	return true
}

// Has reports whether id is still scheduled.
func (s *Scheduler) Has(id EntityID) bool {
	_, ok := s.slots[id]
	return ok
}

// Entity returns a copy of the scheduled entity.
func (s *Scheduler) Entity(id EntityID) (Entity, bool) {
	sl, ok := s.slots[id]
	if !ok {
		return Entity{}, false
	}
	return sl.entity, true
}

// Len returns the number of scheduled entities.
func (s *Scheduler) Len() int { return len(s.slots) }

// Step ticks every scheduled entity at timestamp now, in registration order,
// and returns the number of frames rendered. Entities added during Step are
// first ticked on the next call.
func (s *Scheduler) Step(now time.Duration) int {
	order := s.order
	n := len(order)
	kept := order[:0]
	rendered := 0

	for i := 0; i < n; i++ {
		id := order[i]
		sl, ok := s.slots[id]
		if !ok || sl.cancelled {
			continue
		}

		next, frame, step := Tick(sl.entity, now, s.planner)
		sl.entity = next

		switch step {
		case StepWait:
		case StepContinue, StepLoop:
			rendered++
			if err := sl.sink.Render(frame); err != nil {
				s.drop(id, err)
				continue
			}
		case StepComplete:
			rendered++
			if err := sl.sink.Render(frame); err != nil {
				s.drop(id, err)
				continue
			}
			// The sink may have cancelled the entity while rendering.
			if sl.cancelled {
				continue
			}
			delete(s.slots, id)
			sl.sink.Complete()
			continue
		case StepHalted:
			delete(s.slots, id)
			continue
		}

		if sl.cancelled {
			continue
		}
		kept = append(kept, id)
	}

	s.order = append(kept, s.order[n:]...)
	return rendered
}

func (s *Scheduler) drop(id EntityID, err error) {
	if !s.Cancel(id) {
		return
	}
	log := Logger()
	if errors.Is(err, ErrTargetGone) {
		log.Debug().Uint32("entity", uint32(id)).Msg("render target gone, entity cancelled")
		return
	}
	log.Warn().Err(err).Uint32("entity", uint32(id)).Msg("render failed, entity cancelled")
}
