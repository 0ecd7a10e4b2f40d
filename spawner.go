package hanami

import "time"

// Stage creates and removes the visual elements entities drive.
type Stage interface {
	// Create makes a new element of the given kind and returns its sink.
	Create(kind Kind) (Sink, error)
	// Remove destroys an element. Removing twice must be harmless.
	Remove(sink Sink)
}

// BatchID identifies a batch within one Spawner.
type BatchID uint32

// Batch is a group of entities spawned together and torn down together.
type Batch struct {
	ID        BatchID
	Kind      Kind
	Entities  []EntityID
	SpawnedAt time.Duration
	// Deadline is when the batch is torn down regardless of progress.
	// Zero means no deadline.
	Deadline time.Duration

	sinks []Sink
}

// SpawnStats counts spawner activity since creation.
type SpawnStats struct {
	Batches   int // batches spawned
	Spawned   int // entities spawned
	Completed int // entities that rendered their final frame
	Removed   int // elements removed by teardown or retirement
	Failed    int // elements the stage could not create
}

// Spawner creates batches of entities, each bound to an element from the
// stage, and retires them on deadline or completion.
type Spawner struct {
	cfg     SpawnConfig
	sched   *Scheduler
	planner Planner
	stage   Stage
	rng     *Sampler

	batches   []*Batch
	byEntity  map[EntityID]*Batch
	nextBatch BatchID
	stats     SpawnStats

	running   bool
	interval  time.Duration
	kinds     []Kind
	lastSpawn time.Duration
	spawned   bool
}

// NewSpawner wires a spawner to its collaborators. A nil rng uses the
// process-wide generator.
func NewSpawner(cfg SpawnConfig, sched *Scheduler, planner Planner, stage Stage, rng *Sampler) *Spawner {
	if rng == nil {
		rng = NewSampler(nil)
	}
	return &Spawner{
		cfg:      cfg,
		sched:    sched,
		planner:  planner,
		stage:    stage,
		rng:      rng,
		byEntity: make(map[EntityID]*Batch),
	}
}

// trackedSink counts completions on the way to the stage's sink.
type trackedSink struct {
	Sink
	sp *Spawner
}

func (t trackedSink) Complete() {
	t.sp.stats.Completed++
	t.Sink.Complete()
}

// SpawnBatch spawns count entities of kind at time now. A count of zero or
// less draws the count from the kind's configured range. When MaxBatches is
// reached, the oldest batch is torn down first. Elements the stage fails to
// create are skipped.
func (sp *Spawner) SpawnBatch(now time.Duration, kind Kind, count int) *Batch {
	kc := sp.cfg.Kind(kind)
	if count <= 0 {
		count = kc.Count.Sample(sp.rng)
	}
	for sp.cfg.MaxBatches > 0 && len(sp.batches) >= sp.cfg.MaxBatches {
		sp.Teardown(sp.batches[0].ID)
	}

	sp.nextBatch++
	b := &Batch{
		ID:        sp.nextBatch,
		Kind:      kind,
		SpawnedAt: now,
		Entities:  make([]EntityID, 0, count),
		sinks:     make([]Sink, 0, count),
	}
	if lt := sp.cfg.Lifetime(); lt > 0 {
		b.Deadline = now + lt
	}

	log := Logger()
	for i := 0; i < count; i++ {
		sink, err := sp.stage.Create(kind)
		if err != nil {
			sp.stats.Failed++
			log.Warn().Err(err).Str("kind", string(kind)).Msg("element creation failed")
			continue
		}
		e := Entity{
			Kind:     kind,
			Plan:     sp.planner.Plan(),
			Duration: ms(kc.DurationMs.Sample(sp.rng)),
			Delay:    ms(kc.StaggerMs.Sample(sp.rng)),
			Entry:    ms(kc.EntryMs.Sample(sp.rng)),
			Loop:     kc.Loop,
		}
		id := sp.sched.Add(now, e, trackedSink{Sink: sink, sp: sp})
		b.Entities = append(b.Entities, id)
		b.sinks = append(b.sinks, sink)
		sp.byEntity[id] = b
	}

	sp.batches = append(sp.batches, b)
	sp.stats.Batches++
	sp.stats.Spawned += len(b.Entities)
	log.Debug().
		Uint32("batch", uint32(b.ID)).
		Str("kind", string(kind)).
		Int("entities", len(b.Entities)).
		Msg("batch spawned")
	return b
}

// Teardown cancels every entity of the batch and removes every element,
// whether or not the entity finished. Returns false for unknown batches.
func (sp *Spawner) Teardown(id BatchID) bool {
	idx := sp.indexOf(id)
	if idx < 0 {
		return false
	}
	b := sp.batches[idx]
	sp.release(b, true)
	sp.batches = append(sp.batches[:idx], sp.batches[idx+1:]...)
	Logger().Debug().Uint32("batch", uint32(id)).Msg("batch torn down")
	return true
}

// TeardownAll tears down every live batch.
func (sp *Spawner) TeardownAll() {
	for len(sp.batches) > 0 {
		sp.Teardown(sp.batches[0].ID)
	}
}

// Update runs deadline teardown, early retirement of finished batches and
// continuous spawning. Call it once per frame before Scheduler.Step.
func (sp *Spawner) Update(now time.Duration) {
	live := sp.batches[:0]
	for _, b := range sp.batches {
		switch {
		case b.Deadline > 0 && now >= b.Deadline:
			sp.release(b, true)
			Logger().Debug().Uint32("batch", uint32(b.ID)).Msg("batch deadline reached")
		case sp.finished(b):
			sp.release(b, false)
			Logger().Debug().Uint32("batch", uint32(b.ID)).Msg("batch retired")
		default:
			live = append(live, b)
		}
	}
	for i := len(live); i < len(sp.batches); i++ {
		sp.batches[i] = nil
	}
	sp.batches = live

	if !sp.running {
		return
	}
	if sp.spawned && (sp.interval <= 0 || now-sp.lastSpawn < sp.interval) {
		return
	}
	for _, kind := range sp.kinds {
		sp.SpawnBatch(now, kind, 0)
	}
	sp.lastSpawn = now
	sp.spawned = true
}

// RunContinuously makes Update spawn one batch per kind every interval,
// starting with the next Update. An interval of zero spawns a single round.
func (sp *Spawner) RunContinuously(interval time.Duration, kinds ...Kind) {
	sp.running = true
	sp.spawned = false
	sp.interval = interval
	sp.kinds = append(sp.kinds[:0], kinds...)
}

// Stop halts continuous spawning. Live batches keep running until their
// deadline.
func (sp *Spawner) Stop() { sp.running = false }

// Running reports whether continuous spawning is active.
func (sp *Spawner) Running() bool { return sp.running }

// Batches returns the live batches, oldest first.
func (sp *Spawner) Batches() []Batch {
	out := make([]Batch, len(sp.batches))
	for i, b := range sp.batches {
		out[i] = *b
		out[i].Entities = append([]EntityID(nil), b.Entities...)
		out[i].sinks = nil
	}
	return out
}

// BatchOf returns the batch owning an entity.
func (sp *Spawner) BatchOf(id EntityID) (BatchID, bool) {
	b, ok := sp.byEntity[id]
	if !ok {
		return 0, false
	}
	return b.ID, true
}

// Stats returns activity counters.
func (sp *Spawner) Stats() SpawnStats { return sp.stats }

func (sp *Spawner) indexOf(id BatchID) int {
	for i, b := range sp.batches {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func (sp *Spawner) finished(b *Batch) bool {
	for _, id := range b.Entities {
		if sp.sched.Has(id) {
			return false
		}
	}
	return true
}

// release cancels the batch's entities when cancel is set and removes all of
// its elements from the stage.
func (sp *Spawner) release(b *Batch, cancel bool) {
	for _, id := range b.Entities {
		if cancel {
			sp.sched.Cancel(id)
		}
		delete(sp.byEntity, id)
	}
	for _, sink := range b.sinks {
		sp.stage.Remove(sink)
	}
	sp.stats.Removed += len(b.sinks)
}
