package hanami

import "time"

// Engine bundles the sampler, path generator, scheduler and spawner for one
// stage. Hosts drive it by calling Advance once per frame.
type Engine struct {
	Config    *Config
	Sampler   *Sampler
	Paths     *PathGenerator
	Scheduler *Scheduler
	Spawner   *Spawner
}

// NewEngine wires an engine for stage over viewport vp. A nil cfg uses
// DefaultConfig. A non-zero cfg.Seed makes the engine's randomness repeatable.
func NewEngine(cfg *Config, stage Stage, vp Viewport) *Engine {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	var rng *Sampler
	if cfg.Seed != 0 {
		rng = NewSeededSampler(cfg.Seed)
	} else {
		rng = NewSampler(nil)
	}
	paths := NewPathGenerator(vp, cfg.Path, rng)
	sched := NewScheduler(paths)
	return &Engine{
		Config:    cfg,
		Sampler:   rng,
		Paths:     paths,
		Scheduler: sched,
		Spawner:   NewSpawner(cfg.Spawn, sched, paths, stage, rng),
	}
}

// Start begins continuous spawning with the configured interval and kinds.
func (e *Engine) Start() {
	e.Spawner.RunContinuously(e.Config.Spawn.Interval(), e.Config.Spawn.Kinds...)
}

// Stop halts spawning and tears down every live batch.
func (e *Engine) Stop() {
	e.Spawner.Stop()
	e.Spawner.TeardownAll()
}

// Advance runs one frame at timestamp now and returns the number of frames
// rendered.
func (e *Engine) Advance(now time.Duration) int {
	e.Spawner.Update(now)
	return e.Scheduler.Step(now)
}

// Live returns the number of scheduled entities.
func (e *Engine) Live() int { return e.Scheduler.Len() }
