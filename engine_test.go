package hanami

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEngineConfig() *Config {
	cfg := DefaultConfig()
	cfg.Seed = 21
	cfg.Spawn.PerKind[KindPetal] = fixedKind(4, 1000)
	cfg.Spawn.PerKind[KindFlower] = fixedKind(2, 2000)
	return cfg
}

func TestEngineAdvanceSpawnsAndRenders(t *testing.T) {
	stage := &fakeStage{}
	e := NewEngine(testEngineConfig(), stage, FixedViewport{Width: 640, Height: 480})
	e.Start()

	rendered := e.Advance(0)
	assert.Equal(t, 6, rendered)
	assert.Equal(t, 6, e.Live())
	require.Len(t, e.Spawner.Batches(), 2)

	for now := 100 * time.Millisecond; now <= 2500*time.Millisecond; now += 100 * time.Millisecond {
		e.Advance(now)
	}
	assert.Zero(t, e.Live())
	assert.Zero(t, stage.live())
	assert.Equal(t, 6, e.Spawner.Stats().Completed)
}

func TestEngineStopTearsDown(t *testing.T) {
	stage := &fakeStage{}
	e := NewEngine(testEngineConfig(), stage, FixedViewport{Width: 640, Height: 480})
	e.Start()
	e.Advance(0)

	e.Stop()
	assert.False(t, e.Spawner.Running())
	assert.Zero(t, e.Live())
	assert.Zero(t, stage.live())
}

func TestEngineSeedIsRepeatable(t *testing.T) {
	plans := func() []FlightPlan {
		e := NewEngine(testEngineConfig(), &fakeStage{}, FixedViewport{Width: 640, Height: 480})
		b := e.Spawner.SpawnBatch(0, KindPetal, 3)
		var out []FlightPlan
		for _, id := range b.Entities {
			ent, _ := e.Scheduler.Entity(id)
			out = append(out, ent.Plan)
		}
		return out
	}
	assert.Equal(t, plans(), plans())
}

func TestEngineNilConfigUsesDefaults(t *testing.T) {
	e := NewEngine(nil, &fakeStage{}, FixedViewport{Width: 100, Height: 100})
	assert.Equal(t, DefaultWidth, e.Config.Window.Width)
	assert.NotNil(t, e.Sampler)
}

func TestEngineLoopingPreset(t *testing.T) {
	cfg := PresetConfig("looping")
	require.NotNil(t, cfg)
	cfg.Seed = 5
	stage := &fakeStage{}
	e := NewEngine(cfg, stage, FixedViewport{Width: 800, Height: 600})
	e.Start()

	for now := time.Duration(0); now <= 60*time.Second; now += 250 * time.Millisecond {
		e.Advance(now)
	}
	require.Len(t, e.Spawner.Batches(), 2)
	assert.Equal(t, 35, e.Live())
	assert.Equal(t, e.Live(), stage.live())
	for _, s := range stage.created {
		assert.Zero(t, s.completed)
	}
}
