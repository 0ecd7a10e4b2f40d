// Package hanami is an ambient petal animation engine for [Ebitengine].
//
// Petals and flowers spawn in batches, fly along randomized cubic Bezier
// paths across the viewport, spin as they travel and are removed when they
// land or when their batch's lifetime ends. A haiku overlay reveals 5/7/5
// lines with a typewriter effect driven by the same scheduler.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	scene := hanami.NewScene(hanami.DefaultConfig())
//	scene.Start()
//	hanami.Run(scene, hanami.RunConfig{
//		Title: "hanami", Width: 1280, Height: 720,
//	})
//
// # Engine
//
// The animation core does not depend on a window. The curve model
// ([Cubic], [Path]) feeds a [PathGenerator] that turns a [Viewport] into a
// [FlightPlan]. A [Scheduler] ticks [Entity] values through their lifecycle
// with the pure [Tick] function and hands each [Frame] to a [Sink]. A
// [Spawner] creates batches of entities bound to elements of a [Stage] and
// tears them down on a deadline. [Engine] wires them together; hosts call
// [Engine.Advance] once per frame with a timestamp from a [Clock].
//
// Any host can be a Stage: the window [Scene], the terminal renderer in
// hanami/term and the websocket bridge in hanami/wsbridge all implement it.
//
//	eng := hanami.NewEngine(cfg, stage, hanami.FixedViewport{Width: 800, Height: 600})
//	eng.Start()
//	clock := &hanami.ManualClock{}
//	for {
//		eng.Advance(clock.Advance(16 * time.Millisecond))
//	}
//
// # Randomness
//
// Every random draw goes through a [Sampler]. [NewSeededSampler] makes runs
// repeatable for tests and debugging; setting [Config.Seed] does the same for
// a whole engine.
//
// # Logging
//
// hanami is silent by default. Call [SetLogger] with a zerolog logger to see
// batch lifecycle, cancelled entities and frame stats.
//
// [Ebitengine]: https://ebitengine.org
package hanami
