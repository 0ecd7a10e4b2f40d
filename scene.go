package hanami

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/tanema/gween/ease"
	"golang.org/x/image/font/basicfont"
)

const (
	defaultCommandCap = 256
	fadeInSeconds     = 0.6
	fadeOutSeconds    = 0.4
	bloomSeconds      = 0.8
	bloomFrom         = 0.4
	haikuScale        = 2
	haikuMargin       = 24
)

// Size bands per kind, as fractions of the viewport height.
var kindSize = map[Kind]Range{
	KindPetal:  {Min: 0.02, Max: 0.0265},
	KindFlower: {Min: 0.035, Max: 0.05},
}

// Scene is the window host: it owns the node tree, the engine driving it and
// the haiku overlay. Scene implements Stage and Viewport for its engine.
type Scene struct {
	root    *Node
	layer   *Node
	overlay *Node

	cfg     *Config
	engine  *Engine
	clock   ManualClock
	sprites *SpriteSet
	tweens  tweenSet
	leaving map[*Node]bool

	width, height float64

	haiku      *HaikuLoop
	haikuLines [3]*Node

	script *ScriptRunner

	// ScreenshotDir is where Screenshot writes PNG files.
	ScreenshotDir   string
	screenshotQueue []string

	debug    bool
	stats    *statsWidget
	commands []drawCommand
}

// NewScene creates a scene for cfg. A nil cfg uses DefaultConfig.
func NewScene(cfg *Config) *Scene {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	root := NewContainer("root")
	layer := NewContainer("entities")
	overlay := NewContainer("overlay")
	overlay.ZIndex = 1
	root.AddChild(layer)
	root.AddChild(overlay)

	s := &Scene{
		root:          root,
		layer:         layer,
		overlay:       overlay,
		cfg:           cfg,
		sprites:       NewSpriteSet(),
		leaving:       make(map[*Node]bool),
		width:         float64(cfg.Window.Width),
		height:        float64(cfg.Window.Height),
		ScreenshotDir: "screenshots",
		commands:      make([]drawCommand, 0, defaultCommandCap),
	}
	s.engine = NewEngine(cfg, s, s)
	if cfg.Haiku.Enabled {
		s.haiku = NewHaikuLoop(s.engine.Scheduler, NewComposer(DefaultWords(), s.engine.Sampler), s, cfg.Haiku)
	}

	face := text.NewGoXFace(basicfont.Face7x13)
	for i := range s.haikuLines {
		n := NewText("haiku", "", face)
		n.SetScale(haikuScale, haikuScale)
		n.Color = Color{R: 0.35, G: 0.2, B: 0.3, A: 1}
		overlay.AddChild(n)
		s.haikuLines[i] = n
	}
	s.layoutHaiku()
	s.SetDebugMode(cfg.Debug)
	return s
}

// Root returns the scene's root container node.
func (s *Scene) Root() *Node { return s.root }

// Engine returns the engine driving the scene.
func (s *Scene) Engine() *Engine { return s.engine }

// Now returns the scene clock.
func (s *Scene) Now() time.Duration { return s.clock.Now() }

// Size implements Viewport.
func (s *Scene) Size() (float64, float64) { return s.width, s.height }

// Bounds returns the viewport as a rectangle at the origin.
func (s *Scene) Bounds() Rect { return Rect{Width: s.width, Height: s.height} }

// Resize changes the viewport. Entities already flying keep their paths.
func (s *Scene) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	s.width, s.height = float64(w), float64(h)
	s.layoutHaiku()
}

// Start begins continuous spawning.
func (s *Scene) Start() {
	s.engine.Start()
}

// SetScript makes the scene follow a scenario script instead of its own
// clock until the script is done.
func (s *Scene) SetScript(sc *Script) *ScriptRunner {
	s.script = NewScriptRunner(sc, s.engine, &s.clock)
	s.script.OnScreenshot = s.Screenshot
	return s.script
}

// Create implements Stage. The sprite stays hidden until its first frame,
// then fades in.
func (s *Scene) Create(kind Kind) (Sink, error) {
	rng := s.engine.Sampler
	n := NewSprite(string(kind), s.sprites.Variant(kind, rng.IntN(s.sprites.Variants(kind))))
	n.Kind = kind

	band, ok := kindSize[kind]
	if !ok {
		band = kindSize[KindPetal]
	}
	scale := s.height * band.Sample(rng) / textureSize
	n.SetScale(scale, scale)
	n.SetPivot(textureSize/2, textureSize/2)
	n.ZIndex = rng.IntN(10)
	n.Alpha = 0
	n.Visible = false

	s.layer.AddChild(n)
	return &NodeSink{Node: n, OnShow: s.fadeIn}, nil
}

// Remove implements Stage. Elements that never showed are disposed at once;
// visible ones fade out first.
func (s *Scene) Remove(sink Sink) {
	ns, ok := sink.(*NodeSink)
	if !ok || ns.Node == nil || ns.Node.IsDisposed() {
		return
	}
	n := ns.Node
	if !n.Visible {
		n.Dispose()
		return
	}
	if s.leaving[n] {
		return
	}
	s.leaving[n] = true
	to := n.Color
	to.A = 0
	g := TweenColor(n, to, fadeOutSeconds, ease.InQuad)
	g.OnDone = func() {
		delete(s.leaving, n)
		n.Dispose()
	}
	s.tweens.add(g)
}

// fadeIn runs when an element shows its first frame. Flowers also bloom from
// a smaller scale.
func (s *Scene) fadeIn(n *Node) {
	s.tweens.add(TweenAlpha(n, 1, fadeInSeconds, ease.OutQuad))
	if n.Kind == KindFlower {
		sx, sy := n.ScaleX, n.ScaleY
		n.SetScale(sx*bloomFrom, sy*bloomFrom)
		s.tweens.add(TweenScale(n, sx, sy, bloomSeconds, ease.OutBack))
	}
}

// Update advances the scene by one tick of 1/TPS seconds.
func (s *Scene) Update() {
	dt := 1.0 / float64(ebiten.TPS())
	if s.script != nil && !s.script.Done() {
		s.script.Step()
	} else {
		s.engine.Advance(s.clock.Advance(time.Duration(dt * float64(time.Second))))
	}
	if s.haiku != nil {
		s.haiku.Update(s.clock.Now())
	}
	s.tweens.update(float32(dt))
	if s.stats != nil {
		s.stats.update(dt, s)
	}
}

// Draw renders the scene to screen.
func (s *Scene) Draw(screen *ebiten.Image) {
	screen.Fill(s.cfg.Window.Background.RGBA())

	var stats debugStats
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	s.commands = s.commands[:0]
	s.traverse(s.root, identityTransform, 1, false)

	if s.debug {
		stats.traverseTime = time.Since(t0)
		t0 = time.Now()
	}

	s.submit(screen)

	if s.debug {
		stats.submitTime = time.Since(t0)
		stats.commandCount = len(s.commands)
		stats.entities = s.engine.Live()
		stats.batches = len(s.engine.Spawner.batches)
		s.debugLog(stats)
	}

	s.flushScreenshots(screen)
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, child count warnings are logged, per-frame stats are logged
// at debug level and a stats widget is drawn.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
	switch {
	case enabled && s.stats == nil:
		s.stats = newStatsWidget()
		s.overlay.AddChild(s.stats.node)
	case !enabled && s.stats != nil:
		s.stats.node.Dispose()
		s.stats = nil
	}
}

// globalDebug mirrors the most recently set Scene debug flag so that node
// operations (which lack a Scene pointer) can check it cheaply.
var globalDebug bool

// --- Haiku overlay ---

// SetLine implements TextSink for the haiku overlay.
func (s *Scene) SetLine(index int, text string) {
	if index >= 0 && index < len(s.haikuLines) {
		s.haikuLines[index].Text = text
	}
}

func (s *Scene) layoutHaiku() {
	lineHeight := float64(basicfont.Face7x13.Height) * haikuScale * 1.4
	for i, n := range s.haikuLines {
		n.SetPosition(haikuMargin, s.height-haikuMargin-float64(len(s.haikuLines)-i)*lineHeight)
	}
}
