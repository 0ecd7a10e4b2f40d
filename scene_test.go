package hanami

import (
	"math"
	"testing"
	"time"
)

func TestNewScene(t *testing.T) {
	s := NewScene(nil)
	if s.Root() == nil {
		t.Fatal("Root() should not be nil")
	}
	if s.Engine() == nil {
		t.Fatal("Engine() should not be nil")
	}
	w, h := s.Size()
	if w != DefaultWidth || h != DefaultHeight {
		t.Errorf("Size = (%v, %v), want (%d, %d)", w, h, DefaultWidth, DefaultHeight)
	}
	if s.haiku == nil {
		t.Error("default config should enable the haiku overlay")
	}
}

func TestSceneRoot(t *testing.T) {
	s := testScene()
	if s.Root().Type != NodeTypeContainer {
		t.Errorf("root Type = %d, want container", s.Root().Type)
	}
	if s.Root().NumChildren() != 2 {
		t.Errorf("root children = %d, want entity layer and overlay", s.Root().NumChildren())
	}
}

func TestSceneResize(t *testing.T) {
	s := testScene()
	s.Resize(400, 300)
	if r := s.Bounds(); r.Width != 400 || r.Height != 300 {
		t.Errorf("Bounds = %+v, want 400x300", r)
	}
	s.Resize(0, 100)
	if w, _ := s.Size(); w != 400 {
		t.Errorf("Resize(0, ...) should be ignored, width = %v", w)
	}
}

func TestSceneCreateHidesUntilFirstFrame(t *testing.T) {
	s := testScene()
	sink, err := s.Create(KindPetal)
	if err != nil {
		t.Fatal(err)
	}
	ns := sink.(*NodeSink)
	n := ns.Node
	if n.Visible || n.Alpha != 0 {
		t.Errorf("new element should be hidden, Visible=%v Alpha=%v", n.Visible, n.Alpha)
	}
	if n.Parent != s.layer {
		t.Error("element should live in the entity layer")
	}
	if n.PivotX != textureSize/2 || n.PivotY != textureSize/2 {
		t.Errorf("pivot = (%v, %v), want texture center", n.PivotX, n.PivotY)
	}

	if err := sink.Render(Frame{X: 10, Y: 20}); err != nil {
		t.Fatal(err)
	}
	if !n.Visible {
		t.Error("element should show on first frame")
	}
	if len(s.tweens) != 1 {
		t.Errorf("tweens = %d, want a fade-in", len(s.tweens))
	}
}

func TestSceneCreateScalesByKind(t *testing.T) {
	s := testScene()
	petal, _ := s.Create(KindPetal)
	flower, _ := s.Create(KindFlower)
	ps := petal.(*NodeSink).Node.ScaleX
	fs := flower.(*NodeSink).Node.ScaleX
	if fs <= ps {
		t.Errorf("flower scale %v should exceed petal scale %v", fs, ps)
	}
}

func TestSceneRemoveDisposes(t *testing.T) {
	s := testScene()
	sink, _ := s.Create(KindFlower)
	s.Remove(sink)
	if !sink.(*NodeSink).Node.IsDisposed() {
		t.Error("Remove should dispose the node")
	}
	if s.layer.NumChildren() != 0 {
		t.Errorf("layer children = %d, want 0", s.layer.NumChildren())
	}
}

func TestSceneRemoveFadesVisibleElement(t *testing.T) {
	s := testScene()
	sink, _ := s.Create(KindPetal)
	n := sink.(*NodeSink).Node
	if err := sink.Render(Frame{X: 40, Y: 40}); err != nil {
		t.Fatal(err)
	}

	s.Remove(sink)
	s.Remove(sink)
	if n.IsDisposed() {
		t.Fatal("visible element should fade out before disposal")
	}
	if len(s.tweens) != 2 {
		t.Errorf("tweens = %d, want fade-in and one fade-out", len(s.tweens))
	}

	s.tweens.update(float32(fadeOutSeconds) / 2)
	if n.Color.A <= 0 || n.Color.A >= 1 {
		t.Errorf("Color.A = %v mid fade-out, want in (0, 1)", n.Color.A)
	}
	s.tweens.update(float32(fadeOutSeconds))
	if !n.IsDisposed() {
		t.Error("element should be disposed after the fade-out")
	}
	if s.layer.NumChildren() != 0 || len(s.leaving) != 0 {
		t.Errorf("layer children = %d, leaving = %d, want 0", s.layer.NumChildren(), len(s.leaving))
	}
}

func TestSceneFlowerBlooms(t *testing.T) {
	s := testScene()
	sink, _ := s.Create(KindFlower)
	n := sink.(*NodeSink).Node
	full := n.ScaleX
	_ = sink.Render(Frame{})

	if math.Abs(n.ScaleX-full*bloomFrom) > 1e-9 {
		t.Errorf("ScaleX = %v on first frame, want %v", n.ScaleX, full*bloomFrom)
	}
	s.tweens.update(float32(bloomSeconds))
	if math.Abs(n.ScaleX-full) > 1e-4 || math.Abs(n.ScaleY-full) > 1e-4 {
		t.Errorf("Scale = (%v, %v) after bloom, want %v", n.ScaleX, n.ScaleY, full)
	}
}

func TestScenePetalDoesNotBloom(t *testing.T) {
	s := testScene()
	sink, _ := s.Create(KindPetal)
	n := sink.(*NodeSink).Node
	full := n.ScaleX
	_ = sink.Render(Frame{})
	if n.ScaleX != full {
		t.Errorf("ScaleX = %v, petals keep their size", n.ScaleX)
	}
}

func TestSceneSetDebugMode(t *testing.T) {
	s := testScene()
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)
	if s.stats == nil {
		t.Fatal("stats widget should exist in debug mode")
	}
	if s.stats.node.Parent != s.overlay {
		t.Error("stats widget should be in the overlay")
	}
	s.SetDebugMode(false)
	if s.stats != nil {
		t.Error("stats widget should be removed")
	}
	if globalDebug {
		t.Error("globalDebug should follow the scene flag")
	}
}

func TestSceneSetLine(t *testing.T) {
	s := testScene()
	s.SetLine(1, "petals drift")
	s.SetLine(9, "ignored")
	if got := s.haikuLines[1].Text; got != "petals drift" {
		t.Errorf("line 1 = %q", got)
	}
}

func TestSceneUpdateAdvancesClock(t *testing.T) {
	s := testScene()
	s.Update()
	s.Update()
	if s.Now() <= 0 {
		t.Errorf("Now = %v, want > 0", s.Now())
	}
}

func TestSceneUpdateFollowsScript(t *testing.T) {
	s := testScene()
	sc, err := LoadScript([]byte(`{"steps": [
		{"action": "spawn", "kind": "petal", "count": 2},
		{"action": "advance", "ms": 500, "frames": 5}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	r := s.SetScript(sc)
	for i := 0; i < 6; i++ {
		s.Update()
	}
	if !r.Done() {
		t.Fatal("script should be done after six frames")
	}
	if s.Now() != 500*time.Millisecond {
		t.Errorf("Now = %v, want 500ms", s.Now())
	}
	if got := r.Report().Spawned; got != 2 {
		t.Errorf("Spawned = %d, want 2", got)
	}
}

func TestSceneHaikuRevealsLines(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 3
	s := NewScene(cfg)
	for i := 0; i < 240; i++ {
		s.Update()
	}
	if s.haikuLines[0].Text == "" {
		t.Error("first haiku line should be revealed after four seconds")
	}
}
