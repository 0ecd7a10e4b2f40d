package hanami

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// statsWidget is a sprite showing FPS, TPS and scene counters, redrawn every
// ~0.5 seconds with ebitenutil.DebugPrint.
type statsWidget struct {
	node    *Node
	img     *ebiten.Image
	elapsed float64
}

func newStatsWidget() *statsWidget {
	// 140x64 fits four lines of debug text.
	img := ebiten.NewImage(140, 64)
	node := NewSprite("stats", img)
	node.SetPosition(4, 4)
	return &statsWidget{node: node, img: img, elapsed: 0.5}
}

func (w *statsWidget) update(dt float64, s *Scene) {
	w.elapsed += dt
	if w.elapsed < 0.5 {
		return
	}
	w.elapsed = 0

	w.img.Clear()
	// Semi-transparent background for readability
	w.img.Fill(color.RGBA{0, 0, 0, 128})
	st := s.engine.Spawner.Stats()
	ebitenutil.DebugPrint(w.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nLive: %d\nDone: %d",
		ebiten.ActualFPS(), ebiten.ActualTPS(), s.engine.Live(), st.Completed))
}
