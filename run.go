package hanami

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// RunConfig holds window settings for Run.
type RunConfig struct {
	Title  string
	Width  int
	Height int
	FPS    int
}

// Run opens a window and drives scene until the window closes or Escape is
// pressed. S saves a screenshot, D toggles debug mode.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = DefaultWidth, DefaultHeight
	}
	if cfg.FPS > 0 {
		ebiten.SetTPS(cfg.FPS)
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	Logger().Info().Int("width", cfg.Width).Int("height", cfg.Height).Msg("window opened")
	err := ebiten.RunGame(&game{scene: scene})
	if errors.Is(err, ebiten.Termination) {
		err = nil
	}
	Logger().Info().Msg("window closed")
	return err
}

type game struct {
	scene *Scene
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.scene.Screenshot("manual")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		g.scene.SetDebugMode(!g.scene.debug)
	}
	g.scene.Update()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) { g.scene.Draw(screen) }

func (g *game) Layout(w, h int) (int, int) {
	g.scene.Resize(w, h)
	return w, h
}
