package term

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/phanxgames/hanami"
)

// Rows reserved below the grid for the haiku and the status line.
const reservedRows = len(hanami.HaikuPattern) + 1

type tickMsg time.Time

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Model is the bubbletea model driving an engine on a Canvas.
type Model struct {
	Canvas *Canvas
	Engine *hanami.Engine

	haiku  *hanami.HaikuLoop
	clock  hanami.ManualClock
	frame  time.Duration
	paused bool
}

// New builds a model for cfg. A nil cfg uses the defaults. The grid starts
// at 80x24 and follows the terminal size.
func New(cfg *hanami.Config) *Model {
	if cfg == nil {
		cfg = hanami.DefaultConfig()
	}
	fps := cfg.Window.FPS
	if fps <= 0 {
		fps = hanami.DefaultFPS
	}
	c := NewCanvas(80, 24-reservedRows)
	ecfg := *cfg
	ecfg.Path = cellBands(cfg.Path, c.cols, c.rows, cfg.Window)
	m := &Model{
		Canvas: c,
		Engine: hanami.NewEngine(&ecfg, c, c),
		frame:  time.Second / time.Duration(fps),
	}
	if cfg.Haiku.Enabled {
		composer := hanami.NewComposer(hanami.DefaultWords(), m.Engine.Sampler)
		m.haiku = hanami.NewHaikuLoop(m.Engine.Scheduler, composer, c, cfg.Haiku)
	}
	return m
}

// cellBands rescales the pixel offsets of b to a cols x rows grid, taking
// win as the pixel space the offsets were tuned for.
func cellBands(b hanami.PathBands, cols, rows int, win hanami.WindowConfig) hanami.PathBands {
	w, h := win.Width, win.Height
	if w <= 0 || h <= 0 {
		w, h = hanami.DefaultWidth, hanami.DefaultHeight
	}
	sx := float64(cols) / float64(w)
	sy := float64(rows) / float64(h)
	b.StartX *= sx
	b.ThirdPad *= sx
	b.Overhang *= sx
	b.StartY *= sy
	return b
}

// Init starts spawning and the frame ticker.
func (m *Model) Init() tea.Cmd {
	m.Engine.Start()
	return tick(m.frame)
}

// Update handles keys, resizes and frame ticks.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.Engine.Stop()
			return m, tea.Quit
		case " ", "p":
			m.paused = !m.paused
		case "s":
			m.Engine.Spawner.SpawnBatch(m.clock.Now(), hanami.KindPetal, 0)
		case "f":
			m.Engine.Spawner.SpawnBatch(m.clock.Now(), hanami.KindFlower, 0)
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.Canvas.Resize(msg.Width, msg.Height-reservedRows)
		return m, nil
	case tickMsg:
		if !m.paused {
			m.advance()
		}
		return m, tick(m.frame)
	}
	return m, nil
}

func (m *Model) advance() {
	now := m.clock.Advance(m.frame)
	if m.haiku != nil {
		m.haiku.Update(now)
	}
	m.Engine.Advance(now)
}

// View renders the canvas and a status line.
func (m *Model) View() string {
	status := fmt.Sprintf("live %d  batches %d  t %.1fs", m.Engine.Live(), len(m.Engine.Spawner.Batches()), m.clock.Now().Seconds())
	if m.paused {
		status += "  paused"
	}
	return m.Canvas.Render() + dim.Render(status+"  [s]petals [f]lowers [p]ause [q]uit")
}

// Run shows the animation full screen until the user quits.
func Run(cfg *hanami.Config) error {
	_, err := tea.NewProgram(New(cfg), tea.WithAltScreen()).Run()
	return err
}
