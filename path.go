package hanami

// Viewport reports the current drawable size. It is queried on every plan
// generation and never cached.
type Viewport interface {
	Size() (width, height float64)
}

// ViewportFunc adapts a function to Viewport.
type ViewportFunc func() (width, height float64)

// Size calls f.
func (f ViewportFunc) Size() (float64, float64) { return f() }

// FixedViewport is a Viewport with constant dimensions.
type FixedViewport struct {
	Width, Height float64
}

// Size returns the fixed dimensions.
func (v FixedViewport) Size() (float64, float64) { return v.Width, v.Height }

// FlightPlan is everything an entity needs to travel: its spatial path, the
// timing curve remapping elapsed time to path progress, and the rotation curve.
type FlightPlan struct {
	Path     Path
	Timing   Cubic
	Rotation Cubic
}

// Planner produces fresh flight plans. Looping entities ask for a new plan at
// every loop boundary.
type Planner interface {
	Plan() FlightPlan
}

// PathBands holds the offsets that shape generated paths. Bands are relative
// to the viewport read at generation time.
type PathBands struct {
	// StartX is the leftmost start, allowing entities to begin off-screen.
	StartX float64 `yaml:"start_x"`
	// ThirdPad widens the first-third band used by the first two x points.
	ThirdPad float64 `yaml:"third_pad"`
	// Overhang lets the landing point drift past the right edge.
	Overhang float64 `yaml:"overhang"`
	// StartY is the topmost start, above the viewport.
	StartY float64 `yaml:"start_y"`
	// TimingEarly and TimingLate bound the two inner timing control values.
	TimingEarly Range `yaml:"timing_early"`
	TimingLate  Range `yaml:"timing_late"`
	// Spin bounds each rotation control value, in turns.
	Spin Range `yaml:"spin"`
}

// DefaultPathBands returns the bands used by the petal scene.
func DefaultPathBands() PathBands {
	return PathBands{
		StartX:      -100,
		ThirdPad:    20,
		Overhang:    10,
		StartY:      -45,
		TimingEarly: Range{Min: 0, Max: 0.5},
		TimingLate:  Range{Min: 0.4, Max: 0.85},
		Spin:        Range{Min: -2, Max: 2},
	}
}

// PathGenerator builds randomized flight plans bounded by a viewport.
type PathGenerator struct {
	Bands    PathBands
	viewport Viewport
	rng      *Sampler
}

// NewPathGenerator returns a generator reading vp on every call. A nil rng
// uses the process-wide generator.
func NewPathGenerator(vp Viewport, bands PathBands, rng *Sampler) *PathGenerator {
	if rng == nil {
		rng = NewSampler(nil)
	}
	return &PathGenerator{Bands: bands, viewport: vp, rng: rng}
}

// Plan implements Planner.
func (g *PathGenerator) Plan() FlightPlan {
	return FlightPlan{
		Path:     g.Path(),
		Timing:   g.Timing(),
		Rotation: g.Rotation(),
	}
}

// Path generates the spatial x/y control points.
//
// The landing x is drawn from [w/3, w+Overhang) so paths always traverse the
// screen instead of settling near the origin. The landing y is pinned to the
// viewport height: entities always exit at the bottom edge.
func (g *PathGenerator) Path() Path {
	w, h := g.viewport.Size()
	third := w / 3
	padded := third + g.Bands.ThirdPad
	r := g.rng
	return Path{
		X: Cubic{
			r.Between(g.Bands.StartX, padded),
			r.Between(padded, w/2),
			r.Uniform(w),
			r.Between(third, w+g.Bands.Overhang),
		},
		Y: Cubic{
			r.Between(g.Bands.StartY, h/3),
			r.Uniform(h / 2),
			r.Between(h/2, h),
			h,
		},
	}
}

// Timing generates [0, early, late, 1]. The curve always starts at exactly 0
// and ends at exactly 1.
func (g *PathGenerator) Timing() Cubic {
	return Cubic{0, g.Bands.TimingEarly.Sample(g.rng), g.Bands.TimingLate.Sample(g.rng), 1}
}

// Rotation generates four independent spin control values in turns.
func (g *PathGenerator) Rotation() Cubic {
	s := g.Bands.Spin
	return Cubic{s.Sample(g.rng), s.Sample(g.rng), s.Sample(g.rng), s.Sample(g.rng)}
}
