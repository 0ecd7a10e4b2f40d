package hanami

import (
	"fmt"
	"sort"

	"github.com/tanema/gween/ease"
)

// Timing remaps a linear elapsed fraction into a progress fraction.
// Cubic satisfies Timing.
type Timing interface {
	At(t float64) float64
}

// EaseTiming adapts a gween easing function to Timing over the unit interval.
type EaseTiming struct {
	Fn ease.TweenFunc
}

// At evaluates the easing at t, clamped to [0, 1].
func (e EaseTiming) At(t float64) float64 {
	if e.Fn == nil {
		return clamp01(t)
	}
	return float64(e.Fn(float32(clamp01(t)), 0, 1, 1))
}

var easePresets = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"in-quad":      ease.InQuad,
	"out-quad":     ease.OutQuad,
	"in-out-quad":  ease.InOutQuad,
	"in-cubic":     ease.InCubic,
	"out-cubic":    ease.OutCubic,
	"in-out-cubic": ease.InOutCubic,
	"in-sine":      ease.InSine,
	"out-sine":     ease.OutSine,
	"in-out-sine":  ease.InOutSine,
	"out-back":     ease.OutBack,
	"out-bounce":   ease.OutBounce,
}

// EaseByName looks up a preset easing. The empty name means linear.
func EaseByName(name string) (ease.TweenFunc, error) {
	if name == "" {
		return ease.Linear, nil
	}
	fn, ok := easePresets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEase, name)
	}
	return fn, nil
}

// EaseNames lists the preset names in sorted order.
func EaseNames() []string {
	names := make([]string, 0, len(easePresets))
	for k := range easePresets {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
