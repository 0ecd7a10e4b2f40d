package hanami

import (
	"math"
	"math/rand/v2"
)

// Source produces uniform floats in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// globalSource draws from the process-wide math/rand/v2 generator.
type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// Sampler generates bounded random scalars and integers for path building and
// spawn scheduling. The zero value is not usable; call NewSampler.
type Sampler struct {
	src Source
}

// NewSampler wraps src. A nil src uses the process-wide generator, which has
// no reproducibility contract.
func NewSampler(src Source) *Sampler {
	if src == nil {
		src = globalSource{}
	}
	return &Sampler{src: src}
}

// NewSeededSampler returns a Sampler backed by a PCG generator. Used by tests
// and debugging runs that need repeatable sequences.
func NewSeededSampler(seed uint64) *Sampler {
	return NewSampler(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// Uniform returns a float in [0, max).
func (s *Sampler) Uniform(max float64) float64 {
	return s.src.Float64() * max
}

// Between returns a float in [min, max).
func (s *Sampler) Between(min, max float64) float64 {
	return s.src.Float64()*(max-min) + min
}

// IntN returns an integer in [0, max). max <= 0 yields 0.
func (s *Sampler) IntN(max int) int {
	if max <= 0 {
		return 0
	}
	return int(math.Floor(s.src.Float64() * float64(max)))
}

// IntBetween returns an integer in [min, max). max <= min yields min.
func (s *Sampler) IntBetween(min, max int) int {
	if max <= min {
		return min
	}
	return int(math.Floor(s.src.Float64()*float64(max-min) + float64(min)))
}

// Range is a general-purpose min/max range, sampled as [Min, Max).
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Sample draws from the range through s.
func (r Range) Sample(s *Sampler) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return s.Between(r.Min, r.Max)
}

// IntRange is an integer range sampled as [Min, Max).
type IntRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Sample draws from the range through s.
func (r IntRange) Sample(s *Sampler) int {
	return s.IntBetween(r.Min, r.Max)
}
