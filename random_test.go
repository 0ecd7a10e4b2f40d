package hanami

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// seqSource replays fixed values.
type seqSource struct {
	vals []float64
	i    int
}

func (s *seqSource) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

func TestSamplerBounds(t *testing.T) {
	s := NewSampler(&seqSource{vals: []float64{0, 0.5, 0.999999}})
	assert.Equal(t, 0.0, s.Uniform(10))
	assert.Equal(t, 5.0, s.Uniform(10))
	assert.Less(t, s.Uniform(10), 10.0)

	assert.Equal(t, -4.0, s.Between(-4, 4))
	assert.Equal(t, 0.0, s.Between(-4, 4))
	assert.Less(t, s.Between(-4, 4), 4.0)
}

func TestSamplerIntN(t *testing.T) {
	s := NewSampler(&seqSource{vals: []float64{0, 0.5, 0.999999}})
	assert.Equal(t, 0, s.IntN(4))
	assert.Equal(t, 2, s.IntN(4))
	assert.Equal(t, 3, s.IntN(4))
	assert.Equal(t, 0, s.IntN(0))
	assert.Equal(t, 0, s.IntN(-3))
}

func TestSamplerIntBetween(t *testing.T) {
	s := NewSampler(&seqSource{vals: []float64{0, 0.999999}})
	assert.Equal(t, 1000, s.IntBetween(1000, 5000))
	assert.Equal(t, 4999, s.IntBetween(1000, 5000))
	assert.Equal(t, 7, s.IntBetween(7, 7))
	assert.Equal(t, 7, s.IntBetween(7, 3))
}

func TestSeededSamplerRepeats(t *testing.T) {
	a, b := NewSeededSampler(99), NewSeededSampler(99)
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Uniform(1), b.Uniform(1))
	}
	c := NewSeededSampler(100)
	assert.NotEqual(t, NewSeededSampler(99).Uniform(1), c.Uniform(1))
}

func TestSamplerUniformStaysInRange(t *testing.T) {
	s := NewSeededSampler(1)
	for i := 0; i < 1000; i++ {
		v := s.Between(2, 3)
		if v < 2 || v >= 3 {
			t.Fatalf("Between(2, 3) = %v", v)
		}
	}
}

func TestRangeSample(t *testing.T) {
	s := NewSeededSampler(3)
	assert.Equal(t, 4.0, Range{Min: 4, Max: 4}.Sample(s))
	for i := 0; i < 100; i++ {
		v := Range{Min: 1, Max: 2}.Sample(s)
		assert.GreaterOrEqual(t, v, 1.0)
		assert.Less(t, v, 2.0)
		r := Range{Min: -1, Max: 0}.Sample(s)
		assert.GreaterOrEqual(t, r, -1.0)
		assert.Less(t, r, 0.0)
	}
}

func TestIntRangeSample(t *testing.T) {
	s := NewSeededSampler(5)
	for i := 0; i < 200; i++ {
		v := IntRange{Min: 4, Max: 11}.Sample(s)
		assert.GreaterOrEqual(t, v, 4)
		assert.Less(t, v, 11)
	}
	assert.Equal(t, 0, IntRange{}.Sample(s))
}
