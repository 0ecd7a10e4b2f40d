package hanami

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// textureSize is the edge length of generated petal and flower textures.
const textureSize = 64

var (
	petalShades = []Color{
		{R: 1.00, G: 0.80, B: 0.86, A: 1},
		{R: 0.98, G: 0.70, B: 0.79, A: 1},
		{R: 1.00, G: 0.90, B: 0.93, A: 1},
		{R: 0.95, G: 0.62, B: 0.74, A: 1},
	}
	flowerShades = []Color{
		{R: 1.00, G: 0.84, B: 0.89, A: 1},
		{R: 0.97, G: 0.74, B: 0.82, A: 1},
		{R: 1.00, G: 0.95, B: 0.96, A: 1},
	}
	flowerCenter = Color{R: 0.98, G: 0.85, B: 0.45, A: 1}
)

// SpriteSet holds the shade variants of each kind's texture.
type SpriteSet struct {
	variants map[Kind][]*ebiten.Image
}

// NewSpriteSet renders every petal and flower variant.
func NewSpriteSet() *SpriteSet {
	s := &SpriteSet{variants: make(map[Kind][]*ebiten.Image)}
	for _, c := range petalShades {
		s.variants[KindPetal] = append(s.variants[KindPetal], newPetalImage(c))
	}
	for _, c := range flowerShades {
		s.variants[KindFlower] = append(s.variants[KindFlower], newFlowerImage(c, flowerCenter))
	}
	return s
}

// Variants returns the number of shade variants for kind.
func (s *SpriteSet) Variants(kind Kind) int { return len(s.variants[kind]) }

// Variant returns shade variant i of kind, or WhitePixel if kind has none.
func (s *SpriteSet) Variant(kind Kind, i int) *ebiten.Image {
	imgs := s.variants[kind]
	if len(imgs) == 0 {
		return WhitePixel
	}
	return imgs[i%len(imgs)]
}

func newPetalImage(c Color) *ebiten.Image {
	img := ebiten.NewImage(textureSize, textureSize)
	drawPetal(img, textureSize/2, textureSize-4, textureSize-8, 13, -math.Pi/2, c.RGBA())
	return img
}

func newFlowerImage(petal, center Color) *ebiten.Image {
	img := ebiten.NewImage(textureSize, textureSize)
	const petals = 5
	c := float32(textureSize / 2)
	for i := 0; i < petals; i++ {
		angle := 2*math.Pi*float64(i)/petals - math.Pi/2
		drawPetal(img, c, c, textureSize/2-2, 9, angle, petal.RGBA())
	}
	vector.DrawFilledCircle(img, c, c, 6, center.RGBA(), true)
	return img
}

// drawPetal fills a teardrop from (x, y) along angle by stacking circles whose
// radius follows a half sine over the petal length.
func drawPetal(dst *ebiten.Image, x, y, length, width float32, angle float64, clr color.Color) {
	const steps = 24
	sin, cos := math.Sincos(angle)
	for i := 1; i < steps; i++ {
		t := float64(i) / steps
		r := float32(float64(width) * math.Sin(math.Pi*math.Pow(t, 0.8)))
		px := x + float32(cos*t)*length
		py := y + float32(sin*t)*length
		vector.DrawFilledCircle(dst, px, py, r, clr, true)
	}
}
