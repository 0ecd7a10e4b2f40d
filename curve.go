package hanami

// Cubic is one axis of a cubic Bezier curve: four control values p0..p3.
// It is used for spatial axes, timing remaps and rotation curves alike.
type Cubic [4]float64

// At evaluates the curve at parameter t:
//
//	(1-t)³p0 + 3(1-t)²t·p1 + 3(1-t)t²·p2 + t³p3
//
// t is not clamped. Values outside [0, 1] extrapolate the polynomial.
func (c Cubic) At(t float64) float64 {
	mt := 1 - t
	return mt*mt*mt*c[0] +
		3*mt*mt*t*c[1] +
		3*mt*t*t*c[2] +
		t*t*t*c[3]
}

// Sample returns n+1 evaluations spaced evenly over [0, 1].
// n < 1 is treated as 1.
func (c Cubic) Sample(n int) []float64 {
	if n < 1 {
		n = 1
	}
	out := make([]float64, n+1)
	for i := 0; i <= n; i++ {
		out[i] = c.At(float64(i) / float64(n))
	}
	return out
}

// Quadratic is one axis of a quadratic Bezier curve: three control values.
type Quadratic [3]float64

// At evaluates (1-t)²p0 + 2(1-t)t·p1 + t²p2. t is not clamped.
func (q Quadratic) At(t float64) float64 {
	mt := 1 - t
	return mt*mt*q[0] + 2*mt*t*q[1] + t*t*q[2]
}

// Path is a 2D cubic Bezier path built from independent X and Y axes.
type Path struct {
	X, Y Cubic
}

// At evaluates both axes at the same t. The axes are not otherwise coupled.
func (p Path) At(t float64) Vec2 {
	return Vec2{X: p.X.At(t), Y: p.Y.At(t)}
}

// clamp01 clamps x into [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
