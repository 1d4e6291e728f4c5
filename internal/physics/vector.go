package physics

import "math"

// Vec2 is a 2D vector with fixed-precision arithmetic so that trajectories
// replay bit-identically on every platform the renderer runs on.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// fix rounds to 4 decimal places, matching the renderer's number precision.
func fix(n float64) float64 {
	if math.IsNaN(n) {
		return 0
	}
	return math.Round(n*10000) / 10000
}

func NewVec2(x, y float64) Vec2 {
	return Vec2{X: fix(x), Y: fix(y)}
}

func (v Vec2) Plus(o Vec2) Vec2 {
	return Vec2{X: fix(v.X + o.X), Y: fix(v.Y + o.Y)}
}

func (v Vec2) Minus(o Vec2) Vec2 {
	return Vec2{X: fix(v.X - o.X), Y: fix(v.Y - o.Y)}
}

func (v Vec2) Times(s float64) Vec2 {
	return Vec2{X: fix(v.X * s), Y: fix(v.Y * s)}
}

func (v Vec2) Dot(o Vec2) float64 {
	return fix(v.X*o.X + v.Y*o.Y)
}

func (v Vec2) Magnitude() float64 {
	return fix(math.Sqrt(v.X*v.X + v.Y*v.Y))
}

func (v Vec2) Normalize() Vec2 {
	m := v.Magnitude()
	if m == 0 {
		return Vec2{}
	}
	return v.Times(1.0 / m)
}

// Rotate rotates the vector by the given angle in radians.
func (v Vec2) Rotate(rad float64) Vec2 {
	mag := math.Sqrt(v.X*v.X + v.Y*v.Y)
	angle := math.Atan2(v.Y, v.X) + rad
	return Vec2{
		X: fix(mag * math.Cos(angle)),
		Y: fix(mag * math.Sin(angle)),
	}
}

func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// lerp interpolates between two points; t in [0,1].
func lerp(a, b Vec2, t float64) Vec2 {
	return Vec2{
		X: fix((1-t)*a.X + t*b.X),
		Y: fix((1-t)*a.Y + t*b.Y),
	}
}
