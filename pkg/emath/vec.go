package emath

import(
	"fmt"
	"golang.org/x/image/math/f64"
)

// Vec3 is a linear RGB triple. Use a local type so we can hang methods off it.
type Vec3 f64.Vec3

// Rec709 luminance weights, for linear RGB.
var LuminanceWeights = Vec3{0.2126, 0.7152, 0.0722}

func (v Vec3)String() string {
	return fmt.Sprintf("[%8.6f, %8.6f, %8.6f]", v[0], v[1], v[2])
}

func (v Vec3)Dot(w Vec3) float64 { return v[0]*w[0] + v[1]*w[1] + v[2]*w[2] }
func (v Vec3)Luminance() float64  { return v.Dot(LuminanceWeights) }

func (v Vec3)Scale(f float64) Vec3 {
	return Vec3{v[0]*f, v[1]*f, v[2]*f}
}

func (v *Vec3)FloorAt(min float64) {
	if v[0] < min { v[0] = min }
	if v[1] < min { v[1] = min }
	if v[2] < min { v[2] = min }
}

func (v *Vec3)CeilingAt(max float64) {
	if v[0] > max { v[0] = max }
	if v[1] > max { v[1] = max }
	if v[2] > max { v[2] = max }
}
