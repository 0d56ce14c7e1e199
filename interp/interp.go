// Package interp holds the interpolation strategies for every value kind a
// tween can animate, and the registry that resolves a strategy from a Go
// type.
package interp

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/ledtween/util"
	"golang.org/x/exp/constraints"
)

// Func interpolates between a and b. t is 0 at a and 1 at b; values
// outside [0, 1] extrapolate.
type Func[T any] func(a, b T, t float64) T

// Kind tags the value kinds known to the registry.
type Kind int

const (
	KindUnknown Kind = iota
	KindScalar
	KindColor
	KindVec2
	KindVec3
	KindRotation
	KindTransform
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindColor:
		return "color"
	case KindVec2:
		return "vec2"
	case KindVec3:
		return "vec3"
	case KindRotation:
		return "rotation"
	case KindTransform:
		return "transform"
	default:
		return "unknown"
	}
}

// Color is an RGB color with a separate alpha channel.
type Color struct {
	colorful.Color
	A float64
}

// RGBA builds an opaque-aware Color from components in [0, 1].
func RGBA(r, g, b, a float64) Color {
	return Color{Color: colorful.Color{R: r, G: g, B: b}, A: a}
}

// Hex parses "#rrggbb" into an opaque Color.
func Hex(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, err
	}
	return Color{Color: c, A: 1}, nil
}

// Scalar interpolates any floating point type.
func Scalar[F constraints.Float](a, b F, t float64) F {
	return a + (b-a)*F(t)
}

// LerpColor blends RGB components and alpha linearly.
func LerpColor(a, b Color, t float64) Color {
	return Color{
		Color: a.Color.BlendRgb(b.Color, t),
		A:     Scalar(a.A, b.A, t),
	}
}

// LerpVec2 interpolates two 2D vectors.
func LerpVec2(a, b mgl64.Vec2, t float64) mgl64.Vec2 {
	return a.Add(b.Sub(a).Mul(t))
}

// LerpVec3 interpolates two 3D vectors.
func LerpVec3(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// LerpRotation interpolates two rotations along the shortest arc.
func LerpRotation(a, b mgl64.Quat, t float64) mgl64.Quat {
	return mgl64.QuatSlerp(a, b, t)
}

// LerpTransform interpolates two 4x4 matrices element by element.
func LerpTransform(a, b mgl64.Mat4, t float64) mgl64.Mat4 {
	return a.Add(b.Sub(a).Mul(t))
}

// Lookup resolves the registered strategy for T. The boolean is false for
// kinds the registry does not know; callers then need their own Func.
func Lookup[T any]() (Func[T], Kind, bool) {
	var zero T
	var fn any
	var kind Kind
	switch any(zero).(type) {
	case float64:
		fn, kind = Func[float64](Scalar[float64]), KindScalar
	case float32:
		fn, kind = Func[float32](Scalar[float32]), KindScalar
	case Color:
		fn, kind = Func[Color](LerpColor), KindColor
	case mgl64.Vec2:
		fn, kind = Func[mgl64.Vec2](LerpVec2), KindVec2
	case mgl64.Vec3:
		fn, kind = Func[mgl64.Vec3](LerpVec3), KindVec3
	case mgl64.Quat:
		fn, kind = Func[mgl64.Quat](LerpRotation), KindRotation
	case mgl64.Mat4:
		fn, kind = Func[mgl64.Mat4](LerpTransform), KindTransform
	default:
		return nil, KindUnknown, false
	}
	return fn.(Func[T]), kind, true
}

// Lerp runs fn, limiting t to [0, 1] unless unclamped is set.
func Lerp[T any](fn Func[T], a, b T, t float64, unclamped bool) T {
	if !unclamped {
		t = util.Clamp01(t)
	}
	return fn(a, b, t)
}

// TypeName returns a printable name for T, used in diagnostics.
func TypeName[T any]() string {
	var zero T
	return fmt.Sprintf("%T", zero)
}
