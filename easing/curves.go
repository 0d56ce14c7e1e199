package easing

import (
	"math"
	"sort"

	"github.com/matt-g-everett/ledtween/util"
)

// Keyframe is a single point on a custom curve.
type Keyframe struct {
	Time  float64 `yaml:"time"`
	Value float64 `yaml:"value"`
}

// Keyframes is a piecewise linear curve. Frames are expected in
// ascending time order; use Sorted when building from unordered input.
type Keyframes []Keyframe

// Sorted returns a copy of k ordered by time.
func (k Keyframes) Sorted() Keyframes {
	out := make(Keyframes, len(k))
	copy(out, k)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

// Evaluate returns the curve value at t. Times before the first frame or
// after the last hold the nearest frame's value. An empty curve is linear.
func (k Keyframes) Evaluate(t float64) float64 {
	if len(k) == 0 {
		return t
	}
	if t <= k[0].Time {
		return k[0].Value
	}
	for i := 0; i < len(k)-1; i++ {
		k1 := k[i]
		k2 := k[i+1]
		if k1.Time <= t && t <= k2.Time {
			span := k2.Time - k1.Time
			if span <= 0 {
				return k2.Value
			}
			return k1.Value + (t-k1.Time)/span*(k2.Value-k1.Value)
		}
	}
	return k[len(k)-1].Value
}

// Curve adapts k to a Curve. A nil or empty set yields nil so callers can
// treat "no keyframes" as "no custom curve".
func (k Keyframes) Curve() Curve {
	if len(k) == 0 {
		return nil
	}
	frames := k.Sorted()
	return frames.Evaluate
}

// Bake samples c at evenly spaced times into keyframes.
func Bake(c Curve, samples int) Keyframes {
	if c == nil || samples < 2 {
		return nil
	}
	lut := util.GenerateLut(samples, c)
	out := make(Keyframes, samples)
	for i, v := range lut {
		out[i] = Keyframe{Time: float64(i) / float64(samples-1), Value: v}
	}
	return out
}

// CubicBezier returns a cubic-bezier curve matching CSS cubic-bezier().
// The curve starts at (0,0) and ends at (1,1).
func CubicBezier(x1, y1, x2, y2 float64) Curve {
	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}

		u := t
		for i := 0; i < 8; i++ {
			x := sampleCurve(x1, x2, u) - t
			if math.Abs(x) < 1e-7 {
				return sampleCurve(y1, y2, util.Clamp01(u))
			}
			dx := sampleCurveDerivative(x1, x2, u)
			if math.Abs(dx) < 1e-7 {
				break
			}
			u -= x / dx
		}

		// Newton did not converge; bisect inside [0,1].
		lo, hi := 0.0, 1.0
		u = util.Clamp01(u)
		for i := 0; i < 12; i++ {
			x := sampleCurve(x1, x2, u) - t
			if math.Abs(x) < 1e-7 {
				break
			}
			if x > 0 {
				hi = u
			} else {
				lo = u
			}
			u = (lo + hi) * 0.5
		}

		return sampleCurve(y1, y2, u)
	}
}

func sampleCurve(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*t*a + 3*inv*t*t*b + t*t*t
}

func sampleCurveDerivative(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*a + 6*inv*t*(b-a) + 3*t*t*(1-b)
}
