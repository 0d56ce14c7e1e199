// Package easing maps normalized animation time onto progress.
//
// Every ease kind resolves to a pure [Curve] through a lookup table built
// on github.com/fogleman/ease. Custom shapes are expressed as [Keyframes]
// or with [CubicBezier].
package easing

import (
	"fmt"
	"strings"

	"github.com/fogleman/ease"
	"github.com/matt-g-everett/ledtween/util"
)

// Curve transforms linear progress t into eased progress.
type Curve func(t float64) float64

// Type names one of the built-in ease curves.
type Type int

const (
	Linear Type = iota
	InQuad
	OutQuad
	InOutQuad
	InCubic
	OutCubic
	InOutCubic
	InQuart
	OutQuart
	InOutQuart
	InQuint
	OutQuint
	InOutQuint
	InSine
	OutSine
	InOutSine
	InExpo
	OutExpo
	InOutExpo
	InCirc
	OutCirc
	InOutCirc
	InElastic
	OutElastic
	InOutElastic
	InBack
	OutBack
	InOutBack
	InBounce
	OutBounce
	InOutBounce

	numTypes
)

var names = [numTypes]string{
	"Linear",
	"InQuad", "OutQuad", "InOutQuad",
	"InCubic", "OutCubic", "InOutCubic",
	"InQuart", "OutQuart", "InOutQuart",
	"InQuint", "OutQuint", "InOutQuint",
	"InSine", "OutSine", "InOutSine",
	"InExpo", "OutExpo", "InOutExpo",
	"InCirc", "OutCirc", "InOutCirc",
	"InElastic", "OutElastic", "InOutElastic",
	"InBack", "OutBack", "InOutBack",
	"InBounce", "OutBounce", "InOutBounce",
}

var table = [numTypes]Curve{
	ease.Linear,
	ease.InQuad, ease.OutQuad, ease.InOutQuad,
	ease.InCubic, ease.OutCubic, ease.InOutCubic,
	ease.InQuart, ease.OutQuart, ease.InOutQuart,
	ease.InQuint, ease.OutQuint, ease.InOutQuint,
	ease.InSine, ease.OutSine, ease.InOutSine,
	ease.InExpo, ease.OutExpo, ease.InOutExpo,
	ease.InCirc, ease.OutCirc, ease.InOutCirc,
	ease.InElastic, ease.OutElastic, ease.InOutElastic,
	ease.InBack, ease.OutBack, ease.InOutBack,
	ease.InBounce, ease.OutBounce, ease.InOutBounce,
}

// Types returns every built-in ease kind in declaration order.
func Types() []Type {
	out := make([]Type, numTypes)
	for i := range out {
		out[i] = Type(i)
	}
	return out
}

// Valid reports whether t names a built-in curve.
func (t Type) Valid() bool {
	return t >= 0 && t < numTypes
}

func (t Type) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return names[t]
}

// ParseType resolves a curve name, ignoring case.
func ParseType(name string) (Type, error) {
	for i, n := range names {
		if strings.EqualFold(n, name) {
			return Type(i), nil
		}
	}
	return Linear, fmt.Errorf("easing: unknown ease type %q", name)
}

// MarshalYAML writes the curve by name.
func (t Type) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

// UnmarshalYAML reads the curve by name.
func (t *Type) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	parsed, err := ParseType(name)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Func returns the raw curve for t. Unknown kinds fall back to Linear.
func Func(t Type) Curve {
	if !t.Valid() {
		return table[Linear]
	}
	return table[t]
}

// Evaluate applies the curve for kind at t. When clamped, t is limited to
// [0, 1], the endpoints map exactly onto 0 and 1, and the result never
// leaves the unit interval.
func Evaluate(kind Type, t float64, clamped bool) float64 {
	return Apply(Func(kind), t, clamped)
}

// Apply evaluates an arbitrary curve with the same clamping rules as
// Evaluate.
func Apply(c Curve, t float64, clamped bool) float64 {
	if !clamped {
		return c(t)
	}
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return util.Clamp01(c(t))
}
