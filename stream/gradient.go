package stream

import (
	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/ledtween/interp"
)

// GradientStop is one hue at a position on a GradientTable.
type GradientStop struct {
	Hue float64 `yaml:"hue"`
	Pos float64 `yaml:"pos"`
}

// GradientTable stores a look-up table of colours interpolated by hue.
type GradientTable []GradientStop

// RainbowGradient cycles through the hue wheel and wraps back to pink.
var RainbowGradient = GradientTable{
	{0.0, 0.0},
	{6.0, 0.04},   // Pink
	{87.0, 0.14},  // Red
	{88.0, 0.28},  // Orange
	{98.0, 0.42},  // Yellow
	{180.0, 0.56}, // Green
	{190.0, 0.70}, // Turquiose
	{320.0, 0.84}, // Blue
	{328.0, 0.91}, // Violet
	{360.0, 1.0},  // Pink wrap
}

// GetColor gets a colour at the specified point on the look-up table.
func (g GradientTable) GetColor(t, c, l float64) interp.Color {
	if len(g) == 0 {
		return interp.Color{Color: colorful.Hcl(0, c, l), A: 1}
	}
	for i := 0; i < len(g)-1; i++ {
		c1 := g[i]
		c2 := g[i+1]
		if c1.Pos <= t && t <= c2.Pos {
			// We are in between c1 and c2. Go blend them!
			h := (((t - c1.Pos) / (c2.Pos - c1.Pos)) * (c2.Hue - c1.Hue)) + c1.Hue
			return interp.Color{Color: colorful.Hcl(h, c, l).Clamped(), A: 1}
		}
	}

	// Nothing found? Means we're at (or past) the last gradient keypoint.
	return interp.Color{Color: colorful.Hcl(g[len(g)-1].Hue, c, l).Clamped(), A: 1}
}
