package stream

import (
	"github.com/matt-g-everett/ledtween/interp"
	"github.com/matt-g-everett/ledtween/tween"
)

// DefaultAnimations builds the standard rotation for a strip of numPixels.
func DefaultAnimations(sched *tween.Scheduler, numPixels int) []Animation {
	backColour, _ := interp.Hex("#000005")
	foreColour, _ := interp.Hex("#808080")
	streakColour, _ := interp.Hex("#733f08")

	return []Animation{
		NewTwinkle(sched, numPixels, max(numPixels/8, 1), foreColour, backColour, 1.5),
		NewGradientTrail(sched, RainbowGradient, numPixels, 180, 6, true),
		NewStreak(sched, numPixels, 20, streakColour, backColour, 10, 60),
	}
}
