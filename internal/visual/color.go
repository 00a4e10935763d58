package visual

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	FearColor    = "#5c7cfa"
	NeutralColor = "#ffffff"
	GreedColor   = "#ffc95c"
)

var (
	fearAnchor    = mustHex(FearColor)
	neutralAnchor = mustHex(NeutralColor)
	greedAnchor   = mustHex(GreedColor)
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic("visual: bad anchor color " + s)
	}
	return c
}

// DiskColor blends fear→neutral below 50 and neutral→greed from 50 up, in RGB.
func DiskColor(value float64) string {
	v := clampValue(value)
	if v < neutralValue {
		return fearAnchor.BlendRgb(neutralAnchor, v/neutralValue).Hex()
	}
	return neutralAnchor.BlendRgb(greedAnchor, (v-neutralValue)/neutralValue).Hex()
}

// InterpolateHex blends two "#rrggbb" colors in RGB. t is clamped to [0,1].
func InterpolateHex(from, to string, t float64) (string, error) {
	a, err := colorful.Hex(from)
	if err != nil {
		return "", err
	}
	b, err := colorful.Hex(to)
	if err != nil {
		return "", err
	}
	if math.IsNaN(t) {
		t = 0
	}
	return a.BlendRgb(b, clamp(t, 0, 1)).Clamped().Hex(), nil
}
