package visual

import "math"

type SentimentBand string

const (
	BandFear    SentimentBand = "fear"
	BandNeutral SentimentBand = "neutral"
	BandGreed   SentimentBand = "greed"
)

// Classify returns the five-step label for value. It is only used when the
// provider sent no classification and never feeds a numeric mapping.
func Classify(value float64) string {
	v := clampValue(value)
	switch {
	case v < 25:
		return "Extreme Fear"
	case v < 45:
		return "Fear"
	case v <= 55:
		return "Neutral"
	case v <= 75:
		return "Greed"
	default:
		return "Extreme Greed"
	}
}

func Band(value float64) SentimentBand {
	v := clampValue(value)
	switch {
	case v < 45:
		return BandFear
	case v <= 55:
		return BandNeutral
	default:
		return BandGreed
	}
}

// BandColor is the palette anchor for b.
func BandColor(b SentimentBand) string {
	switch b {
	case BandFear:
		return FearColor
	case BandGreed:
		return GreedColor
	default:
		return NeutralColor
	}
}

// Label prefers the provider's classification.
func Label(classification string, value float64) string {
	if classification != "" {
		return classification
	}
	if math.IsNaN(value) {
		return "Unknown"
	}
	return Classify(value)
}
