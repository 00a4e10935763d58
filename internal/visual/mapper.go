// Package visual turns a sentiment reading into the parameters that drive the
// decorative scenes. Everything here is pure and cheap enough to run per frame.
package visual

import (
	"math"

	"horizonfolio/internal/domain"
)

// Params drives the accretion disk and crystal scenes.
type Params struct {
	DiskColor       string  `json:"diskColor"`
	DiskVelocity    float64 `json:"diskVelocity"`
	DiskTurbulence  float64 `json:"diskTurbulence"`
	LensingStrength float64 `json:"lensingStrength"`
	CoreIntensity   float64 `json:"coreIntensity"`
	MoteDensity     float64 `json:"moteDensity"`
	Agitation       float64 `json:"agitation"`
	PulseRate       float64 `json:"pulseRate"`
}

// Range is the closed output interval of a parameter.
type Range struct {
	Min, Max float64
}

var (
	DiskVelocityRange   = Range{0.5, 2.0}
	DiskTurbulenceRange = Range{0.1, 1.0}
	CoreIntensityRange  = Range{0.6, 1.6}
	MoteDensityRange    = Range{0.5, 1.5}
	AgitationRange      = Range{0.0, 1.0}
	PulseRateRange      = Range{1.0, 3.0}
)

const neutralValue = 50.0

// Default is rendered whenever no live reading is available.
func Default() Params {
	return Params{
		DiskColor:       NeutralColor,
		DiskVelocity:    1.25,
		DiskTurbulence:  DiskTurbulenceRange.Min,
		LensingStrength: 0,
		CoreIntensity:   1.0,
		MoteDensity:     1.0,
		Agitation:       AgitationRange.Min,
		PulseRate:       PulseRateRange.Min,
	}
}

// Map returns nil when the payload or its primary reading is absent.
func Map(payload *domain.CombinedMarketPayload) *Params {
	if payload == nil {
		return nil
	}
	return MapReading(payload.LatestFearAndGreed)
}

func MapReading(reading *domain.SentimentReading) *Params {
	if reading == nil {
		return nil
	}
	p := FromValue(reading.Value)
	return &p
}

// FromValue maps a sentiment value. Values outside [0,100] are clamped and
// NaN is treated as neutral.
func FromValue(value float64) Params {
	v := clampValue(value)
	distance := math.Abs(v - neutralValue)

	return Params{
		DiskColor:       DiskColor(v),
		DiskVelocity:    mapRange(v, 0, 100, DiskVelocityRange),
		DiskTurbulence:  mapRange(distance, 0, 50, DiskTurbulenceRange),
		LensingStrength: 0,
		CoreIntensity:   mapRange(v, 0, 100, CoreIntensityRange),
		MoteDensity:     mapRange(v, 0, 100, MoteDensityRange),
		Agitation:       mapRange(distance, 0, 50, AgitationRange),
		PulseRate:       mapRange(distance, 0, 50, PulseRateRange),
	}
}

// OrDefault dereferences p, substituting Default for nil.
func OrDefault(p *Params) Params {
	if p == nil {
		return Default()
	}
	return *p
}

func clampValue(v float64) float64 {
	if math.IsNaN(v) {
		return neutralValue
	}
	return clamp(v, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// mapRange clamps v to [inMin,inMax] and interpolates into out. The weighted
// form keeps both endpoints exact.
func mapRange(v, inMin, inMax float64, out Range) float64 {
	t := (clamp(v, inMin, inMax) - inMin) / (inMax - inMin)
	return clamp(out.Min*(1-t)+out.Max*t, out.Min, out.Max)
}
