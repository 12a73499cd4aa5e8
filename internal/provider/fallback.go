package provider

import (
	"context"
	"image"
	"math"

	"pupilscreen/internal/detector"
)

// FallbackProvider is the manual-placement terminal stage: it centers a
// plausible pupil and iris in the frame for the operator to drag into
// position, and never fails. Its confidence is deliberately low so
// downstream consumers can tell a guess from a measurement.
type FallbackProvider struct {
	pupilFraction float64
	irisFraction  float64
	confidence    detector.Confidence
}

// NewFallbackProvider creates the manual-placement provider with the
// shipped defaults: pupil at 8% and iris at 24% of the smaller frame
// dimension.
func NewFallbackProvider() *FallbackProvider {
	return &FallbackProvider{
		pupilFraction: 0.08,
		irisFraction:  0.24,
		confidence:    detector.Confidence{Pupil: 0.2, Iris: 0.2},
	}
}

// Detect places the default circles at the frame center.
func (p *FallbackProvider) Detect(ctx context.Context, img image.Image) (detector.DetectionResult, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	minDim := float64(w)
	if h < w {
		minDim = float64(h)
	}
	return detector.DetectionResult{
		Pupil: detector.Circle{
			X: w / 2,
			Y: h / 2,
			R: int(math.Round(p.pupilFraction * minDim)),
		},
		Iris: detector.Circle{
			X: w / 2,
			Y: h / 2,
			R: int(math.Round(p.irisFraction * minDim)),
		},
		Confidence: p.confidence,
		Method:     detector.MethodFallback,
	}, nil
}

// GetProviderName returns the provider name.
func (p *FallbackProvider) GetProviderName() string {
	return "fallback"
}
