package provider

import (
	"context"
	"image"

	"pupilscreen/internal/detector"
	"pupilscreen/internal/errors"
)

// ClassicalProvider wraps the on-device pipeline. It runs entirely in
// process and cannot fail on a decodable image, so it is the default
// terminal stage before the manual fallback.
type ClassicalProvider struct {
	detector *detector.Detector
}

// NewClassicalProvider creates a provider around the given detector.
func NewClassicalProvider(d *detector.Detector) *ClassicalProvider {
	return &ClassicalProvider{detector: d}
}

// Detect runs the classical pipeline.
func (p *ClassicalProvider) Detect(ctx context.Context, img image.Image) (detector.DetectionResult, error) {
	if err := ctx.Err(); err != nil {
		return detector.DetectionResult{}, errors.NewTimeoutError("detection cancelled", err)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return detector.DetectionResult{}, errors.NewValidationError("image has no pixels", nil)
	}
	return p.detector.Detect(img), nil
}

// GetProviderName returns the provider name.
func (p *ClassicalProvider) GetProviderName() string {
	return "classical"
}
