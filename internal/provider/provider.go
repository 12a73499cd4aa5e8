package provider

import (
	"context"
	"image"

	"pupilscreen/internal/detector"
	"pupilscreen/internal/errors"
	"pupilscreen/internal/logger"

	"github.com/sirupsen/logrus"
)

// Provider locates the pupil and iris boundaries in a single-eye frame.
// Implementations must be safe for concurrent use.
type Provider interface {
	Detect(ctx context.Context, img image.Image) (detector.DetectionResult, error)
	GetProviderName() string
}

// Chain tries each provider in order and returns the first successful
// result. The last provider in a well-formed chain never fails, so a
// chain as a whole always produces a usable measurement.
type Chain struct {
	providers []Provider
}

// NewChain creates a provider chain. Order matters: earlier providers
// are preferred.
func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers}
}

// Detect runs the chain. It returns the combined error only when every
// provider fails, which a chain ending in the fallback provider never
// does.
func (c *Chain) Detect(ctx context.Context, img image.Image) (detector.DetectionResult, error) {
	var lastErr error
	for _, p := range c.providers {
		result, err := p.Detect(ctx, img)
		if err == nil {
			return result, nil
		}
		lastErr = err
		logger.WithFields(logrus.Fields{
			"provider": p.GetProviderName(),
			"error":    err.Error(),
		}).Warn("Detection provider failed, trying next")
	}
	return detector.DetectionResult{}, errors.NewProcessingError("all detection providers failed", lastErr)
}

// GetProviderName returns the chain's composite name.
func (c *Chain) GetProviderName() string {
	return "chain"
}
