package repository

import (
	"context"
	"image"
)

// CaptureRepository defines capture data access: fetch a decodable eye
// capture from a URL and validate candidate URLs up front.
type CaptureRepository interface {
	FetchCapture(ctx context.Context, captureURL string) (image.Image, error)
	ValidateCaptureURL(captureURL string) error
}
