package repository

import (
	"context"
	"image"
	"net/url"
	"strings"

	"pupilscreen/internal/storage"
	"pupilscreen/pkg/validation"
)

// captureRepository fetches eye captures over HTTP, with an optional
// blob-storage route for archived captures. Blob URLs are recognized by
// their Azure host suffix.
type captureRepository struct {
	fetcher   storage.CaptureFetcher
	archive   storage.BlobStorage
	validator *validation.URLValidator
}

// NewCaptureRepository creates a capture repository. The archive may be
// nil when blob access is not configured.
func NewCaptureRepository(fetcher storage.CaptureFetcher, archive storage.BlobStorage) CaptureRepository {
	return &captureRepository{
		fetcher:   fetcher,
		archive:   archive,
		validator: validation.NewURLValidator(),
	}
}

// FetchCapture retrieves a capture, routing archive URLs to blob
// storage when it is configured.
func (r *captureRepository) FetchCapture(ctx context.Context, captureURL string) (image.Image, error) {
	if r.archive != nil && isBlobURL(captureURL) {
		return r.archive.GetCapture(ctx, captureURL)
	}
	return r.fetcher.FetchCapture(ctx, captureURL)
}

// ValidateCaptureURL validates the capture URL before any fetch.
func (r *captureRepository) ValidateCaptureURL(captureURL string) error {
	return r.validator.ValidateCaptureURL(captureURL)
}

func isBlobURL(captureURL string) bool {
	parsed, err := url.Parse(captureURL)
	if err != nil {
		return false
	}
	return strings.HasSuffix(parsed.Host, ".blob.core.windows.net")
}
