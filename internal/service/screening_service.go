package service

import (
	"context"
	"image"
	"strings"
	"sync"
	"time"

	"pupilscreen/internal/detector"
	apperrors "pupilscreen/internal/errors"
	"pupilscreen/internal/measure"
	"pupilscreen/internal/observer"
	"pupilscreen/internal/provider"
	"pupilscreen/internal/quality"
	"pupilscreen/internal/repository"
	"pupilscreen/pkg/models"
)

// ScreeningService runs the full screening flow: fetch, quality
// validation, boundary detection, measurement.
type ScreeningService interface {
	// ScreenFromURL fetches a capture and screens it.
	ScreenFromURL(ctx context.Context, captureURL string, dualEye bool) (*models.ScreeningResponse, error)

	// ScreenImage screens an already-decoded capture.
	ScreenImage(ctx context.Context, img image.Image, dualEye bool) (*models.ScreeningResponse, error)

	// ScreenBatch screens several captures concurrently, preserving
	// request order in the results.
	ScreenBatch(ctx context.Context, urls []string, dualEye bool) *models.BatchScreeningResponse

	// ValidateCaptureURL validates a capture URL without fetching it.
	ValidateCaptureURL(captureURL string) error
}

type screeningService struct {
	captureRepo   repository.CaptureRepository
	chain         provider.Provider
	detector      *detector.Detector
	validator     *quality.Validator
	calculator    *measure.Calculator
	events        observer.Subject
	pool          *workerPool
	detectTimeout time.Duration
}

// NewScreeningService creates a screening service. The chain answers
// single-eye captures; dual-eye captures always run the on-device
// pipeline, which is the only stage that understands half-frame
// splitting.
func NewScreeningService(
	captureRepo repository.CaptureRepository,
	chain provider.Provider,
	d *detector.Detector,
	validator *quality.Validator,
	calculator *measure.Calculator,
	events observer.Subject,
	batchWorkers int,
	detectTimeout time.Duration,
) ScreeningService {
	pool := newWorkerPool(batchWorkers)
	pool.start()
	return &screeningService{
		captureRepo:   captureRepo,
		chain:         chain,
		detector:      d,
		validator:     validator,
		calculator:    calculator,
		events:        events,
		pool:          pool,
		detectTimeout: detectTimeout,
	}
}

func (s *screeningService) ScreenFromURL(ctx context.Context, captureURL string, dualEye bool) (*models.ScreeningResponse, error) {
	if err := s.ValidateCaptureURL(captureURL); err != nil {
		return nil, apperrors.NewValidationError("invalid capture URL", err)
	}

	img, err := s.captureRepo.FetchCapture(ctx, captureURL)
	if err != nil {
		s.notify(ctx, observer.ScreeningEvent{
			EventType:    observer.CaptureFetchFailed,
			Timestamp:    time.Now().UTC(),
			CaptureURL:   captureURL,
			ErrorMessage: err.Error(),
		})
		return nil, apperrors.NewNetworkError("failed to fetch capture", err)
	}
	s.notify(ctx, observer.ScreeningEvent{
		EventType:  observer.CaptureFetched,
		Timestamp:  time.Now().UTC(),
		CaptureURL: captureURL,
		Success:    true,
	})

	response, err := s.screen(ctx, img, captureURL, dualEye)
	if err != nil {
		return nil, err
	}
	response.ImageURL = captureURL
	return response, nil
}

func (s *screeningService) ScreenImage(ctx context.Context, img image.Image, dualEye bool) (*models.ScreeningResponse, error) {
	return s.screen(ctx, img, "", dualEye)
}

func (s *screeningService) ScreenBatch(ctx context.Context, urls []string, dualEye bool) *models.BatchScreeningResponse {
	results := make([]models.BatchScreeningResult, len(urls))
	var wg sync.WaitGroup
	for i, captureURL := range urls {
		i, captureURL := i, captureURL
		s.pool.submit(&wg, func() {
			response, err := s.ScreenFromURL(ctx, captureURL, dualEye)
			results[i] = models.BatchScreeningResult{URL: captureURL}
			if err != nil {
				results[i].Error = err.Error()
				return
			}
			results[i].Response = response
		})
	}
	wg.Wait()
	return &models.BatchScreeningResponse{Results: results}
}

func (s *screeningService) ValidateCaptureURL(captureURL string) error {
	return s.captureRepo.ValidateCaptureURL(captureURL)
}

func (s *screeningService) screen(ctx context.Context, img image.Image, captureURL string, dualEye bool) (*models.ScreeningResponse, error) {
	start := time.Now()
	s.notify(ctx, observer.ScreeningEvent{
		EventType:  observer.ScreeningStarted,
		Timestamp:  start.UTC(),
		CaptureURL: captureURL,
	})

	issues := s.validator.Validate(img)
	if s.validator.HasCriticalIssues(issues) {
		messages := s.validator.Messages(issues)
		s.notify(ctx, observer.ScreeningEvent{
			EventType:    observer.CaptureRejected,
			Timestamp:    time.Now().UTC(),
			CaptureURL:   captureURL,
			ErrorMessage: strings.Join(messages, "; "),
		})
		return nil, apperrors.NewProcessingError(strings.Join(messages, "; "), nil)
	}

	response := &models.ScreeningResponse{
		Timestamp:     start.UTC().Format(time.RFC3339),
		QualityIssues: s.validator.Messages(issues),
	}

	if dualEye {
		both := s.detector.DetectBoth(img)
		comparison := s.calculator.CompareEyes(both)
		response.Left = s.toEyeResult(both.Left)
		response.Right = s.toEyeResult(both.Right)
		response.Comparison = &models.EyeComparisonModel{
			LeftRatio:  comparison.LeftRatio,
			RightRatio: comparison.RightRatio,
			Difference: comparison.Difference,
			Anisocoria: comparison.Anisocoria,
		}
	} else {
		detectCtx := ctx
		if s.detectTimeout > 0 {
			var cancel context.CancelFunc
			detectCtx, cancel = context.WithTimeout(ctx, s.detectTimeout)
			defer cancel()
		}
		result, err := s.chain.Detect(detectCtx, img)
		if err != nil {
			s.notify(ctx, observer.ScreeningEvent{
				EventType:      observer.ScreeningFailed,
				Timestamp:      time.Now().UTC(),
				CaptureURL:     captureURL,
				ProcessingTime: time.Since(start),
				ErrorMessage:   err.Error(),
			})
			return nil, err
		}
		response.Eye = s.toEyeResult(result)
	}

	duration := time.Since(start)
	response.ProcessingTimeSec = duration.Seconds()
	s.notify(ctx, observer.ScreeningEvent{
		EventType:      observer.ScreeningCompleted,
		Timestamp:      time.Now().UTC(),
		CaptureURL:     captureURL,
		ProcessingTime: duration,
		Success:        true,
		Metadata: map[string]interface{}{
			"dual_eye": dualEye,
		},
	})
	return response, nil
}

func (s *screeningService) toEyeResult(r detector.DetectionResult) *models.EyeResult {
	return &models.EyeResult{
		Pupil:           models.CircleModel{X: r.Pupil.X, Y: r.Pupil.Y, R: r.Pupil.R},
		Iris:            models.CircleModel{X: r.Iris.X, Y: r.Iris.Y, R: r.Iris.R},
		Ratio:           s.calculator.Ratio(r),
		PupilDiameterMM: s.calculator.PupilDiameterMM(r),
		Confidence: models.ConfidenceModel{
			Pupil: r.Confidence.Pupil,
			Iris:  r.Confidence.Iris,
		},
		Method: string(r.Method),
	}
}

func (s *screeningService) notify(ctx context.Context, event observer.ScreeningEvent) {
	if s.events != nil {
		s.events.NotifyObservers(ctx, event)
	}
}
