package quality

import (
	"image"

	"gonum.org/v1/gonum/stat"
)

// Thresholds defines configurable bounds for capture quality checks.
// The defaults are tuned for close-up eye photographs, which are much
// smaller and more uniform than document scans.
type Thresholds struct {
	// Sharpness bounds on the Laplacian response variance.
	MinLaplacianVariance float64
	MaxLaplacianVariance float64

	// Mean gray-level brightness bounds.
	MinBrightness float64
	MaxBrightness float64

	// Resolution floor. Below this the iris boundary spans too few
	// pixels for the radial scan to resolve.
	MinWidth  int
	MinHeight int
}

// DefaultThresholds returns the shipped eye-capture thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinLaplacianVariance: 15.0,
		MaxLaplacianVariance: 2000.0,
		MinBrightness:        40.0,
		MaxBrightness:        230.0,
		MinWidth:             240,
		MinHeight:            240,
	}
}

// Issue describes a single capture quality problem in operator-facing
// language.
type Issue struct {
	Type        string  `json:"type"`
	Message     string  `json:"message"`
	Severity    string  `json:"severity"` // "error" or "warning"
	ActualValue float64 `json:"actual_value,omitempty"`
	Threshold   float64 `json:"threshold,omitempty"`
}

// Validator screens a capture before detection runs on it, so a blurry
// or badly lit frame is rejected with guidance instead of producing a
// silently wrong ratio.
type Validator struct {
	thresholds Thresholds
}

// NewValidator creates a validator with the default thresholds.
func NewValidator() *Validator {
	return NewValidatorWithThresholds(DefaultThresholds())
}

// NewValidatorWithThresholds creates a validator with custom thresholds.
func NewValidatorWithThresholds(thresholds Thresholds) *Validator {
	return &Validator{thresholds: thresholds}
}

// Validate computes the capture metrics and returns every issue found.
// An empty slice means the frame is usable.
func (v *Validator) Validate(img image.Image) []Issue {
	var issues []Issue
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()

	if width < v.thresholds.MinWidth || height < v.thresholds.MinHeight {
		issues = append(issues, Issue{
			Type:        "low_resolution",
			Message:     "The photo is too small. Move the camera closer to the eye.",
			Severity:    "error",
			ActualValue: float64(width * height),
			Threshold:   float64(v.thresholds.MinWidth * v.thresholds.MinHeight),
		})
		// Too little signal for the remaining metrics to mean anything.
		return issues
	}

	gray := grayLevels(img)
	brightness := stat.Mean(gray, nil)
	sharpness := laplacianVariance(gray, width, height)

	if sharpness < v.thresholds.MinLaplacianVariance {
		issues = append(issues, Issue{
			Type:        "blurriness",
			Message:     "The photo is blurry. Hold the camera steady and try again.",
			Severity:    "error",
			ActualValue: sharpness,
			Threshold:   v.thresholds.MinLaplacianVariance,
		})
	} else if sharpness > v.thresholds.MaxLaplacianVariance {
		issues = append(issues, Issue{
			Type:        "noise",
			Message:     "The photo is too noisy. Use more light and avoid digital zoom.",
			Severity:    "warning",
			ActualValue: sharpness,
			Threshold:   v.thresholds.MaxLaplacianVariance,
		})
	}

	if brightness < v.thresholds.MinBrightness {
		issues = append(issues, Issue{
			Type:        "too_dark",
			Message:     "The photo is too dark. Take it in better light.",
			Severity:    "error",
			ActualValue: brightness,
			Threshold:   v.thresholds.MinBrightness,
		})
	} else if brightness > v.thresholds.MaxBrightness {
		issues = append(issues, Issue{
			Type:        "too_bright",
			Message:     "The photo is washed out. Avoid direct light on the eye.",
			Severity:    "error",
			ActualValue: brightness,
			Threshold:   v.thresholds.MaxBrightness,
		})
	}

	return issues
}

// HasCriticalIssues reports whether any issue is severe enough to
// reject the capture.
func (v *Validator) HasCriticalIssues(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Severity == "error" {
			return true
		}
	}
	return false
}

// Messages flattens issues into operator-facing strings.
func (v *Validator) Messages(issues []Issue) []string {
	var messages []string
	for _, issue := range issues {
		messages = append(messages, issue.Message)
	}
	return messages
}

// grayLevels extracts per-pixel luma in [0,255].
func grayLevels(img image.Image) []float64 {
	b := img.Bounds()
	out := make([]float64, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			out = append(out, (0.299*float64(r>>8))+(0.587*float64(g>>8))+(0.114*float64(bl>>8)))
		}
	}
	return out
}

// laplacianVariance applies the 4-neighbor Laplacian over the interior
// and returns the response variance, the standard focus measure.
func laplacianVariance(gray []float64, width, height int) float64 {
	if width < 3 || height < 3 {
		return 0
	}
	responses := make([]float64, 0, (width-2)*(height-2))
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			i := y*width + x
			responses = append(responses,
				gray[i-width]+gray[i+width]+gray[i-1]+gray[i+1]-4*gray[i])
		}
	}
	return stat.Variance(responses, nil)
}
