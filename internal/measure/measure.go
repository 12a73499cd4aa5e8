package measure

import (
	"pupilscreen/internal/detector"
)

// The human iris diameter is remarkably stable across adults, which is
// what makes the pupil-to-iris ratio scale invariant and lets the iris
// serve as an in-frame ruler.
const (
	DefaultIrisDiameterMM      = 11.7
	DefaultAnisocoriaThreshold = 0.06
)

// EyeComparison summarizes a two-eye screening: per-eye ratios, their
// absolute difference, and whether that difference crosses the
// anisocoria threshold.
type EyeComparison struct {
	LeftRatio  float64 `json:"left_ratio"`
	RightRatio float64 `json:"right_ratio"`
	Difference float64 `json:"difference"`
	Anisocoria bool    `json:"anisocoria"`
}

// Calculator converts pixel-space detections into the clinically
// meaningful quantities. Zero-valued fields fall back to the shipped
// reference constants.
type Calculator struct {
	irisDiameterMM      float64
	anisocoriaThreshold float64
}

// NewCalculator creates a calculator with the given reference iris
// diameter in millimeters and anisocoria threshold on the ratio
// difference. Pass zero for either to use the defaults.
func NewCalculator(irisDiameterMM, anisocoriaThreshold float64) *Calculator {
	if irisDiameterMM <= 0 {
		irisDiameterMM = DefaultIrisDiameterMM
	}
	if anisocoriaThreshold <= 0 {
		anisocoriaThreshold = DefaultAnisocoriaThreshold
	}
	return &Calculator{
		irisDiameterMM:      irisDiameterMM,
		anisocoriaThreshold: anisocoriaThreshold,
	}
}

// NewDefaultCalculator creates a calculator with the reference
// constants.
func NewDefaultCalculator() *Calculator {
	return NewCalculator(0, 0)
}

// Ratio returns the pupil-to-iris radius ratio. It is dimensionless and
// independent of camera distance. A degenerate iris yields zero rather
// than a division fault.
func (c *Calculator) Ratio(r detector.DetectionResult) float64 {
	if r.Iris.R <= 0 {
		return 0
	}
	return float64(r.Pupil.R) / float64(r.Iris.R)
}

// PupilDiameterMM estimates the physical pupil diameter by scaling the
// ratio against the reference iris diameter.
func (c *Calculator) PupilDiameterMM(r detector.DetectionResult) float64 {
	return c.Ratio(r) * c.irisDiameterMM
}

// CompareEyes computes both ratios and flags anisocoria when their
// absolute difference meets or exceeds the threshold.
func (c *Calculator) CompareEyes(both detector.BothEyes) EyeComparison {
	left := c.Ratio(both.Left)
	right := c.Ratio(both.Right)
	diff := left - right
	if diff < 0 {
		diff = -diff
	}
	return EyeComparison{
		LeftRatio:  left,
		RightRatio: right,
		Difference: diff,
		Anisocoria: diff >= c.anisocoriaThreshold,
	}
}
