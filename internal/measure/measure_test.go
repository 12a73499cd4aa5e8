package measure

import (
	"math"
	"testing"

	"pupilscreen/internal/detector"
)

func result(pupilR, irisR int) detector.DetectionResult {
	return detector.DetectionResult{
		Pupil: detector.Circle{X: 100, Y: 100, R: pupilR},
		Iris:  detector.Circle{X: 100, Y: 100, R: irisR},
	}
}

func TestRatio(t *testing.T) {
	c := NewDefaultCalculator()

	tests := []struct {
		name   string
		pupilR int
		irisR  int
		want   float64
	}{
		{"typical", 21, 60, 0.35},
		{"dilated", 45, 60, 0.75},
		{"degenerate iris", 10, 0, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := c.Ratio(result(tc.pupilR, tc.irisR))
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("expected ratio %f, got %f", tc.want, got)
			}
		})
	}
}

func TestRatio_ScaleInvariance(t *testing.T) {
	c := NewDefaultCalculator()

	near := c.Ratio(result(30, 90))
	far := c.Ratio(result(10, 30))

	if math.Abs(near-far) > 1e-9 {
		t.Errorf("the same eye at different distances must yield the same ratio: %f vs %f", near, far)
	}
}

func TestPupilDiameterMM(t *testing.T) {
	c := NewDefaultCalculator()

	got := c.PupilDiameterMM(result(30, 90))
	want := (30.0 / 90.0) * DefaultIrisDiameterMM
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected %f mm, got %f mm", want, got)
	}
}

func TestCompareEyes(t *testing.T) {
	c := NewDefaultCalculator()

	tests := []struct {
		name       string
		left       detector.DetectionResult
		right      detector.DetectionResult
		anisocoria bool
	}{
		{"symmetric", result(21, 60), result(21, 60), false},
		{"just below threshold", result(24, 60), result(21, 60), false},
		{"asymmetric", result(30, 60), result(21, 60), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cmp := c.CompareEyes(detector.BothEyes{Left: tc.left, Right: tc.right})
			if cmp.Anisocoria != tc.anisocoria {
				t.Errorf("expected anisocoria=%v, got %v (diff %f)", tc.anisocoria, cmp.Anisocoria, cmp.Difference)
			}
			if cmp.Difference < 0 {
				t.Errorf("difference must be absolute, got %f", cmp.Difference)
			}
		})
	}
}

func TestNewCalculator_ZeroFallsBackToDefaults(t *testing.T) {
	c := NewCalculator(0, 0)

	if c.irisDiameterMM != DefaultIrisDiameterMM {
		t.Errorf("expected reference diameter %f, got %f", DefaultIrisDiameterMM, c.irisDiameterMM)
	}
	if c.anisocoriaThreshold != DefaultAnisocoriaThreshold {
		t.Errorf("expected threshold %f, got %f", DefaultAnisocoriaThreshold, c.anisocoriaThreshold)
	}
}
