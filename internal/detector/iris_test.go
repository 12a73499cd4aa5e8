package detector

import (
	"math"
	"testing"
)

// eyeMap paints a synthetic eye: bright sclera background, mid-gray iris
// disc, dark pupil disc, all concentric.
func eyeMap(width, height, cx, cy, pupilR, irisR int) *IntensityMap {
	m := uniformMap(width, height, 220)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			dx, dy := x-cx, y-cy
			d := dx*dx + dy*dy
			switch {
			case d <= pupilR*pupilR:
				m.set(x, y, 20)
			case d <= irisR*irisR:
				m.set(x, y, 90)
			}
		}
	}
	return m
}

func TestLocateIris_FindsScleraBoundary(t *testing.T) {
	p := DefaultParams()
	m := gaussianBlur(eyeMap(300, 300, 150, 150, 20, 60), p.IrisBlurRadius)
	pupil := Circle{X: 150, Y: 150, R: 20}

	iris := locateIris(m, pupil, p)

	if iris.X != 150 || iris.Y != 150 {
		t.Errorf("iris center should anchor on the pupil center, got (%d,%d)", iris.X, iris.Y)
	}
	if iris.R < 42 || iris.R > 78 {
		t.Errorf("expected radius within 30%% of 60, got %d", iris.R)
	}
}

func TestLocateIris_NoGradientFallsBackToScaledPupil(t *testing.T) {
	p := DefaultParams()
	m := uniformMap(300, 300, 128)
	pupil := Circle{X: 150, Y: 150, R: 18}

	iris := locateIris(m, pupil, p)

	want := int(math.Round(p.IrisFallbackScale * float64(pupil.R)))
	if iris.R != want {
		t.Errorf("expected fallback radius %d, got %d", want, iris.R)
	}
}

func TestLocateIris_RadiusFloor(t *testing.T) {
	p := DefaultParams()
	p.IrisFallbackScale = 1.0 // force a fallback below the floor
	m := uniformMap(200, 200, 128)
	pupil := Circle{X: 100, Y: 100, R: 30}

	iris := locateIris(m, pupil, p)

	if iris.R < pupil.R+p.MinIrisMargin {
		t.Errorf("iris radius %d violates the floor pupil.R+%d", iris.R, p.MinIrisMargin)
	}
}

func TestRobustRadius_RejectsOutliers(t *testing.T) {
	p := DefaultParams()
	candidates := []float64{58, 59, 60, 60, 61, 62, 60, 59, 61, 60, 140, 12}

	r := robustRadius(candidates, p)

	if r < 58 || r > 62 {
		t.Errorf("outliers should not pull the radius, got %f", r)
	}
}

func TestRobustRadius_MedianWhenAllOutliers(t *testing.T) {
	p := DefaultParams()
	p.IrisOutlierBand = 0 // nothing survives a zero-width band except the median itself

	r := robustRadius([]float64{50, 60, 70}, p)

	if r != 60 {
		t.Errorf("expected the median 60, got %f", r)
	}
}
