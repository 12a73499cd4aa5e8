package detector

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// locateIris finds the iris boundary by scanning radial intensity
// gradients outward from the pupil center on a lightly blurred map. The
// sclera is brighter than the iris, so the boundary shows up as the
// strongest positive gradient along each ray. Like the pupil search this
// never fails; with too few usable rays it falls back to a fixed multiple
// of the pupil radius.
func locateIris(m *IntensityMap, pupil Circle, p Params) Circle {
	minDim := minInt(m.Width, m.Height)
	start := pupil.R + p.RayStartOffset
	margin := minInt(minInt(pupil.X, m.Width-1-pupil.X), minInt(pupil.Y, m.Height-1-pupil.Y))
	maxR := minInt(int(p.MaxIrisFraction*float64(minDim)), margin)

	var candidates []float64
	for i := 0; i < p.RayCount; i++ {
		angle := 2 * math.Pi * float64(i) / float64(p.RayCount)
		if r, ok := scanRay(m, pupil.X, pupil.Y, angle, start, maxR, p); ok {
			candidates = append(candidates, float64(r))
		}
	}

	radius := 0
	if len(candidates) < p.MinRayCandidates {
		radius = int(math.Round(p.IrisFallbackScale * float64(pupil.R)))
	} else {
		radius = int(math.Round(robustRadius(candidates, p)))
	}
	if radius < pupil.R+p.MinIrisMargin {
		radius = pupil.R + p.MinIrisMargin
	}
	return Circle{X: pupil.X, Y: pupil.Y, R: radius}
}

// scanRay walks outward one pixel at a time, tracking the first derivative
// of intensity, and reports the radius of the maximum positive gradient.
// Candidates too close to the start radius or with too weak a gradient are
// rejected: those are pupil-edge residue and noise, not the limbus.
func scanRay(m *IntensityMap, cx, cy int, angle float64, start, maxR int, p Params) (int, bool) {
	sin, cos := math.Sincos(angle)

	bestGrad := 0.0
	bestR := 0
	prev := -1
	for r := start; r <= maxR; r++ {
		x := cx + int(math.Round(float64(r)*cos))
		y := cy + int(math.Round(float64(r)*sin))
		if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
			break
		}
		v := int(m.At(x, y))
		if prev >= 0 {
			grad := float64(v - prev)
			if grad > bestGrad {
				bestGrad = grad
				bestR = r
			}
		}
		prev = v
	}

	if bestR <= start+p.MinEdgeAdvance || bestGrad <= p.MinGradient {
		return 0, false
	}
	return bestR, true
}

// robustRadius reduces per-ray radius candidates to one value: take the
// median, reject candidates outside the tolerance band around it, and
// average the survivors. The band width is calibration-sensitive tuning,
// see Params.IrisOutlierBand.
func robustRadius(candidates []float64, p Params) float64 {
	sort.Float64s(candidates)
	median := stat.Quantile(0.5, stat.Empirical, candidates, nil)

	lo, hi := (1-p.IrisOutlierBand)*median, (1+p.IrisOutlierBand)*median
	survivors := candidates[:0]
	for _, c := range candidates {
		if c >= lo && c <= hi {
			survivors = append(survivors, c)
		}
	}
	if len(survivors) == 0 {
		return median
	}
	return stat.Mean(survivors, nil)
}
