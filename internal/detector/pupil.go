package detector

import "math"

// locatePupil finds the pupil center and radius on a blurred, normalized
// intensity map. The search never fails: when the flood fill collects too
// few pixels, the darkest-window seed with a fixed default radius is
// returned instead.
func locatePupil(m *IntensityMap, p Params) Circle {
	minDim := minInt(m.Width, m.Height)

	seedX, seedY, window := darkestWindow(m, p)
	threshold := adaptiveThreshold(m, seedX, seedY, window, p)
	points := floodFill(m, seedX, seedY, threshold, p)

	if len(points) < p.MinRegionPixels {
		return Circle{
			X: seedX,
			Y: seedY,
			R: int(math.Round(p.DefaultPupilRadius * float64(minDim))),
		}
	}
	return fitCircle(points, m.Width, p)
}

// darkestWindow slides a square window over the central region and
// returns the center of the window with the lowest mean intensity, plus
// the window size used. Ties resolve toward the image center, so a
// featureless frame seeds in the middle.
func darkestWindow(m *IntensityMap, p Params) (x, y, window int) {
	minDim := minInt(m.Width, m.Height)
	window = maxInt(p.MinWindowSize, int(p.WindowFraction*float64(minDim)))
	marginX := int(p.SearchMargin * float64(m.Width))
	marginY := int(p.SearchMargin * float64(m.Height))
	stride := maxInt(1, window/4)

	cx, cy := m.Width/2, m.Height/2
	bestX, bestY := cx-window/2, cy-window/2
	bestMean := math.MaxFloat64
	bestDist := math.MaxFloat64

	for wy := marginY; wy+window <= m.Height-marginY; wy += stride {
		for wx := marginX; wx+window <= m.Width-marginX; wx += stride {
			var sum, n int
			for dy := 0; dy < window; dy += 2 {
				row := (wy + dy) * m.Width
				for dx := 0; dx < window; dx += 2 {
					sum += int(m.Data[row+wx+dx])
					n++
				}
			}
			mean := float64(sum) / float64(n)
			dx, dy := float64(wx+window/2-cx), float64(wy+window/2-cy)
			dist := dx*dx + dy*dy
			if mean < bestMean-1e-9 || (math.Abs(mean-bestMean) <= 1e-9 && dist < bestDist) {
				bestMean = mean
				bestDist = dist
				bestX, bestY = wx, wy
			}
		}
	}
	return bestX + window/2, bestY + window/2, window
}

// adaptiveThreshold derives the flood-fill cutoff from the mean intensity
// of the dark disc around the seed versus its surrounding annulus. Higher
// contrast permits a more permissive blend toward the surround level.
func adaptiveThreshold(m *IntensityMap, seedX, seedY, window int, p Params) float64 {
	dark := discMean(m, seedX, seedY, 0, window)
	surround := discMean(m, seedX, seedY, window, 2*window)
	if surround <= 0 {
		return dark
	}

	ratio := (surround - dark) / surround
	factor := p.HighContrastBlend
	switch {
	case ratio < p.LowContrastRatio:
		factor = p.LowContrastBlend
	case ratio < p.MidContrastRatio:
		factor = p.MidContrastBlend
	}
	return dark + (surround-dark)*factor
}

// discMean samples the mean intensity of the annulus rIn <= r < rOut
// centered on (cx, cy). rIn of zero samples a full disc.
func discMean(m *IntensityMap, cx, cy, rIn, rOut int) float64 {
	var sum, n int
	inSq, outSq := rIn*rIn, rOut*rOut
	for dy := -rOut; dy <= rOut; dy++ {
		y := cy + dy
		if y < 0 || y >= m.Height {
			continue
		}
		for dx := -rOut; dx <= rOut; dx++ {
			x := cx + dx
			if x < 0 || x >= m.Width {
				continue
			}
			d := dx*dx + dy*dy
			if d < inSq || d > outSq {
				continue
			}
			sum += int(m.At(x, y))
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// floodFill grows a 4-connected region of pixels strictly below the
// threshold, starting at the seed, capped at a fraction of the image area
// to bound runtime. The strict comparison keeps a featureless frame, where
// every pixel sits exactly at the derived threshold, from flooding wholesale.
func floodFill(m *IntensityMap, seedX, seedY int, threshold float64, p Params) []int {
	limit := int(p.FloodFillAreaCap * float64(m.Width*m.Height))
	if float64(m.At(seedX, seedY)) >= threshold {
		return nil
	}

	visited := make([]bool, m.Width*m.Height)
	seed := seedY*m.Width + seedX
	visited[seed] = true
	queue := []int{seed}
	points := make([]int, 0, limit)

	for len(queue) > 0 && len(points) < limit {
		idx := queue[0]
		queue = queue[1:]
		points = append(points, idx)

		x, y := idx%m.Width, idx/m.Width
		for _, n := range [4][2]int{{x - 1, y}, {x + 1, y}, {x, y - 1}, {x, y + 1}} {
			nx, ny := n[0], n[1]
			if nx < 0 || nx >= m.Width || ny < 0 || ny >= m.Height {
				continue
			}
			nidx := ny*m.Width + nx
			if visited[nidx] || float64(m.Data[nidx]) >= threshold {
				continue
			}
			visited[nidx] = true
			queue = append(queue, nidx)
		}
	}
	return points
}

// fitCircle fits a circle to the flooded region: center at the centroid,
// radius a scaled mean distance from it. The scale compensates for flood
// fill systematically undershooting the true edge at partial-volume
// boundary pixels.
func fitCircle(points []int, width int, p Params) Circle {
	var sumX, sumY int
	for _, idx := range points {
		sumX += idx % width
		sumY += idx / width
	}
	n := float64(len(points))
	cx := float64(sumX) / n
	cy := float64(sumY) / n

	var sumDist float64
	for _, idx := range points {
		dx := float64(idx%width) - cx
		dy := float64(idx/width) - cy
		sumDist += math.Sqrt(dx*dx + dy*dy)
	}
	return Circle{
		X: int(math.Round(cx)),
		Y: int(math.Round(cy)),
		R: int(math.Round(p.PupilRadiusScale * sumDist / n)),
	}
}
