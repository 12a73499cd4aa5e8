package detector

import "math"

// normalize converts a red-channel intensity map into one optimized for
// pupil/iris contrast: tile-based clip-limited adaptive histogram
// equalization followed by an adaptive gamma lift for dark captures.
// Pure function; the input map is left untouched.
func normalize(m *IntensityMap, p Params) *IntensityMap {
	return adaptiveGamma(claheEqualize(m, p), p)
}

// claheEqualize performs CLAHE: per-tile clipped histograms mapped through
// their CDFs, with each output pixel bilinearly interpolated between the
// mappings of the four nearest tile centers to avoid block artifacts.
func claheEqualize(m *IntensityMap, p Params) *IntensityMap {
	w, h := m.Width, m.Height
	tileW := maxInt(p.MinTileSize, w/p.TileDivisor)
	tileH := maxInt(p.MinTileSize, h/p.TileDivisor)
	nx := (w + tileW - 1) / tileW
	ny := (h + tileH - 1) / tileH

	luts := make([][]uint8, nx*ny)
	for ty := 0; ty < ny; ty++ {
		for tx := 0; tx < nx; tx++ {
			x0, y0 := tx*tileW, ty*tileH
			x1, y1 := minInt(x0+tileW, w), minInt(y0+tileH, h)
			luts[ty*nx+tx] = tileLUT(m, x0, y0, x1, y1, p.ClipLimit)
		}
	}

	out := NewIntensityMap(w, h)
	for y := 0; y < h; y++ {
		gy := (float64(y) - float64(tileH)/2) / float64(tileH)
		ty0 := clampInt(int(math.Floor(gy)), 0, ny-1)
		ty1 := clampInt(ty0+1, 0, ny-1)
		fy := clampFrac(gy - math.Floor(gy))
		if gy < 0 {
			fy = 0
		}
		for x := 0; x < w; x++ {
			gx := (float64(x) - float64(tileW)/2) / float64(tileW)
			tx0 := clampInt(int(math.Floor(gx)), 0, nx-1)
			tx1 := clampInt(tx0+1, 0, nx-1)
			fx := clampFrac(gx - math.Floor(gx))
			if gx < 0 {
				fx = 0
			}

			v := m.At(x, y)
			top := (1-fx)*float64(luts[ty0*nx+tx0][v]) + fx*float64(luts[ty0*nx+tx1][v])
			bot := (1-fx)*float64(luts[ty1*nx+tx0][v]) + fx*float64(luts[ty1*nx+tx1][v])
			out.set(x, y, clampByte(math.Round((1-fy)*top+fy*bot)))
		}
	}
	return out
}

// tileLUT builds the clipped-histogram CDF mapping for one tile.
func tileLUT(m *IntensityMap, x0, y0, x1, y1 int, clipLimit float64) []uint8 {
	var hist [256]int
	for y := y0; y < y1; y++ {
		row := y * m.Width
		for x := x0; x < x1; x++ {
			hist[m.Data[row+x]]++
		}
	}
	total := (x1 - x0) * (y1 - y0)

	// Clip bins above the limit and redistribute the excess uniformly.
	limit := int(math.Round(clipLimit * float64(total) / 256))
	if limit < 1 {
		limit = 1
	}
	excess := 0
	for i := range hist {
		if hist[i] > limit {
			excess += hist[i] - limit
			hist[i] = limit
		}
	}
	bonus := excess / 256
	for i := range hist {
		hist[i] += bonus
	}
	for i := 0; i < excess%256; i++ {
		hist[i]++
	}

	// CDF normalized to [0,255] with the minimum non-zero value as floor.
	var cdf [256]int
	running := 0
	cdfMin := 0
	for i := 0; i < 256; i++ {
		running += hist[i]
		cdf[i] = running
		if cdfMin == 0 && running > 0 {
			cdfMin = running
		}
	}

	lut := make([]uint8, 256)
	denom := total - cdfMin
	for i := 0; i < 256; i++ {
		if denom <= 0 {
			// Degenerate tile: all mass in the floor bin, nothing to spread.
			lut[i] = uint8(i)
			continue
		}
		lut[i] = clampByte(math.Round(255 * float64(cdf[i]-cdfMin) / float64(denom)))
	}
	return lut
}

// adaptiveGamma lifts dark captures by a bracket-selected gamma applied
// through a precomputed lookup table. Maps with mean intensity at or above
// the last bracket are returned unchanged.
func adaptiveGamma(m *IntensityMap, p Params) *IntensityMap {
	var sum uint64
	for _, v := range m.Data {
		sum += uint64(v)
	}
	mean := float64(sum) / float64(len(m.Data))

	gamma := 1.0
	for _, b := range p.GammaBrackets {
		if mean < b.MeanBelow {
			gamma = b.Gamma
			break
		}
	}
	if gamma == 1.0 {
		return m
	}

	var lut [256]uint8
	for i := 0; i < 256; i++ {
		lut[i] = clampByte(math.Round(255 * math.Pow(float64(i)/255, gamma)))
	}
	out := NewIntensityMap(m.Width, m.Height)
	for i, v := range m.Data {
		out.Data[i] = lut[v]
	}
	return out
}

func clampFrac(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
