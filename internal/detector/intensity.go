package detector

import (
	"image"
	"math"
)

// IntensityMap is a single-channel 8-bit image stored row-major. Every
// pipeline stage consumes and produces one of these; none of them mutate
// their input.
type IntensityMap struct {
	Data   []uint8
	Width  int
	Height int
}

// NewIntensityMap allocates a zeroed map.
func NewIntensityMap(width, height int) *IntensityMap {
	return &IntensityMap{
		Data:   make([]uint8, width*height),
		Width:  width,
		Height: height,
	}
}

// At returns the intensity at (x, y). Callers keep coordinates in bounds.
func (m *IntensityMap) At(x, y int) uint8 {
	return m.Data[y*m.Width+x]
}

func (m *IntensityMap) set(x, y int, v uint8) {
	m.Data[y*m.Width+x] = v
}

// redChannel extracts the red byte of each pixel as the grayscale value.
// Melanin absorbs blue and green but reflects red, so the red channel
// carries the strongest pupil/iris edge contrast.
func redChannel(img *image.RGBA) *IntensityMap {
	b := img.Bounds()
	m := NewIntensityMap(b.Dx(), b.Dy())
	for y := 0; y < m.Height; y++ {
		row := img.Pix[(y+b.Min.Y-img.Rect.Min.Y)*img.Stride:]
		for x := 0; x < m.Width; x++ {
			m.Data[y*m.Width+x] = row[(x+b.Min.X-img.Rect.Min.X)*4]
		}
	}
	return m
}

// splitHalves partitions the map at the horizontal midpoint into two
// equal-width sub-maps. An odd trailing column goes to neither half.
func (m *IntensityMap) splitHalves() (left, right *IntensityMap) {
	mid := m.Width / 2
	left = NewIntensityMap(mid, m.Height)
	right = NewIntensityMap(mid, m.Height)
	for y := 0; y < m.Height; y++ {
		copy(left.Data[y*mid:(y+1)*mid], m.Data[y*m.Width:y*m.Width+mid])
		copy(right.Data[y*mid:(y+1)*mid], m.Data[y*m.Width+mid:y*m.Width+2*mid])
	}
	return left, right
}

// boxDownsample reduces the map by an integer factor, averaging each
// factor-by-factor block. Trailing rows and columns that do not fill a
// whole block are dropped.
func boxDownsample(m *IntensityMap, factor int) *IntensityMap {
	if factor <= 1 {
		return m
	}
	nw, nh := m.Width/factor, m.Height/factor
	out := NewIntensityMap(nw, nh)
	for oy := 0; oy < nh; oy++ {
		for ox := 0; ox < nw; ox++ {
			sum := 0
			for dy := 0; dy < factor; dy++ {
				row := (oy*factor + dy) * m.Width
				for dx := 0; dx < factor; dx++ {
					sum += int(m.Data[row+ox*factor+dx])
				}
			}
			out.Data[oy*nw+ox] = uint8(sum / (factor * factor))
		}
	}
	return out
}

// gaussianBlur applies a separable Gaussian of the given radius with
// edge-clamped sampling. Kernel size is 2*radius+1, sigma radius/2.
func gaussianBlur(m *IntensityMap, radius int) *IntensityMap {
	if radius <= 0 {
		out := NewIntensityMap(m.Width, m.Height)
		copy(out.Data, m.Data)
		return out
	}
	kernel := gaussianKernel(radius)

	tmp := NewIntensityMap(m.Width, m.Height)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			var acc float64
			for k := -radius; k <= radius; k++ {
				sx := clampInt(x+k, 0, m.Width-1)
				acc += kernel[k+radius] * float64(m.At(sx, y))
			}
			tmp.set(x, y, clampByte(math.Round(acc)))
		}
	}

	out := NewIntensityMap(m.Width, m.Height)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			var acc float64
			for k := -radius; k <= radius; k++ {
				sy := clampInt(y+k, 0, m.Height-1)
				acc += kernel[k+radius] * float64(tmp.At(x, sy))
			}
			out.set(x, y, clampByte(math.Round(acc)))
		}
	}
	return out
}

func gaussianKernel(radius int) []float64 {
	sigma := float64(radius) / 2
	kernel := make([]float64, 2*radius+1)
	var sum float64
	for i := -radius; i <= radius; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+radius] = v
		sum += v
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
