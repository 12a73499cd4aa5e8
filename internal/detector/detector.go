package detector

import (
	"image"
	"image/draw"
	"math"
)

// Detector is the classical, model-free localization engine. It is
// stateless beyond its immutable parameters: every call is pure over its
// inputs, so concurrent invocations on independent images never interact.
type Detector struct {
	params Params
}

// New creates a detector with the given parameters.
func New(params Params) *Detector {
	return &Detector{params: params}
}

// NewDefault creates a detector with the shipped tuning.
func NewDefault() *Detector {
	return New(DefaultParams())
}

// Params returns the detector's parameters.
func (d *Detector) Params() Params {
	return d.params
}

// Detect runs the single-eye pipeline on an RGBA frame: contrast
// normalization, pupil localization, iris localization, sanity clamp.
// It always produces a usable result; degraded inputs silently fall back
// to documented heuristic defaults. The caller guarantees positive
// dimensions.
func (d *Detector) Detect(img image.Image) DetectionResult {
	return d.detectMap(redChannel(toRGBA(img)))
}

// DetectBuffer runs the single-eye pipeline on a raw RGBA pixel buffer,
// the shape a camera capture stage supplies.
func (d *Detector) DetectBuffer(pix []uint8, width, height int) DetectionResult {
	return d.Detect(&image.RGBA{Pix: pix, Stride: 4 * width, Rect: image.Rect(0, 0, width, height)})
}

// DetectBoth partitions a two-eye landscape capture at the horizontal
// midpoint and runs the single-eye pipeline independently on each half.
// The camera faces the patient, so the left half of the buffer is the
// patient's right eye (OD) and the right half the left eye (OS); OS
// coordinates are translated back into full-frame space.
func (d *Detector) DetectBoth(img image.Image) BothEyes {
	m := redChannel(toRGBA(img))
	leftHalf, rightHalf := m.splitHalves()
	mid := m.Width / 2

	rightEye := d.detectMap(leftHalf)
	leftEye := d.detectMap(rightHalf)
	leftEye.Pupil.X += mid
	leftEye.Iris.X += mid

	return BothEyes{Left: leftEye, Right: rightEye}
}

// detectMap is the full pipeline over a raw red-channel intensity map.
func (d *Detector) detectMap(raw *IntensityMap) DetectionResult {
	p := d.params
	norm := normalize(raw, p)

	// Bound cost on high-resolution frames: the pupil search runs on a
	// box-filtered reduction, the iris search stays at full resolution.
	factor := 1
	pupilMap := norm
	if norm.Width > p.DownsampleWidth {
		factor = norm.Width / p.DownsampleWidth
		pupilMap = boxDownsample(norm, factor)
	}

	pupil := locatePupil(gaussianBlur(pupilMap, p.PupilBlurRadius), p)
	if factor > 1 {
		pupil.X *= factor
		pupil.Y *= factor
		pupil.R *= factor
	}
	pupil = clampCenter(pupil, norm.Width, norm.Height)

	iris := locateIris(gaussianBlur(norm, p.IrisBlurRadius), pupil, p)

	pupil, iris = sanityClamp(pupil, iris, norm.Width, norm.Height, p)
	return DetectionResult{
		Pupil:      pupil,
		Iris:       iris,
		Confidence: p.ClassicalConfidence,
		Method:     MethodClassical,
	}
}

// sanityClamp enforces the global plausibility bounds after detection:
// the pupil stays strictly inside the iris, the iris stays a plausible
// fraction of the frame and inside its edges, and the pupil never
// collapses below a visible size. The ordering bound outranks the
// extent bound when a center sits hard against an edge.
func sanityClamp(pupil, iris Circle, width, height int, p Params) (Circle, Circle) {
	minDim := float64(minInt(width, height))

	if float64(iris.R) > p.MaxIrisClampIn*minDim {
		iris.R = int(math.Round(p.MaxIrisClampOut * minDim))
	}
	if float64(pupil.R) >= float64(iris.R)*p.PupilIrisMax {
		pupil.R = int(math.Round(float64(iris.R) * p.PupilClampScale))
	}
	if pupil.R < p.MinPupilRadius {
		pupil.R = int(math.Round(p.TinyPupilScale * minDim))
	}
	if iris.R <= pupil.R {
		iris.R = pupil.R + p.MinIrisMargin
	}

	// The ray scan already stops at the frame edge; only the fallback
	// and ordering-floor radii can cross it.
	edge := minInt(minInt(iris.X, width-1-iris.X), minInt(iris.Y, height-1-iris.Y))
	if iris.R > edge && edge > pupil.R {
		iris.R = edge
	}
	return pupil, iris
}

func clampCenter(c Circle, width, height int) Circle {
	c.X = clampInt(c.X, 0, width-1)
	c.Y = clampInt(c.Y, 0, height-1)
	return c
}

// toRGBA converts any decoded image into the RGBA layout the pipeline
// consumes, without copying when the input already is one.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
