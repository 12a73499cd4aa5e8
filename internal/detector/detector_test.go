package detector

import (
	"image"
	"image/color"
	"testing"
)

// eyeImage paints a synthetic single-eye RGBA frame: bright background,
// mid-gray iris disc, dark pupil disc.
func eyeImage(width, height, cx, cy, pupilR, irisR int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			dx, dy := x-cx, y-cy
			d := dx*dx + dy*dy
			v := uint8(220)
			switch {
			case pupilR > 0 && d <= pupilR*pupilR:
				v = 20
			case irisR > 0 && d <= irisR*irisR:
				v = 90
			}
			img.Set(x, y, color.RGBA{v, v, v, 255})
		}
	}
	return img
}

// grayImage creates a uniform RGBA frame.
func grayImage(width, height int, v uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{v, v, v, 255})
		}
	}
	return img
}

func TestDetect_InvariantsHold(t *testing.T) {
	d := NewDefault()

	tests := []struct {
		name string
		img  *image.RGBA
	}{
		{"synthetic eye", eyeImage(300, 300, 150, 150, 20, 60)},
		{"off-center eye", eyeImage(320, 240, 130, 110, 15, 50)},
		{"uniform gray", grayImage(300, 300, 128)},
		{"uniform dark", grayImage(256, 256, 15)},
		{"pupil only", eyeImage(300, 300, 150, 150, 20, 0)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := d.Detect(tc.img)
			w, h := tc.img.Rect.Dx(), tc.img.Rect.Dy()

			if r.Pupil.R >= r.Iris.R {
				t.Errorf("pupil radius %d must stay below iris radius %d", r.Pupil.R, r.Iris.R)
			}
			for _, c := range []Circle{r.Pupil, r.Iris} {
				if c.X < 0 || c.X >= w || c.Y < 0 || c.Y >= h {
					t.Errorf("center (%d,%d) outside %dx%d frame", c.X, c.Y, w, h)
				}
			}
			if r.Method != MethodClassical {
				t.Errorf("expected classical method, got %s", r.Method)
			}
		})
	}
}

func TestDetect_Deterministic(t *testing.T) {
	d := NewDefault()
	img := eyeImage(300, 300, 150, 150, 20, 60)

	first := d.Detect(img)
	second := d.Detect(img)

	if first != second {
		t.Errorf("identical input produced different results: %+v vs %+v", first, second)
	}
}

func TestDetect_SyntheticEyeLocalization(t *testing.T) {
	d := NewDefault()
	img := eyeImage(300, 300, 150, 150, 20, 60)

	r := d.Detect(img)

	if abs(r.Pupil.X-150) > 5 || abs(r.Pupil.Y-150) > 5 {
		t.Errorf("expected pupil within 5px of (150,150), got (%d,%d)", r.Pupil.X, r.Pupil.Y)
	}
	if r.Pupil.R < 14 || r.Pupil.R > 26 {
		t.Errorf("expected pupil radius within 30%% of 20, got %d", r.Pupil.R)
	}
}

func TestDetect_UniformFrameUsesDefaults(t *testing.T) {
	d := NewDefault()
	img := grayImage(300, 300, 128)

	r := d.Detect(img)

	if abs(r.Pupil.X-150) > 15 || abs(r.Pupil.Y-150) > 15 {
		t.Errorf("expected center placement, got (%d,%d)", r.Pupil.X, r.Pupil.Y)
	}
	// 6% of 300, then iris at the 3x fallback.
	if r.Pupil.R < 15 || r.Pupil.R > 21 {
		t.Errorf("expected default pupil radius near 18, got %d", r.Pupil.R)
	}
}

func TestDetect_DownsamplesLargeFrames(t *testing.T) {
	d := NewDefault()
	img := eyeImage(1280, 960, 640, 480, 80, 240)

	r := d.Detect(img)

	if abs(r.Pupil.X-640) > 20 || abs(r.Pupil.Y-480) > 20 {
		t.Errorf("expected pupil near (640,480) after rescale, got (%d,%d)", r.Pupil.X, r.Pupil.Y)
	}
	if r.Pupil.R < 56 || r.Pupil.R > 104 {
		t.Errorf("expected pupil radius within 30%% of 80, got %d", r.Pupil.R)
	}
}

func TestDetectBuffer_MatchesDetect(t *testing.T) {
	d := NewDefault()
	img := eyeImage(300, 300, 150, 150, 20, 60)

	fromImage := d.Detect(img)
	fromBuffer := d.DetectBuffer(img.Pix, 300, 300)

	if fromImage != fromBuffer {
		t.Errorf("buffer path diverged: %+v vs %+v", fromBuffer, fromImage)
	}
}

// twoEyeImage paints a 2Wx H frame with one synthetic eye per half.
func twoEyeImage(halfWidth, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2*halfWidth, height))
	for _, offset := range []int{0, halfWidth} {
		cx := offset + halfWidth/2
		for y := 0; y < height; y++ {
			for x := offset; x < offset+halfWidth; x++ {
				dx, dy := x-cx, y-height/2
				d := dx*dx + dy*dy
				v := uint8(220)
				switch {
				case d <= 15*15:
					v = 20
				case d <= 50*50:
					v = 90
				}
				img.Set(x, y, color.RGBA{v, v, v, 255})
			}
		}
	}
	return img
}

func TestDetectBoth_AnatomicalMapping(t *testing.T) {
	d := NewDefault()
	img := twoEyeImage(320, 240)

	both := d.DetectBoth(img)

	// Camera faces the patient: left half is the right eye (OD), right
	// half the left eye (OS), translated back to full-frame coordinates.
	if abs(both.Right.Pupil.X-160) > 10 {
		t.Errorf("expected OD pupil near x=160, got %d", both.Right.Pupil.X)
	}
	if abs(both.Left.Pupil.X-480) > 10 {
		t.Errorf("expected OS pupil near x=480 after offset, got %d", both.Left.Pupil.X)
	}
}

func TestDetectBoth_EquivalentToIndependentHalves(t *testing.T) {
	d := NewDefault()
	img := twoEyeImage(320, 240)

	both := d.DetectBoth(img)

	halfA := image.NewRGBA(image.Rect(0, 0, 320, 240))
	halfB := image.NewRGBA(image.Rect(0, 0, 320, 240))
	for y := 0; y < 240; y++ {
		for x := 0; x < 320; x++ {
			halfA.Set(x, y, img.At(x, y))
			halfB.Set(x, y, img.At(x+320, y))
		}
	}
	od := d.Detect(halfA)
	osEye := d.Detect(halfB)
	osEye.Pupil.X += 320
	osEye.Iris.X += 320

	if both.Right != od {
		t.Errorf("OD result diverged from the standalone half: %+v vs %+v", both.Right, od)
	}
	if both.Left != osEye {
		t.Errorf("OS result diverged from the offset standalone half: %+v vs %+v", both.Left, osEye)
	}
}

func TestSanityClamp(t *testing.T) {
	p := DefaultParams()

	tests := []struct {
		name         string
		pupil, iris  Circle
		checkPupilR  func(pupil, iris Circle) bool
	}{
		{
			"pupil swallowing iris",
			Circle{150, 150, 58}, Circle{150, 150, 60},
			func(pupil, iris Circle) bool { return pupil.R == 24 },
		},
		{
			"oversized iris",
			Circle{150, 150, 20}, Circle{150, 150, 160},
			func(pupil, iris Circle) bool { return iris.R == 105 },
		},
		{
			"vanishing pupil",
			Circle{150, 150, 2}, Circle{150, 150, 60},
			func(pupil, iris Circle) bool { return pupil.R == 12 },
		},
		{
			"iris crossing the frame edge",
			Circle{50, 150, 20}, Circle{50, 150, 90},
			func(pupil, iris Circle) bool { return iris.R == 50 && iris.X-iris.R >= 0 },
		},
		{
			"ordering outranks extent hard against the edge",
			Circle{10, 150, 12}, Circle{10, 150, 40},
			func(pupil, iris Circle) bool { return iris.R == 40 },
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pupil, iris := sanityClamp(tc.pupil, tc.iris, 300, 300, p)
			if !tc.checkPupilR(pupil, iris) {
				t.Errorf("unexpected clamp output pupil=%+v iris=%+v", pupil, iris)
			}
			if pupil.R >= iris.R {
				t.Errorf("ordering violated after clamp: pupil %d, iris %d", pupil.R, iris.R)
			}
		})
	}
}
