package detector

// Method identifies which detection backend produced a result.
type Method string

const (
	// MethodClassical is the model-free localization engine in this package.
	MethodClassical Method = "classical"
	// MethodCloud is the remote segmentation service.
	MethodCloud Method = "cloud"
	// MethodFallback is the fixed manual-placement default used when every
	// provider has failed.
	MethodFallback Method = "fallback"
)

// Circle is a detected boundary in full-frame pixel coordinates.
type Circle struct {
	X int `json:"x"`
	Y int `json:"y"`
	R int `json:"r"`
}

// Confidence carries per-boundary certainty. The classical engine reports
// fixed method-level values rather than per-call quality scores; learned
// backends report whatever their model produces.
type Confidence struct {
	Pupil float64 `json:"pupil"`
	Iris  float64 `json:"iris"`
}

// DetectionResult is the common result shape shared by every detection
// backend. After the sanity clamp, Pupil.R < Iris.R and both circles lie
// inside the source image.
type DetectionResult struct {
	Pupil      Circle     `json:"pupil"`
	Iris       Circle     `json:"iris"`
	Confidence Confidence `json:"confidence"`
	Method     Method     `json:"method"`
}

// BothEyes holds independent per-eye results from a two-eye landscape
// capture. Left is the patient's left eye (OS), Right the patient's right
// eye (OD). The camera faces the patient, so OD comes from the left half
// of the pixel buffer and OS from the right half.
type BothEyes struct {
	Left  DetectionResult `json:"left"`
	Right DetectionResult `json:"right"`
}
