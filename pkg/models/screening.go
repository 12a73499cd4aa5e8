package models

// CircleModel is a detected boundary in full-frame pixel coordinates.
type CircleModel struct {
	X int `json:"x"`
	Y int `json:"y"`
	R int `json:"r"`
}

// ConfidenceModel carries the per-boundary confidence of a detection.
type ConfidenceModel struct {
	Pupil float64 `json:"pupil"`
	Iris  float64 `json:"iris"`
}

// EyeResult is the per-eye screening outcome: the detected boundaries,
// the scale-invariant ratio, and the estimated physical pupil size.
type EyeResult struct {
	Pupil           CircleModel     `json:"pupil"`
	Iris            CircleModel     `json:"iris"`
	Ratio           float64         `json:"ratio"`
	PupilDiameterMM float64         `json:"pupil_diameter_mm"`
	Confidence      ConfidenceModel `json:"confidence"`
	Method          string          `json:"method"`
}

// EyeComparisonModel summarizes a two-eye screening.
type EyeComparisonModel struct {
	LeftRatio  float64 `json:"left_ratio"`
	RightRatio float64 `json:"right_ratio"`
	Difference float64 `json:"difference"`
	Anisocoria bool    `json:"anisocoria"`
}

// ScreeningResponse is the API response for a screening request. Eye is
// set for single-eye captures; Left, Right, and Comparison for dual-eye
// captures.
type ScreeningResponse struct {
	ImageURL          string   `json:"image_url,omitempty"`
	Timestamp         string   `json:"timestamp"`
	ProcessingTimeSec float64  `json:"processing_time_sec"`
	QualityIssues     []string `json:"quality_issues,omitempty"`

	Eye *EyeResult `json:"eye,omitempty"`

	Left       *EyeResult          `json:"left,omitempty"`
	Right      *EyeResult          `json:"right,omitempty"`
	Comparison *EyeComparisonModel `json:"comparison,omitempty"`
}

// ScreeningRequest is the API request body. Exactly one of URL and
// ImageBase64 must be set.
type ScreeningRequest struct {
	URL         string `json:"url,omitempty"`
	ImageBase64 string `json:"image_base64,omitempty"`
	DualEye     bool   `json:"dual_eye,omitempty"`
}

// BatchScreeningRequest screens several captures in one call.
type BatchScreeningRequest struct {
	URLs    []string `json:"urls"`
	DualEye bool     `json:"dual_eye,omitempty"`
}

// BatchScreeningResult pairs one capture URL with its outcome.
type BatchScreeningResult struct {
	URL      string             `json:"url"`
	Error    string             `json:"error,omitempty"`
	Response *ScreeningResponse `json:"response,omitempty"`
}

// BatchScreeningResponse is the API response for a batch request.
// Results keep the request order.
type BatchScreeningResponse struct {
	Results []BatchScreeningResult `json:"results"`
}
