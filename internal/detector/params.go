package detector

// GammaBracket maps a mean-intensity upper bound to the gamma applied
// below it. Brackets are evaluated in order; the first match wins.
type GammaBracket struct {
	MeanBelow float64
	Gamma     float64
}

// Params collects every tuned constant of the classical pipeline in one
// immutable structure, so the algorithm code stays free of magic numbers
// and tests can pin a deterministic fixture.
//
// PupilRadiusScale and IrisOutlierBand are empirically tuned against
// handheld phone captures and have no documented derivation. Treat them
// as calibration-sensitive: they do not necessarily generalize to other
// camera resolutions or sensor types.
type Params struct {
	// Contrast normalization.
	ClipLimit   float64 // CLAHE histogram clip, as a multiple of the uniform bin count
	TileDivisor int     // tiles per axis: tile edge = image_dim / TileDivisor
	MinTileSize int     // lower bound on tile edge, pixels

	// Adaptive gamma brackets, ordered by ascending MeanBelow. Means at or
	// above the last bracket leave the map unchanged.
	GammaBrackets []GammaBracket

	// Pupil search.
	PupilBlurRadius    int
	WindowFraction     float64 // darkest-window edge as a fraction of min(w,h)
	MinWindowSize      int     // pixels
	SearchMargin       float64 // central-region margin excluded per side
	FloodFillAreaCap   float64 // fraction of total image area
	MinRegionPixels    int     // below this the seed-centered default is used
	PupilRadiusScale   float64 // compensates flood fill undershooting the true edge
	DefaultPupilRadius float64 // fraction of min(w,h) for the degenerate default

	// Adaptive threshold blend factors by dark/surround contrast ratio.
	LowContrastRatio  float64
	MidContrastRatio  float64
	LowContrastBlend  float64
	MidContrastBlend  float64
	HighContrastBlend float64

	// Iris search.
	IrisBlurRadius    int
	RayCount          int     // evenly spaced angles around the pupil center
	RayStartOffset    int     // pixels past the pupil radius
	MinEdgeAdvance    int     // candidates closer than this to the start are ignored
	MaxIrisFraction   float64 // of min(w,h)
	MinGradient       float64 // intensity levels
	MinRayCandidates  int
	IrisFallbackScale float64 // iris.R = pupil.R * scale when rays fail
	IrisOutlierBand   float64 // +/- fraction of the candidate median
	MinIrisMargin     int     // iris.R >= pupil.R + MinIrisMargin

	// Global sanity clamp.
	PupilIrisMax    float64 // trigger: pupil.R >= iris.R * PupilIrisMax
	PupilClampScale float64 // pupil.R = iris.R * PupilClampScale
	MaxIrisClampIn  float64 // trigger: iris.R > MaxIrisClampIn * min(w,h)
	MaxIrisClampOut float64
	MinPupilRadius  int
	TinyPupilScale  float64 // of min(w,h)

	// Cost bound on high-resolution frames: box-filter downsample before
	// the pupil search when width exceeds this.
	DownsampleWidth int

	// Fixed method-level confidence of the classical path.
	ClassicalConfidence Confidence
}

// DefaultParams returns the tuning the pipeline ships with.
func DefaultParams() Params {
	return Params{
		ClipLimit:   3.0,
		TileDivisor: 8,
		MinTileSize: 8,
		GammaBrackets: []GammaBracket{
			{MeanBelow: 60, Gamma: 0.4},
			{MeanBelow: 100, Gamma: 0.6},
			{MeanBelow: 150, Gamma: 0.8},
		},

		PupilBlurRadius:    5,
		WindowFraction:     0.06,
		MinWindowSize:      20,
		SearchMargin:       0.15,
		FloodFillAreaCap:   0.15,
		MinRegionPixels:    20,
		PupilRadiusScale:   1.5,
		DefaultPupilRadius: 0.06,

		LowContrastRatio:  0.15,
		MidContrastRatio:  0.30,
		LowContrastBlend:  0.20,
		MidContrastBlend:  0.30,
		HighContrastBlend: 0.35,

		IrisBlurRadius:    3,
		RayCount:          72,
		RayStartOffset:    5,
		MinEdgeAdvance:    5,
		MaxIrisFraction:   0.45,
		MinGradient:       3,
		MinRayCandidates:  10,
		IrisFallbackScale: 3.0,
		IrisOutlierBand:   0.25,
		MinIrisMargin:     10,

		PupilIrisMax:    0.95,
		PupilClampScale: 0.4,
		MaxIrisClampIn:  0.45,
		MaxIrisClampOut: 0.35,
		MinPupilRadius:  5,
		TinyPupilScale:  0.04,

		DownsampleWidth: 640,

		ClassicalConfidence: Confidence{Pupil: 0.6, Iris: 0.5},
	}
}
