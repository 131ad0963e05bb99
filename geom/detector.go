package geom

// Corner strings of the instrumented volume, x-y positions of the outermost
// strings in meters, and the z range of the instrumented depth.
var detectorFootprint = [][2]float64{
	{-570.90, -125.14},
	{-256.14, -521.08},
	{361.00, -422.83},
	{576.37, 170.92},
	{338.44, 463.72},
	{-347.88, 451.52},
}

const (
	// DetectorZMin and DetectorZMax bound the instrumented depth in
	// detector coordinates.
	DetectorZMin = -512.82
	DetectorZMax = 524.56

	// DefaultExtendBoundary is the margin added to the detector boundary
	// when no explicit hull is supplied to the interaction search.
	DefaultExtendBoundary = 200.0
)

var detector *ConvexHull

func init() {
	var err error
	detector, err = NewPrism(detectorFootprint, DetectorZMin, DetectorZMax)
	if err != nil {
		panic("geom: bad built-in detector boundary: " + err.Error())
	}
}

// Detector returns the hull of the instrumented volume.
func Detector() *ConvexHull { return detector }

// InDetectorBounds reports whether p lies within the detector boundary
// extended outward by margin meters.
func InDetectorBounds(p Vec, margin float64) bool {
	return detector.ContainsMargin(p, margin)
}

// DetectorVolume returns the detector boundary extended by margin meters as
// a Volume.
func DetectorVolume(margin float64) Volume {
	return Extended{Hull: detector, Margin: margin}
}
