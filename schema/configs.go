package schema

// HotspotCalibration holds the per-file hotspot blend. Each component is
// scaled, clamped to [0,100], then weighted.
type HotspotCalibration struct {
	CyclomaticScale  float64 `json:"cyclomaticScale"`
	CognitiveScale   float64 `json:"cognitiveScale"`
	ChurnDivisor     float64 `json:"churnDivisor"`
	InstabilityScale float64 `json:"instabilityScale"`
	AnyScale         float64 `json:"anyScale"`

	CyclomaticWeight  float64 `json:"cyclomaticWeight"`
	CognitiveWeight   float64 `json:"cognitiveWeight"`
	ChurnWeight       float64 `json:"churnWeight"`
	InstabilityWeight float64 `json:"instabilityWeight"`
	AnyWeight         float64 `json:"anyWeight"`

	// Ratio is the fraction of files selected for qualitative review.
	Ratio float64 `json:"ratio"`
}

// AxisCalibration holds the normalizers used to turn metric averages into sub-risks.
type AxisCalibration struct {
	CyclomaticCeiling float64 `json:"cyclomaticCeiling"`
	CognitiveCeiling  float64 `json:"cognitiveCeiling"`
	HalsteadCeiling   float64 `json:"halsteadCeiling"`
	ChurnCeiling      float64 `json:"churnCeiling"`

	DiagnosticScale float64 `json:"diagnosticScale"`
	AnyDensityScale float64 `json:"anyDensityScale"`
	IgnoreScale     float64 `json:"ignoreScale"`
	AssertionScale  float64 `json:"assertionScale"`

	LineCoverageWeight   float64 `json:"lineCoverageWeight"`
	BranchCoverageWeight float64 `json:"branchCoverageWeight"`
	MutationWeight       float64 `json:"mutationWeight"`
	GapDivisor           float64 `json:"gapDivisor"`
	GapPenaltyCap        float64 `json:"gapPenaltyCap"`
}

// Calibration groups every tunable threshold of the scoring engine.
type Calibration struct {
	Hotspot HotspotCalibration `json:"hotspot"`
	Axes    AxisCalibration    `json:"axes"`
}

// DefaultCalibration returns the calibrated defaults.
func DefaultCalibration() Calibration {
	return Calibration{
		Hotspot: HotspotCalibration{
			CyclomaticScale:   3,
			CognitiveScale:    2.5,
			ChurnDivisor:      8,
			InstabilityScale:  100,
			AnyScale:          10,
			CyclomaticWeight:  0.30,
			CognitiveWeight:   0.25,
			ChurnWeight:       0.20,
			InstabilityWeight: 0.15,
			AnyWeight:         0.10,
			Ratio:             0.2,
		},
		Axes: AxisCalibration{
			CyclomaticCeiling:    20,
			CognitiveCeiling:     25,
			HalsteadCeiling:      800,
			ChurnCeiling:         600,
			DiagnosticScale:      5,
			AnyDensityScale:      8,
			IgnoreScale:          20,
			AssertionScale:       5,
			LineCoverageWeight:   0.35,
			BranchCoverageWeight: 0.35,
			MutationWeight:       0.30,
			GapDivisor:           2,
			GapPenaltyCap:        30,
		},
	}
}
