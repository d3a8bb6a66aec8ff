package schema

import "encoding/json"

// FileMetrics is the merged metric record for one file.
// Every field is nil until some collaborator reports it; nil is serialized as null.
type FileMetrics struct {
	Cyclomatic           *float64 `json:"cyclomatic"`
	Cognitive            *float64 `json:"cognitive"`
	HalsteadVolume       *float64 `json:"halsteadVolume"`
	MaintainabilityIndex *float64 `json:"maintainabilityIndex"`
	LocLogical           *float64 `json:"locLogical"`
	LocPhysical          *float64 `json:"locPhysical"`
	ImportCount          *int     `json:"importCount"`
	StateCount           *int     `json:"stateCount"`
	AnyCount             *int     `json:"anyCount"`
	AssertionCount       *int     `json:"assertionCount"`
	TSIgnoreCount        *int     `json:"tsIgnoreCount"`
	LineCoverage         *float64 `json:"lineCoverage"`
	BranchCoverage       *float64 `json:"branchCoverage"`
	MutationScore        *float64 `json:"mutationScore"`
	ChurnLines           *int     `json:"churnLines"`
	ChurnTouches         *int     `json:"churnTouches"`
	FanIn                *int     `json:"fanIn"`
	FanOut               *int     `json:"fanOut"`
	Instability          *float64 `json:"instability"`
	Circular             *bool    `json:"circular"`
	TypeDiagnosticCount  *int     `json:"typeDiagnosticCount"`
}

// MetricPatch is the partial record one collaborator reports for one file.
// CyclomaticApprox is a structural estimate that only fills Cyclomatic when
// no collaborator reported an exact value.
type MetricPatch struct {
	FileMetrics
	CyclomaticApprox *float64 `json:"cyclomaticApprox,omitempty"`
}

// Apply overwrites the fields of m that p reports.
func (p MetricPatch) Apply(m *FileMetrics) {
	setF := func(dst **float64, src *float64) {
		if src != nil {
			v := *src
			*dst = &v
		}
	}
	setI := func(dst **int, src *int) {
		if src != nil {
			v := *src
			*dst = &v
		}
	}

	setF(&m.Cyclomatic, p.Cyclomatic)
	setF(&m.Cognitive, p.Cognitive)
	setF(&m.HalsteadVolume, p.HalsteadVolume)
	setF(&m.MaintainabilityIndex, p.MaintainabilityIndex)
	setF(&m.LocLogical, p.LocLogical)
	setF(&m.LocPhysical, p.LocPhysical)
	setI(&m.ImportCount, p.ImportCount)
	setI(&m.StateCount, p.StateCount)
	setI(&m.AnyCount, p.AnyCount)
	setI(&m.AssertionCount, p.AssertionCount)
	setI(&m.TSIgnoreCount, p.TSIgnoreCount)
	setF(&m.LineCoverage, p.LineCoverage)
	setF(&m.BranchCoverage, p.BranchCoverage)
	setF(&m.MutationScore, p.MutationScore)
	setI(&m.ChurnLines, p.ChurnLines)
	setI(&m.ChurnTouches, p.ChurnTouches)
	setI(&m.FanIn, p.FanIn)
	setI(&m.FanOut, p.FanOut)
	setF(&m.Instability, p.Instability)
	if p.Circular != nil {
		v := *p.Circular
		m.Circular = &v
	}
	setI(&m.TypeDiagnosticCount, p.TypeDiagnosticCount)
}

// FileEntry is one file in the quantitative document.
type FileEntry struct {
	Path         string      `json:"path"`
	Metrics      FileMetrics `json:"metrics"`
	HotspotScore *float64    `json:"hotspotScore"`
}

// fileMetricsInput is the lenient decoding form of FileMetrics. Producers
// other than collect may write counts as floats (12.5, 2.0).
type fileMetricsInput struct {
	Cyclomatic           OptionalNumber  `json:"cyclomatic"`
	Cognitive            OptionalNumber  `json:"cognitive"`
	HalsteadVolume       OptionalNumber  `json:"halsteadVolume"`
	MaintainabilityIndex OptionalNumber  `json:"maintainabilityIndex"`
	LocLogical           OptionalNumber  `json:"locLogical"`
	LocPhysical          OptionalNumber  `json:"locPhysical"`
	ImportCount          OptionalNumber  `json:"importCount"`
	StateCount           OptionalNumber  `json:"stateCount"`
	AnyCount             OptionalNumber  `json:"anyCount"`
	AssertionCount       OptionalNumber  `json:"assertionCount"`
	TSIgnoreCount        OptionalNumber  `json:"tsIgnoreCount"`
	LineCoverage         OptionalNumber  `json:"lineCoverage"`
	BranchCoverage       OptionalNumber  `json:"branchCoverage"`
	MutationScore        OptionalNumber  `json:"mutationScore"`
	ChurnLines           OptionalNumber  `json:"churnLines"`
	ChurnTouches         OptionalNumber  `json:"churnTouches"`
	FanIn                OptionalNumber  `json:"fanIn"`
	FanOut               OptionalNumber  `json:"fanOut"`
	Instability          OptionalNumber  `json:"instability"`
	Circular             json.RawMessage `json:"circular"`
	TypeDiagnosticCount  OptionalNumber  `json:"typeDiagnosticCount"`
}

func (in fileMetricsInput) metrics() FileMetrics {
	m := FileMetrics{
		Cyclomatic:           in.Cyclomatic.Ptr(),
		Cognitive:            in.Cognitive.Ptr(),
		HalsteadVolume:       in.HalsteadVolume.Ptr(),
		MaintainabilityIndex: in.MaintainabilityIndex.Ptr(),
		LocLogical:           in.LocLogical.Ptr(),
		LocPhysical:          in.LocPhysical.Ptr(),
		ImportCount:          in.ImportCount.Count(),
		StateCount:           in.StateCount.Count(),
		AnyCount:             in.AnyCount.Count(),
		AssertionCount:       in.AssertionCount.Count(),
		TSIgnoreCount:        in.TSIgnoreCount.Count(),
		LineCoverage:         in.LineCoverage.Ptr(),
		BranchCoverage:       in.BranchCoverage.Ptr(),
		MutationScore:        in.MutationScore.Ptr(),
		ChurnLines:           in.ChurnLines.Count(),
		ChurnTouches:         in.ChurnTouches.Count(),
		FanIn:                in.FanIn.Count(),
		FanOut:               in.FanOut.Count(),
		Instability:          in.Instability.Ptr(),
		TypeDiagnosticCount:  in.TypeDiagnosticCount.Count(),
	}
	var circular bool
	if len(in.Circular) > 0 && json.Unmarshal(in.Circular, &circular) == nil && string(in.Circular) != "null" {
		m.Circular = &circular
	}
	return m
}

// UnmarshalJSON implements json.Unmarshaler. Metric values of the wrong kind
// decode as absent and counts are rounded to integers.
func (e *FileEntry) UnmarshalJSON(data []byte) error {
	var raw struct {
		Path         string           `json:"path"`
		Metrics      fileMetricsInput `json:"metrics"`
		HotspotScore OptionalNumber   `json:"hotspotScore"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = FileEntry{
		Path:         raw.Path,
		Metrics:      raw.Metrics.metrics(),
		HotspotScore: raw.HotspotScore.Ptr(),
	}
	return nil
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// IntAsFloat widens an optional int.
func IntAsFloat(v *int) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}
