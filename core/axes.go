package core

import (
	"fmt"

	"github.com/gihwan-dev/codehealth/schema"
)

// AxesResult holds the four axes, the overall quantitative summary and the axes
// that had no data.
type AxesResult struct {
	Axes        schema.AxisSet
	Summary     schema.QuantSummary
	Unavailable []string
}

// ComputeAxes scores the four risk axes over all file entries and blends them
// into the quantitative score. An axis without any computable sub-risk is null
// and contributes zero to the overall score.
func ComputeAxes(entries []schema.FileEntry, cal schema.AxisCalibration) AxesResult {
	scores := map[schema.AxisName]*float64{
		schema.ComplexityAxis:      complexityScore(entries, cal),
		schema.TypeSafetyAxis:      typeSafetyScore(entries, cal),
		schema.TestReliabilityAxis: testReliabilityScore(entries, cal),
		schema.ChangeRiskAxis:      changeRiskScore(entries, cal),
	}

	axes := make(schema.AxisSet, len(schema.AllAxes))
	unavailable := []string{}
	overall := 0.0
	for _, name := range schema.AllAxes {
		score := scores[name]
		weight := schema.AxisWeights[name]
		axes[name] = schema.AxisScore{Weight: weight, Score: score}
		if score == nil {
			unavailable = append(unavailable, fmt.Sprintf("axis.%s.not-enough-data", name))
			continue
		}
		overall += *score * float64(weight) / 100
	}
	overall = schema.Round2(overall)

	return AxesResult{
		Axes:        axes,
		Summary:     schema.QuantSummary{QuantitativeScore: overall, QuantitativeGrade: schema.GradeFromScore(overall)},
		Unavailable: unavailable,
	}
}

// metricMean averages one field across entries, skipping absent values.
func metricMean(entries []schema.FileEntry, pick func(schema.FileEntry) *float64) *float64 {
	values := make([]*float64, 0, len(entries))
	for _, e := range entries {
		values = append(values, pick(e))
	}
	return schema.Mean(values...)
}

// risk scales an optional average into a clamped 0-100 sub-risk.
func risk(avg *float64, scale float64) *float64 {
	if avg == nil {
		return nil
	}
	return schema.Float(schema.Clamp(*avg*scale, 0, 100))
}

// ceilingRisk is the share of ceiling reached by avg, as a clamped percentage.
func ceilingRisk(avg *float64, ceiling float64) *float64 {
	if avg == nil || ceiling <= 0 {
		return nil
	}
	return schema.Float(schema.Clamp(*avg/ceiling*100, 0, 100))
}

// health converts a mean risk into a rounded health score.
func health(risks ...*float64) *float64 {
	mean := schema.Mean(risks...)
	if mean == nil {
		return nil
	}
	return schema.Float(schema.Round2(100 - *mean))
}

func complexityScore(entries []schema.FileEntry, cal schema.AxisCalibration) *float64 {
	ccAvg := metricMean(entries, func(e schema.FileEntry) *float64 { return e.Metrics.Cyclomatic })
	cogAvg := metricMean(entries, func(e schema.FileEntry) *float64 { return e.Metrics.Cognitive })
	halAvg := metricMean(entries, func(e schema.FileEntry) *float64 { return e.Metrics.HalsteadVolume })
	miAvg := metricMean(entries, func(e schema.FileEntry) *float64 { return e.Metrics.MaintainabilityIndex })

	var miRisk *float64
	if miAvg != nil {
		miRisk = schema.Float(100 - schema.Clamp(*miAvg, 0, 100))
	}
	return health(
		ceilingRisk(ccAvg, cal.CyclomaticCeiling),
		ceilingRisk(cogAvg, cal.CognitiveCeiling),
		ceilingRisk(halAvg, cal.HalsteadCeiling),
		miRisk,
	)
}

func typeSafetyScore(entries []schema.FileEntry, cal schema.AxisCalibration) *float64 {
	var totalLoc, totalAny, totalIgnore, totalAssertion float64
	for _, e := range entries {
		if e.Metrics.LocLogical != nil {
			totalLoc += *e.Metrics.LocLogical
		}
		if e.Metrics.AnyCount != nil {
			totalAny += float64(*e.Metrics.AnyCount)
		}
		if e.Metrics.TSIgnoreCount != nil {
			totalIgnore += float64(*e.Metrics.TSIgnoreCount)
		}
		if e.Metrics.AssertionCount != nil {
			totalAssertion += float64(*e.Metrics.AssertionCount)
		}
	}
	diagAvg := metricMean(entries, func(e schema.FileEntry) *float64 { return schema.IntAsFloat(e.Metrics.TypeDiagnosticCount) })

	// Densities are per 1000 logical lines.
	var anyDensity, ignoreDensity, assertionDensity *float64
	if totalLoc > 0 {
		anyDensity = schema.Float(totalAny / totalLoc * 1000)
		ignoreDensity = schema.Float(totalIgnore / totalLoc * 1000)
		assertionDensity = schema.Float(totalAssertion / totalLoc * 1000)
	}
	return health(
		risk(diagAvg, cal.DiagnosticScale),
		risk(anyDensity, cal.AnyDensityScale),
		risk(ignoreDensity, cal.IgnoreScale),
		risk(assertionDensity, cal.AssertionScale),
	)
}

func testReliabilityScore(entries []schema.FileEntry, cal schema.AxisCalibration) *float64 {
	lineAvg := metricMean(entries, func(e schema.FileEntry) *float64 { return e.Metrics.LineCoverage })
	branchAvg := metricMean(entries, func(e schema.FileEntry) *float64 { return e.Metrics.BranchCoverage })
	mutationAvg := metricMean(entries, func(e schema.FileEntry) *float64 { return e.Metrics.MutationScore })

	type part struct {
		value  *float64
		weight float64
	}
	var sum, totalWeight float64
	for _, p := range []part{
		{lineAvg, cal.LineCoverageWeight},
		{branchAvg, cal.BranchCoverageWeight},
		{mutationAvg, cal.MutationWeight},
	} {
		if p.value == nil {
			continue
		}
		sum += *p.value * p.weight
		totalWeight += p.weight
	}
	if totalWeight == 0 {
		return nil
	}

	// Coverage far above the mutation score means the tests execute code without checking it.
	penalty := 0.0
	if lineAvg != nil && mutationAvg != nil && cal.GapDivisor > 0 {
		gap := max(0, *lineAvg-*mutationAvg)
		penalty = schema.Clamp(gap/cal.GapDivisor, 0, cal.GapPenaltyCap)
	}
	return schema.Float(schema.Round2(schema.Clamp(sum/totalWeight-penalty, 0, 100)))
}

func changeRiskScore(entries []schema.FileEntry, cal schema.AxisCalibration) *float64 {
	churnAvg := metricMean(entries, func(e schema.FileEntry) *float64 { return schema.IntAsFloat(e.Metrics.ChurnLines) })
	instAvg := metricMean(entries, func(e schema.FileEntry) *float64 { return e.Metrics.Instability })
	circularRate := metricMean(entries, func(e schema.FileEntry) *float64 {
		if e.Metrics.Circular == nil {
			return nil
		}
		if *e.Metrics.Circular {
			return schema.Float(1)
		}
		return schema.Float(0)
	})
	hotspotAvg := metricMean(entries, func(e schema.FileEntry) *float64 { return e.HotspotScore })

	return health(
		ceilingRisk(churnAvg, cal.ChurnCeiling),
		risk(instAvg, 100),
		risk(circularRate, 100),
		risk(hotspotAvg, 1),
	)
}
