package schema

import "math"

// Clamp bounds v to [lo, hi]. Non-finite values map to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return lo
	}
	return math.Min(hi, math.Max(lo, v))
}

// Round rounds v to the given number of decimals.
func Round(v float64, digits int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}

// Round2 rounds v to two decimals.
func Round2(v float64) float64 {
	return Round(v, 2)
}

// Mean returns the mean of the present, finite values, or nil when there are none.
func Mean(values ...*float64) *float64 {
	sum, n := 0.0, 0
	for _, v := range values {
		if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
			continue
		}
		sum += *v
		n++
	}
	if n == 0 {
		return nil
	}
	m := sum / float64(n)
	return &m
}

// GradeFromScore maps a 0-100 score to a letter grade.
func GradeFromScore(score float64) string {
	switch {
	case math.IsNaN(score) || math.IsInf(score, 0):
		return GradeNA
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	case score >= 50:
		return "E"
	default:
		return "F"
	}
}

// GradeFromOptional returns N/A for a nil score.
func GradeFromOptional(score *float64) string {
	if score == nil {
		return GradeNA
	}
	return GradeFromScore(*score)
}
