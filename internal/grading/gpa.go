package grading

// DefaultUnits is the credit weight assumed for subjects that never
// set one.
const DefaultUnits = 3.0

// GPAEntry is one subject's contribution to the unit-weighted average.
type GPAEntry struct {
	GradePoint float64
	Units      float64
}

// GPAResult carries the rounded average plus the unrounded sums for
// display and audit.
type GPAResult struct {
	GPA         float64 `json:"gpa"`
	WeightedSum float64 `json:"weighted_sum"`
	TotalUnits  float64 `json:"total_units"`
}

// GPA computes the unit-weighted grade-point average across subjects.
// Entries with unset or zero units fall back to DefaultUnits.
func GPA(entries []GPAEntry) GPAResult {
	var weightedSum, totalUnits float64
	for _, e := range entries {
		units := e.Units
		if units <= 0 {
			units = DefaultUnits
		}
		weightedSum += e.GradePoint * units
		totalUnits += units
	}
	result := GPAResult{WeightedSum: weightedSum, TotalUnits: totalUnits}
	if totalUnits > 0 {
		result.GPA = Round2(weightedSum / totalUnits)
	}
	return result
}
