package grading

import (
	"github.com/gradeseer/gradeseer-api/internal/models"
)

// WeightedGrade pairs a component's weight (0-100) with its computed
// percentage grade (0-100).
type WeightedGrade struct {
	Weight float64
	Grade  float64
}

// SubjectGrade combines component grades into a subject-level
// percentage using a weight-normalized average. A subject whose
// components sum to 80% instead of 100% still yields a full 0-100
// percentage scaled as if the defined components were the entire
// grade. Components with zero or missing weight contribute nothing.
func SubjectGrade(components []WeightedGrade) float64 {
	var weightedSum, totalWeight float64
	for _, c := range components {
		if c.Weight <= 0 {
			continue
		}
		weightedSum += c.Grade * c.Weight / 100
		totalWeight += c.Weight / 100
	}
	if totalWeight <= 0 {
		return 0
	}
	return Round2(weightedSum / totalWeight)
}

// Weight extracts a component's numeric weight from its text-stored
// percentage.
func Weight(c models.Component) float64 {
	return Coerce(c.Percentage, 0)
}

// SubjectPercent computes the subject-level percentage across a full
// subject tree using the zero-fill family with the given fill.
func SubjectPercent(tree models.SubjectTree, fill *float64) float64 {
	grades := make([]WeightedGrade, 0, len(tree.Components))
	for _, comp := range tree.Components {
		grades = append(grades, WeightedGrade{
			Weight: Weight(comp.Component),
			Grade:  ComponentGrade(comp.Items, fill),
		})
	}
	return SubjectGrade(grades)
}

// RawSubjectPercent computes the subject-level percentage counting
// only scored items.
func RawSubjectPercent(tree models.SubjectTree) float64 {
	grades := make([]WeightedGrade, 0, len(tree.Components))
	for _, comp := range tree.Components {
		grades = append(grades, WeightedGrade{
			Weight: Weight(comp.Component),
			Grade:  RawComponentGrade(comp.Items),
		})
	}
	return SubjectGrade(grades)
}
