package grading

import (
	"github.com/gradeseer/gradeseer-api/internal/models"
)

// Fill percentages used by the projection variants.
const (
	FillProjected = 75.0
	FillBest      = 100.0
	FillWorst     = 0.0
)

// Fill returns a pointer to v for use as a fill percentage argument.
func Fill(v float64) *float64 {
	return &v
}

// ComponentGrade reduces a component's items into a 0-100 percentage.
//
// Items without a usable max (missing or <= 0) are excluded entirely.
// For the rest: scored items contribute (score, max). Unscored items
// contribute (fill/100*max, max) when fill is set, otherwise (0, max),
// so pending work drags the grade down rather than vanishing.
func ComponentGrade(items []models.Item, fill *float64) float64 {
	var totalScore, totalMax float64
	for _, item := range items {
		max := Coerce(item.Max, 0)
		if max <= 0 {
			continue
		}
		switch {
		case item.Score != nil:
			totalScore += Coerce(item.Score, 0)
		case fill != nil:
			totalScore += *fill / 100 * max
		}
		totalMax += max
	}
	if totalMax <= 0 {
		return 0
	}
	return Round2(100 * totalScore / totalMax)
}

// RawComponentGrade reduces a component's items into a 0-100
// percentage counting only items that are actually scored. Pending
// items contribute nothing to either total, unlike the zero-fill mode
// of ComponentGrade. The finish-subject flow and dashboard cards use
// this mode so pending work does not deflate an archived grade.
func RawComponentGrade(items []models.Item) float64 {
	var totalScore, totalMax float64
	for _, item := range items {
		max := Coerce(item.Max, 0)
		if max <= 0 || item.Score == nil {
			continue
		}
		totalScore += Coerce(item.Score, 0)
		totalMax += max
	}
	if totalMax <= 0 {
		return 0
	}
	return Round2(100 * totalScore / totalMax)
}
