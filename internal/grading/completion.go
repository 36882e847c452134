package grading

import (
	"math"

	"github.com/gradeseer/gradeseer-api/internal/models"
)

// Completion returns the 0-100 share of items that carry a score.
// Unlike the grade calculators, every item counts toward the total
// regardless of max validity; any non-null score marks it complete.
func Completion(items []models.Item) float64 {
	if len(items) == 0 {
		return 0
	}
	completed := 0
	for _, item := range items {
		if item.Score != nil {
			completed++
		}
	}
	return math.Round(100 * float64(completed) / float64(len(items)))
}
