package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gradeseer/gradeseer-api/internal/models"
)

func fptr(v float64) *float64 { return &v }

func item(score *float64, max float64) models.Item {
	return models.Item{Score: score, Max: fptr(max)}
}

func TestComponentGradeZeroFill(t *testing.T) {
	// One scored item (12/100) plus one pending item: the pending max
	// still counts, so the grade is 12/200.
	items := []models.Item{
		item(fptr(12), 100),
		item(nil, 100),
	}
	assert.Equal(t, 6.00, ComponentGrade(items, nil))
}

func TestComponentGradeProjectedFill(t *testing.T) {
	items := []models.Item{
		item(fptr(12), 100),
		item(nil, 100),
	}
	assert.Equal(t, 43.50, ComponentGrade(items, Fill(FillProjected)))
}

func TestComponentGradeEmptyAndInvalid(t *testing.T) {
	assert.Equal(t, 0.0, ComponentGrade(nil, nil))
	assert.Equal(t, 0.0, ComponentGrade(nil, Fill(50)))

	// Items with max <= 0 or missing max never move the result.
	base := []models.Item{item(fptr(80), 100)}
	withJunk := append([]models.Item{
		item(fptr(10), 0),
		item(fptr(10), -5),
		{Score: fptr(10), Max: nil},
	}, base...)
	assert.Equal(t, ComponentGrade(base, nil), ComponentGrade(withJunk, nil))
	assert.Equal(t, ComponentGrade(base, Fill(75)), ComponentGrade(withJunk, Fill(75)))
}

func TestComponentGradeBounds(t *testing.T) {
	sets := [][]models.Item{
		{item(fptr(0), 50), item(nil, 50)},
		{item(fptr(50), 50)},
		{item(fptr(25), 50), item(fptr(40), 40), item(nil, 100)},
	}
	for _, items := range sets {
		for _, f := range []float64{0, 25, 50, 75, 100} {
			g := ComponentGrade(items, Fill(f))
			assert.GreaterOrEqual(t, g, 0.0)
			assert.LessOrEqual(t, g, 100.0)
		}
	}
}

func TestComponentGradeFillMonotonic(t *testing.T) {
	items := []models.Item{
		item(fptr(30), 50),
		item(nil, 50),
		item(nil, 100),
	}
	worst := ComponentGrade(items, Fill(FillWorst))
	projected := ComponentGrade(items, Fill(FillProjected))
	best := ComponentGrade(items, Fill(FillBest))
	assert.LessOrEqual(t, worst, projected)
	assert.LessOrEqual(t, projected, best)
}

func TestRawComponentGrade(t *testing.T) {
	// Pending items are excluded entirely, not zero-filled.
	items := []models.Item{
		item(fptr(12), 100),
		item(nil, 100),
	}
	assert.Equal(t, 12.00, RawComponentGrade(items))

	assert.Equal(t, 0.0, RawComponentGrade(nil))
	assert.Equal(t, 0.0, RawComponentGrade([]models.Item{item(nil, 100)}))
}
