package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gradeseer/gradeseer-api/internal/models"
)

func TestCompletion(t *testing.T) {
	assert.Equal(t, 0.0, Completion(nil))

	allScored := []models.Item{item(fptr(10), 10), item(fptr(5), 10)}
	assert.Equal(t, 100.0, Completion(allScored))

	mixed := []models.Item{
		item(fptr(10), 10),
		item(nil, 10),
		item(nil, 10),
	}
	assert.Equal(t, 33.0, Completion(mixed))

	// Any scored item counts, even without a usable max.
	scoredNoMax := []models.Item{
		{Score: fptr(7), Max: nil},
		item(nil, 10),
	}
	assert.Equal(t, 50.0, Completion(scoredNoMax))
}

func TestCompletionBounds(t *testing.T) {
	sets := [][]models.Item{
		{item(nil, 10)},
		{item(fptr(1), 10), item(nil, 10), item(fptr(2), 0)},
		{item(fptr(3), 10)},
	}
	for _, items := range sets {
		c := Completion(items)
		assert.GreaterOrEqual(t, c, 0.0)
		assert.LessOrEqual(t, c, 100.0)
	}
}
