package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGradePointArchival(t *testing.T) {
	tests := []struct {
		percent float64
		want    float64
	}{
		{100, 1.00},
		{98, 1.00},
		{97.99, 1.25},
		{95, 1.25},
		{92, 1.50},
		{89, 1.75},
		{86, 2.00},
		{83, 2.25},
		{80, 2.50},
		{77, 2.75},
		{74, 3.00},
		{71, 3.25},
		{68, 3.50},
		{65, 3.75},
		{62, 4.00},
		{60, 4.00},
		{59.99, 5.00},
		{56, 5.00},
		{0, 5.00},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GradePoint(tt.percent, ScaleArchival), "percent=%v", tt.percent)
	}
}

func TestGradePointDisplay(t *testing.T) {
	tests := []struct {
		percent float64
		want    float64
	}{
		{100, 1.00},
		{97, 1.00},
		{94, 1.25},
		{91, 1.50},
		{88, 1.75},
		{85, 2.00},
		{82, 2.25},
		{79, 2.50},
		{76, 2.75},
		{75, 3.00},
		{72, 4.00},
		{71.99, 5.00},
		{0, 5.00},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GradePoint(tt.percent, ScaleDisplay), "percent=%v", tt.percent)
	}
}

func TestGradePointMonotonic(t *testing.T) {
	// Grade points never worsen as the percentage rises.
	for _, scale := range []Scale{ScaleArchival, ScaleDisplay} {
		prev := 5.00
		for p := 0.0; p <= 100; p += 0.25 {
			point := GradePoint(p, scale)
			assert.LessOrEqual(t, point, prev, "scale=%v percent=%v", scale, p)
			prev = point
		}
	}
}
