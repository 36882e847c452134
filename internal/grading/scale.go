package grading

// Scale selects which grade-point threshold table to apply. The two
// tables are deliberately kept separate: the archival scale drives
// target comparisons, the finish-subject flow, and the advisor
// context; the display scale drives dashboard cards and the GPA
// aggregator. Unifying them would silently change displayed grades.
type Scale int

const (
	// ScaleArchival is the finer-grained table.
	ScaleArchival Scale = iota
	// ScaleDisplay is the coarser table used for dashboard status.
	ScaleDisplay
)

type scaleBand struct {
	min   float64
	point float64
}

var archivalBands = []scaleBand{
	{98, 1.00},
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
	{60, 4.00},
}

var displayBands = []scaleBand{
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
}

// GradePoint maps a 0-100 percentage onto the lower-is-better
// 1.00-5.00 grade-point scale. The first threshold the percentage
// meets, scanning from the top, wins; anything below the lowest
// passing band is 5.00.
func GradePoint(percent float64, scale Scale) float64 {
	bands := archivalBands
	if scale == ScaleDisplay {
		bands = displayBands
	}
	for _, b := range bands {
		if percent >= b.min {
			return b.point
		}
	}
	return 5.00
}
