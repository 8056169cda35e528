package geo

import "math"

// BlocksPerSegment is the horizontal travel covered by one billing segment.
const BlocksPerSegment = 100

// Distance describes the travel between two coordinates.
type Distance struct {
	// Flat is the horizontal (x/z) euclidean distance. Height is not billed.
	Flat float64 `json:"flat"`
	// Vertical is |dy|, reported for information only.
	Vertical int `json:"vertical"`
	Segments int `json:"segments"`
}

// Blocks returns Flat rounded to the nearest block for display.
func (d Distance) Blocks() int {
	return int(math.Round(d.Flat))
}

// Measure computes the distance from a to b. Identical points give zero
// segments.
func Measure(a, b Coordinate) Distance {
	dx := float64(b.X - a.X)
	dz := float64(b.Z - a.Z)
	flat := math.Sqrt(dx*dx + dz*dz)

	dy := b.Y - a.Y
	if dy < 0 {
		dy = -dy
	}

	return Distance{
		Flat:     flat,
		Vertical: dy,
		Segments: Segments(flat),
	}
}

// Segments converts a horizontal distance into billing segments.
func Segments(flat float64) int {
	if flat <= 0 {
		return 0
	}
	return int(math.Ceil(flat / BlocksPerSegment))
}
