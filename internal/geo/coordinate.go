package geo

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Field error messages returned by FieldError.
const (
	PickupFormatError   = "Pickup coordinates must look like: 100, 64, -200"
	DeliveryFormatError = "Delivery coordinates must look like: 100, 64, -200"
)

// x and z allow up to 6 digits, y up to 3.
var coordinatePattern = regexp.MustCompile(`^(-?\d{1,6}),\s*(-?\d{1,3}),\s*(-?\d{1,6})$`)

// Coordinate is a block position in the game world.
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// String formats the coordinate the same way Parse reads it.
func (c Coordinate) String() string {
	return fmt.Sprintf("%d, %d, %d", c.X, c.Y, c.Z)
}

// Parse reads an "x, y, z" string. It reports false for anything that does
// not match the expected shape; it never panics.
func Parse(raw string) (Coordinate, bool) {
	m := coordinatePattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return Coordinate{}, false
	}

	var parts [3]int
	for i, s := range m[1:] {
		n, err := strconv.Atoi(s)
		if err != nil {
			return Coordinate{}, false
		}
		parts[i] = n
	}

	return Coordinate{X: parts[0], Y: parts[1], Z: parts[2]}, true
}

// ParsePtr is Parse returning nil for invalid or blank input.
func ParsePtr(raw string) *Coordinate {
	c, ok := Parse(raw)
	if !ok {
		return nil
	}
	return &c
}

// IsBlank reports whether a coordinate field has not been filled in yet.
func IsBlank(raw string) bool {
	return strings.TrimSpace(raw) == ""
}

// FieldError classifies a pickup/dropoff pair for inline form feedback.
// Blank fields are not errors; a non-blank malformed pickup wins over a
// malformed dropoff.
func FieldError(pickup, dropoff string) string {
	if !IsBlank(pickup) {
		if _, ok := Parse(pickup); !ok {
			return PickupFormatError
		}
	}
	if !IsBlank(dropoff) {
		if _, ok := Parse(dropoff); !ok {
			return DeliveryFormatError
		}
	}
	return ""
}
