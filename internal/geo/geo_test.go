package geo

import (
	"math"
	"testing"
)

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		raw  string
		want Coordinate
	}{
		{"0, 64, 0", Coordinate{0, 64, 0}},
		{"250,70,0", Coordinate{250, 70, 0}},
		{"  -123456, -64,   999999 ", Coordinate{-123456, -64, 999999}},
		{"1,\t2, 3", Coordinate{1, 2, 3}},
	}

	for _, tt := range tests {
		got, ok := Parse(tt.raw)
		if !ok {
			t.Fatalf("Parse(%q) rejected a valid coordinate", tt.raw)
		}
		if got != tt.want {
			t.Fatalf("Parse(%q) = %+v, want %+v", tt.raw, got, tt.want)
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, raw := range []string{
		"",
		"12,64",
		"1, 2, 3, 4",
		"a, b, c",
		"1234567, 64, 0",
		"0, 1000, 0",
		"1.5, 64, 0",
		"1 64 0",
		"+1, 64, 0",
	} {
		if _, ok := Parse(raw); ok {
			t.Fatalf("Parse(%q) accepted a malformed coordinate", raw)
		}
	}
}

func TestParse_RoundTrip(t *testing.T) {
	for _, c := range []Coordinate{{0, 0, 0}, {-500, 12, 42}, {999999, -999, -999999}} {
		got, ok := Parse(c.String())
		if !ok || got != c {
			t.Fatalf("round trip of %+v gave %+v (ok=%v)", c, got, ok)
		}
	}
}

func TestFieldError(t *testing.T) {
	tests := []struct {
		name            string
		pickup, dropoff string
		want            string
	}{
		{"both blank", "", "  ", ""},
		{"both valid", "0, 64, 0", "10, 64, 10", ""},
		{"pickup only, valid", "0, 64, 0", "", ""},
		{"bad pickup", "12,64", "10, 64, 10", PickupFormatError},
		{"bad pickup and dropoff", "oops", "nope", PickupFormatError},
		{"bad dropoff", "0, 64, 0", "10,64", DeliveryFormatError},
		{"blank pickup bad dropoff", "", "x", DeliveryFormatError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FieldError(tt.pickup, tt.dropoff); got != tt.want {
				t.Fatalf("FieldError(%q, %q) = %q, want %q", tt.pickup, tt.dropoff, got, tt.want)
			}
		})
	}
}

func TestMeasure_IgnoresHeight(t *testing.T) {
	d := Measure(Coordinate{0, 64, 0}, Coordinate{250, 70, 0})

	if d.Flat != 250 {
		t.Fatalf("Flat = %v, want 250", d.Flat)
	}
	if d.Vertical != 6 {
		t.Fatalf("Vertical = %d, want 6", d.Vertical)
	}
	if d.Segments != 3 {
		t.Fatalf("Segments = %d, want 3", d.Segments)
	}
}

func TestMeasure_IdenticalPointsHaveNoSegments(t *testing.T) {
	p := Coordinate{10, 64, -10}
	d := Measure(p, Coordinate{10, 200, -10})

	if d.Segments != 0 || d.Flat != 0 {
		t.Fatalf("expected zero distance, got %+v", d)
	}
	if d.Vertical != 136 {
		t.Fatalf("Vertical = %d, want 136", d.Vertical)
	}
}

func TestMeasure_BlocksRounds(t *testing.T) {
	d := Measure(Coordinate{0, 0, 0}, Coordinate{3, 0, 3})
	if math.Abs(d.Flat-4.2426) > 1e-3 {
		t.Fatalf("Flat = %v", d.Flat)
	}
	if d.Blocks() != 4 {
		t.Fatalf("Blocks() = %d, want 4", d.Blocks())
	}
	if d.Segments != 1 {
		t.Fatalf("Segments = %d, want 1", d.Segments)
	}
}

func TestSegments_MonotonicAndNonNegative(t *testing.T) {
	prev := 0
	for flat := 0.0; flat <= 1000; flat += 7.5 {
		s := Segments(flat)
		if s < 0 {
			t.Fatalf("Segments(%v) = %d is negative", flat, s)
		}
		if s < prev {
			t.Fatalf("Segments(%v) = %d decreased from %d", flat, s, prev)
		}
		prev = s
	}

	for flat, want := range map[float64]int{100: 1, 100.01: 2, 320: 4, 80: 1} {
		if got := Segments(flat); got != want {
			t.Fatalf("Segments(%v) = %d, want %d", flat, got, want)
		}
	}
}
