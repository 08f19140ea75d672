package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/Kinfolk-App/kinfolk/internal/model"
)

func TestDistanceMilesKnownPair(t *testing.T) {
	// Ferry Building to Golden Gate Bridge, roughly 4.9 miles.
	a := model.Coordinate{Latitude: 37.7955, Longitude: -122.3937}
	b := model.Coordinate{Latitude: 37.8199, Longitude: -122.4783}

	d := DistanceMiles(a, b)
	if math.Abs(d-4.9) > 0.5 {
		t.Fatalf("unexpected distance %.2f miles", d)
	}
	if d != DistanceMiles(b, a) {
		t.Fatal("distance not symmetric")
	}
}

func TestDistanceMilesSamePoint(t *testing.T) {
	p := model.Coordinate{Latitude: 40.7128, Longitude: -74.0060}
	if d := DistanceMiles(p, p); d != 0 {
		t.Fatalf("expected zero distance, got %v", d)
	}
}

func TestValidateCoordinate(t *testing.T) {
	if err := ValidateCoordinate(model.Coordinate{Latitude: 51.5, Longitude: -0.12}); err != nil {
		t.Fatalf("valid coordinate rejected: %v", err)
	}
	bad := []model.Coordinate{
		{Latitude: 91, Longitude: 0},
		{Latitude: -90.01, Longitude: 0},
		{Latitude: 0, Longitude: 180.5},
		{Latitude: 0, Longitude: -181},
	}
	for _, c := range bad {
		err := ValidateCoordinate(c)
		if !errors.Is(err, ErrInvalidCoordinate) {
			t.Fatalf("expected invalid coordinate error for %+v, got %v", c, err)
		}
	}
}
