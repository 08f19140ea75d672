package engine

import (
	"fmt"
	"math"

	"github.com/Kinfolk-App/kinfolk/internal/model"
)

const earthRadiusMiles = 3958.7613

// ValidateCoordinate rejects points outside WGS84 bounds.
func ValidateCoordinate(c model.Coordinate) error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v out of range", ErrInvalidCoordinate, c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v out of range", ErrInvalidCoordinate, c.Longitude)
	}
	return nil
}

// DistanceMiles returns the great-circle (haversine) distance between
// two points in miles. Callers must not pass sentinel zeros for a
// missing coordinate; absent coordinates mean "distance unknown" and
// are handled upstream.
func DistanceMiles(a, b model.Coordinate) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMiles * math.Asin(math.Sqrt(h))
}
