package entities

import (
	"errors"
	"fmt"
	"math"
)

const (
	KaabaLatitude  = 21.4225
	KaabaLongitude = 39.8262

	earthRadiusKm = 6371.0
)

var ErrInvalidCoordinates = errors.New("invalid coordinates")

// QiblaDirection is the direction from a location to the Kaaba.
type QiblaDirection struct {
	Bearing    float64  `json:"bearing"` // degrees clockwise from true north, [0, 360)
	DistanceKm float64  `json:"distanceKm"`
	Location   Location `json:"location"`
}

// ValidateCoordinates checks latitude and longitude ranges.
func ValidateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsNaN(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return fmt.Errorf("%w: %f,%f", ErrInvalidCoordinates, lat, lon)
	}
	return nil
}

// NewQiblaDirection computes the great-circle initial bearing and distance
// from loc to the Kaaba.
func NewQiblaDirection(loc Location) (*QiblaDirection, error) {
	if err := ValidateCoordinates(loc.Latitude, loc.Longitude); err != nil {
		return nil, err
	}

	phi1 := radians(loc.Latitude)
	phi2 := radians(KaabaLatitude)
	dLambda := radians(KaabaLongitude - loc.Longitude)

	y := math.Sin(dLambda) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLambda)
	bearing := math.Mod(degrees(math.Atan2(y, x))+360, 360)

	return &QiblaDirection{
		Bearing:    bearing,
		DistanceKm: haversineKm(loc.Latitude, loc.Longitude, KaabaLatitude, KaabaLongitude),
		Location:   loc,
	}, nil
}

// CompassPoint returns the 8-point compass label of the bearing.
func (q *QiblaDirection) CompassPoint() string {
	d := int(q.Bearing)
	switch {
	case d <= 22 || d >= 338:
		return "North"
	case d <= 67:
		return "Northeast"
	case d <= 112:
		return "East"
	case d <= 157:
		return "Southeast"
	case d <= 202:
		return "South"
	case d <= 247:
		return "Southwest"
	case d <= 292:
		return "West"
	default:
		return "Northwest"
	}
}

// FormattedDirection renders e.g. "Northeast (58°)".
func (q *QiblaDirection) FormattedDirection() string {
	return fmt.Sprintf("%s (%d°)", q.CompassPoint(), int(q.Bearing))
}

func (q *QiblaDirection) FormattedDistance() string {
	return fmt.Sprintf("%.2f km", q.DistanceKm)
}

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dPhi := radians(lat2 - lat1)
	dLambda := radians(lon2 - lon1)
	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func radians(d float64) float64 { return d * math.Pi / 180 }
func degrees(r float64) float64 { return r * 180 / math.Pi }
