// Package geo holds the great-circle math used to post-process geospatial
// listing queries.
package geo

import "math"

// EarthRadiusKm is the mean Earth radius used by Distance.
const EarthRadiusKm = 6371.0

// Point is a GeoJSON point. Coordinates are always [longitude, latitude].
type Point struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

// NewPoint builds a GeoJSON point from named latitude and longitude.
func NewPoint(lat, lon float64) Point {
	return Point{Type: "Point", Coordinates: []float64{lon, lat}}
}

// Lat returns the latitude of p, or NaN for a malformed point.
func (p Point) Lat() float64 {
	if len(p.Coordinates) != 2 {
		return math.NaN()
	}
	return p.Coordinates[1]
}

// Lon returns the longitude of p, or NaN for a malformed point.
func (p Point) Lon() float64 {
	if len(p.Coordinates) != 2 {
		return math.NaN()
	}
	return p.Coordinates[0]
}

// Distance returns the Haversine distance in kilometers between two
// latitude/longitude pairs given in degrees. NaN inputs yield NaN.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// ValidCoordinates reports whether lat/lon are finite and inside the WGS84
// ranges accepted by a 2dsphere index.
func ValidCoordinates(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func KmToMeters(km float64) float64 { return km * 1000 }

func MetersToKm(m float64) float64 { return m / 1000 }

// KmToRadians converts a distance to the angular radius used by $centerSphere.
func KmToRadians(km float64) float64 { return km / EarthRadiusKm }

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
