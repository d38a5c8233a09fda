// Package geo is the mapping collaborator: reverse geocoding against a fixed
// place table and straight-line route paths for display. The core treats it
// as opaque; failures here degrade to "no address / no route" and are never
// propagated as core errors.
package geo

import (
	"errors"
	"math"

	"ridetogether/internal/domain/entities"
)

const earthRadiusKm = 6371.0

var ErrNoMatch = errors.New("no place near coordinates")

// Place is a resolved geocoding result.
type Place struct {
	Latitude         float64 `json:"lat"`
	Longitude        float64 `json:"lng"`
	FormattedAddress string  `json:"formattedAddress"`
}

// Geocoder resolves coordinates to a human-readable place.
type Geocoder interface {
	ReverseGeocode(lat, lng float64) (Place, error)
}

// HaversineDistance calculates the great-circle distance between two points
// in kilometers.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// EstimateDuration estimates travel time in minutes from distance, assuming
// highway driving at 90 km/h (these are intercity carpool trips).
func EstimateDuration(distanceKm float64) float64 {
	averageSpeedKmH := 90.0
	return (distanceKm / averageSpeedKmH) * 60
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// StaticGeocoder resolves against a fixed table of known places, standing in
// for a real geocoding service in the demo. A point resolves to the nearest
// known place within maxDistanceKm.
type StaticGeocoder struct {
	places        []Place
	maxDistanceKm float64
}

// NewStaticGeocoder builds a geocoder over the demo's city table.
func NewStaticGeocoder() *StaticGeocoder {
	return &StaticGeocoder{
		places: []Place{
			{Latitude: 37.7749, Longitude: -122.4194, FormattedAddress: "San Francisco, CA"},
			{Latitude: 34.0522, Longitude: -118.2437, FormattedAddress: "Los Angeles, CA"},
			{Latitude: 42.3601, Longitude: -71.0589, FormattedAddress: "Boston, MA"},
			{Latitude: 40.7128, Longitude: -74.0060, FormattedAddress: "New York, NY"},
			{Latitude: 47.6062, Longitude: -122.3321, FormattedAddress: "Seattle, WA"},
			{Latitude: 45.5051, Longitude: -122.6750, FormattedAddress: "Portland, OR"},
		},
		maxDistanceKm: 100,
	}
}

// ReverseGeocode returns the nearest known place, or ErrNoMatch when nothing
// lies within range.
func (g *StaticGeocoder) ReverseGeocode(lat, lng float64) (Place, error) {
	best := Place{}
	bestDist := math.MaxFloat64
	for _, p := range g.places {
		d := HaversineDistance(lat, lng, p.Latitude, p.Longitude)
		if d < bestDist {
			best = p
			bestDist = d
		}
	}
	if bestDist > g.maxDistanceKm {
		return Place{}, ErrNoMatch
	}
	best.Latitude = lat
	best.Longitude = lng
	return best, nil
}

// RoutePath is a displayable path between two waypoints with distance and
// duration estimates.
type RoutePath struct {
	Points       []entities.Waypoint `json:"points"`
	DistanceKm   float64             `json:"distanceKm"`
	DurationMins float64             `json:"durationMins"`
}

// Route builds a straight-line path from origin to destination with the given
// number of segments. It cannot fail; a degenerate route (zero distance)
// still yields a valid two-point path.
func Route(origin, destination entities.Waypoint, segments int) RoutePath {
	if segments < 1 {
		segments = 1
	}

	points := make([]entities.Waypoint, 0, segments+1)
	for i := 0; i <= segments; i++ {
		t := float64(i) / float64(segments)
		points = append(points, entities.Waypoint{
			Latitude:  origin.Latitude + (destination.Latitude-origin.Latitude)*t,
			Longitude: origin.Longitude + (destination.Longitude-origin.Longitude)*t,
		})
	}
	// Pin the endpoints to the exact waypoints, addresses included.
	points[0] = origin
	points[len(points)-1] = destination

	distance := HaversineDistance(origin.Latitude, origin.Longitude, destination.Latitude, destination.Longitude)
	return RoutePath{
		Points:       points,
		DistanceKm:   distance,
		DurationMins: EstimateDuration(distance),
	}
}
