// Package geo holds the great-circle math behind nearby shop search.
package geo

import (
	"cmp"
	"math"
	"slices"
	"strconv"
)

const EarthRadiusKm = 6371.0

type Point struct {
	Latitude  float64
	Longitude float64
}

func (p Point) Valid() bool {
	return !math.IsNaN(p.Latitude) && !math.IsNaN(p.Longitude) &&
		p.Latitude >= -90 && p.Latitude <= 90 &&
		p.Longitude >= -180 && p.Longitude <= 180
}

// HaversineKm is the great-circle distance between a and b in kilometres.
func HaversineKm(a, b Point) float64 {
	lat1 := toRad(a.Latitude)
	lat2 := toRad(b.Latitude)
	dLat := toRad(b.Latitude - a.Latitude)
	dLon := toRad(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	if h > 1 {
		h = 1
	}
	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

// RoundKm rounds to metre precision (3 decimals).
func RoundKm(km float64) float64 {
	return math.Round(km*1000) / 1000
}

// FormatDistance renders a distance the way clients display it:
// "400 m" below one kilometre, "2.345 km" otherwise.
func FormatDistance(km float64) string {
	km = RoundKm(km)
	if km < 1 {
		return strconv.FormatFloat(math.Round(km*1000), 'f', 0, 64) + " m"
	}
	return strconv.FormatFloat(km, 'f', -1, 64) + " km"
}

// Box is a lat/lon rectangle enclosing a search circle. It only pre-filters
// rows in the database; HaversineKm decides membership.
type Box struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

func BoundingBox(center Point, radiusKm float64) Box {
	dLat := radiusKm / EarthRadiusKm * 180 / math.Pi
	box := Box{
		MinLat: math.Max(center.Latitude-dLat, -90),
		MaxLat: math.Min(center.Latitude+dLat, 90),
		MinLon: -180,
		MaxLon: 180,
	}

	cosLat := math.Cos(toRad(center.Latitude))
	if cosLat < 1e-6 || box.MinLat == -90 || box.MaxLat == 90 {
		return box
	}

	dLon := dLat / cosLat
	if center.Longitude-dLon < -180 || center.Longitude+dLon > 180 {
		// antimeridian: keep the full longitude range
		return box
	}
	box.MinLon = center.Longitude - dLon
	box.MaxLon = center.Longitude + dLon
	return box
}

type Located[T any] struct {
	Item       T
	DistanceKm float64
}

// WithinRadius keeps the items whose position is at most radiusKm from
// center, nearest first. Items at equal distance keep their input order.
func WithinRadius[T any](center Point, radiusKm float64, items []T, pos func(T) Point) []Located[T] {
	out := make([]Located[T], 0, len(items))
	for _, it := range items {
		d := HaversineKm(center, pos(it))
		if d <= radiusKm {
			out = append(out, Located[T]{Item: it, DistanceKm: d})
		}
	}

	slices.SortStableFunc(out, func(a, b Located[T]) int {
		return cmp.Compare(a.DistanceKm, b.DistanceKm)
	})
	return out
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
