package shop

import (
	"context"

	"github.com/BruksfildServices01/hyperlocal-booking/internal/domain/geo"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/httperr"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/models"
)

type ShopFinder interface {
	FindActiveShopsInBox(ctx context.Context, box geo.Box) ([]models.Shop, error)
}

type NearbyShopsInput struct {
	Latitude  float64
	Longitude float64
	RadiusKm  *float64
}

type NearbyShop struct {
	Shop       models.Shop
	DistanceKm float64
	Distance   string
}

type FindNearbyShops struct {
	repo            ShopFinder
	defaultRadiusKm float64
	maxRadiusKm     float64
}

func NewFindNearbyShops(repo ShopFinder, defaultRadiusKm, maxRadiusKm float64) *FindNearbyShops {
	return &FindNearbyShops{
		repo:            repo,
		defaultRadiusKm: defaultRadiusKm,
		maxRadiusKm:     maxRadiusKm,
	}
}

// Execute lists active shops within the radius, nearest first. An empty
// result is not an error.
func (uc *FindNearbyShops) Execute(
	ctx context.Context,
	in NearbyShopsInput,
) ([]NearbyShop, error) {

	radius := uc.defaultRadiusKm
	if in.RadiusKm != nil {
		radius = *in.RadiusKm
	}

	center := geo.Point{Latitude: in.Latitude, Longitude: in.Longitude}
	if err := validate(center, radius, uc.maxRadiusKm); err != nil {
		return nil, err
	}

	shops, err := uc.repo.FindActiveShopsInBox(ctx, geo.BoundingBox(center, radius))
	if err != nil {
		return nil, err
	}

	located := geo.WithinRadius(center, radius, shops, func(s models.Shop) geo.Point {
		if s.Location == nil {
			return geo.Point{Latitude: 90, Longitude: 0}
		}
		return geo.Point{Latitude: s.Location.Latitude, Longitude: s.Location.Longitude}
	})

	out := make([]NearbyShop, 0, len(located))
	for _, l := range located {
		out = append(out, NearbyShop{
			Shop:       l.Item,
			DistanceKm: geo.RoundKm(l.DistanceKm),
			Distance:   geo.FormatDistance(l.DistanceKm),
		})
	}
	return out, nil
}

func validate(center geo.Point, radius, maxRadius float64) error {
	var fields []httperr.FieldError
	if !center.Valid() {
		fields = append(fields, httperr.FieldError{Field: "latitude", Message: "latitude and longitude must be valid coordinates"})
	}
	if radius <= 0 || (maxRadius > 0 && radius > maxRadius) {
		fields = append(fields, httperr.FieldError{Field: "radius", Message: "must be greater than 0 and within the allowed maximum"})
	}
	if len(fields) > 0 {
		return httperr.ValidationErr("invalid_request", "Request validation failed.", fields...)
	}
	return nil
}
