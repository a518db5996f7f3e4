package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/hyperlocal-booking/internal/domain/allocator"
	domain "github.com/BruksfildServices01/hyperlocal-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/domain/geo"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/httperr"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/models"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/timezone"
)

type pickedShop struct {
	Shop       models.Shop
	DistanceKm float64
}

// selectShop runs the allocator over every barber of every shop around loc:
// the nearest shop with a free barber wins, otherwise the shop whose barber
// frees up first. No barber is claimed here.
func selectShop(
	ctx context.Context,
	repo domain.Repository,
	loc *SearchLocation,
	date time.Time,
	now time.Time,
) (*pickedShop, error) {

	center := geo.Point{Latitude: loc.Latitude, Longitude: loc.Longitude}

	shops, err := repo.FindActiveShopsInBox(ctx, geo.BoundingBox(center, loc.RadiusKm))
	if err != nil {
		return nil, err
	}

	nearby := geo.WithinRadius(center, loc.RadiusKm, shops, shopPoint)
	if len(nearby) == 0 {
		return nil, httperr.NotFoundErr("no_nearby_shops",
			fmt.Sprintf("No shops found within %g km.", loc.RadiusKm))
	}

	byID := make(map[uuid.UUID]geo.Located[models.Shop], len(nearby))
	shopIDs := make([]uuid.UUID, 0, len(nearby))
	for _, n := range nearby {
		byID[n.Item.ID] = n
		shopIDs = append(shopIDs, n.Item.ID)
	}

	barbers, err := repo.ListActiveBarbers(ctx, shopIDs)
	if err != nil {
		return nil, err
	}
	if len(barbers) == 0 {
		return nil, httperr.NotFoundErr("no_barbers_found", "no barbers found in nearby shops")
	}

	perShop := make(map[uuid.UUID][]uuid.UUID)
	for _, b := range barbers {
		perShop[b.ShopID] = append(perShop[b.ShopID], b.ID)
	}

	// Day boundaries follow each shop's own timezone.
	latest := make(map[uuid.UUID]time.Time, len(barbers))
	for shopID, ids := range perShop {
		from, to := timezone.DayBounds(date, byID[shopID].Item.Timezone)
		ends, err := repo.LatestActiveEnds(ctx, ids, from, to)
		if err != nil {
			return nil, err
		}
		for id, end := range ends {
			latest[id] = end
		}
	}

	cands := make([]allocator.Candidate, 0, len(barbers))
	for _, b := range barbers {
		c := allocator.Candidate{
			BarberID:   b.ID,
			ShopID:     b.ShopID,
			DistanceKm: byID[b.ShopID].DistanceKm,
			Available:  b.Available,
		}
		if end, ok := latest[b.ID]; ok {
			c.LatestEnd = &end
		}
		cands = append(cands, c)
	}

	choice, ok := allocator.Select(cands, now)
	if !ok {
		return nil, httperr.NotFoundErr("no_barbers_found", "no barbers found in nearby shops")
	}

	picked := byID[choice.ShopID]
	return &pickedShop{Shop: picked.Item, DistanceKm: picked.DistanceKm}, nil
}

func shopPoint(s models.Shop) geo.Point {
	if s.Location == nil {
		return geo.Point{}
	}
	return geo.Point{Latitude: s.Location.Latitude, Longitude: s.Location.Longitude}
}
