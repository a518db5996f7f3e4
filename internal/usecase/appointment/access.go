package appointment

import (
	"context"
	"errors"

	domain "github.com/BruksfildServices01/hyperlocal-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/httperr"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/models"
)

// authorizeStaff lets through admins, the shop's vendor and barbers working
// at the shop.
func authorizeStaff(
	ctx context.Context,
	tx domain.Repository,
	actor domain.Actor,
	shop *models.Shop,
) error {

	switch actor.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleVendor:
		if shop.VendorID == actor.ID {
			return nil
		}
	case domain.RoleBarber:
		_, err := tx.FindBarberByUser(ctx, shop.ID, actor.ID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
	}
	return httperr.ForbiddenErr("forbidden", "You cannot manage appointments of this shop.")
}

// authorizeStatusChange applies staff rules, except that customers may
// cancel their own appointments. Someone else's appointment reads as missing
// to a customer, as it does on the read side.
func authorizeStatusChange(
	ctx context.Context,
	tx domain.Repository,
	actor domain.Actor,
	ap *models.Appointment,
	to domain.Status,
) error {

	if actor.Role == domain.RoleUser {
		if ap.CustomerID != actor.ID {
			return httperr.NotFoundErr("appointment_not_found", "Appointment not found.")
		}
		if !domain.CustomerCan(to) {
			return httperr.ForbiddenErr("forbidden", "Customers can only cancel their appointments.")
		}
		return nil
	}

	shop, err := tx.GetShop(ctx, ap.ShopID)
	if err != nil {
		return orNotFound(err, "shop_not_found", "Shop not found.")
	}
	return authorizeStaff(ctx, tx, actor, shop)
}
