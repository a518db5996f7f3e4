package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/hyperlocal-booking/internal/httperr"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/httpresp"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/middleware"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/models"
	ucShop "github.com/BruksfildServices01/hyperlocal-booking/internal/usecase/shop"
)

// ======================================================
// HANDLER
// ======================================================

type ShopHandler struct {
	nearby *ucShop.FindNearbyShops
	toggle *ucShop.ToggleBarberAvailability
}

func NewShopHandler(
	nearby *ucShop.FindNearbyShops,
	toggle *ucShop.ToggleBarberAvailability,
) *ShopHandler {
	return &ShopHandler{nearby: nearby, toggle: toggle}
}

// ======================================================
// REQUESTS / RESPONSES
// ======================================================

type NearbyShopsQuery struct {
	Latitude  *float64 `form:"latitude" binding:"required,latitude"`
	Longitude *float64 `form:"longitude" binding:"required,longitude"`
	Radius    *float64 `form:"radius" binding:"omitempty,gt=0"`
}

type NearbyShopResponse struct {
	ID         uuid.UUID            `json:"id"`
	Name       string               `json:"name"`
	OpenTime   string               `json:"open_time"`
	CloseTime  string               `json:"close_time"`
	Location   *models.ShopLocation `json:"location"`
	DistanceKm float64              `json:"distance_km"`
	Distance   string               `json:"distance"`
}

type ToggleAvailabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}

type BarberAvailabilityResponse struct {
	ID        uuid.UUID `json:"id"`
	ShopID    uuid.UUID `json:"shop_id"`
	Name      string    `json:"name"`
	Available bool      `json:"available"`
}

// ======================================================
// NEARBY
// ======================================================

func (h *ShopHandler) Nearby(c *gin.Context) {
	var q NearbyShopsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.Respond(c, httperr.FromBinding(err))
		return
	}

	shops, err := h.nearby.Execute(c.Request.Context(), ucShop.NearbyShopsInput{
		Latitude:  *q.Latitude,
		Longitude: *q.Longitude,
		RadiusKm:  q.Radius,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	out := make([]NearbyShopResponse, 0, len(shops))
	for _, s := range shops {
		out = append(out, NearbyShopResponse{
			ID:         s.Shop.ID,
			Name:       s.Shop.Name,
			OpenTime:   s.Shop.OpenTime,
			CloseTime:  s.Shop.CloseTime,
			Location:   s.Shop.Location,
			DistanceKm: s.DistanceKm,
			Distance:   s.Distance,
		})
	}

	httpresp.List(c, out)
}

// ======================================================
// BARBER AVAILABILITY
// ======================================================

func (h *ShopHandler) ToggleAvailability(c *gin.Context) {
	barberID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.Respond(c, httperr.ValidationErr("invalid_request", "Request validation failed.",
			httperr.FieldError{Field: "id", Message: "must be a valid uuid"}))
		return
	}

	var req ToggleAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.FromBinding(err))
		return
	}

	barber, msg, err := h.toggle.Execute(c.Request.Context(), ucShop.ToggleAvailabilityInput{
		BarberID:  barberID,
		Available: *req.Available,
		ActorID:   middleware.CurrentUserID(c),
		ActorRole: c.GetString(middleware.ContextUserRole),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, msg, BarberAvailabilityResponse{
		ID:        barber.ID,
		ShopID:    barber.ShopID,
		Name:      barber.Name,
		Available: barber.Available,
	})
}
