package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domain "github.com/BruksfildServices01/hyperlocal-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/domain/geo"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/dto"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/httperr"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/httpresp"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/hyperlocal-booking/internal/usecase/appointment"
	ucShop "github.com/BruksfildServices01/hyperlocal-booking/internal/usecase/shop"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	book         *ucAppointment.BookAppointment
	assign       *ucAppointment.AssignBarber
	changeStatus *ucAppointment.ChangeStatus
	list         *ucAppointment.ListAppointments
	get          *ucAppointment.GetAppointment
}

func NewAppointmentHandler(
	book *ucAppointment.BookAppointment,
	assign *ucAppointment.AssignBarber,
	changeStatus *ucAppointment.ChangeStatus,
	list *ucAppointment.ListAppointments,
	get *ucAppointment.GetAppointment,
) *AppointmentHandler {
	return &AppointmentHandler{
		book:         book,
		assign:       assign,
		changeStatus: changeStatus,
		list:         list,
		get:          get,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type ServiceLineRequest struct {
	ServiceID       string           `json:"service_id" binding:"required,uuid"`
	Duration        int              `json:"duration" binding:"required,gt=0"`
	Price           *decimal.Decimal `json:"price" binding:"required"`
	DiscountedPrice *decimal.Decimal `json:"discounted_price"`
}

type LocationRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required,latitude"`
	Longitude *float64 `json:"longitude" binding:"required,longitude"`
	Radius    *float64 `json:"radius" binding:"omitempty,gt=0"`
}

type BookAppointmentRequest struct {
	CustomerID      string               `json:"customer_id" binding:"required,uuid"`
	ShopID          *string              `json:"shop_id" binding:"omitempty,uuid"`
	AppointmentDate time.Time            `json:"appointment_date" binding:"required"`
	Gender          string               `json:"gender" binding:"required,gender"`
	PaymentMode     string               `json:"payment_mode" binding:"required,payment_mode"`
	Notes           string               `json:"notes" binding:"max=500"`
	Services        []ServiceLineRequest `json:"services" binding:"required,min=1,dive"`
	Location        *LocationRequest     `json:"location" binding:"required_without=ShopID"`
}

type AssignBarberRequest struct {
	ID            string  `json:"id" binding:"required,uuid"`
	BarberID      *string `json:"barberId" binding:"omitempty,uuid"`
	ExtraDuration int     `json:"extra_duration" binding:"gte=0"`
}

type ChangeStatusRequest struct {
	ID     string `json:"id" binding:"required,uuid"`
	Status string `json:"status" binding:"required,appointment_status"`
	Remark string `json:"remark" binding:"max=500"`
}

type ListAppointmentsQuery struct {
	UserID   string `form:"user_id" binding:"omitempty,uuid"`
	ShopID   string `form:"shop_id" binding:"omitempty,uuid"`
	BarberID string `form:"barber_id" binding:"omitempty,uuid"`
	Status   string `form:"status" binding:"omitempty,appointment_status"`
}

// ======================================================
// RESPONSES
// ======================================================

type BookAppointmentResponse struct {
	dto.AppointmentListDTO
	ServiceCount int      `json:"service_count"`
	DistanceKm   *float64 `json:"distance_km,omitempty"`
	Distance     string   `json:"distance,omitempty"`
}

type ChangeStatusResponse struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
	Remark string    `json:"remark,omitempty"`

	*domain.Settlement
}

// ======================================================
// BOOK
// ======================================================

func (h *AppointmentHandler) Book(c *gin.Context) {
	var req BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.FromBinding(err))
		return
	}

	in := ucAppointment.BookAppointmentInput{
		CustomerID:      uuid.MustParse(req.CustomerID),
		AppointmentDate: req.AppointmentDate,
		Gender:          req.Gender,
		PaymentMode:     domain.PaymentMode(req.PaymentMode),
		Notes:           req.Notes,
		Services:        make([]ucAppointment.ServiceLine, 0, len(req.Services)),
	}

	if c.GetString(middleware.ContextUserRole) == ucShop.RoleUser &&
		in.CustomerID != middleware.CurrentUserID(c) {
		httperr.Forbidden(c, "forbidden", "Customers can only book for themselves.")
		return
	}

	if req.ShopID != nil {
		id := uuid.MustParse(*req.ShopID)
		in.ShopID = &id
	}
	if req.Location != nil {
		in.Location = &ucAppointment.SearchLocation{
			Latitude:  *req.Location.Latitude,
			Longitude: *req.Location.Longitude,
		}
		if req.Location.Radius != nil {
			in.Location.RadiusKm = *req.Location.Radius
		}
	}
	for _, s := range req.Services {
		in.Services = append(in.Services, ucAppointment.ServiceLine{
			ServiceID:       uuid.MustParse(s.ServiceID),
			Duration:        s.Duration,
			Price:           *s.Price,
			DiscountedPrice: s.DiscountedPrice,
		})
	}

	out, err := h.book.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	resp := BookAppointmentResponse{
		AppointmentListDTO: dto.NewAppointmentListDTO(out.Appointment),
		ServiceCount:       len(out.Appointment.Services),
		DistanceKm:         out.DistanceKm,
	}
	if out.DistanceKm != nil {
		resp.Distance = geo.FormatDistance(*out.DistanceKm)
	}

	httpresp.Created(c, "Appointment created successfully", resp)
}

// ======================================================
// ASSIGN
// ======================================================

func (h *AppointmentHandler) Assign(c *gin.Context) {
	var req AssignBarberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.FromBinding(err))
		return
	}

	in := ucAppointment.AssignBarberInput{
		AppointmentID: uuid.MustParse(req.ID),
		ExtraDuration: req.ExtraDuration,
		Actor:         currentActor(c),
	}
	if req.BarberID != nil {
		id := uuid.MustParse(*req.BarberID)
		in.BarberID = &id
	}

	out, err := h.assign.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, "Barber assigned successfully", dto.NewAppointmentListDTO(out.Appointment))
}

// ======================================================
// CHANGE STATUS
// ======================================================

func (h *AppointmentHandler) ChangeStatus(c *gin.Context) {
	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.FromBinding(err))
		return
	}

	out, err := h.changeStatus.Execute(c.Request.Context(), ucAppointment.ChangeStatusInput{
		AppointmentID: uuid.MustParse(req.ID),
		Status:        domain.Status(req.Status),
		Remark:        req.Remark,
		Actor:         currentActor(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	resp := ChangeStatusResponse{
		ID:         out.Appointment.ID,
		Status:     out.Appointment.Status,
		Settlement: out.Settlement,
	}
	if domain.RequiresRemark(out.Transition.To) {
		resp.Remark = out.Appointment.Remark
	}

	httpresp.OK(c, "Appointment status updated", resp)
}

// ======================================================
// LIST / GET
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	var q ListAppointmentsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.Respond(c, httperr.FromBinding(err))
		return
	}

	filter := domain.ListFilter{
		CustomerID: parseOptionalUUID(q.UserID),
		ShopID:     parseOptionalUUID(q.ShopID),
		BarberID:   parseOptionalUUID(q.BarberID),
	}
	if q.Status != "" {
		s := domain.Status(q.Status)
		filter.Status = &s
	}

	// Customers only ever see their own bookings.
	if c.GetString(middleware.ContextUserRole) == ucShop.RoleUser {
		self := middleware.CurrentUserID(c)
		filter.CustomerID = &self
	}

	items, err := h.list.Execute(c.Request.Context(), filter)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, items)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.Respond(c, httperr.ValidationErr("invalid_request", "Request validation failed.",
			httperr.FieldError{Field: "id", Message: "must be a valid uuid"}))
		return
	}

	out, err := h.get.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if c.GetString(middleware.ContextUserRole) == ucShop.RoleUser &&
		out.CustomerID != middleware.CurrentUserID(c) {
		httperr.NotFound(c, "appointment_not_found", "Appointment not found.")
		return
	}

	httpresp.OK(c, "", out)
}

func currentActor(c *gin.Context) domain.Actor {
	return domain.Actor{
		ID:   middleware.CurrentUserID(c),
		Role: c.GetString(middleware.ContextUserRole),
	}
}

func parseOptionalUUID(s string) *uuid.UUID {
	if s == "" {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &id
}
