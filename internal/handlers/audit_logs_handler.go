package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/hyperlocal-booking/internal/httperr"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/middleware"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/models"
	ucShop "github.com/BruksfildServices01/hyperlocal-booking/internal/usecase/shop"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	db *gorm.DB
}

func NewAuditLogsHandler(db *gorm.DB) *AuditLogsHandler {
	return &AuditLogsHandler{db: db}
}

// List returns a shop's audit trail, newest first. Vendors only see their
// own shops.
func (h *AuditLogsHandler) List(c *gin.Context) {
	shopID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.Respond(c, httperr.ValidationErr("invalid_request", "Request validation failed.",
			httperr.FieldError{Field: "id", Message: "must be a valid uuid"}))
		return
	}

	var shop models.Shop
	if err := h.db.WithContext(c.Request.Context()).First(&shop, "id = ?", shopID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "shop_not_found", "Shop not found.")
			return
		}
		httperr.Respond(c, err)
		return
	}

	if c.GetString(middleware.ContextUserRole) == ucShop.RoleVendor &&
		shop.VendorID != middleware.CurrentUserID(c) {
		httperr.Forbidden(c, "forbidden", "You cannot read this shop's audit logs.")
		return
	}

	action := c.Query("action")
	entity := c.Query("entity")
	fromStr := c.Query("from")
	toStr := c.Query("to")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	offset := (page - 1) * limit

	q := h.db.WithContext(c.Request.Context()).
		Model(&models.AuditLog{}).
		Where("shop_id = ?", shopID)

	if action != "" {
		q = q.Where("action = ?", action)
	}
	if entity != "" {
		q = q.Where("entity = ?", entity)
	}
	if fromStr != "" {
		if from, err := time.Parse(time.DateOnly, fromStr); err == nil {
			q = q.Where("created_at >= ?", from)
		}
	}
	if toStr != "" {
		if to, err := time.Parse(time.DateOnly, toStr); err == nil {
			q = q.Where("created_at < ?", to.Add(24*time.Hour))
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "audit_count_failed", "Could not count audit logs.")
		return
	}

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error; err != nil {

		httperr.Internal(c, "audit_list_failed", "Could not list audit logs.")
		return
	}

	c.JSON(200, gin.H{
		"success": true,
		"page":    page,
		"limit":   limit,
		"total":   total,
		"logs":    logs,
	})
}
