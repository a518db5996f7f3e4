package handlers

import (
	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/hyperlocal-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/httpresp"
)

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type MetaHandler struct{}

func NewMetaHandler() *MetaHandler {
	return &MetaHandler{}
}

func (h *MetaHandler) AppointmentStatuses(c *gin.Context) {
	out := make([]Option, 0, len(domain.Statuses))
	for _, s := range domain.Statuses {
		out = append(out, Option{Value: string(s), Label: s.Label()})
	}
	httpresp.List(c, out)
}

func (h *MetaHandler) PaymentModes(c *gin.Context) {
	out := make([]Option, 0, len(domain.PaymentModes))
	for _, m := range domain.PaymentModes {
		out = append(out, Option{Value: string(m), Label: m.Label()})
	}
	httpresp.List(c, out)
}
