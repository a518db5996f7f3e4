package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/hyperlocal-booking/internal/httperr"
)

const HeaderXRequestID = "X-Request-ID"

// RequestID reuses the caller's X-Request-ID or mints one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderXRequestID)
		if rid == "" || len(rid) > 64 {
			rid = uuid.New().String()
		}

		c.Set(httperr.RequestIDKey, rid)
		c.Header(HeaderXRequestID, rid)
		c.Next()
	}
}
