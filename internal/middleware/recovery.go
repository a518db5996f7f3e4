package middleware

import (
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/hyperlocal-booking/internal/httperr"
)

func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().
					Interface("panic", rec).
					Str("stack", string(debug.Stack())).
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Str("request_id", c.GetString(httperr.RequestIDKey)).
					Msg("request panic recovered")

				httperr.Internal(c, "internal_error", "Something went wrong, please try again.")
			}
		}()
		c.Next()
	}
}
