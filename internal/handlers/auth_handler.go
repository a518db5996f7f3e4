package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/hyperlocal-booking/internal/httperr"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/httpresp"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/infra/blacklist"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/middleware"
)

// Tokens without an exp claim are kept on the blacklist this long.
const defaultRevokeTTL = 24 * time.Hour

type AuthHandler struct {
	revoked blacklist.Store
	now     func() time.Time
}

func NewAuthHandler(revoked blacklist.Store) *AuthHandler {
	return &AuthHandler{revoked: revoked, now: time.Now}
}

// Logout blacklists the caller's token until it would have expired anyway.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.GetString(middleware.ContextToken)

	ttl := defaultRevokeTTL
	if exp, ok := c.Get(middleware.ContextTokenExpiry); ok {
		if t, _ := exp.(time.Time); !t.IsZero() {
			ttl = t.Sub(h.now())
		}
	}

	if ttl > 0 {
		if err := h.revoked.Revoke(c.Request.Context(), token, ttl); err != nil {
			httperr.Respond(c, err)
			return
		}
	}

	httpresp.OK(c, "Logged out successfully", nil)
}
