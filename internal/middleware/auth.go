package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/hyperlocal-booking/internal/httperr"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/infra/blacklist"
)

const (
	ContextUserID      = "userID"
	ContextUserRole    = "userRole"
	ContextToken       = "token"
	ContextTokenExpiry = "tokenExpiry"
)

// Claims issued by the identity service.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func AuthMiddleware(secret string, revoked blacklist.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Unauthorized(c, "missing_authorization_header", "Authorization header is required.")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Unauthorized(c, "invalid_authorization_header", "Expected a Bearer token.")
			return
		}

		tokenString := strings.TrimSpace(parts[1])

		var claims Claims
		token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			httperr.Unauthorized(c, "invalid_token", "Invalid or expired token.")
			return
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			httperr.Unauthorized(c, "invalid_token_payload", "Token subject is not a user id.")
			return
		}

		isRevoked, err := revoked.IsRevoked(c.Request.Context(), tokenString)
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		if isRevoked {
			httperr.Unauthorized(c, "token_revoked", "This token has been logged out.")
			return
		}

		var expiry time.Time
		if claims.ExpiresAt != nil {
			expiry = claims.ExpiresAt.Time
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextUserRole, claims.Role)
		c.Set(ContextToken, tokenString)
		c.Set(ContextTokenExpiry, expiry)

		c.Next()
	}
}

// RequireRole lets the request through only for the listed roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextUserRole)
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		httperr.Forbidden(c, "forbidden", "Your role cannot perform this action.")
	}
}

func CurrentUserID(c *gin.Context) uuid.UUID {
	id, _ := c.Get(ContextUserID)
	uid, _ := id.(uuid.UUID)
	return uid
}
