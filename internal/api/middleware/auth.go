package middleware

import (
	"strings"

	"github.com/clientscore/backend/internal/apperrors"
	"github.com/clientscore/backend/internal/models"
	"github.com/clientscore/backend/internal/services"
	"github.com/clientscore/backend/internal/utils"
	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// AuthMiddleware verifies the access token from the session cookie or the
// Authorization header and stores the resulting Identity on the context.
func AuthMiddleware(gate *services.IdentityGate, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := gate.Verify(c.Request.Context(), tokenFrom(c, cookieName))
		if err != nil {
			utils.SendAppError(c, err)
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

func tokenFrom(c *gin.Context, cookieName string) string {
	if token, err := c.Cookie(cookieName); err == nil && token != "" {
		return token
	}

	authHeader := c.GetHeader("Authorization")
	if token := strings.TrimPrefix(authHeader, "Bearer "); token != authHeader {
		return strings.TrimSpace(token)
	}
	return ""
}

// RequireRole must run after AuthMiddleware.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := CurrentIdentity(c)
		if identity == nil {
			utils.SendAppError(c, apperrors.AuthenticationRequired())
			return
		}
		if identity.Role != role {
			utils.SendAppError(c, apperrors.Forbidden("Insufficient permissions"))
			return
		}
		c.Next()
	}
}

// CurrentIdentity returns the verified caller, or nil on public routes.
func CurrentIdentity(c *gin.Context) *services.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, _ := v.(*services.Identity)
	return identity
}
