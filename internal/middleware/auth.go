package middleware

import (
	"net/http"

	"campus-portal/internal/auth"
	"campus-portal/internal/auth/session"

	"github.com/gin-gonic/gin"
)

// identityKey is the gin context key holding the caller's identity.
const identityKey = "campus-portal/identity"

type Auth struct {
	sessions *session.Manager
}

func NewAuth(sessions *session.Manager) *Auth {
	return &Auth{sessions: sessions}
}

// Identify resolves the session cookie when present and attaches the
// identity to the request context. An absent or invalid session is an
// anonymous caller, never an error.
func (a *Auth) Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity, ok := a.sessions.Current(c.Request); ok {
			c.Set(identityKey, identity)
		}
		c.Next()
	}
}

// RequireAuth rejects anonymous callers.
func (a *Auth) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Unauthorized",
			})
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects callers without the ADMIN role.
func (a *Auth) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentUser(c)
		if !ok || identity.Role != auth.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Unauthorized. Admin access required.",
			})
			return
		}
		c.Next()
	}
}

// CurrentUser extracts the authenticated identity set by Identify.
func CurrentUser(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return auth.Identity{}, false
	}
	identity, ok := v.(auth.Identity)
	return identity, ok
}
