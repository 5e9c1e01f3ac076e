package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"stayhub/internal/app/services/auth"
	domainauth "stayhub/internal/domain/auth"
	domainuser "stayhub/internal/domain/user"
)

const (
	principalContextKey = "stayhub.principal"
	tokenContextKey     = "stayhub.token"
)

// AuthMiddleware resolves the bearer token, when present, into a principal
// stored on both the gin context and the request context. Anonymous
// requests pass through untouched.
type AuthMiddleware struct {
	Service *auth.Service
	Logger  *slog.Logger
}

func (m AuthMiddleware) Handle(c *gin.Context) {
	token := extractBearerToken(c.GetHeader("Authorization"))
	if token == "" || m.Service == nil {
		c.Next()
		return
	}
	resolved, err := m.Service.ResolveToken(c.Request.Context(), token)
	if err != nil {
		if !errors.Is(err, domainauth.ErrSessionNotFound) && m.Logger != nil {
			m.Logger.Debug("token validation failed", "error", err)
		}
		c.Next()
		return
	}
	p := domainauth.Principal{
		UserID: resolved.User.ID,
		Roles:  append([]domainuser.Role(nil), resolved.User.Roles...),
	}
	c.Set(principalContextKey, p)
	c.Set(tokenContextKey, token)
	c.Request = c.Request.WithContext(domainauth.ContextWithPrincipal(c.Request.Context(), p))
	c.Next()
}

func currentPrincipal(c *gin.Context) (domainauth.Principal, bool) {
	val, exists := c.Get(principalContextKey)
	if !exists {
		return domainauth.Principal{}, false
	}
	p, ok := val.(domainauth.Principal)
	return p, ok
}

// requireRole rejects callers holding none of roles before any handler runs.
func requireRole(roles ...domainuser.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := currentPrincipal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "auth required"})
			return
		}
		for _, role := range roles {
			if p.HasRole(role) {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
	}
}

func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
