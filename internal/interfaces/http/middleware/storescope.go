package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/identity"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/infrastructure/persistence/storescope"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/interfaces/http/dto"
)

// StoreScopeKey is the gin context key holding the resolved store scope
const StoreScopeKey = "store_scope"

// StoreScopeMiddlewareConfig holds configuration for the store scope middleware
type StoreScopeMiddlewareConfig struct {
	// SkipPaths are paths that don't require store scoping
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that don't require store scoping
	SkipPathPrefixes []string
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultStoreScopeConfig returns default store scope middleware configuration
func DefaultStoreScopeConfig() StoreScopeMiddlewareConfig {
	return StoreScopeMiddlewareConfig{
		SkipPaths: []string{
			"/health",
			"/ready",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
		},
		SkipPathPrefixes: []string{
			"/swagger",
			"/api/v1/store/",
			"/api/v1/billing/webhook",
		},
		Logger: nil,
	}
}

// StoreScopeMiddleware derives the store visibility scope from the JWT
// claims and injects it into the request context, where repositories pick
// it up to filter store-bound rows. Runs after JWTAuthMiddleware.
func StoreScopeMiddleware() gin.HandlerFunc {
	return StoreScopeMiddlewareWithConfig(DefaultStoreScopeConfig())
}

// StoreScopeMiddlewareWithConfig creates store scope middleware with custom config
func StoreScopeMiddlewareWithConfig(cfg StoreScopeMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath {
				c.Next()
				return
			}
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		claims := GetJWTClaims(c)
		if claims == nil {
			// Nothing to scope without an authenticated user; the JWT
			// middleware already rejected protected routes.
			c.Next()
			return
		}

		scope := identity.StoreScope{AllStores: claims.IsOwner || claims.AllStores}
		if !scope.AllStores {
			storeIDs, err := claims.GetStoreUUIDs()
			if err != nil {
				if cfg.Logger != nil {
					cfg.Logger.Warn("malformed store scope in token",
						zap.String("user_id", claims.UserID),
						zap.Error(err))
				}
				c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
					dto.ErrCodeTokenInvalid,
					"Sessão inválida. Faça login novamente.",
				))
				c.Abort()
				return
			}
			scope.StoreIDs = storeIDs
		}

		c.Set(StoreScopeKey, scope)
		c.Request = c.Request.WithContext(storescope.WithStoreScope(c.Request.Context(), scope))
		c.Next()
	}
}

// GetStoreScope returns the store scope resolved for the request.
// The zero value (no stores) is returned when the middleware did not run.
func GetStoreScope(c *gin.Context) identity.StoreScope {
	if v, exists := c.Get(StoreScopeKey); exists {
		if scope, ok := v.(identity.StoreScope); ok {
			return scope
		}
	}
	return identity.StoreScope{}
}

// RequireStoreVisible aborts with 403 when the request's scope does not
// include the given store. Handlers call it after parsing a store_id param.
func RequireStoreVisible(c *gin.Context, storeID uuid.UUID) bool {
	scope := GetStoreScope(c)
	if scope.AllowsStore(storeID) {
		return true
	}
	c.JSON(http.StatusForbidden, dto.NewErrorResponse(
		dto.ErrCodeStoreNotVisible,
		"Você não tem acesso a esta loja.",
	))
	c.Abort()
	return false
}
