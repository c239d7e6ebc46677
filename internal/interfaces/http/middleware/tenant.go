package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/infrastructure/logger"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/interfaces/http/dto"
)

// Tenant context keys
const (
	TenantIDKey   = "tenant_id"
	TenantSlugKey = "tenant_slug"
	StoreSlugKey  = "store_slug"
	// StoreSlugHeaderKey lets storefront clients pass the slug as a header
	// instead of the path segment.
	StoreSlugHeaderKey = "X-Store-Slug"
)

// TenantMiddlewareConfig holds configuration for tenant middleware
type TenantMiddlewareConfig struct {
	// SkipPaths are paths that don't require tenant context
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that don't require tenant context
	SkipPathPrefixes []string
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultTenantConfig returns default tenant middleware configuration
func DefaultTenantConfig() TenantMiddlewareConfig {
	return TenantMiddlewareConfig{
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

// TenantMiddleware propagates the authenticated tenant from the JWT claims
// into the gin and request contexts. Admin routes never accept a tenant
// from headers or the URL; the token is the single source.
// Runs after JWTAuthMiddleware.
func TenantMiddleware() gin.HandlerFunc {
	return TenantMiddlewareWithConfig(DefaultTenantConfig())
}

// TenantMiddlewareWithConfig returns tenant middleware with custom configuration
func TenantMiddlewareWithConfig(cfg TenantMiddlewareConfig) gin.HandlerFunc {
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

		tenantID := GetJWTTenantID(c)
		if tenantID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				dto.ErrCodeUnauthorized,
				"Sessão inválida. Faça login novamente.",
			))
			return
		}
		if _, err := uuid.Parse(tenantID); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				dto.ErrCodeTokenInvalid,
				"Sessão inválida. Faça login novamente.",
			))
			return
		}

		c.Set(TenantIDKey, tenantID)
		if slug := GetJWTTenantSlug(c); slug != "" {
			c.Set(TenantSlugKey, slug)
		}

		// Propagate to the request context so service-layer logs carry it.
		ctx := c.Request.Context()
		log := logger.FromContext(ctx)
		ctx, _ = logger.WithTenantID(ctx, log, tenantID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// StorefrontSlugMiddleware resolves the store slug for public storefront
// routes. The slug comes from the :slug path parameter, with the
// X-Store-Slug header as fallback for clients routed by hostname.
func StorefrontSlugMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := c.Param("slug")
		if slug == "" {
			slug = c.GetHeader(StoreSlugHeaderKey)
		}
		slug = strings.ToLower(strings.TrimSpace(slug))
		if slug == "" {
			c.AbortWithStatusJSON(http.StatusNotFound, dto.NewErrorResponse(
				dto.ErrCodeNotFound,
				"Loja não encontrada.",
			))
			return
		}
		c.Set(StoreSlugKey, slug)
		c.Next()
	}
}

// GetTenantID retrieves the tenant ID from gin.Context
func GetTenantID(c *gin.Context) string {
	if tenantID, exists := c.Get(TenantIDKey); exists {
		if tid, ok := tenantID.(string); ok {
			return tid
		}
	}
	return ""
}

// GetTenantUUID retrieves the tenant ID as UUID from gin.Context
func GetTenantUUID(c *gin.Context) (uuid.UUID, error) {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(tenantID)
}

// GetTenantSlug retrieves the tenant slug from gin.Context
func GetTenantSlug(c *gin.Context) string {
	if slug, exists := c.Get(TenantSlugKey); exists {
		if s, ok := slug.(string); ok {
			return s
		}
	}
	return ""
}

// GetStoreSlug retrieves the storefront slug resolved for the request
func GetStoreSlug(c *gin.Context) string {
	if slug, exists := c.Get(StoreSlugKey); exists {
		if s, ok := slug.(string); ok {
			return s
		}
	}
	return ""
}

// MustGetTenantUUID retrieves the tenant ID as UUID or panics if not found.
// Use only in handlers behind TenantMiddleware.
func MustGetTenantUUID(c *gin.Context) uuid.UUID {
	tenantUUID, err := GetTenantUUID(c)
	if err != nil || tenantUUID == uuid.Nil {
		panic("valid tenant_id not found in context")
	}
	return tenantUUID
}
