package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tenantTestRouter(handler gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(TenantMiddleware())
	router.GET("/api/v1/products", handler)
	return router
}

func TestTenantMiddleware_FromJWTClaims(t *testing.T) {
	tenantID := uuid.New()

	var capturedID string
	var capturedSlug string

	router := gin.New()
	router.Use(func(c *gin.Context) {
		// Simulate the JWT middleware having run
		c.Set(JWTTenantIDKey, tenantID.String())
		c.Set(JWTTenantSlugKey, "padaria-central")
		c.Next()
	})
	router.Use(TenantMiddleware())
	router.GET("/api/v1/products", func(c *gin.Context) {
		capturedID = GetTenantID(c)
		capturedSlug = GetTenantSlug(c)
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, tenantID.String(), capturedID)
	assert.Equal(t, "padaria-central", capturedSlug)
}

func TestTenantMiddleware_MissingTenant(t *testing.T) {
	router := tenantTestRouter(func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTenantMiddleware_MalformedTenantID(t *testing.T) {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(JWTTenantIDKey, "not-a-uuid")
		c.Next()
	})
	router.Use(TenantMiddleware())
	router.GET("/api/v1/products", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTenantMiddleware_HeaderIsIgnored(t *testing.T) {
	// Admin routes must never trust a tenant from a header.
	router := tenantTestRouter(func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.Header.Set("X-Tenant-ID", uuid.New().String())
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTenantMiddleware_SkipPaths(t *testing.T) {
	router := gin.New()
	router.Use(TenantMiddleware())

	skipPaths := []string{
		"/health",
		"/ready",
		"/api/v1/auth/login",
		"/api/v1/auth/refresh",
	}
	for _, path := range skipPaths {
		router.GET(path, func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
	}

	for _, path := range skipPaths {
		t.Run("SkipPath_"+path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code, "Path %s should be skipped", path)
		})
	}
}

func TestTenantMiddleware_StorefrontPrefixSkipped(t *testing.T) {
	router := gin.New()
	router.Use(TenantMiddleware())
	router.GET("/api/v1/store/:slug/catalog", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/store/padaria-central/catalog", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStorefrontSlugMiddleware_FromPath(t *testing.T) {
	var capturedSlug string

	router := gin.New()
	router.GET("/api/v1/store/:slug/catalog", StorefrontSlugMiddleware(), func(c *gin.Context) {
		capturedSlug = GetStoreSlug(c)
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/store/Padaria-Central/catalog", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "padaria-central", capturedSlug)
}

func TestStorefrontSlugMiddleware_FromHeader(t *testing.T) {
	var capturedSlug string

	router := gin.New()
	router.GET("/api/v1/storefront/catalog", StorefrontSlugMiddleware(), func(c *gin.Context) {
		capturedSlug = GetStoreSlug(c)
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/storefront/catalog", nil)
	req.Header.Set(StoreSlugHeaderKey, "padaria-central")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "padaria-central", capturedSlug)
}

func TestStorefrontSlugMiddleware_Missing(t *testing.T) {
	router := gin.New()
	router.GET("/api/v1/storefront/catalog", StorefrontSlugMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/storefront/catalog", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetTenantUUID(t *testing.T) {
	tenantID := uuid.New()

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set(TenantIDKey, tenantID.String())

	parsed, err := GetTenantUUID(c)
	require.NoError(t, err)
	assert.Equal(t, tenantID, parsed)
}

func TestGetTenantUUID_Empty(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	parsed, err := GetTenantUUID(c)
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, parsed)
}

func TestMustGetTenantUUID_Panics(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Panics(t, func() {
		MustGetTenantUUID(c)
	})
}

func TestGetStoreSlug_NotFound(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Empty(t, GetStoreSlug(c))
}
