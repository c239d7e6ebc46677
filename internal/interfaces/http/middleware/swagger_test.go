package middleware

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newSwaggerRouter(cfg SwaggerConfig, jwtMiddleware gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.GET("/swagger/index.html", SwaggerProtection(cfg, jwtMiddleware), func(c *gin.Context) {
		c.String(http.StatusOK, "docs")
	})
	return router
}

func getSwagger(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	router.ServeHTTP(w, req)
	return w
}

func TestSwaggerProtectionDisabled(t *testing.T) {
	router := newSwaggerRouter(SwaggerConfig{Enabled: false}, nil)

	w := getSwagger(router, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_NOT_FOUND")
}

func TestSwaggerProtectionEnabledNoRestrictions(t *testing.T) {
	router := newSwaggerRouter(SwaggerConfig{Enabled: true}, nil)

	w := getSwagger(router, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "docs", w.Body.String())
}

func TestSwaggerProtectionIPWhitelist(t *testing.T) {
	cfg := SwaggerConfig{
		Enabled:    true,
		AllowedIPs: []string{"10.0.0.5", "192.168.1.0/24"},
	}
	router := newSwaggerRouter(cfg, nil)

	t.Run("exact IP allowed", func(t *testing.T) {
		w := getSwagger(router, "10.0.0.5:4431")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("CIDR range allowed", func(t *testing.T) {
		w := getSwagger(router, "192.168.1.77:55012")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("outside whitelist denied", func(t *testing.T) {
		w := getSwagger(router, "203.0.113.10:9000")
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_FORBIDDEN")
	})
}

func TestSwaggerProtectionIgnoresMalformedWhitelistEntries(t *testing.T) {
	cfg := SwaggerConfig{
		Enabled:    true,
		AllowedIPs: []string{"not-an-ip", "300.0.0.1/8", "10.0.0.5"},
	}
	router := newSwaggerRouter(cfg, nil)

	assert.Equal(t, http.StatusOK, getSwagger(router, "10.0.0.5:1234").Code)
	assert.Equal(t, http.StatusForbidden, getSwagger(router, "10.0.0.6:1234").Code)
}

func TestSwaggerProtectionRequireAuth(t *testing.T) {
	rejectAll := func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
	}
	acceptAll := func(c *gin.Context) { c.Next() }

	t.Run("auth middleware can abort", func(t *testing.T) {
		router := newSwaggerRouter(SwaggerConfig{Enabled: true, RequireAuth: true}, rejectAll)
		w := getSwagger(router, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("auth middleware can pass through", func(t *testing.T) {
		router := newSwaggerRouter(SwaggerConfig{Enabled: true, RequireAuth: true}, acceptAll)
		w := getSwagger(router, "")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestIsIPAllowed(t *testing.T) {
	_, network, _ := net.ParseCIDR("172.16.0.0/12")
	allowedIPs := []net.IP{net.ParseIP("10.1.2.3")}
	allowedNets := []*net.IPNet{network}

	assert.True(t, isIPAllowed(net.ParseIP("10.1.2.3"), allowedIPs, allowedNets))
	assert.True(t, isIPAllowed(net.ParseIP("172.20.0.9"), allowedIPs, allowedNets))
	assert.False(t, isIPAllowed(net.ParseIP("10.1.2.4"), allowedIPs, allowedNets))
	assert.False(t, isIPAllowed(nil, allowedIPs, allowedNets))
}
