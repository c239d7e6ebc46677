package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/identity"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/interfaces/http/dto"
)

// ModuleGateContextKey is the key under which the gated module key is stored
const ModuleGateContextKey = "gated_module"

// ModuleChecker resolves whether a tenant's plan includes a module.
// Satisfied by application/identity.PlanModuleService.
type ModuleChecker interface {
	HasModule(ctx context.Context, tenantID uuid.UUID, module string) (bool, error)
}

// ModuleGateConfig holds configuration for the module gate middleware
type ModuleGateConfig struct {
	// Checker resolves plan-level module availability (required)
	Checker ModuleChecker
	// Module is the module the gated routes belong to (required)
	Module identity.ModuleKey
	// Logger for middleware logging
	Logger *zap.Logger
}

// ModuleGate restricts a route group to tenants whose plan includes the
// module and to users whose group grants the needed access level.
// GET and HEAD require read access; every other method requires write.
func ModuleGate(checker ModuleChecker, module identity.ModuleKey) gin.HandlerFunc {
	return ModuleGateWithConfig(ModuleGateConfig{
		Checker: checker,
		Module:  module,
	})
}

// ModuleGateWithConfig creates the module gate middleware with custom configuration
func ModuleGateWithConfig(cfg ModuleGateConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
				dto.ErrCodeUnauthorized,
				"Sessão inválida. Faça login novamente.",
			))
			c.Abort()
			return
		}

		module := string(cfg.Module)

		// Plan gate first: a module outside the plan is hidden for every
		// user of the tenant, owner included.
		if cfg.Checker != nil {
			tenantID, err := claims.GetTenantUUID()
			if err != nil {
				c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
					dto.ErrCodeTokenInvalid,
					"Sessão inválida. Faça login novamente.",
				))
				c.Abort()
				return
			}

			available, err := cfg.Checker.HasModule(c.Request.Context(), tenantID, module)
			if err != nil {
				// Availability lookup failing must not take the whole
				// portal down; log and let the group check decide.
				if cfg.Logger != nil {
					cfg.Logger.Warn("module availability check failed",
						zap.String("module", module),
						zap.String("tenant_id", claims.TenantID),
						zap.Error(err))
				}
			} else if !available {
				c.JSON(http.StatusForbidden, dto.NewErrorResponse(
					dto.ErrCodeModuleNotAvailable,
					"Este módulo não está incluído no seu plano. Faça upgrade para utilizá-lo.",
				))
				c.Abort()
				return
			}
		}

		// Group gate: read for safe methods, write for mutations.
		allowed := false
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead:
			allowed = claims.CanRead(module)
		default:
			allowed = claims.CanWrite(module)
		}
		if !allowed {
			c.JSON(http.StatusForbidden, dto.NewErrorResponse(
				dto.ErrCodeForbidden,
				"Seu perfil de acesso não permite esta ação.",
			))
			c.Abort()
			return
		}

		c.Set(ModuleGateContextKey, module)
		c.Next()
	}
}
