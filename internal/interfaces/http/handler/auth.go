package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	identityapp "github.com/Rokin-Inteligencia/roksell-sub000/internal/application/identity"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/interfaces/http/middleware"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *identityapp.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest represents a login request
// @Description Credentials for obtaining a token pair
type LoginRequest struct {
	TenantSlug string `json:"tenant_slug" binding:"required,storeslug" example:"pizzaria-do-ze"`
	Email      string `json:"email" binding:"required,email" example:"dono@pizzaria.com.br"`
	Password   string `json:"password" binding:"required,min=6" example:"s3nh4forte"`
}

// RefreshRequest represents a token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest carries the refresh token to revoke alongside the access token
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ChangePasswordRequest represents a password change request
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// TokenPairResponse represents an issued token pair
type TokenPairResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type" example:"Bearer"`
}

// UserInfoResponse represents the authenticated user
type UserInfoResponse struct {
	ID         string            `json:"id"`
	TenantID   string            `json:"tenant_id"`
	TenantSlug string            `json:"tenant_slug"`
	Email      string            `json:"email"`
	Name       string            `json:"name"`
	Phone      string            `json:"phone,omitempty"`
	AvatarURL  string            `json:"avatar_url,omitempty"`
	IsOwner    bool              `json:"is_owner"`
	Modules    map[string]string `json:"modules"`
	AllStores  bool              `json:"all_stores"`
	StoreIDs   []string          `json:"store_ids"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	TokenPairResponse
	User UserInfoResponse `json:"user"`
}

func toUserInfoResponse(info identityapp.UserInfo) UserInfoResponse {
	storeIDs := make([]string, len(info.StoreIDs))
	for i, id := range info.StoreIDs {
		storeIDs[i] = id.String()
	}
	return UserInfoResponse{
		ID:         info.ID.String(),
		TenantID:   info.TenantID.String(),
		TenantSlug: info.TenantSlug,
		Email:      info.Email,
		Name:       info.Name,
		Phone:      info.Phone,
		AvatarURL:  info.AvatarURL,
		IsOwner:    info.IsOwner,
		Modules:    info.Modules,
		AllStores:  info.AllStores,
		StoreIDs:   storeIDs,
	}
}

// Login godoc
// @Summary      Login
// @Description  Authenticate with tenant slug, email and password and receive a token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Credentials"
// @Success      200 {object} dto.Response{data=LoginResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      423 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), identityapp.LoginInput{
		TenantSlug: strings.ToLower(strings.TrimSpace(req.TenantSlug)),
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Password:   req.Password,
		IP:         c.ClientIP(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, LoginResponse{
		TokenPairResponse: TokenPairResponse{
			AccessToken:           result.AccessToken,
			RefreshToken:          result.RefreshToken,
			AccessTokenExpiresAt:  result.AccessTokenExpiresAt,
			RefreshTokenExpiresAt: result.RefreshTokenExpiresAt,
			TokenType:             result.TokenType,
		},
		User: toUserInfoResponse(result.User),
	})
}

// Refresh godoc
// @Summary      Refresh tokens
// @Description  Exchange a valid refresh token for a new token pair. The old pair is revoked.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RefreshRequest true "Refresh token"
// @Success      200 {object} dto.Response{data=TokenPairResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.authService.RefreshToken(c.Request.Context(), identityapp.RefreshTokenInput{
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, TokenPairResponse{
		AccessToken:           result.AccessToken,
		RefreshToken:          result.RefreshToken,
		AccessTokenExpiresAt:  result.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: result.RefreshTokenExpiresAt,
		TokenType:             result.TokenType,
	})
}

// Logout godoc
// @Summary      Logout
// @Description  Revoke the current access token and, when sent, the refresh token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LogoutRequest false "Refresh token to revoke"
// @Success      204 "No Content"
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var req LogoutRequest
	_ = c.ShouldBindJSON(&req)

	accessToken := ""
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		accessToken = strings.TrimPrefix(header, "Bearer ")
	}

	if err := h.authService.Logout(c.Request.Context(), identityapp.LogoutInput{
		AccessToken:  accessToken,
		RefreshToken: req.RefreshToken,
	}); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Me godoc
// @Summary      Current user
// @Description  Return the authenticated user with resolved module permissions and store scope
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response{data=UserInfoResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	info, err := h.authService.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toUserInfoResponse(*info))
}

// ChangePassword godoc
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ChangePasswordRequest true "Old and new passwords"
// @Success      204 "No Content"
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), identityapp.ChangePasswordInput{
		UserID:      userID,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	}); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
