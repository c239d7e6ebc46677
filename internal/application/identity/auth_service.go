package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/identity"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/infrastructure/auth"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthServiceConfig holds configuration for the auth service
type AuthServiceConfig struct {
	// MaxLoginAttempts is the number of failed attempts before lockout
	MaxLoginAttempts int
	// LockDuration is how long the account stays locked after too many failures
	LockDuration time.Duration
}

// DefaultAuthServiceConfig returns the default auth service configuration
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
	}
}

// AuthService handles authentication operations for admin users
type AuthService struct {
	userRepo   identity.UserRepository
	groupRepo  identity.GroupRepository
	tenantRepo identity.TenantRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	config     AuthServiceConfig
	logger     *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo identity.UserRepository,
	groupRepo identity.GroupRepository,
	tenantRepo identity.TenantRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		groupRepo:  groupRepo,
		tenantRepo: tenantRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		config:     config,
		logger:     logger,
	}
}

// Login authenticates a user by tenant slug, email and password and returns
// a token pair. Credential failures never reveal whether the email exists.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	slug := strings.ToLower(strings.TrimSpace(input.TenantSlug))

	tenant, err := s.tenantRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("TENANT_NOT_FOUND", "Tenant not found")
		}
		s.logger.Error("Failed to resolve tenant for login", zap.String("slug", slug), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to resolve tenant")
	}
	if tenant.IsSuspended() {
		return nil, shared.NewDomainError("TENANT_SUSPENDED", "This workspace is suspended. Contact support.")
	}

	// Scope the context so the tenant-implicit repositories hit the right rows
	ctx, log := logger.WithTenantID(ctx, s.logger, tenant.ID.String())

	email := strings.ToLower(strings.TrimSpace(input.Email))
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
		}
		log.Error("Failed to find user for login", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to authenticate")
	}

	if !user.CanLogin() {
		if user.IsLocked() {
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account temporarily locked due to failed login attempts")
		}
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account is deactivated")
	}

	if !user.VerifyPassword(input.Password) {
		locked := user.RecordLoginFailure(s.config.MaxLoginAttempts, s.config.LockDuration)
		if err := s.userRepo.Update(ctx, user); err != nil {
			log.Error("Failed to record login failure", zap.String("user_id", user.ID.String()), zap.Error(err))
		}
		if locked {
			log.Warn("Account locked after repeated failures", zap.String("user_id", user.ID.String()))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account temporarily locked due to failed login attempts")
		}
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	tokenInput, err := s.buildTokenInput(ctx, tenant, user)
	if err != nil {
		log.Error("Failed to resolve user access", zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to authenticate")
	}

	pair, err := s.jwtService.GenerateTokenPair(tokenInput)
	if err != nil {
		log.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("TOKEN_GENERATION_FAILED", "Failed to generate authentication tokens")
	}

	// Best effort, a failed write here must not fail the login
	user.RecordLoginSuccess(input.IP)
	if err := s.userRepo.Update(ctx, user); err != nil {
		log.Warn("Failed to record login success", zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	log.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("tenant_slug", tenant.Slug))

	return &LoginResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User:                  toUserInfo(user, tenant, tokenInput),
	}, nil
}

// RefreshToken exchanges a valid refresh token for a new token pair. Module
// permissions and store scope are re-resolved so revoked access does not
// survive a refresh.
func (s *AuthService) RefreshToken(ctx context.Context, input RefreshTokenInput) (*RefreshTokenResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrExpiredToken):
			return nil, shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
		case errors.Is(err, auth.ErrMaxRefreshExceeded):
			return nil, shared.NewDomainError("TOKEN_MAX_REFRESH", "Session expired, please login again")
		default:
			return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
		}
	}

	revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		s.logger.Error("Failed to check token blacklist", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to refresh session")
	}
	if revoked {
		return nil, shared.NewDomainError("TOKEN_REVOKED", "Session has been revoked")
	}

	invalidated, err := s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
	if err != nil {
		s.logger.Error("Failed to check user token invalidation", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to refresh session")
	}
	if invalidated {
		return nil, shared.NewDomainError("TOKEN_REVOKED", "Session has been revoked")
	}

	tenantID, err := claims.GetTenantUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	}
	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	}

	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
		}
		s.logger.Error("Failed to load tenant for refresh", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to refresh session")
	}
	if tenant.IsSuspended() {
		return nil, shared.NewDomainError("TENANT_SUSPENDED", "This workspace is suspended. Contact support.")
	}

	ctx, log := logger.WithTenantID(ctx, s.logger, tenant.ID.String())

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
		}
		log.Error("Failed to load user for refresh", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to refresh session")
	}

	if !user.CanLogin() {
		if user.IsLocked() {
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account temporarily locked due to failed login attempts")
		}
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account is deactivated")
	}

	tokenInput, err := s.buildTokenInput(ctx, tenant, user)
	if err != nil {
		log.Error("Failed to resolve user access for refresh", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to refresh session")
	}

	pair, err := s.jwtService.RefreshTokenPair(input.RefreshToken, tokenInput)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrExpiredToken):
			return nil, shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
		case errors.Is(err, auth.ErrMaxRefreshExceeded):
			return nil, shared.NewDomainError("TOKEN_MAX_REFRESH", "Session expired, please login again")
		default:
			return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
		}
	}

	return &RefreshTokenResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}, nil
}

// Logout revokes the current session by blacklisting both tokens for their
// remaining lifetime. Tokens that no longer validate are simply skipped, so
// logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if input.AccessToken != "" {
		if claims, err := s.jwtService.ValidateAccessToken(input.AccessToken); err == nil {
			if ttl := claims.GetRemainingTTL(); ttl > 0 {
				if err := s.blacklist.AddToBlacklist(ctx, claims.ID, ttl); err != nil {
					s.logger.Error("Failed to blacklist access token", zap.Error(err))
					return shared.NewDomainError("LOGOUT_FAILED", "Failed to revoke session")
				}
			}
		}
	}

	if input.RefreshToken != "" {
		if claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken); err == nil {
			if ttl := claims.GetRemainingTTL(); ttl > 0 {
				if err := s.blacklist.AddToBlacklist(ctx, claims.ID, ttl); err != nil {
					s.logger.Error("Failed to blacklist refresh token", zap.Error(err))
					return shared.NewDomainError("LOGOUT_FAILED", "Failed to revoke session")
				}
			}
		}
	}

	return nil
}

// GetCurrentUser returns the authenticated user's profile with the resolved
// module permissions and store scope.
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
		}
		s.logger.Error("Failed to find current user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load user")
	}

	tenant, err := s.tenantRepo.FindByID(ctx, user.TenantID)
	if err != nil {
		s.logger.Error("Failed to load tenant for current user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load user")
	}

	tokenInput, err := s.buildTokenInput(ctx, tenant, user)
	if err != nil {
		s.logger.Error("Failed to resolve user access", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load user")
	}

	info := toUserInfo(user, tenant, tokenInput)
	return &info, nil
}

// ChangePassword changes the user's own password after verifying the current
// one, then force-expires every other session of that user.
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("USER_NOT_FOUND", "User not found")
		}
		s.logger.Error("Failed to find user for password change", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to change password")
	}

	if err := user.ChangePassword(input.OldPassword, input.NewPassword); err != nil {
		return err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to persist password change", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to change password")
	}

	// Invalidate outstanding sessions. Best effort, the password itself
	// already changed.
	ttl := s.jwtService.GetRefreshTokenExpiration()
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, user.ID.String(), ttl); err != nil {
		s.logger.Warn("Failed to invalidate user sessions after password change",
			zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	s.logger.Info("Password changed", zap.String("user_id", user.ID.String()))

	return nil
}

// buildTokenInput loads the user's groups and flattens them into the claim
// data carried by the access token.
func (s *AuthService) buildTokenInput(ctx context.Context, tenant *identity.Tenant, user *identity.User) (auth.GenerateTokenInput, error) {
	if err := s.userRepo.LoadUserGroups(ctx, user); err != nil {
		return auth.GenerateTokenInput{}, err
	}

	var groups []*identity.Group
	if len(user.GroupIDs) > 0 {
		var err error
		groups, err = s.groupRepo.FindByIDs(ctx, user.GroupIDs)
		if err != nil {
			return auth.GenerateTokenInput{}, err
		}
	}

	modules, scope := mergeGroupAccess(groups)

	return auth.GenerateTokenInput{
		TenantID:   tenant.ID,
		TenantSlug: tenant.Slug,
		UserID:     user.ID,
		Email:      user.Email,
		Name:       user.Name,
		IsOwner:    user.IsOwner,
		Modules:    modules,
		AllStores:  scope.AllStores,
		StoreIDs:   scope.StoreIDs,
	}, nil
}

// mergeGroupAccess flattens a user's groups into a single module permission
// map and store scope. The highest access level per module wins, and any
// group with full store visibility widens the scope to all stores.
func mergeGroupAccess(groups []*identity.Group) (map[string]string, identity.StoreScope) {
	modules := make(map[string]string)
	scope := identity.StoreScope{}
	seen := make(map[uuid.UUID]bool)

	for _, group := range groups {
		perms, err := group.GetPermissions()
		if err == nil {
			for module, level := range perms {
				if accessRank(string(level)) > accessRank(modules[module]) {
					modules[module] = string(level)
				}
			}
		}

		gs, err := group.GetStoreScope()
		if err != nil {
			continue
		}
		if gs.AllStores {
			scope.AllStores = true
			continue
		}
		for _, id := range gs.StoreIDs {
			if !seen[id] {
				seen[id] = true
				scope.StoreIDs = append(scope.StoreIDs, id)
			}
		}
	}

	if scope.AllStores {
		scope.StoreIDs = nil
	}

	// An explicit "none" carries no more information than absence
	for module, level := range modules {
		if level == string(identity.AccessNone) {
			delete(modules, module)
		}
	}

	return modules, scope
}

func accessRank(level string) int {
	switch level {
	case string(identity.AccessWrite):
		return 2
	case string(identity.AccessRead):
		return 1
	default:
		return 0
	}
}

func toUserInfo(user *identity.User, tenant *identity.Tenant, tokenInput auth.GenerateTokenInput) UserInfo {
	return UserInfo{
		ID:         user.ID,
		TenantID:   user.TenantID,
		TenantSlug: tenant.Slug,
		Email:      user.Email,
		Name:       user.Name,
		Phone:      user.Phone,
		AvatarURL:  user.AvatarURL,
		IsOwner:    user.IsOwner,
		GroupIDs:   user.GroupIDs,
		Modules:    tokenInput.Modules,
		AllStores:  tokenInput.AllStores,
		StoreIDs:   tokenInput.StoreIDs,
	}
}
