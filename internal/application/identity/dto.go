package identity

import (
	"time"

	"github.com/google/uuid"
)

// LoginInput contains the input for user login. The tenant slug tells the
// platform which workspace the credentials belong to, since emails are only
// unique within a tenant.
type LoginInput struct {
	TenantSlug string
	Email      string
	Password   string
	IP         string // Client IP for login tracking
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	User                  UserInfo
}

// UserInfo contains basic user information returned after login
type UserInfo struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	TenantSlug string
	Email      string
	Name       string
	Phone      string
	AvatarURL  string
	IsOwner    bool
	GroupIDs   []uuid.UUID
	Modules    map[string]string // module key -> "read"/"write"
	AllStores  bool
	StoreIDs   []uuid.UUID
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains the result of a token refresh
type RefreshTokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// LogoutInput contains the input for user logout. Both tokens are revoked;
// either may be empty when the client no longer holds it.
type LogoutInput struct {
	AccessToken  string
	RefreshToken string
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}
