package model

import "time"

// Roles understood by the backend. Warehouse staff (gudang) are pinned to a
// single warehouse; cashiers (kasir) and managers (manajer) are read-mostly.
const (
	RoleSuperAdmin = "super_admin"
	RoleGudang     = "gudang"
	RoleKasir      = "kasir"
	RoleManajer    = "manajer"
)

func ValidRole(role string) bool {
	switch role {
	case RoleSuperAdmin, RoleGudang, RoleKasir, RoleManajer:
		return true
	}
	return false
}

type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Username     string     `json:"username"`
	FullName     string     `json:"full_name"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	WarehouseID  *string    `json:"warehouse_id,omitempty"`
	IsActive     bool       `json:"is_active"`
	IsVerified   bool       `json:"is_verified"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// SessionUser is the read-only profile shape shared with API consumers. It is
// what /auth/me returns and what the client caches locally.
type SessionUser struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Username    string     `json:"username"`
	FullName    string     `json:"full_name"`
	Role        string     `json:"role"`
	WarehouseID *string    `json:"warehouse_id,omitempty"`
	IsActive    bool       `json:"is_active"`
	IsVerified  bool       `json:"is_verified"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

func (u User) Session() SessionUser {
	return SessionUser{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		FullName:    u.FullName,
		Role:        u.Role,
		WarehouseID: u.WarehouseID,
		IsActive:    u.IsActive,
		IsVerified:  u.IsVerified,
		LastLogin:   u.LastLogin,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

type AuthClaims struct {
	UserID      string `json:"sub"`
	Username    string `json:"username"`
	Role        string `json:"role"`
	WarehouseID string `json:"warehouse_id"`
	Type        string `json:"typ"`
	TokenID     string `json:"jti"`
}

type TokenPair struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int64        `json:"expires_in"`
	User         *SessionUser `json:"user,omitempty"`
}
