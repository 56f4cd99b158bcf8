package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"go-inventory-tracker/pkg/apierror"
	"go-inventory-tracker/pkg/model"
)

type userStore interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByUsername(ctx context.Context, username string) (model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u model.User) error
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error
	UpdatePassword(ctx context.Context, userID string, passwordHash string) error
	List(ctx context.Context) ([]model.SessionUser, error)
}

type tokenStore interface {
	Store(ctx context.Context, token string, userID string, expiresAt time.Time) error
	Validate(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
	RevokeAllForUser(ctx context.Context, userID string) error
}

type warehouseFinder interface {
	FindByID(ctx context.Context, id string) (model.Warehouse, error)
}

type AuthService struct {
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	users      userStore
	tokens     tokenStore
	warehouses warehouseFinder
}

func NewAuthService(jwtSecret string, accessTTL time.Duration, refreshTTL time.Duration,
	users userStore, tokens tokenStore, warehouses warehouseFinder) (*AuthService, error) {
	if strings.TrimSpace(jwtSecret) == "" {
		return nil, errors.New("jwt secret is required")
	}

	return &AuthService{
		jwtSecret:  []byte(jwtSecret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		users:      users,
		tokens:     tokens,
		warehouses: warehouses,
	}, nil
}

func (s *AuthService) Login(ctx context.Context, username string, password string) (model.TokenPair, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return model.TokenPair{}, apierror.Unauthorized("invalid credentials")
		}
		return model.TokenPair{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.TokenPair{}, apierror.Unauthorized("invalid credentials")
	}

	if !user.IsActive {
		return model.TokenPair{}, apierror.BadRequest("inactive user", "")
	}

	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return model.TokenPair{}, err
	}
	user.LastLogin = &now

	return s.issueTokenPair(ctx, user)
}

func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.SessionUser, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))

	if req.Username == "" || req.Password == "" || req.Email == "" || req.FullName == "" {
		return model.SessionUser{}, apierror.BadRequest("email, username, full_name and password are required", "")
	}
	if !model.ValidRole(req.Role) {
		return model.SessionUser{}, apierror.BadRequest("invalid role", req.Role)
	}

	// Warehouse staff must belong to a warehouse; super admins must not.
	if req.Role == model.RoleGudang && req.WarehouseID == nil {
		return model.SessionUser{}, apierror.BadRequest("warehouse staff must be assigned to a warehouse", "")
	}
	if req.Role == model.RoleSuperAdmin && req.WarehouseID != nil {
		return model.SessionUser{}, apierror.BadRequest("super admin cannot be assigned to a warehouse", "")
	}

	if req.WarehouseID != nil {
		if _, err := s.warehouses.FindByID(ctx, *req.WarehouseID); err != nil {
			if errors.Is(err, model.ErrWarehouseNotFound) {
				return model.SessionUser{}, apierror.BadRequest("warehouse not found", *req.WarehouseID)
			}
			return model.SessionUser{}, err
		}
	}

	if exists, err := s.users.ExistsByEmail(ctx, req.Email); err != nil {
		return model.SessionUser{}, err
	} else if exists {
		return model.SessionUser{}, apierror.Conflict("email already registered", req.Email)
	}

	if exists, err := s.users.ExistsByUsername(ctx, req.Username); err != nil {
		return model.SessionUser{}, err
	} else if exists {
		return model.SessionUser{}, apierror.Conflict("username already registered", req.Username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return model.SessionUser{}, fmt.Errorf("hash password: %w", err)
	}

	user := model.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		Username:     req.Username,
		FullName:     req.FullName,
		PasswordHash: string(hash),
		Role:         req.Role,
		WarehouseID:  req.WarehouseID,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return model.SessionUser{}, err
	}

	return user.Session(), nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	claims, err := s.ValidateToken(refreshToken, "refresh")
	if err != nil {
		return model.TokenPair{}, err
	}

	ownerID, err := s.tokens.Validate(ctx, refreshToken)
	if err != nil || ownerID != claims.UserID {
		return model.TokenPair{}, apierror.Unauthorized("refresh token is invalid")
	}

	if err := s.tokens.Revoke(ctx, refreshToken); err != nil {
		return model.TokenPair{}, err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil || !user.IsActive {
		return model.TokenPair{}, apierror.Unauthorized("user not found or inactive")
	}

	return s.issueTokenPair(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return nil
	}
	return s.tokens.Revoke(ctx, refreshToken)
}

func (s *AuthService) ChangePassword(ctx context.Context, userID string, currentPassword string, newPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return apierror.BadRequest("current password is incorrect", "")
	}

	if len(newPassword) < 8 {
		return apierror.BadRequest("new password must be at least 8 characters", "")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), 12)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}

	// A password change invalidates every outstanding refresh token.
	return s.tokens.RevokeAllForUser(ctx, userID)
}

func (s *AuthService) ValidateToken(tokenString string, expectedType string) (*model.AuthClaims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apierror.New("UNAUTHORIZED", "invalid token signing method", "", http.StatusUnauthorized)
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, apierror.Unauthorized("invalid token")
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apierror.Unauthorized("invalid token claims")
	}

	typ, _ := claimsMap["typ"].(string)
	if expectedType != "" && typ != expectedType {
		return nil, apierror.Unauthorized("invalid token type")
	}

	claims := &model.AuthClaims{Type: typ}
	claims.UserID, _ = claimsMap["sub"].(string)
	claims.Username, _ = claimsMap["username"].(string)
	claims.Role, _ = claimsMap["role"].(string)
	claims.WarehouseID, _ = claimsMap["warehouse_id"].(string)
	claims.TokenID, _ = claimsMap["jti"].(string)

	if claims.UserID == "" {
		return nil, apierror.Unauthorized("invalid token subject")
	}

	return claims, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, userID string) (model.SessionUser, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return model.SessionUser{}, apierror.NotFound("user not found", userID)
		}
		return model.SessionUser{}, err
	}
	return user.Session(), nil
}

// ListUsers returns every account for the admin user screen.
func (s *AuthService) ListUsers(ctx context.Context) ([]model.SessionUser, error) {
	return s.users.List(ctx)
}

func (s *AuthService) issueTokenPair(ctx context.Context, user model.User) (model.TokenPair, error) {
	now := time.Now().UTC()
	warehouseID := ""
	if user.WarehouseID != nil {
		warehouseID = *user.WarehouseID
	}

	accessToken, err := s.signToken(jwt.MapClaims{
		"sub":          user.ID,
		"username":     user.Username,
		"role":         user.Role,
		"warehouse_id": warehouseID,
		"typ":          "access",
		"jti":          uuid.NewString(),
		"iat":          now.Unix(),
		"exp":          now.Add(s.accessTTL).Unix(),
	})
	if err != nil {
		return model.TokenPair{}, err
	}

	refreshExpiry := now.Add(s.refreshTTL)
	refreshToken, err := s.signToken(jwt.MapClaims{
		"sub": user.ID,
		"typ": "refresh",
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": refreshExpiry.Unix(),
	})
	if err != nil {
		return model.TokenPair{}, err
	}

	if err := s.tokens.Store(ctx, refreshToken, user.ID, refreshExpiry); err != nil {
		return model.TokenPair{}, err
	}

	session := user.Session()
	return model.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.accessTTL.Seconds()),
		User:         &session,
	}, nil
}

func (s *AuthService) signToken(claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
