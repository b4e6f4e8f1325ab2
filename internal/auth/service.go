package auth

import (
	"context"
	"errors"
	"time"

	"school-service/internal/config"
	"school-service/internal/identity"
	"school-service/internal/metrics"
)

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrAccountDisabled     = errors.New("account is disabled")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

type Service struct {
	authRepo *Repository
	users    identity.Repository
	jwtCfg   config.JWTConfig
	metrics  *metrics.Metrics
}

func NewService(authRepo *Repository, users identity.Repository, jwtCfg config.JWTConfig, m *metrics.Metrics) *Service {
	return &Service{
		authRepo: authRepo,
		users:    users,
		jwtCfg:   jwtCfg,
		metrics:  m,
	}
}

// Login authenticates a user and returns a token pair
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := CheckPassword(user.Password, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	s.metrics.RecordLogin(ctx)

	return s.generateTokenPair(ctx, user)
}

// RefreshAccessToken generates a new token pair using a refresh token
func (s *Service) RefreshAccessToken(ctx context.Context, refreshTokenString string) (*AuthResponse, error) {
	refreshToken, err := s.authRepo.GetRefreshToken(ctx, refreshTokenString)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.users.GetByID(ctx, refreshToken.UserID)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	// Rotate: the old token is spent
	if err := s.authRepo.DeleteRefreshToken(ctx, refreshTokenString); err != nil {
		return nil, err
	}

	return s.generateTokenPair(ctx, user)
}

// Logout invalidates a refresh token
func (s *Service) Logout(ctx context.Context, refreshTokenString string) error {
	return s.authRepo.DeleteRefreshToken(ctx, refreshTokenString)
}

// LogoutAll invalidates all refresh tokens for a user
func (s *Service) LogoutAll(ctx context.Context, userID int) error {
	return s.authRepo.DeleteAllUserTokens(ctx, userID)
}

// Me returns the authenticated user's account record
func (s *Service) Me(ctx context.Context, userID int) (*identity.User, error) {
	return s.users.GetByID(ctx, userID)
}

// ListUsers returns accounts, optionally filtered by role.
func (s *Service) ListUsers(ctx context.Context, role string) ([]identity.User, error) {
	return s.users.List(ctx, role)
}

func (s *Service) generateTokenPair(ctx context.Context, user *identity.User) (*AuthResponse, error) {
	accessToken, err := GenerateAccessToken(user.ID, user.Email, user.Role, s.jwtCfg.AccessTokenTTL())
	if err != nil {
		return nil, err
	}

	refreshToken, err := GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(s.jwtCfg.RefreshTokenTTL())
	if err := s.authRepo.CreateRefreshToken(ctx, user.ID, refreshToken, expiresAt); err != nil {
		return nil, err
	}

	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}
