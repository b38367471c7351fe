package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskhive/core/internal/domain/entities"
	"github.com/taskhive/core/internal/infrastructure/config"
	"github.com/taskhive/core/internal/infrastructure/logger"
	"github.com/taskhive/core/internal/ports"
)

// AuthService handles authentication operations: account registration,
// credential checks, access-token minting and refresh-token rotation.
type AuthService struct {
	userRepo  ports.UserRepository
	tokenRepo ports.TokenRepository
	jwtConfig config.JWTConfig
	logger    *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo ports.UserRepository, tokenRepo ports.TokenRepository, jwtConfig config.JWTConfig, logger *logger.Logger) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		jwtConfig: jwtConfig,
		logger:    logger,
	}
}

// Register creates a new user account and signs it in.
func (s *AuthService) Register(ctx context.Context, req ports.RegisterRequest) (*ports.AuthResponse, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entities.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Infow("User registered", "user_id", user.ID, "email", user.Email)

	return s.issueTokens(ctx, user)
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, req ports.LoginRequest) (*ports.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		s.logger.Warnw("Login attempt with unknown email", "email", req.Email)
		return nil, entities.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warnw("Login attempt with invalid password", "email", req.Email, "user_id", user.ID)
		return nil, entities.ErrInvalidCredentials
	}

	s.logger.Infow("User logged in", "user_id", user.ID, "email", user.Email)

	return s.issueTokens(ctx, user)
}

// Refresh exchanges a stored refresh token for a fresh token pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.AuthResponse, error) {
	userID, err := s.tokenRepo.UserFor(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, entities.ErrInvalidToken
	}

	// Rotation: the old token stops working once a new one is issued.
	if err := s.tokenRepo.Revoke(ctx, userID); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

// CurrentUser resolves the authenticated user's record.
func (s *AuthService) CurrentUser(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// Logout revokes the user's refresh token. The access token stays valid
// until it expires; the client drops it.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.tokenRepo.Revoke(ctx, userID); err != nil {
		return err
	}

	s.logger.Infow("User logged out", "user_id", userID)

	return nil
}

// ValidateToken parses and verifies an access token.
func (s *AuthService) ValidateToken(tokenString string) (*ports.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ports.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtConfig.Secret), nil
	})
	if err != nil {
		return nil, errors.Join(entities.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*ports.Claims)
	if !ok || !token.Valid {
		return nil, entities.ErrInvalidToken
	}

	return claims, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *entities.User) (*ports.AuthResponse, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.generateRefreshToken(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	// Never leak the hash through the response
	sanitized := *user
	sanitized.PasswordHash = ""

	return &ports.AuthResponse{
		Token:        accessToken,
		RefreshToken: refreshToken,
		User:         &sanitized,
	}, nil
}

func (s *AuthService) generateAccessToken(user *entities.User) (string, error) {
	now := time.Now()
	claims := &ports.Claims{
		UserID: user.ID.String(),
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.jwtConfig.Issuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtConfig.ExpiresIn)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtConfig.Secret))
}

func (s *AuthService) generateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}

	token := hex.EncodeToString(buf)
	if err := s.tokenRepo.Store(ctx, userID, token, s.jwtConfig.RefreshExpiresIn); err != nil {
		return "", err
	}

	return token, nil
}
