package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/taskhive/core/internal/domain/entities"
	"github.com/taskhive/core/internal/infrastructure/config"
	"github.com/taskhive/core/internal/infrastructure/logger"
	"github.com/taskhive/core/internal/ports"
)

type fakeUserRepo struct {
	byID    map[uuid.UUID]*entities.User
	byEmail map[string]*entities.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[uuid.UUID]*entities.User),
		byEmail: make(map[string]*entities.User),
	}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entities.User) error {
	if _, exists := r.byEmail[user.Email]; exists {
		return entities.ErrEmailTaken
	}
	stored := *user
	r.byID[user.ID] = &stored
	r.byEmail[user.Email] = &stored
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	user, ok := r.byID[id]
	if !ok {
		return nil, entities.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	user, ok := r.byEmail[email]
	if !ok {
		return nil, entities.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

type fakeTokenRepo struct {
	byToken map[string]uuid.UUID
	byUser  map[uuid.UUID]string
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{
		byToken: make(map[string]uuid.UUID),
		byUser:  make(map[uuid.UUID]string),
	}
}

func (r *fakeTokenRepo) Store(ctx context.Context, userID uuid.UUID, token string, ttl time.Duration) error {
	r.byToken[token] = userID
	r.byUser[userID] = token
	return nil
}

func (r *fakeTokenRepo) UserFor(ctx context.Context, token string) (uuid.UUID, error) {
	userID, ok := r.byToken[token]
	if !ok {
		return uuid.Nil, entities.ErrInvalidToken
	}
	return userID, nil
}

func (r *fakeTokenRepo) Revoke(ctx context.Context, userID uuid.UUID) error {
	if token, ok := r.byUser[userID]; ok {
		delete(r.byToken, token)
		delete(r.byUser, userID)
	}
	return nil
}

func newTestAuthService() (*AuthService, *fakeUserRepo, *fakeTokenRepo) {
	users := newFakeUserRepo()
	tokens := newFakeTokenRepo()
	jwtCfg := config.JWTConfig{
		Secret:           "test-secret-32-bytes-long-enough",
		Issuer:           "taskhive-test",
		ExpiresIn:        15 * time.Minute,
		RefreshExpiresIn: 24 * time.Hour,
	}
	return NewAuthService(users, tokens, jwtCfg, logger.NewNop()), users, tokens
}

func TestRegisterAndValidateTokenRoundTrip(t *testing.T) {
	svc, users, _ := newTestAuthService()

	resp, err := svc.Register(context.Background(), ports.RegisterRequest{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if resp.Token == "" || resp.RefreshToken == "" {
		t.Fatalf("Register() returned empty tokens: %+v", resp)
	}
	if resp.User.PasswordHash != "" {
		t.Errorf("response leaks password hash")
	}

	stored, err := users.GetByEmail(context.Background(), "ada@example.com")
	if err != nil {
		t.Fatalf("user not stored: %v", err)
	}
	if stored.PasswordHash == "" || stored.PasswordHash == "correct horse" {
		t.Errorf("password stored in the clear or not at all")
	}

	claims, err := svc.ValidateToken(resp.Token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.UserID != resp.User.ID.String() {
		t.Errorf("claims.UserID = %q, want %q", claims.UserID, resp.User.ID)
	}
	if claims.Email != "ada@example.com" {
		t.Errorf("claims.Email = %q, want ada@example.com", claims.Email)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newTestAuthService()

	if _, err := svc.Register(context.Background(), ports.RegisterRequest{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "correct horse",
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "ada@example.com", "battery staple"},
		{"unknown email", "nobody@example.com", "correct horse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), ports.LoginRequest{Email: tt.email, Password: tt.password})
			if !errors.Is(err, entities.ErrInvalidCredentials) {
				t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	svc, _, _ := newTestAuthService()

	resp, err := svc.Register(context.Background(), ports.RegisterRequest{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-jwt"},
		{"truncated", resp.Token[:len(resp.Token)-5]},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.ValidateToken(tt.token); !errors.Is(err, entities.ErrInvalidToken) {
				t.Errorf("ValidateToken() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _, tokens := newTestAuthService()

	resp, err := svc.Register(context.Background(), ports.RegisterRequest{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	refreshed, err := svc.Refresh(context.Background(), resp.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if refreshed.RefreshToken == resp.RefreshToken {
		t.Errorf("refresh token not rotated")
	}

	// The original token must be dead after rotation.
	if _, err := svc.Refresh(context.Background(), resp.RefreshToken); !errors.Is(err, entities.ErrInvalidToken) {
		t.Errorf("old refresh token still accepted: error = %v", err)
	}

	if _, ok := tokens.byToken[resp.RefreshToken]; ok {
		t.Errorf("old refresh token still stored")
	}
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	svc, _, _ := newTestAuthService()

	resp, err := svc.Register(context.Background(), ports.RegisterRequest{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if err := svc.Logout(context.Background(), resp.User.ID); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}

	if _, err := svc.Refresh(context.Background(), resp.RefreshToken); !errors.Is(err, entities.ErrInvalidToken) {
		t.Errorf("refresh token usable after logout: error = %v", err)
	}
}
