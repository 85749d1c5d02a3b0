package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"

	"github.com/tackboard/tack/internal/domain"
)

// Sentinel errors for the auth package.
var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrUserAlreadyExists  = errors.New("auth: user already exists")
	ErrUserNotFound       = errors.New("auth: user not found")
)

// argon2id parameters following OWASP recommendations.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024 // 64 MiB
	argonThreads = 4
	argonKeyLen  = 32
	argonSaltLen = 16
)

// Service provides authentication operations: password signup/login,
// OAuth logins, and token refresh.
type Service struct {
	userRepo   domain.UserRepository
	jwtSecret  string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewService(userRepo domain.UserRepository, jwtSecret string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		userRepo:   userRepo,
		jwtSecret:  jwtSecret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// TokenPair bundles the two JWTs handed to a client on login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Register creates a new user with email/password. The password is
// hashed with argon2id before storage.
func (s *Service) Register(ctx context.Context, email, password, name string) (*domain.User, error) {
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, fmt.Errorf("auth.Register: %w", ErrUserAlreadyExists)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("auth.Register: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(email),
		PasswordHash: hash,
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("auth.Register: %w", err)
	}

	return user, nil
}

// Login validates email/password and returns access + refresh JWT tokens.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("auth.Login: %w", ErrInvalidCredentials)
	}

	// OAuth-only accounts have no password hash.
	if user.PasswordHash == "" || !verifyPassword(password, user.PasswordHash) {
		return nil, nil, fmt.Errorf("auth.Login: %w", ErrInvalidCredentials)
	}

	pair, err := s.issuePair(user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("auth.Login: %w", err)
	}

	return user, pair, nil
}

// OAuthLogin finds or creates the user behind an OAuth identity.
// Matching order: existing provider link, then email, then a fresh
// account. isNew reports whether an account was created, which drives
// the welcome email.
func (s *Service) OAuthLogin(ctx context.Context, provider, providerID, email, name, avatarURL string) (user *domain.User, pair *TokenPair, isNew bool, err error) {
	link, err := s.userRepo.GetOAuthLink(ctx, provider, providerID)
	if err == nil {
		user, err = s.userRepo.GetByID(ctx, link.UserID)
		if err != nil {
			return nil, nil, false, fmt.Errorf("auth.OAuthLogin: %w", err)
		}
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, nil, false, fmt.Errorf("auth.OAuthLogin: %w", err)
	}

	if user == nil && email != "" {
		existing, err := s.userRepo.GetByEmail(ctx, email)
		if err == nil {
			user = existing
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, nil, false, fmt.Errorf("auth.OAuthLogin: %w", err)
		}
	}

	if user == nil {
		now := time.Now()
		user = &domain.User{
			ID:        uuid.New(),
			Email:     strings.ToLower(email),
			Name:      name,
			AvatarURL: avatarURL,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, nil, false, fmt.Errorf("auth.OAuthLogin: %w", err)
		}
		isNew = true
	}

	if link == nil {
		link = &domain.UserOAuthLink{
			ID:         uuid.New(),
			UserID:     user.ID,
			Provider:   provider,
			ProviderID: providerID,
			CreatedAt:  time.Now(),
		}
		if err := s.userRepo.CreateOAuthLink(ctx, link); err != nil {
			return nil, nil, false, fmt.Errorf("auth.OAuthLogin: link: %w", err)
		}
	}

	pair, err = s.issuePair(user.ID)
	if err != nil {
		return nil, nil, false, fmt.Errorf("auth.OAuthLogin: %w", err)
	}

	return user, pair, isNew, nil
}

// RefreshToken validates a refresh token and issues a new access token.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := ValidateToken(s.jwtSecret, refreshToken)
	if err != nil {
		return "", fmt.Errorf("auth.RefreshToken: %w", err)
	}

	if claims.TokenType != tokenTypeRefresh {
		return "", fmt.Errorf("auth.RefreshToken: %w", ErrInvalidToken)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return "", fmt.Errorf("auth.RefreshToken: invalid user id: %w", err)
	}

	// Verify the user still exists.
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("auth.RefreshToken: %w", ErrUserNotFound)
	}

	newAccess, err := IssueAccessToken(s.jwtSecret, user.ID, s.accessTTL)
	if err != nil {
		return "", fmt.Errorf("auth.RefreshToken: %w", err)
	}

	return newAccess, nil
}

// GetUser returns a user by ID (for middleware use).
func (s *Service) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("auth.GetUser: %w", err)
	}

	return user, nil
}

func (s *Service) issuePair(userID uuid.UUID) (*TokenPair, error) {
	access, err := IssueAccessToken(s.jwtSecret, userID, s.accessTTL)
	if err != nil {
		return nil, err
	}

	refresh, err := IssueRefreshToken(s.jwtSecret, userID, s.refreshTTL)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// hashPassword generates an argon2id hash with a random salt.
// Format: hex(salt) + "$" + hex(hash)
func hashPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return hex.EncodeToString(salt) + "$" + hex.EncodeToString(hash), nil
}

// verifyPassword checks a password against an argon2id hash.
func verifyPassword(password, encoded string) bool {
	saltHex, hashHex, ok := strings.Cut(encoded, "$")
	if !ok || saltHex == "" || hashHex == "" {
		return false
	}

	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}

	expectedHash, err := hex.DecodeString(hashHex)
	if err != nil {
		return false
	}

	computed := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return subtle.ConstantTimeCompare(computed, expectedHash) == 1
}
