package services

import (
	"context"
	"errors"
	"fmt"

	"event-booking-portal/internal/logging"
	"event-booking-portal/internal/metrics"
	"event-booking-portal/internal/models"
)

// AuthService registers and authenticates users against the credential store.
type AuthService struct {
	users  UserRepository
	hasher PasswordHasher
}

// NewAuthService creates a new authentication service
func NewAuthService(users UserRepository, hasher PasswordHasher) *AuthService {
	return &AuthService{users: users, hasher: hasher}
}

// Register creates a user. An email that is already registered yields
// models.ErrDuplicateEmail and nothing is written.
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		metrics.AuthAttempts.WithLabelValues("register", "invalid").Inc()
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		metrics.AuthAttempts.WithLabelValues("register", "duplicate").Inc()
		return nil, models.ErrDuplicateEmail
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// The store's unique index settles concurrent registrations.
	user, err := s.users.Create(ctx, &models.UserCreateRequest{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	})
	if errors.Is(err, models.ErrDuplicateEmail) {
		metrics.AuthAttempts.WithLabelValues("register", "duplicate").Inc()
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	metrics.AuthAttempts.WithLabelValues("register", "success").Inc()
	logging.Ctx(ctx).Info().Int("user_id", user.ID).Msg("User registered")
	return user, nil
}

// Authenticate returns the user for a matching email and password, or
// models.ErrInvalidCredentials. Unknown emails and wrong passwords are not
// distinguished.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = models.NormalizeEmail(email)

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, models.ErrUserNotFound) {
		metrics.AuthAttempts.WithLabelValues("login", "failure").Inc()
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Int("user_id", user.ID).Msg("Stored password hash could not be verified")
		metrics.AuthAttempts.WithLabelValues("login", "failure").Inc()
		return nil, models.ErrInvalidCredentials
	}
	if !ok {
		metrics.AuthAttempts.WithLabelValues("login", "failure").Inc()
		return nil, models.ErrInvalidCredentials
	}

	if s.hasher.NeedsRehash(user.PasswordHash) {
		s.upgradeHash(ctx, user, password)
	}

	metrics.AuthAttempts.WithLabelValues("login", "success").Inc()
	return user, nil
}

// upgradeHash re-hashes a legacy password. Failures only cost the upgrade.
func (s *AuthService) upgradeHash(ctx context.Context, user *models.User, password string) {
	hash, err := s.hasher.Hash(password)
	if err == nil {
		err = s.users.UpdatePasswordHash(ctx, user.ID, hash)
	}
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Int("user_id", user.ID).Msg("Failed to upgrade password hash")
		return
	}
	user.PasswordHash = hash
	logging.Ctx(ctx).Info().Int("user_id", user.ID).Msg("Upgraded password hash")
}
