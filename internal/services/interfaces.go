package services

import (
	"context"

	"github.com/goccy/go-json"

	"event-booking-portal/internal/models"
)

// UserRepository is the credential store used by AuthService.
type UserRepository interface {
	Create(ctx context.Context, req *models.UserCreateRequest) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdatePasswordHash(ctx context.Context, id int, hash string) error
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
	NeedsRehash(encoded string) bool
}

// AuthServiceInterface is what the page controllers need for login and registration.
type AuthServiceInterface interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
}

// EventDirectory lists bookable events from the event service.
type EventDirectory interface {
	FetchEvents(ctx context.Context) ([]models.Event, error)
	FetchRawEvents(ctx context.Context) (json.RawMessage, error)
}

// BookingSubmitter forwards booking requests to the booking service. It never
// returns an error: every failure is folded into the outcome.
type BookingSubmitter interface {
	SubmitBooking(ctx context.Context, req models.BookingRequest) models.BookingOutcome
}
