package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"event-booking-portal/internal/models"
	"event-booking-portal/internal/repositories"
	"event-booking-portal/internal/utils"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, req *models.UserCreateRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) UpdatePasswordHash(ctx context.Context, id int, hash string) error {
	args := m.Called(ctx, id, hash)
	return args.Error(0)
}

func testHasher() *utils.PasswordHasher {
	return utils.NewPasswordHasher(utils.Argon2Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
}

func TestAuthService_RegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMemoryUserRepository()
	svc := NewAuthService(repo, testHasher())

	user, err := svc.Register(ctx, &models.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.NotEqual(t, "pw", user.PasswordHash)

	got, err := svc.Authenticate(ctx, "ada@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "ada@example.com", got.Email)

	_, err = svc.Authenticate(ctx, "ada@example.com", "wrong")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@example.com", "pw")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestAuthService_RegisterDuplicateCreatesNothing(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMemoryUserRepository()
	svc := NewAuthService(repo, testHasher())

	_, err := svc.Register(ctx, &models.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "pw"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &models.RegisterRequest{Name: "Imposter", Email: "ada@example.com", Password: "other"})
	assert.ErrorIs(t, err, models.ErrDuplicateEmail)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// the original password still works
	_, err = svc.Authenticate(ctx, "ada@example.com", "pw")
	assert.NoError(t, err)
}

func TestAuthService_RegisterLosesRaceAtStore(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	repo.On("ExistsByEmail", ctx, "ada@example.com").Return(false, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*models.UserCreateRequest")).Return(nil, models.ErrDuplicateEmail)

	svc := NewAuthService(repo, testHasher())
	_, err := svc.Register(ctx, &models.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "pw"})

	assert.ErrorIs(t, err, models.ErrDuplicateEmail)
	repo.AssertExpectations(t)
}

func TestAuthService_RegisterInvalid(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewAuthService(repo, testHasher())

	_, err := svc.Register(context.Background(), &models.RegisterRequest{Email: "ada@example.com", Password: "pw"})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	repo.AssertNotCalled(t, "ExistsByEmail", mock.Anything, mock.Anything)
}

func TestAuthService_RegisterStoreError(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	repo.On("ExistsByEmail", ctx, "ada@example.com").Return(false, errors.New("connection refused"))

	svc := NewAuthService(repo, testHasher())
	_, err := svc.Register(ctx, &models.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "pw"})

	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrDuplicateEmail)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_AuthenticateUpgradesLegacyHash(t *testing.T) {
	ctx := context.Background()
	legacy, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := repositories.NewMemoryUserRepository()
	_, err = repo.Create(ctx, &models.UserCreateRequest{Name: "Old", Email: "old@example.com", PasswordHash: string(legacy)})
	require.NoError(t, err)

	svc := NewAuthService(repo, testHasher())
	_, err = svc.Authenticate(ctx, "old@example.com", "pw")
	require.NoError(t, err)

	stored, err := repo.GetByEmail(ctx, "old@example.com")
	require.NoError(t, err)
	assert.Contains(t, stored.PasswordHash, "$argon2id$")

	_, err = svc.Authenticate(ctx, "old@example.com", "pw")
	assert.NoError(t, err)
}

func TestAuthService_AuthenticateLookupError(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	repo.On("GetByEmail", ctx, "ada@example.com").Return(nil, errors.New("db down"))

	svc := NewAuthService(repo, testHasher())
	_, err := svc.Authenticate(ctx, "ada@example.com", "pw")

	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrInvalidCredentials)
}
