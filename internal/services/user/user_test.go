package user

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dailyscope/billing-service/internal/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateUser(ctx context.Context, user models.User) (*models.User, bool, error) {
	args := m.Called(ctx, user)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.Bool(1), args.Error(2)
	}
	return nil, args.Bool(1), args.Error(2)
}

func (m *MockRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) SearchUsersByEmail(ctx context.Context, emailSubstring string, limit int) ([]*models.User, error) {
	args := m.Called(ctx, emailSubstring, limit)
	if res := args.Get(0); res != nil {
		return res.([]*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) ExpireSubscription(ctx context.Context, email string) (int64, error) {
	args := m.Called(ctx, email)
	return int64(args.Int(0)), args.Error(1)
}

func (m *MockRepository) SetRole(ctx context.Context, id int64, role string) (string, int64, error) {
	args := m.Called(ctx, id, role)
	return args.String(0), int64(args.Int(1)), args.Error(2)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	if args.Bool(0) {
		*(result.(*string)) = args.String(2)
	}
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestUserService_CreateOrGet_DefaultsApplied(t *testing.T) {
	repo := new(MockRepository)
	cache := new(MockCache)

	repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Email == "ava@x.com" &&
			u.Name == "Ava" &&
			u.Role == models.RoleUser &&
			!u.CreatedAt.IsZero() &&
			!u.LastLoginAt.IsZero()
	})).Return(&models.User{ID: 1, Email: "ava@x.com", Name: "Ava", Role: models.RoleUser}, true, nil).Once()

	svc := New(repo, cache, newNoopLogger())
	created, isNew, err := svc.CreateOrGet(context.Background(), CreateRequest{
		Name:  "Ava",
		Email: "Ava@X.com",
	})

	require.NoError(t, err)
	assert.True(t, isNew)
	assert.Equal(t, int64(1), created.ID)
	repo.AssertExpectations(t)
}

func TestUserService_CreateOrGet_SuppliedFieldsKept(t *testing.T) {
	repo := new(MockRepository)
	cache := new(MockCache)
	createdAt := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	lastLogin := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Role == models.RoleAdmin &&
			u.CreatedAt.Equal(createdAt) &&
			u.LastLoginAt.Equal(lastLogin)
	})).Return(&models.User{ID: 2}, true, nil).Once()

	svc := New(repo, cache, newNoopLogger())
	_, _, err := svc.CreateOrGet(context.Background(), CreateRequest{
		Name:        "Ava",
		Email:       "ava@x.com",
		Role:        models.RoleAdmin,
		CreatedAt:   &createdAt,
		LastLoginAt: &lastLogin,
	})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUserService_CreateOrGet_ExistingUser(t *testing.T) {
	repo := new(MockRepository)
	cache := new(MockCache)
	existing := &models.User{ID: 1, Email: "ava@x.com", Name: "Ava", Role: models.RoleUser}

	repo.On("CreateUser", mock.Anything, mock.Anything).Return(existing, false, nil).Once()

	svc := New(repo, cache, newNoopLogger())
	got, isNew, err := svc.CreateOrGet(context.Background(), CreateRequest{
		Name:  "Somebody Else",
		Email: "ava@x.com",
	})

	require.NoError(t, err)
	assert.False(t, isNew)
	// Существующая запись возвращается как есть, без слияния полей.
	assert.Equal(t, existing, got)
}

func TestUserService_GetRole_CacheMiss(t *testing.T) {
	repo := new(MockRepository)
	cache := new(MockCache)

	cache.On("Get", "role:ava@x.com", mock.Anything).Return(false, nil, "").Once()
	repo.On("GetUserByEmail", mock.Anything, "ava@x.com").
		Return(&models.User{Email: "ava@x.com", Role: models.RoleAdmin}, nil).Once()
	cache.On("Set", "role:ava@x.com", models.RoleAdmin, roleCacheTTL).Return(nil).Once()

	svc := New(repo, cache, newNoopLogger())
	role, err := svc.GetRole(context.Background(), "Ava@X.com")

	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, role)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestUserService_GetRole_CacheHit(t *testing.T) {
	repo := new(MockRepository)
	cache := new(MockCache)

	cache.On("Get", "role:ava@x.com", mock.Anything).Return(true, nil, models.RoleUser).Once()

	svc := New(repo, cache, newNoopLogger())
	role, err := svc.GetRole(context.Background(), "ava@x.com")

	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, role)
	repo.AssertNotCalled(t, "GetUserByEmail", mock.Anything, mock.Anything)
}

func TestUserService_GetRole_NotFound(t *testing.T) {
	repo := new(MockRepository)
	cache := new(MockCache)
	notFound := errors.New("record not found")

	cache.On("Get", "role:ghost@x.com", mock.Anything).Return(false, nil, "").Once()
	repo.On("GetUserByEmail", mock.Anything, "ghost@x.com").Return(nil, notFound).Once()

	svc := New(repo, cache, newNoopLogger())
	_, err := svc.GetRole(context.Background(), "ghost@x.com")

	require.ErrorIs(t, err, notFound)
}

func TestUserService_ExpireSubscription(t *testing.T) {
	repo := new(MockRepository)
	cache := new(MockCache)

	repo.On("ExpireSubscription", mock.Anything, "ava@x.com").Return(1, nil).Once()

	svc := New(repo, cache, newNoopLogger())
	modified, err := svc.ExpireSubscription(context.Background(), "Ava@x.com")

	require.NoError(t, err)
	assert.Equal(t, int64(1), modified)
}

func TestUserService_ExpireSubscription_NoMatch(t *testing.T) {
	repo := new(MockRepository)
	cache := new(MockCache)

	repo.On("ExpireSubscription", mock.Anything, "ghost@x.com").Return(0, nil).Once()

	svc := New(repo, cache, newNoopLogger())
	modified, err := svc.ExpireSubscription(context.Background(), "ghost@x.com")

	require.NoError(t, err)
	assert.Equal(t, int64(0), modified)
}

func TestUserService_SetRole_InvalidatesCache(t *testing.T) {
	repo := new(MockRepository)
	cache := new(MockCache)

	repo.On("SetRole", mock.Anything, int64(5), models.RoleAdmin).Return("ava@x.com", 1, nil).Once()
	cache.On("Invalidate", "role:ava@x.com").Return(nil).Once()

	svc := New(repo, cache, newNoopLogger())
	modified, err := svc.SetRole(context.Background(), 5, models.RoleAdmin)

	require.NoError(t, err)
	assert.Equal(t, int64(1), modified)
	cache.AssertExpectations(t)
}

func TestUserService_SetRole_UnknownRole(t *testing.T) {
	repo := new(MockRepository)
	cache := new(MockCache)

	svc := New(repo, cache, newNoopLogger())
	_, err := svc.SetRole(context.Background(), 5, "superadmin")

	require.Error(t, err)
	repo.AssertNotCalled(t, "SetRole", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_SetRole_NoMatch(t *testing.T) {
	repo := new(MockRepository)
	cache := new(MockCache)

	repo.On("SetRole", mock.Anything, int64(99), models.RoleUser).Return("", 0, nil).Once()

	svc := New(repo, cache, newNoopLogger())
	modified, err := svc.SetRole(context.Background(), 99, models.RoleUser)

	require.NoError(t, err)
	assert.Equal(t, int64(0), modified)
	cache.AssertNotCalled(t, "Invalidate", mock.Anything)
}

func TestUserService_Search(t *testing.T) {
	repo := new(MockRepository)
	cache := new(MockCache)
	users := []*models.User{{ID: 1, Email: "ava@x.com"}}

	repo.On("SearchUsersByEmail", mock.Anything, "ava", searchLimit).Return(users, nil).Once()

	svc := New(repo, cache, newNoopLogger())
	got, err := svc.Search(context.Background(), "Ava")

	require.NoError(t, err)
	assert.Equal(t, users, got)
}
