package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/agrolease/agrolease-backend/internal/entity"
	"github.com/agrolease/agrolease-backend/internal/port/repository"
	"github.com/agrolease/agrolease-backend/internal/port/storage"
)

type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) Insert(ctx context.Context, spec entity.KindSpec, listing *entity.Listing) (string, error) {
	args := m.Called(ctx, spec, listing)
	return args.String(0), args.Error(1)
}

func (m *MockListingRepository) FindByID(ctx context.Context, spec entity.KindSpec, id string) (*entity.Listing, error) {
	args := m.Called(ctx, spec, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Listing), args.Error(1)
}

func (m *MockListingRepository) Find(ctx context.Context, spec entity.KindSpec, query repository.ListQuery) ([]*entity.Listing, int64, error) {
	args := m.Called(ctx, spec, query)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*entity.Listing), args.Get(1).(int64), args.Error(2)
}

func (m *MockListingRepository) Update(ctx context.Context, spec entity.KindSpec, listing *entity.Listing) error {
	args := m.Called(ctx, spec, listing)
	return args.Error(0)
}

func (m *MockListingRepository) Delete(ctx context.Context, spec entity.KindSpec, id string) error {
	args := m.Called(ctx, spec, id)
	return args.Error(0)
}

func (m *MockListingRepository) Count(ctx context.Context, spec entity.KindSpec) (int64, error) {
	args := m.Called(ctx, spec)
	return args.Get(0).(int64), args.Error(1)
}

type MockMediaStorage struct {
	mock.Mock
}

func (m *MockMediaStorage) Upload(ctx context.Context, fileName, contentType string, data []byte) (storage.UploadResult, error) {
	args := m.Called(ctx, fileName, contentType, data)
	return args.Get(0).(storage.UploadResult), args.Error(1)
}

func (m *MockMediaStorage) Delete(ctx context.Context, objectKey string) error {
	args := m.Called(ctx, objectKey)
	return args.Error(0)
}

func (m *MockMediaStorage) DeleteMany(ctx context.Context, objectKeys []string) error {
	args := m.Called(ctx, objectKeys)
	return args.Error(0)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishListingCreated(ctx context.Context, listing *entity.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishListingUpdated(ctx context.Context, listing *entity.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishListingDeleted(ctx context.Context, kind entity.ListingKind, listingID string) error {
	args := m.Called(ctx, kind, listingID)
	return args.Error(0)
}

type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, role entity.Role, page, limit int) ([]*entity.User, int64, error) {
	args := m.Called(ctx, role, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*entity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) CountByRole(ctx context.Context, role entity.Role) (int64, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(int64), args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendWelcomeEmail(toEmail, name string) error {
	args := m.Called(toEmail, name)
	return args.Error(0)
}
