// file: services/mock_gateway.go
package services

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go-youth-feed/gateway"
	"go-youth-feed/models"
)

// Ensure the mocks implement the gateway interfaces
var (
	_ gateway.Identity = (*MockIdentity)(nil)
	_ gateway.Records  = (*MockRecords)(nil)
	_ gateway.Objects  = (*MockObjects)(nil)
)

// MockIdentity is a mock identity provider.
type MockIdentity struct {
	mock.Mock
}

func (m *MockIdentity) SignUp(ctx context.Context, email, password string, metadata map[string]string) (models.Identity, error) {
	args := m.Called(ctx, email, password, metadata)
	return args.Get(0).(models.Identity), args.Error(1)
}

func (m *MockIdentity) SignInWithPassword(ctx context.Context, email, password string) (models.Identity, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(models.Identity), args.Error(1)
}

// MockRecords is a mock record store.
type MockRecords struct {
	mock.Mock
}

func (m *MockRecords) ListFeeds(ctx context.Context) ([]models.FeedItem, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]models.FeedItem)
	return items, args.Error(1)
}

func (m *MockRecords) GetFeed(ctx context.Context, id string) (models.FeedItem, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.FeedItem), args.Error(1)
}

func (m *MockRecords) InsertFeed(ctx context.Context, fields models.FeedFields) (models.FeedItem, error) {
	args := m.Called(ctx, fields)
	return args.Get(0).(models.FeedItem), args.Error(1)
}

func (m *MockRecords) UpdateFeed(ctx context.Context, id string, fields models.FeedFields) (models.FeedItem, error) {
	args := m.Called(ctx, id, fields)
	return args.Get(0).(models.FeedItem), args.Error(1)
}

func (m *MockRecords) DeleteFeed(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRecords) InsertProfile(ctx context.Context, profile models.Profile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *MockRecords) GetProfile(ctx context.Context, id string) (models.Profile, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Profile), args.Error(1)
}

// MockObjects is a mock object store.
type MockObjects struct {
	mock.Mock
}

func (m *MockObjects) Upload(ctx context.Context, path, contentType string, data []byte) error {
	return m.Called(ctx, path, contentType, data).Error(0)
}

func (m *MockObjects) PublicURL(path string) string {
	return m.Called(path).String(0)
}

// MockMessenger records feed change broadcasts.
type MockMessenger struct {
	mock.Mock
}

func (m *MockMessenger) FeedsChanged(change, id string) {
	m.Called(change, id)
}

// MockPublisher records metrics.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Count(name string) { m.Called(name) }

func (m *MockPublisher) Gauge(name string, value float64) { m.Called(name, value) }
