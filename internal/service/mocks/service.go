package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/joshdurbin/linkbio/internal/domain"
	"github.com/joshdurbin/linkbio/internal/service"
)

// Dispatcher is a mock implementation of service.Dispatcher
type Dispatcher struct {
	mock.Mock
}

// Dispatch resolves a visit
func (m *Dispatcher) Dispatch(ctx context.Context, shortCode, userAgent string) service.Outcome {
	args := m.Called(ctx, shortCode, userAgent)
	return args.Get(0).(service.Outcome)
}

// Peek resolves a visit without counting it
func (m *Dispatcher) Peek(ctx context.Context, shortCode, userAgent string) service.Outcome {
	args := m.Called(ctx, shortCode, userAgent)
	return args.Get(0).(service.Outcome)
}

// LinkService is a mock implementation of service.LinkService
type LinkService struct {
	mock.Mock
}

// CreateLink creates a short link
func (m *LinkService) CreateLink(ctx context.Context, ownerID string, req domain.CreateLinkRequest) (*domain.ShortLinkEntry, error) {
	args := m.Called(ctx, ownerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShortLinkEntry), args.Error(1)
}

// CreateProfileLink creates a profile link
func (m *LinkService) CreateProfileLink(ctx context.Context, ownerID string, req domain.CreateProfileLinkRequest) (*domain.ShortLinkEntry, error) {
	args := m.Called(ctx, ownerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShortLinkEntry), args.Error(1)
}

// GetLink retrieves a short link
func (m *LinkService) GetLink(ctx context.Context, ownerID, shortCode string) (*domain.ShortLinkEntry, error) {
	args := m.Called(ctx, ownerID, shortCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShortLinkEntry), args.Error(1)
}

// ListLinks retrieves the owner's short links
func (m *LinkService) ListLinks(ctx context.Context, ownerID string) ([]*domain.ShortLinkEntry, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ShortLinkEntry), args.Error(1)
}

// ListProfileLinks retrieves the owner's profile links
func (m *LinkService) ListProfileLinks(ctx context.Context, ownerID string) ([]*domain.ShortLinkEntry, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ShortLinkEntry), args.Error(1)
}

// DeactivateLink soft-deletes a short link
func (m *LinkService) DeactivateLink(ctx context.Context, ownerID, shortCode string) error {
	args := m.Called(ctx, ownerID, shortCode)
	return args.Error(0)
}

// GetDeeplinkConfig retrieves a deeplink config
func (m *LinkService) GetDeeplinkConfig(ctx context.Context, ownerID, shortCode string) (*domain.DeeplinkConfig, error) {
	args := m.Called(ctx, ownerID, shortCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeeplinkConfig), args.Error(1)
}

// UpdateDeeplinkConfig replaces a deeplink config
func (m *LinkService) UpdateDeeplinkConfig(ctx context.Context, ownerID, shortCode string, cfg *domain.DeeplinkConfig) error {
	args := m.Called(ctx, ownerID, shortCode, cfg)
	return args.Error(0)
}

// PreviewDeeplink evaluates a config against a user agent
func (m *LinkService) PreviewDeeplink(req domain.PreviewRequest) (*domain.PreviewResponse, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PreviewResponse), args.Error(1)
}

// PurgeInactive hard-deletes inactive links
func (m *LinkService) PurgeInactive(ctx context.Context, retention time.Duration) (int64, error) {
	args := m.Called(ctx, retention)
	return args.Get(0).(int64), args.Error(1)
}

// Ping checks the backing store
func (m *LinkService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var (
	_ service.Dispatcher  = (*Dispatcher)(nil)
	_ service.LinkService = (*LinkService)(nil)
)
