package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/joshdurbin/linkbio/internal/domain"
	"github.com/joshdurbin/linkbio/internal/repository"
)

// LinkStore is a mock implementation of repository.LinkStore
type LinkStore struct {
	mock.Mock
	NS domain.Namespace
}

// NewLinkStore returns a mock store for the given namespace
func NewLinkStore(ns domain.Namespace) *LinkStore {
	return &LinkStore{NS: ns}
}

// Namespace identifies the store
func (m *LinkStore) Namespace() domain.Namespace {
	return m.NS
}

// FindActiveByCode returns the active entry for a short code
func (m *LinkStore) FindActiveByCode(ctx context.Context, shortCode string) (*domain.ShortLinkEntry, error) {
	args := m.Called(ctx, shortCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShortLinkEntry), args.Error(1)
}

// IncrementClicks adds one to the entry's click count
func (m *LinkStore) IncrementClicks(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ConfigStore is a mock implementation of repository.ConfigStore
type ConfigStore struct {
	mock.Mock
}

// GetConfig returns the config for a link
func (m *ConfigStore) GetConfig(ctx context.Context, key domain.LinkKey) (*domain.DeeplinkConfig, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeeplinkConfig), args.Error(1)
}

// Repository is a mock implementation of repository.Repository
type Repository struct {
	mock.Mock
	Short   *LinkStore
	Profile *LinkStore
}

// NewRepository returns a mock repository with mock link stores for both namespaces
func NewRepository() *Repository {
	return &Repository{
		Short:   NewLinkStore(domain.NamespaceShortLink),
		Profile: NewLinkStore(domain.NamespaceProfileLink),
	}
}

// ShortLinks returns the dedicated short-link store
func (m *Repository) ShortLinks() repository.LinkStore {
	return m.Short
}

// ProfileLinks returns the profile-link store
func (m *Repository) ProfileLinks() repository.LinkStore {
	return m.Profile
}

// GetConfig returns the config for a link
func (m *Repository) GetConfig(ctx context.Context, key domain.LinkKey) (*domain.DeeplinkConfig, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeeplinkConfig), args.Error(1)
}

// ShortCodeExists checks if a short code exists
func (m *Repository) ShortCodeExists(ctx context.Context, shortCode string) (bool, error) {
	args := m.Called(ctx, shortCode)
	return args.Bool(0), args.Error(1)
}

// CreateShortLink creates a new short link entry
func (m *Repository) CreateShortLink(ctx context.Context, link domain.NewLink, cfg *domain.DeeplinkConfig) (*domain.ShortLinkEntry, error) {
	args := m.Called(ctx, link, cfg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShortLinkEntry), args.Error(1)
}

// CreateProfileLink creates a new profile link entry
func (m *Repository) CreateProfileLink(ctx context.Context, link domain.NewLink) (*domain.ShortLinkEntry, error) {
	args := m.Called(ctx, link)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShortLinkEntry), args.Error(1)
}

// GetShortLink retrieves a short link by code
func (m *Repository) GetShortLink(ctx context.Context, shortCode string) (*domain.ShortLinkEntry, error) {
	args := m.Called(ctx, shortCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShortLinkEntry), args.Error(1)
}

// ListShortLinks retrieves an owner's short links
func (m *Repository) ListShortLinks(ctx context.Context, ownerID string) ([]*domain.ShortLinkEntry, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ShortLinkEntry), args.Error(1)
}

// ListProfileLinks retrieves an owner's profile links
func (m *Repository) ListProfileLinks(ctx context.Context, ownerID string) ([]*domain.ShortLinkEntry, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ShortLinkEntry), args.Error(1)
}

// SaveConfig creates or replaces the deeplink config of a link
func (m *Repository) SaveConfig(ctx context.Context, key domain.LinkKey, cfg *domain.DeeplinkConfig) error {
	args := m.Called(ctx, key, cfg)
	return args.Error(0)
}

// Deactivate soft-deletes a link
func (m *Repository) Deactivate(ctx context.Context, key domain.LinkKey, at time.Time) error {
	args := m.Called(ctx, key, at)
	return args.Error(0)
}

// PurgeInactive hard-deletes inactive links
func (m *Repository) PurgeInactive(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

// Ping checks the database connection
func (m *Repository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close closes the repository connection
func (m *Repository) Close() error {
	args := m.Called()
	return args.Error(0)
}

var (
	_ repository.LinkStore   = (*LinkStore)(nil)
	_ repository.ConfigStore = (*ConfigStore)(nil)
	_ repository.Repository  = (*Repository)(nil)
)
