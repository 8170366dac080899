package repository

import (
	"context"
	"time"

	"github.com/joshdurbin/linkbio/internal/domain"
)

// LinkStore is one namespace of short codes that the redirect dispatcher can resolve
type LinkStore interface {
	// Namespace identifies the store
	Namespace() domain.Namespace

	// FindActiveByCode returns the active entry for a short code or domain.ErrNotFound
	FindActiveByCode(ctx context.Context, shortCode string) (*domain.ShortLinkEntry, error)

	// IncrementClicks adds one to the entry's click count
	IncrementClicks(ctx context.Context, id int64) error
}

// ConfigStore holds deeplink configurations keyed by their owning link
type ConfigStore interface {
	// GetConfig returns the config for a link or domain.ErrNotFound
	GetConfig(ctx context.Context, key domain.LinkKey) (*domain.DeeplinkConfig, error)
}

// Repository defines the interface for link data operations
type Repository interface {
	ConfigStore

	// ShortLinks returns the dedicated short-link store
	ShortLinks() LinkStore

	// ProfileLinks returns the general profile-link store
	ProfileLinks() LinkStore

	// ShortCodeExists reports whether a short code is taken in either namespace
	ShortCodeExists(ctx context.Context, shortCode string) (bool, error)

	// CreateShortLink inserts a short link and, when cfg is non-nil, its deeplink config.
	// Returns domain.ErrDuplicateShortCode when the code is already taken.
	CreateShortLink(ctx context.Context, link domain.NewLink, cfg *domain.DeeplinkConfig) (*domain.ShortLinkEntry, error)

	// CreateProfileLink inserts a profile link.
	// Returns domain.ErrDuplicateShortCode when the code is already taken.
	CreateProfileLink(ctx context.Context, link domain.NewLink) (*domain.ShortLinkEntry, error)

	// GetShortLink retrieves a short link by code whether or not it is active
	GetShortLink(ctx context.Context, shortCode string) (*domain.ShortLinkEntry, error)

	// ListShortLinks retrieves an owner's short links ordered by creation date (desc)
	ListShortLinks(ctx context.Context, ownerID string) ([]*domain.ShortLinkEntry, error)

	// ListProfileLinks retrieves an owner's profile links ordered by creation date (desc)
	ListProfileLinks(ctx context.Context, ownerID string) ([]*domain.ShortLinkEntry, error)

	// SaveConfig creates or replaces the deeplink config of a link
	SaveConfig(ctx context.Context, key domain.LinkKey, cfg *domain.DeeplinkConfig) error

	// Deactivate soft-deletes a link
	Deactivate(ctx context.Context, key domain.LinkKey, at time.Time) error

	// PurgeInactive hard-deletes inactive links last updated before the cutoff
	PurgeInactive(ctx context.Context, before time.Time) (int64, error)

	// Ping checks the database connection
	Ping(ctx context.Context) error

	// Close closes the repository connection
	Close() error
}
