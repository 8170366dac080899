package service

import (
	"context"
	"time"

	"github.com/joshdurbin/linkbio/internal/domain"
)

// Dispatcher turns a short-code visit into a redirect target
type Dispatcher interface {
	// Dispatch never fails; lookup and storage errors degrade to a redirect to the site root
	Dispatch(ctx context.Context, shortCode, userAgent string) Outcome

	// Peek resolves a visit the same way without counting a click, for HEAD requests
	Peek(ctx context.Context, shortCode, userAgent string) Outcome
}

// LinkService defines the owner-facing link management operations
type LinkService interface {
	// CreateLink reserves a unique code and stores a short link with its optional deeplink config
	CreateLink(ctx context.Context, ownerID string, req domain.CreateLinkRequest) (*domain.ShortLinkEntry, error)

	// CreateProfileLink stores a link in the profile-page namespace
	CreateProfileLink(ctx context.Context, ownerID string, req domain.CreateProfileLinkRequest) (*domain.ShortLinkEntry, error)

	// GetLink retrieves one of the owner's short links, active or not
	GetLink(ctx context.Context, ownerID, shortCode string) (*domain.ShortLinkEntry, error)

	// ListLinks retrieves the owner's short links, newest first
	ListLinks(ctx context.Context, ownerID string) ([]*domain.ShortLinkEntry, error)

	// ListProfileLinks retrieves the owner's profile links, newest first
	ListProfileLinks(ctx context.Context, ownerID string) ([]*domain.ShortLinkEntry, error)

	// DeactivateLink soft-deletes one of the owner's short links
	DeactivateLink(ctx context.Context, ownerID, shortCode string) error

	// GetDeeplinkConfig retrieves the config of one of the owner's deeplinks
	GetDeeplinkConfig(ctx context.Context, ownerID, shortCode string) (*domain.DeeplinkConfig, error)

	// UpdateDeeplinkConfig replaces the config of one of the owner's deeplinks
	UpdateDeeplinkConfig(ctx context.Context, ownerID, shortCode string, cfg *domain.DeeplinkConfig) error

	// PreviewDeeplink reports which destination a config picks for a user agent, without store I/O
	PreviewDeeplink(req domain.PreviewRequest) (*domain.PreviewResponse, error)

	// PurgeInactive hard-deletes links deactivated longer than retention ago
	PurgeInactive(ctx context.Context, retention time.Duration) (int64, error)

	// Ping checks the backing store
	Ping(ctx context.Context) error
}
