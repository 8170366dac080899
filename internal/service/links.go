package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/joshdurbin/linkbio/internal/cache"
	"github.com/joshdurbin/linkbio/internal/deeplink"
	"github.com/joshdurbin/linkbio/internal/domain"
	"github.com/joshdurbin/linkbio/internal/metrics"
	"github.com/joshdurbin/linkbio/internal/repository"
	"github.com/joshdurbin/linkbio/internal/shortener"
)

// maxInsertRetries bounds how often a reservation is redone after the store
// rejects the code as a duplicate
const maxInsertRetries = 3

// linkService implements LinkService interface
type linkService struct {
	repo        repository.Repository
	configs     cache.ConfigCache
	registry    *shortener.Registry
	generator   shortener.Generator
	maxAttempts int
	metrics     *metrics.Metrics
	logger      zerolog.Logger
	now         func() time.Time
}

// NewLinkService creates the link management service. configs is the cache
// the dispatcher reads through; it is invalidated on config changes.
func NewLinkService(repo repository.Repository, configs cache.ConfigCache, generator shortener.Generator, maxAttempts int, m *metrics.Metrics, logger zerolog.Logger) LinkService {
	if m == nil {
		m = metrics.Nop()
	}
	return &linkService{
		repo:        repo,
		configs:     configs,
		registry:    shortener.NewRegistry(repo),
		generator:   generator,
		maxAttempts: maxAttempts,
		metrics:     m,
		logger:      logger,
		now:         time.Now,
	}
}

// CreateLink reserves a unique code and stores a short link
func (s *linkService) CreateLink(ctx context.Context, ownerID string, req domain.CreateLinkRequest) (*domain.ShortLinkEntry, error) {
	kind := req.Kind
	if kind == "" {
		kind = domain.TargetPlain
		if req.Deeplink != nil {
			kind = domain.TargetDeeplink
		}
	}
	if !kind.Valid() {
		return nil, &domain.ValidationError{Field: "kind", Reason: fmt.Sprintf("must be one of plain, deeplink, qr; got %q", kind)}
	}

	cfg, originalURL, err := linkTarget(kind, req)
	if err != nil {
		return nil, err
	}

	produce, err := s.producer(req.CodeLength)
	if err != nil {
		return nil, err
	}

	link := domain.NewLink{
		OwnerID:     ownerID,
		TargetKind:  kind,
		OriginalURL: originalURL,
		CreatedAt:   s.now().UTC(),
	}

	entry, err := s.insertWithReservation(ctx, produce, func(code string) (*domain.ShortLinkEntry, error) {
		link.ShortCode = code
		return s.repo.CreateShortLink(ctx, link, cfg)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.LinksCreated.WithLabelValues(string(domain.NamespaceShortLink), string(kind)).Inc()
	s.logger.Info().
		Str("short_code", entry.ShortCode).
		Str("owner_id", ownerID).
		Str("kind", string(kind)).
		Msg("short link created")

	return entry, nil
}

// CreateProfileLink stores a plain link in the profile namespace
func (s *linkService) CreateProfileLink(ctx context.Context, ownerID string, req domain.CreateProfileLinkRequest) (*domain.ShortLinkEntry, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, &domain.ValidationError{Field: "title", Reason: "is required"}
	}
	if err := domain.ValidateTargetURL(req.URL); err != nil {
		return nil, &domain.ValidationError{Field: "url", Reason: err.Error()}
	}

	link := domain.NewLink{
		OwnerID:     ownerID,
		Title:       title,
		TargetKind:  domain.TargetPlain,
		OriginalURL: req.URL,
		CreatedAt:   s.now().UTC(),
	}

	entry, err := s.insertWithReservation(ctx, s.generator.GenerateShortCode, func(code string) (*domain.ShortLinkEntry, error) {
		link.ShortCode = code
		return s.repo.CreateProfileLink(ctx, link)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.LinksCreated.WithLabelValues(string(domain.NamespaceProfileLink), string(domain.TargetPlain)).Inc()
	return entry, nil
}

// insertWithReservation redoes the reservation when the insert loses a race for the code
func (s *linkService) insertWithReservation(ctx context.Context, produce shortener.Producer, insert func(code string) (*domain.ShortLinkEntry, error)) (*domain.ShortLinkEntry, error) {
	for try := 1; try <= maxInsertRetries; try++ {
		res, err := s.registry.Reserve(ctx, produce, s.maxAttempts)
		if err != nil {
			if errors.Is(err, shortener.ErrShortCodeExhausted) {
				s.logger.Error().Err(err).Msg("short code reservation exhausted")
				return nil, err
			}
			return nil, fmt.Errorf("failed to reserve short code: %w", err)
		}
		s.metrics.ShortCodeAttempts.Observe(float64(res.Attempts))

		entry, err := insert(res.Code)
		if err == nil {
			return entry, nil
		}
		if !errors.Is(err, domain.ErrDuplicateShortCode) {
			return nil, fmt.Errorf("failed to create link: %w", err)
		}
		s.logger.Warn().Str("short_code", res.Code).Int("try", try).Msg("short code taken at insert, reserving again")
	}

	return nil, fmt.Errorf("short code collided at insert %d times: %w", maxInsertRetries, shortener.ErrShortCodeExhausted)
}

func (s *linkService) producer(length int) (shortener.Producer, error) {
	if length == 0 || length == s.generator.Length() {
		return s.generator.GenerateShortCode, nil
	}
	if length < shortener.MinLength || length > shortener.MaxLength {
		return nil, &domain.ValidationError{
			Field:  "code_length",
			Reason: fmt.Sprintf("must be between %d and %d", shortener.MinLength, shortener.MaxLength),
		}
	}
	return func() string { return shortener.Generate(length) }, nil
}

// linkTarget validates the request's destination and returns the config to store with it
func linkTarget(kind domain.TargetKind, req domain.CreateLinkRequest) (*domain.DeeplinkConfig, string, error) {
	if kind != domain.TargetDeeplink {
		if req.Deeplink != nil {
			return nil, "", &domain.ValidationError{Field: "deeplink", Reason: fmt.Sprintf("is not allowed for %s links", kind)}
		}
		if strings.TrimSpace(req.URL) == "" {
			return nil, "", &domain.ValidationError{Field: "url", Reason: "is required"}
		}
		if err := domain.ValidateTargetURL(req.URL); err != nil {
			return nil, "", &domain.ValidationError{Field: "url", Reason: err.Error()}
		}
		return nil, req.URL, nil
	}

	if req.Deeplink == nil {
		return nil, "", &domain.ValidationError{Field: "deeplink", Reason: "is required for deeplink links"}
	}
	cfg := req.Deeplink.Clone()
	if cfg.OriginalURL == "" {
		cfg.OriginalURL = req.URL
	}
	if req.URL != "" && req.URL != cfg.OriginalURL {
		return nil, "", &domain.ValidationError{Field: "url", Reason: "must match deeplink.original_url"}
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, cfg.OriginalURL, nil
}

// GetLink retrieves one of the owner's short links
func (s *linkService) GetLink(ctx context.Context, ownerID, shortCode string) (*domain.ShortLinkEntry, error) {
	if !shortener.IsValidCode(shortCode) {
		return nil, domain.ErrNotFound
	}

	entry, err := s.repo.GetShortLink(ctx, shortCode)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	// other owners' links are reported as missing
	if entry.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	return entry, nil
}

// ListLinks retrieves the owner's short links
func (s *linkService) ListLinks(ctx context.Context, ownerID string) ([]*domain.ShortLinkEntry, error) {
	entries, err := s.repo.ListShortLinks(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	return entries, nil
}

// ListProfileLinks retrieves the owner's profile links
func (s *linkService) ListProfileLinks(ctx context.Context, ownerID string) ([]*domain.ShortLinkEntry, error) {
	entries, err := s.repo.ListProfileLinks(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list profile links: %w", err)
	}
	return entries, nil
}

// DeactivateLink soft-deletes one of the owner's short links
func (s *linkService) DeactivateLink(ctx context.Context, ownerID, shortCode string) error {
	entry, err := s.GetLink(ctx, ownerID, shortCode)
	if err != nil {
		return err
	}
	if !entry.IsActive {
		return nil
	}

	if err := s.repo.Deactivate(ctx, entry.Key(), s.now().UTC()); err != nil {
		return fmt.Errorf("failed to deactivate link: %w", err)
	}
	s.invalidate(ctx, entry.Key())

	s.logger.Info().Str("short_code", shortCode).Str("owner_id", ownerID).Msg("short link deactivated")
	return nil
}

// GetDeeplinkConfig retrieves the config of one of the owner's deeplinks
func (s *linkService) GetDeeplinkConfig(ctx context.Context, ownerID, shortCode string) (*domain.DeeplinkConfig, error) {
	entry, err := s.GetLink(ctx, ownerID, shortCode)
	if err != nil {
		return nil, err
	}
	if entry.TargetKind != domain.TargetDeeplink {
		return nil, domain.ErrNotFound
	}

	cfg, err := s.repo.GetConfig(ctx, entry.Key())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get deeplink config: %w", err)
	}
	return cfg, nil
}

// UpdateDeeplinkConfig replaces the config of one of the owner's deeplinks
func (s *linkService) UpdateDeeplinkConfig(ctx context.Context, ownerID, shortCode string, cfg *domain.DeeplinkConfig) error {
	if cfg == nil {
		return &domain.ValidationError{Field: "deeplink", Reason: "is required"}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	entry, err := s.GetLink(ctx, ownerID, shortCode)
	if err != nil {
		return err
	}
	if entry.TargetKind != domain.TargetDeeplink {
		return &domain.ValidationError{Field: "kind", Reason: fmt.Sprintf("%s links have no deeplink config", entry.TargetKind)}
	}

	if err := s.repo.SaveConfig(ctx, entry.Key(), cfg); err != nil {
		return fmt.Errorf("failed to save deeplink config: %w", err)
	}
	s.invalidate(ctx, entry.Key())
	return nil
}

// PreviewDeeplink evaluates a config against a user agent
func (s *linkService) PreviewDeeplink(req domain.PreviewRequest) (*domain.PreviewResponse, error) {
	if err := req.Config.Validate(); err != nil {
		return nil, err
	}

	res := deeplink.Evaluate(&req.Config, req.UserAgent)
	return &domain.PreviewResponse{
		URL:         res.URL,
		Source:      string(res.Source),
		DeviceClass: res.Agent.DeviceClass,
		OSFamily:    res.Agent.OSFamily,
	}, nil
}

// PurgeInactive hard-deletes links deactivated longer than retention ago
func (s *linkService) PurgeInactive(ctx context.Context, retention time.Duration) (int64, error) {
	if retention < 0 {
		return 0, &domain.ValidationError{Field: "retention", Reason: "cannot be negative"}
	}

	cutoff := s.now().UTC().Add(-retention)
	purged, err := s.repo.PurgeInactive(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge inactive links: %w", err)
	}

	s.logger.Info().Int64("purged", purged).Time("cutoff", cutoff).Msg("purged inactive links")
	return purged, nil
}

// Ping checks the backing store
func (s *linkService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *linkService) invalidate(ctx context.Context, key domain.LinkKey) {
	if s.configs == nil {
		return
	}
	if err := s.configs.Delete(ctx, key); err != nil {
		s.logger.Warn().Err(err).Stringer("link", key).Msg("failed to invalidate cached deeplink config")
	}
}

// Ensure linkService implements LinkService interface
var _ LinkService = (*linkService)(nil)
