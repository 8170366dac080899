package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/joshdurbin/linkbio/internal/deeplink"
	"github.com/joshdurbin/linkbio/internal/domain"
	"github.com/joshdurbin/linkbio/internal/metrics"
	"github.com/joshdurbin/linkbio/internal/repository"
	"github.com/joshdurbin/linkbio/internal/shortener"
)

// SiteRoot is where unknown codes and failed visits are sent
const SiteRoot = "/"

// Status is the terminal state of a visit
type Status string

const (
	StatusResolved Status = "RESOLVED"
	StatusNotFound Status = "NOT_FOUND"
	StatusDegraded Status = "ERROR_DEGRADED"
)

// Outcome is the result of dispatching a visit
type Outcome struct {
	Status   Status
	Location string
	// Entry is the matched link, nil unless resolved
	Entry *domain.ShortLinkEntry
	// Source is set when a deeplink config chose the location
	Source deeplink.Source
}

// Redirector resolves visits against link stores tried in order
type Redirector struct {
	stores  []repository.LinkStore
	configs repository.ConfigStore
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewRedirector creates a dispatcher. Stores are searched in the given order;
// the first active entry wins.
func NewRedirector(stores []repository.LinkStore, configs repository.ConfigStore, m *metrics.Metrics, logger zerolog.Logger) *Redirector {
	if m == nil {
		m = metrics.Nop()
	}
	return &Redirector{
		stores:  stores,
		configs: configs,
		metrics: m,
		logger:  logger,
	}
}

// Dispatch looks the code up, counts the click and resolves the destination
func (r *Redirector) Dispatch(ctx context.Context, shortCode, userAgent string) Outcome {
	return r.visit(ctx, shortCode, userAgent, true)
}

// Peek resolves like Dispatch without counting a click
func (r *Redirector) Peek(ctx context.Context, shortCode, userAgent string) Outcome {
	return r.visit(ctx, shortCode, userAgent, false)
}

func (r *Redirector) visit(ctx context.Context, shortCode, userAgent string, countClick bool) (out Outcome) {
	log := r.logger.With().Str("short_code", shortCode).Logger()

	defer func() {
		if p := recover(); p != nil {
			log.Error().Interface("panic", p).Msg("recovered panic while dispatching visit")
			out = degraded()
		}
		r.metrics.Redirects.WithLabelValues(string(out.Status)).Inc()
		if out.Status == StatusResolved && out.Source != "" {
			r.metrics.DeeplinkResolution.WithLabelValues(string(out.Source)).Inc()
		}
	}()

	if !shortener.IsValidCode(shortCode) {
		return notFound()
	}

	entry, err := r.lookup(ctx, shortCode)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.Debug().Msg("short code not found")
			return notFound()
		}
		log.Error().Err(err).Msg("short code lookup failed")
		return degraded()
	}

	log = log.With().Stringer("link", entry.Key()).Logger()

	if countClick {
		if err := r.store(entry.Namespace).IncrementClicks(ctx, entry.ID); err != nil {
			log.Warn().Err(err).Msg("failed to increment click count")
		}
	}

	location, source, err := r.resolve(ctx, log, entry, userAgent)
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve destination")
		return degraded()
	}
	if location == "" {
		log.Error().Msg("link has no destination")
		return degraded()
	}

	log.Debug().Str("location", location).Str("source", string(source)).Msg("visit resolved")
	return Outcome{Status: StatusResolved, Location: location, Entry: entry, Source: source}
}

func (r *Redirector) lookup(ctx context.Context, shortCode string) (*domain.ShortLinkEntry, error) {
	for _, store := range r.stores {
		entry, err := store.FindActiveByCode(ctx, shortCode)
		if err == nil {
			if entry.Namespace == "" {
				entry.Namespace = store.Namespace()
			}
			return entry, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%s lookup: %w", store.Namespace(), err)
		}
	}
	return nil, domain.ErrNotFound
}

func (r *Redirector) resolve(ctx context.Context, log zerolog.Logger, entry *domain.ShortLinkEntry, userAgent string) (string, deeplink.Source, error) {
	if entry.TargetKind != domain.TargetDeeplink {
		return entry.OriginalURL, "", nil
	}

	cfg, err := r.configs.GetConfig(ctx, entry.Key())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.Warn().Msg("deeplink has no config, using original URL")
			return entry.OriginalURL, deeplink.SourceOriginal, nil
		}
		return "", "", fmt.Errorf("failed to get deeplink config: %w", err)
	}

	res := deeplink.Evaluate(cfg, userAgent)
	if res.URL == "" {
		// stored config lacks an original URL
		return entry.OriginalURL, deeplink.SourceOriginal, nil
	}
	return res.URL, res.Source, nil
}

func (r *Redirector) store(ns domain.Namespace) repository.LinkStore {
	for _, s := range r.stores {
		if s.Namespace() == ns {
			return s
		}
	}
	return r.stores[0]
}

func notFound() Outcome {
	return Outcome{Status: StatusNotFound, Location: SiteRoot}
}

func degraded() Outcome {
	return Outcome{Status: StatusDegraded, Location: SiteRoot}
}

var _ Dispatcher = (*Redirector)(nil)
