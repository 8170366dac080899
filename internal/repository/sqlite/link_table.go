package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/joshdurbin/linkbio/db/sqlc"
	"github.com/joshdurbin/linkbio/internal/domain"
	"github.com/joshdurbin/linkbio/internal/repository"
)

// linkTable serves one namespace. short_links and profile_links share a column
// layout but have their own generated queries.
type linkTable struct {
	queries   *sqlc.Queries
	namespace domain.Namespace
}

func (t *linkTable) profile() bool {
	return t.namespace == domain.NamespaceProfileLink
}

// Namespace identifies the store
func (t *linkTable) Namespace() domain.Namespace {
	return t.namespace
}

// FindActiveByCode returns the active entry for a short code
func (t *linkTable) FindActiveByCode(ctx context.Context, shortCode string) (*domain.ShortLinkEntry, error) {
	return t.findByCode(ctx, shortCode, true)
}

// IncrementClicks adds one to the click count in a single statement
func (t *linkTable) IncrementClicks(ctx context.Context, id int64) error {
	var (
		n   int64
		err error
	)
	if t.profile() {
		n, err = t.queries.IncrementProfileLinkClicks(ctx, id)
	} else {
		n, err = t.queries.IncrementShortLinkClicks(ctx, id)
	}
	if err != nil {
		return fmt.Errorf("failed to increment clicks: %w", err)
	}
	return expectOneRow(n)
}

// insert claims the code in short_codes, then writes the link row. q must be
// bound to a transaction so a lost claim leaves nothing behind.
func (t *linkTable) insert(ctx context.Context, q *sqlc.Queries, link domain.NewLink) (*domain.ShortLinkEntry, error) {
	createdAt := link.CreatedAt.UTC()

	err := q.ReserveShortCode(ctx, sqlc.ReserveShortCodeParams{
		Code:      link.ShortCode,
		Namespace: string(t.namespace),
	})
	if err != nil {
		return nil, insertError(err, link.ShortCode)
	}

	var result sql.Result
	if t.profile() {
		result, err = q.CreateProfileLink(ctx, sqlc.CreateProfileLinkParams{
			ShortCode:   link.ShortCode,
			OwnerID:     link.OwnerID,
			Title:       link.Title,
			TargetKind:  string(link.TargetKind),
			OriginalUrl: link.OriginalURL,
			CreatedAt:   createdAt,
			UpdatedAt:   createdAt,
		})
	} else {
		result, err = q.CreateShortLink(ctx, sqlc.CreateShortLinkParams{
			ShortCode:   link.ShortCode,
			OwnerID:     link.OwnerID,
			TargetKind:  string(link.TargetKind),
			OriginalUrl: link.OriginalURL,
			CreatedAt:   createdAt,
			UpdatedAt:   createdAt,
		})
	}
	if err != nil {
		return nil, insertError(err, link.ShortCode)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read link id: %w", err)
	}

	return &domain.ShortLinkEntry{
		ID:          id,
		Namespace:   t.namespace,
		ShortCode:   link.ShortCode,
		OwnerID:     link.OwnerID,
		Title:       link.Title,
		TargetKind:  link.TargetKind,
		OriginalURL: link.OriginalURL,
		IsActive:    true,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}, nil
}

func (t *linkTable) findByCode(ctx context.Context, shortCode string, activeOnly bool) (*domain.ShortLinkEntry, error) {
	var (
		entry *domain.ShortLinkEntry
		err   error
	)
	switch {
	case t.profile() && activeOnly:
		var row sqlc.ProfileLink
		row, err = t.queries.GetActiveProfileLink(ctx, shortCode)
		entry = profileLinkToDomain(row)
	case t.profile():
		var row sqlc.ProfileLink
		row, err = t.queries.GetProfileLink(ctx, shortCode)
		entry = profileLinkToDomain(row)
	case activeOnly:
		var row sqlc.ShortLink
		row, err = t.queries.GetActiveShortLink(ctx, shortCode)
		entry = shortLinkToDomain(row)
	default:
		var row sqlc.ShortLink
		row, err = t.queries.GetShortLink(ctx, shortCode)
		entry = shortLinkToDomain(row)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get link: %w", err)
	}
	return entry, nil
}

func (t *linkTable) listByOwner(ctx context.Context, ownerID string) ([]*domain.ShortLinkEntry, error) {
	entries := make([]*domain.ShortLinkEntry, 0)

	if t.profile() {
		rows, err := t.queries.ListProfileLinksByOwner(ctx, ownerID)
		if err != nil {
			return nil, fmt.Errorf("failed to list links: %w", err)
		}
		for _, row := range rows {
			entries = append(entries, profileLinkToDomain(row))
		}
		return entries, nil
	}

	rows, err := t.queries.ListShortLinksByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	for _, row := range rows {
		entries = append(entries, shortLinkToDomain(row))
	}
	return entries, nil
}

func (t *linkTable) deactivate(ctx context.Context, id int64, at time.Time) error {
	var (
		n   int64
		err error
	)
	if t.profile() {
		n, err = t.queries.DeactivateProfileLink(ctx, sqlc.DeactivateProfileLinkParams{UpdatedAt: at.UTC(), ID: id})
	} else {
		n, err = t.queries.DeactivateShortLink(ctx, sqlc.DeactivateShortLinkParams{UpdatedAt: at.UTC(), ID: id})
	}
	if err != nil {
		return fmt.Errorf("failed to deactivate link: %w", err)
	}
	return expectOneRow(n)
}

// purge releases the codes and configs of inactive links updated before the
// cutoff, then deletes the links themselves
func (t *linkTable) purge(ctx context.Context, q *sqlc.Queries, before time.Time) (int64, error) {
	before = before.UTC()

	if t.profile() {
		if err := q.ReleaseInactiveProfileLinkCodes(ctx, before); err != nil {
			return 0, fmt.Errorf("failed to release short codes: %w", err)
		}
		if err := q.DeleteInactiveProfileLinkConfigs(ctx, before); err != nil {
			return 0, fmt.Errorf("failed to purge deeplink configs: %w", err)
		}
		n, err := q.DeleteInactiveProfileLinks(ctx, before)
		if err != nil {
			return 0, fmt.Errorf("failed to purge profile links: %w", err)
		}
		return n, nil
	}

	if err := q.ReleaseInactiveShortLinkCodes(ctx, before); err != nil {
		return 0, fmt.Errorf("failed to release short codes: %w", err)
	}
	if err := q.DeleteInactiveShortLinkConfigs(ctx, before); err != nil {
		return 0, fmt.Errorf("failed to purge deeplink configs: %w", err)
	}
	n, err := q.DeleteInactiveShortLinks(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("failed to purge short links: %w", err)
	}
	return n, nil
}

func shortLinkToDomain(row sqlc.ShortLink) *domain.ShortLinkEntry {
	return &domain.ShortLinkEntry{
		ID:          row.ID,
		Namespace:   domain.NamespaceShortLink,
		ShortCode:   row.ShortCode,
		OwnerID:     row.OwnerID,
		TargetKind:  domain.TargetKind(row.TargetKind),
		OriginalURL: row.OriginalUrl,
		ClickCount:  row.ClickCount,
		IsActive:    row.IsActive,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func profileLinkToDomain(row sqlc.ProfileLink) *domain.ShortLinkEntry {
	return &domain.ShortLinkEntry{
		ID:          row.ID,
		Namespace:   domain.NamespaceProfileLink,
		ShortCode:   row.ShortCode,
		OwnerID:     row.OwnerID,
		Title:       row.Title,
		TargetKind:  domain.TargetKind(row.TargetKind),
		OriginalURL: row.OriginalUrl,
		ClickCount:  row.ClickCount,
		IsActive:    row.IsActive,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func insertError(err error, shortCode string) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateShortCode, shortCode)
	}
	return fmt.Errorf("failed to create link: %w", err)
}

func expectOneRow(n int64) error {
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ repository.LinkStore = (*linkTable)(nil)
