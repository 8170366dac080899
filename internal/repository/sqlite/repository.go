package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/joshdurbin/linkbio/db/sqlc"
	"github.com/joshdurbin/linkbio/internal/domain"
	"github.com/joshdurbin/linkbio/internal/repository"
)

// Repository implements repository.Repository using SQLite
type Repository struct {
	db           *sql.DB
	queries      *sqlc.Queries
	shortLinks   *linkTable
	profileLinks *linkTable
}

// New creates a new SQLite repository
func New(databasePath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dsn(databasePath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	queries := sqlc.New(db)
	repo := &Repository{
		db:           db,
		queries:      queries,
		shortLinks:   &linkTable{queries: queries, namespace: domain.NamespaceShortLink},
		profileLinks: &linkTable{queries: queries, namespace: domain.NamespaceProfileLink},
	}

	if err := repo.runMigrations(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return repo, nil
}

// ShortLinks returns the dedicated short-link store
func (r *Repository) ShortLinks() repository.LinkStore {
	return r.shortLinks
}

// ProfileLinks returns the profile-link store
func (r *Repository) ProfileLinks() repository.LinkStore {
	return r.profileLinks
}

// ShortCodeExists checks the code claims shared by both namespaces, since the
// dispatcher resolves both by code
func (r *Repository) ShortCodeExists(ctx context.Context, shortCode string) (bool, error) {
	count, err := r.queries.CountShortCode(ctx, shortCode)
	if err != nil {
		return false, fmt.Errorf("failed to check short code existence: %w", err)
	}
	return count > 0, nil
}

// CreateShortLink inserts a short link and its optional deeplink config in one transaction
func (r *Repository) CreateShortLink(ctx context.Context, link domain.NewLink, cfg *domain.DeeplinkConfig) (*domain.ShortLinkEntry, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	entry, err := r.shortLinks.insert(ctx, q, link)
	if err != nil {
		return nil, err
	}

	if cfg != nil {
		if err := saveConfig(ctx, q, entry.Key(), cfg, link.CreatedAt); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit short link: %w", err)
	}

	return entry, nil
}

// CreateProfileLink inserts a profile link
func (r *Repository) CreateProfileLink(ctx context.Context, link domain.NewLink) (*domain.ShortLinkEntry, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	entry, err := r.profileLinks.insert(ctx, r.queries.WithTx(tx), link)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit profile link: %w", err)
	}

	return entry, nil
}

// GetShortLink retrieves a short link by code, active or not
func (r *Repository) GetShortLink(ctx context.Context, shortCode string) (*domain.ShortLinkEntry, error) {
	return r.shortLinks.findByCode(ctx, shortCode, false)
}

// ListShortLinks retrieves an owner's short links
func (r *Repository) ListShortLinks(ctx context.Context, ownerID string) ([]*domain.ShortLinkEntry, error) {
	return r.shortLinks.listByOwner(ctx, ownerID)
}

// ListProfileLinks retrieves an owner's profile links
func (r *Repository) ListProfileLinks(ctx context.Context, ownerID string) ([]*domain.ShortLinkEntry, error) {
	return r.profileLinks.listByOwner(ctx, ownerID)
}

// GetConfig retrieves the deeplink config of a link
func (r *Repository) GetConfig(ctx context.Context, key domain.LinkKey) (*domain.DeeplinkConfig, error) {
	row, err := r.queries.GetDeeplinkConfig(ctx, sqlc.GetDeeplinkConfigParams{
		Namespace: string(key.Namespace),
		LinkID:    key.ID,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get deeplink config: %w", err)
	}

	cfg, err := deeplinkConfigToDomain(row)
	if err != nil {
		return nil, fmt.Errorf("failed to decode user agent rules for %s/%d: %w", key.Namespace, key.ID, err)
	}
	return cfg, nil
}

// SaveConfig creates or replaces the deeplink config of a link
func (r *Repository) SaveConfig(ctx context.Context, key domain.LinkKey, cfg *domain.DeeplinkConfig) error {
	return saveConfig(ctx, r.queries, key, cfg, time.Now().UTC())
}

// Deactivate soft-deletes a link
func (r *Repository) Deactivate(ctx context.Context, key domain.LinkKey, at time.Time) error {
	table, err := r.table(key.Namespace)
	if err != nil {
		return err
	}
	return table.deactivate(ctx, key.ID, at)
}

// PurgeInactive removes inactive links, their configs and their code claims,
// last updated before the cutoff
func (r *Repository) PurgeInactive(ctx context.Context, before time.Time) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	var purged int64
	for _, table := range []*linkTable{r.shortLinks, r.profileLinks} {
		n, err := table.purge(ctx, q, before)
		if err != nil {
			return 0, err
		}
		purged += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit purge: %w", err)
	}

	return purged, nil
}

// Ping checks the database connection
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the repository connection
func (r *Repository) Close() error {
	return r.db.Close()
}

// dsn enables foreign keys, WAL mode and a busy timeout on every pooled connection
func dsn(databasePath string) string {
	sep := "?"
	if strings.Contains(databasePath, "?") {
		sep = "&"
	}
	return databasePath + sep + "_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000"
}

func (r *Repository) table(ns domain.Namespace) (*linkTable, error) {
	switch ns {
	case domain.NamespaceShortLink:
		return r.shortLinks, nil
	case domain.NamespaceProfileLink:
		return r.profileLinks, nil
	}
	return nil, fmt.Errorf("unknown namespace %q", ns)
}

func saveConfig(ctx context.Context, q *sqlc.Queries, key domain.LinkKey, cfg *domain.DeeplinkConfig, at time.Time) error {
	rules := cfg.UserAgentRules
	if rules == nil {
		rules = domain.UserAgentRules{}
	}
	rulesRaw, err := json.Marshal(rules)
	if err != nil {
		return fmt.Errorf("failed to encode user agent rules: %w", err)
	}

	err = q.UpsertDeeplinkConfig(ctx, sqlc.UpsertDeeplinkConfigParams{
		Namespace:      string(key.Namespace),
		LinkID:         key.ID,
		OriginalUrl:    cfg.OriginalURL,
		IosUrl:         cfg.IOSURL,
		AndroidUrl:     cfg.AndroidURL,
		DesktopUrl:     cfg.DesktopURL,
		FallbackUrl:    cfg.FallbackURL,
		UserAgentRules: string(rulesRaw),
		UpdatedAt:      at.UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to save deeplink config: %w", err)
	}
	return nil
}

func deeplinkConfigToDomain(row sqlc.DeeplinkConfig) (*domain.DeeplinkConfig, error) {
	cfg := &domain.DeeplinkConfig{
		OriginalURL: row.OriginalUrl,
		IOSURL:      row.IosUrl,
		AndroidURL:  row.AndroidUrl,
		DesktopURL:  row.DesktopUrl,
		FallbackURL: row.FallbackUrl,
	}
	if err := json.Unmarshal([]byte(row.UserAgentRules), &cfg.UserAgentRules); err != nil {
		return nil, err
	}
	return cfg, nil
}

// isUniqueViolation covers both the per-table UNIQUE(short_code) and the
// short_codes primary key shared by the namespaces
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

// Ensure Repository implements the interface
var _ repository.Repository = (*Repository)(nil)
