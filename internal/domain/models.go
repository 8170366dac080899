package domain

import (
	"fmt"
	"time"
)

// Namespace identifies which store a short code was issued from
type Namespace string

const (
	// NamespaceShortLink is the dedicated short-link store
	NamespaceShortLink Namespace = "short_link"
	// NamespaceProfileLink is the general links store used by profile pages
	NamespaceProfileLink Namespace = "profile_link"
)

// TargetKind describes how a short code resolves
type TargetKind string

const (
	TargetPlain    TargetKind = "plain"
	TargetDeeplink TargetKind = "deeplink"
	TargetQR       TargetKind = "qr"
)

// Valid reports whether k is a known target kind
func (k TargetKind) Valid() bool {
	switch k {
	case TargetPlain, TargetDeeplink, TargetQR:
		return true
	}
	return false
}

// LinkKey addresses a link across both namespaces
type LinkKey struct {
	Namespace Namespace `json:"namespace"`
	ID        int64     `json:"id"`
}

func (k LinkKey) String() string {
	return fmt.Sprintf("%s/%d", k.Namespace, k.ID)
}

// ShortLinkEntry is a short code with its redirect target and counters
type ShortLinkEntry struct {
	ID          int64      `json:"id"`
	Namespace   Namespace  `json:"namespace"`
	ShortCode   string     `json:"short_code"`
	OwnerID     string     `json:"owner_id"`
	Title       string     `json:"title,omitempty"`
	TargetKind  TargetKind `json:"target_kind"`
	OriginalURL string     `json:"original_url"`
	ClickCount  int64      `json:"click_count"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Key returns the entry's cross-namespace key
func (e *ShortLinkEntry) Key() LinkKey {
	return LinkKey{Namespace: e.Namespace, ID: e.ID}
}

// NewLink holds the fields needed to insert a link
type NewLink struct {
	ShortCode   string
	OwnerID     string
	Title       string
	TargetKind  TargetKind
	OriginalURL string
	CreatedAt   time.Time
}

// CreateLinkRequest represents the request to create a short link
type CreateLinkRequest struct {
	URL        string          `json:"url"`
	Kind       TargetKind      `json:"kind,omitempty"`
	CodeLength int             `json:"code_length,omitempty"`
	Deeplink   *DeeplinkConfig `json:"deeplink,omitempty"`
}

// CreateLinkResponse represents the response when creating a short link
type CreateLinkResponse struct {
	ShortCode   string     `json:"short_code"`
	ShortURL    string     `json:"short_url"`
	Kind        TargetKind `json:"kind"`
	OriginalURL string     `json:"original_url"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CreateProfileLinkRequest represents the request to add a link to a profile page
type CreateProfileLinkRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// PreviewRequest asks which destination a config would pick for a user agent
type PreviewRequest struct {
	Config    DeeplinkConfig `json:"config"`
	UserAgent string         `json:"user_agent"`
}

// PreviewResponse is the outcome of a deeplink preview
type PreviewResponse struct {
	URL         string      `json:"url"`
	Source      string      `json:"source"`
	DeviceClass DeviceClass `json:"device_class"`
	OSFamily    OSFamily    `json:"os_family"`
}
