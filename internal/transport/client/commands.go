package client

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joshdurbin/linkbio/internal/domain"
)

// Commands provides command-line operations for the client
type Commands struct {
	client *Client
	out    io.Writer
}

// NewCommands creates a new Commands instance printing to stdout
func NewCommands(client *Client) *Commands {
	return &Commands{
		client: client,
		out:    os.Stdout,
	}
}

// SetOutput redirects command output
func (c *Commands) SetOutput(w io.Writer) {
	c.out = w
}

// Create creates a short link and displays the result
func (c *Commands) Create(ctx context.Context, req domain.CreateLinkRequest) error {
	result, err := c.client.CreateLink(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Short link created:\n")
	fmt.Fprintf(c.out, "Short Code: %s\n", result.ShortCode)
	fmt.Fprintf(c.out, "Short URL: %s\n", result.ShortURL)
	fmt.Fprintf(c.out, "Kind: %s\n", result.Kind)
	fmt.Fprintf(c.out, "Original URL: %s\n", result.OriginalURL)
	fmt.Fprintf(c.out, "Created At: %s\n", result.CreatedAt.Format(time.RFC3339))

	return nil
}

// Get retrieves and displays information about a short link, including its deeplink config
func (c *Commands) Get(ctx context.Context, shortCode string) error {
	link, err := c.client.GetLink(ctx, shortCode)
	if err != nil {
		if IsNotFound(err) {
			fmt.Fprintf(c.out, "Short code '%s' not found\n", shortCode)
			return nil
		}
		return err
	}

	fmt.Fprintf(c.out, "Link Information:\n")
	fmt.Fprintf(c.out, "Short Code: %s\n", link.ShortCode)
	fmt.Fprintf(c.out, "Short URL: %s\n", link.ShortURL)
	fmt.Fprintf(c.out, "Kind: %s\n", link.TargetKind)
	fmt.Fprintf(c.out, "Original URL: %s\n", link.OriginalURL)
	fmt.Fprintf(c.out, "Active: %t\n", link.IsActive)
	fmt.Fprintf(c.out, "Created At: %s\n", link.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(c.out, "Click Count: %d\n", link.ClickCount)

	if link.TargetKind != domain.TargetDeeplink {
		return nil
	}

	cfg, err := c.client.GetDeeplinkConfig(ctx, shortCode)
	if err != nil {
		if IsNotFound(err) {
			fmt.Fprintf(c.out, "Deeplink: not configured\n")
			return nil
		}
		return err
	}
	c.printConfig(cfg)

	return nil
}

// Deactivate soft-deletes a short link
func (c *Commands) Deactivate(ctx context.Context, shortCode string) error {
	err := c.client.DeactivateLink(ctx, shortCode)
	if err != nil {
		if IsNotFound(err) {
			fmt.Fprintf(c.out, "Short code '%s' not found\n", shortCode)
			return nil
		}
		return err
	}

	fmt.Fprintf(c.out, "Short link '%s' deactivated\n", shortCode)
	return nil
}

// List displays the caller's short links in a table
func (c *Commands) List(ctx context.Context) error {
	links, err := c.client.ListLinks(ctx)
	if err != nil {
		return err
	}

	if len(links) == 0 {
		fmt.Fprintln(c.out, "No links found")
		return nil
	}

	fmt.Fprintf(c.out, "%-10s %-9s %-50s %-20s %-7s %s\n", "Short Code", "Kind", "Original URL", "Created At", "Active", "Clicks")
	fmt.Fprintln(c.out, strings.Repeat("-", 110))

	for _, link := range links {
		fmt.Fprintf(c.out, "%-10s %-9s %-50s %-20s %-7t %d\n",
			link.ShortCode,
			link.TargetKind,
			truncate(link.OriginalURL, 50),
			link.CreatedAt.Format("2006-01-02 15:04:05"),
			link.IsActive,
			link.ClickCount,
		)
	}

	return nil
}

// AddProfileLink adds a titled link to the caller's profile page
func (c *Commands) AddProfileLink(ctx context.Context, title, targetURL string) error {
	link, err := c.client.CreateProfileLink(ctx, domain.CreateProfileLinkRequest{Title: title, URL: targetURL})
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Profile link created:\n")
	fmt.Fprintf(c.out, "Title: %s\n", link.Title)
	fmt.Fprintf(c.out, "Short URL: %s\n", link.ShortURL)
	return nil
}

// ListProfileLinks displays the caller's profile links
func (c *Commands) ListProfileLinks(ctx context.Context) error {
	links, err := c.client.ListProfileLinks(ctx)
	if err != nil {
		return err
	}

	if len(links) == 0 {
		fmt.Fprintln(c.out, "No profile links found")
		return nil
	}

	fmt.Fprintf(c.out, "%-10s %-30s %-50s %s\n", "Short Code", "Title", "URL", "Clicks")
	fmt.Fprintln(c.out, strings.Repeat("-", 100))
	for _, link := range links {
		fmt.Fprintf(c.out, "%-10s %-30s %-50s %d\n",
			link.ShortCode, truncate(link.Title, 30), truncate(link.OriginalURL, 50), link.ClickCount)
	}
	return nil
}

// Preview shows which destination a config picks for a user agent
func (c *Commands) Preview(ctx context.Context, req domain.PreviewRequest) error {
	result, err := c.client.PreviewDeeplink(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Destination: %s\n", result.URL)
	fmt.Fprintf(c.out, "Chosen By: %s\n", result.Source)
	fmt.Fprintf(c.out, "Device: %s\n", result.DeviceClass)
	fmt.Fprintf(c.out, "OS: %s\n", result.OSFamily)
	return nil
}

func (c *Commands) printConfig(cfg *domain.DeeplinkConfig) {
	fmt.Fprintf(c.out, "Deeplink:\n")
	for _, f := range []struct{ label, value string }{
		{"iOS", cfg.IOSURL},
		{"Android", cfg.AndroidURL},
		{"Desktop", cfg.DesktopURL},
		{"Fallback", cfg.FallbackURL},
	} {
		if f.value != "" {
			fmt.Fprintf(c.out, "  %s: %s\n", f.label, f.value)
		}
	}
	for i, rule := range cfg.UserAgentRules {
		fmt.Fprintf(c.out, "  Rule %d: %q -> %s\n", i+1, rule.Pattern, rule.URL)
	}
}

// ParseRules turns "pattern=url" flags into ordered rules
func ParseRules(values []string) (domain.UserAgentRules, error) {
	var rules domain.UserAgentRules
	for _, v := range values {
		pattern, target, found := strings.Cut(v, "=")
		if !found || pattern == "" || target == "" {
			return nil, fmt.Errorf("invalid rule %q, expected pattern=url", v)
		}
		rules = append(rules, domain.UserAgentRule{Pattern: pattern, URL: target})
	}
	return rules, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
