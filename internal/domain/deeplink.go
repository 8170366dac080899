package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// DeeplinkConfig holds the per-platform destinations of a deeplink.
// Empty optional fields are treated as absent.
type DeeplinkConfig struct {
	OriginalURL    string         `json:"original_url"`
	IOSURL         string         `json:"ios_url,omitempty"`
	AndroidURL     string         `json:"android_url,omitempty"`
	DesktopURL     string         `json:"desktop_url,omitempty"`
	FallbackURL    string         `json:"fallback_url,omitempty"`
	UserAgentRules UserAgentRules `json:"user_agent_rules,omitempty"`
}

// Clone returns a copy that shares no rule storage with c
func (c *DeeplinkConfig) Clone() *DeeplinkConfig {
	if c == nil {
		return nil
	}
	out := *c
	if c.UserAgentRules != nil {
		out.UserAgentRules = append(UserAgentRules(nil), c.UserAgentRules...)
	}
	return &out
}

// Validate checks that the original URL is set and every present URL is absolute http(s)
func (c *DeeplinkConfig) Validate() error {
	if strings.TrimSpace(c.OriginalURL) == "" {
		return &ValidationError{Field: "original_url", Reason: "is required"}
	}

	fields := []struct {
		name  string
		value string
	}{
		{"original_url", c.OriginalURL},
		{"ios_url", c.IOSURL},
		{"android_url", c.AndroidURL},
		{"desktop_url", c.DesktopURL},
		{"fallback_url", c.FallbackURL},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if err := ValidateTargetURL(f.value); err != nil {
			return &ValidationError{Field: f.name, Reason: err.Error()}
		}
	}

	for i, rule := range c.UserAgentRules {
		field := fmt.Sprintf("user_agent_rules[%d]", i)
		if strings.TrimSpace(rule.Pattern) == "" {
			return &ValidationError{Field: field, Reason: "pattern cannot be empty"}
		}
		if err := ValidateTargetURL(rule.URL); err != nil {
			return &ValidationError{Field: field, Reason: err.Error()}
		}
	}

	return nil
}

// ValidateTargetURL accepts only absolute HTTP and HTTPS URLs
func ValidateTargetURL(raw string) error {
	parsed, err := url.ParseRequestURI(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid URL: only HTTP and HTTPS are supported")
	}
	if parsed.Host == "" {
		return fmt.Errorf("invalid URL: missing host")
	}
	return nil
}

// UserAgentRule overrides platform detection when Pattern occurs in the user agent
type UserAgentRule struct {
	Pattern string `json:"pattern"`
	URL     string `json:"url"`
}

// UserAgentRules is evaluated in slice order; the first match wins
type UserAgentRules []UserAgentRule

// UnmarshalJSON accepts either an array of rules or an object of pattern to URL.
// Object key order is kept.
func (r *UserAgentRules) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*r = nil
		return nil
	}

	if len(trimmed) > 0 && trimmed[0] == '[' {
		var rules []UserAgentRule
		if err := json.Unmarshal(trimmed, &rules); err != nil {
			return fmt.Errorf("invalid user agent rules: %w", err)
		}
		*r = rules
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("invalid user agent rules: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("invalid user agent rules: expected array or object")
	}

	var rules UserAgentRules
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("invalid user agent rules: %w", err)
		}
		pattern, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("invalid user agent rules: expected string key")
		}
		var target string
		if err := dec.Decode(&target); err != nil {
			return fmt.Errorf("invalid user agent rules: value for %q: %w", pattern, err)
		}
		rules = append(rules, UserAgentRule{Pattern: pattern, URL: target})
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("invalid user agent rules: %w", err)
	}

	*r = rules
	return nil
}
