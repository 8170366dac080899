// Package deeplink picks the destination of a deeplink for a visiting user agent.
//
// Precedence, first match wins:
//
//  1. custom user-agent rules, in order, case-insensitive substring match
//  2. iOS target, when the visitor runs iOS
//  3. Android target, when the visitor runs Android
//  4. desktop target, when the visitor is classified as desktop
//  5. fallback URL, then original URL
//
// A platform whose target is absent never borrows another platform's target;
// it falls through to step 5.
package deeplink

import (
	"strings"

	"github.com/joshdurbin/linkbio/internal/domain"
	"github.com/joshdurbin/linkbio/internal/useragent"
)

// Source names the step that produced a resolution
type Source string

const (
	SourceCustomRule Source = "custom_rule"
	SourceIOS        Source = "ios"
	SourceAndroid    Source = "android"
	SourceDesktop    Source = "desktop"
	SourceFallback   Source = "fallback"
	SourceOriginal   Source = "original"
)

// Resolution is the chosen destination together with how it was chosen
type Resolution struct {
	URL    string
	Source Source
	// Rule is the index of the matching custom rule, or -1
	Rule  int
	Agent domain.ParsedUserAgent
}

// Resolve returns the destination for cfg and the raw user agent
func Resolve(cfg *domain.DeeplinkConfig, rawUserAgent string) string {
	return Evaluate(cfg, rawUserAgent).URL
}

// Evaluate runs the precedence chain. It never fails; a config holding only
// OriginalURL always yields OriginalURL.
func Evaluate(cfg *domain.DeeplinkConfig, rawUserAgent string) Resolution {
	if cfg == nil {
		return Resolution{Source: SourceOriginal, Rule: -1, Agent: useragent.Parse(rawUserAgent)}
	}

	if i, target, ok := matchRule(cfg.UserAgentRules, rawUserAgent); ok {
		return Resolution{URL: target, Source: SourceCustomRule, Rule: i, Agent: useragent.Parse(rawUserAgent)}
	}

	agent := useragent.Parse(rawUserAgent)
	res := Resolution{Rule: -1, Agent: agent}

	switch {
	case agent.IsIOS() && cfg.IOSURL != "":
		res.URL, res.Source = cfg.IOSURL, SourceIOS
	case agent.IsAndroid() && cfg.AndroidURL != "":
		res.URL, res.Source = cfg.AndroidURL, SourceAndroid
	case agent.IsDesktop() && cfg.DesktopURL != "":
		res.URL, res.Source = cfg.DesktopURL, SourceDesktop
	case cfg.FallbackURL != "":
		res.URL, res.Source = cfg.FallbackURL, SourceFallback
	default:
		res.URL, res.Source = cfg.OriginalURL, SourceOriginal
	}

	return res
}

func matchRule(rules domain.UserAgentRules, rawUserAgent string) (int, string, bool) {
	if len(rules) == 0 {
		return -1, "", false
	}

	ua := strings.ToLower(rawUserAgent)
	for i, rule := range rules {
		if rule.Pattern == "" {
			continue
		}
		if strings.Contains(ua, strings.ToLower(rule.Pattern)) {
			return i, rule.URL, true
		}
	}
	return -1, "", false
}
