package deeplink

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joshdurbin/linkbio/internal/domain"
)

const (
	iphoneUA  = "Mozilla/5.0 (iPhone; CPU iPhone OS 15_0 like Mac OS X)"
	androidUA = "Mozilla/5.0 (Linux; Android 12)"
	windowsUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64)"
	kaiosUA   = "Mozilla/5.0 (Mobile; rv:48.0) Gecko/48.0 Firefox/48.0 KAIOS/2.5"
	botUA     = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"
	lumiaUA   = "Mozilla/5.0 (Mobile; Windows Phone 8.1; Android 4.0; ARM; Trident/7.0; Touch; rv:11.0; IEMobile/11.0; NOKIA; Lumia 635) like iPhone OS 7_0_3 Mac OS X AppleWebKit/537 (KHTML, like Gecko) Mobile Safari/537"
)

var sampleAgents = []string{
	iphoneUA,
	androidUA,
	windowsUA,
	kaiosUA,
	botUA,
	lumiaUA,
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)",
	"Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X)",
	"curl/8.1.2",
	"",
}

func TestResolve_EndToEnd(t *testing.T) {
	cfg := &domain.DeeplinkConfig{
		OriginalURL: "https://example.com",
		IOSURL:      "https://apps.apple.com/app/test",
		AndroidURL:  "https://play.google.com/store/apps/details?id=com.test",
	}

	assert.Equal(t, "https://apps.apple.com/app/test", Resolve(cfg, iphoneUA))
	assert.Equal(t, "https://play.google.com/store/apps/details?id=com.test", Resolve(cfg, androidUA))
	assert.Equal(t, "https://example.com", Resolve(cfg, windowsUA))
}

func TestResolve_Determinism(t *testing.T) {
	cfg := &domain.DeeplinkConfig{
		OriginalURL: "https://example.com",
		IOSURL:      "https://ios.example",
		DesktopURL:  "https://desktop.example",
		FallbackURL: "https://fallback.example",
		UserAgentRules: domain.UserAgentRules{
			{Pattern: "FBAN", URL: "https://facebook.example"},
		},
	}

	for _, ua := range sampleAgents {
		first := Resolve(cfg, ua)
		assert.Equal(t, first, Resolve(cfg, ua), "ua %q", ua)
	}
}

func TestResolve_FallbackTotality(t *testing.T) {
	cfg := &domain.DeeplinkConfig{OriginalURL: "https://example.com"}

	for _, ua := range sampleAgents {
		assert.Equal(t, "https://example.com", Resolve(cfg, ua), "ua %q", ua)
	}
}

func TestResolve_CustomRulePrecedence(t *testing.T) {
	cfg := &domain.DeeplinkConfig{
		OriginalURL: "https://example.com",
		IOSURL:      "https://ios.example",
		UserAgentRules: domain.UserAgentRules{
			{Pattern: "iphone", URL: "https://custom.example"},
		},
	}

	res := Evaluate(cfg, iphoneUA)
	assert.Equal(t, "https://custom.example", res.URL)
	assert.Equal(t, SourceCustomRule, res.Source)
	assert.Equal(t, 0, res.Rule)
}

func TestResolve_CustomRulesInOrder(t *testing.T) {
	cfg := &domain.DeeplinkConfig{
		OriginalURL: "https://example.com",
		UserAgentRules: domain.UserAgentRules{
			{Pattern: "Instagram", URL: "https://instagram.example"},
			{Pattern: "Mozilla", URL: "https://mozilla.example"},
			{Pattern: "iPhone", URL: "https://iphone.example"},
		},
	}

	res := Evaluate(cfg, iphoneUA+" Instagram 300.0")
	assert.Equal(t, "https://instagram.example", res.URL)
	assert.Equal(t, 0, res.Rule)

	res = Evaluate(cfg, iphoneUA)
	assert.Equal(t, "https://mozilla.example", res.URL)
	assert.Equal(t, 1, res.Rule)
}

func TestResolve_CustomRuleCaseInsensitive(t *testing.T) {
	cfg := &domain.DeeplinkConfig{
		OriginalURL: "https://example.com",
		UserAgentRules: domain.UserAgentRules{
			{Pattern: "FbAn/FBios", URL: "https://facebook.example"},
		},
	}

	assert.Equal(t, "https://facebook.example", Resolve(cfg, "Mozilla/5.0 (iPhone) [FBAN/FBIOS;FBAV/420.0]"))
	assert.Equal(t, "https://example.com", Resolve(cfg, iphoneUA))
}

func TestResolve_CustomRuleIsSubstringNotRegex(t *testing.T) {
	cfg := &domain.DeeplinkConfig{
		OriginalURL: "https://example.com",
		UserAgentRules: domain.UserAgentRules{
			{Pattern: "i.hone", URL: "https://regex.example"},
		},
	}

	assert.Equal(t, "https://example.com", Resolve(cfg, iphoneUA))
}

func TestResolve_EmptyPatternSkipped(t *testing.T) {
	cfg := &domain.DeeplinkConfig{
		OriginalURL: "https://example.com",
		AndroidURL:  "https://android.example",
		UserAgentRules: domain.UserAgentRules{
			{Pattern: "", URL: "https://everything.example"},
		},
	}

	res := Evaluate(cfg, androidUA)
	assert.Equal(t, "https://android.example", res.URL)
	assert.Equal(t, -1, res.Rule)
}

func TestResolve_IOSWithoutIOSURLDoesNotBorrow(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *domain.DeeplinkConfig
		expected string
		source   Source
	}{
		{
			name: "lands on original",
			cfg: &domain.DeeplinkConfig{
				OriginalURL: "https://example.com",
				AndroidURL:  "https://android.example",
				DesktopURL:  "https://desktop.example",
			},
			expected: "https://example.com",
			source:   SourceOriginal,
		},
		{
			name: "lands on fallback",
			cfg: &domain.DeeplinkConfig{
				OriginalURL: "https://example.com",
				AndroidURL:  "https://android.example",
				FallbackURL: "https://fallback.example",
			},
			expected: "https://fallback.example",
			source:   SourceFallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Evaluate(tt.cfg, iphoneUA)
			assert.Equal(t, tt.expected, res.URL)
			assert.Equal(t, tt.source, res.Source)
		})
	}
}

func TestResolve_AndroidWithoutAndroidURL(t *testing.T) {
	cfg := &domain.DeeplinkConfig{
		OriginalURL: "https://example.com",
		IOSURL:      "https://ios.example",
		DesktopURL:  "https://desktop.example",
	}

	assert.Equal(t, "https://example.com", Resolve(cfg, androidUA))
}

func TestResolve_OtherMobileSkipsDesktop(t *testing.T) {
	cfg := &domain.DeeplinkConfig{
		OriginalURL: "https://example.com",
		IOSURL:      "https://ios.example",
		AndroidURL:  "https://android.example",
		DesktopURL:  "https://desktop.example",
		FallbackURL: "https://fallback.example",
	}

	res := Evaluate(cfg, kaiosUA)
	assert.Equal(t, "https://fallback.example", res.URL)
	assert.Equal(t, SourceFallback, res.Source)
	assert.Equal(t, domain.DeviceMobile, res.Agent.DeviceClass)
}

func TestResolve_WindowsPhoneSkipsStoreLinks(t *testing.T) {
	cfg := &domain.DeeplinkConfig{
		OriginalURL: "https://example.com",
		IOSURL:      "https://ios.example",
		AndroidURL:  "https://android.example",
		DesktopURL:  "https://desktop.example",
		FallbackURL: "https://fallback.example",
	}

	res := Evaluate(cfg, lumiaUA)
	assert.Equal(t, "https://fallback.example", res.URL)
	assert.Equal(t, SourceFallback, res.Source)
	assert.Equal(t, domain.OSWindowsPhone, res.Agent.OSFamily)
	assert.True(t, res.Agent.IsMobile())
}

func TestResolve_UnclassifiedDeviceFallsThrough(t *testing.T) {
	cfg := &domain.DeeplinkConfig{
		OriginalURL: "https://example.com",
		IOSURL:      "https://ios.example",
		AndroidURL:  "https://android.example",
		DesktopURL:  "https://desktop.example",
	}

	for _, ua := range []string{botUA, "curl/8.1.2", "", "totally unknown agent"} {
		res := Evaluate(cfg, ua)
		assert.Equal(t, "https://example.com", res.URL, "ua %q", ua)
		assert.Equal(t, SourceOriginal, res.Source, "ua %q", ua)
		assert.Equal(t, domain.DeviceUnknown, res.Agent.DeviceClass, "ua %q", ua)
	}
}

func TestResolve_DesktopRule(t *testing.T) {
	cfg := &domain.DeeplinkConfig{
		OriginalURL: "https://example.com",
		IOSURL:      "https://ios.example",
		DesktopURL:  "https://desktop.example",
	}

	res := Evaluate(cfg, windowsUA)
	assert.Equal(t, "https://desktop.example", res.URL)
	assert.Equal(t, SourceDesktop, res.Source)
	assert.Equal(t, "https://desktop.example", Resolve(cfg, "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)"))
}

func TestResolve_NilConfig(t *testing.T) {
	res := Evaluate(nil, iphoneUA)
	assert.Empty(t, res.URL)
	assert.Equal(t, SourceOriginal, res.Source)
}
