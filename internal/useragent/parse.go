// Package useragent classifies raw User-Agent headers into a device class and OS family.
package useragent

import (
	"strings"

	uaparser "github.com/mileusna/useragent"

	"github.com/joshdurbin/linkbio/internal/domain"
)

// crawlers the parser does not flag as bots
var crawlerTokens = []string{"crawler", "spider", "headless"}

var osFamilies = map[string]domain.OSFamily{
	uaparser.IOS:          domain.OSIOS,
	uaparser.Android:      domain.OSAndroid,
	uaparser.WindowsPhone: domain.OSWindowsPhone,
	uaparser.Windows:      domain.OSWindows,
	uaparser.MacOS:        domain.OSMacOS,
	uaparser.Linux:        domain.OSLinux,
	uaparser.ChromeOS:     domain.OSChromeOS,
}

// Parse classifies raw. It has no side effects: the same input always yields
// the same result. Anything it cannot place is reported as unknown rather than
// guessed.
func Parse(raw string) domain.ParsedUserAgent {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.ParsedUserAgent{DeviceClass: domain.DeviceUnknown, OSFamily: domain.OSUnknown}
	}

	ua := uaparser.Parse(raw)
	lower := strings.ToLower(raw)
	os := osFamily(ua, lower)

	return domain.ParsedUserAgent{
		DeviceClass: deviceClass(ua, lower, os),
		OSFamily:    os,
	}
}

func osFamily(ua uaparser.UserAgent, lower string) domain.OSFamily {
	switch {
	// Windows Phone claims Android, and 8.1 also claims "like iPhone OS"
	case strings.Contains(lower, "windows phone"):
		return domain.OSWindowsPhone
	case containsAny(lower, "iphone", "ipad", "ipod"):
		return domain.OSIOS
	// Chrome OS sends X11 and Linux tokens as well
	case strings.Contains(lower, " cros "):
		return domain.OSChromeOS
	}

	if family, ok := osFamilies[ua.OS]; ok {
		return family
	}
	return domain.OSUnknown
}

func deviceClass(ua uaparser.UserAgent, lower string, os domain.OSFamily) domain.DeviceClass {
	switch {
	case ua.Bot, containsAny(lower, crawlerTokens...):
		return domain.DeviceUnknown
	case ua.Tablet, containsAny(lower, "ipad", "tablet"),
		os == domain.OSAndroid && !strings.Contains(lower, "mobile"):
		return domain.DeviceTablet
	case ua.Mobile, containsAny(lower, "iphone", "ipod", "mobile", "windows phone", "blackberry", "opera mini"):
		return domain.DeviceMobile
	}

	switch os {
	case domain.OSWindows, domain.OSMacOS, domain.OSLinux, domain.OSChromeOS:
		return domain.DeviceDesktop
	}
	return domain.DeviceUnknown
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
