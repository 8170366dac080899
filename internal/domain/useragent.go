package domain

// DeviceClass is the coarse category of a visiting client
type DeviceClass string

const (
	DeviceUnknown DeviceClass = "unknown"
	DeviceMobile  DeviceClass = "mobile"
	DeviceTablet  DeviceClass = "tablet"
	DeviceDesktop DeviceClass = "desktop"
)

// OSFamily is the normalized operating system of a visiting client
type OSFamily string

const (
	OSUnknown      OSFamily = "unknown"
	OSIOS          OSFamily = "ios"
	OSAndroid      OSFamily = "android"
	OSWindowsPhone OSFamily = "windows_phone"
	OSWindows      OSFamily = "windows"
	OSMacOS        OSFamily = "macos"
	OSLinux        OSFamily = "linux"
	OSChromeOS     OSFamily = "chrome_os"
)

// ParsedUserAgent is the classification of a raw user-agent string.
// The Is* helpers are derived so they can never disagree with each other.
type ParsedUserAgent struct {
	DeviceClass DeviceClass `json:"device_class"`
	OSFamily    OSFamily    `json:"os_family"`
}

func (p ParsedUserAgent) IsIOS() bool {
	return p.OSFamily == OSIOS
}

func (p ParsedUserAgent) IsAndroid() bool {
	return p.OSFamily == OSAndroid
}

// IsMobile is true for phones and tablets
func (p ParsedUserAgent) IsMobile() bool {
	return p.DeviceClass == DeviceMobile || p.DeviceClass == DeviceTablet
}

func (p ParsedUserAgent) IsDesktop() bool {
	return p.DeviceClass == DeviceDesktop
}
