// Package theme holds the light and dark color palettes and the store that
// remembers which one the user picked.
package theme

import (
	"strconv"
	"strings"
)

type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

// Status bar styles.
const (
	StatusBarDarkContent  = "dark-content"
	StatusBarLightContent = "light-content"
)

// Palette is the full set of named colors for one mode. Colors are
// "#RRGGBB" or "#RRGGBBAA".
type Palette struct {
	Primary      string `json:"primary"`
	PrimaryDark  string `json:"primaryDark"`
	PrimaryLight string `json:"primaryLight"`

	Background          string `json:"background"`
	BackgroundSecondary string `json:"backgroundSecondary"`
	BackgroundTertiary  string `json:"backgroundTertiary"`

	Surface          string `json:"surface"`
	SurfaceSecondary string `json:"surfaceSecondary"`
	Card             string `json:"card"`

	TextPrimary     string `json:"textPrimary"`
	TextSecondary   string `json:"textSecondary"`
	TextTertiary    string `json:"textTertiary"`
	TextPlaceholder string `json:"textPlaceholder"`

	Border      string `json:"border"`
	BorderLight string `json:"borderLight"`
	Divider     string `json:"divider"`

	Success string `json:"success"`
	Warning string `json:"warning"`
	Error   string `json:"error"`
	Info    string `json:"info"`

	Memorial      string `json:"memorial"`
	MemorialLight string `json:"memorialLight"`
	MemorialDark  string `json:"memorialDark"`

	StatusBar           string `json:"statusBar"`
	StatusBarBackground string `json:"statusBarBackground"`
}

var LightPalette = Palette{
	Primary:      "#4A90E2",
	PrimaryDark:  "#357ABD",
	PrimaryLight: "#7BB3E8",

	Background:          "#FFFFFF",
	BackgroundSecondary: "#F8F9FA",
	BackgroundTertiary:  "#F5F5F5",

	Surface:          "#FFFFFF",
	SurfaceSecondary: "#F8F9FA",
	Card:             "#FFFFFF",

	TextPrimary:     "#1A1A1A",
	TextSecondary:   "#666666",
	TextTertiary:    "#999999",
	TextPlaceholder: "#CCCCCC",

	Border:      "#E0E0E0",
	BorderLight: "#F0F0F0",
	Divider:     "#EEEEEE",

	Success: "#28A745",
	Warning: "#FFC107",
	Error:   "#DC3545",
	Info:    "#17A2B8",

	Memorial:      "#6B73FF",
	MemorialLight: "#9C9EFF",
	MemorialDark:  "#4A52CC",

	StatusBar:           StatusBarDarkContent,
	StatusBarBackground: "#FFFFFF",
}

var DarkPalette = Palette{
	Primary:      "#e63737ff",
	PrimaryDark:  "#4A90E2",
	PrimaryLight: "#7BB3E8",

	Background:          "#121212",
	BackgroundSecondary: "#1E1E1E",
	BackgroundTertiary:  "#2A2A2A",

	Surface:          "#1E1E1E",
	SurfaceSecondary: "#2A2A2A",
	Card:             "#2A2A2A",

	TextPrimary:     "#FFFFFF",
	TextSecondary:   "#CCCCCC",
	TextTertiary:    "#999999",
	TextPlaceholder: "#666666",

	Border:      "#404040",
	BorderLight: "#333333",
	Divider:     "#2A2A2A",

	Success: "#4CAF50",
	Warning: "#FF9800",
	Error:   "#F44336",
	Info:    "#2196F3",

	Memorial:      "#7C84FF",
	MemorialLight: "#9C9EFF",
	MemorialDark:  "#5B63E8",

	StatusBar:           StatusBarLightContent,
	StatusBarBackground: "#121212",
}

// PaletteFor returns the palette of mode. Anything but Dark is Light.
func PaletteFor(mode Mode) Palette {
	if mode == Dark {
		return DarkPalette
	}
	return LightPalette
}

// RGB parses "#RRGGBB" or "#RRGGBBAA"; alpha is ignored.
func RGB(hex string) (r, g, b uint8, ok bool) {
	h := strings.TrimPrefix(hex, "#")
	if len(h) != 6 && len(h) != 8 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(h[:6], 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}
