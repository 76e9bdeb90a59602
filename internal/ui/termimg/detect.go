package termimg

import (
	"os"
	"strings"
)

// Detect returns the protocol to use. name is the configured protocol:
// "kitty", "sixel", "halfblock" and "none" force a choice, anything else
// queries the terminal. It returns nil when images are disabled.
func Detect(name string) Protocol {
	switch name {
	case "kitty":
		return NewKitty()
	case "sixel":
		return NewSixel()
	case "halfblock":
		return NewHalfblock()
	case "none":
		return nil
	}

	if IsKittySupported() {
		return NewKitty()
	}
	if IsSixelSupported() {
		return NewSixel()
	}
	return NewHalfblock()
}

// IsKittySupported checks if the terminal supports the Kitty graphics
// protocol.
func IsKittySupported() bool {
	// Contour sets CONTOUR_PROFILE but does not speak Kitty; parent terminal
	// variables can leak into it.
	if os.Getenv("CONTOUR_PROFILE") != "" {
		return false
	}

	if os.Getenv("KITTY_WINDOW_ID") != "" {
		return true
	}
	if os.Getenv("TERM_PROGRAM") == "WezTerm" {
		return true
	}
	if os.Getenv("GHOSTTY_RESOURCES_DIR") != "" {
		return true
	}
	if version := os.Getenv("KONSOLE_VERSION"); len(version) >= 4 && version[:4] >= "2204" {
		return true
	}
	return strings.Contains(os.Getenv("TERM"), "kitty")
}

// IsSixelSupported checks if the terminal supports Sixel graphics.
func IsSixelSupported() bool {
	term := os.Getenv("TERM")
	switch os.Getenv("TERM_PROGRAM") {
	case "vscode", "mintty", "iTerm.app", "contour":
		return true
	}
	if os.Getenv("CONTOUR_PROFILE") != "" {
		return true
	}
	return term == "foot" || term == "foot-extra" || term == "mlterm"
}
