// Package ui provides shared UI constants and utilities.
package ui

// Layout constants shared by the app and its panels.
const (
	// BorderHeight is the vertical space consumed by a standard panel border.
	BorderHeight = 2

	// BorderWidth is the horizontal space consumed by a standard panel border.
	BorderWidth = 2

	// HeaderHeight is the workflow tab bar.
	HeaderHeight = 1

	// StatusHeight is the status bar including its border.
	StatusHeight = 3

	// SidebarWidth is the parameter panel width including its border.
	SidebarWidth = 38

	// MinCanvasWidth is the narrowest canvas worth drawing an image in.
	// Below it the sidebar is hidden.
	MinCanvasWidth = 30
)
