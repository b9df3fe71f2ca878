package tray

import _ "embed"

// 16x16 pad glyph, 32-bit ICO.
//
//go:embed icon.ico
var icon []byte

// GetIcon returns the embedded tray icon.
func GetIcon() []byte {
	return icon
}
