package core

// Color is a foreground color for a screen cell. The platform maps it to a
// terminal palette entry.
type Color uint8

// Colors used by the game.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorCyan
	ColorWhite
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightCyan
	ColorOrange
	ColorGray
)
