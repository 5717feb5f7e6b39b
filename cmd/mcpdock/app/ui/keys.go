package ui

// Key strings as reported by bubbletea's KeyMsg.String().
const (
	keyCtrlC = "ctrl+c"
	keyEsc   = "esc"
	keyEnter = "enter"
	keySpace = " "
	keyUp    = "up"
	keyDown  = "down"
	keyJ     = "j"
	keyK     = "k"
	keyQ     = "q"
	keyY     = "y"
	keyN     = "n"
	keyE     = "e"
)
